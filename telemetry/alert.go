// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"crypto/tls"
	"fmt"
	"log"

	mail "gopkg.in/gomail.v2"
)

// Alerter e-mails operators when the periodic task's cumulative
// ring-full wait count reaches a threshold, following cmd/eda-ctl's
// alertMail pattern.
type Alerter struct {
	msg *log.Logger

	threshold int
	usr, pwd  string
	srv       string
	port      int
	targets   []string

	sent bool
}

// NewAlerter builds an Alerter that fires once threshold ring-full
// waits have accumulated, mailing targets through the SMTP server at
// srv:port authenticating as usr/pwd.
func NewAlerter(threshold int, srv string, port int, usr, pwd string, targets []string) *Alerter {
	return &Alerter{
		msg:       log.Default(),
		threshold: threshold,
		usr:       usr,
		pwd:       pwd,
		srv:       srv,
		port:      port,
		targets:   targets,
	}
}

// Observe reports the current cumulative ring-full wait count. It sends
// at most one alert until Reset is called, to avoid flooding operators.
func (a *Alerter) Observe(ringFullCount int) {
	if a.sent || ringFullCount < a.threshold {
		return
	}
	a.sent = true

	if a.usr == "" || a.pwd == "" || a.srv == "" || a.port == 0 || len(a.targets) == 0 {
		a.msg.Printf("telemetry: could not send ring-full alert: missing mail credentials")
		return
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", a.usr)
	msg.SetHeader("Bcc", a.targets...)
	msg.SetHeader("Subject", "[uac-simd] ring-full alert")
	msg.SetBody("text/plain", fmt.Sprintf(
		"the periodic task's ring buffer has been full %d times, crossing the configured threshold of %d.\n"+
			"the 1ms tick is falling behind the EtherCAT bus cycle.", ringFullCount, a.threshold,
	))

	dial := mail.NewDialer(a.srv, a.port, a.usr, a.pwd)
	dial.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	if err := dial.DialAndSend(msg); err != nil {
		a.msg.Printf("telemetry: could not send ring-full alert: %+v", err)
	}
}

// Reset allows a further alert to be sent once the threshold is crossed
// again.
func (a *Alerter) Reset() { a.sent = false }

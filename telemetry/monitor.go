// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/sbinet/pmon"
	"gonum.org/v1/gonum/stat"

	"github.com/attolab/uacfw/fw"
	"github.com/attolab/uacfw/internal/crc16"
)

// Monitor wires a running fw.Controller to process monitoring, rolling
// tick-duration statistics, an operator log and alerting, the way
// cmd/daq-boot's pmon.Monitor wraps a spawned DAQ process -- except here
// the monitored process is the controller's own host, sampled through
// fw's hooks instead of pmon's external-PID polling for the hot path.
type Monitor struct {
	msg *log.Logger

	window   int
	ticks    []float64
	ringFull int
	dedups   int

	log   *Log
	alert *Alerter

	pmon *pmon.Process

	mu sync.Mutex
}

// NewMonitor starts process monitoring for the current process (at the
// given sampling frequency, written to w as pmon.Monitor.Run does) and
// returns a Monitor that will summarize a window of window tick
// durations at a time.
func NewMonitor(w io.Writer, freq time.Duration, window int) (*Monitor, error) {
	p, err := pmon.Monitor(os.Getpid())
	if err != nil {
		return nil, fmt.Errorf("telemetry: could not start process monitor: %w", err)
	}
	p.W = w
	p.Freq = freq

	m := &Monitor{
		msg:    log.New(w, "telemetry: ", 0),
		window: window,
		ticks:  make([]float64, 0, window),
		pmon:   p,
	}

	go func() {
		if err := p.Run(); err != nil {
			m.msg.Printf("process monitor stopped: %+v", err)
		}
	}()

	return m, nil
}

// WithLog attaches an operator log that persists ring-full and dedup
// counters to MySQL.
func (m *Monitor) WithLog(l *Log) *Monitor { m.log = l; return m }

// WithAlert attaches an e-mail alerter triggered by ring-full pressure.
func (m *Monitor) WithAlert(a *Alerter) *Monitor { m.alert = a; return m }

// Close stops process monitoring and releases any attached log.
func (m *Monitor) Close() error {
	var errs []error
	if err := m.pmon.Kill(); err != nil {
		errs = append(errs, err)
	}
	if m.log != nil {
		if err := m.log.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) != 0 {
		return fmt.Errorf("telemetry: errors closing monitor: %v", errs)
	}
	return nil
}

// Hooks returns the fw.Option set a Controller should be constructed
// with to feed this Monitor: a tick-duration sampler, a ring-full
// counter and a dedup counter, plus a dispatch hook that checksums and
// logs every frame the periodic task writes.
func (m *Monitor) Hooks() []fw.Option {
	return []fw.Option{
		fw.WithTickHook(m.onTick),
		fw.WithRingWaitHook(m.onRingWait),
		fw.WithDedupHook(m.onDedup),
		fw.WithDispatchHook(m.onDispatch),
	}
}

func (m *Monitor) onTick(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ticks = append(m.ticks, d.Seconds())
	if len(m.ticks) < m.window {
		return
	}

	mean, std := stat.MeanStdDev(m.ticks, nil)
	m.msg.Printf("tick window: n=%d mean=%v stddev=%v", len(m.ticks), time.Duration(mean*float64(time.Second)), time.Duration(std*float64(time.Second)))
	if m.log != nil {
		m.log.RecordTickStats(len(m.ticks), mean, std)
	}
	m.ticks = m.ticks[:0]
}

func (m *Monitor) onRingWait() {
	m.mu.Lock()
	m.ringFull++
	n := m.ringFull
	m.mu.Unlock()

	if m.log != nil {
		m.log.RecordRingFull()
	}
	if m.alert != nil {
		m.alert.Observe(n)
	}
}

func (m *Monitor) onDedup(msgID uint8) {
	m.mu.Lock()
	m.dedups++
	m.mu.Unlock()

	if m.log != nil {
		m.log.RecordDedup(msgID)
	}
}

func (m *Monitor) onDispatch(h fw.Header, b fw.Body) {
	if m.log == nil {
		return
	}

	sum := crc16.New(nil)
	hb, err := h.MarshalBinary()
	if err != nil {
		m.msg.Printf("could not marshal header for checksum: %+v", err)
		return
	}
	bb, err := b.MarshalBinary()
	if err != nil {
		m.msg.Printf("could not marshal body for checksum: %+v", err)
		return
	}
	sum.Write(hb)
	sum.Write(bb)

	m.log.RecordFrame(h.MsgID, sum.Sum16())
}

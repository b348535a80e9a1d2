// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fw is the frame-dispatch and streaming-write engine of the
// phased-array ultrasound controller board: the bounded ring that
// decouples the EtherCAT receive context from the 1ms periodic task,
// the control-flag classifier, and the four mode writers (modulation,
// point-STM, gain-STM, normal gain).
//
// Controller.Receive stands in for the EtherCAT receive ISR.
// Controller.Tick stands in for the 1ms periodic task.
package fw // import "github.com/attolab/uacfw/fw"

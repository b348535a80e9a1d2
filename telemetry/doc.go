// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package telemetry is an ambient diagnostics sidecar for package fw: it
// subscribes to a Controller's hooks the way eda.Device's daq sub-struct
// drains rfmSinks, and turns them into process monitoring, rolling tick
// statistics, an operator-facing MySQL log, threshold e-mail alerts and
// per-frame checksums. None of it is device state; fw itself never
// imports telemetry or touches a database.
package telemetry // import "github.com/attolab/uacfw/telemetry"

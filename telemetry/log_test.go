// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"strings"
	"testing"

	"github.com/attolab/uacfw/internal/fakedb"
)

func init() {
	drvName = "fakedb"
}

func TestOpenLog(t *testing.T) {
	log, err := OpenLog("localhost", "usr", "pwd", "fakedb")
	if err != nil {
		t.Fatalf("could not open log: %+v", err)
	}
	defer log.Close()

	execs := fakedb.Execs()
	var creates int
	for _, e := range execs {
		if strings.HasPrefix(e.Query, "CREATE TABLE") {
			creates++
		}
	}
	if got, want := creates, 4; got != want {
		t.Fatalf("create-table count: got=%d, want=%d", got, want)
	}
}

func TestRecordRingFull(t *testing.T) {
	log, err := OpenLog("localhost", "usr", "pwd", "fakedb")
	if err != nil {
		t.Fatalf("could not open log: %+v", err)
	}
	defer log.Close()

	fakedb.Execs() // drain the CREATE TABLE calls from Open

	log.RecordRingFull()
	log.RecordDedup(7)
	log.RecordFrame(5, 0xBEEF)
	log.RecordTickStats(100, 0.0009, 0.0001)

	execs := fakedb.Execs()
	if got, want := len(execs), 4; got != want {
		t.Fatalf("exec count: got=%d, want=%d", got, want)
	}

	if got, want := len(execs[1].Args), 1; got != want {
		t.Fatalf("dedup exec arg count: got=%d, want=%d", got, want)
	}
	if got, want := execs[1].Args[0].(int64), int64(7); got != want {
		t.Fatalf("dedup exec msg_id: got=%v, want=%v", got, want)
	}
}

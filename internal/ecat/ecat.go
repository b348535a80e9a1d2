// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ecat models the EtherCAT shared-memory contract of spec §6:
// two byte-addressed RX regions (Body, Header), one TX region (the
// 16-bit ack word) and a free-running 64-bit DC_CYC_START_TIME
// register, built the same way internal/bram models the FPGA BRAM.
package ecat // import "github.com/attolab/uacfw/internal/ecat"

import "encoding/binary"

// Shared is the EtherCAT device's shared-memory surface.
type Shared interface {
	// Body returns the current RX0 payload bytes (2*N).
	Body() []byte
	// Header returns the current RX1 payload bytes (128).
	Header() []byte
	// SetAck publishes the 16-bit ack word into the TX region.
	SetAck(ack uint16)
	// Ack returns the last-published ack word.
	Ack() uint16
	// DCCycStartTime returns the next synchronized tick, the EC
	// DC_CYC_START_TIME register.
	DCCycStartTime() uint64
}

// Sim is an in-memory Shared implementation for tests and the
// simulator command server.
type Sim struct {
	body   []byte
	header []byte
	ack    uint16
	dcSync uint64
}

// NewSim returns a Sim with a bodySize-byte RX0 region and a 128-byte
// RX1 region.
func NewSim(bodySize int) *Sim {
	return &Sim{
		body:   make([]byte, bodySize),
		header: make([]byte, 128),
	}
}

func (s *Sim) Body() []byte   { return s.body }
func (s *Sim) Header() []byte { return s.header }

func (s *Sim) SetAck(ack uint16) { s.ack = ack }
func (s *Sim) Ack() uint16       { return s.ack }

func (s *Sim) DCCycStartTime() uint64 { return s.dcSync }

// SetDCCycStartTime sets the simulated DC_CYC_START_TIME register; used
// by tests to exercise the synchronizer (spec §4.5).
func (s *Sim) SetDCCycStartTime(v uint64) { s.dcSync = v }

// PutHeader copies h into the RX1 region, zero-padded/truncated to 128
// bytes.
func (s *Sim) PutHeader(h []byte) {
	n := copy(s.header, h)
	for i := n; i < len(s.header); i++ {
		s.header[i] = 0
	}
}

// PutBody copies b into the RX0 region, zero-padded/truncated to the
// region size.
func (s *Sim) PutBody(b []byte) {
	n := copy(s.body, b)
	for i := n; i < len(s.body); i++ {
		s.body[i] = 0
	}
}

var _ Shared = (*Sim)(nil)

// le is the byte order of the wire layout (spec §6: "little-endian host
// order").
var le = binary.LittleEndian

// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package regs holds the word-offset constants of the controller-board
// BRAM map referenced by spec §6. Offsets are in 16-bit words, relative
// to the start of the BRAM_SELECT_CONTROLLER region unless noted.
package regs // import "github.com/attolab/uacfw/internal/regs"

// NumTransducers is the compile-time channel count of the transducer
// array (N in spec §3).
const NumTransducers = 249

// Region selects one of the controller board's four word-addressed
// BRAM regions.
type Region uint8

const (
	Controller Region = iota
	Mod
	Normal
	STM
)

// Controller-region word offsets.
const (
	CtlReg        = 0x0000
	FPGAInfo      = 0x0001
	VersionNum    = 0x0002
	SilentCycle   = 0x0003
	SilentStep    = 0x0004
	ModFreqDiv0   = 0x0010 // 2 words, 32-bit little-endian
	ModCycle      = 0x0020
	ModAddrOffset = 0x0021
	StmFreqDiv0   = 0x0030 // 2 words, 32-bit little-endian
	SoundSpeed0   = 0x0032 // 2 words, 32-bit little-endian
	StmCycle      = 0x0040
	StmAddrOffset = 0x0041
	EcSyncTime0   = 0x0050 // 4 words, 64-bit little-endian

	// CycleBase and ModDelayBase are NumTransducers-word tables; give
	// each table room so neither overruns into the next.
	CycleBase    = 0x0100
	ModDelayBase = CycleBase + 2*NumTransducers
)

// LW_H2F_SPAN is the byte span of the controller BRAM window mapped
// through the lightweight HPS-to-FPGA bridge, sized generously above
// the highest table in use.
const LW_H2F_SPAN = 2 * (ModDelayBase + NumTransducers)

// FPGA BRAM base physical address on the real board; only meaningful
// to the MMap backend.
const FPGABase = 0x1F000000

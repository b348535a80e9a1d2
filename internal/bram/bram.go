// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bram is the "abstract sink" called for by spec §9: a
// word-addressed region interface standing in for the FPGA's block-RAM,
// with a Sim backend for tests and an MMap backend for the real board.
// It generalizes the register-access idiom of the go-lpc/mim eda
// package (reg32, daqFIFO) to the four named BRAM regions of spec §6.
package bram // import "github.com/attolab/uacfw/internal/bram"

import (
	"fmt"

	"github.com/attolab/uacfw/internal/regs"
)

// Region is a word-addressed sink. Offsets are in 16-bit words.
// Implementations never reorder a caller's sequence of writes; callers
// that must not let a region-offset switch be observed ahead of the
// writes it follows (the segmented writers in package fw) are
// responsible for issuing the switch's WriteWord only after the
// preceding BulkCopy has returned.
type Region interface {
	ReadWord(off uint16) (uint16, error)
	WriteWord(off uint16, v uint16) error
	BulkCopy(off uint16, src []uint16) error
	BulkSet(off uint16, v uint16, nWords int) error
	// AddrOf returns the absolute word offset of off within this
	// region's backing store, for callers that need to compute a
	// stride address themselves.
	AddrOf(off uint16) uint16
}

// Set bundles the four BRAM regions a controller board exposes.
type Set struct {
	Controller Region
	Mod        Region
	Normal     Region
	STM        Region
}

// Of returns the region identified by id.
func (s *Set) Of(id regs.Region) Region {
	switch id {
	case regs.Controller:
		return s.Controller
	case regs.Mod:
		return s.Mod
	case regs.Normal:
		return s.Normal
	case regs.STM:
		return s.STM
	default:
		panic(fmt.Sprintf("bram: unknown region %d", id))
	}
}

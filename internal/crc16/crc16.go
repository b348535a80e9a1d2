// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package crc16 implements the CRC-16/CCITT-FALSE checksum, used by
// telemetry to tag dispatched frames for audit and replay.
package crc16 // import "github.com/attolab/uacfw/internal/crc16"

import "hash"

// Table is a CRC-16 lookup table built from a polynomial.
type Table [256]uint16

const poly = 0x1021

// Hash16 is the common interface implemented by all 16-bit hash
// functions, analogous to hash.Hash32 and hash.Hash64 in the standard
// library's hash package.
type Hash16 interface {
	hash.Hash
	Sum16() uint16
}

// IBMCRC is the CRC-16/CCITT-FALSE table (poly 0x1021, init 0xFFFF,
// no reflection).
var IBMCRC = MakeTable(poly)

// MakeTable builds a CRC-16 lookup table for the given (non-reflected)
// polynomial.
func MakeTable(poly uint16) *Table {
	var t Table
	for i := 0; i < 256; i++ {
		crc := uint16(i) << 8
		for b := 0; b < 8; b++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return &t
}

type digest struct {
	crc uint16
	tab *Table
}

// New returns a new Hash16 computing the CRC-16 checksum using the
// given table. A nil table selects IBMCRC.
func New(tab *Table) Hash16 {
	if tab == nil {
		tab = IBMCRC
	}
	d := &digest{tab: tab}
	d.Reset()
	return d
}

func (d *digest) Reset() { d.crc = 0xFFFF }

func (d *digest) Size() int      { return 2 }
func (d *digest) BlockSize() int { return 1 }

func (d *digest) Write(p []byte) (int, error) {
	crc := d.crc
	tab := d.tab
	for _, b := range p {
		crc = (crc << 8) ^ tab[byte(crc>>8)^b]
	}
	d.crc = crc
	return len(p), nil
}

func (d *digest) Sum16() uint16 { return d.crc }

func (d *digest) Sum(in []byte) []byte {
	s := d.Sum16()
	return append(in, byte(s>>8), byte(s))
}

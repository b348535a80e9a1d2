// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bram

import "fmt"

// Sim is an in-memory word-addressed BRAM region, the "simulated BRAM"
// of spec §8's testable properties.
type Sim struct {
	words []uint16
}

// NewSim returns a Sim region of n words, all zeroed.
func NewSim(n int) *Sim {
	return &Sim{words: make([]uint16, n)}
}

func (s *Sim) ReadWord(off uint16) (uint16, error) {
	if int(off) >= len(s.words) {
		return 0, fmt.Errorf("bram: read offset %d out of range (len=%d)", off, len(s.words))
	}
	return s.words[off], nil
}

func (s *Sim) WriteWord(off uint16, v uint16) error {
	if int(off) >= len(s.words) {
		return fmt.Errorf("bram: write offset %d out of range (len=%d)", off, len(s.words))
	}
	s.words[off] = v
	return nil
}

func (s *Sim) BulkCopy(off uint16, src []uint16) error {
	if int(off)+len(src) > len(s.words) {
		return fmt.Errorf("bram: bulk copy at offset %d of %d words out of range (len=%d)", off, len(src), len(s.words))
	}
	copy(s.words[off:], src)
	return nil
}

func (s *Sim) BulkSet(off uint16, v uint16, nWords int) error {
	if int(off)+nWords > len(s.words) {
		return fmt.Errorf("bram: bulk set at offset %d of %d words out of range (len=%d)", off, nWords, len(s.words))
	}
	for i := 0; i < nWords; i++ {
		s.words[int(off)+i] = v
	}
	return nil
}

func (s *Sim) AddrOf(off uint16) uint16 { return off }

// Words returns the raw backing slice, for assertions in tests.
func (s *Sim) Words() []uint16 { return s.words }

var _ Region = (*Sim)(nil)

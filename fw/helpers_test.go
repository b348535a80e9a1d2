// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fw

import (
	"github.com/attolab/uacfw/internal/bram"
	"github.com/attolab/uacfw/internal/ecat"
	"github.com/attolab/uacfw/internal/regs"
)

// newTestController wires a Controller over Sim BRAM regions sized
// generously above every table and segment the writers touch, and a
// Sim EtherCAT device — the harness spec §8 calls for.
func newTestController(opts ...Option) (*Controller, *bram.Set, *ecat.Sim) {
	regions := &bram.Set{
		Controller: bram.NewSim(regs.LW_H2F_SPAN / 2),
		Mod:        bram.NewSim(1 << 16),
		Normal:     bram.NewSim(2 * NumTransducers),
		STM:        bram.NewSim(1 << 16),
	}
	shared := ecat.NewSim(2 * NumTransducers)
	c := NewController(regions, shared, opts...)
	return c, regions, shared
}

func putFrame(shared *ecat.Sim, h *Header, b *Body) {
	hb, _ := h.MarshalBinary()
	shared.PutHeader(hb)
	if b != nil {
		bb, _ := b.MarshalBinary()
		shared.PutBody(bb)
	}
}

// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fw

import "github.com/attolab/uacfw/internal/regs"

// synchronize programs the per-channel cycle table and the EtherCAT
// sync time, and latches the SYNC bit (spec §4.5). It runs in the
// receive context, bypassing the ring.
func (c *Controller) synchronize(h *Header, b *Body) {
	cycle := b.Cycle()
	nextSync0 := c.ecat.DCCycStartTime()

	c.setErr(c.bram.Controller.BulkCopy(regs.CycleBase, cycle))
	c.setErr(c.bram.Controller.BulkCopy(regs.EcSyncTime0, u64Words(nextSync0)))

	c.setErr(c.bram.Controller.WriteWord(regs.CtlReg, uint16(h.FPGACtlReg)|uint16(fpgaSync)))

	copy(c.cycle[:], cycle)
}

func u64Words(v uint64) []uint16 {
	return []uint16{
		uint16(v),
		uint16(v >> 16),
		uint16(v >> 32),
		uint16(v >> 48),
	}
}

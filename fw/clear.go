// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fw

import "github.com/attolab/uacfw/internal/regs"

// Clear brings the controller back to its power-on state (spec §4.12):
// invoked once at boot and again on every MSG_CLEAR datagram.
func (c *Controller) Clear() {
	c.readFPGAInfo.Store(false)

	ctl := c.bram.Controller
	c.setErr(ctl.WriteWord(regs.CtlReg, uint16(fpgaLegacyMode)))

	c.setErr(ctl.WriteWord(regs.SilentStep, defaultSilentStep))
	c.setErr(ctl.WriteWord(regs.SilentCycle, defaultSilentCycle))

	c.stmCycle = 0

	c.modCycle = 2
	c.setErr(ctl.WriteWord(regs.ModCycle, uint16(max32(1, c.modCycle)-1)))
	c.setErr(ctl.BulkCopy(regs.ModFreqDiv0, u32Words(defaultModFreqDiv)))
	c.setErr(c.bram.Mod.WriteWord(0, 0x0000))

	c.setErr(c.bram.Normal.BulkSet(0, 0x0000, NumTransducers))

	c.ring.reset()
}

func max32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

func u32Words(v uint32) []uint16 {
	return []uint16{uint16(v & 0xFFFF), uint16(v >> 16)}
}

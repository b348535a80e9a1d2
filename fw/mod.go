// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fw

import (
	"encoding/binary"

	"github.com/attolab/uacfw/internal/regs"
)

// writeMod appends the modulation samples of h into the segmented
// modulation buffer (spec §4.3). h.CPUCtlReg's MOD_BEGIN/MOD_END bits
// bracket an upload: MOD_BEGIN resets mod_cycle and loads freq_div,
// MOD_END latches the FPGA MOD_CYCLE register.
func (c *Controller) writeMod(h *Header) {
	intent := decodeCPUIntent(h.CPUCtlReg)
	write := uint32(h.Size)

	var data []byte
	if intent.modBegin {
		c.modCycle = 0
		c.setErr(c.bram.Controller.WriteWord(regs.ModAddrOffset, 0))
		c.setErr(c.bram.Controller.BulkCopy(regs.ModFreqDiv0, u32Words(h.ModHeadFreqDiv())))
		data = h.ModHeadData()
	} else {
		data = h.ModBodyData()
	}

	segmentCapacity := (c.modCycle &^ modSegMask) + modSegSize - c.modCycle

	if write <= segmentCapacity {
		c.bulkCopyModWords(c.modCycle&modSegMask>>1, data, write)
		c.modCycle += write
	} else {
		c.bulkCopyModWords(c.modCycle&modSegMask>>1, data, segmentCapacity)
		c.modCycle += segmentCapacity
		data = data[segmentCapacity:]

		c.setErr(c.bram.Controller.WriteWord(regs.ModAddrOffset, uint16(c.modCycle&^modSegMask>>modSegShift)))

		remaining := write - segmentCapacity
		c.bulkCopyModWords(c.modCycle&modSegMask>>1, data, remaining)
		c.modCycle += remaining
	}

	if intent.modEnd {
		c.setErr(c.bram.Controller.WriteWord(regs.ModCycle, uint16(max32(1, c.modCycle)-1)))
	}
}

// bulkCopyModWords copies ceil(nBytes/2) u16 words, little-endian, from
// data into the Mod region at word offset off. nBytes may be odd: the
// caller is assumed to submit an even size except on the final frame
// of an upload (spec §9), so the trailing half-word reads one byte
// into the frame's own padding rather than past data's end.
func (c *Controller) bulkCopyModWords(off uint32, data []byte, nBytes uint32) {
	n := (nBytes + 1) / 2
	words := make([]uint16, n)
	for i := uint32(0); i < n; i++ {
		words[i] = binary.LittleEndian.Uint16(data[2*i:])
	}
	c.setErr(c.bram.Mod.BulkCopy(uint16(off), words))
}

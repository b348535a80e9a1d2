// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fw

import "github.com/attolab/uacfw/internal/regs"

// frameSlotWords is the 2^9-word STM BRAM slot one gain-STM frame
// consumes, addressed at stride 2 per channel (spec §4.8).
const frameSlotWords = 1 << 9

// writeGainSTM is the hardest writer in the controller: it dispatches
// over seq_gain_data_mode crossed with LEGACY_MODE/IS_DUTY (spec §4.8).
// A STM_BEGIN frame carries no transducer data; it only latches
// freq_div and seq_gain_data_mode for the body frames that follow.
func (c *Controller) writeGainSTM(h *Header, b *Body) {
	fpga := decodeFPGAIntent(h.FPGACtlReg)
	cpu := decodeCPUIntent(h.CPUCtlReg)

	if cpu.stmBegin {
		c.stmCycle = 0
		c.setErr(c.bram.Controller.WriteWord(regs.StmAddrOffset, 0))
		body := b.GainSTMBody()
		c.setErr(c.bram.Controller.BulkCopy(regs.StmFreqDiv0, body[0:2]))
		c.seqGainDataMode = b.GainSTMHeadMode()
		return
	}

	src := b.GainSTMBody()
	switch c.seqGainDataMode {
	case GainDataModePhaseFull:
		c.writeGainPhaseFull(fpga, cpu, src)
	case GainDataModePhaseHalf:
		c.writeGainPhaseHalf(fpga, src)
	default: // GainDataModePhaseDutyFull and any unrecognized mode
		c.writeGainPhaseDutyFull(fpga, cpu, src)
	}

	if cpu.stmEnd {
		c.setErr(c.bram.Controller.WriteWord(regs.StmCycle, uint16(max32(1, c.stmCycle)-1)))
	}
}

func (c *Controller) writeGainPhaseDutyFull(fpga fpgaIntent, cpu cpuIntent, src []uint16) {
	if fpga.legacyMode {
		c.writeGainSlot(0, src)
		c.advanceSTM()
		return
	}
	if cpu.isDuty {
		c.writeGainSlot(1, src)
		c.advanceSTM()
		return
	}
	c.writeGainSlot(0, src)
}

func (c *Controller) writeGainPhaseFull(fpga fpgaIntent, cpu cpuIntent, src []uint16) {
	if fpga.legacyMode {
		lo := make([]uint16, len(src))
		for i, v := range src {
			lo[i] = 0xFF00 | (v & 0x00FF)
		}
		c.writeGainSlot(0, lo)
		c.advanceSTM()

		hi := make([]uint16, len(src))
		for i, v := range src {
			hi[i] = 0xFF00 | ((v >> 8) & 0x00FF)
		}
		c.writeGainSlot(0, hi)
		c.advanceSTM()
		return
	}

	if cpu.isDuty {
		return
	}

	slot := c.stmCycle & gainSTMSegMask
	base := slot * frameSlotWords
	for i, v := range src {
		second := c.cycle[i+1] >> 1
		c.setErr(c.bram.STM.WriteWord(uint16(base+uint32(2*i)), v))
		c.setErr(c.bram.STM.WriteWord(uint16(base+uint32(2*i+1)), second))
	}
	c.advanceSTM()
}

func (c *Controller) writeGainPhaseHalf(fpga fpgaIntent, src []uint16) {
	if !fpga.legacyMode {
		return
	}
	for pass := 0; pass < 4; pass++ {
		shift := uint(pass * 4)
		words := make([]uint16, len(src))
		for i, v := range src {
			p := (v >> shift) & 0x000F
			words[i] = 0xFF00 | (p << 4) | p
		}
		c.writeGainSlot(0, words)
		c.advanceSTM()
	}
}

// writeGainSlot writes values at stride 2 with the given sub-word
// offset (0 or 1) into the STM BRAM slot for the current stm_cycle.
func (c *Controller) writeGainSlot(off uint32, values []uint16) {
	base := (c.stmCycle & gainSTMSegMask) * frameSlotWords
	for i, v := range values {
		c.setErr(c.bram.STM.WriteWord(uint16(base+uint32(2*i)+off), v))
	}
}

// advanceSTM increments stm_cycle and, on crossing a gain-STM segment
// boundary, updates the STM address-offset register (spec §4.8).
func (c *Controller) advanceSTM() {
	c.stmCycle++
	if c.stmCycle&gainSTMSegMask == 0 {
		c.setErr(c.bram.Controller.WriteWord(regs.StmAddrOffset, uint16(c.stmCycle>>gainSTMSegShift)))
	}
}

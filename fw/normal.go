// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fw

// writeNormalOp writes the N gain values of b into the NORMAL BRAM
// with stride 2 (spec §4.6). In legacy mode both halves of a channel's
// {phase,duty} pair are encoded in one word and land at offset 0 of
// each pair; otherwise IS_DUTY selects offset 0 (phase) or 1 (duty).
func (c *Controller) writeNormalOp(h *Header, b *Body) {
	fpga := decodeFPGAIntent(h.FPGACtlReg)
	cpu := decodeCPUIntent(h.CPUCtlReg)

	base := c.bram.Normal

	var off uint16
	if !fpga.legacyMode && cpu.isDuty {
		off = 1
	}

	src := b.Normal()
	for i, v := range src {
		c.setErr(base.WriteWord(uint16(2*i)+off, v))
	}
}

// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fw

import "github.com/attolab/uacfw/internal/regs"

// pointWords is the wire width of one STM point's data; pointSlotStride
// is the word stride between consecutive points in STM BRAM — 4 data
// words followed by 4 skipped words (spec §4.7).
const (
	pointWords      = 4
	pointSlotStride = 8
)

// writePointSTM appends the points of h into the segmented point-STM
// buffer (spec §4.7). STM_BEGIN resets stm_cycle and loads freq_div /
// sound_speed from the head packet; STM_END latches the FPGA STM_CYCLE
// register. Point data wraps across pointSTMSegSize-point segments the
// same way writeMod wraps across modSegSize-sample segments.
func (c *Controller) writePointSTM(h *Header, b *Body) {
	intent := decodeCPUIntent(h.CPUCtlReg)

	var points []uint16
	var write uint32
	if intent.stmBegin {
		c.stmCycle = 0
		c.setErr(c.bram.Controller.WriteWord(regs.StmAddrOffset, 0))
		c.setErr(c.bram.Controller.BulkCopy(regs.StmFreqDiv0, u32Words(b.PointSTMHeadFreqDiv())))
		c.setErr(c.bram.Controller.BulkCopy(regs.SoundSpeed0, u32Words(b.PointSTMHeadSoundSpeed())))
		points = b.PointSTMHeadPoints()
		write = uint32(b.PointSTMHeadSize())
	} else {
		points = b.PointSTMBodyPoints()
		write = uint32(b.PointSTMBodySize())
	}

	c.writeSTMPoints(points, write)

	if intent.stmEnd {
		c.setErr(c.bram.Controller.WriteWord(regs.StmCycle, uint16(max32(1, c.stmCycle)-1)))
	}
}

// writeSTMPoints copies n points (pointWords u16 words each) from
// points into the STM region at the controller's current stm_cycle,
// wrapping across the pointSTMSegSize segment boundary exactly once:
// an upload is assumed never to span more than two segments per frame
// (spec §4.7 invariant).
func (c *Controller) writeSTMPoints(points []uint16, n uint32) {
	segmentCapacity := ((c.stmCycle &^ pointSTMSegMask) + pointSTMSegSize - c.stmCycle)

	if n <= segmentCapacity {
		c.bulkCopySTMWords(c.stmCycle&pointSTMSegMask, points, n)
		c.stmCycle += n
		return
	}

	c.bulkCopySTMWords(c.stmCycle&pointSTMSegMask, points, segmentCapacity)
	c.stmCycle += segmentCapacity
	points = points[segmentCapacity*pointWords:]

	c.setErr(c.bram.Controller.WriteWord(regs.StmAddrOffset, uint16(c.stmCycle&^pointSTMSegMask>>pointSTMSegShift)))

	remaining := n - segmentCapacity
	c.bulkCopySTMWords(c.stmCycle&pointSTMSegMask, points, remaining)
	c.stmCycle += remaining
}

// bulkCopySTMWords writes n points' worth of data words (pointWords
// each) from points, one BulkCopy per point since consecutive points
// are not contiguous in STM BRAM (stride pointSlotStride, not
// pointWords).
func (c *Controller) bulkCopySTMWords(off uint32, points []uint16, n uint32) {
	for i := uint32(0); i < n; i++ {
		word := points[i*pointWords : i*pointWords+pointWords]
		c.setErr(c.bram.STM.BulkCopy(uint16((off+i)*pointSlotStride), word))
	}
}

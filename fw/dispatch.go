// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fw

import (
	"time"

	"github.com/attolab/uacfw/internal/regs"
)

// Tick runs the periodic context's work for one 1ms cycle (spec §4.10):
// drain at most one ring entry, dispatch it to the appropriate writer,
// then refresh and publish the ack word. It never blocks.
func (c *Controller) Tick() {
	start := time.Now()

	h, b, ok := c.ring.Pop()
	if ok {
		c.onDispatch(h, b)
		c.dispatch(&h, &b)
	}

	if c.msgIDLast != MsgRDCPUVersion && c.msgIDLast != MsgRDFPGAVersion &&
		c.msgIDLast != MsgRDFPGAFunction && c.readFPGAInfo.Load() {
		c.reloadFPGAInfo()
	}

	c.ecat.SetAck(c.ackWord())

	c.onTick(time.Since(start))
}

// dispatch implements spec §4.10's six-step decision tree.
func (c *Controller) dispatch(h *Header, b *Body) {
	fpga := decodeFPGAIntent(h.FPGACtlReg)
	cpu := decodeCPUIntent(h.CPUCtlReg)

	c.setErr(c.bram.Controller.WriteWord(regs.CtlReg, uint16(h.FPGACtlReg)))

	if cpu.isMod {
		c.writeMod(h)
	} else if cpu.configSilencer {
		c.configSilencer(h)
	}

	if !cpu.writeBody {
		return
	}

	if cpu.modDelay {
		c.setModDelay(b)
		return
	}

	if !fpga.opModeSTM {
		c.writeNormalOp(h, b)
		return
	}

	if !fpga.stmGainMode {
		c.writePointSTM(h, b)
	} else {
		c.writeGainSTM(h, b)
	}
}

// Receive runs the receive context's work for one EtherCAT frame
// (spec §4.11): classify msg_id, deduplicate, resolve CONFIG_SYNC and
// the read-only requests directly, and otherwise hand the frame to the
// periodic task via the ring.
func (c *Controller) Receive() {
	var h Header
	if err := h.UnmarshalBinary(c.ecat.Header()); err != nil {
		c.setErr(err)
		return
	}

	if h.MsgID == c.msgIDLast {
		c.onDedup(h.MsgID)
		c.ecat.SetAck(c.ackWord())
		return
	}
	c.msgIDLast = h.MsgID
	c.setAck(uint16(h.MsgID) << 8)

	fpga := decodeFPGAIntent(h.FPGACtlReg)
	c.readFPGAInfo.Store(fpga.readsFPGAInfo)
	if fpga.readsFPGAInfo {
		c.reloadFPGAInfo()
	}

	switch h.MsgID {
	case MsgClear:
		c.Clear()
	case MsgRDCPUVersion:
		c.setAckLow(byte(CPUVersion & 0xFF))
	case MsgRDFPGAVersion:
		c.setAckLow(byte(c.readFPGAVersion() & 0xFF))
	case MsgRDFPGAFunction:
		c.setAckLow(byte(c.readFPGAVersion() >> 8 & 0xFF))
	default:
		c.receiveDataFrame(&h)
	}

	c.ecat.SetAck(c.ackWord())
}

func (c *Controller) receiveDataFrame(h *Header) {
	if h.MsgID > MsgEnd {
		return
	}

	cpu := decodeCPUIntent(h.CPUCtlReg)
	if !cpu.isMod && cpu.configSync {
		var b Body
		if err := b.UnmarshalBinary(c.ecat.Body()); err != nil {
			c.setErr(err)
			return
		}
		c.synchronize(h, &b)
		return
	}

	var b Body
	if err := b.UnmarshalBinary(c.ecat.Body()); err != nil {
		c.setErr(err)
		return
	}
	for !c.ring.Push(*h, b) {
		c.onRingWait()
	}
}

func (c *Controller) readFPGAVersion() uint16 {
	v, err := c.bram.Controller.ReadWord(regs.VersionNum)
	c.setErr(err)
	return v
}

func (c *Controller) reloadFPGAInfo() {
	v, err := c.bram.Controller.ReadWord(regs.FPGAInfo)
	c.setErr(err)
	c.setAckLow(byte(v & 0xFF))
}

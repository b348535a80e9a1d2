// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fw

import "testing"

// Deduplication: submitting the same msg_id twice in a row results in
// exactly one classification.
func TestDeduplication(t *testing.T) {
	var dedups int
	c, _, shared := newTestController(WithDedupHook(func(uint8) { dedups++ }))

	putFrame(shared, &Header{MsgID: MsgRDCPUVersion}, nil)
	c.Receive()
	c.Receive() // same msg_id again: must be ignored

	if got, want := dedups, 1; got != want {
		t.Fatalf("dedup count: got=%d, want=%d", got, want)
	}
	if got, want := shared.Ack(), uint16(0x0182); got != want {
		t.Fatalf("ack unaffected by the dup: got=0x%04x, want=0x%04x", got, want)
	}
}

// Clear idempotence: clear followed by clear leaves FPGA state
// identical; ack is 0 after clear if no prior msg_id was served.
func TestClearIdempotence(t *testing.T) {
	c, regions, shared := newTestController()

	if got, want := shared.Ack(), uint16(0); got != want {
		t.Fatalf("ack after construction: got=0x%04x, want=0x%04x", got, want)
	}

	c.Clear()
	snap1 := append([]uint16(nil), regions.Controller.(interface{ Words() []uint16 }).Words()...)
	c.Clear()
	snap2 := regions.Controller.(interface{ Words() []uint16 }).Words()

	for i := range snap1 {
		if snap1[i] != snap2[i] {
			t.Fatalf("clear not idempotent at word %d: got=0x%04x, want=0x%04x", i, snap2[i], snap1[i])
		}
	}
}

// Gain-STM advance law (spec §8).
func TestGainSTMAdvanceLaw(t *testing.T) {
	newBegin := func(mode uint16, legacy bool) (Header, Body) {
		var h Header
		h.MsgID = MsgBegin
		h.FPGACtlReg = fpgaOpMode | fpgaSTMGainMode
		if legacy {
			h.FPGACtlReg |= fpgaLegacyMode
		}
		h.CPUCtlReg = cpuWriteBody | cpuSTMBegin
		var b Body
		b.Words[2] = mode
		return h, b
	}

	t.Run("PHASE_DUTY_FULL RAW IS_DUTY=false does not advance", func(t *testing.T) {
		c, _, shared := newTestController()
		h, b := newBegin(GainDataModePhaseDutyFull, false)
		putFrame(shared, &h, &b)
		c.Receive()
		c.Tick()

		var fh Header
		fh.MsgID = MsgBegin + 1
		fh.FPGACtlReg = fpgaOpMode | fpgaSTMGainMode
		fh.CPUCtlReg = cpuWriteBody
		var fb Body
		putFrame(shared, &fh, &fb)
		c.Receive()
		c.Tick()

		if got, want := c.stmCycle, uint32(0); got != want {
			t.Fatalf("stm_cycle: got=%d, want=%d", got, want)
		}

		var fh2 Header
		fh2.MsgID = MsgBegin + 2
		fh2.FPGACtlReg = fpgaOpMode | fpgaSTMGainMode
		fh2.CPUCtlReg = cpuWriteBody | cpuIsDuty
		putFrame(shared, &fh2, &fb)
		c.Receive()
		c.Tick()

		if got, want := c.stmCycle, uint32(1); got != want {
			t.Fatalf("stm_cycle after IS_DUTY frame: got=%d, want=%d", got, want)
		}
	})

	t.Run("PHASE_DUTY_FULL LEGACY advances by 1", func(t *testing.T) {
		c, _, shared := newTestController()
		h, b := newBegin(GainDataModePhaseDutyFull, true)
		putFrame(shared, &h, &b)
		c.Receive()
		c.Tick()

		var fh Header
		fh.MsgID = MsgBegin + 1
		fh.FPGACtlReg = fpgaOpMode | fpgaSTMGainMode | fpgaLegacyMode
		fh.CPUCtlReg = cpuWriteBody
		var fb Body
		putFrame(shared, &fh, &fb)
		c.Receive()
		c.Tick()

		if got, want := c.stmCycle, uint32(1); got != want {
			t.Fatalf("stm_cycle: got=%d, want=%d", got, want)
		}
	})

	t.Run("PHASE_FULL LEGACY advances by 2", func(t *testing.T) {
		c, _, shared := newTestController()
		h, b := newBegin(GainDataModePhaseFull, true)
		putFrame(shared, &h, &b)
		c.Receive()
		c.Tick()

		var fh Header
		fh.MsgID = MsgBegin + 1
		fh.FPGACtlReg = fpgaOpMode | fpgaSTMGainMode | fpgaLegacyMode
		fh.CPUCtlReg = cpuWriteBody
		var fb Body
		putFrame(shared, &fh, &fb)
		c.Receive()
		c.Tick()

		if got, want := c.stmCycle, uint32(2); got != want {
			t.Fatalf("stm_cycle: got=%d, want=%d", got, want)
		}
	})

	t.Run("PHASE_HALF LEGACY advances by 4", func(t *testing.T) {
		c, _, shared := newTestController()
		h, b := newBegin(GainDataModePhaseHalf, true)
		putFrame(shared, &h, &b)
		c.Receive()
		c.Tick()

		var fh Header
		fh.MsgID = MsgBegin + 1
		fh.FPGACtlReg = fpgaOpMode | fpgaSTMGainMode | fpgaLegacyMode
		fh.CPUCtlReg = cpuWriteBody
		var fb Body
		putFrame(shared, &fh, &fb)
		c.Receive()
		c.Tick()

		if got, want := c.stmCycle, uint32(4); got != want {
			t.Fatalf("stm_cycle: got=%d, want=%d", got, want)
		}
	})
}

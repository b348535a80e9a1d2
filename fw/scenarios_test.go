// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fw

import (
	"encoding/binary"
	"testing"

	"github.com/attolab/uacfw/internal/bram"
	"github.com/attolab/uacfw/internal/regs"
)

func mustRead(t *testing.T, r *bram.Sim, off int) uint16 {
	t.Helper()
	v, err := r.ReadWord(uint16(off))
	if err != nil {
		t.Fatalf("read offset %d: %+v", off, err)
	}
	return v
}

// Scenario 1: CLEAR then RD_CPU_VERSION.
func TestScenarioClearThenVersion(t *testing.T) {
	c, _, shared := newTestController()

	putFrame(shared, &Header{MsgID: MsgClear}, nil)
	c.Receive()

	putFrame(shared, &Header{MsgID: MsgRDCPUVersion}, nil)
	c.Receive()

	if got, want := shared.Ack(), uint16(0x0182); got != want {
		t.Fatalf("ack: got=0x%04x, want=0x%04x", got, want)
	}
}

// Scenario 2: modulation upload of 3 samples in one MOD_BEGIN|MOD_END frame.
func TestScenarioModulationUpload(t *testing.T) {
	c, regions, shared := newTestController()

	var h Header
	h.MsgID = MsgBegin
	h.CPUCtlReg = cpuMod | cpuModBegin | cpuModEnd
	h.Size = 3
	binary.LittleEndian.PutUint32(h.Payload[0:4], 40960)
	h.Payload[4], h.Payload[5], h.Payload[6] = 0xAA, 0xBB, 0xCC

	putFrame(shared, &h, &Body{})
	c.Receive()
	c.Tick()

	sim := regions.Mod.(*bram.Sim)
	if got, want := sim.Words()[0], uint16(0xBBAA); got != want {
		t.Fatalf("mod word 0: got=0x%04x, want=0x%04x", got, want)
	}
	if got, want := sim.Words()[1]&0x00FF, uint16(0xCC); got != want {
		t.Fatalf("mod word 1 low byte: got=0x%02x, want=0x%02x", got, want)
	}

	ctl := regions.Controller.(*bram.Sim)
	if got, want := mustRead(t, ctl, regs.ModCycle), uint16(2); got != want {
		t.Fatalf("MOD_CYCLE: got=%d, want=%d", got, want)
	}
	freqDiv := uint32(mustRead(t, ctl, regs.ModFreqDiv0)) | uint32(mustRead(t, ctl, regs.ModFreqDiv0+1))<<16
	if got, want := freqDiv, uint32(40960); got != want {
		t.Fatalf("MOD_FREQ_DIV: got=%d, want=%d", got, want)
	}
}

// Scenario 3: silencer configuration.
func TestScenarioSilencer(t *testing.T) {
	c, regions, shared := newTestController()

	var h Header
	h.MsgID = MsgBegin
	h.CPUCtlReg = cpuConfigSilencer
	binary.LittleEndian.PutUint16(h.Payload[0:2], 2048) // cycle
	binary.LittleEndian.PutUint16(h.Payload[2:4], 5)    // step

	putFrame(shared, &h, &Body{})
	c.Receive()
	c.Tick()

	ctl := regions.Controller.(*bram.Sim)
	if got, want := mustRead(t, ctl, regs.SilentCycle), uint16(2048); got != want {
		t.Fatalf("SILENT_CYCLE: got=%d, want=%d", got, want)
	}
	if got, want := mustRead(t, ctl, regs.SilentStep), uint16(5); got != want {
		t.Fatalf("SILENT_STEP: got=%d, want=%d", got, want)
	}
}

// Scenario 4: synchronizer.
func TestScenarioSync(t *testing.T) {
	c, regions, shared := newTestController()

	var h Header
	h.MsgID = MsgBegin
	h.CPUCtlReg = cpuConfigSync

	var b Body
	for i := range b.Words {
		b.Words[i] = uint16(i + 1)
	}

	shared.SetDCCycStartTime(0x1122334455667788)
	putFrame(shared, &h, &b)
	c.Receive()

	ctl := regions.Controller.(*bram.Sim)
	if got, want := mustRead(t, ctl, regs.CycleBase), uint16(1); got != want {
		t.Fatalf("CYCLE_BASE[0]: got=%d, want=%d", got, want)
	}
	if got, want := mustRead(t, ctl, regs.CycleBase+1), uint16(2); got != want {
		t.Fatalf("CYCLE_BASE[1]: got=%d, want=%d", got, want)
	}

	wantWords := []uint16{0x7788, 0x5566, 0x3344, 0x1122}
	for i, want := range wantWords {
		if got := mustRead(t, ctl, regs.EcSyncTime0+i); got != want {
			t.Fatalf("EC_SYNC_TIME[%d]: got=0x%04x, want=0x%04x", i, got, want)
		}
	}

	fpgaCtl := mustRead(t, ctl, regs.CtlReg)
	if fpgaCtl&uint16(fpgaSync) == 0 {
		t.Fatalf("CTL_REG: SYNC bit not set, got=0x%02x", fpgaCtl)
	}

	if got, want := c.cycle[0], uint16(1); got != want {
		t.Fatalf("local cycle[0]: got=%d, want=%d", got, want)
	}
}

// Scenario 5: single-point point-STM frame.
func TestScenarioPointSTM(t *testing.T) {
	c, regions, shared := newTestController()

	var h Header
	h.MsgID = MsgBegin
	h.FPGACtlReg = fpgaOpMode
	h.CPUCtlReg = cpuWriteBody | cpuSTMBegin | cpuSTMEnd

	var b Body
	b.Words[0] = 1 // size
	b.Words[1] = 1000 & 0xFFFF
	b.Words[2] = 1000 >> 16
	b.Words[3] = 340000 & 0xFFFF
	b.Words[4] = 340000 >> 16
	b.Words[5], b.Words[6], b.Words[7], b.Words[8] = 11, 22, 33, 44

	putFrame(shared, &h, &b)
	c.Receive()
	c.Tick()

	stm := regions.STM.(*bram.Sim)
	wantPoint := []uint16{11, 22, 33, 44}
	for i, want := range wantPoint {
		if got := mustRead(t, stm, i); got != want {
			t.Fatalf("STM slot 0 word %d: got=%d, want=%d", i, got, want)
		}
	}

	ctl := regions.Controller.(*bram.Sim)
	if got, want := mustRead(t, ctl, regs.StmCycle), uint16(0); got != want {
		t.Fatalf("STM_CYCLE: got=%d, want=%d", got, want)
	}
	freq := uint32(mustRead(t, ctl, regs.StmFreqDiv0)) | uint32(mustRead(t, ctl, regs.StmFreqDiv0+1))<<16
	if got, want := freq, uint32(1000); got != want {
		t.Fatalf("STM_FREQ_DIV: got=%d, want=%d", got, want)
	}
	speed := uint32(mustRead(t, ctl, regs.SoundSpeed0)) | uint32(mustRead(t, ctl, regs.SoundSpeed0+1))<<16
	if got, want := speed, uint32(340000); got != want {
		t.Fatalf("SOUND_SPEED: got=%d, want=%d", got, want)
	}
}

// Scenario 6: PHASE_HALF legacy gain-STM frame.
func TestScenarioGainSTMPhaseHalf(t *testing.T) {
	c, regions, shared := newTestController()

	// STM_BEGIN: latch seq_gain_data_mode = PHASE_HALF.
	var begin Header
	begin.MsgID = MsgBegin
	begin.FPGACtlReg = fpgaOpMode | fpgaSTMGainMode | fpgaLegacyMode
	begin.CPUCtlReg = cpuWriteBody | cpuSTMBegin

	var beginBody Body
	beginBody.Words[2] = GainDataModePhaseHalf

	putFrame(shared, &begin, &beginBody)
	c.Receive()
	c.Tick()

	var h Header
	h.MsgID = MsgBegin + 1
	h.FPGACtlReg = fpgaOpMode | fpgaSTMGainMode | fpgaLegacyMode
	h.CPUCtlReg = cpuWriteBody | cpuSTMEnd

	var b Body
	for i := range b.Words {
		b.Words[i] = 0x1234
	}

	putFrame(shared, &h, &b)
	c.Receive()
	c.Tick()

	stm := regions.STM.(*bram.Sim)
	wantSlots := []uint16{
		0xFF00 | (0x4 << 4) | 0x4,
		0xFF00 | (0x3 << 4) | 0x3,
		0xFF00 | (0x2 << 4) | 0x2,
		0xFF00 | (0x1 << 4) | 0x1,
	}
	for slot, want := range wantSlots {
		got := mustRead(t, stm, slot*frameSlotWords)
		if got != want {
			t.Fatalf("slot %d word 0: got=0x%04x, want=0x%04x", slot, got, want)
		}
	}

	ctl := regions.Controller.(*bram.Sim)
	if got, want := mustRead(t, ctl, regs.StmCycle), uint16(3); got != want {
		t.Fatalf("STM_CYCLE: got=%d, want=%d (stm_cycle=4, max(1,4)-1=3)", got, want)
	}
}

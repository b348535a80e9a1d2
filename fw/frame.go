// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fw

import (
	"encoding/binary"
	"fmt"

	"github.com/attolab/uacfw/internal/regs"
)

// NumTransducers is N, the compile-time transducer count (spec §3).
const NumTransducers = regs.NumTransducers

// CPUVersion is the firmware's own version word (v2.2, spec §6).
const CPUVersion = 0x82

// Message ids (spec §6).
const (
	MsgClear          = 0x00
	MsgRDCPUVersion   = 0x01
	MsgRDFPGAVersion  = 0x03
	MsgRDFPGAFunction = 0x04
	MsgBegin          = 0x05
	MsgEnd            = 0xF0
)

// Gain-STM body encodings, latched from GAIN_STM_HEAD (spec §3, §4.8).
const (
	GainDataModePhaseDutyFull uint16 = 1
	GainDataModePhaseFull     uint16 = 2
	GainDataModePhaseHalf     uint16 = 4
)

// Segment sizes of the three ring buffers a streaming write can wrap
// across (spec §3, invariants).
const (
	modSegShift = 15
	modSegSize  = 1 << modSegShift
	modSegMask  = modSegSize - 1

	pointSTMSegShift = 11
	pointSTMSegSize  = 1 << pointSTMSegShift
	pointSTMSegMask  = pointSTMSegSize - 1

	gainSTMSegShift = 5
	gainSTMSegSize  = 1 << gainSTMSegShift
	gainSTMSegMask  = gainSTMSegSize - 1
)

// headerSize is the wire size of spec §3's Header record.
const headerSize = 128

// Header is the fixed 128-byte record spec §3 describes: four control
// bytes followed by a 124-byte payload interpreted according to which
// of MOD_HEAD / MOD_BODY / SILENT is in effect.
type Header struct {
	MsgID      uint8
	FPGACtlReg uint8
	CPUCtlReg  uint8
	Size       uint8
	Payload    [124]byte
}

// MarshalBinary encodes h into its 128-byte wire form.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, headerSize)
	buf[0], buf[1], buf[2], buf[3] = h.MsgID, h.FPGACtlReg, h.CPUCtlReg, h.Size
	copy(buf[4:], h.Payload[:])
	return buf, nil
}

// UnmarshalBinary decodes a 128-byte wire-format header into h.
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < headerSize {
		return fmt.Errorf("fw: short header: got=%d bytes, want=%d", len(b), headerSize)
	}
	h.MsgID, h.FPGACtlReg, h.CPUCtlReg, h.Size = b[0], b[1], b[2], b[3]
	copy(h.Payload[:], b[4:headerSize])
	return nil
}

// ModHeadFreqDiv is the MOD_HEAD.freq_div field.
func (h *Header) ModHeadFreqDiv() uint32 { return binary.LittleEndian.Uint32(h.Payload[0:4]) }

// ModHeadData is the MOD_HEAD.data field (120 bytes).
func (h *Header) ModHeadData() []byte { return h.Payload[4:124] }

// ModBodyData is the MOD_BODY.data field (124 bytes).
func (h *Header) ModBodyData() []byte { return h.Payload[0:124] }

// SilentCycle is the SILENT.cycle field.
func (h *Header) SilentCycle() uint16 { return binary.LittleEndian.Uint16(h.Payload[0:2]) }

// SilentStep is the SILENT.step field.
func (h *Header) SilentStep() uint16 { return binary.LittleEndian.Uint16(h.Payload[2:4]) }

// Body is the 2*NumTransducers-byte record of spec §3, reinterpreted
// per operating mode as an array of N little-endian u16 words.
type Body struct {
	Words [NumTransducers]uint16
}

// MarshalBinary encodes b into its 2*NumTransducers-byte wire form.
func (b *Body) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 2*NumTransducers)
	for i, w := range b.Words {
		binary.LittleEndian.PutUint16(buf[2*i:], w)
	}
	return buf, nil
}

// UnmarshalBinary decodes a 2*NumTransducers-byte wire-format body
// into b.
func (b *Body) UnmarshalBinary(p []byte) error {
	want := 2 * NumTransducers
	if len(p) < want {
		return fmt.Errorf("fw: short body: got=%d bytes, want=%d", len(p), want)
	}
	for i := range b.Words {
		b.Words[i] = binary.LittleEndian.Uint16(p[2*i:])
	}
	return nil
}

// Normal returns the NORMAL.data view: N gains, one half of a
// {phase,duty} pair per invocation.
func (b *Body) Normal() []uint16 { return b.Words[:] }

// Cycle returns the CYCLE.cycle view: N per-channel cycles.
func (b *Body) Cycle() []uint16 { return b.Words[:] }

// PointSTMHeadSize is POINT_STM_HEAD's leading size field.
func (b *Body) PointSTMHeadSize() uint16 { return b.Words[0] }

// PointSTMHeadFreqDiv is POINT_STM_HEAD's freq_div field.
func (b *Body) PointSTMHeadFreqDiv() uint32 {
	return uint32(b.Words[2])<<16 | uint32(b.Words[1])
}

// PointSTMHeadSoundSpeed is POINT_STM_HEAD's sound_speed field.
func (b *Body) PointSTMHeadSoundSpeed() uint32 {
	return uint32(b.Words[4])<<16 | uint32(b.Words[3])
}

// PointSTMHeadPoints is POINT_STM_HEAD's packed point data, 4 u16
// words per point.
func (b *Body) PointSTMHeadPoints() []uint16 { return b.Words[5:] }

// PointSTMBodySize is POINT_STM_BODY's leading size field.
func (b *Body) PointSTMBodySize() uint16 { return b.Words[0] }

// PointSTMBodyPoints is POINT_STM_BODY's packed point data.
func (b *Body) PointSTMBodyPoints() []uint16 { return b.Words[1:] }

// GainSTMHeadFreqDiv is GAIN_STM_HEAD's freq_div field.
func (b *Body) GainSTMHeadFreqDiv() uint32 {
	return uint32(b.Words[1])<<16 | uint32(b.Words[0])
}

// GainSTMHeadMode is GAIN_STM_HEAD's mode field, latched into
// seq_gain_data_mode.
func (b *Body) GainSTMHeadMode() uint16 { return b.Words[2] }

// GainSTMBody is GAIN_STM_BODY's N encoded gains.
func (b *Body) GainSTMBody() []uint16 { return b.Words[:] }

// ModDelay is MOD_DELAY_DATA's N per-channel delays.
func (b *Body) ModDelay() []uint16 { return b.Words[:] }

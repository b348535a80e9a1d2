// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fw

// FPGA control-register bits (spec §4.2).
const (
	fpgaLegacyMode    uint8 = 1 << 0
	fpgaForceFan      uint8 = 1 << 1
	fpgaOpMode        uint8 = 1 << 2 // 0 = normal gain, 1 = STM
	fpgaSTMGainMode   uint8 = 1 << 3 // 0 = point, 1 = gain
	fpgaReadsFPGAInfo uint8 = 1 << 4
	fpgaSync          uint8 = 1 << 5
)

// CPU control-register bits (spec §4.2). MOD/CONFIG_EN_N share bit 0,
// MOD_BEGIN/CONFIG_SILENCER share bit 1, MOD_END/CONFIG_SYNC share bit
// 2: the decoder below resolves the shared bits by whether the frame
// is classified as a modulation frame.
const (
	cpuMod      uint8 = 1 << 0
	cpuModBegin uint8 = 1 << 1
	cpuModEnd   uint8 = 1 << 2

	cpuConfigEnN      uint8 = 1 << 0
	cpuConfigSilencer uint8 = 1 << 1
	cpuConfigSync     uint8 = 1 << 2

	cpuWriteBody uint8 = 1 << 3
	cpuSTMBegin  uint8 = 1 << 4
	cpuSTMEnd    uint8 = 1 << 5
	cpuIsDuty    uint8 = 1 << 6
	cpuModDelay  uint8 = 1 << 7
)

// fpgaIntent is the decoded FPGA control register: spec §4.2's first
// bitfield, with no overlapping bits so it needs no tagging.
type fpgaIntent struct {
	legacyMode    bool
	opModeSTM     bool
	stmGainMode   bool
	readsFPGAInfo bool
	sync          bool
}

func decodeFPGAIntent(reg uint8) fpgaIntent {
	return fpgaIntent{
		legacyMode:    reg&fpgaLegacyMode != 0,
		opModeSTM:     reg&fpgaOpMode != 0,
		stmGainMode:   reg&fpgaSTMGainMode != 0,
		readsFPGAInfo: reg&fpgaReadsFPGAInfo != 0,
		sync:          reg&fpgaSync != 0,
	}
}

// cpuIntent is the decoded CPU control register: a tagged union over
// the MOD/CONFIG_* bits (spec §9), exposed to writers as plain
// booleans rather than raw bitflags.
type cpuIntent struct {
	isMod bool

	// valid only when isMod
	modBegin bool
	modEnd   bool

	// valid only when !isMod
	configEnN      bool
	configSilencer bool
	configSync     bool

	writeBody bool
	stmBegin  bool
	stmEnd    bool
	isDuty    bool
	modDelay  bool
}

func decodeCPUIntent(reg uint8) cpuIntent {
	intent := cpuIntent{
		isMod:     reg&cpuMod != 0,
		writeBody: reg&cpuWriteBody != 0,
		stmBegin:  reg&cpuSTMBegin != 0,
		stmEnd:    reg&cpuSTMEnd != 0,
		isDuty:    reg&cpuIsDuty != 0,
		modDelay:  reg&cpuModDelay != 0,
	}
	if intent.isMod {
		intent.modBegin = reg&cpuModBegin != 0
		intent.modEnd = reg&cpuModEnd != 0
	} else {
		intent.configEnN = reg&cpuConfigEnN != 0
		intent.configSilencer = reg&cpuConfigSilencer != 0
		intent.configSync = reg&cpuConfigSync != 0
	}
	return intent
}

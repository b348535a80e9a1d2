// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fw

// Exported mirrors of the control-register bits in flags.go, for
// callers outside this package building a Header by hand (cmd/uac-ctl).
const (
	FPGALegacyMode    = fpgaLegacyMode
	FPGAForceFan      = fpgaForceFan
	FPGAOpModeSTM     = fpgaOpMode
	FPGASTMGainMode   = fpgaSTMGainMode
	FPGAReadsFPGAInfo = fpgaReadsFPGAInfo
	FPGASync          = fpgaSync

	CPUMod      = cpuMod
	CPUModBegin = cpuModBegin
	CPUModEnd   = cpuModEnd

	CPUConfigEnN      = cpuConfigEnN
	CPUConfigSilencer = cpuConfigSilencer
	CPUConfigSync     = cpuConfigSync

	CPUWriteBody = cpuWriteBody
	CPUSTMBegin  = cpuSTMBegin
	CPUSTMEnd    = cpuSTMEnd
	CPUIsDuty    = cpuIsDuty
	CPUModDelay  = cpuModDelay
)

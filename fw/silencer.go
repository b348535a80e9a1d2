// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fw

import "github.com/attolab/uacfw/internal/regs"

// configSilencer writes the silencer's two scalar parameters
// (spec §4.4).
func (c *Controller) configSilencer(h *Header) {
	c.setErr(c.bram.Controller.WriteWord(regs.SilentStep, h.SilentStep()))
	c.setErr(c.bram.Controller.WriteWord(regs.SilentCycle, h.SilentCycle()))
}

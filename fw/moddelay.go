// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fw

import "github.com/attolab/uacfw/internal/regs"

// setModDelay copies the N per-channel delays of b into the FPGA
// MOD_DELAY table (spec §4.9).
func (c *Controller) setModDelay(b *Body) {
	c.setErr(c.bram.Controller.BulkCopy(regs.ModDelayBase, b.ModDelay()))
}

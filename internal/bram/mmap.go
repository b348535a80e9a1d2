// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bram

import (
	"fmt"
	"os"

	"github.com/attolab/uacfw/internal/mmap"
	"golang.org/x/sys/unix"
)

// MMap is a BRAM region backed by a real memory-mapped window onto the
// FPGA, following eda.Device's mmapH2F/mmapLwH2F use of unix.Mmap over
// /dev/mem.
type MMap struct {
	h    *mmap.Handle
	base int64 // byte offset of this region's window within h
	span int64 // byte span of this region's window
}

// OpenMMap maps span bytes of devmem at the given physical base
// address and returns an MMap region starting regionOff words into it.
func OpenMMap(devmem string, base int64, span int, regionOff int64) (*MMap, error) {
	f, err := os.OpenFile(devmem, os.O_RDWR|os.O_SYNC, 0666)
	if err != nil {
		return nil, fmt.Errorf("bram: could not open %q: %w", devmem, err)
	}
	defer f.Close()

	data, err := unix.Mmap(
		int(f.Fd()), base, span,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED,
	)
	if err != nil {
		return nil, fmt.Errorf("bram: could not mmap %q at 0x%x: %w", devmem, base, err)
	}
	if len(data) != span {
		return nil, fmt.Errorf("bram: invalid mmap'd size: got=%d, want=%d", len(data), span)
	}

	return &MMap{h: mmap.HandleFrom(data), base: regionOff * 2, span: int64(span)}, nil
}

func (m *MMap) byteOff(off uint16) int64 { return m.base + int64(off)*2 }

func (m *MMap) ReadWord(off uint16) (uint16, error) {
	v, err := m.h.Uint16At(m.byteOff(off))
	if err != nil {
		return 0, fmt.Errorf("bram: could not read word at offset %d: %w", off, err)
	}
	return v, nil
}

func (m *MMap) WriteWord(off uint16, v uint16) error {
	if err := m.h.PutUint16At(m.byteOff(off), v); err != nil {
		return fmt.Errorf("bram: could not write word at offset %d: %w", off, err)
	}
	return nil
}

func (m *MMap) BulkCopy(off uint16, src []uint16) error {
	for i, v := range src {
		if err := m.WriteWord(off+uint16(i), v); err != nil {
			return err
		}
	}
	return nil
}

func (m *MMap) BulkSet(off uint16, v uint16, nWords int) error {
	for i := 0; i < nWords; i++ {
		if err := m.WriteWord(off+uint16(i), v); err != nil {
			return err
		}
	}
	return nil
}

func (m *MMap) AddrOf(off uint16) uint16 {
	return uint16(m.base/2) + off
}

// Close releases the underlying mapping.
func (m *MMap) Close() error { return m.h.Close() }

var _ Region = (*MMap)(nil)

// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ecat

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/attolab/uacfw/internal/mmap"
	"golang.org/x/sys/unix"
)

// MMap is a Shared implementation backed by the EtherCAT MAC/PHY
// driver's shared RX0/RX1/TX register blocks, mapped the same way
// internal/bram.MMap maps the FPGA BRAM.
type MMap struct {
	rx0    *mmap.Handle // body
	rx1    *mmap.Handle // header
	tx     *mmap.Handle // ack
	dcSync *mmap.Handle // DC_CYC_START_TIME
}

// OpenMMap maps the four EtherCAT shared-memory windows from devmem.
func OpenMMap(devmem string, rx0Base, rx1Base, txBase, dcSyncBase int64, bodySize int) (*MMap, error) {
	f, err := os.OpenFile(devmem, os.O_RDWR|os.O_SYNC, 0666)
	if err != nil {
		return nil, fmt.Errorf("ecat: could not open %q: %w", devmem, err)
	}
	defer f.Close()

	mapAt := func(base int64, span int) (*mmap.Handle, error) {
		data, err := unix.Mmap(int(f.Fd()), base, span, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
		if err != nil {
			return nil, fmt.Errorf("ecat: could not mmap 0x%x (%d bytes): %w", base, span, err)
		}
		return mmap.HandleFrom(data), nil
	}

	rx0, err := mapAt(rx0Base, bodySize)
	if err != nil {
		return nil, err
	}
	rx1, err := mapAt(rx1Base, 128)
	if err != nil {
		return nil, err
	}
	tx, err := mapAt(txBase, 2)
	if err != nil {
		return nil, err
	}
	dc, err := mapAt(dcSyncBase, 8)
	if err != nil {
		return nil, err
	}

	return &MMap{rx0: rx0, rx1: rx1, tx: tx, dcSync: dc}, nil
}

func (m *MMap) Body() []byte {
	buf := make([]byte, m.rx0.Len())
	_, _ = m.rx0.ReadAt(buf, 0)
	return buf
}

func (m *MMap) Header() []byte {
	buf := make([]byte, m.rx1.Len())
	_, _ = m.rx1.ReadAt(buf, 0)
	return buf
}

func (m *MMap) SetAck(ack uint16) { _ = m.tx.PutUint16At(0, ack) }

func (m *MMap) Ack() uint16 {
	v, _ := m.tx.Uint16At(0)
	return v
}

func (m *MMap) DCCycStartTime() uint64 {
	buf := make([]byte, 8)
	_, _ = m.dcSync.ReadAt(buf, 0)
	return binary.LittleEndian.Uint64(buf)
}

// Close releases the four mappings.
func (m *MMap) Close() error {
	for _, h := range []*mmap.Handle{m.rx0, m.rx1, m.tx, m.dcSync} {
		if err := h.Close(); err != nil {
			return err
		}
	}
	return nil
}

var _ Shared = (*MMap)(nil)

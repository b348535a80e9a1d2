// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fw

import "sync/atomic"

// ringCapacity is the ring's slot count (spec §3); at most
// ringCapacity-1 entries can be outstanding at once.
const ringCapacity = 32

type ringEntry struct {
	header Header
	body   Body
}

// Ring is the bounded SPSC ring of spec §4.1: the EtherCAT receive
// context is the sole producer (Push), the 1ms periodic context is the
// sole consumer (Pop). write/read are atomic so that a slot's payload
// is always observed by the consumer before the cursor that publishes
// it, and vice versa for the cursor a full producer waits on.
type Ring struct {
	buf   [ringCapacity]ringEntry
	write atomic.Uint32
	read  atomic.Uint32
}

// Push copies h and b into the next free slot and publishes it. It
// returns false if the ring is full (31 entries outstanding); the
// caller must retry.
func (r *Ring) Push(h Header, b Body) bool {
	write := r.write.Load()
	next := (write + 1) % ringCapacity
	if next == r.read.Load() {
		return false
	}
	r.buf[write] = ringEntry{header: h, body: b}
	r.write.Store(next)
	return true
}

// Pop copies out the oldest unread entry and advances past it. It
// returns false if the ring is empty.
func (r *Ring) Pop() (Header, Body, bool) {
	read := r.read.Load()
	if read == r.write.Load() {
		return Header{}, Body{}, false
	}
	e := r.buf[read]
	r.read.Store((read + 1) % ringCapacity)
	return e.header, e.body, true
}

// reset clears every slot and both cursors, as the clear operation
// requires (spec §4.12).
func (r *Ring) reset() {
	for i := range r.buf {
		r.buf[i] = ringEntry{}
	}
	r.write.Store(0)
	r.read.Store(0)
}

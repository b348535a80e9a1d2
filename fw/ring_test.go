// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fw

import "testing"

func TestRingSPSC(t *testing.T) {
	var r Ring

	var pushed []uint8
	for i := 0; i < 31; i++ {
		h := Header{MsgID: uint8(i)}
		if ok := r.Push(h, Body{}); !ok {
			t.Fatalf("push %d: unexpected full ring", i)
		}
		pushed = append(pushed, uint8(i))
	}

	if ok := r.Push(Header{MsgID: 31}, Body{}); ok {
		t.Fatalf("push 31: expected ring full, got success")
	}

	var popped []uint8
	for {
		h, _, ok := r.Pop()
		if !ok {
			break
		}
		popped = append(popped, h.MsgID)
	}

	if len(popped) != len(pushed) {
		t.Fatalf("pop count: got=%d, want=%d", len(popped), len(pushed))
	}
	for i := range pushed {
		if popped[i] != pushed[i] {
			t.Fatalf("pop order at %d: got=%d, want=%d", i, popped[i], pushed[i])
		}
	}

	if _, _, ok := r.Pop(); ok {
		t.Fatalf("pop on empty ring: expected false")
	}
}

func TestRingInterleaved(t *testing.T) {
	var r Ring

	for i := 0; i < 10; i++ {
		if ok := r.Push(Header{MsgID: uint8(i)}, Body{}); !ok {
			t.Fatalf("push %d failed", i)
		}
	}
	for i := 0; i < 5; i++ {
		h, _, ok := r.Pop()
		if !ok {
			t.Fatalf("pop %d: unexpected empty", i)
		}
		if got, want := h.MsgID, uint8(i); got != want {
			t.Fatalf("pop %d: got=%d, want=%d", i, got, want)
		}
	}
	for i := 10; i < 15; i++ {
		if ok := r.Push(Header{MsgID: uint8(i)}, Body{}); !ok {
			t.Fatalf("push %d failed", i)
		}
	}
	for i := 5; i < 15; i++ {
		h, _, ok := r.Pop()
		if !ok {
			t.Fatalf("pop %d: unexpected empty", i)
		}
		if got, want := h.MsgID, uint8(i); got != want {
			t.Fatalf("pop %d: got=%d, want=%d", i, got, want)
		}
	}
}

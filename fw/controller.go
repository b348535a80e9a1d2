// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fw

import (
	"io"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/attolab/uacfw/internal/bram"
	"github.com/attolab/uacfw/internal/ecat"
)

// Default values written by Clear (spec §4.12, §6).
const (
	defaultSilentStep  = 10
	defaultSilentCycle = 4096
	defaultModFreqDiv  = 40960
)

// Option configures a Controller at construction time.
type Option func(*config)

type config struct {
	out        io.Writer
	onDispatch func(h Header, b Body)
	onRingWait func()
	onDedup    func(msgID uint8)
	onTick     func(d time.Duration)
}

func newConfig() config {
	return config{
		out:        os.Stdout,
		onDispatch: func(Header, Body) {},
		onRingWait: func() {},
		onDedup:    func(uint8) {},
		onTick:     func(time.Duration) {},
	}
}

// WithLogOutput sets the writer the controller's logger writes to.
// Defaults to os.Stdout.
func WithLogOutput(w io.Writer) Option {
	return func(c *config) { c.out = w }
}

// WithDispatchHook registers fn to be called from Tick with the
// (header, body) pair about to be written, once it is popped from the
// ring but before the writer runs. Used by package telemetry to tag
// dispatched frames; never skipped, never slowed down by fn's cost
// being a caller concern.
func WithDispatchHook(fn func(h Header, b Body)) Option {
	return func(c *config) { c.onDispatch = fn }
}

// WithRingWaitHook registers fn to be called once per spin iteration
// when Receive finds the ring full. Used by package telemetry to
// count how often the periodic task is falling behind the bus cycle.
func WithRingWaitHook(fn func()) Option {
	return func(c *config) { c.onRingWait = fn }
}

// WithDedupHook registers fn to be called with the repeated msg_id
// whenever Receive drops a duplicate frame.
func WithDedupHook(fn func(msgID uint8)) Option {
	return func(c *config) { c.onDedup = fn }
}

// WithTickHook registers fn to be called at the end of every Tick with
// the wall-clock duration of that call. Used by package telemetry to
// sample periodic-task tick duration. Tick takes its time.Now() /
// time.Since() pair whether or not a hook is set; the default is a
// no-op.
func WithTickHook(fn func(d time.Duration)) Option {
	return func(c *config) { c.onTick = fn }
}

// Controller owns the process-wide state of spec §3 and dispatches
// between the EtherCAT receive context (Receive) and the 1ms periodic
// context (Tick), the way eda.Device owns register state and dispatches
// between the EDA server's command handlers and its DAQ loop.
type Controller struct {
	msg *log.Logger

	bram *bram.Set
	ecat ecat.Shared

	ring Ring

	onDispatch func(h Header, b Body)
	onRingWait func()
	onDedup    func(msgID uint8)
	onTick     func(d time.Duration)

	// shared scalars (spec §5): written by Receive, read by both
	// contexts. read_fpga_info uses an atomic.Bool purely for Go's
	// race detector; msg_id_last is a plain byte store/load, matching
	// the spec's last-writer-wins tolerance for this field.
	msgIDLast    uint8
	readFPGAInfo atomic.Bool

	// shared 16-bit ack word: high byte echoes msg_id, low byte
	// carries version/info (spec §3). Packed into one atomic word so
	// a racing high/low byte pair is never torn.
	ack atomic.Uint32

	// periodic-context-exclusive, except cycle (see below)
	modCycle        uint32
	stmCycle        uint32
	seqGainDataMode uint16

	// cycle is written by synchronize (invoked from the receive
	// context, spec §4.5) and read by the gain-STM PHASE_FULL
	// non-legacy path (periodic context). Protocol guarantees
	// CONFIG_SYNC never arrives mid-upload, so the torn read spec §5
	// warns about is accepted here deliberately, unguarded. Sized one
	// past N: the PHASE_FULL non-legacy path indexes cycle[i+1] up to
	// i=N-1, an off-by-one carried over unchanged (open question).
	cycle [NumTransducers + 1]uint16

	// sticky error set by the low-level BRAM/EtherCAT accessors;
	// observed and cleared by the call that owns a given write
	// (mirrors eda.Device.err / board.err).
	err error
}

// NewController builds a Controller over the given BRAM region set and
// EtherCAT shared memory, and runs Clear to bring it to its power-on
// state.
func NewController(regions *bram.Set, shared ecat.Shared, opts ...Option) *Controller {
	cfg := newConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Controller{
		msg:        log.New(cfg.out, "fw: ", 0),
		bram:       regions,
		ecat:       shared,
		onDispatch: cfg.onDispatch,
		onRingWait: cfg.onRingWait,
		onDedup:    cfg.onDedup,
		onTick:     cfg.onTick,
	}
	c.Clear()
	return c
}

func (c *Controller) setErr(err error) {
	if err != nil && c.err == nil {
		c.err = err
	}
}

// Err returns and clears the first sticky error observed since the
// last call to Err.
func (c *Controller) Err() error {
	err := c.err
	c.err = nil
	return err
}

func (c *Controller) ackWord() uint16   { return uint16(c.ack.Load()) }
func (c *Controller) setAck(v uint16)   { c.ack.Store(uint32(v)) }
func (c *Controller) ackHigh() uint16   { return c.ackWord() & 0xFF00 }
func (c *Controller) setAckLow(lo byte) { c.setAck(c.ackHigh() | uint16(lo)) }

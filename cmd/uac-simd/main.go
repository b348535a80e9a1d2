// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command uac-simd starts a TDAQ server simulating the phased-array
// ultrasound controller board: a fw.Controller driven by simulated BRAM
// and EtherCAT shared memory instead of real hardware.
package main // import "github.com/attolab/uacfw/cmd/uac-simd"

import (
	"context"
	"encoding/binary"
	"flag"
	"io"
	"log"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/go-daq/tdaq"
	"github.com/go-daq/tdaq/flags"
	"golang.org/x/sync/errgroup"

	"github.com/attolab/uacfw/fw"
	"github.com/attolab/uacfw/internal/bram"
	"github.com/attolab/uacfw/internal/ecat"
	"github.com/attolab/uacfw/internal/regs"
	"github.com/attolab/uacfw/telemetry"
)

const frameSize = 128 + 2*fw.NumTransducers

var (
	pmonFreq  = flag.Duration("pmon-freq", time.Second, "process-monitor sampling frequency")
	tickWin   = flag.Int("tick-window", 1000, "number of ticks per rolling tick-duration statistics window")
	frameAddr = flag.String("frame-addr", ":9001", "[ip]:port uac-ctl connects to for frame injection")

	dbHost = flag.String("db-host", "", "telemetry MySQL host (empty disables the operator log)")
	dbUsr  = flag.String("db-usr", "", "telemetry MySQL user")
	dbPwd  = flag.String("db-pwd", "", "telemetry MySQL password")
	dbName = flag.String("db-name", "uacfw_telemetry", "telemetry MySQL database name")
)

func main() {
	cmd := flags.New()

	dev := newDevice()

	srv := tdaq.New(cmd, os.Stdout)
	srv.CmdHandle("/config", dev.OnConfig)
	srv.CmdHandle("/init", dev.OnInit)
	srv.CmdHandle("/reset", dev.OnReset)
	srv.CmdHandle("/start", dev.OnStart)
	srv.CmdHandle("/stop", dev.OnStop)
	srv.CmdHandle("/quit", dev.OnQuit)

	srv.OutputHandle("/ack", dev.ack)

	srv.RunHandle(dev.run)

	err := srv.Run(context.Background())
	if err != nil {
		log.Panicf("error: %+v", err)
	}
}

// device wraps a fw.Controller over simulated backends the way rpi.Server
// wraps a set of Readouts: command handlers mutate state that the
// RunHandle-driven loop later acts on.
type device struct {
	regions *bram.Set
	shared  *ecat.Sim
	ctrl    *fw.Controller
	mon     *telemetry.Monitor

	running atomic.Bool
	frames  chan struct{}
}

func newDevice() *device {
	return &device{frames: make(chan struct{}, 64)}
}

func (dev *device) OnConfig(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /config command...")
	return nil
}

func (dev *device) OnInit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /init command...")

	dev.regions = &bram.Set{
		Controller: bram.NewSim(regs.LW_H2F_SPAN / 2),
		Mod:        bram.NewSim(1 << 16),
		Normal:     bram.NewSim(2 * fw.NumTransducers),
		STM:        bram.NewSim(1 << 16),
	}
	dev.shared = ecat.NewSim(2 * fw.NumTransducers)

	mon, err := telemetry.NewMonitor(os.Stdout, *pmonFreq, *tickWin)
	if err != nil {
		ctx.Msg.Errorf("could not start telemetry: %+v", err)
		return err
	}
	if *dbHost != "" {
		dblog, err := telemetry.OpenLog(*dbHost, *dbUsr, *dbPwd, *dbName)
		if err != nil {
			ctx.Msg.Errorf("could not open telemetry log: %+v", err)
			return err
		}
		mon.WithLog(dblog)
	}
	dev.mon = mon

	dev.ctrl = fw.NewController(dev.regions, dev.shared, mon.Hooks()...)
	return nil
}

func (dev *device) OnReset(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /reset command...")
	if dev.ctrl == nil {
		return dev.OnInit(ctx, resp, req)
	}
	dev.ctrl.Clear()
	return nil
}

func (dev *device) OnStart(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /start command...")
	dev.running.Store(true)
	return nil
}

func (dev *device) OnStop(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /stop command...")
	dev.running.Store(false)
	return nil
}

func (dev *device) OnQuit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /quit command...")
	if dev.mon != nil {
		return dev.mon.Close()
	}
	return nil
}

func (dev *device) ack(ctx tdaq.Context, dst *tdaq.Frame) error {
	select {
	case <-ctx.Ctx.Done():
		dst.Body = nil
		return nil
	default:
	}
	if dev.shared == nil {
		dst.Body = nil
		return nil
	}
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, dev.shared.Ack())
	dst.Body = buf
	return nil
}

// run drives the two contexts spec §4.10/§4.11 describe as concurrent:
// tickLoop stands in for the 1ms periodic-task timer interrupt,
// receiveLoop for the EtherCAT frame-arrival interrupt. errgroup joins
// them the way eda.Device.loopACQ joins its per-RFM send goroutines.
func (dev *device) run(ctx tdaq.Context) error {
	var grp errgroup.Group
	grp.Go(func() error { return dev.tickLoop(ctx.Ctx) })
	grp.Go(func() error { return dev.receiveLoop(ctx.Ctx) })
	grp.Go(func() error { return dev.frameServer(ctx.Ctx, *frameAddr) })
	return grp.Wait()
}

// frameServer stands in for the EtherCAT master DMA-writing frames into
// shared memory: each connected client (uac-ctl) streams back-to-back
// frameSize-byte frames -- the 128-byte header followed by the
// 2*NumTransducers-byte body, exactly the wire layout fw.Header and
// fw.Body decode.
func (dev *device) frameServer(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				continue
			}
		}
		go dev.handleFrameConn(conn)
	}
}

func (dev *device) handleFrameConn(conn net.Conn) {
	defer conn.Close()

	buf := make([]byte, frameSize)
	for {
		if _, err := io.ReadFull(conn, buf); err != nil {
			return
		}
		if dev.shared == nil {
			continue
		}
		dev.shared.PutHeader(buf[:128])
		dev.shared.PutBody(buf[128:])

		select {
		case dev.frames <- struct{}{}:
		default:
			log.Printf("frame notification channel full, dropping wakeup")
		}
	}
}

func (dev *device) tickLoop(ctx context.Context) error {
	tick := time.NewTicker(time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			if dev.ctrl != nil && dev.running.Load() {
				dev.ctrl.Tick()
			}
		}
	}
}

func (dev *device) receiveLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-dev.frames:
			if dev.ctrl != nil {
				dev.ctrl.Receive()
			}
		}
	}
}

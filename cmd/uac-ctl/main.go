// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command uac-ctl is an interactive console for hand-building
// fw.Header/fw.Body frames and feeding them to a running uac-simd
// instance's frame port, for manual protocol exploration.
//
// tdaq's client-side wire protocol isn't exercised anywhere in the
// corpus this was learned from, so uac-ctl talks to uac-simd's raw
// frame port directly instead of guessing at an unconfirmed client API;
// uac-simd's /config, /init, /start, /stop, /quit surface is still a
// genuine TDAQ command server, reachable with any TDAQ-aware tool.
package main // import "github.com/attolab/uacfw/cmd/uac-ctl"

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/attolab/uacfw/fw"
)

var addr = flag.String("addr", "localhost:9001", "uac-simd frame port to connect to")

func main() {
	flag.Parse()
	log.SetPrefix("uac-ctl: ")
	log.SetFlags(0)

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		log.Fatalf("could not connect to %q: %+v", *addr, err)
	}
	defer conn.Close()

	console := newConsole(conn)
	defer console.Close()

	if err := console.run(); err != nil {
		log.Fatalf("%+v", err)
	}
}

type console struct {
	conn   net.Conn
	line   *liner.State
	msgID  uint8
	histFn string
}

func newConsole(conn net.Conn) *console {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	c := &console{
		conn:   conn,
		line:   line,
		msgID:  fw.MsgBegin,
		histFn: filepathJoinHome(".uac-ctl_history"),
	}

	if f, err := os.Open(c.histFn); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	return c
}

func (c *console) Close() error {
	if f, err := os.Create(c.histFn); err == nil {
		c.line.WriteHistory(f)
		f.Close()
	}
	return c.line.Close()
}

func filepathJoinHome(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, name)
}

func (c *console) run() error {
	fmt.Println("uac-ctl: interactive console (type 'help' for commands, 'quit' to exit)")
	for {
		line, err := c.line.Prompt("uac-ctl> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("uac-ctl: could not read input: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		c.line.AppendHistory(line)

		if err := c.dispatch(line); err != nil {
			if err == errQuit {
				return nil
			}
			fmt.Fprintf(os.Stderr, "uac-ctl: %+v\n", err)
		}
	}
}

var errQuit = fmt.Errorf("uac-ctl: quit requested")

func (c *console) dispatch(line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		printHelp()
		return nil
	case "quit", "exit":
		return errQuit
	case "clear":
		return c.send(&fw.Header{MsgID: fw.MsgClear}, nil)
	case "version":
		return c.send(&fw.Header{MsgID: fw.MsgRDCPUVersion}, nil)
	case "mod":
		return c.cmdMod(args)
	case "gain":
		return c.cmdGain(args)
	default:
		return fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
}

func printHelp() {
	fmt.Println(`commands:
  clear                 send CLEAR
  version                send RD_CPU_VERSION
  mod <freq_div> <b0> <b1> ...   upload a one-frame modulation buffer
  gain <g0> <g1> ...             upload N normal-mode gain words
  help                            this message
  quit, exit                      leave the console`)
}

func (c *console) cmdMod(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: mod <freq_div> <byte> ...")
	}
	freqDiv, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid freq_div %q: %w", args[0], err)
	}

	var h fw.Header
	h.MsgID = c.nextMsgID()
	h.CPUCtlReg = fw.CPUMod | fw.CPUModBegin | fw.CPUModEnd

	samples := args[1:]
	if len(samples) > 120 {
		return fmt.Errorf("mod: %d samples exceeds 120-byte single-frame limit", len(samples))
	}
	h.Size = uint8(len(samples))
	binary.LittleEndian.PutUint32(h.Payload[0:4], uint32(freqDiv))
	for i, s := range samples {
		v, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return fmt.Errorf("invalid sample %q: %w", s, err)
		}
		h.Payload[4+i] = byte(v)
	}

	return c.send(&h, &fw.Body{})
}

func (c *console) cmdGain(args []string) error {
	if len(args) == 0 || len(args) > fw.NumTransducers {
		return fmt.Errorf("usage: gain <g0> <g1> ... (up to %d values)", fw.NumTransducers)
	}

	var b fw.Body
	for i, s := range args {
		v, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return fmt.Errorf("invalid gain %q: %w", s, err)
		}
		b.Words[i] = uint16(v)
	}

	h := fw.Header{MsgID: c.nextMsgID(), CPUCtlReg: fw.CPUWriteBody}
	return c.send(&h, &b)
}

// nextMsgID cycles through the data-frame id range spec §6 reserves,
// skipping the fixed control ids (CLEAR, RD_*).
func (c *console) nextMsgID() uint8 {
	id := c.msgID
	c.msgID++
	if c.msgID > fw.MsgEnd || c.msgID < fw.MsgBegin {
		c.msgID = fw.MsgBegin
	}
	return id
}

func (c *console) send(h *fw.Header, b *fw.Body) error {
	hb, err := h.MarshalBinary()
	if err != nil {
		return fmt.Errorf("could not marshal header: %w", err)
	}
	if b == nil {
		b = &fw.Body{}
	}
	bb, err := b.MarshalBinary()
	if err != nil {
		return fmt.Errorf("could not marshal body: %w", err)
	}

	if _, err := c.conn.Write(hb); err != nil {
		return fmt.Errorf("could not send header: %w", err)
	}
	if _, err := c.conn.Write(bb); err != nil {
		return fmt.Errorf("could not send body: %w", err)
	}
	fmt.Printf("sent msg_id=0x%02x\n", h.MsgID)
	return nil
}

// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/term"

	"github.com/usbarmory/mpfs-seg/internal/test"
	"github.com/usbarmory/mpfs-seg/mem"
)

type readWriter struct {
	io.Reader
	io.Writer
}

func newSession(input string) (*Session, *bytes.Buffer) {
	var out bytes.Buffer

	s := &Session{
		Board: mem.NewMPFS(),
	}

	s.Term = term.NewTerminal(readWriter{strings.NewReader(input), &out}, "")

	return s, &out
}

func hwStart(t *testing.T, b *mem.Board, reg string) uint64 {
	t.Helper()

	id, ok := b.Lookup(reg)
	test.DemandEquality(t, ok, true)

	hw, _ := b.HWStart(id)

	return hw
}

func TestHandleShow(t *testing.T) {
	s, out := newSession("")

	test.ExpectSuccess(t, s.Handle("show"))
	test.ExpectSuccess(t, strings.Contains(out.String(), "seg0_1"))
	test.ExpectSuccess(t, strings.Contains(out.String(), "0x001000000000"))
	test.ExpectSuccess(t, strings.Contains(out.String(), "configuration valid"))
}

func TestWindowsTable(t *testing.T) {
	b := mem.NewMPFS()
	table := Windows(b)

	for _, win := range b.Windows() {
		test.ExpectSuccess(t, win.Err, win.RegName)

		for _, addr := range []uint64{win.BusAddr, win.HWStart, win.HWEnd} {
			s := fmt.Sprintf("%#012x", addr)
			test.ExpectSuccess(t, strings.Contains(table, s), win.RegName, s)
		}
	}

	win := b.Windows()[0]
	test.ExpectEquality(t, win.RegName, "seg0_1")
	test.ExpectEquality(t, win.BusAddr, uint64(mem.Cached64Start))
	test.ExpectEquality(t, win.HWStart, 0x0200_0000)
	test.ExpectEquality(t, win.HWEnd, 0x8000_0000)
}

func TestHandleUnknown(t *testing.T) {
	s, _ := newSession("")

	test.ExpectFailure(t, s.Handle("poke 0 0"))
	test.ExpectFailure(t, s.Handle("set x 0x0"))
	test.ExpectSuccess(t, s.Handle("   "))
	test.ExpectEquality(t, s.Handle("quit"), io.EOF)
}

func TestHandleMem(t *testing.T) {
	s, out := newSession("")

	test.ExpectSuccess(t, s.Handle("mem 0x1000000"))
	test.ExpectEquality(t, s.Board.TotalMemory(), 0x0100_0000)
	test.ExpectSuccess(t, strings.Contains(out.String(), mem.ErrInvalidConfig.Error()))

	test.ExpectFailure(t, s.Handle("mem 0x0"))
	test.ExpectEquality(t, s.Board.TotalMemory(), 0x0100_0000)
}

func TestHandleSet(t *testing.T) {
	s, _ := newSession("")

	test.ExpectSuccess(t, s.Handle("set 3 0x40000000"))
	test.ExpectEquality(t, hwStart(t, s.Board, "seg0_0"), 0x4000_0000)

	test.ExpectError(t, s.Handle("set 3 0x80000000"), mem.ErrOutOfRange)
	test.ExpectEquality(t, hwStart(t, s.Board, "seg0_0"), 0x4000_0000)

	test.ExpectFailure(t, s.Handle("set 6 0x0"))
}

func TestHandleSeg(t *testing.T) {
	s, out := newSession("")

	test.ExpectSuccess(t, s.Handle("seg"))
	test.ExpectSuccess(t, strings.Contains(out.String(), "{ seg0_1: 0x7002, seg1_3: 0x6c00"))

	test.ExpectSuccess(t, s.Handle("seg seg0_0 0x7fc0"))
	test.ExpectEquality(t, hwStart(t, s.Board, "seg0_0"), 0x4000_0000)

	test.ExpectFailure(t, s.Handle("seg seg7_7 0x7fc0"))
	test.ExpectError(t, s.Handle("seg seg0_0 0x4001"), mem.ErrSegmentRange)

	test.ExpectSuccess(t, s.Handle("mem 0x1000000"))
	test.ExpectError(t, s.Handle("seg"), mem.ErrInvalidConfig)
}

func TestHandleSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segs.yaml")
	s, _ := newSession("")

	test.ExpectFailure(t, s.Handle("save"))

	test.ExpectSuccess(t, s.Handle("set 3 0x40000000"))
	test.ExpectSuccess(t, s.Handle("save "+path))

	test.ExpectSuccess(t, s.Handle("set 3 0x0"))
	test.ExpectEquality(t, hwStart(t, s.Board, "seg0_0"), 0)

	s.Config = path
	test.ExpectSuccess(t, s.Handle("load"))
	test.ExpectEquality(t, hwStart(t, s.Board, "seg0_0"), 0x4000_0000)

	test.ExpectSuccess(t, s.Handle("mem 0x1000000"))
	test.ExpectError(t, s.Handle("save"), mem.ErrInvalidConfig)
}

func TestHandleNodes(t *testing.T) {
	s, out := newSession("")

	s.Nodes = []mem.MemoryNode{
		{Label: "memory@0", Address: 0, Size: 0x4000_0000},
		{Label: "memory@90000000", Address: 0x9000_0000, Size: 0x1000_0000},
	}

	test.ExpectSuccess(t, s.Handle("nodes"))
	test.ExpectSuccess(t, strings.Contains(out.String(), "memory@90000000"))
	test.ExpectSuccess(t, strings.Contains(out.String(), "unmapped"))

	test.ExpectFailure(t, s.Handle("dt "+filepath.Join(t.TempDir(), "missing.dtb")))
}

func TestHandleWizard(t *testing.T) {
	s, out := newSession("0x80000000\rzz\r3\r0x40000000\rq\r")

	test.ExpectSuccess(t, s.Handle("wizard"))
	test.ExpectEquality(t, hwStart(t, s.Board, "seg0_0"), 0x4000_0000)
	test.ExpectSuccess(t, strings.Contains(out.String(), "Try again"))
	test.ExpectSuccess(t, strings.Contains(out.String(), "Set hardware start address for 32-bit cached:"))
}

func TestHandleWizardEOF(t *testing.T) {
	s, _ := newSession("0x100000000\r")

	test.ExpectEquality(t, s.Handle("wizard"), io.EOF)
	test.ExpectEquality(t, s.Board.TotalMemory(), 0x1_0000_0000)
}

func TestConsole(t *testing.T) {
	var out bytes.Buffer

	s := &Session{Board: mem.NewMPFS()}
	Banner = "test banner"

	Console(readWriter{strings.NewReader("set 0 0x0\rbogus\rexit\r"), &out}, s)

	test.ExpectSuccess(t, strings.Contains(out.String(), "test banner"))
	test.ExpectSuccess(t, strings.Contains(out.String(), "unknown command"))
	test.ExpectEquality(t, hwStart(t, s.Board, "seg0_1"), 0)
}

func TestHelp(t *testing.T) {
	help := Help(nil)

	for _, s := range []string{"wizard", "set <id> <hex addr>", "exit, quit", "dt <dtb path>"} {
		test.ExpectSuccess(t, strings.Contains(help, s), s)
	}
}

// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/usbarmory/mpfs-seg/mem"
)

// Windows returns the board aperture table.
func Windows(b *mem.Board) string {
	var buf bytes.Buffer

	w := tabwriter.NewWriter(&buf, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tDescription\tRegister\tBus address\tHW start\tHW end\tSize\n")

	for id, win := range b.Windows() {
		if win.Err != nil {
			fmt.Fprintf(w, "%d\t%s\t%s\t%#012x\t%s\t%s\t%s\n", id, win.Description, win.RegName, win.BusAddr, "invalid", "-", humanize.IBytes(win.Size))
			continue
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%#012x\t%#012x\t%#012x\t%s of %s\n", id, win.Description, win.RegName, win.BusAddr, win.HWStart, win.HWEnd,
			humanize.IBytes(win.Mapped), humanize.IBytes(win.Size))
	}

	w.Flush()

	fmt.Fprintf(&buf, "total system memory: %#x (%s)\n", b.TotalMemory(), humanize.IBytes(b.TotalMemory()))

	return buf.String()
}

// Routes returns the memory node placement table, unmapped nodes are shown
// with a zero hardware range.
func Routes(routes []mem.Route) string {
	var buf bytes.Buffer

	if len(routes) == 0 {
		return "no memory nodes\n"
	}

	w := tabwriter.NewWriter(&buf, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "Node\tAddress\tSize\tRegister\tHW start\tHW end\n")

	for _, r := range routes {
		reg := r.RegName

		if r.Err != nil {
			reg = "unmapped"
		}

		fmt.Fprintf(w, "%s\t%#012x\t%s\t%s\t%#012x\t%#012x\n", r.Node.Label, r.Node.Address, humanize.IBytes(r.Node.Size), reg, r.HWStart, r.HWEnd)
	}

	w.Flush()

	return buf.String()
}

// Segments returns the segment register values of a valid board, in board
// order.
func Segments(b *mem.Board) (string, error) {
	segs, err := b.Segments()

	if err != nil {
		return "", err
	}

	var s []string

	for id := 0; id < b.Len(); id++ {
		reg := b.Aperture(id).RegName
		s = append(s, fmt.Sprintf("%s: %#x", reg, segs[reg]))
	}

	return "{ " + strings.Join(s, ", ") + " }", nil
}

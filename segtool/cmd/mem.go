// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/usbarmory/mpfs-seg/segtool/internal"
	"github.com/usbarmory/mpfs-seg/util"
)

func init() {
	Add(Cmd{
		Name: "mem",
		Help: "show total system memory",
		Fn:   memCmd,
	})

	Add(Cmd{
		Name:    "mem ",
		Args:    1,
		Pattern: regexp.MustCompile(`^mem ((?:0[xX])?[[:xdigit:]]+)$`),
		Syntax:  "<hex size>",
		Help:    "set total system memory",
		Fn:      memCmd,
	})

	Add(Cmd{
		Name: "show",
		Help: "show memory apertures",
		Fn:   showCmd,
	})

	Add(Cmd{
		Name:    "set",
		Args:    2,
		Pattern: regexp.MustCompile(`^set (\d+) ((?:0[xX])?[[:xdigit:]]+)$`),
		Syntax:  "<id> <hex addr>",
		Help:    "set aperture hardware start address",
		Fn:      setCmd,
	})

	Add(Cmd{
		Name: "seg",
		Help: "show segment registers",
		Fn:   segCmd,
	})

	Add(Cmd{
		Name:    "seg ",
		Args:    2,
		Pattern: regexp.MustCompile(`^seg (\w+) ((?:0[xX])?[[:xdigit:]]+)$`),
		Syntax:  "<register> <hex value>",
		Help:    "set segment register",
		Fn:      segCmd,
	})
}

func status(s *Session) string {
	err := s.Board.Validate()

	if err != nil {
		return util.Status(s.Term, false, err.Error())
	}

	return util.Status(s.Term, true, "configuration valid")
}

func memCmd(s *Session, arg []string) (res string, err error) {
	if len(arg) == 1 {
		size, err := util.ParseHex(arg[0])

		if err != nil {
			return "", fmt.Errorf("invalid size, %v", err)
		}

		if err = wizard.SetTotalMemory(s.Board, size); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("total system memory: %#x\n%s", s.Board.TotalMemory(), status(s)), nil
}

func showCmd(s *Session, _ []string) (res string, err error) {
	return Windows(s.Board) + status(s), nil
}

func setCmd(s *Session, arg []string) (res string, err error) {
	id, err := strconv.ParseUint(arg[0], 10, 32)

	if err != nil {
		return "", fmt.Errorf("invalid aperture ID, %v", err)
	}

	addr, err := util.ParseHex(arg[1])

	if err != nil {
		return "", fmt.Errorf("invalid address, %v", err)
	}

	sel, err := wizard.Select(s.Board, id)

	if err != nil {
		return
	}

	if err = wizard.SetSelectedHWStart(s.Board, sel, addr); err != nil {
		return
	}

	return showCmd(s, nil)
}

func segCmd(s *Session, arg []string) (res string, err error) {
	if len(arg) == 2 {
		id, ok := s.Board.Lookup(arg[0])

		if !ok {
			return "", fmt.Errorf("unknown segment register %s", arg[0])
		}

		seg, err := util.ParseHex(arg[1])

		if err != nil {
			return "", fmt.Errorf("invalid segment value, %v", err)
		}

		if err = s.Board.SetSegment(id, seg); err != nil {
			return "", err
		}
	}

	res, err = Segments(s.Board)

	if err != nil {
		return "", fmt.Errorf("cannot derive segment registers, %w", err)
	}

	return
}

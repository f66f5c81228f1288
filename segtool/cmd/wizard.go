// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/usbarmory/mpfs-seg/segtool/internal"
)

func init() {
	Add(Cmd{
		Name: "wizard",
		Help: "guided aperture configuration (q to leave)",
		Fn:   wizardCmd,
	})
}

func wizardCmd(s *Session, _ []string) (res string, err error) {
	w := wizard.New(s.Board)
	w.Advance()

	for !w.Done() {
		if w.Waiting() == wizard.SelectAperture {
			fmt.Fprint(s.Term, Windows(s.Board))
		}

		fmt.Fprintln(s.Term, w.Prompt())

		line, err := s.Term.ReadLine()

		if err != nil {
			return "", err
		}

		// faults are reported by the next prompt
		_ = w.Input(line)
	}

	return showCmd(s, nil)
}

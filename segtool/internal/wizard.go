// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package wizard implements the interactive aperture configuration flow: set
// the installed memory, select an aperture, set its hardware start address,
// repeat.
package wizard

import (
	"fmt"
	"strings"

	"github.com/usbarmory/mpfs-seg/mem"
	"github.com/usbarmory/mpfs-seg/util"
)

// State represents a wizard state.
type State int

// Wizard states
const (
	Init State = iota
	SelectAperture
	WaitForInput
	SelectOperation
	Exit
)

var stateNames = [...]string{
	Init:            "Init",
	SelectAperture:  "SelectAperture",
	WaitForInput:    "WaitForInput",
	SelectOperation: "SelectOperation",
	Exit:            "Exit",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}

	return stateNames[s]
}

// Wizard drives the configuration flow over a board, one operator input at
// a time.
type Wizard struct {
	board *mem.Board
	m     machine
	fault error
}

// New returns a wizard operating on board b.
func New(b *mem.Board) *Wizard {
	return &Wizard{
		board: b,
		m: machine{
			state: Init,
			sel:   NoSelection,
		},
	}
}

// State returns the current wizard state.
func (w *Wizard) State() State {
	return w.m.state
}

// Selection returns the currently selected aperture.
func (w *Wizard) Selection() Selection {
	return w.m.sel
}

// Done returns whether the wizard reached its Exit state.
func (w *Wizard) Done() bool {
	return w.m.state == Exit
}

// Waiting returns the state whose prompt awaits operator input.
func (w *Wizard) Waiting() State {
	return w.m.pending
}

// Prompt returns the text to present to the operator for the next input,
// preceded by the last fault, if any.
func (w *Wizard) Prompt() (s string) {
	switch w.m.pending {
	case Init:
		s = "Enter total system memory in hex:"
	case SelectAperture:
		s = "Enter an aperture ID to edit:"
	case SelectOperation:
		if id := int(w.m.sel); id >= 0 && id < w.board.Len() {
			s = fmt.Sprintf("Set hardware start address for %s:", w.board.Aperture(id).Description)
		}
	}

	if w.fault != nil {
		s = fmt.Sprintf("%v\nTry again - %s", w.fault, s)
	}

	return
}

// Advance runs all transitions which need no operator input.
func (w *Wizard) Advance() {
	for w.m.state != WaitForInput && w.m.state != Exit {
		w.m, _ = step(w.m, event{})
	}
}

// Input applies one line of operator input, on failure the wizard stays on
// the same prompt and the fault is returned.
func (w *Wizard) Input(line string) (err error) {
	w.Advance()

	if w.Done() {
		return
	}

	next, eff := step(w.m, event{input: line, ok: true})

	if err = w.apply(next, eff); err != nil {
		w.fault = err
		return
	}

	w.fault = nil
	w.m = next
	w.Advance()

	return
}

func (w *Wizard) apply(next machine, eff effect) (err error) {
	if eff.err != nil {
		return eff.err
	}

	switch eff.op {
	case opTotalMemory:
		return SetTotalMemory(w.board, eff.value)
	case opSelect:
		_, err = Select(w.board, eff.value)
	case opHWStart:
		err = SetSelectedHWStart(w.board, next.sel, eff.value)
	}

	return
}

// machine holds the wizard state, transitions between machines are
// computed by step.
type machine struct {
	state State
	// pending is the state whose prompt awaits input
	pending State
	sel     Selection
}

type op int

const (
	opNone op = iota
	opTotalMemory
	opSelect
	opHWStart
)

// effect is the board operation requested by a transition.
type effect struct {
	op    op
	value uint64
	err   error
}

type event struct {
	input string
	ok    bool
}

func isQuit(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "q", "quit", "exit":
		return true
	}

	return false
}

// step returns the machine following m on event ev, along with the board
// operation the transition requires.
func step(m machine, ev event) (machine, effect) {
	switch m.state {
	case Init, SelectAperture, SelectOperation:
		m.pending = m.state
		m.state = WaitForInput
		return m, effect{}
	case Exit:
		return m, effect{}
	}

	if !ev.ok {
		return m, effect{}
	}

	if isQuit(ev.input) {
		m.state = Exit
		return m, effect{}
	}

	val, err := util.ParseHex(ev.input)

	if err != nil {
		return m, effect{err: fmt.Errorf("invalid input %q, please enter a hex number", strings.TrimSpace(ev.input))}
	}

	switch m.pending {
	case Init:
		m.state = SelectAperture
		return m, effect{op: opTotalMemory, value: val}
	case SelectAperture:
		m.state = SelectOperation
		m.sel = Selection(val)

		if val > uint64(maxSelection) {
			m.sel = NoSelection
		}

		return m, effect{op: opSelect, value: val}
	case SelectOperation:
		m.state = SelectAperture
		return m, effect{op: opHWStart, value: val}
	}

	return m, effect{}
}

// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package cmd implements the segment configuration console commands.
package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"sort"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/usbarmory/mpfs-seg/mem"
	"github.com/usbarmory/mpfs-seg/util"
)

// Banner is the console welcome banner.
var Banner string

// CmdFn represents a command handler.
type CmdFn func(s *Session, arg []string) (res string, err error)

// Cmd represents a console command.
type Cmd struct {
	Name    string
	Args    int
	Pattern *regexp.Regexp
	Syntax  string
	Help    string
	Fn      CmdFn
}

var cmds = make(map[string]*Cmd)

// Add registers a console command.
func Add(cmd Cmd) {
	cmds[cmd.Name] = &cmd
}

// Session represents the state of a console session, the board is owned
// by the session for its whole duration.
type Session struct {
	// Term is the session terminal
	Term *term.Terminal
	// Board is the board under configuration
	Board *mem.Board
	// Nodes are the memory nodes of the last loaded device tree
	Nodes []mem.MemoryNode
	// Config is the default configuration file path
	Config string
}

// Help returns the command list.
func Help(t *term.Terminal) string {
	var help bytes.Buffer
	var names []string

	for name := range cmds {
		names = append(names, name)
	}

	sort.Strings(names)

	w := tabwriter.NewWriter(&help, 16, 8, 0, '\t', tabwriter.TabIndent)

	for _, name := range names {
		cmd := cmds[name]
		fmt.Fprintf(w, "%s %s\t # %s\n", strings.TrimSpace(cmd.Name), cmd.Syntax, cmd.Help)
	}

	w.Flush()

	if t == nil {
		return help.String()
	}

	return string(t.Escape.Cyan) + help.String() + string(t.Escape.Reset)
}

// Handle executes a single command line, command output is written to the
// session terminal. An io.EOF error is returned when the session should be
// closed.
func (s *Session) Handle(line string) (err error) {
	var match *Cmd
	var arg []string

	line = strings.TrimSpace(line)

	if len(line) == 0 {
		return
	}

	for _, cmd := range cmds {
		if cmd.Pattern == nil {
			if cmd.Name == line {
				match = cmd
				break
			}

			continue
		}

		if m := cmd.Pattern.FindStringSubmatch(line); len(m) == cmd.Args+1 {
			match = cmd
			arg = m[1:]
			break
		}
	}

	if match == nil {
		return errors.New("unknown command, type `help`")
	}

	res, err := match.Fn(s, arg)

	if len(res) > 0 {
		fmt.Fprintln(s.Term, strings.TrimRight(res, "\n"))
	}

	return
}

// Handler adapts the session to a terminal command handler.
func (s *Session) Handler(t *term.Terminal, line string) error {
	s.Term = t
	return s.Handle(line)
}

// Console runs the command console over rw until the session is closed.
func Console(rw io.ReadWriter, s *Session) {
	s.Term = util.NewTerminal(rw)

	prev := log.Writer()
	log.SetOutput(&util.TermLog{Term: s.Term})
	defer log.SetOutput(prev)

	fmt.Fprintf(s.Term, "%s\n", Banner)
	fmt.Fprintf(s.Term, "%s\n", Help(s.Term))

	for {
		line, err := s.Term.ReadLine()

		if err == io.EOF {
			return
		}

		if err != nil {
			log.Printf("readline error: %v", err)
			continue
		}

		if err = s.Handle(line); err == io.EOF {
			return
		} else if err != nil {
			fmt.Fprintln(s.Term, util.Status(s.Term, false, err.Error()))
		}
	}
}

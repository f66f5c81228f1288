// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package util

import (
	"bytes"
	"io"
	"sync"

	"golang.org/x/term"
)

const outputLimit = 1024
const flushChr = 0x0a // \n

// TermLog is an io.Writer which buffers log output and flushes it, one line
// at a time, to a terminal in a distinct color.
type TermLog struct {
	sync.Mutex

	Term *term.Terminal

	buf bytes.Buffer
}

// Write implements io.Writer.
func (l *TermLog) Write(p []byte) (n int, err error) {
	l.Lock()
	defer l.Unlock()

	for _, c := range p {
		l.buf.WriteByte(c)

		if c == flushChr || l.buf.Len() > outputLimit {
			l.flush()
		}
	}

	return len(p), nil
}

func (l *TermLog) flush() {
	if l.Term != nil {
		l.Term.Write(l.Term.Escape.Cyan)
		l.Term.Write(l.buf.Bytes())
		l.Term.Write(l.Term.Escape.Reset)
	}

	l.buf.Reset()
}

// Status returns s in green when ok is set, red otherwise. The string is
// returned as is when t is nil.
func Status(t *term.Terminal, ok bool, s string) string {
	if t == nil {
		return s
	}

	color := t.Escape.Red

	if ok {
		color = t.Escape.Green
	}

	return string(color) + s + string(t.Escape.Reset)
}

// NewTerminal returns a terminal over rw with the console prompt.
func NewTerminal(rw io.ReadWriter) (t *term.Terminal) {
	t = term.NewTerminal(rw, "")
	t.SetPrompt(string(t.Escape.Red) + "> " + string(t.Escape.Reset))

	return
}

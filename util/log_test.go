// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package util

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"golang.org/x/term"

	"github.com/usbarmory/mpfs-seg/internal/test"
)

func TestTermLog(t *testing.T) {
	var out bytes.Buffer

	l := &TermLog{
		Term: term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{strings.NewReader(""), &out}, ""),
	}

	n, err := l.Write([]byte("partial"))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 7)
	test.ExpectEquality(t, out.Len(), 0)

	_, err = l.Write([]byte(" line\n"))
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, strings.Contains(out.String(), "partial line"))
}

func TestStatus(t *testing.T) {
	test.ExpectEquality(t, Status(nil, false, "fault"), "fault")

	tt := NewTerminal(struct {
		io.Reader
		io.Writer
	}{strings.NewReader(""), io.Discard})

	s := Status(tt, true, "valid")
	test.ExpectSuccess(t, strings.HasPrefix(s, string(tt.Escape.Green)))
	test.ExpectSuccess(t, strings.HasSuffix(s, string(tt.Escape.Reset)))
}

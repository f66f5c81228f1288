// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package test

import (
	"fmt"
	"strings"
	"testing"
)

// ExpectEquality tests equality between one value and another.
//
// Integer values are printed in hex as most values under test are addresses
// and register contents.
func ExpectEquality[T comparable](t *testing.T, v T, expected T, tags ...interface{}) bool {
	t.Helper()

	if v != expected {
		t.Errorf("%sequality test of type %T failed: %s does not equal %s", id(tags), v, format(v), format(expected))
		return false
	}

	return true
}

// DemandEquality is like ExpectEquality but stops the test on failure. Use
// it when later checks depend on the value, for example slice lengths.
func DemandEquality[T comparable](t *testing.T, v T, expected T, tags ...interface{}) {
	t.Helper()

	if v != expected {
		t.Fatalf("%sequality test of type %T failed: %s does not equal %s", id(tags), v, format(v), format(expected))
	}
}

func format(v interface{}) string {
	switch v.(type) {
	case int, int64, uint, uint32, uint64:
		return fmt.Sprintf("%#x", v)
	}

	return fmt.Sprintf("'%v'", v)
}

func id(tags []interface{}) string {
	if len(tags) == 0 {
		return ""
	}

	s := make([]string, len(tags))

	for i, tag := range tags {
		s[i] = fmt.Sprint(tag)
	}

	return strings.Join(s, " ") + ": "
}

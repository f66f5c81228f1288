// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package util

import (
	"errors"
	"strconv"
	"strings"
)

// ParseHex parses a hexadecimal number with an optional 0x prefix.
func ParseHex(s string) (uint64, error) {
	s = strings.TrimSpace(s)

	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}

	if len(s) == 0 {
		return 0, errors.New("empty hex number")
	}

	return strconv.ParseUint(s, 16, 64)
}

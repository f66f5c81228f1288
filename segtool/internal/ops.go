// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package wizard

import (
	"errors"
	"fmt"
	"math"

	"github.com/usbarmory/mpfs-seg/mem"
)

// Selection identifies the aperture chosen by the operator, it is owned by
// the caller and never stored on the board.
type Selection int

// NoSelection is the empty aperture selection.
const NoSelection Selection = -1

const maxSelection = math.MaxInt32

// SetTotalMemory sets the board installed memory size.
func SetTotalMemory(b *mem.Board, size uint64) error {
	return b.SetTotalMemory(size)
}

// Select validates an operator supplied aperture identifier.
func Select(b *mem.Board, id uint64) (Selection, error) {
	if id >= uint64(b.Len()) {
		return NoSelection, fmt.Errorf("invalid aperture ID %d, valid IDs are 0-%d", id, b.Len()-1)
	}

	return Selection(id), nil
}

// SetSelectedHWStart maps the selected aperture onto hardware address addr.
func SetSelectedHWStart(b *mem.Board, sel Selection, addr uint64) error {
	if sel < 0 || int(sel) >= b.Len() {
		return errors.New("no aperture selected")
	}

	if err := b.SetHWStart(addr, int(sel)); err != nil {
		return fmt.Errorf("failed setting hardware start address, %w", err)
	}

	return nil
}

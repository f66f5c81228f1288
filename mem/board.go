// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mem

import (
	"errors"
	"fmt"
)

// Board represents a SoC memory system: a fixed, ordered, set of apertures
// and the amount of installed system memory they can be mapped onto.
//
// Aperture identifiers are indexes in the aperture set, accessors panic when
// passed an identifier outside of [0, Len()).
type Board struct {
	// Name is the SoC model name
	Name string

	totalMemory uint64
	apertures   []*Aperture
}

// NewBoard returns a board with the given total system memory and aperture
// set, the aperture order is retained for the board lifetime.
func NewBoard(name string, totalMemory uint64, apertures ...*Aperture) *Board {
	return &Board{
		Name:        name,
		totalMemory: totalMemory,
		apertures:   apertures,
	}
}

// TotalMemory returns the installed system memory size.
func (b *Board) TotalMemory() uint64 {
	return b.totalMemory
}

// SetTotalMemory updates the installed system memory size.
//
// Apertures are not remapped, those which are no longer backed by memory
// become invalid until their hardware start address is updated.
func (b *Board) SetTotalMemory(size uint64) error {
	if size == 0 {
		return errors.New("total system memory must not be zero")
	}

	b.totalMemory = size

	return nil
}

// Len returns the number of board apertures.
func (b *Board) Len() int {
	return len(b.apertures)
}

// Aperture returns a copy of aperture id.
func (b *Board) Aperture(id int) Aperture {
	return *b.apertures[id]
}

// Lookup returns the identifier of the aperture with segment register name
// regName.
func (b *Board) Lookup(regName string) (id int, ok bool) {
	for id, a := range b.apertures {
		if a.RegName == regName {
			return id, true
		}
	}

	return -1, false
}

// HWStart returns the hardware start address of aperture id.
func (b *Board) HWStart(id int) (uint64, error) {
	return b.apertures[id].HWStart(b.totalMemory)
}

// HWEnd returns the hardware end address of aperture id.
func (b *Board) HWEnd(id int) (uint64, error) {
	return b.apertures[id].HWEnd(b.totalMemory)
}

// SetHWStart maps aperture id onto hardware address addr.
func (b *Board) SetHWStart(addr uint64, id int) error {
	return b.apertures[id].SetHWStart(b.totalMemory, addr)
}

// Validate checks that all apertures are mapped within the installed system
// memory. On failure the returned error wraps ErrInvalidConfig as well as
// each aperture error.
func (b *Board) Validate() error {
	var errs []error

	for id, a := range b.apertures {
		if _, err := b.HWStart(id); err != nil {
			errs = append(errs, err)
			continue
		}

		if _, err := b.HWEnd(id); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", a.RegName, err))
		}
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%w (%d of %d apertures): %w", ErrInvalidConfig, len(errs), len(b.apertures), errors.Join(errs...))
}

// Segment returns the segment register value for aperture id.
func (b *Board) Segment(id int) (seg uint64, err error) {
	a := b.apertures[id]

	hw, err := a.HWStart(b.totalMemory)

	if err != nil {
		return
	}

	return HWToSeg(hw, a.busAddr)
}

// SetSegment maps aperture id according to segment register value seg.
func (b *Board) SetSegment(id int, seg uint64) (err error) {
	a := b.apertures[id]

	hw, err := SegToHW(seg, a.busAddr)

	if err != nil {
		return fmt.Errorf("%s: %w", a.RegName, err)
	}

	return a.SetHWStart(b.totalMemory, hw)
}

// Segments returns the segment register values of all apertures, indexed by
// register name. No value is returned unless the whole board is valid.
func (b *Board) Segments() (segs map[string]uint64, err error) {
	if err = b.Validate(); err != nil {
		return nil, err
	}

	segs = make(map[string]uint64, len(b.apertures))

	var errs []error

	for id, a := range b.apertures {
		seg, err := b.Segment(id)

		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", a.RegName, err))
			continue
		}

		segs[a.RegName] = seg
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return
}

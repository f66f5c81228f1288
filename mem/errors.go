// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mem

import (
	"errors"
)

var (
	// ErrOutOfRange is returned when a hardware start address is not backed
	// by installed system memory.
	ErrOutOfRange = errors.New("hardware address exceeds total system memory")

	// ErrNoRoutingAperture is returned when a memory node overlaps no
	// aperture hardware window.
	ErrNoRoutingAperture = errors.New("no routing aperture found")

	// ErrInvalidConfig is returned when at least one aperture of a board
	// fails validation, segment register values cannot be derived until it
	// is fixed.
	ErrInvalidConfig = errors.New("invalid aperture configuration")

	// ErrSegmentRange is returned when an address pair cannot be expressed
	// as a segment register value, or a segment value would place the
	// hardware address below zero.
	ErrSegmentRange = errors.New("segment offset out of range")
)

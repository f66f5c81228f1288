// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mem

import (
	"fmt"

	"github.com/usbarmory/tamago/bits"
)

// Segment register layout
const (
	// SEG_EN is set when the register holds an offset, when clear the
	// aperture maps 1:1 onto its bus address.
	SEG_EN = 14
	// SEG_OFFSET is the offset field mask.
	SEG_OFFSET = 0x3fff

	// SegmentShift is the log2 of the segment offset granularity (16MB).
	SegmentShift = 24
	// SegmentGranule is the segment offset granularity.
	SegmentGranule = 1 << SegmentShift
)

// SegToHW returns the hardware start address that segment register value seg
// maps an aperture at bus address busAddr onto.
//
// A register with SEG_EN clear is either zero or ignored by the bootloader,
// in both cases the hardware address equals the bus address.
func SegToHW(seg uint64, busAddr uint64) (hw uint64, err error) {
	reg := uint32(seg)

	if bits.Get(&reg, SEG_EN, 1) == 0 {
		return busAddr, nil
	}

	offset := uint64((1<<SEG_EN)-bits.Get(&reg, 0, SEG_OFFSET)) << SegmentShift

	if offset > busAddr {
		return 0, fmt.Errorf("segment %#x at bus address %#x: %w", seg, busAddr, ErrSegmentRange)
	}

	return busAddr - offset, nil
}

// HWToSeg returns the segment register value which maps an aperture at bus
// address busAddr onto hardware address hw, it is the inverse of SegToHW.
//
// The hardware address must not be above the bus address and their
// distance must be a multiple of SegmentGranule.
func HWToSeg(hw uint64, busAddr uint64) (seg uint64, err error) {
	if hw == busAddr {
		return 0, nil
	}

	if hw > busAddr {
		return 0, fmt.Errorf("hardware address %#x above bus address %#x: %w", hw, busAddr, ErrSegmentRange)
	}

	delta := busAddr - hw

	if delta%SegmentGranule != 0 {
		return 0, fmt.Errorf("hardware address %#x not %#x aligned to bus address %#x: %w", hw, SegmentGranule, busAddr, ErrSegmentRange)
	}

	delta >>= SegmentShift

	if delta > 1<<SEG_EN {
		return 0, fmt.Errorf("hardware address %#x too far below bus address %#x: %w", hw, busAddr, ErrSegmentRange)
	}

	var reg uint32

	bits.SetN(&reg, 0, SEG_OFFSET, uint32((1<<SEG_EN)-delta))
	bits.Set(&reg, SEG_EN)

	return uint64(reg), nil
}

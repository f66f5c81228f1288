// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mem_test

import (
	"fmt"
	"testing"

	"github.com/usbarmory/mpfs-seg/internal/test"
	"github.com/usbarmory/mpfs-seg/mem"
)

func TestSegmentIdentity(t *testing.T) {
	for _, bus := range []uint64{0, mem.Cached32Start, mem.Cached64Start, mem.WCB64Start} {
		seg, err := mem.HWToSeg(bus, bus)
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, seg, 0, bus)

		hw, err := mem.SegToHW(0, bus)
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, hw, bus)
	}
}

func TestSegmentDisabled(t *testing.T) {
	// without SEG_EN the offset field is ignored
	for _, seg := range []uint64{0x1, 0x3002, 0x3fff, 0x8000, 0xbfff} {
		hw, err := mem.SegToHW(seg, mem.Cached64Start)
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, hw, uint64(mem.Cached64Start), fmt.Sprintf("seg %#x", seg))
	}
}

func TestSegmentKnownValues(t *testing.T) {
	for _, tt := range []struct {
		bus uint64
		hw  uint64
		seg uint64
	}{
		{mem.Cached64Start, 0x0200_0000, 0x7002},
		{mem.Cached64Start, 0, 0x7000},
		{mem.NonCached64Start, 0, 0x6c00},
		{mem.WCB64Start, 0, 0x6800},
		{mem.Cached32Start, 0, 0x7f80},
		{mem.NonCached32Start, 0, 0x7f40},
		{mem.WCB32Start, 0, 0x7f30},
		{mem.Cached32Start, 0x4000_0000, 0x7fc0},
	} {
		tag := fmt.Sprintf("bus %#x hw %#x", tt.bus, tt.hw)

		seg, err := mem.HWToSeg(tt.hw, tt.bus)
		test.ExpectSuccess(t, err, tag)
		test.ExpectEquality(t, seg, tt.seg, tag)

		hw, err := mem.SegToHW(tt.seg, tt.bus)
		test.ExpectSuccess(t, err, tag)
		test.ExpectEquality(t, hw, tt.hw, tag)
	}
}

func TestSegmentRoundTrip(t *testing.T) {
	buses := []uint64{
		mem.Cached32Start,
		mem.NonCached32Start,
		mem.WCB32Start,
		mem.Cached64Start,
		mem.NonCached64Start,
		mem.WCB64Start,
		0x40_0000_0000,
	}

	for _, bus := range buses {
		for delta := uint64(0); delta <= 1<<mem.SEG_EN; delta++ {
			offset := delta << mem.SegmentShift

			if offset > bus {
				break
			}

			hw := bus - offset

			seg, err := mem.HWToSeg(hw, bus)

			if !test.ExpectSuccess(t, err, fmt.Sprintf("bus %#x hw %#x", bus, hw)) {
				continue
			}

			got, err := mem.SegToHW(seg, bus)
			test.ExpectSuccess(t, err)
			test.ExpectEquality(t, got, hw, fmt.Sprintf("bus %#x seg %#x", bus, seg))
		}
	}
}

func TestSegmentPersistence(t *testing.T) {
	bus := uint64(0x10_0000_0000)

	hw, err := mem.SegToHW(0x7002, bus)
	test.ExpectSuccess(t, err)

	seg, err := mem.HWToSeg(hw, bus)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, seg, 0x7002)
}

func TestSegmentUnderflow(t *testing.T) {
	// offset 0x3fff << 24 is far above a 32-bit bus address
	_, err := mem.SegToHW(0x4001, mem.Cached32Start)
	test.ExpectError(t, err, mem.ErrSegmentRange)

	// largest offset which still fits
	hw, err := mem.SegToHW(0x7f80, mem.Cached32Start)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, hw, 0)
}

func TestSegmentUnencodable(t *testing.T) {
	for _, tt := range []struct {
		name string
		hw   uint64
		bus  uint64
	}{
		{"above bus address", mem.Cached32Start + mem.SegmentGranule, mem.Cached32Start},
		{"misaligned", mem.Cached32Start - 0x1000, mem.Cached32Start},
		{"too far", 0, 0x50_0000_0000},
	} {
		_, err := mem.HWToSeg(tt.hw, tt.bus)
		test.ExpectError(t, err, mem.ErrSegmentRange, tt.name)
	}
}

// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mem

// PolarFire SoC (MPFS) memory apertures, the hardware addresses are the
// bootloader defaults.
const (
	// 64-bit cached
	Cached64Start = 0x10_0000_0000
	Cached64Size  = 0x40_0000_0000 // 256GB
	Cached64HW    = 0x00_0200_0000

	// 64-bit non-cached
	NonCached64Start = 0x14_0000_0000
	NonCached64Size  = 0x00_4000_0000 // 1GB

	// 64-bit write combining buffer
	WCB64Start = 0x18_0000_0000
	WCB64Size  = 0x00_4000_0000 // 1GB

	// 32-bit cached
	Cached32Start = 0x8000_0000
	Cached32Size  = 0x4000_0000 // 1GB

	// 32-bit non-cached
	NonCached32Start = 0xc000_0000
	NonCached32Size  = 0x1000_0000 // 256MB

	// 32-bit write combining buffer
	WCB32Start = 0xd000_0000
	WCB32Size  = 0x1000_0000 // 256MB

	// DefaultMemory is the installed system memory assumed until
	// configured.
	DefaultMemory = 0x8000_0000 // 2GB
)

// MPFS is the PolarFire SoC model name.
const MPFS = "MPFS"

// NewMPFS returns a PolarFire SoC board in its default configuration.
func NewMPFS() *Board {
	return NewBoard(MPFS, DefaultMemory,
		NewAperture("64-bit cached", "seg0_1", Cached64Start, Cached64Size, Cached64HW),
		NewAperture("64-bit non-cached", "seg1_3", NonCached64Start, NonCached64Size, 0),
		NewAperture("64-bit WCB", "seg1_5", WCB64Start, WCB64Size, 0),
		NewAperture("32-bit cached", "seg0_0", Cached32Start, Cached32Size, 0),
		NewAperture("32-bit non-cached", "seg1_2", NonCached32Start, NonCached32Size, 0),
		NewAperture("32-bit WCB", "seg1_4", WCB32Start, WCB32Size, 0),
	)
}

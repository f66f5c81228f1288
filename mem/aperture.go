// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mem

import (
	"fmt"
)

// Aperture represents a fixed bus address window which is redirected onto
// physical memory by a segment register.
type Aperture struct {
	// Description is a human readable label
	Description string
	// RegName is the segment register name
	RegName string

	busAddr uint64
	size    uint64
	hwAddr  uint64
}

// NewAperture returns an aperture at bus address busAddr, of the given size,
// initially mapped onto hardware address hwAddr.
func NewAperture(description string, regName string, busAddr uint64, size uint64, hwAddr uint64) *Aperture {
	return &Aperture{
		Description: description,
		RegName:     regName,
		busAddr:     busAddr,
		size:        size,
		hwAddr:      hwAddr,
	}
}

// BusAddr returns the aperture bus address.
func (a *Aperture) BusAddr() uint64 {
	return a.busAddr
}

// Size returns the aperture window size.
func (a *Aperture) Size() uint64 {
	return a.size
}

// HWStart returns the hardware address the aperture is mapped onto, an
// error is returned if the address lies above the total system memory.
func (a *Aperture) HWStart(totalMemory uint64) (uint64, error) {
	if a.hwAddr > totalMemory {
		return 0, fmt.Errorf("%s start %#x, total memory %#x: %w", a.RegName, a.hwAddr, totalMemory, ErrOutOfRange)
	}

	return a.hwAddr, nil
}

// HWEnd returns the end of the aperture hardware window, which is the lowest
// between the end of the aperture and the total system memory.
func (a *Aperture) HWEnd(totalMemory uint64) (uint64, error) {
	if a.size > totalMemory || a.hwAddr > totalMemory-a.size {
		return totalMemory, nil
	}

	return a.hwAddr + a.size, nil
}

// SetHWStart maps the aperture onto hardware address addr, which must lie
// below the total system memory. The aperture is left unchanged on error.
func (a *Aperture) SetHWStart(totalMemory uint64, addr uint64) error {
	if addr >= totalMemory {
		return fmt.Errorf("%s start %#x, total memory %#x: %w", a.RegName, addr, totalMemory, ErrOutOfRange)
	}

	a.hwAddr = addr

	return nil
}

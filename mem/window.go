// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mem

// Window is a read-only snapshot of an aperture mapping, suitable for
// display.
type Window struct {
	Description string
	RegName     string

	BusAddr uint64
	HWStart uint64
	HWEnd   uint64
	// Size is the aperture size
	Size uint64
	// Mapped is the size of the hardware window backed by memory
	Mapped uint64

	// Err is set when the aperture is not mapped onto installed memory
	Err error
}

// Windows returns a snapshot of all board apertures, in board order.
func (b *Board) Windows() (w []Window) {
	for id, a := range b.apertures {
		win := Window{
			Description: a.Description,
			RegName:     a.RegName,
			BusAddr:     a.busAddr,
			Size:        a.size,
		}

		if win.HWStart, win.Err = b.HWStart(id); win.Err == nil {
			win.HWEnd, win.Err = b.HWEnd(id)
		}

		if win.Err == nil && win.HWEnd > win.HWStart {
			win.Mapped = win.HWEnd - win.HWStart
		}

		w = append(w, win)
	}

	return
}

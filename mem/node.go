// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mem

import (
	"fmt"
	"math"
)

// MemoryNode represents a memory region declared in a device tree.
type MemoryNode struct {
	Label   string
	Address uint64
	Size    uint64
}

// End returns the first address past the node region.
func (n MemoryNode) End() uint64 {
	if n.Size > math.MaxUint64-n.Address {
		return math.MaxUint64
	}

	return n.Address + n.Size
}

// Route represents the placement of a memory node within the board
// apertures.
type Route struct {
	Node MemoryNode

	// ID is the routing aperture identifier, -1 when unmapped
	ID      int
	RegName string

	// HWStart and HWEnd delimit the part of the node within the routing
	// aperture hardware window, both zero when unmapped.
	HWStart uint64
	HWEnd   uint64

	Err error
}

// Route returns the first aperture, in board order, whose hardware window
// overlaps memory node n. Apertures not mapped onto installed memory are
// ignored.
func (b *Board) Route(n MemoryNode) (r Route, err error) {
	r = Route{
		Node: n,
		ID:   -1,
	}

	for id, a := range b.apertures {
		start, err := b.HWStart(id)

		if err != nil {
			continue
		}

		end, _ := b.HWEnd(id)

		if n.Size == 0 || start >= end || n.Address >= end || n.End() <= start {
			continue
		}

		r.ID = id
		r.RegName = a.RegName
		r.HWStart = max(n.Address, start)
		r.HWEnd = min(n.End(), end)

		return r, nil
	}

	r.Err = fmt.Errorf("%s %#x-%#x: %w", n.Label, n.Address, n.End(), ErrNoRoutingAperture)

	return r, r.Err
}

// RouteAll resolves all memory nodes, unmapped nodes are returned with
// their error set rather than stopping resolution.
func (b *Board) RouteAll(nodes []MemoryNode) (routes []Route) {
	for _, n := range nodes {
		r, _ := b.Route(n)
		routes = append(routes, r)
	}

	return
}

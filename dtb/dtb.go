// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package dtb extracts the installed memory regions from a flattened device
// tree blob.
package dtb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/u-root/u-root/pkg/dt"

	"github.com/usbarmory/mpfs-seg/mem"
)

// Devicetree specification defaults for a node lacking cell properties.
const (
	defaultAddressCells = 2
	defaultSizeCells    = 1
)

// Load reads the memory nodes of the device tree blob at path.
func Load(path string) (nodes []mem.MemoryNode, err error) {
	f, err := os.Open(path)

	if err != nil {
		return
	}
	defer f.Close()

	return Read(f)
}

// Read parses a device tree blob and returns its memory nodes.
func Read(r io.ReadSeeker) (nodes []mem.MemoryNode, err error) {
	fdt, err := dt.ReadFDT(r)

	if err != nil {
		return nil, fmt.Errorf("invalid device tree, %v", err)
	}

	if fdt.RootNode == nil {
		return nil, errors.New("device tree has no root node")
	}

	return MemoryNodes(fdt.RootNode)
}

// MemoryNodes returns one memory node for each region listed by enabled
// root node children with device_type "memory".
func MemoryNodes(root *dt.Node) (nodes []mem.MemoryNode, err error) {
	addressCells, err := cells(root, "#address-cells", defaultAddressCells)

	if err != nil {
		return
	}

	sizeCells, err := cells(root, "#size-cells", defaultSizeCells)

	if err != nil {
		return
	}

	for _, child := range root.Children {
		if deviceType, _ := str(child, "device_type"); deviceType != "memory" {
			continue
		}

		if status, ok := str(child, "status"); ok && status != "okay" && status != "ok" {
			continue
		}

		reg, ok := property(child, "reg")

		if !ok {
			continue
		}

		regions, err := parseReg(reg, addressCells, sizeCells)

		if err != nil {
			return nil, fmt.Errorf("%s: %v", child.Name, err)
		}

		for i, region := range regions {
			label := child.Name

			if len(regions) > 1 {
				label = fmt.Sprintf("%s#%d", child.Name, i)
			}

			nodes = append(nodes, mem.MemoryNode{
				Label:   label,
				Address: region[0],
				Size:    region[1],
			})
		}
	}

	return
}

func parseReg(reg []byte, addressCells int, sizeCells int) (regions [][2]uint64, err error) {
	entry := (addressCells + sizeCells) * 4

	if entry == 0 || len(reg)%entry != 0 {
		return nil, fmt.Errorf("reg length %d is not a multiple of %d", len(reg), entry)
	}

	for off := 0; off < len(reg); off += entry {
		addr := readCells(reg[off:], addressCells)
		size := readCells(reg[off+addressCells*4:], sizeCells)
		regions = append(regions, [2]uint64{addr, size})
	}

	return
}

func readCells(buf []byte, n int) (v uint64) {
	for i := 0; i < n; i++ {
		v = v<<32 | uint64(binary.BigEndian.Uint32(buf[i*4:]))
	}

	return
}

func cells(n *dt.Node, name string, def int) (int, error) {
	val, ok := property(n, name)

	if !ok {
		return def, nil
	}

	if len(val) != 4 {
		return 0, fmt.Errorf("invalid %s length %d", name, len(val))
	}

	c := int(binary.BigEndian.Uint32(val))

	if c > 2 {
		return 0, fmt.Errorf("unsupported %s value %d", name, c)
	}

	return c, nil
}

func str(n *dt.Node, name string) (string, bool) {
	val, ok := property(n, name)
	return strings.TrimRight(string(val), "\x00"), ok
}

func property(n *dt.Node, name string) ([]byte, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}

	return nil, false
}

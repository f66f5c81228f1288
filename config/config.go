// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package config implements persistence of segment register configurations
// in YAML format.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/usbarmory/mpfs-seg/mem"
	"github.com/usbarmory/mpfs-seg/util"
)

// Config represents a segment register configuration.
type Config struct {
	// TotalMemory is the installed system memory size (optional)
	TotalMemory string `yaml:"total-system-memory,omitempty"`
	// Segments maps segment register names to hex register values
	Segments map[string]string `yaml:"seg-reg"`
}

// Load reads the configuration file at path.
func Load(path string) (c *Config, err error) {
	f, err := os.Open(path)

	if err != nil {
		return
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a YAML configuration.
func Decode(r io.Reader) (c *Config, err error) {
	c = &Config{}

	if err = yaml.NewDecoder(r).Decode(c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("invalid configuration, %v", err)
	}

	return c, nil
}

// Encode writes the configuration in YAML format.
func (c *Config) Encode(w io.Writer) (err error) {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err = enc.Encode(c); err != nil {
		return
	}

	return enc.Close()
}

// Save writes the configuration to the file at path.
func (c *Config) Save(path string) (err error) {
	var buf bytes.Buffer

	if err = c.Encode(&buf); err != nil {
		return
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Apply maps the board apertures according to the configuration.
//
// Each entry is applied independently, in register name order, entries
// which cannot be applied leave their aperture unchanged and are reported
// together once all others have been applied.
func (c *Config) Apply(b *mem.Board) error {
	var errs []error

	if c.TotalMemory != "" {
		if size, err := util.ParseHex(c.TotalMemory); err != nil {
			errs = append(errs, fmt.Errorf("total-system-memory %q: %v", c.TotalMemory, err))
		} else if err = b.SetTotalMemory(size); err != nil {
			errs = append(errs, fmt.Errorf("total-system-memory: %w", err))
		}
	}

	regs := make([]string, 0, len(c.Segments))

	for reg := range c.Segments {
		regs = append(regs, reg)
	}

	sort.Strings(regs)

	for _, reg := range regs {
		val := c.Segments[reg]

		id, ok := b.Lookup(reg)

		if !ok {
			errs = append(errs, fmt.Errorf("%s: unknown segment register", reg))
			continue
		}

		seg, err := util.ParseHex(val)

		if err != nil {
			errs = append(errs, fmt.Errorf("%s %q: %v", reg, val, err))
			continue
		}

		if err = b.SetSegment(id, seg); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Derive returns the configuration of all board apertures, it fails with
// mem.ErrInvalidConfig unless all apertures are valid.
func Derive(b *mem.Board) (c *Config, err error) {
	segs, err := b.Segments()

	if err != nil {
		return
	}

	c = &Config{
		TotalMemory: fmt.Sprintf("%#x", b.TotalMemory()),
		Segments:    make(map[string]string, len(segs)),
	}

	for reg, seg := range segs {
		c.Segments[reg] = fmt.Sprintf("%#x", seg)
	}

	return
}

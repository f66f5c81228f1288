// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"fmt"
	"log"
	"regexp"

	"github.com/usbarmory/mpfs-seg/config"
)

func init() {
	Add(Cmd{
		Name: "load",
		Help: "load segment configuration from default path",
		Fn:   loadCmd,
	})

	Add(Cmd{
		Name:    "load ",
		Args:    1,
		Pattern: regexp.MustCompile(`^load (\S+)$`),
		Syntax:  "<yaml path>",
		Help:    "load segment configuration",
		Fn:      loadCmd,
	})

	Add(Cmd{
		Name: "save",
		Help: "save segment configuration to default path",
		Fn:   saveCmd,
	})

	Add(Cmd{
		Name:    "save ",
		Args:    1,
		Pattern: regexp.MustCompile(`^save (\S+)$`),
		Syntax:  "<yaml path>",
		Help:    "save segment configuration",
		Fn:      saveCmd,
	})
}

func configPath(s *Session, arg []string) (string, error) {
	if len(arg) == 1 {
		return arg[0], nil
	}

	if len(s.Config) == 0 {
		return "", errors.New("no configuration path")
	}

	return s.Config, nil
}

func loadCmd(s *Session, arg []string) (res string, err error) {
	path, err := configPath(s, arg)

	if err != nil {
		return
	}

	c, err := config.Load(path)

	if err != nil {
		return
	}

	if err = c.Apply(s.Board); err != nil {
		return Windows(s.Board), fmt.Errorf("partially applied %s, %w", path, err)
	}

	log.Printf("applied %s", path)

	return showCmd(s, nil)
}

func saveCmd(s *Session, arg []string) (res string, err error) {
	path, err := configPath(s, arg)

	if err != nil {
		return
	}

	c, err := config.Derive(s.Board)

	if err != nil {
		return "", fmt.Errorf("not saved, %w", err)
	}

	if err = c.Save(path); err != nil {
		return
	}

	log.Printf("saved %s", path)

	return fmt.Sprintf("saved %s", path), nil
}

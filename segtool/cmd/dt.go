// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"log"
	"regexp"

	"github.com/usbarmory/mpfs-seg/dtb"
)

func init() {
	Add(Cmd{
		Name:    "dt",
		Args:    1,
		Pattern: regexp.MustCompile(`^dt (\S+)$`),
		Syntax:  "<dtb path>",
		Help:    "load device tree memory nodes",
		Fn:      dtCmd,
	})

	Add(Cmd{
		Name: "nodes",
		Help: "show device tree memory node placement",
		Fn:   nodesCmd,
	})
}

func dtCmd(s *Session, arg []string) (res string, err error) {
	nodes, err := dtb.Load(arg[0])

	if err != nil {
		return
	}

	log.Printf("loaded %d memory nodes from %s", len(nodes), arg[0])
	s.Nodes = nodes

	return nodesCmd(s, nil)
}

func nodesCmd(s *Session, _ []string) (res string, err error) {
	return Routes(s.Board.RouteAll(s.Nodes)), nil
}

// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net"
	"os"
	"runtime"

	"golang.org/x/term"

	"github.com/usbarmory/mpfs-seg/config"
	"github.com/usbarmory/mpfs-seg/dtb"
	"github.com/usbarmory/mpfs-seg/mem"
	"github.com/usbarmory/mpfs-seg/segtool/cmd"
	"github.com/usbarmory/mpfs-seg/util"
)

type options struct {
	config string
	dtb    string
	memory string
	output string
	ssh    string
	batch  bool
}

func init() {
	log.SetFlags(log.Ltime)
	log.SetOutput(os.Stderr)

	cmd.Banner = fmt.Sprintf("%s/%s (%s) • PolarFire SoC segment configuration", runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func main() {
	var opts options

	flag.StringVar(&opts.config, "c", "", "segment configuration (YAML)")
	flag.StringVar(&opts.dtb, "d", "", "device tree blob")
	flag.StringVar(&opts.memory, "m", "", "total system memory in hex, applied before the configuration file")
	flag.StringVar(&opts.output, "o", "", "save derived segment configuration on exit (- for stdout), ignored with -s")
	flag.StringVar(&opts.ssh, "s", "", "serve the console over SSH on this address")
	flag.BoolVar(&opts.batch, "b", false, "batch mode, no console")
	flag.Parse()

	s := &cmd.Session{
		Board:  mem.NewMPFS(),
		Config: opts.config,
	}

	err := setup(s, &opts)

	switch {
	case opts.batch:
		os.Exit(batch(s, &opts, err))
	case err != nil:
		log.Printf("warning: %v", err)
	}

	if len(opts.ssh) > 0 {
		serve(s, opts.ssh)
		return
	}

	if err = console(s); err != nil {
		log.Fatal(err)
	}

	if err = save(s.Board, opts.output, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// setup applies the command line options to the session board, failures are
// collected so that each option is applied independently.
func setup(s *cmd.Session, opts *options) error {
	var errs []error

	if len(opts.memory) > 0 {
		size, err := util.ParseHex(opts.memory)

		if err == nil {
			err = s.Board.SetTotalMemory(size)
		}

		if err != nil {
			errs = append(errs, fmt.Errorf("invalid total system memory %q, %v", opts.memory, err))
		}
	}

	if len(opts.config) > 0 {
		c, err := config.Load(opts.config)

		switch {
		case errors.Is(err, fs.ErrNotExist) && !opts.batch:
			log.Printf("%s not found, starting from defaults", opts.config)
		case err != nil:
			errs = append(errs, err)
		default:
			if err = c.Apply(s.Board); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", opts.config, err))
			}
		}
	}

	if len(opts.dtb) > 0 {
		nodes, err := dtb.Load(opts.dtb)

		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", opts.dtb, err))
		}

		s.Nodes = nodes
	}

	return errors.Join(errs...)
}

// batch prints the board state and optionally saves the derived segment
// configuration, it returns the process exit code.
func batch(s *cmd.Session, opts *options, setupErr error) (code int) {
	if setupErr != nil {
		log.Printf("%v", setupErr)
		code = 1
	}

	fmt.Print(cmd.Windows(s.Board))

	if len(s.Nodes) > 0 {
		fmt.Println()
		fmt.Print(cmd.Routes(s.Board.RouteAll(s.Nodes)))
	}

	segs, err := cmd.Segments(s.Board)

	if err != nil {
		log.Printf("%v", err)
		return 1
	}

	fmt.Println()
	fmt.Println(segs)

	if err = save(s.Board, opts.output, os.Stdout); err != nil {
		log.Printf("%v", err)
		return 1
	}

	return
}

// save writes the segment configuration derived from the board to path, or
// to w when path is "-". An empty path is a no-op.
func save(b *mem.Board, path string, w io.Writer) (err error) {
	if len(path) == 0 {
		return
	}

	c, err := config.Derive(b)

	if err != nil {
		return
	}

	if path == "-" {
		return c.Encode(w)
	}

	return c.Save(path)
}

func serve(s *cmd.Session, addr string) {
	listener, err := net.Listen("tcp", addr)

	if err != nil {
		log.Fatal(err)
	}

	console := &util.Console{
		Banner:  cmd.Banner,
		Help:    cmd.Help(nil),
		Handler: s.Handler,
	}

	log.Fatal(console.Serve(listener))
}

func console(s *cmd.Session) (err error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return errors.New("standard input is not a terminal, use batch mode (-b)")
	}

	state, err := term.MakeRaw(fd)

	if err != nil {
		return
	}
	defer term.Restore(fd, state)

	cmd.Console(struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}, s)

	return
}

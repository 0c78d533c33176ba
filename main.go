// Copyright 2018-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/beevik/go68k/cpu"
	"github.com/beevik/go68k/host"
	"github.com/beevik/term"
)

var (
	model    string
	logLevel string
)

func init() {
	flag.StringVar(&model, "model", "68000", "cpu model (68000, 68010 or 68020)")
	flag.StringVar(&logLevel, "log", "warning", "cpu event log level")
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: go68k [script] ..\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	m, err := cpu.ParseModel(model)
	if err != nil {
		exitOnError(err)
	}

	h := host.New(m)
	defer h.Close()

	if err := h.SetLogLevel(logLevel); err != nil {
		exitOnError(err)
	}

	// Run commands contained in command-line files. Lua files are run as
	// scripts.
	for _, filename := range flag.Args() {
		if filepath.Ext(filename) == ".lua" {
			if err := h.RunScript(filename); err != nil {
				exitOnError(err)
			}
			continue
		}

		file, err := os.Open(filename)
		if err != nil {
			exitOnError(err)
		}
		more := h.RunCommands(file, os.Stdout, false)
		file.Close()
		if !more {
			return
		}
	}

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go handleInterrupt(h, c)

	// Run commands interactively when attached to a terminal.
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	h.RunCommands(os.Stdin, os.Stdout, interactive)
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for {
		<-c
		h.Break()
	}
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}

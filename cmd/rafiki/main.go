// Server entry point
//
// Copyright (c) 2026  The Austerity Authors
//
// This file is part of austerity.
//
// austerity is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// austerity is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with austerity. If not, see
// <http://www.gnu.org/licenses/>

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"austerity/conf"
	"austerity/db"
	"austerity/lobby"
	"austerity/server"
	"austerity/web"
)

type exitCode int

const (
	exitNormal       exitCode = 0
	exitWrongArgs    exitCode = 1
	exitBadKeyfile   exitCode = 2
	exitBadDeckfile  exitCode = 3
	exitBadStatfile  exitCode = 4
	exitBadTimeout   exitCode = 5
	exitFailedListen exitCode = 6
	exitSystemError  exitCode = 10
)

func exitProgram(code exitCode) {
	switch code {
	case exitWrongArgs:
		fmt.Fprintln(os.Stderr, "Usage: rafiki keyfile deckfile statfile timeout")
	case exitBadKeyfile:
		fmt.Fprintln(os.Stderr, "Bad keyfile")
	case exitBadDeckfile:
		fmt.Fprintln(os.Stderr, "Bad deckfile")
	case exitBadStatfile:
		fmt.Fprintln(os.Stderr, "Bad statfile")
	case exitBadTimeout:
		fmt.Fprintln(os.Stderr, "Bad timeout")
	case exitFailedListen:
		fmt.Fprintln(os.Stderr, "Failed listen")
	case exitSystemError:
		fmt.Fprintln(os.Stderr, "System error")
	}
	os.Exit(int(code))
}

// parseTimeout accepts a non-negative integer number of seconds.
func parseTimeout(s string) (time.Duration, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return time.Duration(n) * time.Second, true
}

func main() {
	flag.Parse()
	if flag.NArg() != 4 {
		exitProgram(exitWrongArgs)
	}
	args := flag.Args()

	config := conf.Load()

	key, err := conf.LoadKeyfile(args[0])
	if err != nil {
		exitProgram(exitBadKeyfile)
	}
	deck, err := conf.LoadDeckfile(args[1])
	if err != nil {
		exitProgram(exitBadDeckfile)
	}
	// The statfile is reloaded on every rebind cycle; checking it
	// here keeps the startup diagnostics in the documented order.
	if _, err := conf.LoadStatfile(args[2]); err != nil {
		exitProgram(exitBadStatfile)
	}
	timeout, ok := parseTimeout(args[3])
	if !ok {
		exitProgram(exitBadTimeout)
	}

	database, err := db.Prepare()
	if err != nil {
		exitProgram(exitSystemError)
	}
	defer database.Close()

	if w := web.Prepare(config, database); w != nil {
		w.Start()
		defer w.Shutdown()
	}

	s := &server.Server{
		Key:      key,
		Timeout:  timeout,
		Statfile: args[2],
		Registry: lobby.NewRegistry(deck, timeout, database),
		DB:       database,
	}

	switch err := s.Run(); {
	case err == nil:
	case errors.Is(err, conf.ErrBadStatfile):
		exitProgram(exitBadStatfile)
	case errors.Is(err, server.ErrFailedListen):
		exitProgram(exitFailedListen)
	default:
		exitProgram(exitSystemError)
	}
}

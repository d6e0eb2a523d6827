// Player client entry point
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
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"

	"austerity"
	"austerity/bot"
	"austerity/conf"
	"austerity/game"
)

type exitCode int

const (
	exitNormal       exitCode = 0
	exitWrongArgs    exitCode = 1
	exitBadKeyfile   exitCode = 2
	exitBadName      exitCode = 3
	exitNoConnect    exitCode = 5
	exitBadAuth      exitCode = 6
	exitBadReconnect exitCode = 7
	exitComError     exitCode = 8
	exitDisconnect   exitCode = 9
	exitMisbehave    exitCode = 10
)

func exitProgram(code exitCode) {
	switch code {
	case exitWrongArgs:
		fmt.Fprintln(os.Stderr, "Usage: zazu keyfile port game pname")
	case exitBadKeyfile:
		fmt.Fprintln(os.Stderr, "Bad key file")
	case exitBadName:
		fmt.Fprintln(os.Stderr, "Bad name")
	case exitNoConnect:
		fmt.Fprintln(os.Stderr, "Failed to connect")
	case exitBadAuth:
		fmt.Fprintln(os.Stderr, "Bad auth")
	case exitBadReconnect:
		fmt.Fprintln(os.Stderr, "Bad reconnect id")
	case exitComError:
		fmt.Fprintln(os.Stderr, "Communication Error")
	}
	os.Exit(int(code))
}

func main() {
	auto := flag.String("auto", "",
		"Play unattended with the named strategy (greedy, hoarder)")
	flag.Parse()
	if flag.NArg() != 4 {
		exitProgram(exitWrongArgs)
	}
	args := flag.Args()

	var strategy bot.Strategy
	if *auto != "" {
		var ok bool
		if strategy, ok = bot.New(*auto); !ok {
			exitProgram(exitWrongArgs)
		}
	}

	key, err := conf.LoadKeyfile(args[0])
	if err != nil {
		exitProgram(exitBadKeyfile)
	}

	// The literal game name "reconnect" asks to resume a game; the
	// player name is then a reconnect id and is exempt from the
	// name rules (it contains commas).
	isReconnect := args[2] == "reconnect"
	if !austerity.ValidName(args[2]) || (!isReconnect && !austerity.ValidName(args[3])) {
		exitProgram(exitBadName)
	}

	nc, err := net.Dial("tcp", "127.0.0.1:"+args[1])
	if err != nil {
		exitProgram(exitNoConnect)
	}
	c := game.NewConn(nc)

	// Authenticate
	if isReconnect {
		c.SendLine("reconnect" + key)
	} else {
		c.SendLine("play" + key)
	}
	answer, err := c.ReadLine()
	if err != nil {
		exitProgram(exitComError)
	}
	if answer != "yes" {
		exitProgram(exitBadAuth)
	}

	if isReconnect {
		c.SendLine("rid" + args[3])
		answer, err = c.ReadLine()
		if err != nil {
			exitProgram(exitComError)
		}
		if answer != "yes" {
			exitProgram(exitBadReconnect)
		}
	} else {
		c.SendLine(args[2])
		c.SendLine(args[3])
	}

	cli := &client{
		conn:     c,
		strategy: strategy,
		stdin:    bufio.NewScanner(os.Stdin),
	}
	code := cli.setup(isReconnect)
	if code == exitNormal {
		code = cli.play()
	}
	c.Close()
	exitProgram(code)
}

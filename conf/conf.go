// Configuration
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

// Package conf loads the three game files the server is started with
// (keyfile, deckfile, statfile) and the optional ambient configuration
// file that controls logging and the web scoreboard.
package conf

import (
	"flag"
	"io"
	"log"
	"os"

	"austerity"

	"github.com/BurntSushi/toml"
)

// Default name of the ambient configuration file
const defconf = "austerity.toml"

type WebConf struct {
	Enabled bool `toml:"enabled"`
	Port    uint `toml:"port"`
}

// Conf carries the ambient settings; the game parameters themselves
// always come from the statfile.
type Conf struct {
	Debug bool    `toml:"debug"`
	Web   WebConf `toml:"web"`
}

var defaultConf = Conf{
	Web: WebConf{
		Enabled: false,
		Port:    8080,
	},
}

var (
	debug = false
	dump  = false
	cfile = defconf
)

func init() {
	flag.BoolVar(&debug, "debug", debug, "Enable debug output")
	flag.BoolVar(&dump, "dump-config", dump, "Dump configuration to standard output")
	flag.StringVar(&cfile, "conf", cfile, "Path to configuration file")
}

// Load opens the ambient configuration file and returns it.  A missing
// file under the default name is not an error.
func Load() *Conf {
	c := defaultConf

	file, err := os.Open(cfile)
	if err != nil {
		if !os.IsNotExist(err) || cfile != defconf {
			log.Fatal(err)
		}
	} else {
		_, err = toml.NewDecoder(file).Decode(&c)
		file.Close()
		if err != nil {
			log.Fatal(err)
		}
	}

	if debug {
		c.Debug = true
	}
	if c.Debug {
		austerity.Debug.SetOutput(os.Stderr)
		austerity.Debug.Println("Debug logging has been enabled")
	}

	// Dump the configuration to standard output if requested
	if dump {
		if err := c.Dump(os.Stdout); err != nil {
			log.Fatalln("Failed to dump configuration:", err)
		}
		os.Exit(0)
	}

	return &c
}

// Serialise the configuration into a writer
func (c *Conf) Dump(wr io.Writer) error {
	return toml.NewEncoder(wr).Encode(c)
}

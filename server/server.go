// Listener pool and signal control
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

// Package server binds one TCP listener per statfile entry and drives
// the accept/handshake side of the hub.  SIGINT rebinds the listeners
// against a freshly loaded statfile without touching running games;
// SIGTERM takes the whole server down in order.
package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"austerity"
	"austerity/conf"
	"austerity/db"
	"austerity/lobby"
)

var ErrFailedListen = errors.New("failed listen")

// Server owns everything the handshake needs.
type Server struct {
	Key      string
	Timeout  time.Duration
	Statfile string
	Registry *lobby.Registry
	DB       *db.DB
}

type listener struct {
	entry conf.StatfileEntry
	ln    net.Listener
}

// bind opens a listener for every statfile entry, all or nothing, and
// resolves kernel-chosen ports back into the entries.
func (s *Server) bind(entries []conf.StatfileEntry) ([]*listener, error) {
	var listeners []*listener
	for i := range entries {
		ln, err := net.Listen("tcp", "127.0.0.1:"+strconv.Itoa(entries[i].Port))
		if err != nil {
			for _, l := range listeners {
				l.ln.Close()
			}
			return nil, ErrFailedListen
		}
		entries[i].Port = ln.Addr().(*net.TCPAddr).Port
		listeners = append(listeners, &listener{entry: entries[i], ln: ln})
	}

	for i, l := range listeners {
		if i > 0 {
			fmt.Fprint(os.Stderr, " ")
		}
		fmt.Fprintf(os.Stderr, "%d", l.entry.Port)
	}
	fmt.Fprintln(os.Stderr)

	return listeners, nil
}

// accept loops on one listener, spawning a handler per connection.
// It returns once the listener is closed.
func (s *Server) accept(l *listener) error {
	austerity.Debug.Printf("Accepting connections on :%d", l.entry.Port)
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			return nil
		}
		go s.handle(conn, l.entry)
	}
}

// Run binds, accepts and blocks on signals until SIGTERM, rebinding
// on every SIGINT.  It returns conf.ErrBadStatfile if a reload fails
// and ErrFailedListen if a bind fails; nil means an orderly SIGTERM
// shutdown completed.
func (s *Server) Run() error {
	signal.Ignore(syscall.SIGPIPE)
	sigint := make(chan os.Signal, 1)
	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT)
	signal.Notify(sigterm, syscall.SIGTERM)

	term := false
	for !term {
		entries, err := conf.LoadStatfile(s.Statfile)
		if err != nil {
			return err
		}
		listeners, err := s.bind(entries)
		if err != nil {
			return err
		}

		var acceptors errgroup.Group
		for _, l := range listeners {
			l := l
			acceptors.Go(func() error { return s.accept(l) })
		}

		select {
		case <-sigint:
			austerity.Debug.Println("Caught interrupt, rebinding")
		case <-sigterm:
			austerity.Debug.Println("Caught termination request")
			term = true
		}

		for _, l := range listeners {
			l.ln.Close()
		}
		acceptors.Wait()
	}

	s.Registry.Shutdown()
	return nil
}

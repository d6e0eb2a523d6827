// Player connections
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

package game

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"austerity"
)

// Conn wraps a player's transport into line-oriented message IO.  A
// connection has exactly one owner at a time: the handshake handler
// first, then the game driver.  The iolock serialises writers during
// the handover window.
type Conn struct {
	rwc    io.ReadWriteCloser
	scan   *bufio.Scanner
	iolock sync.Mutex
	closed bool
}

func NewConn(rwc io.ReadWriteCloser) *Conn {
	return &Conn{rwc: rwc, scan: bufio.NewScanner(rwc)}
}

// ReadLine blocks for the next newline-terminated message.
func (c *Conn) ReadLine() (string, error) {
	if c.scan.Scan() {
		line := c.scan.Text()
		austerity.Debug.Printf("%p < %s", c.rwc, line)
		return line, nil
	}
	if err := c.scan.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Send writes one message and its terminating newline.
func (c *Conn) Send(msg fmt.Stringer) error {
	return c.SendLine(msg.String())
}

// SendLine writes a raw protocol line.
func (c *Conn) SendLine(line string) error {
	c.iolock.Lock()
	defer c.iolock.Unlock()
	if c.closed {
		return io.ErrClosedPipe
	}
	austerity.Debug.Printf("%p > %s", c.rwc, line)
	_, err := io.WriteString(c.rwc, line+"\n")
	return err
}

// Close shuts the transport down; double closes are swallowed so the
// ownership handover between handler and driver stays safe.
func (c *Conn) Close() {
	c.iolock.Lock()
	defer c.iolock.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if err := c.rwc.Close(); err != nil {
		austerity.Debug.Print(err)
	}
}

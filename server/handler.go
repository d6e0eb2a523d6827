// Connection handshake
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

package server

import (
	"fmt"
	"net"
	"strings"
	"time"

	"austerity"
	"austerity/conf"
	"austerity/game"
	"austerity/proto"
)

// How often a reconnect handler rechecks the published slot
const reconnectPoll = 50 * time.Millisecond

// handle performs the handshake on a fresh connection and dispatches
// it.  A joining or reconnecting player's socket is handed over to the
// lobby or driver; everything else closes before the handler returns.
func (s *Server) handle(nc net.Conn, entry conf.StatfileEntry) {
	c := game.NewConn(nc)

	line, err := c.ReadLine()
	if err != nil {
		c.Close()
		return
	}

	switch {
	case strings.HasPrefix(line, "play") && line[len("play"):] == s.Key:
		c.SendLine("yes")
		s.join(c, entry)
	case strings.HasPrefix(line, "reconnect") && line[len("reconnect"):] == s.Key:
		c.SendLine("yes")
		s.reconnect(c)
	case line == "scores":
		c.SendLine("yes")
		s.scores(c)
		c.Close()
	default:
		c.SendLine("no")
		c.Close()
	}
}

// join reads the game and player names and admits the connection into
// a lobby.  Invalid names disconnect the client without a reply.
func (s *Server) join(c *game.Conn, entry conf.StatfileEntry) {
	gameName, err := c.ReadLine()
	if err != nil {
		c.Close()
		return
	}
	playerName, err := c.ReadLine()
	if err != nil {
		c.Close()
		return
	}
	if !austerity.ValidName(gameName) || !austerity.ValidName(playerName) {
		c.Close()
		return
	}
	s.Registry.Join(gameName, playerName, c, entry)
}

// reconnect matches a rid against a running game, waits for that game
// to publish the slot, sends the catchup and hands the socket over.
func (s *Server) reconnect(c *game.Conn) {
	line, err := c.ReadLine()
	if err != nil {
		c.Close()
		return
	}
	msg, err := proto.ParseHub(line)
	rid, ok := msg.(proto.Rid)
	if err != nil || !ok {
		c.SendLine("no")
		c.Close()
		return
	}

	d := s.Registry.Find(rid.Name, rid.Counter)
	if d == nil || rid.Player >= len(d.G.Players) {
		c.SendLine("no")
		c.Close()
		return
	}

	// The driver publishes the slot once it notices the old socket
	// is gone; until then the id names a seat that is still live.
	for !d.Waiting(rid.Player) {
		if d.Finished() {
			c.SendLine("no")
			c.Close()
			return
		}
		time.Sleep(reconnectPoll)
	}

	c.SendLine("yes")
	for _, m := range d.Catchup(rid.Player) {
		c.Send(m)
	}
	if !d.Resume(rid.Player, c) {
		c.Close()
	}
}

// scores streams the aggregated scoreboard as CSV.
func (s *Server) scores(c *game.Conn) {
	c.SendLine("Player Name,Total Tokens,Total Points")
	scores, err := s.DB.Scores()
	if err != nil {
		austerity.Debug.Print(err)
		return
	}
	for _, score := range scores {
		c.SendLine(fmt.Sprintf("%s,%d,%d", score.Name, score.Tokens, score.Points))
	}
}

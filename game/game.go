// Game driver
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

// Package game runs one match per driver goroutine.  The driver owns
// the game state and the player connections for the lifetime of the
// game; the outside world reaches it only through the reconnect
// handoff and the Finish call used by the shutdown path.
package game

import (
	"sync"
	"time"

	"austerity"
	"austerity/db"
	"austerity/proto"
)

// Driver runs a single game to completion.
type Driver struct {
	G       *austerity.Game
	Timeout time.Duration
	DB      *db.DB

	mu       sync.Mutex
	conns    []*Conn
	finished bool
	waiting  int           // slot published for reconnect, or -1
	arrived  chan struct{} // closed when the waiting slot is refilled
	swapped  bool
	done     chan struct{} // closed once the game is finished
	exited   chan struct{} // closed once Run has returned
}

// NewDriver pairs a freshly constructed game with the sockets of its
// players, in seat order.
func NewDriver(g *austerity.Game, conns []*Conn, timeout time.Duration, database *db.DB) *Driver {
	return &Driver{
		G:       g,
		Timeout: timeout,
		DB:      database,
		conns:   conns,
		waiting: -1,
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
}

// Run plays the game.  It is the driver goroutine's body.
func (d *Driver) Run() {
	defer close(d.exited)

	// Initial burst: every player learns its reconnect id, its
	// letter and the pile size, then watches the market fill up.
	for i, p := range d.G.Players {
		c := d.conn(i)
		c.Send(proto.Rid{Name: d.G.Name, Counter: d.G.Counter, Player: i})
		c.Send(proto.PlayInfo{Letter: p.Letter(), Count: len(d.G.Players)})
		c.Send(proto.TokenCount{Count: d.G.InitialTokens})
	}
	for i := 0; i < austerity.BoardSize; i++ {
		card, ok := d.G.Draw()
		if !ok {
			break
		}
		d.broadcast(proto.NewCard{Card: card})
	}
	for i := range d.G.Players {
		d.publish(i)
	}

	d.loop()
}

func (d *Driver) loop() {
	for {
		for p := range d.G.Players {
			if d.Finished() {
				return
			}
			if !d.G.CardsLeft() {
				d.finish(proto.Eog{})
				return
			}
			if !d.turn(p) {
				return
			}
		}
		// The winning score only ends the game once the round
		// has completed.
		if d.G.Over() {
			d.finish(proto.Eog{})
			return
		}
	}
}

// turn prompts seat p until it produces a valid move, reconnecting or
// aborting the game as required.  It reports whether the game goes on.
func (d *Driver) turn(p int) bool {
	letter := d.G.Players[p].Letter()
	strikes := 0
	for {
		c := d.conn(p)
		c.Send(proto.DoWhat{})

		line, err := c.ReadLine()
		if err != nil {
			if d.waitReconnect(p) {
				continue
			}
			if d.Finished() {
				// Shutdown broadcast the ending already
				return false
			}
			d.finish(proto.Disco{Letter: letter})
			return false
		}

		move, err := proto.ParseMove(line)
		if err != nil || !d.apply(p, move) {
			strikes++
			if strikes >= 2 {
				d.finish(proto.Invalid{Letter: letter})
				return false
			}
			continue
		}
		return true
	}
}

// apply validates the move against the rules, applies it and
// broadcasts the resulting event.  It reports whether the move was
// accepted.
func (d *Driver) apply(p int, move proto.Move) bool {
	g := d.G
	letter := g.Players[p].Letter()

	switch m := move.(type) {
	case proto.Wild:
		g.TakeWild(p)
		d.broadcast(proto.TookWild{Letter: letter})
	case proto.Take:
		if !g.ValidTake(m.Tokens) {
			return false
		}
		g.Take(p, m.Tokens)
		d.broadcast(proto.Took{Letter: letter, Tokens: m.Tokens})
	case proto.Purchase:
		if !g.ValidPurchase(p, m.Index, m.Spend) {
			return false
		}
		card, drawn := g.Purchase(p, m.Index, m.Spend)
		d.broadcast(proto.Purchased{Letter: letter, Index: m.Index, Spend: m.Spend})
		if drawn {
			d.broadcast(proto.NewCard{Card: card})
		}
	default:
		return false
	}

	d.publish(p)
	return true
}

// publish snapshots seat p into the score ledger.
func (d *Driver) publish(p int) {
	if d.DB == nil {
		return
	}
	player := d.G.Players[p]
	d.DB.Publish(d.G.Name, d.G.Counter, p, player.Name,
		player.Tokens.Count(), player.Score)
}

func (d *Driver) conn(p int) *Conn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conns[p]
}

// broadcast sends the message to every player.  Write failures are
// deliberately ignored; a dead peer is discovered by the read side of
// its own turn.
func (d *Driver) broadcast(msg proto.Hub) {
	d.mu.Lock()
	conns := make([]*Conn, len(d.conns))
	copy(conns, d.conns)
	d.mu.Unlock()
	for _, c := range conns {
		if err := c.Send(msg); err != nil {
			austerity.Debug.Print(err)
		}
	}
}

// waitReconnect publishes seat p as disconnected and blocks until a
// reconnect handler refills it, the timeout expires, or the game is
// shut down.  A zero timeout fails immediately.
func (d *Driver) waitReconnect(p int) bool {
	if d.Timeout == 0 {
		return false
	}

	d.mu.Lock()
	if d.finished {
		d.mu.Unlock()
		return false
	}
	ch := make(chan struct{})
	d.waiting, d.arrived, d.swapped = p, ch, false
	d.mu.Unlock()

	deadline := time.NewTimer(d.Timeout)
	defer deadline.Stop()

	ok := false
	select {
	case <-ch:
		ok = true
	case <-deadline.C:
	case <-d.done:
	}

	d.mu.Lock()
	// The handler may have completed the swap in the instant the
	// timer fired; an arrived connection always wins.
	if d.swapped {
		ok = true
	}
	finished := d.finished
	d.waiting, d.arrived, d.swapped = -1, nil, false
	d.mu.Unlock()

	return ok && !finished
}

// Waiting reports whether seat p is currently published as the
// reconnecting slot.
func (d *Driver) Waiting(p int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.finished && d.waiting == p
}

// Resume hands a freshly authenticated connection to the driver for
// seat p and wakes it.  Ownership of the connection passes to the
// driver exactly when Resume returns true.
func (d *Driver) Resume(p int, c *Conn) bool {
	d.mu.Lock()
	if d.finished || d.waiting != p || d.swapped {
		d.mu.Unlock()
		return false
	}
	d.conns[p] = c
	d.swapped = true
	ch := d.arrived
	d.mu.Unlock()

	close(ch)
	return true
}

// Catchup renders the full state a reconnecting player needs: its
// place in the game, the initial pile size, the market, and one state
// line per player.  Only meaningful while Waiting(p) holds, which
// implies the driver is parked and the state is quiescent.
func (d *Driver) Catchup(p int) []proto.Hub {
	g := d.G
	msgs := []proto.Hub{
		proto.PlayInfo{Letter: g.Players[p].Letter(), Count: len(g.Players)},
		proto.TokenCount{Count: g.InitialTokens},
	}
	for _, card := range g.Board {
		msgs = append(msgs, proto.NewCard{Card: card})
	}
	for _, player := range g.Players {
		msgs = append(msgs, proto.PlayerState{
			Letter:    player.Letter(),
			Score:     player.Score,
			Discounts: player.Discounts,
			Tokens:    player.Tokens,
		})
	}
	return msgs
}

// Finished reports whether the game has ended.
func (d *Driver) Finished() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.finished
}

// Finish ends the game: the closing message goes out exactly once,
// all player sockets close, and any pending reconnect wait wakes up.
// Used both by the driver's own endings and by the shutdown path, so
// a natural game over and a SIGTERM can never both announce one.
func (d *Driver) Finish(msg proto.Hub) {
	d.finish(msg)
}

func (d *Driver) finish(msg proto.Hub) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.finished {
		return
	}
	d.finished = true

	for _, c := range d.conns {
		if err := c.Send(msg); err != nil {
			austerity.Debug.Print(err)
		}
	}
	for _, c := range d.conns {
		c.Close()
	}
	close(d.done)
}

// Wait blocks until the driver goroutine has returned.
func (d *Driver) Wait() {
	<-d.exited
}

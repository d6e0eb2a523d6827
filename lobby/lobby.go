// Lobby matching
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

// Package lobby admits authenticated players into named games.  The
// first arrival on a port opens a lobby with that port's statfile
// parameters; when the configured seat count is reached the lobby
// closes, becomes a game and a driver goroutine takes over.  The
// registry also remembers every game, past and present, for the
// reconnect lookup and the shutdown sweep.
package lobby

import (
	"log"
	"sort"
	"sync"
	"time"

	"austerity"
	"austerity/conf"
	"austerity/db"
	"austerity/game"
	"austerity/proto"
)

type pending struct {
	name string
	conn *game.Conn
}

// Lobby collects players until its seat count is reached.
type Lobby struct {
	name    string
	entry   conf.StatfileEntry
	players []pending
	open    bool
}

// Registry is the server-wide lobby and game table.  One mutex
// serialises lookup-or-create plus join, so two players can never be
// admitted into the same last seat.
type Registry struct {
	Deck    austerity.Deck
	Timeout time.Duration
	DB      *db.DB

	mu      sync.Mutex
	lobbies []*Lobby
	games   []*game.Driver
}

func NewRegistry(deck austerity.Deck, timeout time.Duration, database *db.DB) *Registry {
	return &Registry{Deck: deck, Timeout: timeout, DB: database}
}

// Join admits a player into the open lobby of the given name,
// creating one with the caller's port parameters if none exists.
// Ownership of the connection passes to the lobby, and later to the
// game driver spawned when the lobby fills up.
func (r *Registry) Join(gameName, playerName string, c *game.Conn, entry conf.StatfileEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var lobby *Lobby
	for _, l := range r.lobbies {
		if l.open && l.name == gameName {
			lobby = l
		}
	}
	if lobby == nil {
		lobby = &Lobby{name: gameName, entry: entry, open: true}
		r.lobbies = append(r.lobbies, lobby)
		austerity.Debug.Printf("Opened lobby %q for %d players",
			gameName, entry.Players)
	}

	lobby.players = append(lobby.players, pending{name: playerName, conn: c})
	if len(lobby.players) == lobby.entry.Players {
		lobby.open = false
		r.start(lobby)
	}
}

// start turns a full lobby into a running game.  Callers hold r.mu.
func (r *Registry) start(l *Lobby) {
	// Seats are handed out by name, ties broken by arrival order.
	order := make([]int, len(l.players))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return l.players[order[a]].name < l.players[order[b]].name
	})

	counter := 1
	for _, d := range r.games {
		if d.G.Name == l.name {
			counter++
		}
	}

	g := &austerity.Game{
		Name:          l.name,
		Counter:       counter,
		Deck:          r.Deck.Copy(),
		InitialTokens: l.entry.Tokens,
		WinScore:      l.entry.Points,
	}
	conns := make([]*game.Conn, len(order))
	for seat, idx := range order {
		g.Players = append(g.Players, &austerity.Player{
			Id:   seat,
			Name: l.players[idx].name,
		})
		conns[seat] = l.players[idx].conn
	}
	for i := range g.Pool {
		g.Pool[i] = l.entry.Tokens
	}

	d := game.NewDriver(g, conns, r.Timeout, r.DB)
	r.games = append(r.games, d)

	log.Printf("Starting game %s,%d with %d players", g.Name, g.Counter, len(g.Players))
	go d.Run()
}

// Find returns the running game identified by a reconnect id's name
// and counter, or nil.
func (r *Registry) Find(name string, counter int) *game.Driver {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.games {
		if d.G.Name == name && d.G.Counter == counter && !d.Finished() {
			return d
		}
	}
	return nil
}

// Games returns a snapshot of every game started so far.
func (r *Registry) Games() []*game.Driver {
	r.mu.Lock()
	defer r.mu.Unlock()
	games := make([]*game.Driver, len(r.games))
	copy(games, r.games)
	return games
}

// Shutdown ends every running game with a final eog, closes the
// sockets of players still waiting in open lobbies, and joins all
// driver goroutines.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	lobbies := make([]*Lobby, len(r.lobbies))
	copy(lobbies, r.lobbies)
	r.mu.Unlock()

	games := r.Games()
	for _, d := range games {
		d.Finish(proto.Eog{})
	}
	for _, d := range games {
		d.Wait()
	}

	for _, l := range lobbies {
		if !l.open {
			continue
		}
		for _, p := range l.players {
			p.conn.Close()
		}
	}
}

// Lobby matching tests
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

package lobby

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"austerity"
	"austerity/conf"
	"austerity/game"
)

// nullConn swallows writes and blocks reads until closed, which
// leaves spawned drivers parked on their first prompt.
type nullConn struct {
	once   sync.Once
	closed chan struct{}
}

func newNullConn() *nullConn {
	return &nullConn{closed: make(chan struct{})}
}

func (c *nullConn) Read(p []byte) (int, error) {
	<-c.closed
	return 0, io.EOF
}

func (c *nullConn) Write(p []byte) (int, error) { return len(p), nil }

func (c *nullConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

var testDeck = austerity.Deck{
	{Discount: austerity.Purple, Value: 1, Price: [4]int{1, 0, 0, 0}},
}

func testRegistry() *Registry {
	return NewRegistry(testDeck, 0, nil)
}

func join(r *Registry, gameName, playerName string, players int) {
	r.Join(gameName, playerName, game.NewConn(newNullConn()),
		conf.StatfileEntry{Tokens: 2, Points: 5, Players: players})
}

func TestLobbyFillsAndStarts(t *testing.T) {
	r := testRegistry()
	defer r.Shutdown()

	join(r, "g", "bob", 2)
	assert.Empty(t, r.Games(), "Game started before the lobby was full")

	join(r, "g", "alice", 2)
	games := r.Games()
	require.Len(t, games, 1)

	// Seats go by name, not arrival
	g := games[0].G
	assert.Equal(t, "alice", g.Players[0].Name)
	assert.Equal(t, "bob", g.Players[1].Name)
	assert.Equal(t, 0, g.Players[0].Id)
	assert.Equal(t, 1, g.Players[1].Id)
	assert.Equal(t, 1, g.Counter)
	assert.Equal(t, 2, g.InitialTokens)
	assert.Equal(t, 5, g.WinScore)
	assert.Equal(t, [4]int{2, 2, 2, 2}, g.Pool)
}

func TestSameNameArrivalOrder(t *testing.T) {
	r := testRegistry()
	defer r.Shutdown()

	join(r, "g", "dup", 3)
	join(r, "g", "ann", 3)
	join(r, "g", "dup", 3)

	games := r.Games()
	require.Len(t, games, 1)
	var names []string
	for _, p := range games[0].G.Players {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"ann", "dup", "dup"}, names)
}

func TestGameCounter(t *testing.T) {
	r := testRegistry()
	defer r.Shutdown()

	join(r, "g", "a", 2)
	join(r, "g", "b", 2)
	join(r, "g", "c", 2)
	join(r, "g", "d", 2)
	join(r, "other", "e", 2)
	join(r, "other", "f", 2)

	games := r.Games()
	require.Len(t, games, 3)
	assert.Equal(t, 1, games[0].G.Counter)
	assert.Equal(t, 2, games[1].G.Counter)
	assert.Equal(t, "other", games[2].G.Name)
	assert.Equal(t, 1, games[2].G.Counter)
}

func TestLobbyParametersFromFirstArrival(t *testing.T) {
	r := testRegistry()
	defer r.Shutdown()

	// The three-seat lobby keeps collecting even though the later
	// arrivals came through a two-seat port
	r.Join("g", "a", game.NewConn(newNullConn()),
		conf.StatfileEntry{Tokens: 4, Points: 9, Players: 3})
	join(r, "g", "b", 2)
	assert.Empty(t, r.Games())

	join(r, "g", "c", 2)
	games := r.Games()
	require.Len(t, games, 1)
	assert.Len(t, games[0].G.Players, 3)
	assert.Equal(t, 4, games[0].G.InitialTokens)
}

func TestMaximumSeats(t *testing.T) {
	r := testRegistry()
	defer r.Shutdown()

	for i := 0; i < austerity.MaxPlayers; i++ {
		join(r, "big", string(rune('a'+i)), austerity.MaxPlayers)
	}

	games := r.Games()
	require.Len(t, games, 1)
	require.Len(t, games[0].G.Players, austerity.MaxPlayers)
	assert.Equal(t, byte('Z'), games[0].G.Players[25].Letter())
}

func TestFind(t *testing.T) {
	r := testRegistry()
	defer r.Shutdown()

	join(r, "g", "a", 2)
	join(r, "g", "b", 2)

	require.NotNil(t, r.Find("g", 1))
	assert.Nil(t, r.Find("g", 2))
	assert.Nil(t, r.Find("missing", 1))
}

func TestShutdown(t *testing.T) {
	r := testRegistry()

	join(r, "g", "a", 2)
	join(r, "g", "b", 2)
	// One player short; shutdown must close the pending socket
	join(r, "waiting", "c", 2)

	done := make(chan struct{})
	go func() {
		r.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not join the running game")
	}

	for _, d := range r.Games() {
		assert.True(t, d.Finished())
	}
	assert.Nil(t, r.Find("g", 1))
}

// Game driver tests
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
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"austerity"
	"austerity/proto"
)

// testClient is the player's end of a driver connection.  Reads are
// bounded so that a derailed exchange fails the test instead of
// hanging it.
type testClient struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

func (c *testClient) expect(want ...string) {
	c.t.Helper()
	for _, w := range want {
		c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		line, err := c.r.ReadString('\n')
		require.NoError(c.t, err, "expecting %q", w)
		assert.Equal(c.t, w, strings.TrimSuffix(line, "\n"))
	}
}

func (c *testClient) expectClosed() {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err := c.r.ReadString('\n')
	assert.Error(c.t, err)
}

func (c *testClient) send(line string) {
	c.t.Helper()
	c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	_, err := c.conn.Write([]byte(line + "\n"))
	require.NoError(c.t, err)
}

// newTestGame builds a two-seat game with the given deck and wires a
// test client to each seat.
func newTestGame(t *testing.T, deck austerity.Deck, tokens, win int, timeout time.Duration) (*Driver, []*testClient) {
	g := &austerity.Game{
		Name:          "casino",
		Counter:       1,
		Deck:          deck,
		InitialTokens: tokens,
		WinScore:      win,
		Pool:          [4]int{tokens, tokens, tokens, tokens},
	}

	names := []string{"X", "Y"}
	var conns []*Conn
	var clients []*testClient
	for i, name := range names {
		g.Players = append(g.Players, &austerity.Player{Id: i, Name: name})
		server, client := net.Pipe()
		conns = append(conns, NewConn(server))
		clients = append(clients, &testClient{t: t, conn: client, r: bufio.NewReader(client)})
	}

	return NewDriver(g, conns, timeout, nil), clients
}

var minimalDeck = austerity.Deck{
	{Discount: austerity.Purple, Value: 1, Price: [4]int{1, 0, 0, 0}},
	{Discount: austerity.Brown, Value: 0, Price: [4]int{0, 1, 0, 0}},
}

// expectStart consumes the initial burst of a two-player game over
// the minimal deck.
func expectStart(a, b *testClient, tokens string) {
	a.expect("ridcasino,1,0", "playinfoA/2", "tokens"+tokens)
	b.expect("ridcasino,1,1", "playinfoB/2", "tokens"+tokens)
	a.expect("newcardP:1:1,0,0,0")
	b.expect("newcardP:1:1,0,0,0")
	a.expect("newcardB:0:0,1,0,0")
	b.expect("newcardB:0:0,1,0,0")
}

func TestMinimalGame(t *testing.T) {
	d, clients := newTestGame(t, minimalDeck.Copy(), 2, 1, 0)
	go d.Run()
	a, b := clients[0], clients[1]

	expectStart(a, b, "2")

	a.expect("dowhat")
	a.send("take1,1,1,0")
	a.expect("tookA:1,1,1,0")
	b.expect("tookA:1,1,1,0")

	b.expect("dowhat")
	b.send("take1,1,0,1")
	a.expect("tookB:1,1,0,1")
	b.expect("tookB:1,1,0,1")

	a.expect("dowhat")
	a.send("purchase0:1,0,0,0,0")
	a.expect("purchasedA:0:1,0,0,0,0")
	b.expect("purchasedA:0:1,0,0,0,0")

	// A has won, but the round must complete before the end
	b.expect("dowhat")
	b.send("wild")
	a.expect("wildB")
	b.expect("wildB")

	a.expect("eog")
	b.expect("eog")
	a.expectClosed()
	b.expectClosed()

	d.Wait()
	assert.True(t, d.Finished())
	assert.Equal(t, 1, d.G.Players[0].Score)
}

func TestTwoStrikes(t *testing.T) {
	d, clients := newTestGame(t, minimalDeck.Copy(), 2, 1, 0)
	go d.Run()
	a, b := clients[0], clients[1]

	expectStart(a, b, "2")

	a.expect("dowhat")
	a.send("take9,9,9,9")
	// One strike: the prompt is repeated
	a.expect("dowhat")
	a.send("banana")

	a.expect("invalidA")
	b.expect("invalidA")
	a.expectClosed()
	b.expectClosed()

	d.Wait()
}

func TestStrikeForgiven(t *testing.T) {
	d, clients := newTestGame(t, minimalDeck.Copy(), 2, 1, 0)
	go d.Run()
	a, b := clients[0], clients[1]

	expectStart(a, b, "2")

	a.expect("dowhat")
	a.send("nonsense")
	a.expect("dowhat")
	a.send("wild")
	a.expect("wildA")
	b.expect("wildA")

	// A fresh turn starts with a clean slate: one more bad
	// message does not end the game
	b.expect("dowhat")
	b.send("rubbish")
	b.expect("dowhat")
	b.send("wild")
	a.expect("wildB")
	b.expect("wildB")

	a.expect("dowhat")
	go d.Finish(proto.Eog{})
	a.expect("eog")
	b.expect("eog")
	d.Wait()
}

func TestDisconnectWithoutTimeout(t *testing.T) {
	d, clients := newTestGame(t, minimalDeck.Copy(), 2, 5, 0)
	go d.Run()
	a, b := clients[0], clients[1]

	expectStart(a, b, "2")

	a.expect("dowhat")
	a.send("wild")
	a.expect("wildA")
	b.expect("wildA")

	b.expect("dowhat")
	b.conn.Close()

	// With timeout zero there is no reconnect window
	a.expect("discoB")
	a.expectClosed()

	d.Wait()
	assert.True(t, d.Finished())
}

func TestReconnect(t *testing.T) {
	d, clients := newTestGame(t, minimalDeck.Copy(), 2, 5, 5*time.Second)
	go d.Run()
	a, b := clients[0], clients[1]

	expectStart(a, b, "2")

	a.expect("dowhat")
	a.send("take1,1,1,0")
	a.expect("tookA:1,1,1,0")
	b.expect("tookA:1,1,1,0")

	b.expect("dowhat")
	b.conn.Close()

	// The driver publishes the slot once the read fails
	require.Eventually(t, func() bool { return d.Waiting(1) },
		2*time.Second, 10*time.Millisecond)
	assert.False(t, d.Waiting(0))

	catchup := d.Catchup(1)
	var lines []string
	for _, m := range catchup {
		lines = append(lines, m.String())
	}
	assert.Equal(t, []string{
		"playinfoB/2",
		"tokens2",
		"newcardP:1:1,0,0,0",
		"newcardB:0:0,1,0,0",
		"playerA:0:d=0,0,0,0:t=1,1,1,0,0",
		"playerB:0:d=0,0,0,0:t=0,0,0,0,0",
	}, lines)

	server, client := net.Pipe()
	nb := &testClient{t: t, conn: client, r: bufio.NewReader(client)}
	require.True(t, d.Resume(1, NewConn(server)))

	// The driver resumes the interrupted turn on the new socket
	nb.expect("dowhat")
	nb.send("wild")
	a.expect("wildB")
	nb.expect("wildB")

	a.expect("dowhat")
	go d.Finish(proto.Eog{})
	a.expect("eog")
	nb.expect("eog")
	d.Wait()
}

func TestReconnectTimeout(t *testing.T) {
	d, clients := newTestGame(t, minimalDeck.Copy(), 2, 5, 50*time.Millisecond)
	go d.Run()
	a, b := clients[0], clients[1]

	expectStart(a, b, "2")

	a.expect("dowhat")
	b.conn.Close()
	a.send("wild")
	a.expect("wildA")

	// B's turn finds the socket dead and nobody reconnects
	// within the window
	a.expect("discoB")
	a.expectClosed()

	d.Wait()
	assert.True(t, d.Finished())
}

func TestEmptyBoardEndsGame(t *testing.T) {
	deck := austerity.Deck{
		{Discount: austerity.Purple, Value: 0, Price: [4]int{}},
	}
	d, clients := newTestGame(t, deck, 1, 5, 0)
	go d.Run()
	a, b := clients[0], clients[1]

	a.expect("ridcasino,1,0", "playinfoA/2", "tokens1")
	b.expect("ridcasino,1,1", "playinfoB/2", "tokens1")
	a.expect("newcardP:0:0,0,0,0")
	b.expect("newcardP:0:0,0,0,0")

	a.expect("dowhat")
	a.send("purchase0:0,0,0,0,0")
	a.expect("purchasedA:0:0,0,0,0,0")
	b.expect("purchasedA:0:0,0,0,0,0")

	// Deck and board are both exhausted; the game ends before B
	// is ever prompted
	a.expect("eog")
	b.expect("eog")
	a.expectClosed()
	b.expectClosed()
	d.Wait()
}

func TestShutdownWakesReconnectWait(t *testing.T) {
	d, clients := newTestGame(t, minimalDeck.Copy(), 2, 5, time.Hour)
	go d.Run()
	a, b := clients[0], clients[1]

	expectStart(a, b, "2")

	a.expect("dowhat")
	a.conn.Close()
	require.Eventually(t, func() bool { return d.Waiting(0) },
		2*time.Second, 10*time.Millisecond)

	go d.Finish(proto.Eog{})
	b.expect("eog")
	b.expectClosed()

	done := make(chan struct{})
	go func() { d.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Driver did not observe the shutdown")
	}
}

// Player client game logic
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
	"fmt"
	"os"
	"strings"

	"austerity"
	"austerity/bot"
	"austerity/game"
	"austerity/proto"
)

// client mirrors the hub's view of the game from broadcast messages.
type client struct {
	conn     *game.Conn
	g        austerity.Game
	self     int
	strategy bot.Strategy
	stdin    *bufio.Scanner
}

// setup consumes the pre-game message burst: rid (unless we are the
// reconnecting side), playinfo, tokens, and on reconnect the full
// catchup of market and player state.
func (c *client) setup(isReconnect bool) exitCode {
	if !isReconnect {
		line, err := c.conn.ReadLine()
		if err != nil || !strings.HasPrefix(line, "rid") || len(line) == len("rid") {
			return exitComError
		}
		// Announce the id this seat can reconnect with
		fmt.Println(line[len("rid"):])
	}

	msg, err := c.read()
	if err != nil {
		return exitComError
	}
	info, ok := msg.(proto.PlayInfo)
	if !ok {
		return exitComError
	}
	c.self = int(info.Letter - 'A')
	for i := 0; i < info.Count; i++ {
		c.g.Players = append(c.g.Players, &austerity.Player{Id: i})
	}
	c.display()

	msg, err = c.read()
	if err != nil {
		return exitComError
	}
	tokens, ok := msg.(proto.TokenCount)
	if !ok {
		return exitComError
	}
	for i := range c.g.Pool {
		c.g.Pool[i] = tokens.Count
	}
	c.display()

	if isReconnect {
		return c.catchup()
	}
	return exitNormal
}

// catchup replays the market and then one state line per player, in
// letter order.
func (c *client) catchup() exitCode {
	var msg proto.Hub
	var err error
	for {
		if msg, err = c.read(); err != nil {
			return exitComError
		}
		card, ok := msg.(proto.NewCard)
		if !ok {
			break
		}
		if len(c.g.Board) >= austerity.BoardSize {
			return exitComError
		}
		c.g.Board = append(c.g.Board, card.Card)
		c.display()
	}

	for i := range c.g.Players {
		if i > 0 {
			if msg, err = c.read(); err != nil {
				return exitComError
			}
		}
		state, ok := msg.(proto.PlayerState)
		if !ok || state.Letter != byte('A'+i) {
			return exitComError
		}
		p := c.g.Players[i]
		p.Score = state.Score
		p.Discounts = state.Discounts
		p.Tokens = state.Tokens
		// What a player holds came off the board piles
		for _, colour := range austerity.Colours {
			c.g.Pool[colour] -= state.Tokens[colour]
		}
		c.display()
	}
	return exitNormal
}

// play runs the message loop until the game ends one way or another.
func (c *client) play() exitCode {
	for {
		msg, err := c.read()
		if err != nil {
			return exitComError
		}

		switch m := msg.(type) {
		case proto.DoWhat:
			fmt.Println("Received dowhat")
			move := c.choose()
			if move == nil {
				return exitComError
			}
			c.conn.Send(move)
		case proto.NewCard:
			if len(c.g.Board) >= austerity.BoardSize {
				return exitComError
			}
			c.g.Board = append(c.g.Board, m.Card)
			c.display()
		case proto.Purchased:
			if !c.applyPurchased(m) {
				return exitComError
			}
			c.display()
		case proto.Took:
			if !c.applyTook(m) {
				return exitComError
			}
			c.display()
		case proto.TookWild:
			p := c.seat(m.Letter)
			if p == nil {
				return exitComError
			}
			p.Tokens[austerity.Wild]++
			c.display()
		case proto.Eog:
			fmt.Fprintf(os.Stderr, "Game over. Winners are %s\n", c.winners())
			return exitNormal
		case proto.Disco:
			fmt.Fprintf(os.Stderr, "Player %c disconnected\n", m.Letter)
			return exitDisconnect
		case proto.Invalid:
			fmt.Fprintf(os.Stderr, "Player %c sent invalid message\n", m.Letter)
			return exitMisbehave
		default:
			return exitComError
		}
	}
}

func (c *client) read() (proto.Hub, error) {
	line, err := c.conn.ReadLine()
	if err != nil {
		return nil, err
	}
	return proto.ParseHub(line)
}

func (c *client) seat(letter byte) *austerity.Player {
	return c.g.Seat(int(letter - 'A'))
}

// applyPurchased replays another seat's purchase against the local
// state.  The hub only ever spends the canonical decomposition, so
// anything else means the connection has derailed.
func (c *client) applyPurchased(m proto.Purchased) bool {
	p := c.seat(m.Letter)
	if p == nil || m.Index >= len(c.g.Board) {
		return false
	}
	if !austerity.CanAfford(p, c.g.Board[m.Index]) ||
		m.Spend != austerity.SpendFor(p, c.g.Board[m.Index]) {
		return false
	}
	card := c.g.Board[m.Index]
	c.g.Board = append(c.g.Board[:m.Index], c.g.Board[m.Index+1:]...)
	for _, colour := range austerity.Colours {
		p.Tokens[colour] -= m.Spend[colour]
		c.g.Pool[colour] += m.Spend[colour]
	}
	p.Tokens[austerity.Wild] -= m.Spend[austerity.Wild]
	p.Discounts[card.Discount]++
	p.Score += card.Value
	return true
}

func (c *client) applyTook(m proto.Took) bool {
	p := c.seat(m.Letter)
	if p == nil || !c.g.ValidTake(m.Tokens) {
		return false
	}
	for i, t := range m.Tokens {
		p.Tokens[i] += t
		c.g.Pool[i] -= t
	}
	return true
}

// winners renders the letters of the highest scoring players, comma
// separated in seat order.
func (c *client) winners() string {
	highest := 0
	for _, p := range c.g.Players {
		if p.Score > highest {
			highest = p.Score
		}
	}
	var letters []string
	for _, p := range c.g.Players {
		if p.Score == highest {
			letters = append(letters, string(p.Letter()))
		}
	}
	return strings.Join(letters, ",")
}

// display dumps the market and every player's holdings to stderr.
func (c *client) display() {
	for i, card := range c.g.Board {
		fmt.Fprintf(os.Stderr, "Card %d:%s/%d/%d,%d,%d,%d\n", i,
			card.Discount, card.Value,
			card.Price[austerity.Purple], card.Price[austerity.Brown],
			card.Price[austerity.Yellow], card.Price[austerity.Red])
	}
	for _, p := range c.g.Players {
		fmt.Fprintf(os.Stderr,
			"Player %c:%d:Discounts=%d,%d,%d,%d:Tokens=%d,%d,%d,%d,%d\n",
			p.Letter(), p.Score,
			p.Discounts[0], p.Discounts[1], p.Discounts[2], p.Discounts[3],
			p.Tokens[0], p.Tokens[1], p.Tokens[2], p.Tokens[3], p.Tokens[4])
	}
}

// Common types and constants
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

package austerity

import (
	"fmt"
	"strings"
)

// Colour indexes the token piles.  The four card colours come first so
// that a [len(Colours)]int array indexed by Colour covers exactly the
// non-wild piles.
type Colour int

const (
	Purple Colour = iota
	Brown
	Yellow
	Red
	Wild
)

// Colours lists the non-wild colours in wire order.
var Colours = [4]Colour{Purple, Brown, Yellow, Red}

const (
	// Number of face-up cards the market holds at most
	BoardSize = 8
	// Bounds on the player count of a single game
	MinPlayers = 2
	MaxPlayers = 26
)

func (c Colour) String() string {
	switch c {
	case Purple:
		return "P"
	case Brown:
		return "B"
	case Yellow:
		return "Y"
	case Red:
		return "R"
	case Wild:
		return "W"
	default:
		panic(fmt.Sprintf("Illegal colour: %d", int(c)))
	}
}

// ParseColour maps a card colour letter back to a Colour.  Wild has no
// letter on the wire.
func ParseColour(b byte) (Colour, bool) {
	switch b {
	case 'P':
		return Purple, true
	case 'B':
		return Brown, true
	case 'Y':
		return Yellow, true
	case 'R':
		return Red, true
	default:
		return 0, false
	}
}

// Tokens is a pile count per colour, wilds included.
type Tokens [5]int

// Count sums all piles.
func (t Tokens) Count() (n int) {
	for _, c := range t {
		n += c
	}
	return n
}

// Card is immutable after construction.
type Card struct {
	Discount Colour
	Value    int
	Price    [4]int
}

func (c Card) String() string {
	return fmt.Sprintf("%s:%d:%d,%d,%d,%d", c.Discount, c.Value,
		c.Price[Purple], c.Price[Brown], c.Price[Yellow], c.Price[Red])
}

// Deck is an ordered card sequence; the top of the deck is element 0.
type Deck []Card

// Draw pops the top card.
func (d *Deck) Draw() (Card, bool) {
	if len(*d) == 0 {
		return Card{}, false
	}
	c := (*d)[0]
	*d = (*d)[1:]
	return c, true
}

// Copy returns an independent deck with the same cards.
func (d Deck) Copy() Deck {
	c := make(Deck, len(d))
	copy(c, d)
	return c
}

// Player holds the per-seat game state.  Transport handles live with
// the game driver, not here, so that reconnects can swap them without
// touching the rules layer.
type Player struct {
	Id        int
	Name      string
	Score     int
	Discounts [4]int
	Tokens    Tokens
}

// Letter is how the protocol addresses the player.
func (p *Player) Letter() byte {
	return byte('A' + p.Id)
}

// ValidName reports whether a player or game name is acceptable on the
// wire: non-empty, no commas, no newlines.
func ValidName(name string) bool {
	return name != "" && !strings.ContainsAny(name, ",\n")
}

// Game is the full state of one match.  The driver owning the game is
// the only writer once the game has started.
type Game struct {
	Name    string
	Counter int
	Players []*Player

	Deck  Deck
	Board []Card
	// The on-board non-wild piles
	Pool [4]int

	InitialTokens int
	WinScore      int
}

// Seat returns the player in slot id, or nil.
func (g *Game) Seat(id int) *Player {
	if id < 0 || id >= len(g.Players) {
		return nil
	}
	return g.Players[id]
}

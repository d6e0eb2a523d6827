// Protocol messages
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

package proto

import (
	"fmt"

	"austerity"
)

// Hub is a message sent from the hub to a player.  String renders the
// exact wire form without the terminating newline.
type Hub interface {
	fmt.Stringer
	hub()
}

// Move is a player's answer to dowhat.
type Move interface {
	fmt.Stringer
	move()
}

type (
	// Sent once to a joining player after its lobby closes
	Rid struct {
		Name    string
		Counter int
		Player  int
	}

	// Tells the client its letter and the game size
	PlayInfo struct {
		Letter byte
		Count  int
	}

	// Initial size of each non-wild pile
	TokenCount struct{ Count int }

	// A card was added to the market
	NewCard struct{ Card austerity.Card }

	// Broadcast on a valid purchase
	Purchased struct {
		Letter byte
		Index  int
		Spend  austerity.Tokens
	}

	// Broadcast on a valid token take
	Took struct {
		Letter byte
		Tokens [4]int
	}

	// Broadcast on a wild take
	TookWild struct{ Letter byte }

	// Solicits the addressed player's move
	DoWhat struct{}

	// Normal end of game
	Eog struct{}

	// Game ended because Letter disconnected past the timeout
	Disco struct{ Letter byte }

	// Game ended because Letter sent two invalid messages in a row
	Invalid struct{ Letter byte }

	// Reconnect catchup line, one per player in letter order
	PlayerState struct {
		Letter    byte
		Score     int
		Discounts [4]int
		Tokens    austerity.Tokens
	}
)

func (m Rid) String() string {
	return fmt.Sprintf("rid%s,%d,%d", m.Name, m.Counter, m.Player)
}

func (m PlayInfo) String() string {
	return fmt.Sprintf("playinfo%c/%d", m.Letter, m.Count)
}

func (m TokenCount) String() string {
	return fmt.Sprintf("tokens%d", m.Count)
}

func (m NewCard) String() string {
	return "newcard" + m.Card.String()
}

func (m Purchased) String() string {
	return fmt.Sprintf("purchased%c:%d:%d,%d,%d,%d,%d", m.Letter, m.Index,
		m.Spend[0], m.Spend[1], m.Spend[2], m.Spend[3], m.Spend[4])
}

func (m Took) String() string {
	return fmt.Sprintf("took%c:%d,%d,%d,%d", m.Letter,
		m.Tokens[0], m.Tokens[1], m.Tokens[2], m.Tokens[3])
}

func (m TookWild) String() string { return fmt.Sprintf("wild%c", m.Letter) }

func (DoWhat) String() string { return "dowhat" }

func (Eog) String() string { return "eog" }

func (m Disco) String() string { return fmt.Sprintf("disco%c", m.Letter) }

func (m Invalid) String() string { return fmt.Sprintf("invalid%c", m.Letter) }

func (m PlayerState) String() string {
	return fmt.Sprintf("player%c:%d:d=%d,%d,%d,%d:t=%d,%d,%d,%d,%d",
		m.Letter, m.Score,
		m.Discounts[0], m.Discounts[1], m.Discounts[2], m.Discounts[3],
		m.Tokens[0], m.Tokens[1], m.Tokens[2], m.Tokens[3], m.Tokens[4])
}

func (Rid) hub()         {}
func (PlayInfo) hub()    {}
func (TokenCount) hub()  {}
func (NewCard) hub()     {}
func (Purchased) hub()   {}
func (Took) hub()        {}
func (TookWild) hub()    {}
func (DoWhat) hub()      {}
func (Eog) hub()         {}
func (Disco) hub()       {}
func (Invalid) hub()     {}
func (PlayerState) hub() {}

type (
	// Take one wild
	Wild struct{}

	// Take tokens from three piles
	Take struct{ Tokens [4]int }

	// Purchase the card at Index, spending exactly Spend
	Purchase struct {
		Index int
		Spend austerity.Tokens
	}
)

func (Wild) String() string { return "wild" }

func (m Take) String() string {
	return fmt.Sprintf("take%d,%d,%d,%d",
		m.Tokens[0], m.Tokens[1], m.Tokens[2], m.Tokens[3])
}

func (m Purchase) String() string {
	return fmt.Sprintf("purchase%d:%d,%d,%d,%d,%d", m.Index,
		m.Spend[0], m.Spend[1], m.Spend[2], m.Spend[3], m.Spend[4])
}

func (Wild) move()     {}
func (Take) move()     {}
func (Purchase) move() {}

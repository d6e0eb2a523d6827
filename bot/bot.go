// Automated strategies
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

// Package bot implements automated move selection for the player
// client: given a view of the game, produce a wild, take or purchase.
package bot

import (
	"fmt"

	"austerity"
	"austerity/proto"
)

// Strategy picks one move for the given seat.  A strategy never
// returns an illegal move for the state it is shown.
type Strategy interface {
	fmt.Stringer
	Choose(g *austerity.Game, self int) proto.Move
}

// New looks a strategy up by name.
func New(name string) (Strategy, bool) {
	switch name {
	case "greedy":
		return greedy{}, true
	case "hoarder":
		return hoarder{}, true
	default:
		return nil, false
	}
}

// bestBuy returns the affordable card with the highest value, lowest
// index on ties, or -1.
func bestBuy(g *austerity.Game, self int) int {
	p := g.Players[self]
	best := -1
	for i, card := range g.Board {
		if !austerity.CanAfford(p, card) {
			continue
		}
		if best == -1 || card.Value > g.Board[best].Value {
			best = i
		}
	}
	return best
}

// fullestTake chooses the three fullest non-empty piles, falling back
// to the zero value if fewer than three piles hold tokens.
func fullestTake(g *austerity.Game) ([4]int, bool) {
	var take [4]int
	for n := 0; n < austerity.TokensPerTake; n++ {
		best := -1
		for i, count := range g.Pool {
			if take[i] == 1 || count == 0 {
				continue
			}
			if best == -1 || count > g.Pool[best] {
				best = i
			}
		}
		if best == -1 {
			return [4]int{}, false
		}
		take[best] = 1
	}
	return take, true
}

// greedy buys the most valuable card it can and otherwise gathers
// tokens.
type greedy struct{}

func (greedy) String() string { return "greedy" }

func (greedy) Choose(g *austerity.Game, self int) proto.Move {
	if i := bestBuy(g, self); i != -1 {
		return proto.Purchase{
			Index: i,
			Spend: austerity.SpendFor(g.Players[self], g.Board[i]),
		}
	}
	if take, ok := fullestTake(g); ok {
		return proto.Take{Tokens: take}
	}
	return proto.Wild{}
}

// hoarder gathers tokens for as long as the board allows it and only
// buys once taking is impossible.
type hoarder struct{}

func (hoarder) String() string { return "hoarder" }

func (hoarder) Choose(g *austerity.Game, self int) proto.Move {
	if take, ok := fullestTake(g); ok {
		return proto.Take{Tokens: take}
	}
	if i := bestBuy(g, self); i != -1 {
		return proto.Purchase{
			Index: i,
			Spend: austerity.SpendFor(g.Players[self], g.Board[i]),
		}
	}
	return proto.Wild{}
}

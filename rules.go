// Game rules
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

// A take moves exactly this many tokens
const TokensPerTake = 3

// need returns the per-colour token requirement for a player buying a
// card, with the player's discounts already applied.
func need(p *Player, c Card) (n [4]int) {
	for i := range n {
		n[i] = c.Price[i] - p.Discounts[i]
		if n[i] < 0 {
			n[i] = 0
		}
	}
	return n
}

// CanAfford reports whether the player can pay for the card, counting
// wilds as substitutes for missing coloured tokens.
func CanAfford(p *Player, c Card) bool {
	wilds := 0
	for i, n := range need(p, c) {
		if p.Tokens[i] < n {
			wilds += n - p.Tokens[i]
		}
	}
	return wilds <= p.Tokens[Wild]
}

// SpendFor computes the canonical spending decomposition for the
// player buying the card: coloured tokens first, wilds only where a
// colour runs out.  The result is only meaningful if CanAfford holds.
func SpendFor(p *Player, c Card) (spend Tokens) {
	for i, n := range need(p, c) {
		if n > p.Tokens[i] {
			spend[i] = p.Tokens[i]
			spend[Wild] += n - p.Tokens[i]
		} else {
			spend[i] = n
		}
	}
	return spend
}

// ValidPurchase reports whether the player may buy the card at index
// with exactly the given tokens.  Any deviation from the canonical
// decomposition is rejected, so wilds can never stand in for coloured
// tokens the player still holds.
func (g *Game) ValidPurchase(player, index int, spend Tokens) bool {
	p := g.Seat(player)
	if p == nil || index < 0 || index >= len(g.Board) {
		return false
	}
	if !CanAfford(p, g.Board[index]) {
		return false
	}
	return spend == SpendFor(p, g.Board[index])
}

// Purchase applies a purchase that ValidPurchase accepted.  Non-wild
// tokens return to the board pool; wilds are discarded.  The board
// shifts down and, if the deck is non-empty, refills from the top.
// The replacement card is returned so the caller can announce it.
func (g *Game) Purchase(player, index int, spend Tokens) (Card, bool) {
	p := g.Players[player]
	card := g.Board[index]

	g.Board = append(g.Board[:index], g.Board[index+1:]...)

	for _, c := range Colours {
		p.Tokens[c] -= spend[c]
		g.Pool[c] += spend[c]
	}
	p.Tokens[Wild] -= spend[Wild]

	p.Discounts[card.Discount]++
	p.Score += card.Value

	return g.Draw()
}

// ValidTake reports whether the take request is legal: each colour is
// taken zero or one times, exactly three colours are chosen, and each
// chosen pile is non-empty.
func (g *Game) ValidTake(take [4]int) bool {
	taken := 0
	for i, t := range take {
		switch {
		case t == 1 && g.Pool[i] > 0:
			taken++
		case t != 0:
			return false
		}
	}
	return taken == TokensPerTake
}

// Take moves the requested tokens from the board pool to the player.
func (g *Game) Take(player int, take [4]int) {
	p := g.Players[player]
	for i, t := range take {
		p.Tokens[i] += t
		g.Pool[i] -= t
	}
}

// TakeWild gives the player one wild.  The wild supply is unbounded;
// no board state changes.
func (g *Game) TakeWild(player int) {
	g.Players[player].Tokens[Wild]++
}

// Draw moves the top of the deck onto the board if there is room and a
// card to move.
func (g *Game) Draw() (Card, bool) {
	if len(g.Board) >= BoardSize {
		return Card{}, false
	}
	c, ok := g.Deck.Draw()
	if !ok {
		return Card{}, false
	}
	g.Board = append(g.Board, c)
	return c, true
}

// Over reports whether any player has reached the winning score.  The
// driver evaluates this at round boundaries only; an exhausted board
// is checked separately on every turn.
func (g *Game) Over() bool {
	for _, p := range g.Players {
		if p.Score >= g.WinScore {
			return true
		}
	}
	return false
}

// CardsLeft reports whether the market still shows any card.
func (g *Game) CardsLeft() bool {
	return len(g.Board) > 0
}

// Protocol parsing
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

// Package proto implements the textual line protocol spoken between
// the hub and its players.  Every message is a fixed keyword followed
// by a fixed-shape payload; parsing is strict and rejects whitespace,
// signs, stray characters and missing or extra fields.  Numbers with
// leading zeros are accepted and print back without them.
package proto

import (
	"errors"
	"strconv"
	"strings"

	"austerity"
)

var errMalformed = errors.New("malformed message")

// num parses a non-negative decimal integer with no sign, no
// whitespace and no stray characters.
func num(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// nums splits s on commas into exactly n non-negative integers.
func nums(s string, n int) ([]int, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, false
	}
	out := make([]int, n)
	for i, p := range parts {
		v, ok := num(p)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// letter accepts a single player letter.
func letter(s string) (byte, bool) {
	if len(s) != 1 || s[0] < 'A' || s[0] > 'Z' {
		return 0, false
	}
	return s[0], true
}

func quad(v []int) (q [4]int) {
	copy(q[:], v)
	return q
}

func quint(v []int) (q austerity.Tokens) {
	copy(q[:], v)
	return q
}

// ParseCard reads a card descriptor of the form D:V:pP,pB,pY,pR.
func ParseCard(s string) (austerity.Card, error) {
	var c austerity.Card
	if len(s) < 2 || s[1] != ':' {
		return c, errMalformed
	}
	d, ok := austerity.ParseColour(s[0])
	if !ok {
		return c, errMalformed
	}
	rest := s[2:]
	i := strings.IndexByte(rest, ':')
	if i < 0 {
		return c, errMalformed
	}
	v, ok := num(rest[:i])
	if !ok {
		return c, errMalformed
	}
	price, ok := nums(rest[i+1:], 4)
	if !ok {
		return c, errMalformed
	}
	c.Discount = d
	c.Value = v
	c.Price = quad(price)
	return c, nil
}

// ParseMove interprets a player's answer to dowhat.  The caller is
// responsible for the rules check; this only enforces the wire shape.
func ParseMove(line string) (Move, error) {
	switch {
	case line == "wild":
		return Wild{}, nil
	case strings.HasPrefix(line, "take"):
		t, ok := nums(line[len("take"):], 4)
		if !ok {
			return nil, errMalformed
		}
		return Take{Tokens: quad(t)}, nil
	case strings.HasPrefix(line, "purchase"):
		rest := line[len("purchase"):]
		i := strings.IndexByte(rest, ':')
		if i < 0 {
			return nil, errMalformed
		}
		index, ok := num(rest[:i])
		if !ok {
			return nil, errMalformed
		}
		spend, ok := nums(rest[i+1:], 5)
		if !ok {
			return nil, errMalformed
		}
		return Purchase{Index: index, Spend: quint(spend)}, nil
	default:
		return nil, errMalformed
	}
}

// ParseHub interprets a message sent by the hub.  No keyword below is
// a prefix of another, so the order of the cases does not matter.
func ParseHub(line string) (Hub, error) {
	switch {
	case line == "dowhat":
		return DoWhat{}, nil
	case line == "eog":
		return Eog{}, nil
	case strings.HasPrefix(line, "rid"):
		return parseRid(line[len("rid"):])
	case strings.HasPrefix(line, "playinfo"):
		return parsePlayInfo(line[len("playinfo"):])
	case strings.HasPrefix(line, "player"):
		return parsePlayerState(line[len("player"):])
	case strings.HasPrefix(line, "tokens"):
		n, ok := num(line[len("tokens"):])
		if !ok {
			return nil, errMalformed
		}
		return TokenCount{Count: n}, nil
	case strings.HasPrefix(line, "newcard"):
		c, err := ParseCard(line[len("newcard"):])
		if err != nil {
			return nil, err
		}
		return NewCard{Card: c}, nil
	case strings.HasPrefix(line, "purchased"):
		return parsePurchased(line[len("purchased"):])
	case strings.HasPrefix(line, "took"):
		rest := line[len("took"):]
		if len(rest) < 2 || rest[1] != ':' {
			return nil, errMalformed
		}
		l, ok := letter(rest[:1])
		if !ok {
			return nil, errMalformed
		}
		t, ok := nums(rest[2:], 4)
		if !ok {
			return nil, errMalformed
		}
		return Took{Letter: l, Tokens: quad(t)}, nil
	case strings.HasPrefix(line, "wild"):
		l, ok := letter(line[len("wild"):])
		if !ok {
			return nil, errMalformed
		}
		return TookWild{Letter: l}, nil
	case strings.HasPrefix(line, "disco"):
		l, ok := letter(line[len("disco"):])
		if !ok {
			return nil, errMalformed
		}
		return Disco{Letter: l}, nil
	case strings.HasPrefix(line, "invalid"):
		l, ok := letter(line[len("invalid"):])
		if !ok {
			return nil, errMalformed
		}
		return Invalid{Letter: l}, nil
	default:
		return nil, errMalformed
	}
}

func parseRid(s string) (Hub, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 || parts[0] == "" {
		return nil, errMalformed
	}
	gc, ok := num(parts[1])
	if !ok || gc < 1 {
		return nil, errMalformed
	}
	id, ok := num(parts[2])
	if !ok || id >= austerity.MaxPlayers {
		return nil, errMalformed
	}
	return Rid{Name: parts[0], Counter: gc, Player: id}, nil
}

func parsePlayInfo(s string) (Hub, error) {
	i := strings.IndexByte(s, '/')
	if i != 1 {
		return nil, errMalformed
	}
	l, ok := letter(s[:1])
	if !ok {
		return nil, errMalformed
	}
	n, ok := num(s[2:])
	if !ok || n < austerity.MinPlayers || n > austerity.MaxPlayers ||
		int(l-'A') >= n {
		return nil, errMalformed
	}
	return PlayInfo{Letter: l, Count: n}, nil
}

func parsePurchased(s string) (Hub, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return nil, errMalformed
	}
	l, ok := letter(parts[0])
	if !ok {
		return nil, errMalformed
	}
	index, ok := num(parts[1])
	if !ok {
		return nil, errMalformed
	}
	spend, ok := nums(parts[2], 5)
	if !ok {
		return nil, errMalformed
	}
	return Purchased{Letter: l, Index: index, Spend: quint(spend)}, nil
}

func parsePlayerState(s string) (Hub, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return nil, errMalformed
	}
	l, ok := letter(parts[0])
	if !ok {
		return nil, errMalformed
	}
	score, ok := num(parts[1])
	if !ok {
		return nil, errMalformed
	}
	if !strings.HasPrefix(parts[2], "d=") || !strings.HasPrefix(parts[3], "t=") {
		return nil, errMalformed
	}
	d, ok := nums(parts[2][2:], 4)
	if !ok {
		return nil, errMalformed
	}
	t, ok := nums(parts[3][2:], 5)
	if !ok {
		return nil, errMalformed
	}
	return PlayerState{
		Letter:    l,
		Score:     score,
		Discounts: quad(d),
		Tokens:    quint(t),
	}, nil
}

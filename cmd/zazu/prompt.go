// Interactive move prompts
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
	"fmt"
	"strconv"

	"austerity"
	"austerity/proto"
)

// choose produces this seat's answer to dowhat, either from the
// configured strategy or by prompting on stdin.  A nil result means
// standard input ran dry mid-prompt.
func (c *client) choose() proto.Move {
	if c.strategy != nil {
		return c.strategy.Choose(&c.g, c.self)
	}

	switch action, ok := c.promptAction(); {
	case !ok:
		return nil
	case action == "wild":
		return proto.Wild{}
	case action == "purchase":
		return c.promptPurchase()
	default:
		return c.promptTake()
	}
}

// promptLine asks once and reads one line; it reports false when
// stdin has no more lines.
func (c *client) promptLine(prompt string) (string, bool) {
	fmt.Print(prompt)
	if !c.stdin.Scan() {
		return "", false
	}
	return c.stdin.Text(), true
}

// promptInt re-prompts until a non-negative integer no larger than
// max is entered.
func (c *client) promptInt(prompt string, max int) (int, bool) {
	for {
		line, ok := c.promptLine(prompt)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 0 || n > max {
			continue
		}
		return n, true
	}
}

// promptAction re-prompts until one of the three move keywords is
// entered.
func (c *client) promptAction() (string, bool) {
	for {
		line, ok := c.promptLine("Action> ")
		if !ok {
			return "", false
		}
		switch line {
		case "purchase", "take", "wild":
			return line, true
		}
	}
}

// promptPurchase asks for a card index and then, for every pile the
// player owns tokens in, how many to spend.
func (c *client) promptPurchase() proto.Move {
	index, ok := c.promptInt("Card> ", austerity.BoardSize-1)
	if !ok {
		return nil
	}

	var spend austerity.Tokens
	mine := c.g.Players[c.self].Tokens
	for colour, have := range mine {
		if have == 0 {
			continue
		}
		prompt := fmt.Sprintf("Token-%s> ", austerity.Colour(colour))
		if spend[colour], ok = c.promptInt(prompt, have); !ok {
			return nil
		}
	}
	return proto.Purchase{Index: index, Spend: spend}
}

// promptTake asks how many tokens to take of each colour, bounded by
// the board piles.
func (c *client) promptTake() proto.Move {
	var take [4]int
	for _, colour := range austerity.Colours {
		prompt := fmt.Sprintf("Token-%s> ", colour)
		n, ok := c.promptInt(prompt, c.g.Pool[colour])
		if !ok {
			return nil
		}
		take[colour] = n
	}
	return proto.Take{Tokens: take}
}

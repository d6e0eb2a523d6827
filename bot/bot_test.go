// Strategy tests
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

package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"austerity"
	"austerity/proto"
)

func TestNew(t *testing.T) {
	for _, name := range []string{"greedy", "hoarder"} {
		s, ok := New(name)
		require.True(t, ok)
		assert.Equal(t, name, s.String())
	}
	_, ok := New("clueless")
	assert.False(t, ok)
}

func board() *austerity.Game {
	return &austerity.Game{
		Players: []*austerity.Player{
			{Id: 0, Tokens: austerity.Tokens{1, 0, 0, 0, 0}},
		},
		Board: []austerity.Card{
			{Discount: austerity.Purple, Value: 1, Price: [4]int{1, 0, 0, 0}},
			{Discount: austerity.Brown, Value: 3, Price: [4]int{0, 5, 0, 0}},
		},
		Pool: [4]int{4, 3, 2, 0},
	}
}

func TestGreedyBuysBestAffordable(t *testing.T) {
	s, _ := New("greedy")
	move := s.Choose(board(), 0)

	// The valuable card is out of reach, the cheap one is not
	purchase, ok := move.(proto.Purchase)
	require.True(t, ok, "chose %v", move)
	assert.Equal(t, 0, purchase.Index)
	assert.Equal(t, austerity.Tokens{1, 0, 0, 0, 0}, purchase.Spend)
}

func TestGreedyFallsBackToTake(t *testing.T) {
	g := board()
	g.Players[0].Tokens = austerity.Tokens{}
	s, _ := New("greedy")

	move := s.Choose(g, 0)
	take, ok := move.(proto.Take)
	require.True(t, ok, "chose %v", move)
	assert.True(t, g.ValidTake(take.Tokens))
	// The three non-empty piles are the only choice here
	assert.Equal(t, [4]int{1, 1, 1, 0}, take.Tokens)
}

func TestWildWhenNothingElseWorks(t *testing.T) {
	g := &austerity.Game{
		Players: []*austerity.Player{{Id: 0}},
		Board: []austerity.Card{
			{Discount: austerity.Red, Value: 1, Price: [4]int{0, 0, 0, 9}},
		},
		// Only two piles left, so takes are impossible
		Pool: [4]int{1, 1, 0, 0},
	}
	for _, name := range []string{"greedy", "hoarder"} {
		s, _ := New(name)
		assert.Equal(t, proto.Wild{}, s.Choose(g, 0), name)
	}
}

func TestHoarderPrefersTokens(t *testing.T) {
	s, _ := New("hoarder")
	move := s.Choose(board(), 0)

	take, ok := move.(proto.Take)
	require.True(t, ok, "chose %v", move)
	assert.Equal(t, [4]int{1, 1, 1, 0}, take.Tokens)
}

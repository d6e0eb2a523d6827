// Game file loading
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

package conf

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"austerity"
	"austerity/proto"
)

var (
	ErrBadKeyfile  = errors.New("bad keyfile")
	ErrBadDeckfile = errors.New("bad deckfile")
	ErrBadStatfile = errors.New("bad statfile")
)

// StatfileEntry describes one listening port and the parameters of the
// games started through it.
type StatfileEntry struct {
	// Port to listen on; 0 asks the kernel for an ephemeral port,
	// and the bound port is written back after listening
	Port int
	// Initial size of each non-wild pile
	Tokens int
	// Score that triggers the end of the game
	Points int
	// Seats in a game
	Players int
}

// lines splits file contents into lines, tolerating a single optional
// final newline.  Empty lines are not tolerated anywhere.
func lines(data string) ([]string, bool) {
	data = strings.TrimSuffix(data, "\n")
	if data == "" {
		return nil, true
	}
	split := strings.Split(data, "\n")
	for _, l := range split {
		if l == "" {
			return nil, false
		}
	}
	return split, true
}

// LoadKeyfile reads the authentication key: exactly one line with at
// least one character.  The final newline is optional.
func LoadKeyfile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", ErrBadKeyfile
	}
	key := strings.TrimSuffix(string(data), "\n")
	if key == "" || strings.ContainsRune(key, '\n') {
		return "", ErrBadKeyfile
	}
	return key, nil
}

// LoadDeckfile reads the deck, one card per line, top of the deck
// first.  At least one card is required.
func LoadDeckfile(path string) (austerity.Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrBadDeckfile
	}
	ls, ok := lines(string(data))
	if !ok || len(ls) == 0 {
		return nil, ErrBadDeckfile
	}
	deck := make(austerity.Deck, 0, len(ls))
	for _, l := range ls {
		card, err := proto.ParseCard(l)
		if err != nil {
			return nil, ErrBadDeckfile
		}
		deck = append(deck, card)
	}
	return deck, nil
}

// field parses one comma field of a statfile line as a non-negative
// integer.
func field(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// LoadStatfile reads the port table.  Non-zero ports must be unique:
// a duplicate would make the second bind fail long after the file was
// accepted, so the loader rejects it up front.
func LoadStatfile(path string) ([]StatfileEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrBadStatfile
	}
	ls, ok := lines(string(data))
	if !ok {
		return nil, ErrBadStatfile
	}

	entries := make([]StatfileEntry, 0, len(ls))
	for _, l := range ls {
		parts := strings.Split(l, ",")
		if len(parts) != 4 {
			return nil, ErrBadStatfile
		}
		var nums [4]int
		for i, p := range parts {
			n, ok := field(p)
			if !ok {
				return nil, ErrBadStatfile
			}
			nums[i] = n
		}
		e := StatfileEntry{
			Port:    nums[0],
			Tokens:  nums[1],
			Points:  nums[2],
			Players: nums[3],
		}
		if e.Port > 65535 || e.Tokens < 1 || e.Points < 1 ||
			e.Players < austerity.MinPlayers ||
			e.Players > austerity.MaxPlayers {
			return nil, ErrBadStatfile
		}
		if e.Port != 0 {
			for _, prev := range entries {
				if prev.Port == e.Port {
					return nil, ErrBadStatfile
				}
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

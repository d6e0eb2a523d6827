// Websocket score feed
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

package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"austerity"
	"austerity/db"
)

// How often the feed rechecks the ledger for changes
const feedInterval = time.Second

var upgrader = websocket.Upgrader{}

// socket upgrades the connection and pushes the scoreboard whenever
// its content changes.
func (w *Web) socket(wr http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(wr, r, nil)
	if err != nil {
		austerity.Debug.Printf("Unable to upgrade connection: %s", err)
		return
	}
	austerity.Debug.Printf("Score feed connection from %s", r.RemoteAddr)

	closed := make(chan struct{})
	go func() {
		// Drain (and ignore) client messages to notice the close
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(feedInterval)
	defer ticker.Stop()
	defer conn.Close()

	last := ""
	for {
		scores, err := w.db.Scores()
		if err != nil {
			austerity.Debug.Print(err)
			return
		}
		if print := fingerprint(scores); print != last {
			last = print
			if err := conn.WriteJSON(scores); err != nil {
				return
			}
		}

		select {
		case <-closed:
			return
		case <-ticker.C:
		}
	}
}

func fingerprint(scores []db.Score) string {
	return fmt.Sprintf("%v", scores)
}

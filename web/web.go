// Web scoreboard
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

// Package web serves the scoreboard over HTTP: the same aggregate the
// scores endpoint emits as CSV, rendered as a page and pushed over a
// websocket whenever it changes.  The interface is disabled unless the
// ambient configuration enables it.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"austerity"
	"austerity/conf"
	"austerity/db"
)

//go:embed *.tmpl
var html embed.FS

var tmpl = template.Must(template.ParseFS(html, "*.tmpl"))

type Web struct {
	db  *db.DB
	srv *http.Server
}

// Prepare builds the web interface, or returns nil when it is
// disabled.
func Prepare(c *conf.Conf, database *db.DB) *Web {
	if !c.Web.Enabled {
		return nil
	}

	w := &Web{db: database}
	mux := http.NewServeMux()
	mux.HandleFunc("/", w.scoreboard)
	mux.HandleFunc("/ws", w.socket)
	w.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", c.Web.Port),
		Handler: mux,
	}
	return w
}

// Start runs the HTTP server in the background.
func (w *Web) Start() {
	log.Printf("Serving scoreboard on %s", w.srv.Addr)
	go func() {
		err := w.srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Print(err)
		}
	}()
}

func (w *Web) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.srv.Shutdown(ctx); err != nil {
		log.Print(err)
	}
}

func (w *Web) scoreboard(wr http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(wr, r)
		return
	}
	scores, err := w.db.Scores()
	if err != nil {
		austerity.Debug.Print(err)
		http.Error(wr, "scoreboard unavailable", http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(wr, "scoreboard.tmpl", scores); err != nil {
		austerity.Debug.Print(err)
	}
}

// Score ledger
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

// Package db keeps the score ledger behind the scoreboard.  Game
// drivers publish an immutable per-player snapshot after every applied
// move; the scores endpoint and the web view aggregate those snapshots
// and never read live game state.  The database lives in memory only
// and dies with the process.
package db

import (
	"database/sql"
	"embed"
	"io/fs"
	"log"
	"path"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed *.sql
var sqlDir embed.FS

type DB struct {
	conn *sql.DB

	// The SQL statements are stored under ./*.sql and prepared at
	// startup; the file base name is the statement name.
	stmts map[string]*sql.Stmt
}

// Score is one aggregated scoreboard row.
type Score struct {
	Name   string
	Tokens int
	Points int
}

// Prepare opens the in-memory database, creates the schema and
// prepares all embedded statements.
func Prepare() (*DB, error) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every pooled connection would get its own empty in-memory
	// database; pin the pool to a single one.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	db := &DB{conn: conn, stmts: make(map[string]*sql.Stmt)}

	entries, err := fs.ReadDir(sqlDir, ".")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		data, err := fs.ReadFile(sqlDir, entry.Name())
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
		if strings.HasPrefix(name, "create-") {
			if _, err := conn.Exec(string(data)); err != nil {
				return nil, err
			}
			continue
		}
		stmt, err := conn.Prepare(string(data))
		if err != nil {
			return nil, err
		}
		db.stmts[name] = stmt
	}

	return db, nil
}

// Publish records the current tokens and points of one seat in one
// game, replacing any previous snapshot for that seat.
func (db *DB) Publish(game string, counter, player int, name string, tokens, points int) {
	_, err := db.stmts["insert-score"].Exec(game, counter, player, name, tokens, points)
	if err != nil {
		log.Print(err)
	}
}

// Scores aggregates the ledger per player name: points descending,
// ties broken by tokens ascending.
func (db *DB) Scores() ([]Score, error) {
	rows, err := db.stmts["select-scores"].Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []Score
	for rows.Next() {
		var s Score
		if err := rows.Scan(&s.Name, &s.Tokens, &s.Points); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

func (db *DB) Close() {
	for _, stmt := range db.stmts {
		stmt.Close()
	}
	if err := db.conn.Close(); err != nil {
		log.Print(err)
	}
}

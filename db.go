package main

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=1", path))
	if err != nil {
		return nil, err
	}
	// One writer at a time keeps SQLite from returning "database is locked".
	db.SetMaxOpenConns(1)
	return db, db.Ping()
}

// initDB drops and recreates the user and post tables. Destructive;
// meant for the init-db command and test setup only.
func initDB(db *sql.DB) error {
	_, err := db.Exec(schemaSQL)
	return err
}

// ensureSchema creates the tables on first startup but leaves an
// existing database alone.
func ensureSchema(db *sql.DB) error {
	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'user'`).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return initDB(db)
	}
	return err
}

// requestConn hands out a single pool connection for the lifetime of one
// request. The connection is checked out on first use and released by the
// withConn middleware when the handler returns.
type requestConn struct {
	db   *sql.DB
	conn *sql.Conn
	err  error
}

func (rc *requestConn) get(ctx context.Context) (*sql.Conn, error) {
	if rc.conn == nil && rc.err == nil {
		rc.conn, rc.err = rc.db.Conn(ctx)
	}
	return rc.conn, rc.err
}

func (rc *requestConn) close() {
	if rc.conn != nil {
		rc.conn.Close()
	}
}

// conn returns the request-scoped database connection.
func (app *App) conn(ctx context.Context) (*sql.Conn, error) {
	rc, ok := ctx.Value(connKey).(*requestConn)
	if !ok {
		return nil, errors.New("no request connection in context")
	}
	return rc.get(ctx)
}

func (app *App) getUserByID(ctx context.Context, id int64) *User {
	conn, err := app.conn(ctx)
	if err != nil {
		return nil
	}
	var u User
	err = conn.QueryRowContext(ctx, `SELECT id, username, password FROM user WHERE id = ?`, id).
		Scan(&u.ID, &u.Username, &u.Password)
	if err != nil {
		return nil
	}
	return &u
}

func (app *App) getUserByName(ctx context.Context, username string) *User {
	conn, err := app.conn(ctx)
	if err != nil {
		return nil
	}
	var u User
	err = conn.QueryRowContext(ctx, `SELECT id, username, password FROM user WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.Password)
	if err != nil {
		return nil
	}
	return &u
}

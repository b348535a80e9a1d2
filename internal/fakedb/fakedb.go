// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fakedb fakes an in-memory DB for tests of package telemetry,
// which needs both query support (for a hypothetical future read path)
// and exec support (INSERT, CREATE TABLE) its upstream counterpart never
// exercised.
package fakedb // import "github.com/attolab/uacfw/internal/fakedb"

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"sync"
)

var query struct {
	mu   sync.Mutex
	rows Rows
}

// Run installs rows as the result of the next Query call made within f.
func Run(ctx context.Context, rows Rows, f func(ctx context.Context) error) error {
	query.mu.Lock()
	defer query.mu.Unlock()
	query.rows = rows

	return f(ctx)
}

// Exec records every Exec call made against the fake driver, in order,
// for assertions in tests that never need query rows back.
type Exec struct {
	Query string
	Args  []driver.Value
}

var execs struct {
	mu  sync.Mutex
	log []Exec
}

// Execs returns and clears the Exec calls recorded since the last call.
func Execs() []Exec {
	execs.mu.Lock()
	defer execs.mu.Unlock()
	out := execs.log
	execs.log = nil
	return out
}

func init() {
	sql.Register("fakedb", &Driver{})
}

type Driver struct{}

func (drv *Driver) Open(name string) (driver.Conn, error) {
	return &Conn{}, nil
}

type Conn struct{}

func (c *Conn) Prepare(q string) (driver.Stmt, error) {
	return &Stmt{query: q}, nil
}

func (c *Conn) Close() error { return nil }

func (c *Conn) Begin() (driver.Tx, error) {
	panic("not implemented")
}

type Stmt struct{ query string }

func (stmt *Stmt) Close() error { return nil }

func (stmt *Stmt) NumInput() int { return -1 }

// Exec records the call and reports zero rows affected; the fake never
// actually stores inserted data, only that it was asked to.
func (stmt *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	execs.mu.Lock()
	execs.log = append(execs.log, Exec{Query: stmt.query, Args: append([]driver.Value(nil), args...)})
	execs.mu.Unlock()
	return driver.RowsAffected(0), nil
}

func (stmt *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	return &query.rows, nil
}

type StmtQueryContext struct{}

func (stmt *StmtQueryContext) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	panic("not implemented")
}

type Rows struct {
	Names  []string
	Values [][]driver.Value
}

func (rows *Rows) Columns() []string { return rows.Names }

func (rows *Rows) Close() error { return nil }

func (rows *Rows) Next(dest []driver.Value) error {
	if len(rows.Values) == 0 {
		return io.EOF
	}
	copy(dest, rows.Values[0])
	rows.Values = rows.Values[1:]
	return nil
}

var (
	_ driver.Driver           = (*Driver)(nil)
	_ driver.Conn             = (*Conn)(nil)
	_ driver.Stmt             = (*Stmt)(nil)
	_ driver.StmtQueryContext = (*StmtQueryContext)(nil)
	_ driver.Rows             = (*Rows)(nil)
)

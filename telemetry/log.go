// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// drvName is overridden by tests to exercise Log against fakedb instead
// of a real MySQL server.
var drvName = "mysql"

// Log is an operator-facing record of controller behaviour: ring-full
// wait counts, duplicate msg_ids and per-frame checksums, kept in MySQL
// for post-hoc inspection the way conddb.DB keeps MIM detector
// conditions -- except this is write-only telemetry about the firmware
// process, never device state the firmware itself depends on.
type Log struct {
	db   *sql.DB
	name string
}

// OpenLog opens a connection to the telemetry database dbname at the
// given host, creating its tables if they do not already exist.
func OpenLog(host, usr, pwd, dbname string) (*Log, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s", usr, pwd, host, dbname)
	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("telemetry: could not open %q db: %w", dbname, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("telemetry: could not ping %q db: %w", dbname, err)
	}

	l := &Log{db: db, name: dbname}
	if err := l.createTables(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Log) createTables(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tick_stats (
			id INT AUTO_INCREMENT PRIMARY KEY,
			recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			n INT, mean_s DOUBLE, stddev_s DOUBLE
		)`,
		`CREATE TABLE IF NOT EXISTS ring_full_events (
			id INT AUTO_INCREMENT PRIMARY KEY,
			recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS dedup_events (
			id INT AUTO_INCREMENT PRIMARY KEY,
			recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			msg_id INT
		)`,
		`CREATE TABLE IF NOT EXISTS frame_checksums (
			id INT AUTO_INCREMENT PRIMARY KEY,
			recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			msg_id INT, crc16 INT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("telemetry: could not create table: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database connection.
func (l *Log) Close() error { return l.db.Close() }

func (l *Log) exec(query string, args ...interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		// best-effort: errors are dropped. The call is synchronous, so
		// a stalled telemetry DB delays the caller by up to the 2s
		// timeout above.
		return
	}
}

// RecordTickStats persists one window's tick-duration summary.
func (l *Log) RecordTickStats(n int, mean, stddev float64) {
	l.exec("INSERT INTO tick_stats (n, mean_s, stddev_s) VALUES (?, ?, ?)", n, mean, stddev)
}

// RecordRingFull persists one ring-full wait occurrence.
func (l *Log) RecordRingFull() {
	l.exec("INSERT INTO ring_full_events () VALUES ()")
}

// RecordDedup persists one duplicate msg_id occurrence.
func (l *Log) RecordDedup(msgID uint8) {
	l.exec("INSERT INTO dedup_events (msg_id) VALUES (?)", msgID)
}

// RecordFrame persists a dispatched frame's CRC16 checksum.
func (l *Log) RecordFrame(msgID uint8, crc uint16) {
	l.exec("INSERT INTO frame_checksums (msg_id, crc16) VALUES (?, ?)", msgID, crc)
}

package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

const recordsSchema = `
CREATE TABLE IF NOT EXISTS records (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	conn         TEXT NOT NULL,
	timestamp    REAL NOT NULL,
	sent         INTEGER NOT NULL,
	object       INTEGER NOT NULL,
	target_iface TEXT NOT NULL DEFAULT '',
	name         TEXT NOT NULL,
	args         TEXT NOT NULL DEFAULT '[]'
)`

// TraceStore persists decoded message records to a SQLite database so a
// trace can be queried and exported after the fact.
type TraceStore struct {
	db   *sql.DB
	path string
}

// CreateStore opens (or creates) a writable trace database.
func CreateStore(path string) (*TraceStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StoreError{Path: path, Op: "open", Err: err}
	}
	if _, err := db.Exec(recordsSchema); err != nil {
		db.Close()
		return nil, &StoreError{Path: path, Op: "open", Err: err}
	}
	return &TraceStore{db: db, path: path}, nil
}

// OpenStore opens a recorded trace database in read-only mode. A
// missing file fails at open instead of being created empty.
func OpenStore(path string) (*TraceStore, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, &StoreError{Path: path, Op: "open", Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StoreError{Path: path, Op: "open", Err: err}
	}
	return &TraceStore{db: db, path: path}, nil
}

// Close releases the database handle.
func (s *TraceStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *TraceStore) Path() string {
	return s.path
}

// Append persists one record. Arguments are stored as JSON; insertion
// order is the replay order.
func (s *TraceStore) Append(rec *MessageRecord) error {
	args, err := json.Marshal(rec.Args)
	if err != nil {
		return &StoreError{Path: s.path, Op: "write", Err: err}
	}
	_, err = s.db.Exec(
		"INSERT INTO records (conn, timestamp, sent, object, target_iface, name, args) VALUES (?, ?, ?, ?, ?, ?, ?)",
		string(rec.Conn), rec.Timestamp, boolToInt(rec.Sent), int64(rec.Object), rec.TargetIface, rec.Name, string(args))
	if err != nil {
		return &StoreError{Path: s.path, Op: "write", Err: err}
	}
	return nil
}

// Records loads every stored record in insertion order.
func (s *TraceStore) Records() ([]*MessageRecord, error) {
	rows, err := s.db.Query(
		"SELECT conn, timestamp, sent, object, target_iface, name, args FROM records ORDER BY seq")
	if err != nil {
		return nil, &StoreError{Path: s.path, Op: "read", Err: err}
	}
	defer rows.Close()

	var records []*MessageRecord
	for rows.Next() {
		var (
			conn, targetIface, name, argsJSON string
			timestamp                         float64
			sent                              int
			object                            int64
		)
		if err := rows.Scan(&conn, &timestamp, &sent, &object, &targetIface, &name, &argsJSON); err != nil {
			return nil, &StoreError{Path: s.path, Op: "read", Err: err}
		}
		var args []Arg
		if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
			return nil, &StoreError{Path: s.path, Op: "read", Err: fmt.Errorf("bad args for %s: %w", name, err)}
		}
		records = append(records, &MessageRecord{
			Conn:        ConnectionID(conn),
			Timestamp:   timestamp,
			Sent:        sent != 0,
			Object:      ObjectID(object),
			TargetIface: targetIface,
			Name:        name,
			Args:        args,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Path: s.path, Op: "read", Err: err}
	}
	return records, nil
}

// RecordCount returns the number of stored records.
func (s *TraceStore) RecordCount() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count); err != nil {
		return 0, &StoreError{Path: s.path, Op: "read", Err: err}
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package internal

import "fmt"

// SyntaxError represents a malformed matcher expression. Pos is the byte
// offset of the offending token within Query.
type SyntaxError struct {
	Query string
	Pos   int
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d in %q: %s", e.Pos, e.Query, e.Msg)
}

// UnknownObjectError represents a lookup of an object id that has never
// been bound in the connection's current generation.
type UnknownObjectError struct {
	Conn ConnectionID
	ID   ObjectID
}

func (e *UnknownObjectError) Error() string {
	return fmt.Sprintf("unknown object: connection %s has no binding for id %d", e.Conn, e.ID)
}

// ConnectionClosedError represents a message delivered to a connection
// after it was closed. The record is reported and dropped, never applied.
type ConnectionClosedError struct {
	Conn     ConnectionID
	ClosedAt float64
}

func (e *ConnectionClosedError) Error() string {
	return fmt.Sprintf("connection %s closed at %.4f, message dropped", e.Conn, e.ClosedAt)
}

// UsageFault represents an operator or driver mistake: re-opening an open
// connection, issuing a command while running, an unknown command verb.
// Usage faults are reported and leave all state unchanged.
type UsageFault struct {
	Op  string
	Msg string
}

func (e *UsageFault) Error() string {
	return fmt.Sprintf("usage fault in %s: %s", e.Op, e.Msg)
}

// DecodeError represents a trace line that looked like a message but
// could not be decoded.
type DecodeError struct {
	Line string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error on %q: %v", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// StoreError represents a failure reading or writing a recorded trace
// database.
type StoreError struct {
	Path string
	Op   string // "open", "write", "read"
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export of query results.
type ExportError struct {
	Format string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s]: %v", e.Format, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

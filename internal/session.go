package internal

import (
	"fmt"
	"sort"
	"strings"
)

// SessionState is the session's position in its run/stop/quit machine.
type SessionState int

const (
	SessionRunning SessionState = iota
	SessionStopped
	SessionQuit
)

func (s SessionState) String() string {
	switch s {
	case SessionRunning:
		return "running"
	case SessionStopped:
		return "stopped"
	case SessionQuit:
		return "quit"
	default:
		return "invalid"
	}
}

// Emitter is the output boundary. The session decides what to surface;
// the emitter owns all formatting. Implementations must not call back
// into the session.
type Emitter interface {
	// EmitMessage surfaces a record that passed the filter matcher.
	EmitMessage(conn *Connection, rec *MessageRecord)

	// EmitStop surfaces the record that triggered a stop.
	EmitStop(conn *Connection, rec *MessageRecord)

	// EmitReport surfaces operator-facing diagnostic text.
	EmitReport(text string)
}

// historyLimit bounds the per-session record buffer that interactive
// queries run against.
const historyLimit = 4096

type bufferedRecord struct {
	conn *Connection
	rec  *MessageRecord
}

// Session drives a stream of decoded message records through
// per-connection object tables and the filter and stop matchers. It is
// single-threaded: records are applied one at a time by the driving
// loop, and the only suspension point is the interactive prompt the
// driver runs while the session is stopped.
type Session struct {
	filter  Matcher
	stop    Matcher
	catalog Catalog
	out     Emitter

	conns map[ConnectionID]*Connection
	state SessionState

	// trigger is the record that caused the last Running -> Stopped
	// transition, shown to the operator at the prompt.
	trigger *MessageRecord

	// pending holds filter matches that arrived while stopped; they are
	// flushed on continue so the display stays frozen at the breakpoint.
	pending []bufferedRecord

	// history is a bounded buffer of applied records for ad-hoc queries
	// at the prompt.
	history []bufferedRecord
}

// NewSession creates a running session. A nil filter defaults to Always,
// a nil stop matcher to Never, a nil catalog to the embedded one.
func NewSession(filter, stop Matcher, catalog Catalog, out Emitter) *Session {
	if filter == nil {
		filter = Always
	}
	if stop == nil {
		stop = Never
	}
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Session{
		filter:  filter,
		stop:    stop,
		catalog: catalog,
		out:     out,
		conns:   make(map[ConnectionID]*Connection),
		state:   SessionRunning,
	}
}

// Stopped reports whether the session is paused at a breakpoint.
func (s *Session) Stopped() bool { return s.state == SessionStopped }

// Quit reports whether the operator asked to quit. The driving loop
// checks this between records; there is no mid-record interruption.
func (s *Session) Quit() bool { return s.state == SessionQuit }

// Trigger returns the record that caused the current stop, or nil.
func (s *Session) Trigger() *MessageRecord { return s.trigger }

// Filter returns the active filter matcher.
func (s *Session) Filter() Matcher { return s.filter }

// StopMatcher returns the active stop matcher.
func (s *Session) StopMatcher() Matcher { return s.stop }

// Connections returns all known connections ordered by id.
func (s *Session) Connections() []*Connection {
	conns := make([]*Connection, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	sort.Slice(conns, func(i, j int) bool { return conns[i].ID < conns[j].ID })
	return conns
}

// OpenConnection creates a connection in the given (possibly unknown)
// role. Re-opening an open id is a usage fault: reported, existing
// connection kept.
func (s *Session) OpenConnection(id ConnectionID, role Role, ts float64) error {
	if _, ok := s.conns[id]; ok {
		return &UsageFault{Op: "open_connection", Msg: fmt.Sprintf("connection %s is already open", id)}
	}
	s.conns[id] = NewConnection(id, role, ts, s.catalog)
	LogDebug("connection %s opened at %.4f (%s)", id, ts, role)
	return nil
}

// CloseConnection marks a connection closed. Messages delivered after
// close fail with ConnectionClosedError.
func (s *Session) CloseConnection(id ConnectionID, ts float64) error {
	conn, ok := s.conns[id]
	if !ok {
		return &UsageFault{Op: "close_connection", Msg: fmt.Sprintf("connection %s was never opened", id)}
	}
	if conn.Closed {
		return &UsageFault{Op: "close_connection", Msg: fmt.Sprintf("connection %s is already closed", id)}
	}
	conn.Closed = true
	conn.ClosedAt = ts
	LogDebug("connection %s closed at %.4f after %d messages", id, ts, conn.messageCount)
	return nil
}

// Message applies one record: updates the connection's object table,
// emits the record if the filter matches (or queues it while stopped),
// and transitions Running -> Stopped if the stop matcher fires. An
// out-of-order timestamp is a warning, not an error: live traces can
// interleave across connections, so the record is still applied.
func (s *Session) Message(id ConnectionID, rec *MessageRecord) error {
	conn, ok := s.conns[id]
	if !ok {
		return &UsageFault{Op: "message", Msg: fmt.Sprintf("connection %s was never opened", id)}
	}
	if conn.Closed {
		return &ConnectionClosedError{Conn: id, ClosedAt: conn.ClosedAt}
	}

	if rec.Timestamp < conn.lastTimestamp {
		LogWarn("connection %s: timestamp regression %.4f -> %.4f on %s",
			id, conn.lastTimestamp, rec.Timestamp, rec.Name)
	} else {
		conn.lastTimestamp = rec.Timestamp
	}

	conn.inferRole(rec)
	conn.Objects.OnMessage(rec)
	conn.messageCount++

	s.history = append(s.history, bufferedRecord{conn, rec})
	if len(s.history) > historyLimit {
		s.history = s.history[len(s.history)-historyLimit:]
	}

	if s.filter.Evaluate(rec, conn.Objects) {
		if s.state == SessionStopped {
			s.pending = append(s.pending, bufferedRecord{conn, rec})
		} else {
			s.out.EmitMessage(conn, rec)
		}
	}

	if s.state == SessionRunning && s.stop.Evaluate(rec, conn.Objects) {
		s.state = SessionStopped
		s.trigger = rec
		s.out.EmitStop(conn, rec)
	}

	return nil
}

// Command interprets one line of operator input. Commands are accepted
// only while stopped; a malformed command is reported through the
// returned error and leaves all state unchanged.
//
// Verbs: "continue" (resume and flush queued output), "quit", "help",
// "filter <expr>" and "break <expr>" (replace the active matchers), or a
// bare matcher expression to query the buffered records.
func (s *Session) Command(text string) error {
	if s.state != SessionStopped {
		return &UsageFault{Op: "command", Msg: fmt.Sprintf("commands are only accepted while stopped (state: %s)", s.state)}
	}

	verb, rest := splitCommand(text)
	switch verb {
	case "":
		return nil
	case "continue", "c":
		s.state = SessionRunning
		s.trigger = nil
		for _, p := range s.pending {
			s.out.EmitMessage(p.conn, p.rec)
		}
		s.pending = nil
		return nil
	case "quit", "q":
		s.state = SessionQuit
		return nil
	case "help", "h":
		s.out.EmitReport(MatcherHelp)
		return nil
	case "filter":
		m, err := s.parseCommandMatcher(verb, rest)
		if err != nil {
			return err
		}
		s.filter = m
		s.out.EmitReport("filter: " + m.String())
		return nil
	case "break", "b":
		m, err := s.parseCommandMatcher(verb, rest)
		if err != nil {
			return err
		}
		s.stop = m
		s.out.EmitReport("break: " + m.String())
		return nil
	default:
		return s.queryBuffered(text)
	}
}

func (s *Session) parseCommandMatcher(verb, expr string) (Matcher, error) {
	if expr == "" {
		return nil, &UsageFault{Op: "command", Msg: fmt.Sprintf("%s needs a matcher expression", verb)}
	}
	m, err := ParseMatcher(expr)
	if err != nil {
		return nil, err
	}
	return m.Simplify(), nil
}

// queryBuffered runs a matcher over the buffered records, read-only.
func (s *Session) queryBuffered(text string) error {
	m, err := ParseMatcher(text)
	if err != nil {
		return err
	}
	m = m.Simplify()
	matched := 0
	for _, b := range s.history {
		if m.Evaluate(b.rec, b.conn.Objects) {
			s.out.EmitMessage(b.conn, b.rec)
			matched++
		}
	}
	s.out.EmitReport(fmt.Sprintf("%s: %d of %d buffered messages", m, matched, len(s.history)))
	return nil
}

func splitCommand(text string) (verb, rest string) {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, ' '); i >= 0 {
		return text[:i], strings.TrimSpace(text[i+1:])
	}
	return text, ""
}

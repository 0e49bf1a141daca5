package internal

// ConnectionSummary is the per-connection digest included in a trace
// report.
type ConnectionSummary struct {
	ID               ConnectionID `json:"id"`
	Role             string       `json:"role"`
	OpenedAt         float64      `json:"opened_at"`
	ClosedAt         float64      `json:"closed_at,omitempty"`
	Messages         int          `json:"messages"`
	LiveObjects      int          `json:"live_objects"`
	DestroyedObjects int          `json:"destroyed_objects"`
}

// TraceReport is the result of running a matcher over a recorded trace:
// the matching records plus per-connection statistics. Exporters render
// it as JSON, JSONL, YAML or Markdown.
type TraceReport struct {
	Source      string              `json:"source"`
	Matcher     string              `json:"matcher"`
	Connections []ConnectionSummary `json:"connections"`
	Records     []*MessageRecord    `json:"records"`
}

// collectEmitter gathers matched records instead of rendering them.
type collectEmitter struct {
	records []*MessageRecord
}

func (c *collectEmitter) EmitMessage(conn *Connection, rec *MessageRecord) {
	c.records = append(c.records, rec)
}

func (c *collectEmitter) EmitStop(*Connection, *MessageRecord) {}
func (c *collectEmitter) EmitReport(string)                    {}

// ReplayRecords drives an ordered record slice through a session,
// opening connections on first sight and closing them all at the final
// timestamp. Delivery errors are reported and skipped, matching the
// live pipeline's best-effort policy.
func ReplayRecords(s *Session, records []*MessageRecord) {
	known := make(map[ConnectionID]bool)
	var lastTime float64
	for _, rec := range records {
		if !known[rec.Conn] {
			known[rec.Conn] = true
			if err := s.OpenConnection(rec.Conn, RoleUnknown, rec.Timestamp); err != nil {
				LogWarn("%v", err)
			}
		}
		lastTime = rec.Timestamp
		if err := s.Message(rec.Conn, rec); err != nil {
			LogWarn("%v", err)
		}
	}
	for id := range known {
		if err := s.CloseConnection(id, lastTime); err != nil {
			LogWarn("%v", err)
		}
	}
}

// BuildReport replays records through a fresh session and collects the
// ones matching m, together with connection statistics.
func BuildReport(source string, records []*MessageRecord, m Matcher, catalog Catalog) *TraceReport {
	if m == nil {
		m = Always
	}
	collector := &collectEmitter{}
	session := NewSession(m, Never, catalog, collector)
	ReplayRecords(session, records)

	report := &TraceReport{
		Source:  source,
		Matcher: m.String(),
		Records: collector.records,
	}
	for _, conn := range session.Connections() {
		summary := ConnectionSummary{
			ID:       conn.ID,
			Role:     conn.Role.String(),
			OpenedAt: conn.OpenedAt,
			ClosedAt: conn.ClosedAt,
			Messages: conn.MessageCount(),
		}
		for _, obj := range conn.Objects.Objects() {
			if obj.Destroyed {
				summary.DestroyedObjects++
			} else {
				summary.LiveObjects++
			}
		}
		report.Connections = append(report.Connections, summary)
	}
	return report
}

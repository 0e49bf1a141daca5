package internal

import "testing"

func TestBuildReport(t *testing.T) {
	records := []*MessageRecord{
		{Conn: "A", Timestamp: 1, Sent: true, Object: 1, Name: "get_registry", TargetIface: "wl_display",
			Args: []Arg{{Kind: ArgNewID, Object: 2, Interface: "wl_registry"}}},
		{Conn: "A", Timestamp: 2, Sent: true, Object: 3, Name: "create_surface", TargetIface: "wl_compositor",
			Args: []Arg{{Kind: ArgNewID, Object: 5, Interface: "wl_surface"}}},
		{Conn: "A", Timestamp: 3, Sent: true, Object: 5, Name: "commit", TargetIface: "wl_surface"},
		{Conn: "A", Timestamp: 4, Sent: true, Object: 5, Name: "destroy", TargetIface: "wl_surface"},
		{Conn: "B", Timestamp: 5, Object: 1, Name: "get_registry",
			Args: []Arg{{Kind: ArgNewID, Object: 2, Interface: "wl_registry"}}},
	}

	report := BuildReport("trace.db", records, mustMatcher(t, "wl_surface"), DefaultCatalog())

	if report.Matcher != "wl_surface" {
		t.Errorf("Matcher = %q, want wl_surface", report.Matcher)
	}
	if len(report.Records) != 2 {
		t.Fatalf("matched %d records, want commit and destroy", len(report.Records))
	}
	if len(report.Connections) != 2 {
		t.Fatalf("report has %d connections, want 2", len(report.Connections))
	}

	// Connections are ordered by id.
	a, b := report.Connections[0], report.Connections[1]
	if a.ID != "A" || b.ID != "B" {
		t.Fatalf("connection order = %s, %s, want A, B", a.ID, b.ID)
	}
	if a.Role != "client" {
		t.Errorf("connection A role = %q, want client (sent get_registry)", a.Role)
	}
	if b.Role != "server" {
		t.Errorf("connection B role = %q, want server (received get_registry)", b.Role)
	}
	if a.Messages != 4 {
		t.Errorf("connection A messages = %d, want 4", a.Messages)
	}
	if a.DestroyedObjects != 1 {
		t.Errorf("connection A destroyed objects = %d, want the surface", a.DestroyedObjects)
	}
}

func TestBuildReport_NilMatcherMatchesEverything(t *testing.T) {
	records := []*MessageRecord{
		{Conn: "A", Timestamp: 1, Object: 1, Name: "sync", TargetIface: "wl_display"},
	}
	report := BuildReport("x", records, nil, DefaultCatalog())
	if len(report.Records) != 1 {
		t.Errorf("matched %d records, want 1", len(report.Records))
	}
	if report.Matcher != "always" {
		t.Errorf("Matcher = %q, want always", report.Matcher)
	}
}

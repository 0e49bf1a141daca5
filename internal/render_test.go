package internal

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderer_PlainOutput(t *testing.T) {
	SetColorEnabled(false)

	var buf bytes.Buffer
	renderer := NewRenderer(&buf)

	conn := NewConnection("A", RoleClient, 0, DefaultCatalog())
	conn.Objects.OnMessage(newSurfaceRecord(5, 1))

	rec := &MessageRecord{
		Conn: "A", Timestamp: 2.5, Sent: true, Object: 5, Name: "commit", TargetIface: "wl_surface",
	}
	renderer.EmitMessage(conn, rec)

	out := buf.String()
	for _, want := range []string{"2.500", "A", "->", "wl_surface@5", "commit()"} {
		if !strings.Contains(out, want) {
			t.Errorf("EmitMessage() output %q missing %q", out, want)
		}
	}
}

func TestRenderer_StopBanner(t *testing.T) {
	SetColorEnabled(false)

	var buf bytes.Buffer
	renderer := NewRenderer(&buf)
	conn := NewConnection("A", RoleClient, 0, DefaultCatalog())

	rec := &MessageRecord{Conn: "A", Timestamp: 3, Object: 5, Name: "destroy"}
	renderer.EmitStop(conn, rec)

	if !strings.Contains(buf.String(), "[break]") {
		t.Errorf("EmitStop() output %q missing break banner", buf.String())
	}
}

func TestRenderer_UnknownObject(t *testing.T) {
	SetColorEnabled(false)

	var buf bytes.Buffer
	renderer := NewRenderer(&buf)
	conn := NewConnection("A", RoleUnknown, 0, DefaultCatalog())

	rec := &MessageRecord{Conn: "A", Timestamp: 1, Object: 9, Name: "motion"}
	renderer.EmitMessage(conn, rec)

	if !strings.Contains(buf.String(), "?@9") {
		t.Errorf("EmitMessage() output %q should show unresolved object as ?@9", buf.String())
	}
}

func TestRenderer_GenerationSuffix(t *testing.T) {
	SetColorEnabled(false)

	conn := NewConnection("A", RoleClient, 0, DefaultCatalog())
	conn.Objects.OnMessage(newSurfaceRecord(5, 1))
	conn.Objects.OnMessage(&MessageRecord{Object: 5, Timestamp: 2, Name: "destroy", TargetIface: "wl_surface"})
	conn.Objects.OnMessage(newSurfaceRecord(5, 3))

	var buf bytes.Buffer
	renderer := NewRenderer(&buf)
	rec := &MessageRecord{Conn: "A", Timestamp: 4, Object: 5, Name: "commit", TargetIface: "wl_surface"}
	renderer.EmitMessage(conn, rec)

	if !strings.Contains(buf.String(), "wl_surface@5.1") {
		t.Errorf("EmitMessage() output %q missing generation suffix for reused id", buf.String())
	}
}

func TestRenderConnectionSummary(t *testing.T) {
	conn := NewConnection("A", RoleClient, 0, DefaultCatalog())
	conn.Objects.OnMessage(newSurfaceRecord(5, 1))
	conn.messageCount = 1

	out := RenderConnectionSummary(conn)
	for _, want := range []string{"connection A", "client", "open", "1 messages", "2 live objects"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderConnectionSummary() = %q, missing %q", out, want)
		}
	}
}

package internal

import (
	"bytes"
	"strings"
	"testing"
)

func stoppedSession(t *testing.T) (*Session, *captureEmitter) {
	t.Helper()
	s, out := surfaceSession(t, "", "wl_surface.destroy")
	deliverSurfaceMessages(t, s, "commit", "destroy")
	if !s.Stopped() {
		t.Fatal("session did not stop")
	}
	return s, out
}

func TestShell_ContinueResumes(t *testing.T) {
	s, _ := stoppedSession(t)

	var out bytes.Buffer
	shell := NewShell(s, strings.NewReader("continue\n"), &out)
	if err := shell.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if s.Stopped() {
		t.Error("Stopped() = true after continue")
	}
	if s.Quit() {
		t.Error("Quit() = true after continue")
	}
	if !strings.Contains(out.String(), "wl debug $ ") {
		t.Errorf("Run() output %q missing prompt", out.String())
	}
}

func TestShell_QuitStopsPrompting(t *testing.T) {
	s, _ := stoppedSession(t)

	var out bytes.Buffer
	shell := NewShell(s, strings.NewReader("quit\nconTINUE-never-read\n"), &out)
	if err := shell.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !s.Quit() {
		t.Error("Quit() = false after quit command")
	}
}

func TestShell_EOFQuits(t *testing.T) {
	s, _ := stoppedSession(t)

	var out bytes.Buffer
	shell := NewShell(s, strings.NewReader(""), &out)
	if err := shell.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !s.Quit() {
		t.Error("Quit() = false after end of input")
	}
}

func TestShell_BadCommandReportedAndPromptAgain(t *testing.T) {
	s, _ := stoppedSession(t)

	var out bytes.Buffer
	shell := NewShell(s, strings.NewReader("filter ((broken\ncontinue\n"), &out)
	if err := shell.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.Contains(out.String(), "syntax error") {
		t.Errorf("Run() output %q missing syntax error report", out.String())
	}
	if s.Stopped() {
		t.Error("Stopped() = true, want resumed by the second command")
	}
}

func TestShell_QueryKeepsSessionStopped(t *testing.T) {
	s, emitted := stoppedSession(t)
	before := len(emitted.messages)

	var out bytes.Buffer
	shell := NewShell(s, strings.NewReader("wl_surface.commit\nquit\n"), &out)
	if err := shell.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(emitted.messages) != before+1 {
		t.Errorf("query emitted %d extra records, want 1 commit", len(emitted.messages)-before)
	}
	if !s.Quit() {
		t.Error("Quit() = false after quit")
	}
}

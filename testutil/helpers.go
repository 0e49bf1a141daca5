package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteTraceFixture writes trace lines to a temp file and returns its path
func WriteTraceFixture(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.txt")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("Failed to write trace fixture: %v", err)
	}
	return path
}

// SampleTraceLines returns a small but complete client trace: registry
// setup, a surface lifecycle and the server's delete acknowledgement
func SampleTraceLines() []string {
	return []string{
		`[1000.000]  -> wl_display@1.get_registry(new id wl_registry@2)`,
		`[1000.100] wl_registry@2.global(1, "wl_compositor", 4)`,
		`[1000.200]  -> wl_registry@2.bind(1, "wl_compositor", 4, new id [unknown]@3)`,
		`[1000.300]  -> wl_compositor@3.create_surface(new id wl_surface@4)`,
		`[1000.400]  -> wl_surface@4.attach(nil, 0, 0)`,
		`[1000.500]  -> wl_surface@4.commit()`,
		`[1000.600]  -> wl_surface@4.destroy()`,
		`[1000.700] wl_display@1.delete_id(4)`,
	}
}

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/waytrace/waytrace/internal"
)

// CreateTraceDBFixture records the sample trace into a SQLite database
// and returns its path
func CreateTraceDBFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.db")

	store, err := internal.CreateStore(path)
	if err != nil {
		t.Fatalf("Failed to create trace store: %v", err)
	}
	defer func() { _ = store.Close() }()

	for _, line := range SampleTraceLines() {
		rec, ok, err := internal.DecodeLine(line)
		if err != nil {
			t.Fatalf("Failed to decode fixture line %q: %v", line, err)
		}
		if !ok {
			t.Fatalf("Fixture line is not a message: %q", line)
		}
		if err := store.Append(rec); err != nil {
			t.Fatalf("Failed to append fixture record: %v", err)
		}
	}
	return path
}

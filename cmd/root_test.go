package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/waytrace/waytrace/internal"
	"github.com/waytrace/waytrace/testutil"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantErr: false,
		},
		{
			name:    "help flag",
			args:    []string{"--help"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd.SetArgs(tt.args)
			var stdout, stderr bytes.Buffer
			rootCmd.SetOut(&stdout)
			rootCmd.SetErr(&stderr)
			defer resetRootFlags()

			err := rootCmd.Execute()
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRootCommand_LoadTrace(t *testing.T) {
	path := testutil.WriteTraceFixture(t, testutil.SampleTraceLines())

	rootCmd.SetArgs([]string{"--load", path, "--filter", "wl_surface", "--no-color"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	defer resetRootFlags()

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute() error = %v", err)
	}
}

func TestRootCommand_RecordTrace(t *testing.T) {
	tracePath := testutil.WriteTraceFixture(t, testutil.SampleTraceLines())
	dbPath := filepath.Join(filepath.Dir(tracePath), "record.db")

	rootCmd.SetArgs([]string{"--load", tracePath, "--record", dbPath, "--no-color"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	defer resetRootFlags()

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute() error = %v", err)
	}

	store, err := internal.OpenStore(dbPath)
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	count, err := store.RecordCount()
	if err != nil {
		t.Fatalf("RecordCount() error = %v", err)
	}
	if want := len(testutil.SampleTraceLines()); count != want {
		t.Errorf("recorded %d records, want %d", count, want)
	}
}

func TestRootCommand_MissingTraceFile(t *testing.T) {
	rootCmd.SetArgs([]string{"--load", "/no/such/trace.txt"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	defer resetRootFlags()

	if err := rootCmd.Execute(); err == nil {
		t.Error("rootCmd.Execute() expected error for missing trace file")
	}
}

// resetRootFlags clears flag state between tests; cobra keeps package
// variables and its built-in help/version flags across Execute calls,
// and a lingering help or version value short-circuits RunE.
func resetRootFlags() {
	loadPath = ""
	filterExpr = ""
	breakExpr = ""
	recordPath = ""
	protocolsPath = ""
	suppress = false
	noColor = false
	forceColor = false
	verbose = false
	for _, name := range []string{"help", "version"} {
		if f := rootCmd.Flags().Lookup(name); f != nil {
			_ = f.Value.Set("false")
		}
	}
}

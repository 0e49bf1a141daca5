package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/waytrace/waytrace/testutil"
)

func TestQueryCommand(t *testing.T) {
	path := testutil.CreateTraceDBFixture(t)

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "all records",
			args:    []string{"query", path, "--no-color"},
			wantErr: false,
		},
		{
			name:    "interface matcher",
			args:    []string{"query", path, "wl_surface", "--no-color"},
			wantErr: false,
		},
		{
			name:    "negated matcher",
			args:    []string{"query", path, "! wl_display", "--no-color"},
			wantErr: false,
		},
		{
			name:    "bad matcher",
			args:    []string{"query", path, "wl_surface &", "--no-color"},
			wantErr: true,
		},
		{
			name:    "missing database",
			args:    []string{"query", "/no/such/trace.db", "--no-color"},
			wantErr: true,
		},
		{
			name:    "no arguments",
			args:    []string{"query"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd.SetArgs(tt.args)
			rootCmd.SetOut(&bytes.Buffer{})
			rootCmd.SetErr(&bytes.Buffer{})
			defer resetRootFlags()

			err := rootCmd.Execute()
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMatchersCommand(t *testing.T) {
	rootCmd.SetArgs([]string{"matchers"})
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	defer resetRootFlags()

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "wl_surface") {
		t.Error("matchers output missing example expressions")
	}
}

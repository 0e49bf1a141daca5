package export

import (
	"encoding/json"
	"io"

	"github.com/waytrace/waytrace/internal"
)

// JSONExporter exports trace reports in JSON format (pretty-printed)
type JSONExporter struct{}

// Export exports a trace report to JSON format
func (e *JSONExporter) Export(report *internal.TraceReport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(report)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}

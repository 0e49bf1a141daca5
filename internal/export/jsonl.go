package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/waytrace/waytrace/internal"
)

// JSONLExporter exports trace reports in JSONL format (one record per line)
type JSONLExporter struct{}

// Export exports a trace report to JSONL format
func (e *JSONLExporter) Export(report *internal.TraceReport, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, rec := range report.Records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}

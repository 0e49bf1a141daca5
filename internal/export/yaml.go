package export

import (
	"io"

	"github.com/waytrace/waytrace/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports trace reports in YAML format
type YAMLExporter struct{}

// Export exports a trace report to YAML format
func (e *YAMLExporter) Export(report *internal.TraceReport, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(report)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}

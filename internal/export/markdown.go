package export

import (
	"fmt"
	"io"

	"github.com/waytrace/waytrace/internal"
)

// MarkdownExporter exports trace reports in Markdown format
type MarkdownExporter struct{}

// Export exports a trace report to Markdown format
func (e *MarkdownExporter) Export(report *internal.TraceReport, w io.Writer) error {
	// Header
	_, _ = fmt.Fprintf(w, "# Trace %s\n\n", report.Source)
	_, _ = fmt.Fprintf(w, "**Matcher:** `%s`  \n", report.Matcher)
	_, _ = fmt.Fprintf(w, "**Matched:** %d messages\n\n", len(report.Records))

	_, _ = fmt.Fprintf(w, "## Connections\n\n")
	_, _ = fmt.Fprintf(w, "| ID | Role | Messages | Live objects | Destroyed |\n")
	_, _ = fmt.Fprintf(w, "|----|------|----------|--------------|-----------|\n")
	for _, c := range report.Connections {
		_, _ = fmt.Fprintf(w, "| %s | %s | %d | %d | %d |\n",
			c.ID, c.Role, c.Messages, c.LiveObjects, c.DestroyedObjects)
	}

	_, _ = fmt.Fprintf(w, "\n## Messages\n\n```\n")
	for _, rec := range report.Records {
		direction := "<-"
		if rec.Sent {
			direction = "->"
		}
		target := rec.TargetIface
		if target == "" {
			target = internal.UnknownInterface
		}
		_, _ = fmt.Fprintf(w, "[%12.3f] %s %s %s@%d.%s%s\n",
			rec.Timestamp, rec.Conn, direction, target, rec.Object, rec.Name, renderArgs(rec))
	}
	_, _ = fmt.Fprintf(w, "```\n")

	return nil
}

func renderArgs(rec *internal.MessageRecord) string {
	out := "("
	for i, arg := range rec.Args {
		if i > 0 {
			out += ", "
		}
		out += arg.String()
	}
	return out + ")"
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}

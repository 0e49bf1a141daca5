package internal

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	connectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	sentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	receivedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true)

	interfaceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	destroyedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Strikethrough(true)

	messageNameStyle = lipgloss.NewStyle().
				Bold(true)

	stopBannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	reportStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// SetColorEnabled forces colored or plain output, overriding terminal
// detection. Used by the --color/--no-color flags.
func SetColorEnabled(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.ANSI256)
	} else {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// Renderer formats emitted records and diagnostics for the terminal. It
// implements Emitter; the session never writes output itself.
type Renderer struct {
	w io.Writer
}

// NewRenderer creates a renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// EmitMessage prints a record that passed the filter.
func (r *Renderer) EmitMessage(conn *Connection, rec *MessageRecord) {
	fmt.Fprintln(r.w, r.RenderRecord(conn, rec))
}

// EmitStop prints the stop banner with the triggering record.
func (r *Renderer) EmitStop(conn *Connection, rec *MessageRecord) {
	fmt.Fprintf(r.w, "%s %s\n",
		stopBannerStyle.Render("[break]"),
		r.RenderRecord(conn, rec))
}

// EmitReport prints operator-facing diagnostic text.
func (r *Renderer) EmitReport(text string) {
	fmt.Fprintln(r.w, reportStyle.Render(text))
}

// RenderRecord formats one record: timestamp, connection, direction
// arrow, object (with interface, generation and destruction state from
// the table), message name and arguments.
func (r *Renderer) RenderRecord(conn *Connection, rec *MessageRecord) string {
	var b strings.Builder

	b.WriteString(timestampStyle.Render(fmt.Sprintf("[%12.3f]", rec.Timestamp)))
	b.WriteByte(' ')
	b.WriteString(connectionStyle.Render(string(conn.ID)))
	b.WriteByte(' ')
	if rec.Sent {
		b.WriteString(sentStyle.Render("->"))
	} else {
		b.WriteString(receivedStyle.Render("<-"))
	}
	b.WriteByte(' ')
	b.WriteString(r.renderTarget(conn, rec))
	b.WriteByte('.')
	b.WriteString(messageNameStyle.Render(rec.Name))
	b.WriteByte('(')
	for i, arg := range rec.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.String())
	}
	b.WriteByte(')')
	return b.String()
}

func (r *Renderer) renderTarget(conn *Connection, rec *MessageRecord) string {
	obj, err := conn.Objects.Resolve(rec.Object)
	if err != nil {
		return interfaceStyle.Render(fmt.Sprintf("%s@%d", UnknownInterface, rec.Object))
	}
	text := obj.String()
	if obj.Destroyed {
		return destroyedStyle.Render(text)
	}
	return interfaceStyle.Render(text)
}

// RenderConnectionSummary formats one line of per-connection statistics
// for the query command.
func RenderConnectionSummary(conn *Connection) string {
	live, destroyed := 0, 0
	for _, obj := range conn.Objects.Objects() {
		if obj.Destroyed {
			destroyed++
		} else {
			live++
		}
	}
	state := "open"
	if conn.Closed {
		state = "closed"
	}
	return fmt.Sprintf("connection %s (%s, %s): %d messages, %d live objects, %d destroyed",
		conn.ID, conn.Role, state, conn.MessageCount(), live, destroyed)
}

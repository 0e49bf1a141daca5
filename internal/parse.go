package internal

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// DefaultConnection is the connection id used for traces that do not
// name their connections. Plain WAYLAND_DEBUG output is a single
// connection; instrumented runtimes may prefix lines with {name}.
const DefaultConnection ConnectionID = "A"

// messageLinePattern matches one protocol message as printed by
// WAYLAND_DEBUG=1: "[1234567.890] {conn} -> wl_surface@5.commit(args)".
// The {conn} tag and the sent arrow are optional.
var messageLinePattern = regexp.MustCompile(
	`^\[(\d+)\.(\d+)\]\s*(?:\{([\w-]+)\}\s*)?(->\s*)?([\w-]+)@(\d+)\.(\w+)\((.*)\)\s*$`)

// newIDArgPattern matches "new id wl_registry@2" and "new id [unknown]@4".
var newIDArgPattern = regexp.MustCompile(`^new id (\[unknown\]|[\w-]+)@(\d+)$`)

// objectArgPattern matches "wl_surface@5".
var objectArgPattern = regexp.MustCompile(`^([\w-]+)@(\d+)$`)

// fdArgPattern matches "fd 17".
var fdArgPattern = regexp.MustCompile(`^fd (-?\d+)$`)

// Decoder turns a textual trace into a stream of message records. Lines
// that are not protocol messages (application output interleaved on the
// same stream) are handed back raw so the driver can pass them through.
type Decoder struct {
	scanner *bufio.Scanner
	lineNum int
}

// NewDecoder wraps a trace stream.
func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Decoder{scanner: scanner}
}

// Next returns the next decoded record, or the raw text of a line that
// is not a protocol message, or io.EOF when the trace is exhausted. A
// line that matches the message shape but fails to decode yields a
// DecodeError; the driver reports it and keeps going.
func (d *Decoder) Next() (*MessageRecord, string, error) {
	if !d.scanner.Scan() {
		if err := d.scanner.Err(); err != nil {
			return nil, "", err
		}
		return nil, "", io.EOF
	}
	d.lineNum++
	line := d.scanner.Text()

	rec, ok, err := DecodeLine(line)
	if err != nil {
		return nil, "", fmt.Errorf("line %d: %w", d.lineNum, err)
	}
	if !ok {
		return nil, line, nil
	}
	return rec, "", nil
}

// DecodeLine decodes one trace line. ok is false when the line is not a
// protocol message at all; err is set when it is one but malformed.
func DecodeLine(line string) (rec *MessageRecord, ok bool, err error) {
	m := messageLinePattern.FindStringSubmatch(line)
	if m == nil {
		return nil, false, nil
	}

	millis, _ := strconv.ParseFloat(m[1], 64)
	micros, _ := strconv.ParseFloat("0."+m[2], 64)

	conn := DefaultConnection
	if m[3] != "" {
		conn = ConnectionID(m[3])
	}

	objectID, convErr := strconv.ParseUint(m[6], 10, 32)
	if convErr != nil {
		return nil, false, &DecodeError{Line: line, Err: fmt.Errorf("bad object id %q", m[6])}
	}

	args, convErr := parseArgs(m[8])
	if convErr != nil {
		return nil, false, &DecodeError{Line: line, Err: convErr}
	}

	rec = &MessageRecord{
		Conn:        conn,
		Timestamp:   millis + micros,
		Sent:        m[4] != "",
		Object:      ObjectID(objectID),
		TargetIface: m[5],
		Name:        m[7],
		Args:        args,
	}
	return rec, true, nil
}

// parseArgs splits and types the argument list of a message.
func parseArgs(text string) ([]Arg, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	parts, err := splitArgs(text)
	if err != nil {
		return nil, err
	}
	args := make([]Arg, 0, len(parts))
	for _, part := range parts {
		arg, err := parseArg(part)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

// splitArgs splits on commas that are outside string quotes.
func splitArgs(text string) ([]string, error) {
	var parts []string
	var start int
	inString := false
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '"':
			inString = !inString
		case '\\':
			if inString {
				i++
			}
		case ',':
			if !inString {
				parts = append(parts, strings.TrimSpace(text[start:i]))
				start = i + 1
			}
		}
	}
	if inString {
		return nil, fmt.Errorf("unterminated string in arguments %q", text)
	}
	parts = append(parts, strings.TrimSpace(text[start:]))
	return parts, nil
}

func parseArg(text string) (Arg, error) {
	switch {
	case text == "nil":
		return Arg{Kind: ArgNil}, nil
	case text == "array":
		return Arg{Kind: ArgArray}, nil
	case len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"':
		return Arg{Kind: ArgString, Str: text[1 : len(text)-1]}, nil
	}

	if m := fdArgPattern.FindStringSubmatch(text); m != nil {
		fd, _ := strconv.ParseInt(m[1], 10, 64)
		return Arg{Kind: ArgFD, Int: fd}, nil
	}

	if m := newIDArgPattern.FindStringSubmatch(text); m != nil {
		id, _ := strconv.ParseUint(m[2], 10, 32)
		iface := m[1]
		if iface == "[unknown]" {
			iface = ""
		}
		return Arg{Kind: ArgNewID, Object: ObjectID(id), Interface: iface}, nil
	}

	if m := objectArgPattern.FindStringSubmatch(text); m != nil {
		id, _ := strconv.ParseUint(m[2], 10, 32)
		return Arg{Kind: ArgObject, Object: ObjectID(id), Interface: m[1]}, nil
	}

	if strings.ContainsAny(text, ".") {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return Arg{Kind: ArgFixed, Fixed: f}, nil
		}
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Arg{Kind: ArgInt, Int: n}, nil
	}

	return Arg{}, fmt.Errorf("unrecognized argument %q", text)
}

package internal

import (
	"fmt"
	"strings"
)

// ConnectionID identifies one client-server session within a trace.
type ConnectionID string

// ObjectID is a protocol object id. Ids are small integers, unique only
// within a connection and only while the object is live; the object table
// disambiguates reuse with generations.
type ObjectID uint32

// ArgKind discriminates the typed argument values a message can carry.
type ArgKind int

const (
	ArgInt ArgKind = iota
	ArgFixed
	ArgString
	ArgNil
	ArgFD
	ArgArray
	ArgObject // reference to an existing object
	ArgNewID  // declaration of a new object
)

// Arg is one typed argument of a message. Exactly the fields relevant to
// Kind are populated.
type Arg struct {
	Kind      ArgKind  `json:"kind"`
	Int       int64    `json:"int,omitempty"`
	Fixed     float64  `json:"fixed,omitempty"`
	Str       string   `json:"str,omitempty"`
	Object    ObjectID `json:"object,omitempty"`
	Interface string   `json:"interface,omitempty"` // declared interface of Object, "" if the trace omitted it
}

// MessageRecord is one decoded unit of trace input: a single request or
// event on a single object.
type MessageRecord struct {
	Conn      ConnectionID `json:"conn"`
	Timestamp float64      `json:"timestamp"` // milliseconds, monotonic per connection
	Sent      bool         `json:"sent"`      // true = sent by the traced process
	Object    ObjectID     `json:"object"`
	Name      string       `json:"name"`
	Args      []Arg        `json:"args,omitempty"`

	// TargetIface is the interface name the trace printed for the
	// target object, used to lazily resolve objects the table only
	// knows as "?". Empty when the source did not annotate it.
	TargetIface string `json:"target_interface,omitempty"`
}

// NewIDArg returns the first new-id argument of the record and its
// position, or nil if the record declares no new object.
func (r *MessageRecord) NewIDArg() (*Arg, int) {
	for i := range r.Args {
		if r.Args[i].Kind == ArgNewID {
			return &r.Args[i], i
		}
	}
	return nil, -1
}

// String renders the record in the trace's own notation, without the
// timestamp prefix.
func (r *MessageRecord) String() string {
	args := make([]string, len(r.Args))
	for i, a := range r.Args {
		args[i] = a.String()
	}
	arrow := ""
	if r.Sent {
		arrow = "-> "
	}
	return fmt.Sprintf("%s@%d.%s(%s)", arrow, r.Object, r.Name, strings.Join(args, ", "))
}

// String renders the argument in the trace's own notation.
func (a Arg) String() string {
	switch a.Kind {
	case ArgInt:
		return fmt.Sprintf("%d", a.Int)
	case ArgFixed:
		return fmt.Sprintf("%g", a.Fixed)
	case ArgString:
		return fmt.Sprintf("%q", a.Str)
	case ArgNil:
		return "nil"
	case ArgFD:
		return fmt.Sprintf("fd %d", a.Int)
	case ArgArray:
		return "array"
	case ArgObject:
		if a.Interface != "" {
			return fmt.Sprintf("%s@%d", a.Interface, a.Object)
		}
		return fmt.Sprintf("@%d", a.Object)
	case ArgNewID:
		iface := a.Interface
		if iface == "" {
			iface = "[unknown]"
		}
		return fmt.Sprintf("new id %s@%d", iface, a.Object)
	default:
		return "?"
	}
}

package internal

// Role is which side of the protocol the traced process plays on a
// connection. It is inferred from traffic, not declared: only clients
// ever send get_registry, so the first sighting decides. A connection
// with no disambiguating message stays RoleUnknown.
type Role int

const (
	RoleUnknown Role = iota
	RoleClient
	RoleServer
)

func (r Role) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RoleServer:
		return "server"
	default:
		return "unknown"
	}
}

// Connection is one client-server protocol session within a trace. It
// exclusively owns its object table.
type Connection struct {
	ID       ConnectionID
	Role     Role
	OpenedAt float64
	ClosedAt float64
	Closed   bool

	Objects *ObjectTable

	lastTimestamp float64
	messageCount  int
}

// NewConnection creates an open connection with an empty object table.
func NewConnection(id ConnectionID, role Role, openedAt float64, catalog Catalog) *Connection {
	return &Connection{
		ID:       id,
		Role:     role,
		OpenedAt: openedAt,
		Objects:  NewObjectTable(id, catalog),
	}
}

// MessageCount returns the number of records applied so far.
func (c *Connection) MessageCount() int {
	return c.messageCount
}

// inferRole pins down the connection role from a bootstrap message.
// get_registry is only ever sent by a client, so seeing it sent means we
// are tracing the client side, receiving it means the server side.
func (c *Connection) inferRole(rec *MessageRecord) {
	if c.Role != RoleUnknown || rec.Name != "get_registry" {
		return
	}
	if rec.Sent {
		c.Role = RoleClient
	} else {
		c.Role = RoleServer
	}
	LogDebug("connection %s: role inferred as %s", c.ID, c.Role)
}

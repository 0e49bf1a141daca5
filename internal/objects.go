package internal

import "fmt"

// Object is one protocol object at one generation of its id slot. Ids are
// reused after destruction is acknowledged, so two Objects may share an
// id; the generation tells them apart.
type Object struct {
	ID          ObjectID `json:"id"`
	Generation  int      `json:"generation"`
	Interface   string   `json:"interface"`
	CreatedAt   float64  `json:"created_at"`
	Destroyed   bool     `json:"destroyed,omitempty"`
	DestroyedAt float64  `json:"destroyed_at,omitempty"`
}

// String renders the object as printed in diagnostics: wl_surface@5 with
// a generation suffix once the slot has been reused.
func (o *Object) String() string {
	if o.Generation > 0 {
		return fmt.Sprintf("%s@%d.%d", o.Interface, o.ID, o.Generation)
	}
	return fmt.Sprintf("%s@%d", o.Interface, o.ID)
}

// ObjectTable tracks every object of one connection: current id bindings,
// generation counters for reused slots, and the full creation history.
// The catalog supplies interface names for object-creating messages and
// identifies destructor messages.
type ObjectTable struct {
	conn        ConnectionID
	catalog     Catalog
	bindings    map[ObjectID]*Object
	generations map[ObjectID]int
	history     []*Object
}

// NewObjectTable creates an empty table for one connection.
func NewObjectTable(conn ConnectionID, catalog Catalog) *ObjectTable {
	return &ObjectTable{
		conn:        conn,
		catalog:     catalog,
		bindings:    make(map[ObjectID]*Object),
		generations: make(map[ObjectID]int),
	}
}

// Resolve returns the object currently bound to id. A destroyed object
// stays resolvable until its destruction is acknowledged, so late
// messages still see it. Ids never bound in the current generation
// return an UnknownObjectError.
func (t *ObjectTable) Resolve(id ObjectID) (*Object, error) {
	if obj, ok := t.bindings[id]; ok {
		return obj, nil
	}
	return nil, &UnknownObjectError{Conn: t.conn, ID: id}
}

// Objects returns every object ever bound in this connection, in
// creation order. The returned slice is shared; callers must not modify.
func (t *ObjectTable) Objects() []*Object {
	return t.history
}

// OnMessage applies one record to the table: binds objects declared by
// new-id arguments, backfills interfaces learned from typed object
// references, and records destruction.
func (t *ObjectTable) OnMessage(rec *MessageRecord) {
	target := t.ensureBound(rec.Object, rec.Timestamp)
	if target.Interface == UnknownInterface && rec.TargetIface != "" {
		target.Interface = rec.TargetIface
	}

	if arg, pos := rec.NewIDArg(); arg != nil {
		t.bind(arg.Object, t.newObjectInterface(rec, arg, pos), rec.Timestamp)
	}

	for i := range rec.Args {
		arg := &rec.Args[i]
		if arg.Kind != ArgObject || arg.Interface == "" {
			continue
		}
		// The trace prints object references with their interface; use
		// that to resolve objects we only knew as "?", and to learn
		// objects whose creation predates the trace.
		if obj, ok := t.bindings[arg.Object]; ok {
			if obj.Interface == UnknownInterface {
				obj.Interface = arg.Interface
			}
		} else {
			t.bind(arg.Object, arg.Interface, rec.Timestamp)
		}
	}

	if rec.Object == displayObjectID && rec.Name == "delete_id" {
		if len(rec.Args) == 1 && rec.Args[0].Kind == ArgInt {
			t.acknowledgeDelete(ObjectID(rec.Args[0].Int), rec.Timestamp)
		}
		return
	}

	if t.catalog != nil && t.catalog.IsDestructor(target.Interface, rec.Name) && !target.Destroyed {
		target.Destroyed = true
		target.DestroyedAt = rec.Timestamp
	}
}

// The display singleton is object 1 on every connection.
const displayObjectID ObjectID = 1

// newObjectInterface determines the interface of an object declared by a
// new-id argument: the trace's own annotation wins, then the catalog,
// then the interface name quoted in a registry bind.
func (t *ObjectTable) newObjectInterface(rec *MessageRecord, arg *Arg, pos int) string {
	if arg.Interface != "" {
		return arg.Interface
	}
	if t.catalog != nil {
		if iface := t.catalog.InterfaceFor(rec.Name, pos); iface != "" {
			return iface
		}
	}
	if rec.Name == "bind" {
		for _, a := range rec.Args {
			if a.Kind == ArgString {
				return a.Str
			}
		}
	}
	return UnknownInterface
}

// ensureBound returns the binding for id, creating an unknown-interface
// object if the id has never been seen. Objects are created implicitly
// the first time an id is the target of a message.
func (t *ObjectTable) ensureBound(id ObjectID, ts float64) *Object {
	if obj, ok := t.bindings[id]; ok {
		return obj
	}
	return t.bind(id, UnknownInterface, ts)
}

// bind creates a fresh Object for id at the slot's next generation and
// makes it the current binding.
func (t *ObjectTable) bind(id ObjectID, iface string, ts float64) *Object {
	if prev, ok := t.bindings[id]; ok {
		if !prev.Destroyed {
			LogDebug("connection %s: id %d rebound while %s still live", t.conn, id, prev)
		}
	}
	obj := &Object{
		ID:         id,
		Generation: t.generations[id],
		Interface:  iface,
		CreatedAt:  ts,
	}
	t.generations[id]++
	t.bindings[id] = obj
	t.history = append(t.history, obj)
	return obj
}

// acknowledgeDelete completes destruction of an id: the object becomes
// unresolvable and the slot is free for reuse at the next generation.
func (t *ObjectTable) acknowledgeDelete(id ObjectID, ts float64) {
	obj, ok := t.bindings[id]
	if !ok {
		LogDebug("connection %s: delete_id for unbound id %d", t.conn, id)
		return
	}
	if !obj.Destroyed {
		obj.Destroyed = true
		obj.DestroyedAt = ts
	}
	delete(t.bindings, id)
}

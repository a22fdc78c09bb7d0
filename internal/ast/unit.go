package ast

import (
	"fmt"

	"fortio.org/safecast"

	"solfront/internal/source"
)

// Node is implemented by every arena node. All cross-node relations are
// NodeIDs resolved through the owning Unit, never Go pointers, so
// back-references (reference → declaration) cannot form ownership cycles.
type Node interface {
	ID() NodeID
	Kind() NodeKind
	Span() source.Span
	SetSpan(source.Span)
	setID(NodeID)
}

type base struct {
	id   NodeID
	span source.Span
}

func (b *base) ID() NodeID            { return b.id }
func (b *base) Span() source.Span     { return b.span }
func (b *base) setID(id NodeID)       { b.id = id }
func (b *base) SetSpan(s source.Span) { b.span = s }

// Unit is the arena holding one compilation unit. Slot i stores the node
// with id i+1; ids are assigned in construction order and are stable for
// the lifetime of the unit.
type Unit struct {
	Name  string // source-unit name, used only as a diagnostics label
	Root  NodeID // the SourceUnit node
	nodes []Node
}

func NewUnit(name string) *Unit {
	return &Unit{Name: name}
}

// AddAt sets the node span and allocates it in one step.
func (u *Unit) AddAt(n Node, span source.Span) NodeID {
	n.SetSpan(span)
	return u.Add(n)
}

// Add allocates the node in the arena and returns its fresh id.
func (u *Unit) Add(n Node) NodeID {
	u.nodes = append(u.nodes, n)
	id, err := safecast.Conv[uint32](len(u.nodes))
	if err != nil {
		panic(fmt.Errorf("node arena overflow: %w", err))
	}
	n.setID(NodeID(id))
	return NodeID(id)
}

// AddWithID places the node at an explicit id, growing the arena as needed.
// Used by the interchange importer, which must preserve exported ids.
// Returns an error for id 0 or an occupied slot.
func (u *Unit) AddWithID(n Node, id NodeID) error {
	if !id.IsValid() {
		return fmt.Errorf("node id 0 is reserved")
	}
	idx := int(id) - 1
	for len(u.nodes) <= idx {
		u.nodes = append(u.nodes, nil)
	}
	if u.nodes[idx] != nil {
		return fmt.Errorf("duplicate node id %d", id)
	}
	u.nodes[idx] = n
	n.setID(id)
	return nil
}

// Get returns the node for id, or nil for 0, out-of-range, or a hole.
func (u *Unit) Get(id NodeID) Node {
	if !id.IsValid() || int(id) > len(u.nodes) {
		return nil
	}
	return u.nodes[id-1]
}

// Len returns the number of arena slots (holes included).
func (u *Unit) Len() int {
	return len(u.nodes)
}

// Complete reports whether every arena slot is occupied. The importer
// checks this so a dangling child id is a structural failure, never a
// nil-dereference later.
func (u *Unit) Complete() bool {
	for _, n := range u.nodes {
		if n == nil {
			return false
		}
	}
	return len(u.nodes) > 0
}

// At is a typed accessor: it returns the node behind id as T.
// The second result is false when the id is empty or the kind differs.
func At[T Node](u *Unit, id NodeID) (T, bool) {
	var zero T
	n := u.Get(id)
	if n == nil {
		return zero, false
	}
	t, ok := n.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// MustAt is At for links the builder guarantees; it panics on mismatch.
func MustAt[T Node](u *Unit, id NodeID) T {
	t, ok := At[T](u, id)
	if !ok {
		panic(fmt.Sprintf("ast: node %d has unexpected kind", id))
	}
	return t
}

// Package behavior implements behavior trees stored in a generational arena.
//
// A Tree owns every node. Nodes refer to each other by Handle, and the tree is
// evaluated by a stateless recursive walk from its Root once per Tick: no node
// remembers progress between ticks, so anything long-running is expressed as a
// leaf returning StatusRunning until it is done.
//
// A Tree is not safe for concurrent use. One owner serializes AddNode,
// SetEntryNode and Tick calls.
package behavior

import (
	"reflect"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/zeusync/behavior/internal/core/observability/log"
	"github.com/zeusync/behavior/pkg/arena"
)

type Tree[C any] struct {
	nodes *arena.Arena[Node[C]]
	root  Handle[C]

	registry *Registry[C]
	logger   log.Log
}

type Option[C any] func(*Tree[C])

func WithLogger[C any](logger log.Log) Option[C] {
	return func(t *Tree[C]) { t.logger = logger }
}

// WithRegistry sets the registry used to rebuild leaf behaviors on load.
func WithRegistry[C any](registry *Registry[C]) Option[C] {
	return func(t *Tree[C]) { t.registry = registry }
}

// New returns a tree holding only a Root with no child. Ticking it succeeds.
func New[C any](opts ...Option[C]) *Tree[C] {
	t := &Tree[C]{
		nodes:  arena.New[Node[C]](),
		logger: log.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.root = t.nodes.Insert(&Root[C]{})
	return t
}

// AddNode stores a Composite or Leaf and returns its handle. The caller links
// it into the topology.
func (t *Tree[C]) AddNode(n Node[C]) Handle[C] {
	switch n := n.(type) {
	case *Composite[C]:
	case *Leaf[C]:
		if n.registry == nil {
			n.registry = t.registry
		}
	case nil:
		panic(errors.AssertionFailedf("behavior tree: adding a nil node"))
	default:
		panic(errors.AssertionFailedf("behavior tree: cannot add a %s node", n.Kind()))
	}
	h := t.nodes.Insert(n)
	t.logger.Debug("node added", log.Stringer("kind", n.Kind()), log.Stringer("handle", h))
	return h
}

// SetEntryNode points the Root at entry. A null handle empties the tree.
func (t *Tree[C]) SetEntryNode(entry Handle[C]) {
	t.mustRoot().Child = entry
	t.logger.Debug("entry node set", log.Stringer("handle", entry))
}

// Entry returns the Root's child.
func (t *Tree[C]) Entry() Handle[C] {
	return t.mustRoot().Child
}

func (t *Tree[C]) RootHandle() Handle[C] { return t.root }

// Node returns the node behind h, or false when h is null, out of range or
// stale. Nodes are pointers, so the result may be edited in place.
func (t *Tree[C]) Node(h Handle[C]) (Node[C], bool) {
	return t.nodes.Get(h)
}

// At is Node for handles known to be valid. It panics on an absent handle.
func (t *Tree[C]) At(h Handle[C]) Node[C] {
	n, ok := t.nodes.Get(h)
	if !ok {
		panic(errors.AssertionFailedf("behavior tree: no node at %s", h))
	}
	return n
}

// ReplaceNode swaps the node stored at h for n.
func (t *Tree[C]) ReplaceNode(h Handle[C], n Node[C]) bool {
	if n == nil {
		return false
	}
	return t.nodes.Set(h, n)
}

// Len is the number of nodes including the Root.
func (t *Tree[C]) Len() int { return t.nodes.Len() }

// Range visits every node in arena order.
func (t *Tree[C]) Range(fn func(h Handle[C], n Node[C]) bool) {
	t.nodes.Range(fn)
}

func (t *Tree[C]) mustRoot() *Root[C] {
	n, _ := t.nodes.Get(t.root)
	root, ok := n.(*Root[C])
	if !ok {
		panic(errors.AssertionFailedf("behavior tree: root slot %s does not hold a Root node", t.root))
	}
	return root
}

// Tick evaluates the tree once against ctx and returns the aggregated status.
func (t *Tree[C]) Tick(ctx *C) Status {
	status := t.tick(t.root, ctx)
	t.logger.Debug("tree ticked", log.Stringer("status", status))
	return status
}

func (t *Tree[C]) tick(h Handle[C], ctx *C) Status {
	n, ok := t.nodes.Get(h)
	if !ok {
		panic(errors.AssertionFailedf("behavior tree: dangling handle %s", h))
	}

	switch n := n.(type) {
	case *Root[C]:
		if n.Child.IsNone() {
			return StatusSuccess
		}
		return t.tick(n.Child, ctx)

	case *Composite[C]:
		switch n.Type {
		case Sequence:
			for _, child := range n.Children {
				switch status := t.tick(child, ctx); status {
				case StatusFailure, StatusRunning:
					return status
				}
			}
			return StatusSuccess
		case Selector:
			for _, child := range n.Children {
				switch status := t.tick(child, ctx); status {
				case StatusSuccess, StatusRunning:
					return status
				}
			}
			return StatusFailure
		default:
			panic(errors.AssertionFailedf("behavior tree: composite %s has invalid type %s", h, n.Type))
		}

	case *Leaf[C]:
		if n.Behavior == nil {
			panic(errors.AssertionFailedf("behavior tree: leaf %s has no behavior", h))
		}
		return n.Behavior.Tick(ctx)

	case nil:
		panic(errors.AssertionFailedf("behavior tree: empty slot at %s", h))

	default:
		panic(errors.AssertionFailedf("behavior tree: %s node reached at %s", n.Kind(), h))
	}
}

// Equal reports whether both trees have the same arena layout, root handle,
// topology and leaf behavior state.
func (t *Tree[C]) Equal(other *Tree[C]) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.root == other.root && arena.Equal(t.nodes, other.nodes, nodesEqual[C])
}

func nodesEqual[C any](a, b Node[C]) bool {
	switch x := a.(type) {
	case *Root[C]:
		y, ok := b.(*Root[C])
		return ok && x.Child == y.Child
	case *Composite[C]:
		y, ok := b.(*Composite[C])
		return ok && x.Type == y.Type && slices.Equal(x.Children, y.Children)
	case *Leaf[C]:
		y, ok := b.(*Leaf[C])
		return ok && behaviorsEqual(x.Behavior, y.Behavior)
	case *Unknown[C]:
		_, ok := b.(*Unknown[C])
		return ok
	default:
		return a == nil && b == nil
	}
}

func behaviorsEqual[C any](a, b Behavior[C]) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	if e, ok := a.(Equaler[C]); ok {
		return e.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}

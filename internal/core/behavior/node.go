package behavior

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/zeusync/behavior/pkg/arena"
	"github.com/zeusync/behavior/pkg/visitor"
)

// Handle identifies a node inside one Tree.
type Handle[C any] = arena.Handle[Node[C]]

// NoNode is the null handle, used for "no child".
func NoNode[C any]() Handle[C] { return arena.None[Node[C]]() }

// NodeKind tags the node variants.
type NodeKind uint8

const (
	KindUnknown NodeKind = iota
	KindRoot
	KindComposite
	KindLeaf
)

func (k NodeKind) String() string {
	switch k {
	case KindRoot:
		return "Root"
	case KindComposite:
		return "Composite"
	case KindLeaf:
		return "Leaf"
	default:
		return "Unknown"
	}
}

func ParseNodeKind(s string) (NodeKind, error) {
	for _, k := range []NodeKind{KindUnknown, KindRoot, KindComposite, KindLeaf} {
		if k.String() == s {
			return k, nil
		}
	}
	return KindUnknown, errors.Wrapf(ErrUnknownNodeKind, "%q", s)
}

// Node is the closed set of node variants: *Root, *Composite, *Leaf and *Unknown.
type Node[C any] interface {
	Kind() NodeKind
	visitor.Visitable
	node()
}

var (
	_ Node[struct{}] = (*Root[struct{}])(nil)
	_ Node[struct{}] = (*Composite[struct{}])(nil)
	_ Node[struct{}] = (*Leaf[struct{}])(nil)
	_ Node[struct{}] = (*Unknown[struct{}])(nil)
)

// Unknown is the empty slot state before a load fills it in.
type Unknown[C any] struct{}

func (*Unknown[C]) node()          {}
func (*Unknown[C]) Kind() NodeKind { return KindUnknown }

func (*Unknown[C]) Visit(name string, v *visitor.Visitor) error {
	return v.Region(name, func() error { return nil })
}

// Root is the single entry point of a tree.
type Root[C any] struct {
	Child Handle[C]
}

func (*Root[C]) node()          {}
func (*Root[C]) Kind() NodeKind { return KindRoot }

func (r *Root[C]) Visit(name string, v *visitor.Visitor) error {
	return v.Region(name, func() error {
		return r.Child.Visit("Child", v)
	})
}

// CompositeType selects how a Composite aggregates its children.
type CompositeType uint8

const (
	// Sequence succeeds when every child succeeds, in order.
	Sequence CompositeType = iota
	// Selector succeeds on the first child that does not fail.
	Selector
)

func (t CompositeType) String() string {
	switch t {
	case Sequence:
		return "Sequence"
	case Selector:
		return "Selector"
	default:
		return fmt.Sprintf("CompositeType(%d)", uint8(t))
	}
}

// ParseCompositeType accepts the type name in any case.
func ParseCompositeType(s string) (CompositeType, error) {
	switch strings.ToLower(s) {
	case "sequence":
		return Sequence, nil
	case "selector":
		return Selector, nil
	default:
		return 0, errors.Wrapf(ErrUnknownNodeType, "composite %q", s)
	}
}

// Composite evaluates its children in slice order.
type Composite[C any] struct {
	Type     CompositeType
	Children []Handle[C]
}

func NewComposite[C any](typ CompositeType, children ...Handle[C]) *Composite[C] {
	return &Composite[C]{Type: typ, Children: children}
}

func NewSequence[C any](children ...Handle[C]) *Composite[C] {
	return NewComposite[C](Sequence, children...)
}

func NewSelector[C any](children ...Handle[C]) *Composite[C] {
	return NewComposite[C](Selector, children...)
}

func (*Composite[C]) node()          {}
func (*Composite[C]) Kind() NodeKind { return KindComposite }

func (c *Composite[C]) AddChild(child Handle[C]) {
	c.Children = append(c.Children, child)
}

func (c *Composite[C]) SetChildren(children ...Handle[C]) {
	c.Children = children
}

// Add inserts the composite into t and returns its handle.
func (c *Composite[C]) Add(t *Tree[C]) Handle[C] {
	return t.AddNode(c)
}

func (c *Composite[C]) Visit(name string, v *visitor.Visitor) error {
	return v.Region(name, func() error {
		typ := c.Type.String()
		if err := v.String("Type", &typ); err != nil {
			return err
		}
		count := len(c.Children)
		if err := v.Int("Count", &count); err != nil {
			return err
		}
		if v.IsReading() {
			parsed, err := ParseCompositeType(typ)
			if err != nil {
				return err
			}
			if count < 0 || (count > 0 && !v.HasRegion(fmt.Sprintf("Child%d", count-1))) || v.HasRegion(fmt.Sprintf("Child%d", count)) {
				return errors.Wrapf(ErrMalformedTree, "composite child count %d does not match saved children", count)
			}
			c.Type = parsed
			c.Children = make([]Handle[C], count)
		}
		for i := range c.Children {
			if err := c.Children[i].Visit(fmt.Sprintf("Child%d", i), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Leaf owns one behavior value.
type Leaf[C any] struct {
	Behavior Behavior[C]

	// registry builds the empty behavior when a saved leaf is read.
	registry *Registry[C]
}

func NewLeaf[C any](b Behavior[C]) *Leaf[C] {
	return &Leaf[C]{Behavior: b}
}

func (*Leaf[C]) node()          {}
func (*Leaf[C]) Kind() NodeKind { return KindLeaf }

// Add inserts the leaf into t and returns its handle.
func (l *Leaf[C]) Add(t *Tree[C]) Handle[C] {
	return t.AddNode(l)
}

// Visit stores the behavior kind next to its data. When reading, a behavior
// of the stored kind is created through the registry unless the leaf already
// holds one of that kind.
func (l *Leaf[C]) Visit(name string, v *visitor.Visitor) error {
	return v.Region(name, func() error {
		var kind string
		if l.Behavior != nil {
			kind = l.Behavior.Kind()
		}
		if err := v.String("Behavior", &kind); err != nil {
			return err
		}
		if v.IsReading() && (l.Behavior == nil || l.Behavior.Kind() != kind) {
			if l.registry == nil {
				return errors.Wrapf(ErrNoRegistry, "cannot restore leaf behavior %q", kind)
			}
			b, err := l.registry.New(kind)
			if err != nil {
				return err
			}
			l.Behavior = b
		}
		if l.Behavior == nil {
			return errors.Wrap(ErrMalformedTree, "leaf without behavior")
		}
		return l.Behavior.Visit("Data", v)
	})
}

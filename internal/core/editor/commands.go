// Package editor provides reversible edits of a behavior tree for use with a
// command.Stack. Edits must be applied between ticks, never from inside one.
package editor

import (
	"fmt"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/zeusync/behavior/internal/core/behavior"
	"github.com/zeusync/behavior/pkg/command"
)

var ErrNotComposite = errors.New("node is not a composite")

// Stack is a command history over one tree.
type Stack[C any] = command.Stack[*behavior.Tree[C]]

// SetEntry points the tree's Root at Entry.
type SetEntry[C any] struct {
	Entry    behavior.Handle[C]
	previous behavior.Handle[C]
}

func NewSetEntry[C any](entry behavior.Handle[C]) *SetEntry[C] {
	return &SetEntry[C]{Entry: entry}
}

func (c *SetEntry[C]) Execute(t *behavior.Tree[C]) {
	c.previous = t.Entry()
	t.SetEntryNode(c.Entry)
}

func (c *SetEntry[C]) Revert(t *behavior.Tree[C]) {
	t.SetEntryNode(c.previous)
}

func (c *SetEntry[C]) Finalize(*behavior.Tree[C]) {}

func (c *SetEntry[C]) String() string {
	return fmt.Sprintf("SetEntry(%s)", c.Entry)
}

// SetChildren replaces the child list of a composite.
type SetChildren[C any] struct {
	Composite behavior.Handle[C]
	Children  []behavior.Handle[C]
	previous  []behavior.Handle[C]
}

func NewSetChildren[C any](composite behavior.Handle[C], children ...behavior.Handle[C]) *SetChildren[C] {
	return &SetChildren[C]{Composite: composite, Children: children}
}

func (c *SetChildren[C]) Execute(t *behavior.Tree[C]) {
	comp := mustComposite(t, c.Composite)
	c.previous = slices.Clone(comp.Children)
	comp.SetChildren(slices.Clone(c.Children)...)
}

func (c *SetChildren[C]) Revert(t *behavior.Tree[C]) {
	mustComposite(t, c.Composite).SetChildren(c.previous...)
}

func (c *SetChildren[C]) Finalize(*behavior.Tree[C]) {}

func (c *SetChildren[C]) String() string {
	return fmt.Sprintf("SetChildren(%s, %d children)", c.Composite, len(c.Children))
}

// AddChild appends Child to a composite.
type AddChild[C any] struct {
	Composite behavior.Handle[C]
	Child     behavior.Handle[C]
}

func NewAddChild[C any](composite, child behavior.Handle[C]) *AddChild[C] {
	return &AddChild[C]{Composite: composite, Child: child}
}

func (c *AddChild[C]) Execute(t *behavior.Tree[C]) {
	mustComposite(t, c.Composite).AddChild(c.Child)
}

func (c *AddChild[C]) Revert(t *behavior.Tree[C]) {
	comp := mustComposite(t, c.Composite)
	comp.Children = comp.Children[:len(comp.Children)-1]
}

func (c *AddChild[C]) Finalize(*behavior.Tree[C]) {}

func (c *AddChild[C]) String() string {
	return fmt.Sprintf("AddChild(%s <- %s)", c.Composite, c.Child)
}

// Composite resolves h to a composite node, for validating edits up front.
func Composite[C any](t *behavior.Tree[C], h behavior.Handle[C]) (*behavior.Composite[C], error) {
	n, ok := t.Node(h)
	if !ok {
		return nil, errors.Wrapf(ErrNotComposite, "%s does not resolve", h)
	}
	comp, ok := n.(*behavior.Composite[C])
	if !ok {
		return nil, errors.Wrapf(ErrNotComposite, "%s holds a %s node", h, n.Kind())
	}
	return comp, nil
}

// Commands only run against handles validated with Composite; a failure here
// means the tree changed underneath the history.
func mustComposite[C any](t *behavior.Tree[C], h behavior.Handle[C]) *behavior.Composite[C] {
	comp, err := Composite(t, h)
	if err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "editor: stale command target"))
	}
	return comp
}

var (
	_ command.Command[*behavior.Tree[struct{}]] = (*SetEntry[struct{}])(nil)
	_ command.Command[*behavior.Tree[struct{}]] = (*SetChildren[struct{}])(nil)
	_ command.Command[*behavior.Tree[struct{}]] = (*AddChild[struct{}])(nil)
)

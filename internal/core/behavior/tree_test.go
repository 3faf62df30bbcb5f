package behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/behavior/pkg/arena"
	"github.com/zeusync/behavior/pkg/visitor"
)

type counters struct {
	ticks int
}

// fixed returns the same status every tick and counts its invocations.
type fixed struct {
	Result Status
	Calls  int
}

func (f *fixed) Kind() string { return "fixed" }

func (f *fixed) Tick(ctx *counters) Status {
	f.Calls++
	ctx.ticks++
	return f.Result
}

func (f *fixed) Visit(name string, v *visitor.Visitor) error {
	return v.Region(name, func() error {
		result := int(f.Result)
		if err := v.Int("Result", &result); err != nil {
			return err
		}
		f.Result = Status(result)
		return v.Int("Calls", &f.Calls)
	})
}

func fixedRegistry() *Registry[counters] {
	reg := NewRegistry[counters]()
	reg.Register("fixed", func() Behavior[counters] { return &fixed{} })
	return reg
}

// composite builds a tree whose entry is a composite over leaves with the given results.
func composite(typ CompositeType, results ...Status) (*Tree[counters], []*fixed) {
	tree := New(WithRegistry(fixedRegistry()))
	leaves := make([]*fixed, len(results))
	children := make([]Handle[counters], len(results))
	for i, r := range results {
		leaves[i] = &fixed{Result: r}
		children[i] = NewLeaf[counters](leaves[i]).Add(tree)
	}
	tree.SetEntryNode(NewComposite[counters](typ, children...).Add(tree))
	return tree, leaves
}

func TestEmptyTreeSucceeds(t *testing.T) {
	tree := New[counters]()
	assert.True(t, tree.Entry().IsNone())
	assert.Equal(t, 1, tree.Len())
	assert.Equal(t, StatusSuccess, tree.Tick(&counters{}))
}

func TestVacuousComposites(t *testing.T) {
	seq, _ := composite(Sequence)
	assert.Equal(t, StatusSuccess, seq.Tick(&counters{}))

	sel, _ := composite(Selector)
	assert.Equal(t, StatusFailure, sel.Tick(&counters{}))
}

func TestSequence(t *testing.T) {
	tests := []struct {
		name    string
		results []Status
		want    Status
		calls   []int
	}{
		{"all success", []Status{StatusSuccess, StatusSuccess, StatusSuccess}, StatusSuccess, []int{1, 1, 1}},
		{"running short-circuits", []Status{StatusSuccess, StatusRunning, StatusSuccess}, StatusRunning, []int{1, 1, 0}},
		{"failure short-circuits", []Status{StatusSuccess, StatusFailure, StatusSuccess}, StatusFailure, []int{1, 1, 0}},
		{"first fails", []Status{StatusFailure, StatusSuccess}, StatusFailure, []int{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, leaves := composite(Sequence, tt.results...)
			ctx := &counters{}
			assert.Equal(t, tt.want, tree.Tick(ctx))
			for i, leaf := range leaves {
				assert.Equal(t, tt.calls[i], leaf.Calls, "leaf %d", i)
			}
		})
	}
}

func TestSelector(t *testing.T) {
	tests := []struct {
		name    string
		results []Status
		want    Status
		calls   []int
	}{
		{"first running wins", []Status{StatusFailure, StatusRunning, StatusSuccess}, StatusRunning, []int{1, 1, 0}},
		{"first success wins", []Status{StatusFailure, StatusSuccess, StatusRunning}, StatusSuccess, []int{1, 1, 0}},
		{"all failure", []Status{StatusFailure, StatusFailure, StatusFailure}, StatusFailure, []int{1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, leaves := composite(Selector, tt.results...)
			assert.Equal(t, tt.want, tree.Tick(&counters{}))
			for i, leaf := range leaves {
				assert.Equal(t, tt.calls[i], leaf.Calls, "leaf %d", i)
			}
		})
	}
}

func TestNestedComposites(t *testing.T) {
	tree := New[counters]()
	failing := &fixed{Result: StatusFailure}
	fallback := &fixed{Result: StatusSuccess}
	after := &fixed{Result: StatusRunning}

	sel := NewSelector[counters](
		NewLeaf[counters](failing).Add(tree),
		NewLeaf[counters](fallback).Add(tree),
	).Add(tree)
	seq := NewSequence[counters](sel, NewLeaf[counters](after).Add(tree)).Add(tree)
	tree.SetEntryNode(seq)

	ctx := &counters{}
	assert.Equal(t, StatusRunning, tree.Tick(ctx))
	assert.Equal(t, 3, ctx.ticks)
	assert.Equal(t, StatusRunning, tree.Tick(ctx))
	assert.Equal(t, 2, after.Calls, "composites keep no progress between ticks")
}

func TestSharedChildHandle(t *testing.T) {
	tree := New[counters]()
	leaf := &fixed{Result: StatusSuccess}
	h := NewLeaf[counters](leaf).Add(tree)
	tree.SetEntryNode(NewSequence[counters](h, h).Add(tree))

	assert.Equal(t, StatusSuccess, tree.Tick(&counters{}))
	assert.Equal(t, 2, leaf.Calls)
}

func TestFuncBehavior(t *testing.T) {
	tree := New[counters]()
	leaf := NewFunc("count", func(ctx *counters) Status {
		ctx.ticks++
		if ctx.ticks < 3 {
			return StatusRunning
		}
		return StatusSuccess
	})
	tree.SetEntryNode(NewLeaf[counters](leaf).Add(tree))

	ctx := &counters{}
	assert.Equal(t, StatusRunning, tree.Tick(ctx))
	assert.Equal(t, StatusRunning, tree.Tick(ctx))
	assert.Equal(t, StatusSuccess, tree.Tick(ctx))
	assert.Equal(t, "func:count", leaf.Kind())
}

func TestNodeLookup(t *testing.T) {
	tree, leaves := composite(Sequence, StatusSuccess)
	entry := tree.Entry()

	n, ok := tree.Node(entry)
	require.True(t, ok)
	c, ok := n.(*Composite[counters])
	require.True(t, ok)
	require.Len(t, c.Children, 1)

	leaf, ok := tree.At(c.Children[0]).(*Leaf[counters])
	require.True(t, ok)
	assert.Same(t, leaves[0], leaf.Behavior)

	// edit in place between ticks
	c.Type = Selector
	leaves[0].Result = StatusFailure
	assert.Equal(t, StatusFailure, tree.Tick(&counters{}))

	_, ok = tree.Node(NoNode[counters]())
	assert.False(t, ok)

	root, ok := tree.Node(tree.RootHandle())
	require.True(t, ok)
	assert.Equal(t, KindRoot, root.Kind())
}

func TestReplaceNode(t *testing.T) {
	tree, _ := composite(Sequence, StatusSuccess)
	entry := tree.Entry()

	assert.True(t, tree.ReplaceNode(entry, NewSelector[counters]()))
	assert.Equal(t, StatusFailure, tree.Tick(&counters{}))
	assert.False(t, tree.ReplaceNode(entry, nil))
}

func TestStaleHandleIsAbsent(t *testing.T) {
	tree := New[counters]()
	h := NewLeaf[counters](&fixed{}).Add(tree)

	stale := arena.NewHandle[Node[counters]](h.Index(), h.Generation()+1)
	_, ok := tree.Node(stale)
	assert.False(t, ok)

	outOfRange := arena.NewHandle[Node[counters]](h.Index()+10, h.Generation())
	_, ok = tree.Node(outOfRange)
	assert.False(t, ok)
}

func TestInvariantViolationsPanic(t *testing.T) {
	t.Run("add root", func(t *testing.T) {
		tree := New[counters]()
		assert.Panics(t, func() { tree.AddNode(&Root[counters]{}) })
	})
	t.Run("add unknown", func(t *testing.T) {
		tree := New[counters]()
		assert.Panics(t, func() { tree.AddNode(&Unknown[counters]{}) })
	})
	t.Run("add nil", func(t *testing.T) {
		tree := New[counters]()
		assert.Panics(t, func() { tree.AddNode(nil) })
	})
	t.Run("root slot replaced", func(t *testing.T) {
		tree := New[counters]()
		require.True(t, tree.ReplaceNode(tree.RootHandle(), NewSequence[counters]()))
		assert.Panics(t, func() { tree.SetEntryNode(NoNode[counters]()) })
	})
	t.Run("unknown reached", func(t *testing.T) {
		tree := New[counters]()
		h := NewSequence[counters]().Add(tree)
		require.True(t, tree.ReplaceNode(h, &Unknown[counters]{}))
		tree.SetEntryNode(h)
		assert.Panics(t, func() { tree.Tick(&counters{}) })
	})
	t.Run("dangling child", func(t *testing.T) {
		tree := New[counters]()
		tree.SetEntryNode(arena.NewHandle[Node[counters]](42, 1))
		assert.Panics(t, func() { tree.Tick(&counters{}) })
	})
	t.Run("index absent", func(t *testing.T) {
		tree := New[counters]()
		assert.Panics(t, func() { tree.At(arena.NewHandle[Node[counters]](7, 1)) })
	})
}

func TestEqual(t *testing.T) {
	a, _ := composite(Sequence, StatusSuccess, StatusFailure)
	b, _ := composite(Sequence, StatusSuccess, StatusFailure)
	assert.True(t, a.Equal(b))

	c, _ := composite(Selector, StatusSuccess, StatusFailure)
	assert.False(t, a.Equal(c))

	d, leaves := composite(Sequence, StatusSuccess, StatusFailure)
	leaves[1].Calls = 5
	assert.False(t, a.Equal(d), "leaf state is part of equality")

	assert.True(t, (*Tree[counters])(nil).Equal(nil))
	assert.False(t, a.Equal(nil))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Success", StatusSuccess.String())
	assert.Equal(t, "Failure", StatusFailure.String())
	assert.Equal(t, "Running", StatusRunning.String())
	assert.Equal(t, "Invalid", Status(9).String())
}

package behavior

import (
	"github.com/zeusync/behavior/pkg/visitor"
)

// Behavior is the user logic held by a Leaf. Tick may mutate ctx freely but
// must not touch the tree. Progress that spans several ticks lives in the
// behavior value itself or in ctx.
//
// Kind names the concrete type so a Registry can build an empty value of it
// when a saved tree is loaded; Visit then fills that value in.
type Behavior[C any] interface {
	Tick(ctx *C) Status
	Kind() string
	visitor.Visitable
}

// Equaler lets a behavior define its own equality. Behaviors without it are
// compared with reflect.DeepEqual.
type Equaler[C any] interface {
	Equal(other Behavior[C]) bool
}

// Func adapts a plain function into a Behavior. Only Name is saved, so a
// loaded Func must be rebound through a registry factory.
type Func[C any] struct {
	Name string
	Fn   func(ctx *C) Status
}

func NewFunc[C any](name string, fn func(ctx *C) Status) *Func[C] {
	return &Func[C]{Name: name, Fn: fn}
}

func (f *Func[C]) Tick(ctx *C) Status { return f.Fn(ctx) }

func (f *Func[C]) Kind() string { return "func:" + f.Name }

func (f *Func[C]) Equal(other Behavior[C]) bool {
	o, ok := other.(*Func[C])
	return ok && o.Name == f.Name
}

func (f *Func[C]) Visit(name string, v *visitor.Visitor) error {
	return v.Region(name, func() error {
		return v.String("Name", &f.Name)
	})
}

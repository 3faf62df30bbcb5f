package arena

import (
	"fmt"

	"github.com/zeusync/behavior/pkg/visitor"
)

// Handle is a non-owning reference to a slot in an Arena[T]. The zero value is
// the null handle: generation 0 is never issued by an arena.
type Handle[T any] struct {
	index      uint32
	generation uint32
}

// None returns the null handle.
func None[T any]() Handle[T] { return Handle[T]{} }

// NewHandle builds a handle from raw parts. Tools use it to rebuild handles
// they persisted elsewhere; the arena still validates the generation on lookup.
func NewHandle[T any](index, generation uint32) Handle[T] {
	return Handle[T]{index: index, generation: generation}
}

func (h Handle[T]) Index() uint32      { return h.index }
func (h Handle[T]) Generation() uint32 { return h.generation }
func (h Handle[T]) IsNone() bool       { return h.generation == 0 }
func (h Handle[T]) IsSome() bool       { return h.generation != 0 }

func (h Handle[T]) String() string {
	if h.IsNone() {
		return "Handle(none)"
	}
	return fmt.Sprintf("Handle(%d:%d)", h.index, h.generation)
}

func (h *Handle[T]) Visit(name string, v *visitor.Visitor) error {
	return v.Region(name, func() error {
		if err := v.Uint32("Index", &h.index); err != nil {
			return err
		}
		return v.Uint32("Generation", &h.generation)
	})
}

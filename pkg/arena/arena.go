// Package arena stores values in a growable slot vector addressed by
// generation-checked handles. A handle keeps resolving to the same value until
// its slot is removed; after the slot is reused the old handle resolves to nothing.
package arena

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/zeusync/behavior/pkg/visitor"
)

// ErrMalformed reports a saved arena whose layout cannot be restored.
var ErrMalformed = errors.New("malformed arena layout")

type slot[T any] struct {
	generation uint32
	occupied   bool
	item       T
}

// Arena is not safe for concurrent use.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
}

func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores item and returns its handle, reusing a freed slot when one exists.
func (a *Arena[T]) Insert(item T) Handle[T] {
	if n := len(a.free); n > 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[index]
		s.generation++
		if s.generation == 0 {
			// wrapped; 0 is reserved for the null handle
			s.generation = 1
		}
		s.occupied = true
		s.item = item
		return Handle[T]{index: index, generation: s.generation}
	}

	a.slots = append(a.slots, slot[T]{generation: 1, occupied: true, item: item})
	return Handle[T]{index: uint32(len(a.slots) - 1), generation: 1}
}

func (a *Arena[T]) lookup(h Handle[T]) *slot[T] {
	if h.IsNone() || int(h.index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[h.index]
	if !s.occupied || s.generation != h.generation {
		return nil
	}
	return s
}

// Get returns the item for h, or false when h is null, out of range or stale.
func (a *Arena[T]) Get(h Handle[T]) (T, bool) {
	if s := a.lookup(h); s != nil {
		return s.item, true
	}
	var zero T
	return zero, false
}

// Ptr returns a pointer to the stored item for in-place mutation, or nil.
// The pointer is invalidated by the next Insert.
func (a *Arena[T]) Ptr(h Handle[T]) *T {
	if s := a.lookup(h); s != nil {
		return &s.item
	}
	return nil
}

// Set replaces the item behind a live handle.
func (a *Arena[T]) Set(h Handle[T], item T) bool {
	s := a.lookup(h)
	if s == nil {
		return false
	}
	s.item = item
	return true
}

func (a *Arena[T]) Contains(h Handle[T]) bool { return a.lookup(h) != nil }

// Remove frees the slot behind h and returns its item.
func (a *Arena[T]) Remove(h Handle[T]) (T, bool) {
	var zero T
	s := a.lookup(h)
	if s == nil {
		return zero, false
	}
	item := s.item
	s.item = zero
	s.occupied = false
	a.free = append(a.free, h.index)
	return item, true
}

// Len is the number of live items.
func (a *Arena[T]) Len() int { return len(a.slots) - len(a.free) }

// Cap is the number of slots, live or free.
func (a *Arena[T]) Cap() int { return len(a.slots) }

// Range calls fn for each live item in slot order until fn returns false.
func (a *Arena[T]) Range(fn func(h Handle[T], item T) bool) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.occupied {
			continue
		}
		if !fn(Handle[T]{index: uint32(i), generation: s.generation}, s.item) {
			return
		}
	}
}

// Equal compares slot layout, generations and free lists, and items with eq.
func Equal[T any](a, b *Arena[T], eq func(x, y T) bool) bool {
	if len(a.slots) != len(b.slots) || len(a.free) != len(b.free) {
		return false
	}
	for i := range a.free {
		if a.free[i] != b.free[i] {
			return false
		}
	}
	for i := range a.slots {
		x, y := &a.slots[i], &b.slots[i]
		if x.generation != y.generation || x.occupied != y.occupied {
			return false
		}
		if x.occupied && !eq(x.item, y.item) {
			return false
		}
	}
	return true
}

// Visit saves or restores the full slot layout. visitItem is called for each
// occupied slot; in read mode it receives a zero item to fill in.
func (a *Arena[T]) Visit(name string, v *visitor.Visitor, visitItem func(name string, item *T, v *visitor.Visitor) error) error {
	return v.Region(name, func() error {
		count := len(a.slots)
		if err := v.Int("Count", &count); err != nil {
			return err
		}
		freeCount := len(a.free)
		if err := v.Int("FreeCount", &freeCount); err != nil {
			return err
		}
		if v.IsReading() {
			if count < 0 || freeCount < 0 || freeCount > count {
				return errors.Wrapf(ErrMalformed, "arena %q: count=%d free=%d", name, count, freeCount)
			}
			// slots are allocated up front, so count must match the saved slots
			if (count > 0 && !v.HasRegion(fmt.Sprintf("Slot%d", count-1))) || v.HasRegion(fmt.Sprintf("Slot%d", count)) {
				return errors.Wrapf(ErrMalformed, "arena %q: count %d does not match saved slots", name, count)
			}
			a.slots = make([]slot[T], count)
			a.free = make([]uint32, freeCount)
		}

		for i := range a.slots {
			s := &a.slots[i]
			err := v.Region(fmt.Sprintf("Slot%d", i), func() error {
				if err := v.Uint32("Generation", &s.generation); err != nil {
					return err
				}
				if err := v.Bool("Occupied", &s.occupied); err != nil {
					return err
				}
				if !s.occupied {
					return nil
				}
				if s.generation == 0 {
					return errors.Wrapf(ErrMalformed, "arena %q: occupied slot %d has generation 0", name, i)
				}
				return visitItem("Item", &s.item, v)
			})
			if err != nil {
				return err
			}
		}

		return v.Region("Free", func() error {
			for i := range a.free {
				if err := v.Uint32(fmt.Sprintf("Index%d", i), &a.free[i]); err != nil {
					return err
				}
			}
			if v.IsReading() {
				return a.checkFree(name)
			}
			return nil
		})
	})
}

// checkFree requires the loaded free list to name every unoccupied slot exactly once.
func (a *Arena[T]) checkFree(name string) error {
	seen := make(map[uint32]struct{}, len(a.free))
	for _, index := range a.free {
		if int(index) >= len(a.slots) || a.slots[index].occupied {
			return errors.Wrapf(ErrMalformed, "arena %q: free index %d is not a free slot", name, index)
		}
		if _, dup := seen[index]; dup {
			return errors.Wrapf(ErrMalformed, "arena %q: free index %d listed twice", name, index)
		}
		seen[index] = struct{}{}
	}
	for i := range a.slots {
		if _, listed := seen[uint32(i)]; !a.slots[i].occupied && !listed {
			return errors.Wrapf(ErrMalformed, "arena %q: free slot %d missing from the free list", name, i)
		}
	}
	return nil
}

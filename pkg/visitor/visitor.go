// Package visitor walks a data model as a tree of named regions holding typed
// fields. The same Visit method serves both directions: in write mode the
// visitor records the values it is handed, in read mode it writes stored
// values back through the same pointers.
package visitor

import (
	"github.com/cockroachdb/errors"
)

var (
	ErrRegionNotFound = errors.New("region not found")
	ErrFieldNotFound  = errors.New("field not found")
	ErrTypeMismatch   = errors.New("field type mismatch")
	ErrDuplicate      = errors.New("duplicate name in region")
	ErrUnbalanced     = errors.New("leave region without matching enter")
)

const rootRegionName = "__ROOT__"

// Mode tells Visit implementations which direction data flows.
type Mode uint8

const (
	ModeWrite Mode = iota
	ModeRead
)

func (m Mode) String() string {
	switch m {
	case ModeWrite:
		return "Write"
	case ModeRead:
		return "Read"
	default:
		return "Invalid"
	}
}

// Visitable is implemented by everything that can be saved and restored by a Visitor.
type Visitable interface {
	Visit(name string, v *Visitor) error
}

// Visitor holds the region tree and the cursor into it.
type Visitor struct {
	mode  Mode
	root  *Region
	stack []*Region
}

// New returns an empty visitor in write mode.
func New() *Visitor {
	root := &Region{Name: rootRegionName}
	return &Visitor{mode: ModeWrite, root: root, stack: []*Region{root}}
}

// NewReader returns a visitor that reads from an existing region tree.
func NewReader(root *Region) *Visitor {
	return &Visitor{mode: ModeRead, root: root, stack: []*Region{root}}
}

// Reader returns a read-mode visitor over the data recorded so far.
func (v *Visitor) Reader() *Visitor {
	return NewReader(v.root)
}

func (v *Visitor) Mode() Mode { return v.mode }

func (v *Visitor) IsReading() bool { return v.mode == ModeRead }

func (v *Visitor) Root() *Region { return v.root }

func (v *Visitor) current() *Region { return v.stack[len(v.stack)-1] }

// EnterRegion moves the cursor into the named child region, creating it in write mode.
func (v *Visitor) EnterRegion(name string) error {
	cur := v.current()
	existing := cur.region(name)

	if v.mode == ModeRead {
		if existing == nil {
			return errors.Wrapf(ErrRegionNotFound, "%q in %q", name, cur.Name)
		}
		v.stack = append(v.stack, existing)
		return nil
	}

	if existing != nil {
		return errors.Wrapf(ErrDuplicate, "region %q in %q", name, cur.Name)
	}
	r := &Region{Name: name}
	cur.Regions = append(cur.Regions, r)
	v.stack = append(v.stack, r)
	return nil
}

// LeaveRegion moves the cursor back to the parent region.
func (v *Visitor) LeaveRegion() error {
	if len(v.stack) <= 1 {
		return ErrUnbalanced
	}
	v.stack = v.stack[:len(v.stack)-1]
	return nil
}

// Region runs fn inside the named region.
func (v *Visitor) Region(name string, fn func() error) error {
	if err := v.EnterRegion(name); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	return v.LeaveRegion()
}

// HasRegion reports whether the current region has a child with the given name.
func (v *Visitor) HasRegion(name string) bool {
	return v.current().region(name) != nil
}

func (v *Visitor) field(name string, kind Kind) (*Field, error) {
	cur := v.current()
	existing := cur.field(name)

	if v.mode == ModeRead {
		if existing == nil {
			return nil, errors.Wrapf(ErrFieldNotFound, "%q in %q", name, cur.Name)
		}
		if existing.Kind != kind {
			return nil, errors.Wrapf(ErrTypeMismatch, "%q in %q: stored %s, want %s", name, cur.Name, existing.Kind, kind)
		}
		return existing, nil
	}

	if existing != nil {
		return nil, errors.Wrapf(ErrDuplicate, "field %q in %q", name, cur.Name)
	}
	cur.Fields = append(cur.Fields, Field{Name: name, Kind: kind})
	return &cur.Fields[len(cur.Fields)-1], nil
}

func (v *Visitor) Bool(name string, val *bool) error {
	f, err := v.field(name, KindBool)
	if err != nil {
		return err
	}
	if v.IsReading() {
		*val = f.Bool
	} else {
		f.Bool = *val
	}
	return nil
}

func (v *Visitor) Int(name string, val *int) error {
	n := int64(*val)
	if err := v.Int64(name, &n); err != nil {
		return err
	}
	*val = int(n)
	return nil
}

func (v *Visitor) Int64(name string, val *int64) error {
	f, err := v.field(name, KindInt)
	if err != nil {
		return err
	}
	if v.IsReading() {
		*val = f.Int
	} else {
		f.Int = *val
	}
	return nil
}

func (v *Visitor) Uint32(name string, val *uint32) error {
	n := uint64(*val)
	if err := v.Uint64(name, &n); err != nil {
		return err
	}
	if n > uint64(^uint32(0)) {
		return errors.Wrapf(ErrTypeMismatch, "%q overflows uint32", name)
	}
	*val = uint32(n)
	return nil
}

func (v *Visitor) Uint64(name string, val *uint64) error {
	f, err := v.field(name, KindUint)
	if err != nil {
		return err
	}
	if v.IsReading() {
		*val = f.Uint
	} else {
		f.Uint = *val
	}
	return nil
}

// Float32 is stored widened to float64, which round-trips exactly.
func (v *Visitor) Float32(name string, val *float32) error {
	n := float64(*val)
	if err := v.Float64(name, &n); err != nil {
		return err
	}
	*val = float32(n)
	return nil
}

func (v *Visitor) Float64(name string, val *float64) error {
	f, err := v.field(name, KindFloat)
	if err != nil {
		return err
	}
	if v.IsReading() {
		*val = f.Float
	} else {
		f.Float = *val
	}
	return nil
}

func (v *Visitor) String(name string, val *string) error {
	f, err := v.field(name, KindString)
	if err != nil {
		return err
	}
	if v.IsReading() {
		*val = f.Str
	} else {
		f.Str = *val
	}
	return nil
}

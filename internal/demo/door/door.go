// Package door is a small agent that walks up to a door, opens it, steps
// through and closes it behind itself. It exercises multi-tick leaves.
package door

import (
	"github.com/zeusync/behavior/internal/core/behavior"
	"github.com/zeusync/behavior/pkg/visitor"
)

const (
	KindWalk        = "walk"
	KindOpenDoor    = "open_door"
	KindStepThrough = "step_through"
	KindCloseDoor   = "close_door"

	DefaultStep = 0.1
	// DefaultClearance is how far past the door the agent walks before closing it.
	DefaultClearance = 1.0
)

// Environment is the context every door behavior reads and writes.
type Environment struct {
	// > 0: door is ahead, < 0: door is behind.
	DistanceToDoor float32
	DoorOpened     bool
	Done           bool
}

func (e *Environment) Visit(name string, v *visitor.Visitor) error {
	return v.Region(name, func() error {
		if err := v.Float32("DistanceToDoor", &e.DistanceToDoor); err != nil {
			return err
		}
		if err := v.Bool("DoorOpened", &e.DoorOpened); err != nil {
			return err
		}
		return v.Bool("Done", &e.Done)
	})
}

// Walk approaches the door, running until it is reached.
type Walk struct {
	Step  float32 `mapstructure:"step"`
	Steps int     `mapstructure:"-"`
}

func NewWalk() *Walk { return &Walk{Step: DefaultStep} }

func (w *Walk) Kind() string { return KindWalk }

func (w *Walk) Tick(env *Environment) behavior.Status {
	if env.DistanceToDoor <= 0 {
		return behavior.StatusSuccess
	}
	env.DistanceToDoor -= w.Step
	w.Steps++
	return behavior.StatusRunning
}

func (w *Walk) Visit(name string, v *visitor.Visitor) error {
	return v.Region(name, func() error {
		if err := v.Float32("Step", &w.Step); err != nil {
			return err
		}
		return v.Int("Steps", &w.Steps)
	})
}

// OpenDoor opens the door if it is closed and always succeeds.
type OpenDoor struct{}

func (*OpenDoor) Kind() string { return KindOpenDoor }

func (*OpenDoor) Tick(env *Environment) behavior.Status {
	if !env.DoorOpened {
		env.DoorOpened = true
	}
	return behavior.StatusSuccess
}

func (*OpenDoor) Visit(name string, v *visitor.Visitor) error {
	return v.Region(name, func() error { return nil })
}

// StepThrough keeps walking until the agent is Clearance past the door.
type StepThrough struct {
	Step      float32 `mapstructure:"step"`
	Clearance float32 `mapstructure:"clearance"`
	Steps     int     `mapstructure:"-"`
}

func NewStepThrough() *StepThrough {
	return &StepThrough{Step: DefaultStep, Clearance: DefaultClearance}
}

func (s *StepThrough) Kind() string { return KindStepThrough }

func (s *StepThrough) Tick(env *Environment) behavior.Status {
	if env.DistanceToDoor < -s.Clearance {
		return behavior.StatusSuccess
	}
	env.DistanceToDoor -= s.Step
	s.Steps++
	return behavior.StatusRunning
}

func (s *StepThrough) Visit(name string, v *visitor.Visitor) error {
	return v.Region(name, func() error {
		if err := v.Float32("Step", &s.Step); err != nil {
			return err
		}
		if err := v.Float32("Clearance", &s.Clearance); err != nil {
			return err
		}
		return v.Int("Steps", &s.Steps)
	})
}

// CloseDoor closes an open door and marks the task done.
type CloseDoor struct{}

func (*CloseDoor) Kind() string { return KindCloseDoor }

func (*CloseDoor) Tick(env *Environment) behavior.Status {
	if env.DoorOpened {
		env.DoorOpened = false
		env.Done = true
	}
	return behavior.StatusSuccess
}

func (*CloseDoor) Visit(name string, v *visitor.Visitor) error {
	return v.Region(name, func() error { return nil })
}

// Register adds the door behaviors to reg.
func Register(reg *behavior.Registry[Environment]) {
	reg.Register(KindWalk, func() behavior.Behavior[Environment] { return NewWalk() })
	reg.Register(KindOpenDoor, func() behavior.Behavior[Environment] { return &OpenDoor{} })
	reg.Register(KindStepThrough, func() behavior.Behavior[Environment] { return NewStepThrough() })
	reg.Register(KindCloseDoor, func() behavior.Behavior[Environment] { return &CloseDoor{} })
}

// NewRegistry returns a registry holding only the door behaviors.
func NewRegistry() *behavior.Registry[Environment] {
	reg := behavior.NewRegistry[Environment]()
	Register(reg)
	return reg
}

// NewTree builds Sequence(Walk, OpenDoor, StepThrough, CloseDoor).
func NewTree(opts ...behavior.Option[Environment]) *behavior.Tree[Environment] {
	opts = append([]behavior.Option[Environment]{behavior.WithRegistry(NewRegistry())}, opts...)
	tree := behavior.New(opts...)

	entry := behavior.NewSequence[Environment](
		behavior.NewLeaf[Environment](NewWalk()).Add(tree),
		behavior.NewLeaf[Environment](&OpenDoor{}).Add(tree),
		behavior.NewLeaf[Environment](NewStepThrough()).Add(tree),
		behavior.NewLeaf[Environment](&CloseDoor{}).Add(tree),
	).Add(tree)

	tree.SetEntryNode(entry)
	return tree
}

// Done is the driver's stop condition.
func Done(env *Environment) bool { return env.Done }

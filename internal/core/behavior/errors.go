package behavior

import (
	"github.com/cockroachdb/errors"
)

// Absent handles are reported through (value, false) lookups, not errors.
// Malformed trees built through the API panic with an assertion failure.
var (
	ErrNoRegistry       = errors.New("no behavior registry configured")
	ErrUnknownBehavior  = errors.New("unknown behavior kind")
	ErrUnknownNodeKind  = errors.New("unknown node kind")
	ErrUnknownNodeType  = errors.New("unsupported node type")
	ErrUnknownNode      = errors.New("unknown node in config")
	ErrCycle            = errors.New("cycle in tree config")
	ErrMalformedTree    = errors.New("malformed behavior tree")
	ErrBehaviorMismatch = errors.New("factory returned a behavior of another kind")
)

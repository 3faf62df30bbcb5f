// Package command keeps a linear undo/redo history of reversible commands.
package command

import (
	"fmt"

	"github.com/zeusync/behavior/internal/core/observability/log"
)

// Command is a reversible change applied to a context of type Ctx.
type Command[Ctx any] interface {
	Execute(ctx Ctx)
	Revert(ctx Ctx)
	// Finalize is called when the command is dropped from the redo tail and
	// will never be executed again.
	Finalize(ctx Ctx)
}

// Stack holds applied commands in commands[:top] and undone, redoable
// commands in commands[top:]. Doing a new command discards the redo tail.
type Stack[Ctx any] struct {
	commands []Command[Ctx]
	top      int
	logger   log.Log
}

func NewStack[Ctx any](logger log.Log) *Stack[Ctx] {
	if logger == nil {
		logger = log.Nop()
	}
	return &Stack[Ctx]{logger: logger}
}

// Do finalizes and drops every undone command, then executes cmd.
func (s *Stack[Ctx]) Do(ctx Ctx, cmd Command[Ctx]) {
	for _, dropped := range s.commands[s.top:] {
		s.logger.Debug("finalizing command", log.String("command", describe(dropped)))
		dropped.Finalize(ctx)
	}
	clear(s.commands[s.top:])
	s.commands = s.commands[:s.top]

	s.logger.Debug("executing command", log.String("command", describe(cmd)))
	cmd.Execute(ctx)
	s.commands = append(s.commands, cmd)
	s.top++
}

// Undo reverts the most recently applied command. It reports false when
// nothing is left to undo.
func (s *Stack[Ctx]) Undo(ctx Ctx) bool {
	if s.top == 0 {
		return false
	}
	s.top--
	cmd := s.commands[s.top]
	s.logger.Debug("undo command", log.String("command", describe(cmd)))
	cmd.Revert(ctx)
	return true
}

// Redo re-executes the most recently undone command. It reports false when
// nothing is left to redo.
func (s *Stack[Ctx]) Redo(ctx Ctx) bool {
	if s.top == len(s.commands) {
		return false
	}
	cmd := s.commands[s.top]
	s.top++
	s.logger.Debug("redo command", log.String("command", describe(cmd)))
	cmd.Execute(ctx)
	return true
}

func (s *Stack[Ctx]) CanUndo() bool { return s.top > 0 }
func (s *Stack[Ctx]) CanRedo() bool { return s.top < len(s.commands) }

// Len is the number of commands kept, applied or undone.
func (s *Stack[Ctx]) Len() int { return len(s.commands) }

// Applied is the number of commands currently in effect.
func (s *Stack[Ctx]) Applied() int { return s.top }

// Clear finalizes every kept command and empties the history.
func (s *Stack[Ctx]) Clear(ctx Ctx) {
	for _, cmd := range s.commands {
		cmd.Finalize(ctx)
	}
	s.commands = nil
	s.top = 0
}

func describe(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", v)
}

package commands

import (
	"context"
	"fmt"
)

type Result struct {
	Message string
}

// Handlers binds each command to the code that runs it. A nil handler
// makes Execute fail with ErrCodeHandlerMissing.
type Handlers struct {
	Segment   func(context.Context, SegmentArgs) (Result, error)
	Todo      func(context.Context, TodoArgs) (Result, error)
	Milestone func(context.Context, MilestoneArgs) (Result, error)
	Habit     func(context.Context, HabitArgs) (Result, error)
	Mark      func(context.Context, MarkArgs) (Result, error)
	Remove    func(context.Context, RemoveArgs) (Result, error)
	Eval      func(context.Context, EvalArgs) (Result, error)
	Carry     func(context.Context, CarryArgs) (Result, error)
	Note      func(context.Context, NoteArgs) (Result, error)
	Memo      func(context.Context, MemoArgs) (Result, error)
	Purpose   func(context.Context, PurposeArgs) (Result, error)
	Bucket    func(context.Context, BucketArgs) (Result, error)
}

func missing(typ Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", typ)}
}

func Execute(ctx context.Context, cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeSegment:
		if handlers.Segment == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Segment(ctx, *cmd.Segment)
	case TypeAdd, TypeWeekly:
		if handlers.Todo == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Todo(ctx, *cmd.Todo)
	case TypeMilestone:
		if handlers.Milestone == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Milestone(ctx, *cmd.Milestone)
	case TypeHabit:
		if handlers.Habit == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Habit(ctx, *cmd.Habit)
	case TypeDone, TypeUndo:
		if handlers.Mark == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Mark(ctx, *cmd.Mark)
	case TypeRemove:
		if handlers.Remove == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Remove(ctx, *cmd.Remove)
	case TypeEval:
		if handlers.Eval == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Eval(ctx, *cmd.Eval)
	case TypeCarry:
		if handlers.Carry == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Carry(ctx, *cmd.Carry)
	case TypeNote:
		if handlers.Note == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Note(ctx, *cmd.Note)
	case TypeMemo:
		if handlers.Memo == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Memo(ctx, *cmd.Memo)
	case TypePurpose:
		if handlers.Purpose == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Purpose(ctx, *cmd.Purpose)
	case TypeBucket:
		if handlers.Bucket == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Bucket(ctx, *cmd.Bucket)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

// Run parses and executes one line.
func Run(ctx context.Context, input string, handlers Handlers) (Result, error) {
	cmd, err := Parse(input)
	if err != nil {
		return Result{}, err
	}
	return Execute(ctx, cmd, handlers)
}

package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/goaltrack/internal/model"
)

type Type string

const (
	TypeSegment   Type = "segment"
	TypeAdd       Type = "add"
	TypeWeekly    Type = "weekly"
	TypeMilestone Type = "milestone"
	TypeHabit     Type = "habit"
	TypeDone      Type = "done"
	TypeUndo      Type = "undo"
	TypeRemove    Type = "rm"
	TypeEval      Type = "eval"
	TypeCarry     Type = "carry"
	TypeNote      Type = "note"
	TypeMemo      Type = "memo"
	TypePurpose   Type = "purpose"
	TypeBucket    Type = "bucket"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

type SegmentArgs struct {
	Name string
}

// TodoArgs creates a todo dated today; Kind is daily for add and weekly
// for weekly.
type TodoArgs struct {
	SegmentID int64
	Title     string
	Kind      model.TodoKind
}

type MilestoneArgs struct {
	SegmentID  int64
	TargetDate model.Date
	Title      string
}

type HabitArgs struct {
	SegmentID int64
	Title     string
}

type MarkArgs struct {
	TodoID   int64
	Achieved bool
}

type RemoveArgs struct {
	TodoID int64
}

// EvalArgs evaluates a segment; an empty Date means today.
type EvalArgs struct {
	SegmentID int64
	Date      model.Date
}

// CarryArgs lists carryover candidates, or carries all of them when All.
type CarryArgs struct {
	All bool
}

type NoteArgs struct {
	SegmentID int64
	Text      string
}

type MemoArgs struct {
	DiscussionID int64
	Text         string
}

// PurposeArgs replaces the title of the overall purpose, keeping its
// description and goal. An empty Title shows the current purpose.
type PurposeArgs struct {
	Title string
}

type BucketArgs struct {
	Title string
}

type Command struct {
	Type      Type
	Raw       string
	Segment   *SegmentArgs
	Todo      *TodoArgs
	Milestone *MilestoneArgs
	Habit     *HabitArgs
	Mark      *MarkArgs
	Remove    *RemoveArgs
	Eval      *EvalArgs
	Carry     *CarryArgs
	Note      *NoteArgs
	Memo      *MemoArgs
	Purpose   *PurposeArgs
	Bucket    *BucketArgs
}

// Names lists the command words in help order.
func Names() []Type {
	return []Type{
		TypeSegment, TypeAdd, TypeWeekly, TypeMilestone, TypeHabit,
		TypeDone, TypeUndo, TypeRemove, TypeEval, TypeCarry, TypeNote,
		TypeMemo, TypePurpose, TypeBucket,
	}
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeSegment:
		return parseSegment(input, args)
	case TypeAdd:
		return parseTodo(input, TypeAdd, model.TodoKindDaily, args)
	case TypeWeekly:
		return parseTodo(input, TypeWeekly, model.TodoKindWeekly, args)
	case TypeMilestone:
		return parseMilestone(input, args)
	case TypeHabit:
		return parseHabit(input, args)
	case TypeDone, TypeUndo:
		return parseMark(input, Type(head), args)
	case TypeRemove:
		return parseRemove(input, args)
	case TypeEval:
		return parseEval(input, args)
	case TypeCarry:
		return parseCarry(input, args)
	case TypeNote:
		return parseNote(input, args)
	case TypeMemo:
		return parseMemo(input, args)
	case TypePurpose:
		return Command{Type: TypePurpose, Raw: input, Purpose: &PurposeArgs{Title: strings.Join(args, " ")}}, nil
	case TypeBucket:
		return parseBucket(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseID(what, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(raw, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid("%s must be a positive number, got %q", what, raw)
	}
	return id, nil
}

func parseSegment(raw string, args []string) (Command, error) {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return Command{}, invalid("segment requires a name")
	}
	return Command{Type: TypeSegment, Raw: raw, Segment: &SegmentArgs{Name: name}}, nil
}

func parseTodo(raw string, typ Type, kind model.TodoKind, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("%s requires a segment id and a title", typ)
	}
	segID, err := parseID("segment id", args[0])
	if err != nil {
		return Command{}, err
	}
	title := strings.TrimSpace(strings.Join(args[1:], " "))
	return Command{Type: typ, Raw: raw, Todo: &TodoArgs{SegmentID: segID, Title: title, Kind: kind}}, nil
}

func parseMilestone(raw string, args []string) (Command, error) {
	if len(args) < 3 {
		return Command{}, invalid("milestone requires a segment id, a YYYY-MM-DD date and a title")
	}
	segID, err := parseID("segment id", args[0])
	if err != nil {
		return Command{}, err
	}
	date, err := model.ParseDate(args[1])
	if err != nil {
		return Command{}, invalid("milestone date %q is not YYYY-MM-DD", args[1])
	}
	title := strings.TrimSpace(strings.Join(args[2:], " "))
	return Command{Type: TypeMilestone, Raw: raw, Milestone: &MilestoneArgs{SegmentID: segID, TargetDate: date, Title: title}}, nil
}

func parseHabit(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("habit requires a segment id and a title")
	}
	segID, err := parseID("segment id", args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeHabit, Raw: raw, Habit: &HabitArgs{SegmentID: segID, Title: strings.Join(args[1:], " ")}}, nil
}

func parseMark(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("%s requires exactly one todo id", typ)
	}
	id, err := parseID("todo id", args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: typ, Raw: raw, Mark: &MarkArgs{TodoID: id, Achieved: typ == TypeDone}}, nil
}

func parseRemove(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("rm requires exactly one todo id")
	}
	id, err := parseID("todo id", args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeRemove, Raw: raw, Remove: &RemoveArgs{TodoID: id}}, nil
}

func parseEval(raw string, args []string) (Command, error) {
	if len(args) == 0 || len(args) > 2 {
		return Command{}, invalid("eval requires a segment id and an optional YYYY-MM-DD date")
	}
	segID, err := parseID("segment id", args[0])
	if err != nil {
		return Command{}, err
	}
	out := &EvalArgs{SegmentID: segID}
	if len(args) == 2 {
		date, err := model.ParseDate(args[1])
		if err != nil {
			return Command{}, invalid("eval date %q is not YYYY-MM-DD", args[1])
		}
		out.Date = date
	}
	return Command{Type: TypeEval, Raw: raw, Eval: out}, nil
}

func parseCarry(raw string, args []string) (Command, error) {
	switch {
	case len(args) == 0:
		return Command{Type: TypeCarry, Raw: raw, Carry: &CarryArgs{}}, nil
	case len(args) == 1 && strings.EqualFold(args[0], "all"):
		return Command{Type: TypeCarry, Raw: raw, Carry: &CarryArgs{All: true}}, nil
	default:
		return Command{}, invalid("carry takes no argument or \"all\"")
	}
}

func parseNote(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("note requires a segment id and text")
	}
	segID, err := parseID("segment id", args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeNote, Raw: raw, Note: &NoteArgs{SegmentID: segID, Text: strings.Join(args[1:], " ")}}, nil
}

func parseMemo(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("memo requires a discussion id and text")
	}
	id, err := parseID("discussion id", args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeMemo, Raw: raw, Memo: &MemoArgs{DiscussionID: id, Text: strings.Join(args[1:], " ")}}, nil
}

func parseBucket(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("bucket requires a title")
	}
	return Command{Type: TypeBucket, Raw: raw, Bucket: &BucketArgs{Title: strings.Join(args, " ")}}, nil
}

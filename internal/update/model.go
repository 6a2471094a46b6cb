package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/goaltrack/internal/carryover"
	"github.com/sandeepkv93/goaltrack/internal/commands"
	"github.com/sandeepkv93/goaltrack/internal/model"
	"github.com/sandeepkv93/goaltrack/internal/scheduler"
)

type View string

const (
	ViewSegments   View = "Segments"
	ViewToday      View = "Today"
	ViewCarryover  View = "Carryover"
	ViewEvaluation View = "Evaluation"
)

// Backend is everything the UI reads and writes. Calls are expected to
// bound their own duration.
type Backend interface {
	Handlers(today model.Date) commands.Handlers
	ListSegments(ctx context.Context) ([]model.Segment, error)
	SegmentPoints(ctx context.Context, segmentID int64) (int, error)
	ListTodos(ctx context.Context, segmentID int64, date model.Date) ([]model.Todo, error)
	ToggleTodo(ctx context.Context, id int64) (model.Todo, error)
	DeleteTodo(ctx context.Context, id int64) error
	GenerateHabitTodos(ctx context.Context, date model.Date) (int, error)
	FindCarryover(ctx context.Context, today model.Date) ([]carryover.Candidate, error)
	RecordCarryover(ctx context.Context, refs []carryover.CandidateRef, today model.Date) (carryover.Result, error)
	Report(ctx context.Context, segmentID int64, date model.Date) (string, error)
}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Segments   string
	Today      string
	Carryover  string
	Evaluation string
	Refresh    string
	Help       string
	Quit       string
}

type Model struct {
	CurrentView   View
	Today         model.Date
	Segments      SegmentsState
	Todos         TodayState
	Carryover     CarryoverState
	Evaluation    EvaluationState
	Scheduler     *scheduler.Engine
	Palette       CommandPaletteState
	HelpVisible   bool
	Notifications []Notification
	Status        StatusBar
	Keys          GlobalKeyMap
	Quitting      bool
	LastError     error

	backend Backend
	opts    Options

	commandInput   textinput.Model
	helpModel      help.Model
	reportViewport viewport.Model
}

type SegmentItem struct {
	ID          int64
	Name        string
	Color       string
	OverallGoal string
	Points      int
}

type SegmentsState struct {
	Items  []SegmentItem
	Cursor int
}

type TodoItem struct {
	ID        int64
	Title     string
	Kind      model.TodoKind
	Level     model.AchievementLevel
	FromHabit bool
}

type TodayState struct {
	Items  []TodoItem
	Cursor int
}

// CarryoverState holds candidates grouped by segment, in display order.
type CarryoverState struct {
	Items      []carryover.Candidate
	Selected   map[int64]bool
	Cursor     int
	Confirming bool
}

type EvaluationState struct {
	SegmentID int64
	Markdown  string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type RefreshMsg struct{}

type SchedulerEventMsg struct {
	Event scheduler.Event
}

// NewModel builds the UI over backend. engine may be nil, in which case
// no day rollover happens while the UI runs.
func NewModel(backend Backend, engine *scheduler.Engine, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	m := Model{
		CurrentView: ViewSegments,
		Today:       model.DateOf(opts.Now()),
		Scheduler:   engine,
		Carryover: CarryoverState{
			Selected: make(map[int64]bool),
		},
		Keys: GlobalKeyMap{
			Segments:   "1",
			Today:      "2",
			Carryover:  "3",
			Evaluation: "4",
			Refresh:    "r",
			Help:       "?",
			Quit:       "q",
		},
		backend: backend,
		opts:    opts,
	}
	m.initBubbleComponents()
	m.reload()
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.helpModel = help.New()
	m.reportViewport = viewport.New(56, 18)
}

// reload refreshes segments and the selected segment's todos for today.
func (m *Model) reload() {
	if m.backend == nil {
		return
	}
	ctx := context.Background()
	segments, err := m.backend.ListSegments(ctx)
	if err != nil {
		m.fail(err)
		return
	}
	items := make([]SegmentItem, 0, len(segments))
	for _, seg := range segments {
		points, err := m.backend.SegmentPoints(ctx, seg.ID)
		if err != nil {
			m.fail(err)
			return
		}
		items = append(items, SegmentItem{
			ID:          seg.ID,
			Name:        seg.Name,
			Color:       seg.Color,
			OverallGoal: seg.OverallGoal,
			Points:      points,
		})
	}
	m.Segments.Items = items
	m.Segments.Cursor = clampCursor(m.Segments.Cursor, len(items))
	m.reloadTodos()
}

func (m *Model) reloadTodos() {
	seg, ok := m.currentSegment()
	if !ok {
		m.Todos = TodayState{}
		return
	}
	todos, err := m.backend.ListTodos(context.Background(), seg.ID, m.Today)
	if err != nil {
		m.fail(err)
		return
	}
	items := make([]TodoItem, 0, len(todos))
	for _, t := range todos {
		items = append(items, TodoItem{ID: t.ID, Title: t.Title, Kind: t.Kind, Level: t.Level, FromHabit: t.FromHabit})
	}
	m.Todos.Items = items
	m.Todos.Cursor = clampCursor(m.Todos.Cursor, len(items))
}

func (m *Model) fail(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.notify("Error", err.Error(), "error")
}

func (m *Model) ok(text string) {
	m.Status = StatusBar{Text: text}
	m.notify("Status", text, "info")
}

package model

import (
	"strings"
	"time"
)

const DefaultSegmentColor = "#6e6e73"

// Segment is a tracked life area that owns every other row.
type Segment struct {
	ID          int64
	Name        string `validate:"notblank,max=200"`
	OverallGoal string `validate:"max=2000"`
	Color       string `validate:"omitempty,hexcolor"`
	CreatedAt   time.Time
}

func (s *Segment) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.OverallGoal = strings.TrimSpace(s.OverallGoal)
	if s.Color == "" {
		s.Color = DefaultSegmentColor
	}
}

func (s Segment) Validate() error {
	return validateStruct(s)
}

type DiscussionItem struct {
	ID         int64
	SegmentID  int64  `validate:"gt=0"`
	Body       string `validate:"notblank,max=4000"`
	Resolved   bool
	ResolvedAt *time.Time
	CreatedAt  time.Time
}

func (d DiscussionItem) Validate() error {
	return validateStruct(d)
}

// DiscussionMemo is a follow-up note on a discussion item.
type DiscussionMemo struct {
	ID           int64
	DiscussionID int64  `validate:"gt=0"`
	Memo         string `validate:"notblank,max=4000"`
	CreatedAt    time.Time
}

func (m DiscussionMemo) Validate() error {
	return validateStruct(m)
}

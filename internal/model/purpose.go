package model

import (
	"strings"
	"time"
)

// OverallPurpose is the single statement that sits above every segment.
type OverallPurpose struct {
	Title       string `validate:"notblank,max=200"`
	Description string `validate:"max=4000"`
	Goal        string `validate:"max=2000"`
	UpdatedAt   time.Time
}

func (p *OverallPurpose) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.Goal = strings.TrimSpace(p.Goal)
}

func (p OverallPurpose) Validate() error {
	return validateStruct(p)
}

// IsZero reports whether no purpose has been saved.
func (p OverallPurpose) IsZero() bool {
	return p.Title == "" && p.UpdatedAt.IsZero()
}

// BucketListItem is a life goal kept outside any segment.
type BucketListItem struct {
	ID           int64
	Title        string `validate:"notblank,max=500"`
	Description  string `validate:"max=4000"`
	Completed    bool
	DisplayOrder int
	CompletedAt  *time.Time
	CreatedAt    time.Time
}

func (b *BucketListItem) Normalize() {
	b.Title = strings.TrimSpace(b.Title)
	b.Description = strings.TrimSpace(b.Description)
}

func (b BucketListItem) Validate() error {
	return validateStruct(b)
}

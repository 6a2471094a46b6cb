package model

type AchievementLevel string

const (
	AchievementPending     AchievementLevel = "pending"
	AchievementAchieved    AchievementLevel = "achieved"
	AchievementPartial     AchievementLevel = "partial"
	AchievementNotAchieved AchievementLevel = "not_achieved"
)

func (l AchievementLevel) IsValid() bool {
	switch l {
	case AchievementPending, AchievementAchieved, AchievementPartial, AchievementNotAchieved:
		return true
	default:
		return false
	}
}

// IsWritable reports whether mutation paths may set l. The partial and
// not_achieved levels are only read from older rows.
func (l AchievementLevel) IsWritable() bool {
	return l == AchievementPending || l == AchievementAchieved
}

// Evaluated reports whether l participates in rate denominators.
func (l AchievementLevel) Evaluated() bool {
	return l.IsValid() && l != AchievementPending
}

func (l AchievementLevel) Credited() bool {
	return l == AchievementAchieved
}

type TodoKind string

const (
	TodoKindDaily  TodoKind = "daily"
	TodoKindWeekly TodoKind = "weekly"
)

func (k TodoKind) IsValid() bool {
	return k == TodoKindDaily || k == TodoKindWeekly
}

// SourceKind identifies what earned an activity point.
type SourceKind string

const (
	SourceDaily     SourceKind = "daily"
	SourceWeekly    SourceKind = "weekly"
	SourceHabit     SourceKind = "habit"
	SourceMilestone SourceKind = "milestone"
)

func (k SourceKind) IsValid() bool {
	switch k {
	case SourceDaily, SourceWeekly, SourceHabit, SourceMilestone:
		return true
	default:
		return false
	}
}

func SourceForTodo(kind TodoKind) SourceKind {
	if kind == TodoKindWeekly {
		return SourceWeekly
	}
	return SourceDaily
}

type MilestoneStatus string

const (
	MilestonePending   MilestoneStatus = "pending"
	MilestoneCompleted MilestoneStatus = "completed"
)

func (s MilestoneStatus) IsValid() bool {
	return s == MilestonePending || s == MilestoneCompleted
}

func StatusForLevel(l AchievementLevel) MilestoneStatus {
	if l == AchievementAchieved {
		return MilestoneCompleted
	}
	return MilestonePending
}

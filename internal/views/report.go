package views

import (
	"fmt"
	"strings"
)

type EvaluationReportData struct {
	SegmentName         string
	Date                string
	WindowStart         string
	MilestoneRate       float64
	DailyRate           float64
	WeeklyRate          float64
	ActivityVolume      int
	TaskValidity        float64
	TotalMilestones     int
	EvaluatedMilestones int
	EvaluatedTasks      int
	OnTimeTasks         int
	OverdueTasks        int
}

// EvaluationMarkdown is the report body before styling.
func EvaluationMarkdown(data EvaluationReportData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", data.SegmentName)
	fmt.Fprintf(&b, "Evaluation for **%s** (window from %s)\n\n", data.Date, data.WindowStart)
	b.WriteString("## Rates\n\n")
	fmt.Fprintf(&b, "- Milestones: %s (%d of %d evaluated)\n", percent(data.MilestoneRate), data.EvaluatedMilestones, data.TotalMilestones)
	fmt.Fprintf(&b, "- Daily todos: %s\n", percent(data.DailyRate))
	fmt.Fprintf(&b, "- Weekly todos: %s\n", percent(data.WeeklyRate))
	b.WriteString("\n## Activity\n\n")
	fmt.Fprintf(&b, "- Activity volume: %d point(s)\n", data.ActivityVolume)
	fmt.Fprintf(&b, "- Task validity: %s (%d on time of %d evaluated)\n", percent(data.TaskValidity), data.OnTimeTasks, data.EvaluatedTasks)
	fmt.Fprintf(&b, "- Overdue tasks: %d\n", data.OverdueTasks)
	return b.String()
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

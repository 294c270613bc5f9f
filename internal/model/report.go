package model

import "time"

// ReportStatus describes a week's trajectory. It is narrower than
// ProjectStatus: a report never carries a terminal or paused state.
type ReportStatus string

const (
	ReportOnTrack  ReportStatus = "on_track"
	ReportAtRisk   ReportStatus = "at_risk"
	ReportOffTrack ReportStatus = "off_track"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportOnTrack, ReportAtRisk, ReportOffTrack:
		return true
	}
	return false
}

// WeeklyReport is a project's status report for one week. Week numbers start
// at 1 and are unique per project. Progress is the project's overall
// completion percentage as of the end of that week, computed at write time.
// CreatedAt is set once on creation and preserved across edits.
type WeeklyReport struct {
	ID         int64        `json:"id"`
	ProjectID  int64        `json:"project_id"`
	Week       int          `json:"week"`
	Progress   int          `json:"progress"`
	Status     ReportStatus `json:"status"`
	Summary    string       `json:"summary"`
	Milestones []int64      `json:"milestones"`
	CreatedAt  time.Time    `json:"created_at"`
}

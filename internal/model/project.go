package model

import "time"

// ProjectStatus is the lifecycle status of a project.
type ProjectStatus string

const (
	ProjectOnTrack   ProjectStatus = "on_track"
	ProjectAtRisk    ProjectStatus = "at_risk"
	ProjectOffTrack  ProjectStatus = "off_track"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCompleted ProjectStatus = "completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectOnTrack, ProjectAtRisk, ProjectOffTrack, ProjectOnHold, ProjectCompleted:
		return true
	}
	return false
}

type Project struct {
	ID               int64         `json:"id"`
	Name             string        `json:"name"`
	ProjectType      string        `json:"project_type"`
	Status           ProjectStatus `json:"status"`
	ManagerID        int64         `json:"manager_id"`
	StartDate        time.Time     `json:"start_date"`
	EstimatedEndDate time.Time     `json:"estimated_end_date"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

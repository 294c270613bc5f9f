package model

// Milestone is a catalog entry. The catalog is reference data maintained
// outside this service; nothing here mutates it.
type Milestone struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ProjectType string `json:"project_type"`
}

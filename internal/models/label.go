package models

// Label represents a project-scoped tag attachable to tasks.
// Name uniqueness within a project is enforced by the server.
type Label struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"` // Hex color code (e.g. "#6b7280")
	ProjectID int    `json:"project_id"`
}

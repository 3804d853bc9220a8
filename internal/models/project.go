package models

import "time"

// Project is the top-level container for tasks, labels, and members.
// A user is a member iff they appear in Members; the server guarantees
// the owner is always among them. TaskCount is server-maintained.
type Project struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     int       `json:"owner_id"`
	Owner       *User     `json:"owner,omitempty"`
	Members     []User    `json:"members"`
	TaskCount   int       `json:"task_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasMember reports whether the user with the given ID is a project member
func (p *Project) HasMember(userID int) bool {
	for _, m := range p.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

package models

import "time"

// ActivityEntry is one append-only audit record of a change made to a
// task. OldValue and NewValue are paired: both present or both absent.
// Entries arrive in the order the server returns them; the client
// never re-sorts.
type ActivityEntry struct {
	ID           int       `json:"id"`
	TaskID       int       `json:"task_id"`
	UserID       int       `json:"user_id"`
	User         *User     `json:"user"`
	Action       string    `json:"action"` // e.g. "created", "updated", "commented"
	FieldChanged *string   `json:"field_changed"`
	OldValue     *string   `json:"old_value"`
	NewValue     *string   `json:"new_value"`
	CreatedAt    time.Time `json:"created_at"`
}

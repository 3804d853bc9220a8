package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2026, time.March, 14)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"2026-03-14"` {
		t.Errorf("Marshal = %s, want %q", data, "2026-03-14")
	}

	var got Date
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !got.Equal(d.Time) {
		t.Errorf("round trip = %s, want %s", got, d)
	}
}

func TestDateUnmarshalNull(t *testing.T) {
	var task Task
	if err := json.Unmarshal([]byte(`{"id":1,"due_date":null}`), &task); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if task.DueDate != nil {
		t.Errorf("DueDate = %v, want nil", task.DueDate)
	}
}

func TestDateUnmarshalRejectsBadFormat(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"14/03/2026"`), &d); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestSummaryJSONKeys(t *testing.T) {
	var page TaskPage
	payload := `{"tasks":[],"summary":{"TODO":2,"IN_PROGRESS":1,"DONE":3,"total":6}}`
	if err := json.Unmarshal([]byte(payload), &page); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	want := Summary{Todo: 2, InProgress: 1, Done: 3, Total: 6}
	if page.Summary != want {
		t.Errorf("Summary = %+v, want %+v", page.Summary, want)
	}
}

func TestProjectHasMember(t *testing.T) {
	p := &Project{
		ID:      1,
		OwnerID: 10,
		Members: []User{{ID: 10}, {ID: 11}},
	}
	if !p.HasMember(11) {
		t.Error("expected user 11 to be a member")
	}
	if p.HasMember(12) {
		t.Error("expected user 12 to not be a member")
	}
}

func TestTaskHasLabel(t *testing.T) {
	task := &Task{Labels: []Label{{ID: 3, Name: "bug"}}}
	if !task.HasLabel(3) {
		t.Error("expected label 3 to be attached")
	}
	if task.HasLabel(4) {
		t.Error("expected label 4 to be absent")
	}
}

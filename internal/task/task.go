// Package task defines the task model shared by the store, the snapshot
// fallback, and the API layers.
package task

import "time"

const dateKeyLayout = "2006-01-02"

// Task is the client-side task shape. The server is the system of record;
// IDs and creation timestamps are assigned there and never change locally.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

// Collection maps a date key (YYYY-MM-DD, local calendar day) to that day's
// tasks, newest first. A present key always holds a non-empty slice; the key
// is removed when its last task goes away, so key presence alone answers
// "are there tasks for this day".
type Collection map[string][]Task

// Stats aggregates task counts across every date key.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// Key formats t as a date key using the local calendar day.
func Key(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// ValidKey reports whether s is a well-formed date key.
func ValidKey(s string) bool {
	_, err := time.Parse(dateKeyLayout, s)
	return err == nil
}

// Clone returns a deep copy of the collection.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for key, tasks := range c {
		dup := make([]Task, len(tasks))
		copy(dup, tasks)
		out[key] = dup
	}
	return out
}

// Stats derives aggregate counts by walking every date key. The result is
// never stored, so it cannot drift from the collection itself.
func (c Collection) Stats() Stats {
	var s Stats
	for _, tasks := range c {
		s.Total += len(tasks)
		for _, t := range tasks {
			if t.Completed {
				s.Completed++
			}
		}
	}
	s.Pending = s.Total - s.Completed
	return s
}

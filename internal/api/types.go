package api

import "daylist/internal/task"

// Task mirrors the task object on the wire (snake_case fields).
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Date      string `json:"date"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Local converts a wire task to the client-side shape, dropping the fields
// the store does not track.
func (t Task) Local() task.Task {
	return task.Task{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
	}
}

// DateGroup mirrors one element of the GET /api/tasks response.
type DateGroup struct {
	Date  string `json:"date"`
	Tasks []Task `json:"tasks"`
}

// CreateTaskRequest is the POST /api/tasks body.
type CreateTaskRequest struct {
	Text      string `json:"text"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// UpdateTaskRequest is the PUT /api/tasks/{id} body. Nil fields are omitted
// and left unchanged by the server.
type UpdateTaskRequest struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Stats mirrors the GET /api/stats response.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// Package server implements the daylist HTTP API and its storage
// backends.
//
// # Routes
//
// The API is a small JSON surface over per-day task lists:
//
//	POST   /api/tasks          create a task (201)
//	GET    /api/tasks          all tasks grouped by date, dates ascending
//	GET    /api/tasks/{date}   tasks for one day, newest first
//	PUT    /api/tasks/{id}     update text and/or completion
//	DELETE /api/tasks/{id}     delete a task (204)
//	GET    /api/stats          total and completed counts
//	GET    /healthz            liveness probe
//
// Anything outside /api is served from the embedded static shell, so a
// bare origin answers GET / and GET /manifest.json without extra
// deployment artifacts.
//
// # Storage
//
// Repository abstracts over storage. MemoryRepo keeps everything in
// process and is the default; PostgresRepo persists to Postgres via
// pgx and is selected by passing a connection string to daylistd.
// Both enforce the same ordering contract: dates ascending in the
// grouped listing, tasks newest first within a day.
//
// # Validation
//
// Task text is trimmed and must be 1 to 100 characters; dates must be
// YYYY-MM-DD. Updates must carry at least one of text or completed.
// Violations return 400 with a JSON {"detail": ...} body; unknown task
// ids return 404.
package server

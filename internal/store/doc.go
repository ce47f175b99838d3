// Package store implements the client-side task store: the coordination
// point between the UI, the REST API, and the local snapshot fallback.
//
// # Overview
//
// The Store owns the authoritative in-memory task collection, a mapping
// from date keys (YYYY-MM-DD) to that day's tasks, newest first. Every
// mutation (add, toggle, delete) goes to the server first and touches
// local state only after the server confirms. There are no optimistic
// updates: the trade is perceived latency for the guarantee that the UI
// never shows a task the server does not have.
//
// # State Machine Per Operation
//
//	LoadAll:  loading=true, err=""  → list-all → replace collection
//	          → mirror to fallback → loading=false
//	          on failure: err=<msg>, collection := fallback snapshot
//
//	Add:      loading=true, err=""  → create → prepend server task
//	          → mirror → loading=false
//	          on failure: err=<msg>, collection unchanged
//
//	Toggle:   err="" → locate by id (miss → ErrTaskNotFound)
//	          → update with inverted flag → flip boolean locally → mirror
//	          on failure: err=<msg>, collection unchanged
//
//	Delete:   err="" → locate by id (miss → ErrTaskNotFound)
//	          → delete → remove task, dropping the date key when the day
//	          empties → mirror
//	          on failure: err=<msg>, collection unchanged
//
// Mutations are atomic relative to their server call: either the confirmed
// change lands in full or nothing changes.
//
// # Collection Discipline
//
// The collection is replaced wholesale on every mutation and accessors
// return copies, so a slice handed to a consumer is never mutated behind
// its back. A date key present in the map always holds a non-empty slice;
// key presence is the "this day has tasks" signal.
//
// # Concurrency
//
// The Store is safe for concurrent use, but operations are not serialized
// against each other: two racing mutations resolve in server-response
// order. As a narrow guard, a second toggle/delete on a task whose request
// is still outstanding is rejected with ErrOpInFlight rather than queued.
//
// # Status and Notification
//
// Loading() and Err() expose the operation status the UI renders. Err is
// cleared at the start of every attempt and holds the most recent failure
// message otherwise. Subscribe registers a callback that fires after every
// state change; callbacks run outside the store's lock and must not block.
package store

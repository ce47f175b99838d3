// Package api provides the HTTP client for the daylist REST API.
//
// # Overview
//
// This package is the single gateway between the client side of the
// application and the network. It owns the wire types (snake_case JSON),
// their mapping to the local task shape, and the error taxonomy every
// caller branches on.
//
// # Endpoints
//
//   - POST   /api/tasks        create a task          → Task
//   - GET    /api/tasks        list all, by date      → []DateGroup
//   - GET    /api/tasks/{date} list one day           → []Task
//   - PUT    /api/tasks/{id}   update fields          → Task
//   - DELETE /api/tasks/{id}   delete                 → 204, no body
//   - GET    /api/stats        aggregate counts       → Stats
//
// # Error Handling
//
// Every failure surfaces as *Error carrying (Status, Message):
//
//   - Status == 0: the request never produced a response (DNS failure,
//     connection refused, timeout, or an unreadable response body). The
//     message wraps the underlying cause.
//   - Status > 0: the server answered with that error status. The message
//     is the response body text, falling back to the status's standard
//     reason phrase when the body is empty.
//
// A 204 response returns success without attempting to parse a body.
//
// # Request Handling
//
// All requests use context for cancellation, declare a JSON content type,
// identify themselves with a daylist User-Agent, and share a 10-second
// client timeout. The client keeps no state between calls beyond the
// normalized base URL, and is safe for concurrent use.
//
// # Transport Interposition
//
// NewClient accepts an http.RoundTripper so the offline cache worker can
// intercept requests transparently. The store and this client are unaware
// of whether a response came from the network or the worker's cache.
package api

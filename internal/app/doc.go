// Package app provides the orchestration layer for the daylist client.
//
// # Overview
//
// This package wires together configuration, the offline cache, the
// API client, the task store, and the UI to create the complete
// daylist experience. It serves as the composition root where all
// dependencies are initialized and connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load configuration from ~/.config/daylist/config.toml
//  2. Install the offline cache worker (when enabled) and stack the
//     API client's transport on top of it
//  3. Create the task store over the client and the snapshot fallback
//  4. Run an initial load so the UI starts populated, falling back to
//     the local snapshot if the server is unreachable
//  5. Launch the background poller for periodic refreshes
//  6. Start the TUI and block until the user exits or context cancels
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()     Read daylist config
//	       ├─────> offline.New()     Caching transport (optional)
//	       ├─────> api.NewClient()   HTTP client over the transport
//	       ├─────> store.New()       Task store + snapshot fallback
//	       ├─────> store.LoadAll()   Initial population
//	       ├─────> StartPoller()     Launch background refreshes
//	       └─────> ui.Run()          Start TUI (blocks)
//
// # Polling Behavior
//
// The poller refreshes the store at a configurable interval (default:
// 30 seconds). Failures are logged and stretch the next wait with
// exponential backoff, capped at five minutes, so an unreachable
// server is retried gently. A successful refresh resets the cadence.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file present but invalid
//   - Malformed API origin
//
// Recoverable errors (logged, execution continues):
//   - Offline cache install failure (the worker still activates)
//   - Initial load failure (the local snapshot takes over)
//   - Periodic refresh failures
//
// A missing config file is not an error; defaults apply.
package app

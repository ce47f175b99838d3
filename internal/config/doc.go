// Package config handles loading and parsing the daylist configuration file.
//
// # Overview
//
// This package reads the client's TOML configuration: where the API lives,
// where local data (the task snapshot and the offline cache stores) is
// kept, the cache version tag, and the background refresh cadence.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/daylist/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/daylist/config.toml
//   - API origin: http://127.0.0.1:8000 (the local development server)
//   - Data directory: ~/.local/share/daylist
//   - Snapshot file: <data_dir>/tasks.json
//   - Cache root: <data_dir>/cache
//   - Cache version: v1.0.0
//   - Offline cache: enabled
//   - Poll interval: 30 seconds
//
// # TOML Format
//
// Example config.toml:
//
//	api_url = "http://127.0.0.1:8000"
//	data_dir = "~/.local/share/daylist"
//	cache_version = "v1.0.0"
//	offline_cache = true
//	poll_seconds = 30
//
// The cache_version string is the offline worker's sole invalidation
// mechanism: bumping it on deploy retires the previous version's cache
// stores at the worker's next activation.
//
// # Error Handling
//
// A missing file is not an error; unreadable or malformed TOML is. Empty
// or whitespace-only values fall back to their defaults, and ~ expands to
// the user's home directory in every path field.
package config

// Package ui provides the terminal user interface for daylist.
//
// # Architecture Overview
//
// The UI is built on Bubble Tea with Lipgloss styling. It renders a
// month calendar beside the task list for the selected day and drives
// all mutations through the task store; the UI itself holds no task
// data.
//
// # Package Structure
//
//   - ui.go: Options and the main Run function
//   - model.go: The Bubble Tea model, update loop, and rendering
//   - calendar.go: Month grid layout and calendar rendering
//   - keys.go: Keyboard bindings
//   - styles.go: Theme palette and Lipgloss styles
//
// # Event Flow
//
//  1. Run() subscribes to the store and starts the Bubble Tea program
//  2. Store change notifications are bridged into the event loop as
//     storeChangedMsg values via a buffered channel
//  3. Key presses trigger store operations in background commands
//  4. Every store change triggers a re-render from fresh store reads
//  5. Context cancellation cleanly shuts down the UI
//
// # Key Bindings
//
//   - ←/h, →/l: Previous/next day
//   - J/K: Next/previous week
//   - [, ]: Previous/next month
//   - t: Jump to today
//   - ↑/k, ↓/j: Move the task cursor
//   - a: Add a task (enter saves, esc cancels)
//   - Space/Enter: Toggle completion
//   - d/x: Delete the selected task
//   - r: Refresh from the server
//   - q or Ctrl+C: Exit
//
// # Design Principles
//
//   - The store is the single source of truth: the UI reads task data
//     fresh on every render and never caches it
//   - Mutations run off the event loop; errors surface through the
//     store's status line rather than modal dialogs
//   - Single operator: no multi-user or authentication support
package ui

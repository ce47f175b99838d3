package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"daylist/internal/store"
)

// Options configure the UI runtime.
type Options struct {
	Store *store.Store
	Theme Theme
}

// Run starts the terminal UI and blocks until ctx is cancelled or the
// user quits. The store subscription is released on the way out.
func Run(ctx context.Context, opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("ui requires a task store")
	}
	if opts.Theme.Name == "" {
		opts.Theme = defaultTheme()
	}

	m := newModel(ctx, opts.Store, opts.Theme)

	unsubscribe := opts.Store.Subscribe(m.onStoreChange)
	defer unsubscribe()

	prog := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		// Shutdown via ctx surfaces as a kill error; that is the
		// normal exit path when the process catches a signal.
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

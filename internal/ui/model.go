package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"daylist/internal/store"
	"daylist/internal/task"
)

const maxTaskTextLen = 100

type mode int

const (
	modeBrowse mode = iota
	modeAdd
)

// Store events arrive from a subscription callback on arbitrary
// goroutines; storeChangedMsg bridges them into the tea event loop.
type storeChangedMsg struct{}

type opDoneMsg struct{ err error }

type model struct {
	ctx      context.Context
	store    *store.Store
	keys     keyMap
	styles   Styles
	input    textinput.Model
	selected time.Time
	cursor   int
	mode     mode
	width    int
	height   int
	events   chan struct{}
}

func newModel(ctx context.Context, st *store.Store, theme Theme) model {
	input := textinput.New()
	input.Placeholder = "What needs doing?"
	input.CharLimit = maxTaskTextLen
	input.Width = 40

	return model{
		ctx:      ctx,
		store:    st,
		keys:     defaultKeyMap(),
		styles:   theme.Styles(),
		input:    input,
		selected: time.Now(),
		events:   make(chan struct{}, 1),
	}
}

// onStoreChange is registered with the store. It never blocks: a
// pending event already covers any change that happens before the
// event loop drains it.
func (m model) onStoreChange() {
	select {
	case m.events <- struct{}{}:
	default:
	}
}

func (m model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return tea.Quit()
		case <-m.events:
			return storeChangedMsg{}
		}
	}
}

func (m model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case storeChangedMsg:
		m.clampCursor()
		return m, m.waitForChange()

	case opDoneMsg:
		// The store already carries the error in its status; a render
		// pass follows from the change notification.
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeAdd {
			return m.updateAdd(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.PrevDay):
		return m.moveSelection(0, 0, -1), nil
	case key.Matches(msg, m.keys.NextDay):
		return m.moveSelection(0, 0, 1), nil
	case key.Matches(msg, m.keys.PrevWeek):
		return m.moveSelection(0, 0, -daysPerWeek), nil
	case key.Matches(msg, m.keys.NextWeek):
		return m.moveSelection(0, 0, daysPerWeek), nil
	case key.Matches(msg, m.keys.PrevMonth):
		return m.moveSelection(0, -1, 0), nil
	case key.Matches(msg, m.keys.NextMonth):
		return m.moveSelection(0, 1, 0), nil
	case key.Matches(msg, m.keys.Today):
		m.selected = time.Now()
		m.cursor = 0
		return m, nil

	case key.Matches(msg, m.keys.CursorUp):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.CursorDown):
		if m.cursor < len(m.store.TasksFor(m.selected))-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.taskUnderCursor(); ok {
			return m, m.runOp(func(ctx context.Context) error {
				return m.store.Toggle(ctx, m.selected, t.ID)
			})
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.taskUnderCursor(); ok {
			return m, m.runOp(func(ctx context.Context) error {
				return m.store.Delete(ctx, m.selected, t.ID)
			})
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.runOp(m.store.Refresh)
	}
	return m, nil
}

func (m model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil

	case "enter":
		text := strings.TrimSpace(m.input.Value())
		m.mode = modeBrowse
		m.input.Blur()
		if text == "" {
			return m, nil
		}
		date := m.selected
		return m, m.runOp(func(ctx context.Context) error {
			return m.store.Add(ctx, date, text)
		})

	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) moveSelection(years, months, days int) model {
	m.selected = m.selected.AddDate(years, months, days)
	m.cursor = 0
	return m
}

func (m model) taskUnderCursor() (task.Task, bool) {
	tasks := m.store.TasksFor(m.selected)
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return task.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *model) clampCursor() {
	if n := len(m.store.TasksFor(m.selected)); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// runOp executes a store mutation off the event loop. Success and
// failure both surface through the store's change notification.
func (m model) runOp(op func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{err: op(ctx)}
	}
}

// --- rendering

func (m model) View() string {
	calendar := m.styles.Panel.Render(m.renderCalendar())
	tasks := m.styles.Panel.Render(m.renderTasks())

	body := lipgloss.JoinHorizontal(lipgloss.Top, calendar, " ", tasks)

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m model) renderTasks() string {
	var b strings.Builder

	day := m.selected.Format("Mon Jan 2")
	tasks := m.store.TasksFor(m.selected)
	stats := task.Collection{task.Key(m.selected): tasks}.Stats()

	b.WriteString(m.styles.AccentText.Render(day))
	if stats.Total > 0 {
		b.WriteString(m.styles.MutedText.Render(
			fmt.Sprintf("  %d/%d done", stats.Completed, stats.Total)))
	}
	b.WriteString("\n")

	if m.mode == modeAdd {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if len(tasks) == 0 {
		b.WriteString(m.styles.MutedText.Render("No tasks for this day. Press a to add one."))
		return b.String()
	}

	for i, t := range tasks {
		box := "[ ]"
		textStyle := m.styles.Text
		if t.Completed {
			box = "[x]"
			textStyle = m.styles.Done
		}

		line := fmt.Sprintf("%s %s", box, t.Text)
		if i == m.cursor && m.mode == modeBrowse {
			b.WriteString(m.styles.Selected.Render(line))
		} else {
			b.WriteString(textStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m model) renderStatus() string {
	stats := m.store.Stats()
	parts := []string{
		m.styles.MutedText.Render(
			fmt.Sprintf("%d tasks, %d done, %d pending", stats.Total, stats.Completed, stats.Pending)),
	}
	if m.store.Loading() {
		parts = append(parts, m.styles.WarningText.Render("loading..."))
	}
	if errMsg := m.store.Err(); errMsg != "" {
		parts = append(parts, m.styles.DangerText.Render(errMsg))
	}
	return " " + strings.Join(parts, "  ")
}

func (m model) renderFooter() string {
	if m.mode == modeAdd {
		return m.styles.Footer.Render("enter save  esc cancel")
	}
	bindings := []key.Binding{
		m.keys.PrevDay, m.keys.NextDay, m.keys.PrevMonth, m.keys.Today,
		m.keys.Add, m.keys.Toggle, m.keys.Delete, m.keys.Refresh, m.keys.Quit,
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, fmt.Sprintf("%s %s", h.Key, h.Desc))
	}
	return m.styles.Footer.Render(strings.Join(parts, "  "))
}

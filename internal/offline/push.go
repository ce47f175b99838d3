package offline

import "log"

// Notification describes a push notification the worker would display.
type Notification struct {
	Title   string
	Body    string
	Icon    string
	Actions []NotificationAction
}

// NotificationAction is one button on a notification.
type NotificationAction struct {
	Action string
	Title  string
}

// Notifier displays notifications. Implementations are platform-specific;
// the worker itself only builds the payload.
type Notifier interface {
	Show(Notification) error
}

// SetNotifier registers the display hook for push messages.
func (w *Worker) SetNotifier(n Notifier) {
	w.mu.Lock()
	w.notifier = n
	w.mu.Unlock()
}

// HandlePush renders a push message as a notification. Nothing in this
// system sends pushes, so the hook stays inert unless a server sender and
// a Notifier are both wired up.
func (w *Worker) HandlePush(data []byte) {
	body := "You have new tasks waiting!"
	if len(data) > 0 {
		body = string(data)
	}
	n := Notification{
		Title: "daylist",
		Body:  body,
		Icon:  "/icon-192.png",
		Actions: []NotificationAction{
			{Action: "open", Title: "View tasks"},
			{Action: "close", Title: "Remind me later"},
		},
	}

	w.mu.RLock()
	notifier := w.notifier
	w.mu.RUnlock()
	if notifier == nil {
		log.Printf("push received with no notifier registered")
		return
	}
	if err := notifier.Show(n); err != nil {
		log.Printf("show notification: %v", err)
	}
}

// HandleNotificationClick resolves a notification action to the page to
// open: the root page for "open", nothing otherwise.
func (w *Worker) HandleNotificationClick(action string) string {
	if action == "open" {
		return "/"
	}
	return ""
}

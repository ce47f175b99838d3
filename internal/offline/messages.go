package offline

import (
	"fmt"
	"strings"
)

// MessageType identifies a control message sent to the worker.
type MessageType string

const (
	// MessageSkipWaiting moves a waiting worker into activation immediately.
	MessageSkipWaiting MessageType = "SKIP_WAITING"
	// MessageClearCache deletes every cache store the worker owns. Used for
	// manual cache-busting.
	MessageClearCache MessageType = "CLEAR_CACHE"
)

// Message is a control message from the application to the worker.
type Message struct {
	Type MessageType `json:"type"`
}

// HandleMessage dispatches a control message.
func (w *Worker) HandleMessage(msg Message) error {
	switch msg.Type {
	case MessageSkipWaiting:
		return w.SkipWaiting()
	case MessageClearCache:
		return w.ClearCaches()
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}

// ClearCaches deletes every owned cache store, current version included.
func (w *Worker) ClearCaches() error {
	names, err := ListCacheStores(w.root)
	if err != nil {
		return err
	}
	for _, name := range names {
		if !strings.HasPrefix(name, cachePrefix+"-") {
			continue
		}
		if err := DeleteCacheStore(w.root, name); err != nil {
			return err
		}
	}
	return nil
}

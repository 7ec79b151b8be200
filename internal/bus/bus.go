// Package bus carries in-process notifications between independently
// rendered UI regions. It replaces the ad-hoc same-window event dispatch of
// the original web client with an explicit typed publish/subscribe
// container, while keeping its fire-and-forget delivery contract: Publish
// never blocks, never panics, and drops events for subscribers that are not
// keeping up.
package bus

import (
	"sync"

	"github.com/hardy/onion/internal/history"
)

// Event is a notification delivered to subscribers.
type Event interface {
	event()
}

// HistoryUpdated announces that the history store changed; the payload is
// the full, most-recent-first list.
type HistoryUpdated struct {
	Entries []history.Entry
}

// EntrySelected announces that a history entry was chosen in the panel.
type EntrySelected struct {
	Entry history.Entry
}

func (HistoryUpdated) event() {}
func (EntrySelected) event()  {}

const subscriberBuffer = 16

// Notifier fans events out to all subscribers.
type Notifier struct {
	mu   sync.Mutex
	subs []chan Event
}

// NewNotifier creates an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers a new subscriber and returns its event channel.
func (n *Notifier) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)

	n.mu.Lock()
	n.subs = append(n.subs, ch)
	n.mu.Unlock()

	return ch
}

// Unsubscribe removes a previously returned channel and closes it.
func (n *Notifier) Unsubscribe(ch <-chan Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, sub := range n.subs {
		if sub == ch {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			close(sub)
			return
		}
	}
}

// Publish delivers ev to every subscriber. Delivery is best-effort: a full
// subscriber channel drops the event rather than blocking the publisher.
func (n *Notifier) Publish(ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	// Sends are non-blocking; the lock orders them against Unsubscribe's
	// close.
	for _, ch := range n.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

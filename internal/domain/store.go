package domain

// EventKind describes what changed in the library store
type EventKind int

const (
	EventBookAdded EventKind = iota
	EventBookUpdated
	EventBookRemoved
	EventOverlayChanged
)

// String returns the event name used in logs
func (k EventKind) String() string {
	switch k {
	case EventBookAdded:
		return "book_added"
	case EventBookUpdated:
		return "book_updated"
	case EventBookRemoved:
		return "book_removed"
	case EventOverlayChanged:
		return "overlay_changed"
	default:
		return "unknown"
	}
}

// StoreEvent reports a single effective mutation of the library store.
// Consumers re-read the snapshot they need; the event only says what moved.
type StoreEvent struct {
	Kind    EventKind
	BookID  string      // set for book events
	Overlay OverlayKind // set for overlay events
}

// StoreObserver receives store change notifications.
type StoreObserver interface {
	OnChange(event StoreEvent)
}

// ObserverFunc adapts a plain function to StoreObserver
type ObserverFunc func(StoreEvent)

func (f ObserverFunc) OnChange(event StoreEvent) { f(event) }

// NoOpObserver discards notifications (for testing/batch operations).
type NoOpObserver struct{}

func (NoOpObserver) OnChange(StoreEvent) {}

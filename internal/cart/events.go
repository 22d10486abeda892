package cart

type EventType string

const (
	ItemAdded       EventType = "item_added"
	ItemMerged      EventType = "item_merged"
	ItemRemoved     EventType = "item_removed"
	QuantityUpdated EventType = "quantity_updated"
	Cleared         EventType = "cleared"
	Opened          EventType = "opened"
	Closed          EventType = "closed"

	// Current is never published by the store. Streams use it for the state
	// sent on connect.
	Current EventType = "snapshot"
)

// Event describes one applied mutation together with the resulting cart.
type Event struct {
	Type   EventType `json:"type"`
	ItemID string    `json:"item_id,omitempty"`
	Cart   Snapshot  `json:"cart"`
}

type observer struct {
	id int
	fn func(Event)
}

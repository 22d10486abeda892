package cart

// Descriptor carries everything a cart line needs except its id. It is what
// callers hand to Store.AddItem.
type Descriptor struct {
	ServiceID     string `json:"service_id"`
	ServiceName   string `json:"service_name"`
	CoachID       string `json:"coach_id"`
	CoachName     string `json:"coach_name"`
	PriceCents    int64  `json:"price_cents"`
	Quantity      int    `json:"quantity"`
	IsBundle      bool   `json:"is_bundle"`
	BundleCredits int    `json:"bundle_credits,omitempty"`
	SlotID        string `json:"slot_id,omitempty"`
	SlotDate      string `json:"slot_date,omitempty"`
	SlotTime      string `json:"slot_time,omitempty"`
}

// MergeKey decides whether an addition joins an existing line.
type MergeKey struct {
	ServiceID string
	CoachID   string
	SlotID    string
	IsBundle  bool
}

func (d Descriptor) Key() MergeKey {
	return MergeKey{
		ServiceID: d.ServiceID,
		CoachID:   d.CoachID,
		SlotID:    d.SlotID,
		IsBundle:  d.IsBundle,
	}
}

type LineItem struct {
	ID string `json:"id"`
	Descriptor
}

// IsScheduled reports whether the line books a specific slot. Scheduled lines
// represent one booking each; the UI does not offer a quantity stepper for
// them.
func (l LineItem) IsScheduled() bool {
	return l.SlotID != ""
}

func (l LineItem) SubtotalCents() int64 {
	return l.PriceCents * int64(l.Quantity)
}

type Snapshot struct {
	Items           []LineItem `json:"items"`
	TotalItems      int        `json:"total_items"`
	TotalPriceCents Cents      `json:"total_price_cents"`
	TotalPrice      string     `json:"total_price"`
	IsOpen          bool       `json:"is_open"`
}

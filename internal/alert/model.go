package alert

import "time"

// Alert types, one per evaluation pass.
const (
	TypeGroupValidityExpiring = "GroupValidityExpiring"
	TypeGroupValidityExpired  = "GroupValidityExpired"
	TypeGroupNotReturned      = "GroupNotReturned"
	TypeLineNotReturned       = "LineNotReturned"
)

// Item is one alert produced by an evaluation run. Alerts are derived from
// current data on every run and never stored.
type Item struct {
	Type    string `json:"type"`
	GroupID *uint  `json:"group_id,omitempty"`
	LineID  *uint  `json:"line_id,omitempty"`
	Title   string `json:"title"`
	Message string `json:"message"`

	// Days remaining for expiring alerts, days overdue for the rest.
	Days int        `json:"days"`
	Date *time.Time `json:"date,omitempty"`
}

// Result is the outcome of one full evaluation.
type Result struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Items       []Item         `json:"items"`
	Counts      map[string]int `json:"counts"`
}

package model

// Action identifies the kind of a global log entry.
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionDelete Action = "DELETE"
	ActionLoan   Action = "LOAN"
	ActionReturn Action = "RETURN"
)

// LogEntry is one immutable record in the global audit log.
//
// Date, Time and Detail are the legacy display fields; Employee, Delta and
// Remaining carry the same information as typed values. Entries written by
// the old format have only the display fields, so readers that need the
// typed values must fall back to parsing Detail.
type LogEntry struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Action    Action `json:"action"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Detail    string `json:"detail"`
	Employee  string `json:"employee,omitempty"`
	Delta     int    `json:"delta,omitempty"`
	Remaining int    `json:"remaining,omitempty"`
}

// CartLine is one requested movement in a transient loan/return batch.
// Carts are never persisted.
type CartLine struct {
	ItemID string
	Code   string
	Name   string
	Qty    int
}

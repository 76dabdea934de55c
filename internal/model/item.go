package model

import (
	"strings"
	"time"
)

// Timestamp layouts used by the data files and history lines.
const (
	DateLayout     = "02/01/2006"
	TimeLayout     = "15:04:05"
	MovementLayout = "02/01/2006 15:04:05"
)

// Item is one stocked part or tool. The store file is a mapping from item
// id to the record, so the id itself is carried outside the JSON body.
type Item struct {
	ID          string   `json:"-"`
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Quantity    int      `json:"quantity"`
	Location    string   `json:"location"`
	Description string   `json:"description,omitempty"`
	History     []string `json:"history"`
}

// StockLevel classifies an item's remaining stock for display.
type StockLevel string

const (
	StockCritical StockLevel = "critical" // 2 or fewer left
	StockLow      StockLevel = "low"      // 5 or fewer left
	StockOK       StockLevel = "ok"
)

// NormalizeCode returns the form of a code used for uniqueness checks.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// LastMovement returns the most recent history line, or "" if the item
// has never moved.
func (i *Item) LastMovement() string {
	if len(i.History) == 0 {
		return ""
	}
	return i.History[0]
}

// LastMovementTime parses the timestamp out of the most recent history
// line. History lines have the fixed layout
// "<icon> dd/mm/yyyy HH:MM:SS | ...". Reports false when the item has no
// history or the head line does not follow the layout.
func (i *Item) LastMovementTime() (time.Time, bool) {
	head := i.LastMovement()
	if head == "" {
		return time.Time{}, false
	}
	stamp, _, _ := strings.Cut(head, "|")
	// Drop the leading icon.
	_, stamp, found := strings.Cut(strings.TrimSpace(stamp), " ")
	if !found {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(MovementLayout, strings.TrimSpace(stamp), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// StatusToday describes the item's most recent movement if it happened on
// the same day as now, e.g. "LOAN at 15:30". Otherwise "No movement today".
func (i *Item) StatusToday(now time.Time) string {
	t, ok := i.LastMovementTime()
	if !ok || t.Format(DateLayout) != now.Format(DateLayout) {
		return "No movement today"
	}
	verb := "RETURN"
	if strings.Contains(i.History[0], "| LOAN |") {
		verb = "LOAN"
	}
	return verb + " at " + t.Format("15:04")
}

// Stock returns the traffic-light classification of the current quantity.
func (i *Item) Stock() StockLevel {
	switch {
	case i.Quantity <= 2:
		return StockCritical
	case i.Quantity <= 5:
		return StockLow
	default:
		return StockOK
	}
}

// Package report derives daily summaries and per-employee outstanding-loan
// balances by replaying the global log. Nothing here is an enforced
// constraint: an employee "owing" an item is a reporting fact only.
package report

import (
	"sort"
	"strconv"
	"strings"

	"almacen/internal/model"
)

// Status classifies the balance of one (employee, item) pair for a day.
type Status string

const (
	StatusFullyReturned Status = "FULLY_RETURNED"
	StatusPartial       Status = "PARTIAL" // some returned, some still out
	StatusPending       Status = "PENDING" // nothing returned yet
	// StatusCreditBalance means more was returned than loaned that day, a
	// data-entry anomaly surfaced rather than hidden.
	StatusCreditBalance Status = "CREDIT_BALANCE"
)

// Balance is the aggregated loan position of one employee for one item.
type Balance struct {
	Employee string
	Code     string
	Name     string
	Loaned   int
	Returned int
	Pending  int // Loaned - Returned
	Status   Status
}

// Balances is the per-employee outstanding-loan view for one day.
type Balances struct {
	Date         string
	Entries      []Balance
	PendingCount int // balances not fully settled
	Unparsable   int // log entries skipped because no employee could be read
}

// Summary is the daily activity report: per-action counts plus the day's
// entries in both required orderings.
type Summary struct {
	Date    string
	Created int
	Deleted int
	Loans   int
	Returns int
	// Chronological is sorted by time ascending, the export ordering.
	Chronological []model.LogEntry
	// LatestFirst is sorted by time descending, the on-screen ordering.
	LatestFirst []model.LogEntry
}

// OutstandingByEmployee aggregates the LOAN/RETURN entries of one day into
// per-(employee, item) balances.
func OutstandingByEmployee(entries []model.LogEntry, date string) Balances {
	type key struct{ employee, code string }
	groups := make(map[key]*Balance)
	report := Balances{Date: date}

	for _, e := range entries {
		if e.Date != date {
			continue
		}
		if e.Action != model.ActionLoan && e.Action != model.ActionReturn {
			continue
		}

		employee := employeeOf(e)
		if employee == "" {
			report.Unparsable++
			continue
		}
		qty := quantityOf(e)

		k := key{employee, e.Code}
		b := groups[k]
		if b == nil {
			b = &Balance{Employee: employee, Code: e.Code, Name: e.Name}
			groups[k] = b
		}
		if e.Action == model.ActionLoan {
			b.Loaned += qty
		} else {
			b.Returned += qty
		}
	}

	for _, b := range groups {
		b.Pending = b.Loaned - b.Returned
		switch {
		case b.Pending == 0:
			b.Status = StatusFullyReturned
		case b.Pending > 0 && b.Returned > 0:
			b.Status = StatusPartial
			report.PendingCount++
		case b.Pending == b.Loaned:
			b.Status = StatusPending
			report.PendingCount++
		default:
			b.Status = StatusCreditBalance
		}
		report.Entries = append(report.Entries, *b)
	}

	sort.Slice(report.Entries, func(a, b int) bool {
		if report.Entries[a].Employee != report.Entries[b].Employee {
			return report.Entries[a].Employee < report.Entries[b].Employee
		}
		return report.Entries[a].Code < report.Entries[b].Code
	})
	return report
}

// DailySummary counts the day's actions and returns the entry list in both
// orderings. The HH:MM:SS time strings order correctly as text.
func DailySummary(entries []model.LogEntry, date string) Summary {
	s := Summary{Date: date}
	for _, e := range entries {
		if e.Date != date {
			continue
		}
		switch e.Action {
		case model.ActionCreate:
			s.Created++
		case model.ActionDelete:
			s.Deleted++
		case model.ActionLoan:
			s.Loans++
		case model.ActionReturn:
			s.Returns++
		}
		s.Chronological = append(s.Chronological, e)
	}

	sort.SliceStable(s.Chronological, func(a, b int) bool {
		return s.Chronological[a].Time < s.Chronological[b].Time
	})
	s.LatestFirst = make([]model.LogEntry, len(s.Chronological))
	for i, e := range s.Chronological {
		s.LatestFirst[len(s.LatestFirst)-1-i] = e
	}
	return s
}

// employeeOf reads the employee id from the typed field, falling back to
// the legacy "Employee: <id>" token in the display detail. Returns "" when
// neither yields one.
func employeeOf(e model.LogEntry) string {
	if e.Employee != "" {
		return e.Employee
	}
	parts := strings.Fields(e.Detail)
	for i, p := range parts {
		if p == "Employee:" && i+1 < len(parts) {
			return strings.TrimPrefix(parts[i+1], "Employee:")
		}
	}
	return ""
}

// quantityOf reads the moved quantity from the typed delta, falling back
// to the trailing "(<sign><qty>)" group in the display detail. Entries
// with neither count as a single unit.
func quantityOf(e model.LogEntry) int {
	if e.Delta != 0 {
		if e.Delta < 0 {
			return -e.Delta
		}
		return e.Delta
	}

	open := strings.LastIndex(e.Detail, "(")
	end := strings.LastIndex(e.Detail, ")")
	if open < 0 || end < open {
		return 1
	}
	raw := strings.Trim(e.Detail[open+1:end], "+-")
	qty, err := strconv.Atoi(raw)
	if err != nil || qty <= 0 {
		return 1
	}
	return qty
}

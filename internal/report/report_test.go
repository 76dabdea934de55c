package report

import (
	"testing"

	"almacen/internal/model"
)

const day = "07/03/2026"

func loan(employee string, qty int, code, name string) model.LogEntry {
	return model.LogEntry{
		Date: day, Time: "10:00:00", Action: model.ActionLoan,
		Code: code, Name: name, Employee: employee, Delta: -qty,
	}
}

func ret(employee string, qty int, code, name string) model.LogEntry {
	return model.LogEntry{
		Date: day, Time: "11:00:00", Action: model.ActionReturn,
		Code: code, Name: name, Employee: employee, Delta: qty,
	}
}

func TestOutstandingStatuses(t *testing.T) {
	entries := []model.LogEntry{
		// 42/A1: loaned 5, returned 2 -> PARTIAL, pending 3.
		loan("42", 5, "A1", "Drill"),
		ret("42", 2, "A1", "Drill"),
		// 42/B2: loaned 1, returned 1 -> FULLY_RETURNED.
		loan("42", 1, "B2", "Saw"),
		ret("42", 1, "B2", "Saw"),
		// 7/A1: loaned 2, nothing back -> PENDING.
		loan("7", 2, "A1", "Drill"),
		// 9/C3: returned without a loan -> CREDIT_BALANCE.
		ret("9", 4, "C3", "Clamp"),
		// Other actions and other days are ignored.
		{Date: day, Action: model.ActionCreate, Code: "D4", Name: "New"},
		loanOn("01/01/2026", "42", 1, "A1"),
	}

	b := OutstandingByEmployee(entries, day)
	if len(b.Entries) != 4 {
		t.Fatalf("expected 4 balances, got %d: %+v", len(b.Entries), b.Entries)
	}

	// Sorted by employee, then code.
	want := []Balance{
		{Employee: "42", Code: "A1", Name: "Drill", Loaned: 5, Returned: 2, Pending: 3, Status: StatusPartial},
		{Employee: "42", Code: "B2", Name: "Saw", Loaned: 1, Returned: 1, Pending: 0, Status: StatusFullyReturned},
		{Employee: "7", Code: "A1", Name: "Drill", Loaned: 2, Returned: 0, Pending: 2, Status: StatusPending},
		{Employee: "9", Code: "C3", Name: "Clamp", Loaned: 0, Returned: 4, Pending: -4, Status: StatusCreditBalance},
	}
	for i, w := range want {
		if b.Entries[i] != w {
			t.Errorf("balance %d: got %+v, want %+v", i, b.Entries[i], w)
		}
	}
	if b.PendingCount != 2 {
		t.Errorf("expected 2 unsettled balances, got %d", b.PendingCount)
	}
}

func loanOn(date, employee string, qty int, code string) model.LogEntry {
	e := loan(employee, qty, code, "")
	e.Date = date
	return e
}

// Entries written by the legacy format carry no typed fields; the
// aggregator falls back to parsing the display detail.
func TestLegacyDetailParsing(t *testing.T) {
	entries := []model.LogEntry{
		{Date: day, Time: "10:00:00", Action: model.ActionLoan, Code: "A1", Name: "Drill",
			Detail: "Loan to Employee: 42 (-5)"},
		{Date: day, Time: "11:00:00", Action: model.ActionReturn, Code: "A1", Name: "Drill",
			Detail: "Return from Employee: 42 (+2)"},
		// No quantity group: defaults to 1.
		{Date: day, Time: "12:00:00", Action: model.ActionLoan, Code: "B2", Name: "Saw",
			Detail: "Loan to Employee: 42"},
		// No employee token at all: skipped and counted.
		{Date: day, Time: "13:00:00", Action: model.ActionLoan, Code: "C3", Name: "Clamp",
			Detail: "manual correction"},
	}

	b := OutstandingByEmployee(entries, day)
	if b.Unparsable != 1 {
		t.Errorf("expected 1 unparsable entry, got %d", b.Unparsable)
	}
	if len(b.Entries) != 2 {
		t.Fatalf("expected 2 balances, got %d", len(b.Entries))
	}

	drill := b.Entries[0]
	if drill.Loaned != 5 || drill.Returned != 2 || drill.Pending != 3 || drill.Status != StatusPartial {
		t.Errorf("legacy aggregation wrong: %+v", drill)
	}
	saw := b.Entries[1]
	if saw.Loaned != 1 {
		t.Errorf("expected quantity to default to 1, got %d", saw.Loaned)
	}
}

func TestDailySummary(t *testing.T) {
	entries := []model.LogEntry{
		{Date: day, Time: "15:00:00", Action: model.ActionDelete, Code: "B2", Name: "Saw"},
		{Date: day, Time: "09:00:00", Action: model.ActionCreate, Code: "A1", Name: "Drill"},
		{Date: day, Time: "12:00:00", Action: model.ActionLoan, Code: "A1", Name: "Drill"},
		{Date: day, Time: "13:30:00", Action: model.ActionReturn, Code: "A1", Name: "Drill"},
		{Date: "01/01/2026", Time: "10:00:00", Action: model.ActionLoan, Code: "Z9", Name: "Other"},
	}

	s := DailySummary(entries, day)
	if s.Created != 1 || s.Deleted != 1 || s.Loans != 1 || s.Returns != 1 {
		t.Errorf("bad counts: %+v", s)
	}
	if len(s.Chronological) != 4 || len(s.LatestFirst) != 4 {
		t.Fatalf("expected 4 entries in both orderings")
	}
	if s.Chronological[0].Time != "09:00:00" || s.Chronological[3].Time != "15:00:00" {
		t.Errorf("chronological ordering wrong: %v", s.Chronological)
	}
	if s.LatestFirst[0].Time != "15:00:00" || s.LatestFirst[3].Time != "09:00:00" {
		t.Errorf("latest-first ordering wrong: %v", s.LatestFirst)
	}
}

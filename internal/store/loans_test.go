package store

import (
	"errors"
	"strings"
	"testing"
	"time"

	"almacen/internal/model"
	"almacen/internal/report"
)

// Full loan/return lifecycle against a single item.
func TestLoanReturnScenario(t *testing.T) {
	s := newTestStore(t)

	item := mustCreate(t, s, "B7", "Drill", "10", "G1")
	if item.ID != "1" {
		t.Fatalf("expected id 1, got %s", item.ID)
	}

	cart := []model.CartLine{{ItemID: item.ID, Code: item.Code, Name: item.Name, Qty: 3}}
	if err := s.ProcessBatch(cart, "42", model.ActionLoan); err != nil {
		t.Fatalf("loan: %v", err)
	}
	if item.Quantity != 7 {
		t.Errorf("expected quantity 7 after loan, got %d", item.Quantity)
	}
	if len(item.History) != 1 || !strings.Contains(item.History[0], "LOAN") {
		t.Errorf("expected one LOAN history line, got %v", item.History)
	}
	loans := 0
	for _, e := range s.log.Entries() {
		if e.Action == model.ActionLoan {
			loans++
		}
	}
	if loans != 1 {
		t.Errorf("expected 1 LOAN log entry, got %d", loans)
	}

	// Overdrawing fails and mutates nothing.
	over := []model.CartLine{{ItemID: item.ID, Code: item.Code, Name: item.Name, Qty: 20}}
	err := s.ProcessBatch(over, "42", model.ActionLoan)
	var iserr *InsufficientStockError
	if !errors.As(err, &iserr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if iserr.Have != 7 || iserr.Want != 20 || iserr.Code != "B7" {
		t.Errorf("error does not name the shortfall: %+v", iserr)
	}
	if item.Quantity != 7 {
		t.Errorf("quantity changed by a rejected loan: %d", item.Quantity)
	}

	if err := s.ProcessBatch(cart, "42", model.ActionReturn); err != nil {
		t.Fatalf("return: %v", err)
	}
	if item.Quantity != 10 {
		t.Errorf("expected quantity 10 after return, got %d", item.Quantity)
	}

	today := time.Now().Format(model.DateLayout)
	balances := report.OutstandingByEmployee(s.log.Entries(), today)
	if len(balances.Entries) != 1 {
		t.Fatalf("expected one balance, got %d", len(balances.Entries))
	}
	b := balances.Entries[0]
	if b.Employee != "42" || b.Code != "B7" || b.Pending != 0 || b.Status != report.StatusFullyReturned {
		t.Errorf("unexpected balance: %+v", b)
	}
}

// One short line rejects the whole batch before any mutation.
func TestLoanBatchAllOrNothing(t *testing.T) {
	s := newTestStore(t)
	ok := mustCreate(t, s, "A1", "Hammer", "10", "G1")
	short := mustCreate(t, s, "A2", "Wrench", "2", "G1")

	cart := []model.CartLine{
		{ItemID: ok.ID, Code: ok.Code, Name: ok.Name, Qty: 5},
		{ItemID: short.ID, Code: short.Code, Name: short.Name, Qty: 3},
	}
	err := s.ProcessBatch(cart, "7", model.ActionLoan)
	var iserr *InsufficientStockError
	if !errors.As(err, &iserr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}

	if ok.Quantity != 10 || short.Quantity != 2 {
		t.Errorf("rejected batch mutated stock: %d, %d", ok.Quantity, short.Quantity)
	}
	if len(ok.History) != 0 || len(short.History) != 0 {
		t.Errorf("rejected batch wrote history")
	}
	for _, e := range s.log.Entries() {
		if e.Action == model.ActionLoan {
			t.Errorf("rejected batch wrote a log entry: %+v", e)
		}
	}
}

// Returns have no stock ceiling.
func TestReturnAboveOriginalStock(t *testing.T) {
	s := newTestStore(t)
	item := mustCreate(t, s, "R1", "Socket set", "1", "G1")

	cart := []model.CartLine{{ItemID: item.ID, Code: item.Code, Name: item.Name, Qty: 5}}
	if err := s.ProcessBatch(cart, "9", model.ActionReturn); err != nil {
		t.Fatalf("return: %v", err)
	}
	if item.Quantity != 6 {
		t.Errorf("expected quantity 6, got %d", item.Quantity)
	}
}

func TestProcessBatchValidation(t *testing.T) {
	s := newTestStore(t)
	item := mustCreate(t, s, "V1", "Drill", "5", "G1")
	line := model.CartLine{ItemID: item.ID, Code: item.Code, Name: item.Name, Qty: 1}

	cases := []struct {
		name      string
		cart      []model.CartLine
		employee  string
		direction model.Action
	}{
		{"empty employee", []model.CartLine{line}, "  ", model.ActionLoan},
		{"empty cart", nil, "42", model.ActionLoan},
		{"zero quantity", []model.CartLine{{ItemID: item.ID, Code: item.Code, Qty: 0}}, "42", model.ActionLoan},
		{"bad direction", []model.CartLine{line}, "42", model.ActionCreate},
	}
	for _, tc := range cases {
		err := s.ProcessBatch(tc.cart, tc.employee, tc.direction)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected ValidationError, got %v", tc.name, err)
		}
	}

	// A cart referencing a deleted item fails with NotFoundError.
	err := s.ProcessBatch([]model.CartLine{{ItemID: "99", Code: "ZZ", Qty: 1}}, "42", model.ActionLoan)
	var nferr *NotFoundError
	if !errors.As(err, &nferr) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestHistoryMostRecentFirst(t *testing.T) {
	s := newTestStore(t)
	item := mustCreate(t, s, "H1", "Drill", "10", "G1")

	cart := []model.CartLine{{ItemID: item.ID, Code: item.Code, Name: item.Name, Qty: 2}}
	if err := s.ProcessBatch(cart, "5", model.ActionLoan); err != nil {
		t.Fatal(err)
	}
	if err := s.ProcessBatch(cart, "5", model.ActionReturn); err != nil {
		t.Fatal(err)
	}

	if len(item.History) != 2 {
		t.Fatalf("expected 2 history lines, got %d", len(item.History))
	}
	if !strings.Contains(item.History[0], "RETURN") || !strings.Contains(item.History[1], "LOAN") {
		t.Errorf("history not most-recent-first: %v", item.History)
	}
	if !strings.Contains(item.History[0], "Total: 10") {
		t.Errorf("return line missing resulting stock: %s", item.History[0])
	}
	if !strings.Contains(item.History[1], "Remaining: 8") {
		t.Errorf("loan line missing resulting stock: %s", item.History[1])
	}

	// The head line parses under the recent-sort layout.
	if _, ok := item.LastMovementTime(); !ok {
		t.Errorf("head history line not parsable: %s", item.History[0])
	}
}

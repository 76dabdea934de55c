package store

import (
	"fmt"
	"strings"

	"almacen/internal/model"
)

// History line icons. The recent-movement sort and the status-today column
// both rely on the "<icon> dd/mm/yyyy HH:MM:SS | ..." layout these produce.
const (
	iconLoan   = "📤"
	iconReturn = "📥"
)

// ProcessBatch commits a cart of loan or return movements as a single
// user-confirmed unit.
//
// The whole cart is validated before any item is mutated: for loans, every
// line must be covered by current stock, and one short line rejects the
// entire batch. Application is then per line in cart order, persisting the
// store after each line, so a crash mid-batch leaves a prefix of the cart
// applied with the global log and the item histories consistent for each
// applied line. Applied lines are not rolled back.
func (s *Store) ProcessBatch(cart []model.CartLine, employee string, direction model.Action) error {
	employee = strings.TrimSpace(employee)
	if employee == "" {
		return &ValidationError{Msg: "employee number is required"}
	}
	if len(cart) == 0 {
		return &ValidationError{Msg: "the cart is empty"}
	}
	if direction != model.ActionLoan && direction != model.ActionReturn {
		return &ValidationError{Msg: fmt.Sprintf("unknown direction %q", direction)}
	}

	// Validation pre-pass over the whole cart: no partial commit.
	for _, line := range cart {
		item := s.items[line.ItemID]
		if item == nil {
			return &NotFoundError{ID: line.ItemID}
		}
		if line.Qty <= 0 {
			return &ValidationError{Msg: fmt.Sprintf("quantity for %s must be positive", line.Code)}
		}
		if direction == model.ActionLoan && line.Qty > item.Quantity {
			return &InsufficientStockError{
				Code: item.Code,
				Name: item.Name,
				Have: item.Quantity,
				Want: line.Qty,
			}
		}
	}

	for _, line := range cart {
		item := s.items[line.ItemID]
		now := s.now()

		var newStock, delta int
		var icon, label string
		if direction == model.ActionLoan {
			newStock = item.Quantity - line.Qty
			delta = -line.Qty
			icon, label = iconLoan, "Remaining"
		} else {
			newStock = item.Quantity + line.Qty
			delta = line.Qty
			icon, label = iconReturn, "Total"
		}

		s.log.Append(model.LogEntry{
			Action:    direction,
			Code:      item.Code,
			Name:      item.Name,
			Detail:    detailFor(direction, employee, line.Qty),
			Employee:  employee,
			Delta:     delta,
			Remaining: newStock,
		})

		movement := fmt.Sprintf("%s %s | %s | Employee: %s | Qty: %+d | %s: %d",
			icon, now.Format(model.MovementLayout), direction, employee, delta, label, newStock)
		item.History = append([]string{movement}, item.History...)
		item.Quantity = newStock

		if err := s.Save(); err != nil {
			return fmt.Errorf("batch partially applied: %w", err)
		}
	}
	return nil
}

// detailFor renders the legacy display detail. The "Employee: <id>
// (<sign><qty>)" convention is what older log consumers parse.
func detailFor(direction model.Action, employee string, qty int) string {
	if direction == model.ActionLoan {
		return fmt.Sprintf("Loan to Employee: %s (-%d)", employee, qty)
	}
	return fmt.Sprintf("Return from Employee: %s (+%d)", employee, qty)
}

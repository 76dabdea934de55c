package store

import "fmt"

// ValidationError reports a missing or invalid field, or a duplicate code.
// The operation was aborted with no mutation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError reports an operation referencing a missing item id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("item %s not found", e.ID) }

// InsufficientStockError reports a loan line exceeding current stock. The
// whole batch was rejected before any mutation.
type InsufficientStockError struct {
	Code string
	Name string
	Have int
	Want int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock of %s (%s): have %d, requested %d", e.Name, e.Code, e.Have, e.Want)
}

// PersistenceError reports a failed write of a data file. The in-memory
// state still reflects the operation.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

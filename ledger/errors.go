/*
errors.go - Centralized error types for the ledger

PURPOSE:
  All ledger error types in one place. Callers match with errors.Is or
  errors.As and translate to user-visible chat replies.

ERROR CATEGORIES:
  1. Not-found errors - stale references from buttons or text input
  2. Validation errors - business rule violations (stock invariant)
  3. Persistence errors - surfaced by the snapshot store, wrapped by callers

SEE ALSO:
  - store.go: Returns these errors
  - bot: Translates them into chat replies
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrProductNotFound is returned when a product id no longer resolves,
	// typically from a stale picker button.
	ErrProductNotFound = errors.New("product not found")

	// ErrUserNotFound is returned when a user id or name lookup fails.
	ErrUserNotFound = errors.New("user not found")

	// ErrAccessRequestNotFound is returned when acting on a request that was
	// already processed or withdrawn.
	ErrAccessRequestNotFound = errors.New("access request not found")

	// ErrInsufficientStock is returned when a sale or stock removal exceeds
	// the remaining quantity at commit time.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrTotalBelowSold is returned when a stock-total update would drop the
	// total below the quantity already sold.
	ErrTotalBelowSold = errors.New("total below sold")

	// ErrInvalidQuantity is returned for non-positive quantities.
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientStockError reports how much stock was left when a sale or
// removal was rejected.
type InsufficientStockError struct {
	ProductID int
	Requested int
	Remaining int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product #%d: requested %d, remaining %d",
		e.ProductID, e.Requested, e.Remaining)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// TotalBelowSoldError reports a rejected stock-total update.
type TotalBelowSoldError struct {
	ProductID int
	NewTotal  int
	Sold      int
}

func (e *TotalBelowSoldError) Error() string {
	return fmt.Sprintf("cannot set total of product #%d to %d: %d already sold",
		e.ProductID, e.NewTotal, e.Sold)
}

func (e *TotalBelowSoldError) Unwrap() error {
	return ErrTotalBelowSold
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a stale reference.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrAccessRequestNotFound)
}

// IsValidation returns true if the error is a business rule violation the
// user can correct by retrying with different input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrTotalBelowSold) ||
		errors.Is(err, ErrInvalidQuantity)
}

/*
quantity.go - Parsing typed quantities

PURPOSE:
  Users type quantities as free text. Parsing goes through decimal so that
  "5", "5.0" and " 5 " all read as five while "5.5", "abc" and "1e3" junk
  are rejected, without float round-trip surprises.
*/
package bot

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vinoteca/stockbot/ledger"
)

// ParseQuantity reads a strictly positive whole number from user text.
// Errors wrap ledger.ErrInvalidQuantity.
func ParseQuantity(text string) (int, error) {
	n, err := parseWhole(text)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d", ledger.ErrInvalidQuantity, n)
	}
	return n, nil
}

// ParseTotal reads a whole number >= 0, used for stock-total updates where
// zero is a valid total.
func ParseTotal(text string) (int, error) {
	n, err := parseWhole(text)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ledger.ErrInvalidQuantity, n)
	}
	return n, nil
}

func parseWhole(text string) (int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ledger.ErrInvalidQuantity, text)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: %q is not a whole number", ledger.ErrInvalidQuantity, text)
	}
	if !d.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %q out of range", ledger.ErrInvalidQuantity, text)
	}
	n := d.IntPart()
	if n > 1<<31-1 || n < -(1<<31) {
		return 0, fmt.Errorf("%w: %q out of range", ledger.ErrInvalidQuantity, text)
	}
	return int(n), nil
}

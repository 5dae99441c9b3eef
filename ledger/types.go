/*
Package ledger provides the core record collections of the inventory system.

PURPOSE:
  This package owns every durable entity: products, sales, clients, users,
  and pending access requests. All mutation happens through the Store so that
  consistency invariants hold at every observable instant.

KEY CONCEPTS IN THIS FILE (types.go):
  - Product: a stocked item with total and sold counters
  - Sale: an immutable ledger entry recording one sale
  - Client: a deduplicated buyer record (case-insensitive name key)
  - User: a chat identity with a role
  - AccessRequest: a pending grant request awaiting an administrator

DESIGN PRINCIPLES:
  1. Immutability: Sales are never edited or deleted once recorded
  2. Monotonic IDs: identifiers are max(existing)+1 and never reused
  3. Invariant: 0 <= remaining = total - sold <= total, always

SEE ALSO:
  - store.go: The in-memory Store and its operations
  - snapshot.go: Durable snapshot shape and forward migration
  - errors.go: Sentinel and structured error types
*/
package ledger

import (
	"strings"
	"time"
)

// =============================================================================
// ROLES
// =============================================================================

// Role is the access level of a chat user.
type Role string

const (
	RoleSeller        Role = "seller"
	RoleAdministrator Role = "administrator"
)

// =============================================================================
// PRODUCT
// =============================================================================

// Product is a stocked item. QtyTotal counts every unit ever stocked;
// QtySold counts units sold. Remaining stock is the difference.
type Product struct {
	ID       int
	Name     string
	Type     string
	QtyTotal int
	QtySold  int
}

// Remaining returns the sellable stock for the product.
func (p Product) Remaining() int {
	return p.QtyTotal - p.QtySold
}

// =============================================================================
// SALE
// =============================================================================

// Sale is one immutable entry in the sales ledger. ClientID is zero when the
// sale was recorded without a client; SellerID is empty when unknown.
type Sale struct {
	ID        int
	ProductID int
	Qty       int
	ClientID  int
	SellerID  string
	CreatedAt time.Time
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a deduplicated buyer. NameKey is the trimmed, case-folded form
// used for matching; NameDisplay keeps the first-seen casing.
type Client struct {
	ID          int
	NameKey     string
	NameDisplay string
}

// NormalizeClientName produces the dedup key for a client name.
// "john", "John" and " John " all map to the same key.
func NormalizeClientName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// =============================================================================
// USER
// =============================================================================

// User is a chat identity known to the system. ID is the opaque chat
// identifier assigned by the messaging gateway. Name is optional.
type User struct {
	ID   string
	Role Role
	Name string
}

// Display renders the user for chat messages: "Name (ChatID: id)" when a
// name is set, "ChatID: id" otherwise.
func (u User) Display() string {
	if u.Name != "" {
		return u.Name + " (ChatID: " + u.ID + ")"
	}
	return "ChatID: " + u.ID
}

// =============================================================================
// ACCESS REQUEST
// =============================================================================

// AccessRequest is a pending grant request. At most one live request exists
// per UserID; a new request supersedes any prior one.
type AccessRequest struct {
	UserID        string
	Handle        string
	RequestedName string
	CreatedAt     time.Time
}

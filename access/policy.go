/*
Package access decides what a given chat user may do.

PURPOSE:
  A Policy is built fresh for every incoming event from two sources: the
  users recorded in the ledger and the static administrator list from
  configuration. Static administrators always win, so the operator can never
  be locked out by a ledger edit.

ROLE MODEL:
  - administrator: full control (stock edits, user management, reports)
  - seller: record sales and browse stock
  - no role: may only request access

SEE ALSO:
  - ledger/types.go: Role constants and User records
  - bot: consults the policy before dispatching every interaction
*/
package access

import "github.com/vinoteca/stockbot/ledger"

// Policy answers role questions for a fixed set of users. Build one per
// event with NewPolicy; it is a cheap value and holds no locks.
type Policy struct {
	roles        map[string]ledger.Role
	staticAdmins map[string]bool
}

// NewPolicy builds a policy from the ledger's user records plus the static
// administrator ids from configuration.
func NewPolicy(users []ledger.User, staticAdmins []string) *Policy {
	p := &Policy{
		roles:        make(map[string]ledger.Role, len(users)),
		staticAdmins: make(map[string]bool, len(staticAdmins)),
	}
	for _, u := range users {
		p.roles[u.ID] = u.Role
	}
	for _, id := range staticAdmins {
		if id != "" {
			p.staticAdmins[id] = true
		}
	}
	return p
}

// RoleOf returns the effective role for the user and whether one exists.
// Static administrators are administrators regardless of ledger state.
func (p *Policy) RoleOf(userID string) (ledger.Role, bool) {
	if p.staticAdmins[userID] {
		return ledger.RoleAdministrator, true
	}
	role, ok := p.roles[userID]
	return role, ok
}

// IsAdmin reports whether the user holds the administrator role.
func (p *Policy) IsAdmin(userID string) bool {
	role, ok := p.RoleOf(userID)
	return ok && role == ledger.RoleAdministrator
}

// IsSeller reports whether the user holds the seller role. Administrators
// are not implicitly sellers; they hold every seller capability through
// HasAccess instead.
func (p *Policy) IsSeller(userID string) bool {
	role, ok := p.RoleOf(userID)
	return ok && role == ledger.RoleSeller
}

// HasAccess reports whether the user holds any role at all.
func (p *Policy) HasAccess(userID string) bool {
	_, ok := p.RoleOf(userID)
	return ok
}

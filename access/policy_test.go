package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vinoteca/stockbot/access"
	"github.com/vinoteca/stockbot/ledger"
)

func TestPolicy_RoleOf(t *testing.T) {
	users := []ledger.User{
		{ID: "100", Role: ledger.RoleSeller, Name: "Maria"},
		{ID: "200", Role: ledger.RoleAdministrator},
	}
	p := access.NewPolicy(users, []string{"999"})

	role, ok := p.RoleOf("100")
	assert.True(t, ok)
	assert.Equal(t, ledger.RoleSeller, role)

	role, ok = p.RoleOf("200")
	assert.True(t, ok)
	assert.Equal(t, ledger.RoleAdministrator, role)

	_, ok = p.RoleOf("300")
	assert.False(t, ok)
}

func TestPolicy_StaticAdminOverridesLedger(t *testing.T) {
	// GIVEN: a user demoted to seller in the ledger but present in the
	//        static administrator list
	// THEN: they remain an administrator

	users := []ledger.User{{ID: "999", Role: ledger.RoleSeller}}
	p := access.NewPolicy(users, []string{"999"})

	assert.True(t, p.IsAdmin("999"))
	assert.False(t, p.IsSeller("999"))
}

func TestPolicy_StaticAdminWithoutLedgerRecord(t *testing.T) {
	p := access.NewPolicy(nil, []string{"999", ""})

	assert.True(t, p.IsAdmin("999"))
	assert.True(t, p.HasAccess("999"))
	assert.False(t, p.HasAccess(""), "empty static admin entries are ignored")
}

func TestPolicy_HasAccess(t *testing.T) {
	p := access.NewPolicy([]ledger.User{{ID: "100", Role: ledger.RoleSeller}}, nil)

	assert.True(t, p.HasAccess("100"))
	assert.False(t, p.HasAccess("200"))
	assert.False(t, p.IsAdmin("100"))
	assert.True(t, p.IsSeller("100"))
}

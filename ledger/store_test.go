package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinoteca/stockbot/ledger"
)

// =============================================================================
// PRODUCT INVARIANT TESTS
// =============================================================================

func TestStore_AddProduct_AssignsMonotonicIDs(t *testing.T) {
	s := ledger.NewStore()

	p1, err := s.AddProduct("Prosecco Extra Dry", "Spumant", 50)
	require.NoError(t, err)
	p2, err := s.AddProduct("Prosecco Extra Brut", "Spumant", 40)
	require.NoError(t, err)

	assert.Equal(t, 1, p1.ID)
	assert.Equal(t, 2, p2.ID)

	require.NoError(t, s.DeleteProduct(p2.ID))
	p3, err := s.AddProduct("Prosecco DOC", "Spumant", 45)
	require.NoError(t, err)
	assert.Equal(t, 2, p3.ID, "max(existing)+1 after the max was deleted")
}

func TestStore_SetProductTotal_RejectsTotalBelowSold(t *testing.T) {
	// GIVEN: a product with 4 units sold
	// WHEN: setting the total below 4
	// THEN: the update is rejected and counters are unchanged

	s := ledger.NewStore()
	p, err := s.AddProduct("X", "T", 10)
	require.NoError(t, err)
	_, _, err = s.RecordSale(p.ID, 4, "", "")
	require.NoError(t, err)

	_, err = s.SetProductTotal(p.ID, 3)
	assert.ErrorIs(t, err, ledger.ErrTotalBelowSold)

	var tbe *ledger.TotalBelowSoldError
	assert.ErrorAs(t, err, &tbe)
	assert.Equal(t, 4, tbe.Sold)

	got, err := s.Product(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.QtyTotal)
	assert.Equal(t, 6, got.Remaining())
}

func TestStore_DecreaseProductTotal_CappedByRemaining(t *testing.T) {
	s := ledger.NewStore()
	p, err := s.AddProduct("X", "T", 10)
	require.NoError(t, err)
	_, _, err = s.RecordSale(p.ID, 7, "", "")
	require.NoError(t, err)

	// Only 3 remain; removing 4 must fail.
	_, err = s.DecreaseProductTotal(p.ID, 4)
	assert.ErrorIs(t, err, ledger.ErrInsufficientStock)

	got, err := s.DecreaseProductTotal(p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, got.QtyTotal)
	assert.Equal(t, 0, got.Remaining())
}

// =============================================================================
// SALE TESTS
// =============================================================================

func TestStore_RecordSale_AtomicOnInsufficientStock(t *testing.T) {
	// GIVEN: a product with 10 units remaining
	// WHEN: selling 11
	// THEN: no sale is recorded and sold stays unchanged

	s := ledger.NewStore()
	p, err := s.AddProduct("X", "T", 10)
	require.NoError(t, err)

	_, _, err = s.RecordSale(p.ID, 11, "Bob", "seller-1")
	assert.ErrorIs(t, err, ledger.ErrInsufficientStock)

	var ise *ledger.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, 10, ise.Remaining)

	assert.Empty(t, s.Sales())
	got, err := s.Product(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.QtySold)
	assert.Empty(t, s.Clients(), "client must not be created for a rejected sale")
}

func TestStore_RecordSale_AddThenSell(t *testing.T) {
	// GIVEN: product {name:"X", type:"T", qty_total:10}
	// WHEN: selling 4 with client "Bob"
	// THEN: one sale with qty=4, product sold=4 remaining=6, one client "Bob"

	s := ledger.NewStore()
	p, err := s.AddProduct("X", "T", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Remaining())

	sale, after, err := s.RecordSale(p.ID, 4, "Bob", "seller-1")
	require.NoError(t, err)

	assert.Equal(t, 4, sale.Qty)
	assert.Equal(t, p.ID, sale.ProductID)
	assert.Equal(t, "seller-1", sale.SellerID)
	assert.Equal(t, 4, after.QtySold)
	assert.Equal(t, 6, after.Remaining())

	clients := s.Clients()
	require.Len(t, clients, 1)
	assert.Equal(t, "Bob", clients[0].NameDisplay)
	assert.Equal(t, clients[0].ID, sale.ClientID)
}

func TestStore_RecordSale_WithoutClient(t *testing.T) {
	s := ledger.NewStore()
	p, err := s.AddProduct("X", "T", 5)
	require.NoError(t, err)

	sale, _, err := s.RecordSale(p.ID, 2, "   ", "")
	require.NoError(t, err)
	assert.Zero(t, sale.ClientID, "whitespace-only client name resolves to no client")
	assert.Empty(t, s.Clients())
}

func TestStore_RecordSale_RejectsNonPositiveQty(t *testing.T) {
	s := ledger.NewStore()
	p, err := s.AddProduct("X", "T", 5)
	require.NoError(t, err)

	for _, qty := range []int{0, -1} {
		_, _, err := s.RecordSale(p.ID, qty, "", "")
		assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)
	}
}

// =============================================================================
// CLIENT DEDUP TESTS
// =============================================================================

func TestStore_ClientDedup_CaseInsensitive(t *testing.T) {
	// GIVEN: sales naming "Ana", "ana" and " Ana "
	// THEN: exactly one client exists, displaying the first-seen trimmed form

	s := ledger.NewStore()
	p, err := s.AddProduct("X", "T", 10)
	require.NoError(t, err)

	for _, name := range []string{"Ana", "ana", " Ana "} {
		_, _, err := s.RecordSale(p.ID, 1, name, "")
		require.NoError(t, err)
	}

	clients := s.Clients()
	require.Len(t, clients, 1)
	assert.Equal(t, "Ana", clients[0].NameDisplay)
	assert.Equal(t, "ana", clients[0].NameKey)
}

// =============================================================================
// USER TESTS
// =============================================================================

func TestStore_UserByIDOrName(t *testing.T) {
	s := ledger.NewStore()
	s.UpsertUser("100", ledger.RoleSeller, "Maria Ionescu")
	s.UpsertUser("200", ledger.RoleAdministrator, "")

	byID, err := s.UserByIDOrName("200")
	require.NoError(t, err)
	assert.Equal(t, ledger.RoleAdministrator, byID.Role)

	byName, err := s.UserByIDOrName("maria ionescu")
	require.NoError(t, err)
	assert.Equal(t, "100", byName.ID)

	partial, err := s.UserByIDOrName("ionescu")
	require.NoError(t, err)
	assert.Equal(t, "100", partial.ID)

	_, err = s.UserByIDOrName("nobody")
	assert.ErrorIs(t, err, ledger.ErrUserNotFound)
}

func TestStore_UpsertUser_UpdatesRoleKeepsName(t *testing.T) {
	s := ledger.NewStore()
	s.UpsertUser("100", ledger.RoleSeller, "Maria")

	u := s.UpsertUser("100", ledger.RoleAdministrator, "")
	assert.Equal(t, ledger.RoleAdministrator, u.Role)
	assert.Equal(t, "Maria", u.Name, "empty upsert name must not clear the stored name")
}

// =============================================================================
// ACCESS REQUEST TESTS
// =============================================================================

func TestStore_PutAccessRequest_SupersedesPrior(t *testing.T) {
	s := ledger.NewStore()
	s.PutAccessRequest("100", "@maria", "Maria")
	s.PutAccessRequest("100", "@maria", "Maria Ionescu")

	reqs := s.AccessRequests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Maria Ionescu", reqs[0].RequestedName)

	require.NoError(t, s.RemoveAccessRequest("100"))
	assert.ErrorIs(t, s.RemoveAccessRequest("100"), ledger.ErrAccessRequestNotFound)
}

// =============================================================================
// SNAPSHOT TESTS
// =============================================================================

func TestStore_SnapshotRestore_RoundTrip(t *testing.T) {
	s := ledger.NewStore()
	p, err := s.AddProduct("X", "T", 10)
	require.NoError(t, err)
	_, _, err = s.RecordSale(p.ID, 3, "Ana", "100")
	require.NoError(t, err)
	s.UpsertUser("100", ledger.RoleSeller, "Maria")
	s.PutAccessRequest("200", "@ion", "Ion")

	snap := s.Snapshot()

	restored := ledger.NewStore()
	restored.Restore(snap)

	assert.Equal(t, s.Products(), restored.Products())
	assert.Equal(t, s.Sales(), restored.Sales())
	assert.Equal(t, s.Clients(), restored.Clients())
	assert.Equal(t, s.Users(), restored.Users())
	assert.Equal(t, s.AccessRequests(), restored.AccessRequests())
}

func TestStore_Restore_NilSnapshotMigratesToEmpty(t *testing.T) {
	s := ledger.NewStore()
	_, err := s.AddProduct("X", "T", 1)
	require.NoError(t, err)

	s.Restore(nil)
	assert.Empty(t, s.Products())

	s.Restore(&ledger.Snapshot{Products: []ledger.Product{{ID: 7, Name: "Y"}}})
	products := s.Products()
	require.Len(t, products, 1)
	assert.Equal(t, 7, products[0].ID)
	assert.Empty(t, s.Sales(), "missing collections default to empty")
}

func TestStore_Snapshot_IsDeepCopy(t *testing.T) {
	s := ledger.NewStore()
	p, err := s.AddProduct("X", "T", 1)
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.Products[0].Name = "mutated"

	got, err := s.Product(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "X", got.Name)
}

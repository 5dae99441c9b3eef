package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinoteca/stockbot/ledger"
	"github.com/vinoteca/stockbot/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_Load_EmptyDatabase(t *testing.T) {
	s := newTestStore(t)

	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Empty(t, snap.Products)
	assert.Empty(t, snap.Sales)
	assert.Empty(t, snap.Clients)
	assert.Empty(t, snap.Users)
	assert.Empty(t, snap.AccessRequests)
}

func TestStore_SaveLoad_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	soldAt := time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)
	snap := &ledger.Snapshot{
		Products: []ledger.Product{
			{ID: 1, Name: "Prosecco Extra Dry", Type: "Spumant", QtyTotal: 50, QtySold: 4},
			{ID: 2, Name: "Merlot", Type: "", QtyTotal: 20, QtySold: 0},
		},
		Sales: []ledger.Sale{
			{ID: 1, ProductID: 1, Qty: 4, ClientID: 1, SellerID: "100", CreatedAt: soldAt},
		},
		Clients: []ledger.Client{
			{ID: 1, NameKey: "ana", NameDisplay: "Ana"},
		},
		Users: []ledger.User{
			{ID: "100", Role: ledger.RoleSeller, Name: "Maria"},
			{ID: "200", Role: ledger.RoleAdministrator, Name: ""},
		},
		AccessRequests: []ledger.AccessRequest{
			{UserID: "300", Handle: "@ion", RequestedName: "Ion", CreatedAt: soldAt},
		},
	}

	require.NoError(t, s.Save(ctx, snap))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Products, loaded.Products)
	assert.Equal(t, snap.Sales, loaded.Sales)
	assert.Equal(t, snap.Clients, loaded.Clients)
	assert.Equal(t, snap.Users, loaded.Users)
	assert.Equal(t, snap.AccessRequests, loaded.AccessRequests)
}

func TestStore_Save_OverwritesPriorSnapshot(t *testing.T) {
	// GIVEN: a saved snapshot with two products
	// WHEN: a later snapshot with one different product is saved
	// THEN: only the later snapshot is loadable

	s := newTestStore(t)
	ctx := context.Background()

	first := &ledger.Snapshot{Products: []ledger.Product{
		{ID: 1, Name: "A", QtyTotal: 1},
		{ID: 2, Name: "B", QtyTotal: 2},
	}}
	require.NoError(t, s.Save(ctx, first))

	second := &ledger.Snapshot{Products: []ledger.Product{
		{ID: 5, Name: "C", QtyTotal: 3},
	}}
	require.NoError(t, s.Save(ctx, second))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Products, 1)
	assert.Equal(t, 5, loaded.Products[0].ID)
}

func TestStore_Save_NilSnapshotClears(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &ledger.Snapshot{Products: []ledger.Product{{ID: 1, Name: "A"}}}))
	require.NoError(t, s.Save(ctx, nil))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.Products)
}

func TestStore_RoundTrip_ThroughLedger(t *testing.T) {
	// Exercises the full boot path: mutate a ledger, persist it, load into a
	// fresh ledger and check the collections match.

	s := newTestStore(t)
	ctx := context.Background()

	src := ledger.NewStore()
	p, err := src.AddProduct("Prosecco DOC", "Spumant", 45)
	require.NoError(t, err)
	_, _, err = src.RecordSale(p.ID, 3, "Bob", "100")
	require.NoError(t, err)
	src.UpsertUser("100", ledger.RoleSeller, "Maria")

	require.NoError(t, s.Save(ctx, src.Snapshot()))

	snap, err := s.Load(ctx)
	require.NoError(t, err)

	dst := ledger.NewStore()
	dst.Restore(snap)

	assert.Equal(t, src.Products(), dst.Products())
	assert.Equal(t, src.Clients(), dst.Clients())
	assert.Equal(t, src.Users(), dst.Users())

	srcSales, dstSales := src.Sales(), dst.Sales()
	require.Len(t, dstSales, len(srcSales))
	assert.Equal(t, srcSales[0].Qty, dstSales[0].Qty)
	assert.True(t, srcSales[0].CreatedAt.Equal(dstSales[0].CreatedAt))
}

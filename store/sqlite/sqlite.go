/*
Package sqlite provides a SQLite-backed implementation of ledger.SnapshotStore.

PURPOSE:
  Persists the ledger snapshot (products, sales, clients, users, pending
  access requests) to a single SQLite database file. The in-memory ledger is
  the source of truth at runtime; this store is its durable shadow.

SNAPSHOT SEMANTICS:
  Save rewrites every table inside one SQL transaction, so readers never see
  a partially written snapshot and a crash mid-save leaves the previous
  snapshot intact. The ledger is small (a single shop), so a full rewrite is
  cheaper than tracking dirty records.

FORWARD MIGRATION:
  Schema is auto-migrated on New() with CREATE TABLE IF NOT EXISTS; loading a
  fresh or older database yields empty collections. Nullable columns scan
  into zero values, so records written before a field existed load cleanly.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better crash recovery.

USAGE:
  store, err := sqlite.New("./data/stockbot.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  snap, err := store.Load(ctx)   // boot
  err = store.Save(ctx, ledger.Snapshot())  // after each mutation batch

SEE ALSO:
  - ledger/snapshot.go: Snapshot shape and SnapshotStore contract
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vinoteca/stockbot/ledger"
)

// Store implements ledger.SnapshotStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a new SQLite snapshot store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT,
		qty_total INTEGER NOT NULL DEFAULT 0,
		qty_sold INTEGER NOT NULL DEFAULT 0
	);

	-- Sales are an immutable history; product_id is NOT a foreign key on
	-- purpose, deleted products leave their sales behind.
	CREATE TABLE IF NOT EXISTS sales (
		id INTEGER PRIMARY KEY,
		product_id INTEGER NOT NULL,
		qty INTEGER NOT NULL,
		client_id INTEGER,
		seller_id TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at);

	CREATE TABLE IF NOT EXISTS clients (
		id INTEGER PRIMARY KEY,
		name_key TEXT NOT NULL,
		name_display TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_clients_name_key ON clients(name_key);

	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		role TEXT NOT NULL,
		name TEXT
	);

	CREATE TABLE IF NOT EXISTS access_requests (
		user_id TEXT PRIMARY KEY,
		handle TEXT,
		requested_name TEXT,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SNAPSHOT STORE (ledger.SnapshotStore interface)
// =============================================================================

// Save rewrites the whole snapshot atomically.
func (s *Store) Save(ctx context.Context, snap *ledger.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap == nil {
		snap = &ledger.Snapshot{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot save: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"products", "sales", "clients", "users", "access_requests"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, p := range snap.Products {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO products (id, name, type, qty_total, qty_sold) VALUES (?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Type, p.QtyTotal, p.QtySold)
		if err != nil {
			return fmt.Errorf("failed to save product #%d: %w", p.ID, err)
		}
	}

	for _, sa := range snap.Sales {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sales (id, product_id, qty, client_id, seller_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			sa.ID, sa.ProductID, sa.Qty, nullInt(sa.ClientID), nullString(sa.SellerID),
			sa.CreatedAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("failed to save sale #%d: %w", sa.ID, err)
		}
	}

	for _, c := range snap.Clients {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO clients (id, name_key, name_display) VALUES (?, ?, ?)`,
			c.ID, c.NameKey, c.NameDisplay)
		if err != nil {
			return fmt.Errorf("failed to save client #%d: %w", c.ID, err)
		}
	}

	for _, u := range snap.Users {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, role, name) VALUES (?, ?, ?)`,
			u.ID, string(u.Role), nullString(u.Name))
		if err != nil {
			return fmt.Errorf("failed to save user %s: %w", u.ID, err)
		}
	}

	for _, r := range snap.AccessRequests {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO access_requests (user_id, handle, requested_name, created_at) VALUES (?, ?, ?, ?)`,
			r.UserID, nullString(r.Handle), nullString(r.RequestedName),
			r.CreatedAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("failed to save access request for %s: %w", r.UserID, err)
		}
	}

	return tx.Commit()
}

// Load reads the whole snapshot. Missing tables cannot occur (migrate runs
// in New); missing per-record fields load as zero values.
func (s *Store) Load(ctx context.Context) (*ledger.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &ledger.Snapshot{}

	if err := s.loadProducts(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadSales(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadClients(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadUsers(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadAccessRequests(ctx, snap); err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *Store) loadProducts(ctx context.Context, snap *ledger.Snapshot) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, type, qty_total, qty_sold FROM products ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p ledger.Product
		var typ sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &typ, &p.QtyTotal, &p.QtySold); err != nil {
			return fmt.Errorf("failed to scan product: %w", err)
		}
		p.Type = typ.String
		snap.Products = append(snap.Products, p)
	}
	return rows.Err()
}

func (s *Store) loadSales(ctx context.Context, snap *ledger.Snapshot) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_id, qty, client_id, seller_id, created_at FROM sales ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to load sales: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sa ledger.Sale
		var clientID sql.NullInt64
		var sellerID sql.NullString
		var createdAt string
		if err := rows.Scan(&sa.ID, &sa.ProductID, &sa.Qty, &clientID, &sellerID, &createdAt); err != nil {
			return fmt.Errorf("failed to scan sale: %w", err)
		}
		sa.ClientID = int(clientID.Int64)
		sa.SellerID = sellerID.String
		sa.CreatedAt = parseTime(createdAt)
		snap.Sales = append(snap.Sales, sa)
	}
	return rows.Err()
}

func (s *Store) loadClients(ctx context.Context, snap *ledger.Snapshot) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name_key, name_display FROM clients ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to load clients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c ledger.Client
		if err := rows.Scan(&c.ID, &c.NameKey, &c.NameDisplay); err != nil {
			return fmt.Errorf("failed to scan client: %w", err)
		}
		snap.Clients = append(snap.Clients, c)
	}
	return rows.Err()
}

func (s *Store) loadUsers(ctx context.Context, snap *ledger.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, role, name FROM users ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u ledger.User
		var role string
		var name sql.NullString
		if err := rows.Scan(&u.ID, &role, &name); err != nil {
			return fmt.Errorf("failed to scan user: %w", err)
		}
		u.Role = ledger.Role(role)
		u.Name = name.String
		snap.Users = append(snap.Users, u)
	}
	return rows.Err()
}

func (s *Store) loadAccessRequests(ctx context.Context, snap *ledger.Snapshot) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, handle, requested_name, created_at FROM access_requests ORDER BY created_at`)
	if err != nil {
		return fmt.Errorf("failed to load access requests: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r ledger.AccessRequest
		var handle, requestedName sql.NullString
		var createdAt string
		if err := rows.Scan(&r.UserID, &handle, &requestedName, &createdAt); err != nil {
			return fmt.Errorf("failed to scan access request: %w", err)
		}
		r.Handle = handle.String
		r.RequestedName = requestedName.String
		r.CreatedAt = parseTime(createdAt)
		snap.AccessRequests = append(snap.AccessRequests, r)
	}
	return rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(i int) any {
	if i == 0 {
		return nil
	}
	return i
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

/*
snapshot.go - Durable snapshot shape and the SnapshotStore contract

PURPOSE:
  The ledger persists as a snapshot of its five record collections. The
  in-memory Store produces and consumes snapshots; a SnapshotStore writes
  them to durable storage and reads them back on boot.

FORWARD MIGRATION:
  Older snapshots may lack whole collections or per-record fields. Restore
  treats nil collections as empty, and record fields keep their zero values
  when absent, so any historical snapshot loads cleanly.

SEE ALSO:
  - store/sqlite: SQLite-backed SnapshotStore
*/
package ledger

import "context"

// Snapshot is a point-in-time copy of every record collection.
type Snapshot struct {
	Products       []Product
	Sales          []Sale
	Clients        []Client
	Users          []User
	AccessRequests []AccessRequest
}

// SnapshotStore persists ledger snapshots. Save must be atomic: a reader
// never observes a partially written snapshot.
type SnapshotStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}

// Snapshot returns a deep copy of the current ledger contents.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{
		Products:       make([]Product, len(s.products)),
		Sales:          make([]Sale, len(s.sales)),
		Clients:        make([]Client, len(s.clients)),
		Users:          make([]User, len(s.users)),
		AccessRequests: make([]AccessRequest, len(s.accessRequests)),
	}
	copy(snap.Products, s.products)
	copy(snap.Sales, s.sales)
	copy(snap.Clients, s.clients)
	copy(snap.Users, s.users)
	copy(snap.AccessRequests, s.accessRequests)
	return snap
}

// Restore replaces the ledger contents with the snapshot. A nil snapshot or
// nil collections restore to empty, which is how missing collections in old
// snapshots are migrated forward.
func (s *Store) Restore(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap == nil {
		snap = &Snapshot{}
	}
	s.products = append([]Product(nil), snap.Products...)
	s.sales = append([]Sale(nil), snap.Sales...)
	s.clients = append([]Client(nil), snap.Clients...)
	s.users = append([]User(nil), snap.Users...)
	s.accessRequests = append([]AccessRequest(nil), snap.AccessRequests...)
}

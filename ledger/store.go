/*
store.go - In-memory ledger store

PURPOSE:
  Holds all record collections in memory and exposes atomic operations on
  them. Every operation takes the store lock, so a read-then-write sequence
  such as "check remaining stock, then insert sale" cannot interleave with
  another writer.

PERSISTENCE:
  The store does NOT auto-persist. Callers run one or more mutations and then
  call SnapshotStore.Save with the result of Snapshot(). A crash between
  mutation and save loses the mutation; that is the accepted durability
  contract.

ID ASSIGNMENT:
  Each collection assigns max(existing ids)+1 (or 1 when empty). Identifiers
  are never reused, even after deletion.

CONCURRENCY:
  Inbound chat events are serialized by a single-consumer queue, so the lock
  is belt and braces. It keeps the store safe for ad-hoc readers (reports,
  snapshots) running alongside the event loop.

SEE ALSO:
  - snapshot.go: Snapshot/Restore and the SnapshotStore interface
  - store/sqlite: Durable snapshot implementation
*/
package ledger

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Store is the in-memory ledger. Zero value is not usable; call NewStore.
type Store struct {
	mu             sync.RWMutex
	products       []Product
	sales          []Sale
	clients        []Client
	users          []User
	accessRequests []AccessRequest
}

// NewStore creates an empty ledger store.
func NewStore() *Store {
	return &Store{}
}

// =============================================================================
// PRODUCTS
// =============================================================================

// Product returns the product with the given id.
func (s *Store) Product(id int) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p := s.findProduct(id); p != nil {
		return *p, nil
	}
	return Product{}, ErrProductNotFound
}

// Products returns all products ordered by id ascending.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ProductsInStock returns products with remaining stock, ordered by id.
func (s *Store) ProductsInStock() []Product {
	all := s.Products()
	out := all[:0]
	for _, p := range all {
		if p.Remaining() > 0 {
			out = append(out, p)
		}
	}
	return out
}

// AddProduct creates a new product with zero sold quantity.
func (s *Store) AddProduct(name, typ string, qtyTotal int) (Product, error) {
	if qtyTotal < 0 {
		return Product{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := Product{
		ID:       nextProductID(s.products),
		Name:     name,
		Type:     typ,
		QtyTotal: qtyTotal,
	}
	s.products = append(s.products, p)
	return p, nil
}

// RenameProduct changes a product's display name.
func (s *Store) RenameProduct(id int, name string) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProduct(id)
	if p == nil {
		return Product{}, ErrProductNotFound
	}
	p.Name = name
	return *p, nil
}

// SetProductTotal sets the total stocked quantity. The new total must not
// drop below the quantity already sold; remaining stock stays >= 0.
func (s *Store) SetProductTotal(id, total int) (Product, error) {
	if total < 0 {
		return Product{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProduct(id)
	if p == nil {
		return Product{}, ErrProductNotFound
	}
	if total < p.QtySold {
		return Product{}, &TotalBelowSoldError{ProductID: id, NewTotal: total, Sold: p.QtySold}
	}
	p.QtyTotal = total
	return *p, nil
}

// IncreaseProductTotal restocks a product by qty units.
func (s *Store) IncreaseProductTotal(id, qty int) (Product, error) {
	if qty <= 0 {
		return Product{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProduct(id)
	if p == nil {
		return Product{}, ErrProductNotFound
	}
	p.QtyTotal += qty
	return *p, nil
}

// DecreaseProductTotal removes qty units from the total. Removal is capped by
// remaining stock so sold units are never un-stocked.
func (s *Store) DecreaseProductTotal(id, qty int) (Product, error) {
	if qty <= 0 {
		return Product{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProduct(id)
	if p == nil {
		return Product{}, ErrProductNotFound
	}
	if qty > p.Remaining() {
		return Product{}, &InsufficientStockError{ProductID: id, Requested: qty, Remaining: p.Remaining()}
	}
	p.QtyTotal -= qty
	return *p, nil
}

// DeleteProduct removes a product. Historical sales keep referencing the id;
// reports render those as unknown product.
func (s *Store) DeleteProduct(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return ErrProductNotFound
}

func (s *Store) findProduct(id int) *Product {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i]
		}
	}
	return nil
}

func nextProductID(products []Product) int {
	max := 0
	for _, p := range products {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

// =============================================================================
// SALES
// =============================================================================

// RecordSale validates remaining stock, resolves the client, appends one sale
// and increments the product's sold counter, all under one lock acquisition.
// The returned product carries the post-mutation counters.
//
// An empty or whitespace-only clientName records the sale without a client.
func (s *Store) RecordSale(productID, qty int, clientName, sellerID string) (Sale, Product, error) {
	if qty <= 0 {
		return Sale{}, Product{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProduct(productID)
	if p == nil {
		return Sale{}, Product{}, ErrProductNotFound
	}
	if qty > p.Remaining() {
		return Sale{}, Product{}, &InsufficientStockError{ProductID: productID, Requested: qty, Remaining: p.Remaining()}
	}

	clientID := 0
	if client, ok := s.resolveOrCreateClientLocked(clientName); ok {
		clientID = client.ID
	}

	sale := Sale{
		ID:        nextSaleID(s.sales),
		ProductID: productID,
		Qty:       qty,
		ClientID:  clientID,
		SellerID:  sellerID,
		CreatedAt: time.Now().UTC(),
	}
	s.sales = append(s.sales, sale)
	p.QtySold += qty
	return sale, *p, nil
}

// Sales returns all sales in insertion order.
func (s *Store) Sales() []Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Sale, len(s.sales))
	copy(out, s.sales)
	return out
}

func nextSaleID(sales []Sale) int {
	max := 0
	for _, sa := range sales {
		if sa.ID > max {
			max = sa.ID
		}
	}
	return max + 1
}

// =============================================================================
// CLIENTS
// =============================================================================

// ResolveOrCreateClient normalizes the name and returns the matching client,
// creating one if needed. Empty or whitespace-only names resolve to no
// client (ok=false), not an error.
func (s *Store) ResolveOrCreateClient(name string) (Client, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveOrCreateClientLocked(name)
}

func (s *Store) resolveOrCreateClientLocked(name string) (Client, bool) {
	key := NormalizeClientName(name)
	if key == "" {
		return Client{}, false
	}
	for _, c := range s.clients {
		if c.NameKey == key {
			return c, true
		}
	}
	c := Client{
		ID:          nextClientID(s.clients),
		NameKey:     key,
		NameDisplay: strings.TrimSpace(name),
	}
	s.clients = append(s.clients, c)
	return c, true
}

// Client returns the client with the given id.
func (s *Store) Client(id int) (Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.clients {
		if c.ID == id {
			return c, true
		}
	}
	return Client{}, false
}

// Clients returns all clients.
func (s *Store) Clients() []Client {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Client, len(s.clients))
	copy(out, s.clients)
	return out
}

func nextClientID(clients []Client) int {
	max := 0
	for _, c := range clients {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}

// =============================================================================
// USERS
// =============================================================================

// User returns the user with the given chat id.
func (s *Store) User(id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u := s.findUser(id); u != nil {
		return *u, nil
	}
	return User{}, ErrUserNotFound
}

// UserByIDOrName finds a user by exact chat id, exact name (case-insensitive)
// or partial name match, in that order of preference.
func (s *Store) UserByIDOrName(ident string) (User, error) {
	ident = strings.TrimSpace(ident)
	if ident == "" {
		return User{}, ErrUserNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if u := s.findUser(ident); u != nil {
		return *u, nil
	}
	lower := strings.ToLower(ident)
	for _, u := range s.users {
		if u.Name != "" && strings.ToLower(u.Name) == lower {
			return u, nil
		}
	}
	for _, u := range s.users {
		if u.Name != "" && strings.Contains(strings.ToLower(u.Name), lower) {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

// Users returns all users.
func (s *Store) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]User, len(s.users))
	copy(out, s.users)
	return out
}

// UpsertUser creates the user or updates its role, and its name when a
// non-empty one is given.
func (s *Store) UpsertUser(id string, role Role, name string) User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u := s.findUser(id); u != nil {
		u.Role = role
		if name != "" {
			u.Name = name
		}
		return *u
	}
	u := User{ID: id, Role: role, Name: name}
	s.users = append(s.users, u)
	return u
}

// SetUserRole changes an existing user's role.
func (s *Store) SetUserRole(id string, role Role) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.findUser(id)
	if u == nil {
		return User{}, ErrUserNotFound
	}
	u.Role = role
	return *u, nil
}

// SetUserName changes an existing user's display name. An empty name clears it.
func (s *Store) SetUserName(id string, name string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.findUser(id)
	if u == nil {
		return User{}, ErrUserNotFound
	}
	u.Name = name
	return *u, nil
}

// DeleteUser removes a user. Role guards (never delete an administrator) are
// the caller's responsibility.
func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, u := range s.users {
		if u.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return ErrUserNotFound
}

func (s *Store) findUser(id string) *User {
	for i := range s.users {
		if s.users[i].ID == id {
			return &s.users[i]
		}
	}
	return nil
}

// =============================================================================
// ACCESS REQUESTS
// =============================================================================

// PutAccessRequest records a pending access request, superseding any prior
// request from the same user.
func (s *Store) PutAccessRequest(userID, handle, requestedName string) AccessRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeAccessRequestLocked(userID)
	req := AccessRequest{
		UserID:        userID,
		Handle:        handle,
		RequestedName: requestedName,
		CreatedAt:     time.Now().UTC(),
	}
	s.accessRequests = append(s.accessRequests, req)
	return req
}

// AccessRequest returns the pending request for a user.
func (s *Store) AccessRequest(userID string) (AccessRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.accessRequests {
		if r.UserID == userID {
			return r, nil
		}
	}
	return AccessRequest{}, ErrAccessRequestNotFound
}

// AccessRequests returns all pending requests.
func (s *Store) AccessRequests() []AccessRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]AccessRequest, len(s.accessRequests))
	copy(out, s.accessRequests)
	return out
}

// RemoveAccessRequest drops the pending request for a user.
func (s *Store) RemoveAccessRequest(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.removeAccessRequestLocked(userID) {
		return nil
	}
	return ErrAccessRequestNotFound
}

func (s *Store) removeAccessRequestLocked(userID string) bool {
	for i, r := range s.accessRequests {
		if r.UserID == userID {
			s.accessRequests = append(s.accessRequests[:i], s.accessRequests[i+1:]...)
			return true
		}
	}
	return false
}

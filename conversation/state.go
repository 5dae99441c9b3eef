/*
Package conversation tracks per-user multi-step flow state.

PURPOSE:
  Several chat flows span more than one message: adding a product asks for
  name, then type, then quantity; recording a sale may ask for a quantity
  and then a client name. Between messages the router remembers where each
  user is with a Mode plus the data collected so far.

LIFECYCLE:
  State is in-memory only and scoped to one user. Any main-menu button,
  /start or /menu clears it, so a user can always bail out of a half-done
  flow. State does not survive a restart; an interrupted flow simply starts
  over.

SEE ALSO:
  - bot: reads and writes conversation state on every text message
*/
package conversation

import "sync"

// Mode identifies which multi-step flow a user is in the middle of, and
// which step. ModeNone means free text is ignored.
type Mode string

const (
	ModeNone Mode = ""

	// Product creation, three steps in order.
	ModeAddName Mode = "add_name"
	ModeAddType Mode = "add_type"
	ModeAddQty  Mode = "add_qty"

	// Product maintenance.
	ModeRenameWait    Mode = "rename_wait"
	ModeSetTotalWait  Mode = "set_wait"
	ModeDeleteConfirm Mode = "delete_confirm"
	ModeQtyAdd        Mode = "await_qty_add"
	ModeQtyRemove     Mode = "await_qty_remove"

	// Sale recording.
	ModeSaleQty    Mode = "await_qty_for_sale"
	ModeClientName Mode = "await_client_name"

	// User management (administrators only).
	ModeAddSellerID     Mode = "add_seller_chatid"
	ModeAddSellerName   Mode = "add_seller_name"
	ModeChangeRoleID    Mode = "change_role_chatid"
	ModeChangeRolePick  Mode = "change_role_select"
	ModeChangeUserID    Mode = "change_username_chatid"
	ModeChangeUserValue Mode = "change_username_value"
	ModeRemoveSellerID  Mode = "remove_seller_chatid"

	// Self service.
	ModeChangeMyName Mode = "change_myname"

	// Access requests from users without a role.
	ModeAccessName Mode = "await_access_name"
)

// State is one user's position in a multi-step flow plus the data collected
// along the way. Only the fields the current Mode needs are meaningful.
type State struct {
	Mode Mode

	// ProductID is the product being edited, deleted or sold.
	ProductID int

	// Qty carries a quantity between the quantity step and the client-name
	// step of a sale.
	Qty int

	// DraftName and DraftType accumulate product creation input.
	DraftName string
	DraftType string

	// TargetUserID is the user being managed in an admin flow.
	TargetUserID string
}

// Store holds the state of every user currently inside a flow.
type Store struct {
	mu     sync.Mutex
	states map[string]State
}

// NewStore creates an empty conversation store.
func NewStore() *Store {
	return &Store{states: make(map[string]State)}
}

// Get returns the user's state and whether they are inside a flow.
func (s *Store) Get(userID string) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[userID]
	return st, ok
}

// Set replaces the user's state.
func (s *Store) Set(userID string, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[userID] = st
}

// Clear drops the user's state. Clearing a user with no state is a no-op.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, userID)
}

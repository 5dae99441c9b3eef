/*
router.go - Event dispatch

PURPOSE:
  HandleEvent is the single entry point for every incoming interaction. The
  gateway calls it from one consumer goroutine, so events are processed
  strictly in arrival order and read-then-write flows never interleave.

DISPATCH ORDER for text events:
  1. Commands (/start, /menu, /chatid)
  2. Menu button labels - these always clear any in-flight flow, so the
     persistent keyboard doubles as a universal escape hatch
  3. The user's conversation state, if any
  4. Otherwise the text is silently ignored

  Button events are parsed against the action grammar and dispatched by
  kind. Unknown actions are logged and ignored.

SEE ALSO:
  - products.go, sales.go, users.go, access.go, reports.go: the flows
*/
package bot

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vinoteca/stockbot/access"
	"github.com/vinoteca/stockbot/conversation"
	"github.com/vinoteca/stockbot/ledger"
	"github.com/vinoteca/stockbot/paging"
	"github.com/vinoteca/stockbot/report"
)

// Router routes chat events to ledger operations and replies.
type Router struct {
	ledger   *ledger.Store
	states   *conversation.Store
	snaps    ledger.SnapshotStore
	out      Replier
	log      *logrus.Logger
	admins   []string
	perPage  int
	renderer report.Renderer
	clock    func() time.Time
}

// Params collects the router's dependencies. Renderer, PerPage and Clock
// are optional.
type Params struct {
	Ledger       *ledger.Store
	States       *conversation.Store
	Snapshots    ledger.SnapshotStore
	Replier      Replier
	Log          *logrus.Logger
	StaticAdmins []string
	PerPage      int
	Renderer     report.Renderer
	Clock        func() time.Time
}

// NewRouter creates a router.
func NewRouter(p Params) *Router {
	if p.PerPage < 1 {
		p.PerPage = paging.DefaultPerPage
	}
	if p.Renderer == nil {
		p.Renderer = &report.TextRenderer{}
	}
	if p.Clock == nil {
		p.Clock = time.Now
	}
	if p.Log == nil {
		p.Log = logrus.New()
	}
	return &Router{
		ledger:   p.Ledger,
		states:   p.States,
		snaps:    p.Snapshots,
		out:      p.Replier,
		log:      p.Log,
		admins:   p.StaticAdmins,
		perPage:  p.PerPage,
		renderer: p.Renderer,
		clock:    p.Clock,
	}
}

// policy builds the access policy for the current event. It is rebuilt per
// event so role changes apply immediately.
func (r *Router) policy() *access.Policy {
	return access.NewPolicy(r.ledger.Users(), r.admins)
}

// HandleEvent processes one event. Errors are delivery failures only;
// user mistakes are answered in-band.
func (r *Router) HandleEvent(ctx context.Context, ev Event) error {
	if ev.UserID == "" {
		r.log.Warn("event without user id dropped")
		return nil
	}
	if ev.Action != "" {
		return r.handleAction(ctx, ev)
	}
	return r.handleText(ctx, ev)
}

// =============================================================================
// TEXT DISPATCH
// =============================================================================

func (r *Router) handleText(ctx context.Context, ev Event) error {
	text := strings.TrimSpace(ev.Text)

	if text == "" {
		r.states.Clear(ev.UserID)
		return r.showMenu(ctx, ev, "")
	}

	if strings.HasPrefix(text, "/") {
		return r.handleCommand(ctx, ev, text)
	}

	if r.isMenuButton(text) {
		r.states.Clear(ev.UserID)
		return r.handleMenuButton(ctx, ev, text)
	}

	if st, ok := r.states.Get(ev.UserID); ok {
		return r.handleState(ctx, ev, st, text)
	}

	r.log.WithFields(logrus.Fields{
		"user": ev.UserID,
	}).Debug("free text without active flow ignored")
	return nil
}

func (r *Router) handleCommand(ctx context.Context, ev Event, text string) error {
	cmd := strings.Fields(text)[0]
	switch cmd {
	case "/start", "/menu":
		r.states.Clear(ev.UserID)
		return r.handleStart(ctx, ev)
	case "/chatid":
		return r.send(ctx, ev.UserID, Reply{Text: accountInfo(ev.UserID, ev.Handle), RemoveKeyboard: true})
	default:
		r.log.WithField("command", cmd).Debug("unknown command ignored")
		return nil
	}
}

func (r *Router) handleStart(ctx context.Context, ev Event) error {
	pol := r.policy()
	if !pol.HasAccess(ev.UserID) {
		text := accountInfo(ev.UserID, ev.Handle) +
			"\n\n❌ Nu aveți acces la acest bot.\n\nContactați un administrator pentru a vă acorda acces."
		return r.send(ctx, ev.UserID, Reply{Text: text, Inline: accessRequestMenu(), RemoveKeyboard: true})
	}
	return r.send(ctx, ev.UserID, Reply{
		Text:     "👋 Bun venit! Bot de gestiune stoc. Totul pe butoane.",
		Keyboard: r.mainMenuFor(ev.UserID),
	})
}

// isMenuButton reports whether text is a known persistent-keyboard label.
func (r *Router) isMenuButton(text string) bool {
	switch text {
	case BtnLista, BtnStoc, BtnVinde, BtnVanzari, BtnEditare,
		BtnSetari, BtnSetariPlain, BtnChangeMyName,
		BtnInapoi, BtnInapoiArrow, BtnMeniu,
		BtnEditor, BtnAdaugaQty, BtnScoateQty, BtnAdauga, BtnScoate, BtnProdusNou,
		BtnVindeCart, BtnRaportWeek, BtnRaportMonth, BtnRaportSix,
		BtnUserAdd, BtnUserList, BtnUserRename, BtnUserRole, BtnUserRemove,
		BtnProdAdauga, BtnProdRedenum, BtnProdSetStoc, BtnProdSterge, BtnUtilizatori:
		return true
	}
	return false
}

func (r *Router) handleMenuButton(ctx context.Context, ev Event, text string) error {
	switch text {
	case BtnInapoi, BtnInapoiArrow, BtnMeniu:
		return r.showMenu(ctx, ev, "")
	case BtnLista:
		return r.showLista(ctx, ev)
	case BtnStoc:
		return r.showStoc(ctx, ev)
	case BtnVinde, BtnVindeCart:
		return r.startSale(ctx, ev)
	case BtnVanzari:
		return r.showVanzari(ctx, ev)
	case BtnEditare:
		return r.showEditare(ctx, ev)
	case BtnEditor:
		return r.showEditor(ctx, ev)
	case BtnSetari, BtnSetariPlain:
		return r.showSettings(ctx, ev)
	case BtnChangeMyName:
		return r.startChangeMyName(ctx, ev)
	case BtnAdaugaQty, BtnAdauga:
		return r.startStockAdjust(ctx, ev, "add")
	case BtnScoateQty, BtnScoate:
		return r.startStockAdjust(ctx, ev, "remove")
	case BtnProdusNou, BtnProdAdauga:
		return r.startAddProduct(ctx, ev)
	case BtnProdRedenum:
		return r.showProductPicker(ctx, ev, PickRename, 1)
	case BtnProdSetStoc:
		return r.showProductPicker(ctx, ev, PickSet, 1)
	case BtnProdSterge:
		return r.showProductPicker(ctx, ev, PickDelete, 1)
	case BtnUtilizatori:
		return r.showUsersMenu(ctx, ev)
	case BtnUserAdd:
		return r.startAddSeller(ctx, ev)
	case BtnUserList:
		return r.listUsers(ctx, ev)
	case BtnUserRename:
		return r.startChangeUserName(ctx, ev)
	case BtnUserRole:
		return r.startChangeRole(ctx, ev)
	case BtnUserRemove:
		return r.startRemoveSeller(ctx, ev)
	case BtnRaportWeek:
		return r.sendWeeklyReports(ctx, ev)
	case BtnRaportMonth:
		return r.sendMonthlyReports(ctx, ev)
	case BtnRaportSix:
		return r.sendSixMonthReports(ctx, ev)
	}
	return nil
}

// =============================================================================
// STATE DISPATCH
// =============================================================================

func (r *Router) handleState(ctx context.Context, ev Event, st conversation.State, text string) error {
	switch st.Mode {
	case conversation.ModeAddName:
		return r.addProductName(ctx, ev, text)
	case conversation.ModeAddType:
		return r.addProductType(ctx, ev, st, text)
	case conversation.ModeAddQty:
		return r.addProductQty(ctx, ev, st, text)
	case conversation.ModeRenameWait:
		return r.renameProduct(ctx, ev, st, text)
	case conversation.ModeSetTotalWait:
		return r.setProductTotal(ctx, ev, st, text)
	case conversation.ModeDeleteConfirm:
		return r.confirmDeleteByText(ctx, ev, st, text)
	case conversation.ModeQtyAdd:
		return r.adjustStock(ctx, ev, st, text, "add")
	case conversation.ModeQtyRemove:
		return r.adjustStock(ctx, ev, st, text, "remove")
	case conversation.ModeSaleQty:
		return r.saleQty(ctx, ev, st, text)
	case conversation.ModeClientName:
		return r.saleClientName(ctx, ev, st, text)
	case conversation.ModeAddSellerID:
		return r.addSellerID(ctx, ev, text)
	case conversation.ModeAddSellerName:
		return r.addSellerName(ctx, ev, st, text)
	case conversation.ModeChangeRoleID:
		return r.changeRoleID(ctx, ev, text)
	case conversation.ModeChangeRolePick:
		return r.changeRoleConfirm(ctx, ev, st, text)
	case conversation.ModeChangeUserID:
		return r.changeUserNameID(ctx, ev, text)
	case conversation.ModeChangeUserValue:
		return r.changeUserNameValue(ctx, ev, st, text)
	case conversation.ModeChangeMyName:
		return r.changeMyNameValue(ctx, ev, text)
	case conversation.ModeRemoveSellerID:
		return r.removeSellerID(ctx, ev, text)
	case conversation.ModeAccessName:
		return r.accessRequestName(ctx, ev, text)
	}

	// State written by an older build; drop it rather than trap the user.
	r.log.WithFields(logrus.Fields{
		"user": ev.UserID,
		"mode": string(st.Mode),
	}).Warn("unknown conversation mode cleared")
	r.states.Clear(ev.UserID)
	return nil
}

// =============================================================================
// ACTION DISPATCH
// =============================================================================

func (r *Router) handleAction(ctx context.Context, ev Event) error {
	act, err := ParseAction(ev.Action)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"user":   ev.UserID,
			"action": ev.Action,
		}).Warn("malformed action ignored")
		return nil
	}

	switch act.Kind {
	case ActionNoop:
		return nil
	case ActionMenu:
		return r.handleMenuAction(ctx, ev, act.Menu)
	case ActionPage:
		return r.showProductPicker(ctx, ev, act.Prefix, act.Page)
	case ActionPick:
		return r.handlePick(ctx, ev, act)
	case ActionSellQty:
		return r.saleQuickQty(ctx, ev, act.ProductID, act.Qty)
	case ActionSellOther:
		return r.saleOtherQty(ctx, ev, act.ProductID)
	case ActionEditStock:
		return r.pickStockAdjust(ctx, ev, act.ProductID, act.Direction)
	case ActionDeleteConfirm:
		return r.deleteProduct(ctx, ev, act.ProductID)
	case ActionAccessRequest:
		return r.startAccessRequest(ctx, ev)
	case ActionAccessDecide:
		return r.decideAccessRequest(ctx, ev, act.TargetID, act.Accept)
	}
	return nil
}

func (r *Router) handleMenuAction(ctx context.Context, ev Event, name string) error {
	switch name {
	case MenuHome:
		r.states.Clear(ev.UserID)
		return r.showMenu(ctx, ev, "")
	case MenuSell:
		return r.showProductPicker(ctx, ev, PickSell, 1)
	case MenuAdd:
		return r.startAddProduct(ctx, ev)
	case MenuRename:
		return r.showProductPicker(ctx, ev, PickRename, 1)
	case MenuSet:
		return r.showProductPicker(ctx, ev, PickSet, 1)
	case MenuDelete:
		return r.showProductPicker(ctx, ev, PickDelete, 1)
	case MenuEditare, MenuEditareBack:
		return r.showEditare(ctx, ev)
	case MenuEditorBack:
		return r.showEditor(ctx, ev)
	case MenuListaBack:
		return r.showLista(ctx, ev)
	case MenuVanzariBack:
		return r.showVanzari(ctx, ev)
	case MenuUsersBack:
		return r.showUsersMenu(ctx, ev)
	case MenuPickerBack:
		r.states.Clear(ev.UserID)
		return r.startSale(ctx, ev)
	}
	r.log.WithField("menu", name).Warn("unknown menu action ignored")
	return nil
}

func (r *Router) handlePick(ctx context.Context, ev Event, act Action) error {
	switch act.Prefix {
	case PickSell:
		return r.salePick(ctx, ev, act.ProductID, act.Page)
	case PickRename:
		return r.renamePick(ctx, ev, act.ProductID)
	case PickSet:
		return r.setTotalPick(ctx, ev, act.ProductID)
	case PickDelete:
		return r.deletePick(ctx, ev, act.ProductID)
	}
	return nil
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

func (r *Router) send(ctx context.Context, userID string, reply Reply) error {
	if err := r.out.Send(ctx, userID, reply); err != nil {
		r.log.WithError(err).WithField("user", userID).Error("reply delivery failed")
		return err
	}
	return nil
}

// persist writes the durable snapshot after a mutation. On failure the user
// gets a warning instead of the success reply; the in-memory ledger keeps
// the mutation and the next successful save covers it.
func (r *Router) persist(ctx context.Context, userID string) bool {
	if err := r.snaps.Save(ctx, r.ledger.Snapshot()); err != nil {
		r.log.WithError(err).Error("snapshot save failed")
		_ = r.send(ctx, userID, Reply{Text: "⚠️ Eroare la salvarea datelor. Modificarea rămâne activă până la repornire."})
		return false
	}
	return true
}

func (r *Router) mainMenuFor(userID string) *Keyboard {
	role, ok := r.policy().RoleOf(userID)
	return mainMenu(role, ok)
}

func (r *Router) showMenu(ctx context.Context, ev Event, preface string) error {
	r.states.Clear(ev.UserID)
	if preface == "" {
		preface = "Alege o acțiune din meniu:"
	}
	return r.send(ctx, ev.UserID, Reply{Text: preface, Keyboard: r.mainMenuFor(ev.UserID)})
}

func (r *Router) denyNoAccess(ctx context.Context, ev Event) error {
	return r.send(ctx, ev.UserID, Reply{Text: "Nu aveți acces la această funcție.", RemoveKeyboard: true})
}

func (r *Router) denyNotAdmin(ctx context.Context, ev Event) error {
	return r.send(ctx, ev.UserID, Reply{
		Text:     "Nu aveți permisiuni pentru această funcție.",
		Keyboard: r.mainMenuFor(ev.UserID),
	})
}

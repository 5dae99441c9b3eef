/*
products.go - Product catalog and stock maintenance flows

PURPOSE:
  The admin-facing product flows: listings, the three-step add flow, rename,
  stock-total set, delete with confirmation, and the quick add/remove stock
  adjustments. Sellers only reach the read-only stock view.
*/
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vinoteca/stockbot/conversation"
	"github.com/vinoteca/stockbot/ledger"
	"github.com/vinoteca/stockbot/paging"
)

// =============================================================================
// LISTINGS AND SUBMENUS
// =============================================================================

func (r *Router) showLista(ctx context.Context, ev Event) error {
	if !r.policy().IsAdmin(ev.UserID) {
		return r.denyNotAdmin(ctx, ev)
	}

	products := r.ledger.Products()
	if len(products) == 0 {
		return r.send(ctx, ev.UserID, Reply{Text: "Nu există produse în listă.", Keyboard: r.mainMenuFor(ev.UserID)})
	}

	lines := make([]string, 0, len(products)+1)
	lines = append(lines, "📋 Lista produselor:\n")
	for _, p := range products {
		lines = append(lines, fmt.Sprintf("#%d %s (%s) — Total: %d, Vândut: %d, Rămas: %d",
			p.ID, p.Name, p.Type, p.QtyTotal, p.QtySold, p.Remaining()))
	}
	return r.send(ctx, ev.UserID, Reply{Text: strings.Join(lines, "\n"), Keyboard: listaEditMenu()})
}

func (r *Router) showStoc(ctx context.Context, ev Event) error {
	if !r.policy().HasAccess(ev.UserID) {
		return r.denyNoAccess(ctx, ev)
	}

	inStock := r.ledger.ProductsInStock()
	if len(inStock) == 0 {
		return r.send(ctx, ev.UserID, Reply{Text: "Nu există produse în stoc.", Keyboard: r.mainMenuFor(ev.UserID)})
	}

	lines := make([]string, 0, len(inStock)+1)
	lines = append(lines, "📦 Stoc disponibil:\n")
	for _, p := range inStock {
		lines = append(lines, fmt.Sprintf("#%d %s — Stoc: %d bucăți", p.ID, p.Name, p.Remaining()))
	}
	return r.send(ctx, ev.UserID, Reply{Text: strings.Join(lines, "\n"), Keyboard: r.mainMenuFor(ev.UserID)})
}

func (r *Router) showEditare(ctx context.Context, ev Event) error {
	if !r.policy().IsAdmin(ev.UserID) {
		return r.send(ctx, ev.UserID, Reply{Text: "Nu aveți permisiuni pentru editare.", RemoveKeyboard: true})
	}
	return r.send(ctx, ev.UserID, Reply{Text: "Alege opțiunea de editare:", Keyboard: editareSubmenu()})
}

func (r *Router) showEditor(ctx context.Context, ev Event) error {
	if !r.policy().IsAdmin(ev.UserID) {
		return r.denyNotAdmin(ctx, ev)
	}
	return r.send(ctx, ev.UserID, Reply{Text: "Acțiuni:", Keyboard: editorSubmenu()})
}

// =============================================================================
// PRODUCT PICKERS
// =============================================================================

// pickerSpec describes one picker flavor. The sale picker shows only
// products in stock; the admin pickers show everything.
type pickerSpec struct {
	title       string
	backAction  string
	inStockOnly bool
	adminOnly   bool
}

func (r *Router) pickerSpec(prefix string) pickerSpec {
	switch prefix {
	case PickSell:
		return pickerSpec{
			title:       "📦 Selectează produsul pentru vânzare:",
			backAction:  menuAction(MenuVanzariBack),
			inStockOnly: true,
		}
	case PickRename:
		return pickerSpec{
			title:      "Alege produsul pentru redenumire:",
			backAction: menuAction(MenuEditare),
			adminOnly:  true,
		}
	case PickSet:
		return pickerSpec{
			title:      "Alege produsul pentru setarea stocului total:",
			backAction: menuAction(MenuEditare),
			adminOnly:  true,
		}
	case PickDelete:
		return pickerSpec{
			title:      "Alege produsul pentru ștergere:",
			backAction: menuAction(MenuEditare),
			adminOnly:  true,
		}
	}
	return pickerSpec{title: "Alege produsul:", backAction: menuAction(MenuHome)}
}

// showProductPicker renders one page of the picker for the given prefix.
// Out-of-range pages are clamped, so stale prev/next buttons stay harmless.
func (r *Router) showProductPicker(ctx context.Context, ev Event, prefix string, pageNo int) error {
	spec := r.pickerSpec(prefix)
	pol := r.policy()
	if spec.adminOnly && !pol.IsAdmin(ev.UserID) {
		return r.denyNotAdmin(ctx, ev)
	}
	if !pol.HasAccess(ev.UserID) {
		return r.denyNoAccess(ctx, ev)
	}

	r.states.Clear(ev.UserID)

	products := r.ledger.Products()
	if spec.inStockOnly {
		products = r.ledger.ProductsInStock()
	}
	if len(products) == 0 {
		return r.send(ctx, ev.UserID, Reply{Text: "Nu există produse.", Keyboard: r.mainMenuFor(ev.UserID)})
	}

	page := paging.Paginate(products, pageNo, r.perPage)
	return r.send(ctx, ev.UserID, Reply{
		Text:   spec.title,
		Inline: productPickerMenu(page, prefix, spec.backAction),
	})
}

// =============================================================================
// ADD PRODUCT (name -> type -> quantity)
// =============================================================================

func (r *Router) startAddProduct(ctx context.Context, ev Event) error {
	if !r.policy().IsAdmin(ev.UserID) {
		return r.send(ctx, ev.UserID, Reply{Text: "Nu aveți permisiuni.", RemoveKeyboard: true})
	}
	r.states.Set(ev.UserID, conversation.State{Mode: conversation.ModeAddName})
	return r.send(ctx, ev.UserID, Reply{
		Text:           "Introduceți numele produsului.",
		Inline:         inlineBackMenu(menuAction(MenuEditareBack)),
		RemoveKeyboard: true,
	})
}

func (r *Router) addProductName(ctx context.Context, ev Event, text string) error {
	r.states.Set(ev.UserID, conversation.State{Mode: conversation.ModeAddType, DraftName: text})
	return r.send(ctx, ev.UserID, Reply{
		Text:   "Introduceți tipul (ex: Spumant, Vin roșu).",
		Inline: inlineBackMenu(menuAction(MenuEditareBack)),
	})
}

func (r *Router) addProductType(ctx context.Context, ev Event, st conversation.State, text string) error {
	st.Mode = conversation.ModeAddQty
	st.DraftType = text
	r.states.Set(ev.UserID, st)
	return r.send(ctx, ev.UserID, Reply{
		Text:   "Introduceți cantitatea totală (număr, ex. 20).",
		Inline: inlineBackMenu(menuAction(MenuEditareBack)),
	})
}

func (r *Router) addProductQty(ctx context.Context, ev Event, st conversation.State, text string) error {
	qty, err := ParseQuantity(text)
	if err != nil {
		return r.send(ctx, ev.UserID, Reply{
			Text:   "Cantitate invalidă. Scrie un număr (ex. 20).",
			Inline: inlineBackMenu(menuAction(MenuEditareBack)),
		})
	}

	p, err := r.ledger.AddProduct(st.DraftName, st.DraftType, qty)
	if err != nil {
		r.states.Clear(ev.UserID)
		return r.send(ctx, ev.UserID, Reply{Text: "Produsul nu a putut fi adăugat.", Keyboard: r.mainMenuFor(ev.UserID)})
	}

	r.states.Clear(ev.UserID)
	if !r.persist(ctx, ev.UserID) {
		return nil
	}
	return r.send(ctx, ev.UserID, Reply{
		Text:     fmt.Sprintf("✅ Adăugat #%d: %s (%s), cant=%d", p.ID, p.Name, p.Type, qty),
		Keyboard: r.mainMenuFor(ev.UserID),
	})
}

// =============================================================================
// RENAME
// =============================================================================

func (r *Router) renamePick(ctx context.Context, ev Event, productID int) error {
	if !r.policy().IsAdmin(ev.UserID) {
		return r.denyNotAdmin(ctx, ev)
	}
	p, err := r.ledger.Product(productID)
	if err != nil {
		return r.send(ctx, ev.UserID, Reply{Text: "Produs inexistent.", RemoveKeyboard: true})
	}

	r.states.Set(ev.UserID, conversation.State{Mode: conversation.ModeRenameWait, ProductID: productID})
	return r.send(ctx, ev.UserID, Reply{
		Text:           fmt.Sprintf("Produs selectat: #%d %s\nTrimite noul nume în chat.", p.ID, p.Name),
		Inline:         inlineBackMenu(menuAction(MenuEditareBack)),
		RemoveKeyboard: true,
	})
}

func (r *Router) renameProduct(ctx context.Context, ev Event, st conversation.State, text string) error {
	p, err := r.ledger.RenameProduct(st.ProductID, text)
	if err != nil {
		r.states.Clear(ev.UserID)
		return r.send(ctx, ev.UserID, Reply{Text: "Produs inexistent.", Keyboard: r.mainMenuFor(ev.UserID)})
	}

	r.states.Clear(ev.UserID)
	if !r.persist(ctx, ev.UserID) {
		return nil
	}
	return r.send(ctx, ev.UserID, Reply{
		Text:     fmt.Sprintf("✅ Redenumit #%d în: %s", p.ID, p.Name),
		Keyboard: r.mainMenuFor(ev.UserID),
	})
}

// =============================================================================
// SET STOCK TOTAL
// =============================================================================

func (r *Router) setTotalPick(ctx context.Context, ev Event, productID int) error {
	if !r.policy().IsAdmin(ev.UserID) {
		return r.denyNotAdmin(ctx, ev)
	}
	p, err := r.ledger.Product(productID)
	if err != nil {
		return r.send(ctx, ev.UserID, Reply{Text: "Produs inexistent.", RemoveKeyboard: true})
	}

	r.states.Set(ev.UserID, conversation.State{Mode: conversation.ModeSetTotalWait, ProductID: productID})
	return r.send(ctx, ev.UserID, Reply{
		Text:           fmt.Sprintf("Produs selectat: #%d %s\nIntroduceți noua cantitate totală (număr).", p.ID, p.Name),
		Inline:         inlineBackMenu(menuAction(MenuEditareBack)),
		RemoveKeyboard: true,
	})
}

func (r *Router) setProductTotal(ctx context.Context, ev Event, st conversation.State, text string) error {
	total, err := ParseTotal(text)
	if err != nil {
		return r.send(ctx, ev.UserID, Reply{
			Text:   "Cantitate totală invalidă. Scrie un număr (ex. 50).",
			Inline: inlineBackMenu(menuAction(MenuEditareBack)),
		})
	}

	p, err := r.ledger.SetProductTotal(st.ProductID, total)
	switch {
	case errors.Is(err, ledger.ErrTotalBelowSold):
		var tbe *ledger.TotalBelowSoldError
		errors.As(err, &tbe)
		return r.send(ctx, ev.UserID, Reply{
			Text:   fmt.Sprintf("Totalul nu poate fi sub cantitatea deja vândută (%d).", tbe.Sold),
			Inline: inlineBackMenu(menuAction(MenuEditareBack)),
		})
	case err != nil:
		r.states.Clear(ev.UserID)
		return r.send(ctx, ev.UserID, Reply{Text: "Produs inexistent.", Keyboard: r.mainMenuFor(ev.UserID)})
	}

	r.states.Clear(ev.UserID)
	if !r.persist(ctx, ev.UserID) {
		return nil
	}
	return r.send(ctx, ev.UserID, Reply{
		Text: fmt.Sprintf("✅ Actualizat #%d: total=%d, vândut=%d, rămase=%d",
			p.ID, p.QtyTotal, p.QtySold, p.Remaining()),
		Keyboard: r.mainMenuFor(ev.UserID),
	})
}

// =============================================================================
// DELETE
// =============================================================================

func (r *Router) deletePick(ctx context.Context, ev Event, productID int) error {
	if !r.policy().IsAdmin(ev.UserID) {
		return r.denyNotAdmin(ctx, ev)
	}
	p, err := r.ledger.Product(productID)
	if err != nil {
		return r.send(ctx, ev.UserID, Reply{Text: "Produs inexistent.", RemoveKeyboard: true})
	}

	r.states.Set(ev.UserID, conversation.State{Mode: conversation.ModeDeleteConfirm, ProductID: productID})
	return r.send(ctx, ev.UserID, Reply{
		Text: fmt.Sprintf("Sigur doriți să ștergeți: #%d %s?\nScrieți \"DA\" pentru confirmare sau \"NU\" pentru anulare.",
			p.ID, p.Name),
		Inline:         deleteConfirmationMenu(productID),
		RemoveKeyboard: true,
	})
}

func (r *Router) confirmDeleteByText(ctx context.Context, ev Event, st conversation.State, text string) error {
	switch strings.ToUpper(text) {
	case "DA", "YES":
		return r.deleteProduct(ctx, ev, st.ProductID)
	case "NU", "NO":
		r.states.Clear(ev.UserID)
		return r.showMenu(ctx, ev, "")
	}
	return r.send(ctx, ev.UserID, Reply{
		Text:   "Scrieți \"DA\" pentru confirmare sau \"NU\" pentru anulare.",
		Inline: inlineBackMenu(menuAction(MenuEditareBack)),
	})
}

// deleteProduct is the commit point for both the DA text and the inline yes
// button. Sales history keeps referencing the deleted id.
func (r *Router) deleteProduct(ctx context.Context, ev Event, productID int) error {
	if !r.policy().IsAdmin(ev.UserID) {
		return r.denyNotAdmin(ctx, ev)
	}
	r.states.Clear(ev.UserID)

	if err := r.ledger.DeleteProduct(productID); err != nil {
		return r.send(ctx, ev.UserID, Reply{Text: "Produsul nu a fost găsit.", Keyboard: r.mainMenuFor(ev.UserID)})
	}
	if !r.persist(ctx, ev.UserID) {
		return nil
	}
	return r.send(ctx, ev.UserID, Reply{
		Text:     fmt.Sprintf("✅ Șters #%d.", productID),
		Keyboard: r.mainMenuFor(ev.UserID),
	})
}

// =============================================================================
// QUICK STOCK ADJUSTMENTS (Adauga / Scoate)
// =============================================================================

func (r *Router) startStockAdjust(ctx context.Context, ev Event, direction string) error {
	if !r.policy().IsAdmin(ev.UserID) {
		return r.denyNotAdmin(ctx, ev)
	}

	products := r.ledger.Products()
	title := "Selectează produsul pentru a adăuga cantitate:"
	if direction == "remove" {
		products = r.ledger.ProductsInStock()
		title = "Selectează produsul pentru a scădea cantitate:"
		if len(products) == 0 {
			return r.send(ctx, ev.UserID, Reply{Text: "Nu există produse cu stoc disponibil.", RemoveKeyboard: true})
		}
	}
	if len(products) == 0 {
		return r.send(ctx, ev.UserID, Reply{Text: "Nu există produse.", RemoveKeyboard: true})
	}

	return r.send(ctx, ev.UserID, Reply{Text: title, Inline: stockEditMenu(products, direction)})
}

func (r *Router) pickStockAdjust(ctx context.Context, ev Event, productID int, direction string) error {
	if !r.policy().IsAdmin(ev.UserID) {
		return r.denyNotAdmin(ctx, ev)
	}
	p, err := r.ledger.Product(productID)
	if err != nil {
		return r.send(ctx, ev.UserID, Reply{Text: "Produs inexistent.", RemoveKeyboard: true})
	}

	mode := conversation.ModeQtyAdd
	verb := "adăuga"
	if direction == "remove" {
		mode = conversation.ModeQtyRemove
		verb = "scădea"
	}
	r.states.Set(ev.UserID, conversation.State{Mode: mode, ProductID: productID})

	return r.send(ctx, ev.UserID, Reply{
		Text: fmt.Sprintf("Produs selectat: %s\nStoc curent: %d bucăți\nStoc total: %d bucăți\nVândut: %d bucăți\n\nIntroduceți cantitatea de %s (ex. 5):",
			p.Name, p.Remaining(), p.QtyTotal, p.QtySold, verb),
		Inline:         inlineBackMenu(menuAction(MenuListaBack)),
		RemoveKeyboard: true,
	})
}

func (r *Router) adjustStock(ctx context.Context, ev Event, st conversation.State, text, direction string) error {
	qty, err := ParseQuantity(text)
	if err != nil {
		return r.send(ctx, ev.UserID, Reply{
			Text:   "Introduceți o cantitate validă (ex. 5).",
			Inline: inlineBackMenu(menuAction(MenuListaBack)),
		})
	}

	var p ledger.Product
	var done string
	if direction == "add" {
		p, err = r.ledger.IncreaseProductTotal(st.ProductID, qty)
		done = "Adăugat %d bucăți la %s"
	} else {
		p, err = r.ledger.DecreaseProductTotal(st.ProductID, qty)
		done = "Scăzut %d bucăți din %s"
	}

	switch {
	case errors.Is(err, ledger.ErrInsufficientStock):
		var ise *ledger.InsufficientStockError
		errors.As(err, &ise)
		return r.send(ctx, ev.UserID, Reply{
			Text: fmt.Sprintf("Nu puteți scădea mai mult decât stocul disponibil.\nStoc disponibil: %d bucăți", ise.Remaining),
		})
	case err != nil:
		r.states.Clear(ev.UserID)
		return r.send(ctx, ev.UserID, Reply{Text: "Produs inexistent.", Keyboard: r.mainMenuFor(ev.UserID)})
	}

	r.states.Clear(ev.UserID)
	if !r.persist(ctx, ev.UserID) {
		return nil
	}
	return r.send(ctx, ev.UserID, Reply{
		Text: fmt.Sprintf("✅ "+done+"\nStoc total: %d bucăți\nStoc disponibil: %d bucăți",
			qty, p.Name, p.QtyTotal, p.Remaining()),
		Keyboard: r.mainMenuFor(ev.UserID),
	})
}

/*
sales.go - Sale recording flows

PURPOSE:
  The seller-facing path: pick a product, choose a quantity (quick button or
  typed), name the client, commit. Both quantity paths converge on the
  client-name step, so every committed sale carries a client. Stock is
  re-checked at commit time because other users may have sold in between.
*/
package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/vinoteca/stockbot/conversation"
	"github.com/vinoteca/stockbot/ledger"
)

func (r *Router) showVanzari(ctx context.Context, ev Event) error {
	pol := r.policy()
	if !pol.HasAccess(ev.UserID) {
		return r.denyNoAccess(ctx, ev)
	}
	return r.send(ctx, ev.UserID, Reply{Text: "Alege opțiunea:", Keyboard: vanzariSubmenu(pol.IsAdmin(ev.UserID))})
}

func (r *Router) startSale(ctx context.Context, ev Event) error {
	return r.showProductPicker(ctx, ev, PickSell, 1)
}

// salePick handles a product chosen from the sale picker. The page number
// rides along so "back to list" can restore the page the user was on.
func (r *Router) salePick(ctx context.Context, ev Event, productID, page int) error {
	if !r.policy().HasAccess(ev.UserID) {
		return r.denyNoAccess(ctx, ev)
	}

	p, err := r.ledger.Product(productID)
	if err != nil {
		return r.send(ctx, ev.UserID, Reply{Text: "Produs inexistent.", Keyboard: r.mainMenuFor(ev.UserID)})
	}
	if p.Remaining() <= 0 {
		return r.send(ctx, ev.UserID, Reply{Text: "Nu mai sunt bucăți pe stoc.", Keyboard: r.mainMenuFor(ev.UserID)})
	}

	r.states.Set(ev.UserID, conversation.State{Mode: conversation.ModeSaleQty, ProductID: productID})

	return r.send(ctx, ev.UserID, Reply{
		Text: fmt.Sprintf("📦 Produs selectat: %s\n📊 Stoc disponibil: %d bucăți\n\nAlegeți sau introduceți cantitatea (ex. 5):",
			p.Name, p.Remaining()),
		Inline:         quantityMenu(productID, p.Remaining(), pageAction(PickSell, page)),
		RemoveKeyboard: true,
	})
}

// saleQuickQty handles the quick-quantity buttons.
func (r *Router) saleQuickQty(ctx context.Context, ev Event, productID, qty int) error {
	if !r.policy().HasAccess(ev.UserID) {
		return r.denyNoAccess(ctx, ev)
	}

	p, err := r.ledger.Product(productID)
	if err != nil {
		return r.send(ctx, ev.UserID, Reply{Text: "Produs inexistent.", Keyboard: r.mainMenuFor(ev.UserID)})
	}
	if qty <= 0 || qty > p.Remaining() {
		return r.send(ctx, ev.UserID, Reply{Text: fmt.Sprintf("Mai sunt doar %d.", p.Remaining())})
	}

	r.states.Set(ev.UserID, conversation.State{
		Mode:      conversation.ModeClientName,
		ProductID: productID,
		Qty:       qty,
	})
	return r.send(ctx, ev.UserID, Reply{
		Text:           fmt.Sprintf("Cantitate: %d × %s\n\nIntroduceți numele clientului:", qty, p.Name),
		Inline:         inlineBackMenu(menuAction(MenuPickerBack)),
		RemoveKeyboard: true,
	})
}

// saleOtherQty switches to the typed-quantity step.
func (r *Router) saleOtherQty(ctx context.Context, ev Event, productID int) error {
	if !r.policy().HasAccess(ev.UserID) {
		return r.denyNoAccess(ctx, ev)
	}

	p, err := r.ledger.Product(productID)
	if err != nil {
		return r.send(ctx, ev.UserID, Reply{Text: "Produs inexistent.", Keyboard: r.mainMenuFor(ev.UserID)})
	}

	r.states.Set(ev.UserID, conversation.State{Mode: conversation.ModeSaleQty, ProductID: productID})
	return r.send(ctx, ev.UserID, Reply{
		Text:           fmt.Sprintf("Introduceți cantitatea pentru: %s\nScrieți un număr (ex. 7).", p.Name),
		Inline:         inlineBackMenu(menuAction(MenuPickerBack)),
		RemoveKeyboard: true,
	})
}

// saleQty handles the typed quantity.
func (r *Router) saleQty(ctx context.Context, ev Event, st conversation.State, text string) error {
	qty, err := ParseQuantity(text)
	if err != nil {
		return r.send(ctx, ev.UserID, Reply{
			Text:   "Introduceți o cantitate validă (ex. 5).",
			Inline: inlineBackMenu(menuAction(MenuPickerBack)),
		})
	}

	p, err := r.ledger.Product(st.ProductID)
	if err != nil {
		r.states.Clear(ev.UserID)
		return r.send(ctx, ev.UserID, Reply{Text: "Produs inexistent.", Keyboard: r.mainMenuFor(ev.UserID)})
	}
	if qty > p.Remaining() {
		return r.send(ctx, ev.UserID, Reply{
			Text:   fmt.Sprintf("Cantitatea depășește stocul. Mai sunt %d bucăți disponibile.", p.Remaining()),
			Inline: inlineBackMenu(menuAction(MenuPickerBack)),
		})
	}

	st.Mode = conversation.ModeClientName
	st.Qty = qty
	r.states.Set(ev.UserID, st)

	return r.send(ctx, ev.UserID, Reply{
		Text:   fmt.Sprintf("Cantitate: %d × %s\n\nIntroduceți numele clientului:", qty, p.Name),
		Inline: inlineBackMenu(menuAction(MenuPickerBack)),
	})
}

// saleClientName is the commit point of every sale.
func (r *Router) saleClientName(ctx context.Context, ev Event, st conversation.State, text string) error {
	sale, p, err := r.ledger.RecordSale(st.ProductID, st.Qty, text, ev.UserID)
	switch {
	case errors.Is(err, ledger.ErrInsufficientStock):
		var ise *ledger.InsufficientStockError
		errors.As(err, &ise)
		r.states.Clear(ev.UserID)
		return r.send(ctx, ev.UserID, Reply{
			Text:     fmt.Sprintf("Cantitatea depășește stocul. Mai sunt %d bucăți disponibile.", ise.Remaining),
			Keyboard: r.mainMenuFor(ev.UserID),
		})
	case err != nil:
		r.states.Clear(ev.UserID)
		return r.send(ctx, ev.UserID, Reply{Text: "Produs inexistent.", Keyboard: r.mainMenuFor(ev.UserID)})
	}

	clientDisplay := "-"
	if c, ok := r.ledger.Client(sale.ClientID); ok {
		clientDisplay = c.NameDisplay
	}

	r.states.Clear(ev.UserID)
	if !r.persist(ctx, ev.UserID) {
		return nil
	}
	return r.send(ctx, ev.UserID, Reply{
		Text: fmt.Sprintf("✅ Vânzare înregistrată!\n\nProdus: %s\nCantitate: %d bucăți\nClient: %s\nStoc rămas: %d bucăți",
			p.Name, sale.Qty, clientDisplay, p.Remaining()),
		Keyboard: r.mainMenuFor(ev.UserID),
	})
}

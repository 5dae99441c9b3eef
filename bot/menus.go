/*
menus.go - Keyboard builders

PURPOSE:
  All keyboards in one place: the role-dependent main menu, the submenus,
  the paginated product pickers and the small confirmation keyboards. Button
  labels live here and in the dispatch table in router.go only.
*/
package bot

import (
	"fmt"

	"github.com/vinoteca/stockbot/ledger"
	"github.com/vinoteca/stockbot/paging"
)

// Main menu and submenu button labels. The text dispatcher matches on these
// exact strings, so they are constants rather than literals.
const (
	BtnLista         = "Lista"
	BtnStoc          = "Stoc"
	BtnVinde         = "Vinde"
	BtnVanzari       = "Vanzari"
	BtnEditare       = "Editare"
	BtnSetari        = "⚙️ Setări"
	BtnSetariPlain   = "Setari"
	BtnMeniu         = "Meniu principal"
	BtnInapoi        = "Inapoi"
	BtnInapoiArrow   = "⬅️ Înapoi"
	BtnEditor        = "Editor"
	BtnAdaugaQty     = "➕ Adauga"
	BtnScoateQty     = "➖ Scoate"
	BtnAdauga        = "Adauga"
	BtnScoate        = "Scoate"
	BtnProdusNou     = "Produs nou"
	BtnVindeCart     = "🛒 Vinde"
	BtnRaportWeek    = "📅 Ultima săptămână"
	BtnRaportMonth   = "📆 Ultima lună"
	BtnRaportSix     = "📊 Total (6 luni)"
	BtnProdAdauga    = "➕ Adaugă"
	BtnProdRedenum   = "✏️ Redenumește"
	BtnProdSetStoc   = "🔢 Setează stoc"
	BtnProdSterge    = "🗑️ Șterge"
	BtnUtilizatori   = "👥 Utilizatori"
	BtnUserAdd       = "➕ Adaugă vânzător"
	BtnUserList      = "📋 Listă utilizatori"
	BtnUserRename    = "✏️ Schimbă nume"
	BtnUserRole      = "🔄 Schimbă rol"
	BtnUserRemove    = "➖ Șterge vânzător"
	BtnChangeMyName  = "✏️ Schimbă numele meu"
	BtnRequestAccess = "📝 Solicită acces"
)

// mainMenu is the persistent keyboard for the user's role.
func mainMenu(role ledger.Role, hasRole bool) *Keyboard {
	switch {
	case hasRole && role == ledger.RoleAdministrator:
		return &Keyboard{Rows: [][]string{
			{BtnLista, BtnStoc},
			{BtnVanzari, BtnEditare},
			{BtnSetari},
		}}
	case hasRole:
		return &Keyboard{Rows: [][]string{
			{BtnStoc, BtnVinde},
			{BtnSetari, BtnMeniu},
		}}
	default:
		return &Keyboard{Rows: [][]string{{BtnMeniu}}}
	}
}

func listaEditMenu() *Keyboard {
	return &Keyboard{Rows: [][]string{
		{BtnAdaugaQty, BtnScoateQty},
		{BtnInapoi, BtnMeniu},
	}}
}

func editorSubmenu() *Keyboard {
	return &Keyboard{Rows: [][]string{
		{BtnAdauga, BtnScoate},
		{BtnProdusNou},
		{BtnInapoi, BtnMeniu},
	}}
}

func vanzariSubmenu(isAdmin bool) *Keyboard {
	if isAdmin {
		return &Keyboard{Rows: [][]string{
			{BtnVindeCart},
			{BtnRaportWeek, BtnRaportMonth},
			{BtnRaportSix, BtnInapoiArrow},
		}}
	}
	return &Keyboard{Rows: [][]string{
		{BtnVindeCart},
		{BtnInapoiArrow},
	}}
}

func editareSubmenu() *Keyboard {
	return &Keyboard{Rows: [][]string{
		{BtnProdAdauga, BtnProdRedenum},
		{BtnProdSetStoc, BtnProdSterge},
		{BtnUtilizatori},
		{BtnInapoiArrow},
	}}
}

func usersManagementMenu() *Keyboard {
	return &Keyboard{Rows: [][]string{
		{BtnUserAdd, BtnUserList},
		{BtnUserRename, BtnUserRole},
		{BtnUserRemove},
		{BtnInapoiArrow},
	}}
}

func settingsMenu() *Keyboard {
	return &Keyboard{Rows: [][]string{
		{BtnChangeMyName},
		{BtnInapoiArrow},
	}}
}

// =============================================================================
// INLINE KEYBOARDS
// =============================================================================

// productPickerMenu renders one picker page. Buttons carry the pick action
// with the page baked in so a later "back to list" can restore it.
func productPickerMenu(page paging.Page[ledger.Product], prefix, backAction string) *InlineKeyboard {
	kb := &InlineKeyboard{}
	for _, p := range page.Items {
		light := "🔴"
		if p.Remaining() > 0 {
			light = "🟢"
		}
		kb.Rows = append(kb.Rows, []Button{{
			Label:  fmt.Sprintf("%s #%d %s", light, p.ID, p.Name),
			Action: pickAction(prefix, p.ID, page.Number),
		}})
	}

	if page.Total > 1 {
		kb.Rows = append(kb.Rows, []Button{
			{Label: "◀️ Înapoi", Action: pageAction(prefix, page.Number-1)},
			{Label: fmt.Sprintf("Pagina %d/%d", page.Number, page.Total), Action: "noop"},
			{Label: "Înainte ▶️", Action: pageAction(prefix, page.Number+1)},
		})
	}

	kb.Rows = append(kb.Rows, []Button{{Label: "⬅️ Meniu", Action: backAction}})
	return kb
}

// stockEditMenu lists products for an add/remove stock adjustment.
func stockEditMenu(products []ledger.Product, direction string) *InlineKeyboard {
	kb := &InlineKeyboard{}
	for _, p := range products {
		kb.Rows = append(kb.Rows, []Button{{
			Label:  fmt.Sprintf("#%d %s (%d buc.)", p.ID, p.Name, p.Remaining()),
			Action: editStockAction(direction, p.ID),
		}})
	}
	kb.Rows = append(kb.Rows, []Button{{Label: "⬅️ Înapoi", Action: menuAction(MenuListaBack)}})
	return kb
}

// quantityMenu offers quick quantities up to the remaining stock plus a
// typed-quantity escape hatch.
func quantityMenu(productID, remaining int, backAction string) *InlineKeyboard {
	kb := &InlineKeyboard{}
	for _, q := range []int{1, 2, 3, 4, 5, 10} {
		if q > remaining {
			continue
		}
		kb.Rows = append(kb.Rows, []Button{{
			Label:  fmt.Sprintf("%d", q),
			Action: sellQtyAction(productID, q),
		}})
	}
	kb.Rows = append(kb.Rows, []Button{{Label: "Altă cantitate…", Action: sellOtherAction(productID)}})
	kb.Rows = append(kb.Rows, []Button{{Label: "⬅️ Înapoi la listă", Action: backAction}})
	kb.Rows = append(kb.Rows, []Button{{Label: "⬅️ Meniu", Action: menuAction(MenuHome)}})
	return kb
}

func deleteConfirmationMenu(productID int) *InlineKeyboard {
	return &InlineKeyboard{Rows: [][]Button{{
		{Label: "✅ Da, șterge", Action: deleteConfirmAction(productID)},
		{Label: "❌ Nu", Action: menuAction(MenuHome)},
	}}}
}

func accessDecisionMenu(userID string) *InlineKeyboard {
	return &InlineKeyboard{Rows: [][]Button{{
		{Label: "✅ Acceptă", Action: accessDecideAction(true, userID)},
		{Label: "❌ Respinge", Action: accessDecideAction(false, userID)},
	}}}
}

func accessRequestMenu() *InlineKeyboard {
	return &InlineKeyboard{Rows: [][]Button{{
		{Label: BtnRequestAccess, Action: "access:request"},
	}}}
}

func inlineBackMenu(backAction string) *InlineKeyboard {
	return &InlineKeyboard{Rows: [][]Button{{
		{Label: "⬅️ Înapoi", Action: backAction},
	}}}
}

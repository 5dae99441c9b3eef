/*
action.go - The button action grammar

PURPOSE:
  Every inline button carries a colon-separated action identifier. This file
  is the single place that builds and parses them, so the grammar cannot
  drift between keyboard builders and the dispatcher.

GRAMMAR:
  noop                          ignore (page indicator button)
  menu:{name}                   navigate to a menu
  pg:{prefix}:{page}            flip a picker to another page
  {prefix}:{id}:p{page}         pick a product from a picker
  sellqty:{id}:{qty}            quick-quantity sale button
  sellother:{id}                ask for a typed quantity
  editprod:{add|remove}:{id}    pick a product for stock adjustment
  delconfirm:{id}:yes           confirm a product deletion
  access:request               start an access request
  access:{accept|reject}:{uid}  decide an access request

  Picker prefixes: sellpick, renpick, setpick, delpick.
*/
package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadAction is returned for action strings outside the grammar.
var ErrBadAction = errors.New("unrecognized action")

// ActionKind discriminates the parsed action variants.
type ActionKind int

const (
	ActionNoop ActionKind = iota
	ActionMenu
	ActionPage
	ActionPick
	ActionSellQty
	ActionSellOther
	ActionEditStock
	ActionDeleteConfirm
	ActionAccessRequest
	ActionAccessDecide
)

// Picker prefixes. Each admin flow has its own so a stale button from one
// flow cannot trigger another.
const (
	PickSell   = "sellpick"
	PickRename = "renpick"
	PickSet    = "setpick"
	PickDelete = "delpick"
)

// Menu names used in menu:{name} actions.
const (
	MenuHome        = "home"
	MenuSell        = "sell"
	MenuAdd         = "add"
	MenuRename      = "rename"
	MenuSet         = "set"
	MenuDelete      = "del"
	MenuEditare     = "editare"
	MenuEditareBack = "editare_back"
	MenuEditorBack  = "editor_back"
	MenuListaBack   = "lista_back"
	MenuVanzariBack = "vanzari_back"
	MenuUsersBack   = "users_back"
	MenuPickerBack  = "product_list_back"
)

// Action is one parsed action identifier. Only the fields relevant to the
// Kind are set.
type Action struct {
	Kind      ActionKind
	Menu      string // ActionMenu
	Prefix    string // ActionPage, ActionPick
	Page      int    // ActionPage, ActionPick
	ProductID int    // ActionPick, ActionSellQty, ActionSellOther, ActionEditStock, ActionDeleteConfirm
	Qty       int    // ActionSellQty
	Direction string // ActionEditStock: "add" or "remove"
	TargetID  string // ActionAccessDecide
	Accept    bool   // ActionAccessDecide
}

var pickerPrefixes = map[string]bool{
	PickSell:   true,
	PickRename: true,
	PickSet:    true,
	PickDelete: true,
}

// ParseAction parses an action identifier. Malformed identifiers, including
// well-formed ones with an unknown prefix, return ErrBadAction.
func ParseAction(raw string) (Action, error) {
	if raw == "noop" {
		return Action{Kind: ActionNoop}, nil
	}

	parts := strings.Split(raw, ":")
	switch parts[0] {
	case "menu":
		if len(parts) != 2 || parts[1] == "" {
			return Action{}, fmt.Errorf("%w: %q", ErrBadAction, raw)
		}
		return Action{Kind: ActionMenu, Menu: parts[1]}, nil

	case "pg":
		if len(parts) != 3 || !pickerPrefixes[parts[1]] {
			return Action{}, fmt.Errorf("%w: %q", ErrBadAction, raw)
		}
		page, err := strconv.Atoi(parts[2])
		if err != nil {
			return Action{}, fmt.Errorf("%w: %q", ErrBadAction, raw)
		}
		return Action{Kind: ActionPage, Prefix: parts[1], Page: page}, nil

	case "sellqty":
		if len(parts) != 3 {
			return Action{}, fmt.Errorf("%w: %q", ErrBadAction, raw)
		}
		id, err1 := strconv.Atoi(parts[1])
		qty, err2 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil {
			return Action{}, fmt.Errorf("%w: %q", ErrBadAction, raw)
		}
		return Action{Kind: ActionSellQty, ProductID: id, Qty: qty}, nil

	case "sellother":
		if len(parts) != 2 {
			return Action{}, fmt.Errorf("%w: %q", ErrBadAction, raw)
		}
		id, err := strconv.Atoi(parts[1])
		if err != nil {
			return Action{}, fmt.Errorf("%w: %q", ErrBadAction, raw)
		}
		return Action{Kind: ActionSellOther, ProductID: id}, nil

	case "editprod":
		if len(parts) != 3 || (parts[1] != "add" && parts[1] != "remove") {
			return Action{}, fmt.Errorf("%w: %q", ErrBadAction, raw)
		}
		id, err := strconv.Atoi(parts[2])
		if err != nil {
			return Action{}, fmt.Errorf("%w: %q", ErrBadAction, raw)
		}
		return Action{Kind: ActionEditStock, Direction: parts[1], ProductID: id}, nil

	case "delconfirm":
		if len(parts) != 3 || parts[2] != "yes" {
			return Action{}, fmt.Errorf("%w: %q", ErrBadAction, raw)
		}
		id, err := strconv.Atoi(parts[1])
		if err != nil {
			return Action{}, fmt.Errorf("%w: %q", ErrBadAction, raw)
		}
		return Action{Kind: ActionDeleteConfirm, ProductID: id}, nil

	case "access":
		if len(parts) == 2 && parts[1] == "request" {
			return Action{Kind: ActionAccessRequest}, nil
		}
		if len(parts) == 3 && (parts[1] == "accept" || parts[1] == "reject") && parts[2] != "" {
			return Action{Kind: ActionAccessDecide, Accept: parts[1] == "accept", TargetID: parts[2]}, nil
		}
		return Action{}, fmt.Errorf("%w: %q", ErrBadAction, raw)
	}

	if pickerPrefixes[parts[0]] {
		// {prefix}:{id}:p{page}
		if len(parts) != 3 || !strings.HasPrefix(parts[2], "p") {
			return Action{}, fmt.Errorf("%w: %q", ErrBadAction, raw)
		}
		id, err1 := strconv.Atoi(parts[1])
		page, err2 := strconv.Atoi(strings.TrimPrefix(parts[2], "p"))
		if err1 != nil || err2 != nil {
			return Action{}, fmt.Errorf("%w: %q", ErrBadAction, raw)
		}
		return Action{Kind: ActionPick, Prefix: parts[0], ProductID: id, Page: page}, nil
	}

	return Action{}, fmt.Errorf("%w: %q", ErrBadAction, raw)
}

// =============================================================================
// ACTION BUILDERS - inverse of ParseAction, used by keyboard builders
// =============================================================================

func menuAction(name string) string { return "menu:" + name }

func pageAction(prefix string, page int) string {
	return fmt.Sprintf("pg:%s:%d", prefix, page)
}

func pickAction(prefix string, productID, page int) string {
	return fmt.Sprintf("%s:%d:p%d", prefix, productID, page)
}

func sellQtyAction(productID, qty int) string {
	return fmt.Sprintf("sellqty:%d:%d", productID, qty)
}

func sellOtherAction(productID int) string {
	return fmt.Sprintf("sellother:%d", productID)
}

func editStockAction(direction string, productID int) string {
	return fmt.Sprintf("editprod:%s:%d", direction, productID)
}

func deleteConfirmAction(productID int) string {
	return fmt.Sprintf("delconfirm:%d:yes", productID)
}

func accessDecideAction(accept bool, userID string) string {
	verb := "reject"
	if accept {
		verb = "accept"
	}
	return fmt.Sprintf("access:%s:%s", verb, userID)
}

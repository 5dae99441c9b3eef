/*
users.go - User management and settings flows

PURPOSE:
  Administrators grant and revoke seller access, rename users and flip
  roles. Every user with a role can rename themselves through the settings
  menu. Identifier steps accept a ChatID or a stored name; typing a back
  label cancels the step because the inline back button may have scrolled
  away.
*/
package bot

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/vinoteca/stockbot/conversation"
	"github.com/vinoteca/stockbot/ledger"
)

var chatIDPattern = regexp.MustCompile(`^-?\d+$`)

func (r *Router) showUsersMenu(ctx context.Context, ev Event) error {
	if !r.policy().IsAdmin(ev.UserID) {
		return r.send(ctx, ev.UserID, Reply{Text: "Nu aveți permisiuni.", RemoveKeyboard: true})
	}
	r.states.Clear(ev.UserID)
	return r.send(ctx, ev.UserID, Reply{Text: "Gestiune utilizatori:", Keyboard: usersManagementMenu()})
}

func (r *Router) listUsers(ctx context.Context, ev Event) error {
	if !r.policy().IsAdmin(ev.UserID) {
		return r.send(ctx, ev.UserID, Reply{Text: "Nu aveți permisiuni.", RemoveKeyboard: true})
	}

	users := r.ledger.Users()
	if len(users) == 0 {
		return r.send(ctx, ev.UserID, Reply{Text: "Nu există utilizatori înregistrați.", Keyboard: usersManagementMenu()})
	}

	lines := make([]string, 0, len(users)+1)
	lines = append(lines, "👥 Utilizatori înregistrați:\n")
	for _, u := range users {
		lines = append(lines, userLine(u))
	}
	return r.send(ctx, ev.UserID, Reply{Text: strings.Join(lines, "\n"), Keyboard: usersManagementMenu()})
}

// =============================================================================
// ADD SELLER (chat id -> optional name)
// =============================================================================

func (r *Router) startAddSeller(ctx context.Context, ev Event) error {
	if !r.policy().IsAdmin(ev.UserID) {
		return r.send(ctx, ev.UserID, Reply{Text: "Nu aveți permisiuni.", RemoveKeyboard: true})
	}

	r.states.Set(ev.UserID, conversation.State{Mode: conversation.ModeAddSellerID})
	text := "Introduceți ChatID-ul pentru a adăuga un vânzător:\n\n" +
		"(După ChatID veți putea adăuga un nume custom pentru vânzător)\n\n" +
		userListing(r.ledger.Users())
	return r.send(ctx, ev.UserID, Reply{
		Text:           text,
		Inline:         inlineBackMenu(menuAction(MenuUsersBack)),
		RemoveKeyboard: true,
	})
}

func (r *Router) addSellerID(ctx context.Context, ev Event, text string) error {
	if !r.policy().IsAdmin(ev.UserID) {
		r.states.Clear(ev.UserID)
		return r.denyNotAdmin(ctx, ev)
	}
	if isBackLabel(text) {
		r.states.Clear(ev.UserID)
		return r.showUsersMenu(ctx, ev)
	}
	if !chatIDPattern.MatchString(text) {
		return r.send(ctx, ev.UserID, Reply{
			Text:   "ChatID invalid. Te rog să introduci un număr valid (ex: 123456789).\n\nIntroduceți ChatID-ul utilizatorului:",
			Inline: inlineBackMenu(menuAction(MenuUsersBack)),
		})
	}

	if existing, err := r.ledger.User(text); err == nil && existing.Role == ledger.RoleAdministrator {
		r.states.Clear(ev.UserID)
		return r.send(ctx, ev.UserID, Reply{
			Text:     fmt.Sprintf("Utilizatorul cu ChatID %s este deja administrator.", text),
			Keyboard: r.mainMenuFor(ev.UserID),
		})
	}

	r.states.Set(ev.UserID, conversation.State{Mode: conversation.ModeAddSellerName, TargetUserID: text})
	return r.send(ctx, ev.UserID, Reply{
		Text: fmt.Sprintf("ChatID validat: %s\n\nIntroduceți numele custom pentru vânzător (sau \"Skip\" pentru a continua fără nume):", text),
		Inline: inlineBackMenu(menuAction(MenuUsersBack)),
	})
}

func (r *Router) addSellerName(ctx context.Context, ev Event, st conversation.State, text string) error {
	if !r.policy().IsAdmin(ev.UserID) {
		r.states.Clear(ev.UserID)
		return r.denyNotAdmin(ctx, ev)
	}
	if isBackLabel(text) {
		r.states.Clear(ev.UserID)
		return r.showUsersMenu(ctx, ev)
	}

	name := text
	if strings.EqualFold(name, "skip") {
		name = ""
	}

	u := r.ledger.UpsertUser(st.TargetUserID, ledger.RoleSeller, name)
	r.states.Clear(ev.UserID)
	if !r.persist(ctx, ev.UserID) {
		return nil
	}
	return r.send(ctx, ev.UserID, Reply{
		Text:     fmt.Sprintf("✅ Vânzător adăugat cu succes!\n%s — Rol: %s", u.Display(), u.Role),
		Keyboard: r.mainMenuFor(ev.UserID),
	})
}

// =============================================================================
// CHANGE USER NAME (identifier -> new name)
// =============================================================================

func (r *Router) startChangeUserName(ctx context.Context, ev Event) error {
	if !r.policy().IsAdmin(ev.UserID) {
		return r.send(ctx, ev.UserID, Reply{Text: "Nu aveți permisiuni.", RemoveKeyboard: true})
	}

	r.states.Set(ev.UserID, conversation.State{Mode: conversation.ModeChangeUserID})
	text := "Introduceți ChatID-ul sau numele utilizatorului pentru a-i schimba numele:\n\n" +
		userListing(r.ledger.Users())
	return r.send(ctx, ev.UserID, Reply{
		Text:           text,
		Inline:         inlineBackMenu(menuAction(MenuUsersBack)),
		RemoveKeyboard: true,
	})
}

func (r *Router) changeUserNameID(ctx context.Context, ev Event, text string) error {
	if !r.policy().IsAdmin(ev.UserID) {
		r.states.Clear(ev.UserID)
		return r.denyNotAdmin(ctx, ev)
	}
	if isBackLabel(text) {
		r.states.Clear(ev.UserID)
		return r.showUsersMenu(ctx, ev)
	}

	u, err := r.ledger.UserByIDOrName(text)
	if err != nil {
		r.states.Clear(ev.UserID)
		return r.send(ctx, ev.UserID, Reply{
			Text:   fmt.Sprintf("Utilizatorul %q nu a fost găsit.", text),
			Inline: inlineBackMenu(menuAction(MenuUsersBack)),
		})
	}

	r.states.Set(ev.UserID, conversation.State{Mode: conversation.ModeChangeUserValue, TargetUserID: u.ID})
	current := u.Name
	if current == "" {
		current = "(fără nume)"
	}
	return r.send(ctx, ev.UserID, Reply{
		Text: fmt.Sprintf("Utilizator: %s\nRol: %s\nNume actual: %s\n\nIntroduceți noul nume (sau \"Sterge\" pentru a șterge numele existent):",
			u.Display(), u.Role, current),
		Inline:         inlineBackMenu(menuAction(MenuUsersBack)),
		RemoveKeyboard: true,
	})
}

func (r *Router) changeUserNameValue(ctx context.Context, ev Event, st conversation.State, text string) error {
	if !r.policy().IsAdmin(ev.UserID) {
		r.states.Clear(ev.UserID)
		return r.denyNotAdmin(ctx, ev)
	}
	if isBackLabel(text) {
		r.states.Clear(ev.UserID)
		return r.showUsersMenu(ctx, ev)
	}

	name := text
	if isDeleteWord(text) {
		name = ""
	}

	u, err := r.ledger.SetUserName(st.TargetUserID, name)
	if err != nil {
		r.states.Clear(ev.UserID)
		return r.send(ctx, ev.UserID, Reply{
			Text:     fmt.Sprintf("Utilizatorul cu ChatID %s nu a fost găsit.", st.TargetUserID),
			Keyboard: r.mainMenuFor(ev.UserID),
		})
	}

	r.states.Clear(ev.UserID)
	if !r.persist(ctx, ev.UserID) {
		return nil
	}
	action := "schimbat"
	if name == "" {
		action = "șters"
	}
	return r.send(ctx, ev.UserID, Reply{
		Text:     fmt.Sprintf("✅ Numele utilizatorului %s a fost %s.", u.Display(), action),
		Keyboard: r.mainMenuFor(ev.UserID),
	})
}

func isDeleteWord(text string) bool {
	switch strings.ToLower(text) {
	case "sterge", "șterge", "delete":
		return true
	}
	return false
}

// =============================================================================
// CHANGE ROLE (identifier -> DA/NU on the toggled role)
// =============================================================================

func (r *Router) startChangeRole(ctx context.Context, ev Event) error {
	if !r.policy().IsAdmin(ev.UserID) {
		return r.send(ctx, ev.UserID, Reply{Text: "Nu aveți permisiuni.", RemoveKeyboard: true})
	}

	r.states.Set(ev.UserID, conversation.State{Mode: conversation.ModeChangeRoleID})
	return r.send(ctx, ev.UserID, Reply{
		Text: "Introduceți ChatID-ul sau numele utilizatorului pentru a-i schimba rolul:\n\n" +
			"(Puteți folosi ChatID sau numele dacă utilizatorul are deja un nume setat)\n" +
			"(Puteți schimba între 'seller' și 'administrator')",
		Inline:         inlineBackMenu(menuAction(MenuUsersBack)),
		RemoveKeyboard: true,
	})
}

func (r *Router) changeRoleID(ctx context.Context, ev Event, text string) error {
	if !r.policy().IsAdmin(ev.UserID) {
		r.states.Clear(ev.UserID)
		return r.denyNotAdmin(ctx, ev)
	}
	if isBackLabel(text) {
		r.states.Clear(ev.UserID)
		return r.showUsersMenu(ctx, ev)
	}

	u, err := r.ledger.UserByIDOrName(text)
	if err != nil {
		r.states.Clear(ev.UserID)
		return r.send(ctx, ev.UserID, Reply{
			Text:   fmt.Sprintf("Utilizatorul %q nu a fost găsit.", text),
			Inline: inlineBackMenu(menuAction(MenuUsersBack)),
		})
	}

	r.states.Set(ev.UserID, conversation.State{Mode: conversation.ModeChangeRolePick, TargetUserID: u.ID})
	return r.send(ctx, ev.UserID, Reply{
		Text: fmt.Sprintf("Utilizator: %s\nRol actual: %s\nRol nou propus: %s\n\nScrieți \"DA\" pentru a confirma schimbarea sau \"NU\" pentru anulare:",
			u.Display(), u.Role, toggledRole(u.Role)),
		Inline: inlineBackMenu(menuAction(MenuUsersBack)),
	})
}

func (r *Router) changeRoleConfirm(ctx context.Context, ev Event, st conversation.State, text string) error {
	if !r.policy().IsAdmin(ev.UserID) {
		r.states.Clear(ev.UserID)
		return r.denyNotAdmin(ctx, ev)
	}
	if isBackLabel(text) {
		r.states.Clear(ev.UserID)
		return r.showUsersMenu(ctx, ev)
	}

	u, err := r.ledger.User(st.TargetUserID)
	if err != nil {
		r.states.Clear(ev.UserID)
		return r.send(ctx, ev.UserID, Reply{
			Text:     fmt.Sprintf("Utilizatorul cu ChatID %s nu a fost găsit.", st.TargetUserID),
			Keyboard: r.mainMenuFor(ev.UserID),
		})
	}

	switch strings.ToUpper(text) {
	case "DA", "YES":
		newRole := toggledRole(u.Role)
		updated, err := r.ledger.SetUserRole(u.ID, newRole)
		if err != nil {
			r.states.Clear(ev.UserID)
			return r.send(ctx, ev.UserID, Reply{Text: "Utilizatorul nu a fost găsit.", Keyboard: r.mainMenuFor(ev.UserID)})
		}
		r.states.Clear(ev.UserID)
		if !r.persist(ctx, ev.UserID) {
			return nil
		}
		return r.send(ctx, ev.UserID, Reply{
			Text: fmt.Sprintf("✅ Rolul utilizatorului %s a fost schimbat de la %q la %q.",
				updated.Display(), u.Role, newRole),
			Keyboard: r.mainMenuFor(ev.UserID),
		})
	case "NU", "NO":
		r.states.Clear(ev.UserID)
		return r.send(ctx, ev.UserID, Reply{Text: "Schimbarea rolului a fost anulată.", Keyboard: r.mainMenuFor(ev.UserID)})
	}

	return r.send(ctx, ev.UserID, Reply{
		Text:   "Scrieți \"DA\" pentru confirmare sau \"NU\" pentru anulare.",
		Inline: inlineBackMenu(menuAction(MenuUsersBack)),
	})
}

func toggledRole(role ledger.Role) ledger.Role {
	if role == ledger.RoleAdministrator {
		return ledger.RoleSeller
	}
	return ledger.RoleAdministrator
}

// =============================================================================
// REMOVE SELLER
// =============================================================================

func (r *Router) startRemoveSeller(ctx context.Context, ev Event) error {
	if !r.policy().IsAdmin(ev.UserID) {
		return r.send(ctx, ev.UserID, Reply{Text: "Nu aveți permisiuni.", RemoveKeyboard: true})
	}

	r.states.Set(ev.UserID, conversation.State{Mode: conversation.ModeRemoveSellerID})

	var sellers []ledger.User
	for _, u := range r.ledger.Users() {
		if u.Role == ledger.RoleSeller {
			sellers = append(sellers, u)
		}
	}

	text := "Introduceți ChatID-ul sau numele vânzătorului pentru a-l șterge:\n\n" +
		"(Atenție: Utilizatorii cu rol de administrator nu pot fi șterși)\n\n"
	if len(sellers) == 0 {
		text += "❌ Nu există vânzători înregistrați."
	} else {
		lines := make([]string, 0, len(sellers)+1)
		lines = append(lines, "📋 Vânzători actuali:\n")
		for _, u := range sellers {
			lines = append(lines, "👤 "+u.Display())
		}
		text += strings.Join(lines, "\n")
	}

	return r.send(ctx, ev.UserID, Reply{
		Text:           text,
		Inline:         inlineBackMenu(menuAction(MenuUsersBack)),
		RemoveKeyboard: true,
	})
}

func (r *Router) removeSellerID(ctx context.Context, ev Event, text string) error {
	if !r.policy().IsAdmin(ev.UserID) {
		r.states.Clear(ev.UserID)
		return r.denyNotAdmin(ctx, ev)
	}
	if isBackLabel(text) {
		r.states.Clear(ev.UserID)
		return r.showUsersMenu(ctx, ev)
	}

	u, err := r.ledger.UserByIDOrName(text)
	if err != nil {
		return r.send(ctx, ev.UserID, Reply{
			Text:   fmt.Sprintf("Utilizatorul %q nu a fost găsit.", text),
			Inline: inlineBackMenu(menuAction(MenuUsersBack)),
		})
	}
	if u.Role == ledger.RoleAdministrator {
		r.states.Clear(ev.UserID)
		return r.send(ctx, ev.UserID, Reply{Text: "Nu puteți șterge un administrator.", Keyboard: r.mainMenuFor(ev.UserID)})
	}

	if err := r.ledger.DeleteUser(u.ID); err != nil {
		r.states.Clear(ev.UserID)
		return r.send(ctx, ev.UserID, Reply{Text: "Utilizatorul nu a fost găsit.", Keyboard: r.mainMenuFor(ev.UserID)})
	}

	r.states.Clear(ev.UserID)
	if !r.persist(ctx, ev.UserID) {
		return nil
	}
	return r.send(ctx, ev.UserID, Reply{
		Text:     fmt.Sprintf("✅ Utilizatorul %s a fost șters.", u.Display()),
		Keyboard: r.mainMenuFor(ev.UserID),
	})
}

// =============================================================================
// SETTINGS (available to every user with a role)
// =============================================================================

func (r *Router) showSettings(ctx context.Context, ev Event) error {
	pol := r.policy()
	if !pol.HasAccess(ev.UserID) {
		return r.send(ctx, ev.UserID, Reply{Text: "Nu aveți acces.", RemoveKeyboard: true})
	}

	display := "ChatID: " + ev.UserID
	name := "(fără nume)"
	if u, err := r.ledger.User(ev.UserID); err == nil && u.Name != "" {
		display = u.Display()
		name = u.Name
	}
	role, _ := pol.RoleOf(ev.UserID)

	return r.send(ctx, ev.UserID, Reply{
		Text: fmt.Sprintf("⚙️ Setări\n\nUtilizator: %s\nRol: %s\nNume actual: %s\n\nAlegeți o opțiune:",
			display, role, name),
		Keyboard: settingsMenu(),
	})
}

func (r *Router) startChangeMyName(ctx context.Context, ev Event) error {
	if !r.policy().HasAccess(ev.UserID) {
		return r.send(ctx, ev.UserID, Reply{Text: "Nu aveți acces.", RemoveKeyboard: true})
	}

	r.states.Set(ev.UserID, conversation.State{Mode: conversation.ModeChangeMyName})
	current := "(fără nume)"
	if u, err := r.ledger.User(ev.UserID); err == nil && u.Name != "" {
		current = u.Name
	}
	return r.send(ctx, ev.UserID, Reply{
		Text: fmt.Sprintf("Schimbă numele tău:\n\nNume actual: %s\n\nIntroduceți noul nume (sau \"Sterge\" pentru a șterge numele existent):", current),
		Inline:         inlineBackMenu(menuAction(MenuHome)),
		RemoveKeyboard: true,
	})
}

func (r *Router) changeMyNameValue(ctx context.Context, ev Event, text string) error {
	pol := r.policy()
	if !pol.HasAccess(ev.UserID) {
		r.states.Clear(ev.UserID)
		return r.send(ctx, ev.UserID, Reply{Text: "Nu aveți acces.", Keyboard: r.mainMenuFor(ev.UserID)})
	}
	if isBackLabel(text) {
		r.states.Clear(ev.UserID)
		return r.showSettings(ctx, ev)
	}

	name := text
	if isDeleteWord(text) {
		name = ""
	}

	// Static admins may have no ledger record yet; materialize one so the
	// name has somewhere to live.
	role, _ := pol.RoleOf(ev.UserID)
	r.ledger.UpsertUser(ev.UserID, role, "")
	u, err := r.ledger.SetUserName(ev.UserID, name)
	if err != nil {
		r.states.Clear(ev.UserID)
		return r.send(ctx, ev.UserID, Reply{Text: "Nu aveți acces.", Keyboard: r.mainMenuFor(ev.UserID)})
	}

	r.states.Clear(ev.UserID)
	if !r.persist(ctx, ev.UserID) {
		return nil
	}
	action := "schimbat"
	if name == "" {
		action = "șters"
	}
	return r.send(ctx, ev.UserID, Reply{
		Text:     fmt.Sprintf("✅ Numele tău %s a fost %s.", u.Display(), action),
		Keyboard: r.mainMenuFor(ev.UserID),
	})
}

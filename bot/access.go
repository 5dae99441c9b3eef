/*
access.go - Access request flows

PURPOSE:
  Users without a role can request access. A new request supersedes any
  pending one from the same user. Every administrator (ledger admins plus
  the static list) is notified with accept/reject buttons; deciding a
  request that was already processed answers gracefully.
*/
package bot

import (
	"context"
	"fmt"

	"github.com/vinoteca/stockbot/conversation"
	"github.com/vinoteca/stockbot/ledger"
)

func (r *Router) startAccessRequest(ctx context.Context, ev Event) error {
	if r.policy().HasAccess(ev.UserID) {
		return r.send(ctx, ev.UserID, Reply{
			Text:     "👋 Bun venit! Bot de gestiune stoc. Totul pe butoane.",
			Keyboard: r.mainMenuFor(ev.UserID),
		})
	}

	if req, err := r.ledger.AccessRequest(ev.UserID); err == nil {
		name := req.RequestedName
		if name == "" {
			name = "Nu a fost introdus încă"
		}
		return r.send(ctx, ev.UserID, Reply{
			Text: fmt.Sprintf("Aveți o cerere de acces în așteptare.\nNume introdus: %s\n\nVă rugăm să așteptați răspunsul unui administrator.", name),
			RemoveKeyboard: true,
		})
	}

	r.states.Set(ev.UserID, conversation.State{Mode: conversation.ModeAccessName})
	return r.send(ctx, ev.UserID, Reply{
		Text: "📝 Solicitare acces\n\nPentru a solicita acces, introduceți numele vostru:\n(Acest nume va fi afișat în rapoarte și pentru identificare)",
		Inline:         inlineBackMenu(menuAction(MenuHome)),
		RemoveKeyboard: true,
	})
}

func (r *Router) accessRequestName(ctx context.Context, ev Event, text string) error {
	if isBackLabel(text) {
		r.states.Clear(ev.UserID)
		return r.send(ctx, ev.UserID, Reply{Text: "Solicitarea a fost anulată.", RemoveKeyboard: true})
	}

	req := r.ledger.PutAccessRequest(ev.UserID, ev.Handle, text)
	r.states.Clear(ev.UserID)
	if !r.persist(ctx, ev.UserID) {
		return nil
	}

	if err := r.send(ctx, ev.UserID, Reply{
		Text: fmt.Sprintf("✅ Cererea dvs. de acces a fost trimisă!\n\nNume introdus: %s\n\nUn administrator va procesa cererea în curând.\nVeți primi o notificare când cererea va fi procesată.", text),
		RemoveKeyboard: true,
	}); err != nil {
		return err
	}

	r.notifyAdmins(ctx, req)
	return nil
}

// notifyAdmins fans the request out to every administrator. Per-admin
// delivery failures are logged and skipped so one blocked chat does not
// hide the request from the rest.
func (r *Router) notifyAdmins(ctx context.Context, req ledger.AccessRequest) {
	adminIDs := make(map[string]bool)
	for _, u := range r.ledger.Users() {
		if u.Role == ledger.RoleAdministrator {
			adminIDs[u.ID] = true
		}
	}
	for _, id := range r.admins {
		if id != "" {
			adminIDs[id] = true
		}
	}

	handle := req.Handle
	if handle == "" {
		handle = "Necunoscut"
	}
	text := fmt.Sprintf("📝 Cerere de acces nouă\n\nUtilizator: %s (%s)\nChatID: %s\nNume solicitat: %s\n\nAlegeți o acțiune:",
		req.RequestedName, handle, req.UserID, req.RequestedName)

	for id := range adminIDs {
		if err := r.out.Send(ctx, id, Reply{Text: text, Inline: accessDecisionMenu(req.UserID)}); err != nil {
			r.log.WithError(err).WithField("admin", id).Warn("access request notification failed")
		}
	}
}

// decideAccessRequest handles the accept/reject buttons.
func (r *Router) decideAccessRequest(ctx context.Context, ev Event, targetID string, accept bool) error {
	if !r.policy().IsAdmin(ev.UserID) {
		return r.send(ctx, ev.UserID, Reply{Text: "Nu aveți permisiuni!", RemoveKeyboard: true})
	}

	req, err := r.ledger.AccessRequest(targetID)
	if err != nil {
		return r.send(ctx, ev.UserID, Reply{Text: "❌ Cererea a fost deja procesată sau nu mai există."})
	}

	display := "ChatID: " + targetID
	if req.RequestedName != "" {
		display = fmt.Sprintf("%s (ChatID: %s)", req.RequestedName, targetID)
	}

	if accept {
		r.ledger.UpsertUser(targetID, ledger.RoleSeller, req.RequestedName)
		_ = r.ledger.RemoveAccessRequest(targetID)
		if !r.persist(ctx, ev.UserID) {
			return nil
		}

		if err := r.send(ctx, ev.UserID, Reply{
			Text: fmt.Sprintf("✅ Acces acordat\n\nUtilizator: %s\nRol: vânzător", display),
		}); err != nil {
			return err
		}
		if err := r.out.Send(ctx, targetID, Reply{
			Text: "✅ Cererea dvs. de acces a fost acceptată!\n\nAcum puteți utiliza botul cu rol de vânzător.\n\nUtilizați /start pentru a începe.",
		}); err != nil {
			r.log.WithError(err).WithField("user", targetID).Warn("grant notification failed")
		}
		return nil
	}

	_ = r.ledger.RemoveAccessRequest(targetID)
	if !r.persist(ctx, ev.UserID) {
		return nil
	}

	if err := r.send(ctx, ev.UserID, Reply{
		Text: fmt.Sprintf("❌ Acces respins\n\nUtilizator: %s", display),
	}); err != nil {
		return err
	}
	if err := r.out.Send(ctx, targetID, Reply{
		Text: "❌ Cererea dvs. de acces a fost respinsă.\n\nContactați un administrator pentru mai multe informații.",
	}); err != nil {
		r.log.WithError(err).WithField("user", targetID).Warn("reject notification failed")
	}
	return nil
}

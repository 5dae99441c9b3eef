/*
update.go - Inbound update payloads

PURPOSE:
  Defines the JSON shapes the chat gateway delivers to the webhook and the
  normalization into bot.Event. An update carries either a typed message or
  a button press (callback with an action string), never both.

SEE ALSO:
  - server.go: Webhook endpoint that decodes updates
  - bot/event.go: The normalized event the router consumes
*/
package gateway

import (
	"strconv"

	"github.com/vinoteca/stockbot/bot"
)

// Update is one delivery from the chat gateway.
type Update struct {
	UpdateID int64     `json:"update_id"`
	Message  *Message  `json:"message,omitempty"`
	Callback *Callback `json:"callback_query,omitempty"`
}

// Message is a typed chat message.
type Message struct {
	From Account `json:"from"`
	Text string `json:"text"`
}

// Callback is an inline-button press. Data carries the action string the
// button was built with.
type Callback struct {
	ID   string `json:"id"`
	From Account `json:"from"`
	Data string `json:"data"`
}

// Account identifies the account behind a message or button press.
type Account struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// handle returns the best human-readable identifier for notifications.
func (s Account) handle() string {
	if s.Username != "" {
		return "@" + s.Username
	}
	return s.FirstName
}

// Event normalizes the update. The second return is false when the update
// carries nothing the router can act on.
func (u Update) Event() (bot.Event, bool) {
	switch {
	case u.Callback != nil:
		return bot.Event{
			UserID: strconv.FormatInt(u.Callback.From.ID, 10),
			Handle: u.Callback.From.handle(),
			Action: u.Callback.Data,
		}, true
	case u.Message != nil:
		return bot.Event{
			UserID: strconv.FormatInt(u.Message.From.ID, 10),
			Handle: u.Message.From.handle(),
			Text:   u.Message.Text,
		}, true
	}
	return bot.Event{}, false
}

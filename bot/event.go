/*
Package bot is the interaction router: it turns incoming chat events into
ledger operations and outgoing replies.

PURPOSE:
  One entry point, Router.HandleEvent, receives every normalized event from
  the gateway in arrival order. The router consults the access policy,
  advances per-user conversation state, performs the requested ledger
  operation and sends the reply through a Replier.

EVENT SHAPE:
  An event is either free text (Text set) or a button press (Action set).
  Commands are text starting with "/". The gateway guarantees one of the
  two is set.

SEE ALSO:
  - action.go: the button action grammar
  - router.go: dispatch order (commands, menu buttons, state, actions)
  - gateway: the transport that feeds and drains this package
*/
package bot

import "context"

// Event is one normalized incoming interaction from a chat user.
type Event struct {
	// UserID is the stable chat id of the sender, never empty.
	UserID string

	// Handle is the sender's public username or first name, used for
	// access-request notifications. May be empty.
	Handle string

	// Text is the message text for text events.
	Text string

	// Action is the raw action identifier for button events.
	Action string
}

// Reply is one outgoing message. At most one of Keyboard and Inline is set;
// RemoveKeyboard clears any persistent keyboard on the user's screen.
type Reply struct {
	Text           string
	Keyboard       *Keyboard
	Inline         *InlineKeyboard
	RemoveKeyboard bool
}

// Keyboard is a persistent reply keyboard: rows of plain text buttons that
// send their label back as a text event.
type Keyboard struct {
	Rows [][]string
}

// InlineKeyboard is rows of buttons attached to one message. Pressing one
// sends its Action back as a button event.
type InlineKeyboard struct {
	Rows [][]Button
}

// Button is one inline button.
type Button struct {
	Label  string
	Action string
}

// Document is one outgoing file attachment.
type Document struct {
	Filename string
	Caption  string
	Data     []byte
	Keyboard *Keyboard
}

// Replier delivers outgoing messages. Implementations talk to the chat
// gateway; tests capture the traffic instead.
type Replier interface {
	Send(ctx context.Context, userID string, reply Reply) error
	SendDocument(ctx context.Context, userID string, doc Document) error
}

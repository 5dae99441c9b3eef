/*
sender.go - Outbound message delivery

PURPOSE:
  Implements bot.Replier over the chat gateway's HTTP API. Text replies go
  out as JSON to sendMessage; report files go out as multipart uploads to
  sendDocument. Keyboard structures are translated to the gateway's
  reply_markup wire shape here so the bot package never sees wire concerns.

SEE ALSO:
  - bot/event.go: Reply, Keyboard and Document definitions
*/
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/vinoteca/stockbot/bot"
)

// Sender posts replies to the chat gateway API.
type Sender struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewSender builds a Sender for the gateway at baseURL authenticated with
// token.
func NewSender(baseURL, token string) *Sender {
	return &Sender{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// ===== WIRE SHAPES =====

type keyboardButton struct {
	Text string `json:"text"`
}

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type replyMarkup struct {
	Keyboard       [][]keyboardButton `json:"keyboard,omitempty"`
	ResizeKeyboard bool               `json:"resize_keyboard,omitempty"`
	InlineKeyboard [][]inlineButton   `json:"inline_keyboard,omitempty"`
	RemoveKeyboard bool               `json:"remove_keyboard,omitempty"`
}

type sendMessageRequest struct {
	ChatID string       `json:"chat_id"`
	Text   string       `json:"text"`
	Markup *replyMarkup `json:"reply_markup,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func markupFor(kb *bot.Keyboard, inline *bot.InlineKeyboard, remove bool) *replyMarkup {
	switch {
	case inline != nil:
		m := &replyMarkup{}
		for _, row := range inline.Rows {
			wire := make([]inlineButton, 0, len(row))
			for _, b := range row {
				wire = append(wire, inlineButton{Text: b.Label, CallbackData: b.Action})
			}
			m.InlineKeyboard = append(m.InlineKeyboard, wire)
		}
		return m
	case kb != nil:
		m := &replyMarkup{ResizeKeyboard: true}
		for _, row := range kb.Rows {
			wire := make([]keyboardButton, 0, len(row))
			for _, label := range row {
				wire = append(wire, keyboardButton{Text: label})
			}
			m.Keyboard = append(m.Keyboard, wire)
		}
		return m
	case remove:
		return &replyMarkup{RemoveKeyboard: true}
	}
	return nil
}

// ===== REPLIER =====

// Send delivers a text reply.
func (s *Sender) Send(ctx context.Context, userID string, reply bot.Reply) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID: userID,
		Text:   reply.Text,
		Markup: markupFor(reply.Keyboard, reply.Inline, reply.RemoveKeyboard),
	})
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.methodURL("sendMessage"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

// SendDocument uploads a report file.
func (s *Sender) SendDocument(ctx context.Context, userID string, doc bot.Document) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("chat_id", userID); err != nil {
		return err
	}
	if doc.Caption != "" {
		if err := mw.WriteField("caption", doc.Caption); err != nil {
			return err
		}
	}
	if doc.Keyboard != nil {
		markup, err := json.Marshal(markupFor(doc.Keyboard, nil, false))
		if err != nil {
			return err
		}
		if err := mw.WriteField("reply_markup", string(markup)); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile("document", doc.Filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(doc.Data); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.methodURL("sendDocument"), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(req)
}

// AnswerCallback acknowledges a button press so the client stops showing a
// spinner on it. Failures here are cosmetic.
func (s *Sender) AnswerCallback(ctx context.Context, callbackID string) error {
	body, err := json.Marshal(map[string]string{"callback_query_id": callbackID})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.methodURL("answerCallbackQuery"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *Sender) methodURL(method string) string {
	return s.baseURL + "/bot" + s.token + "/" + method
}

func (s *Sender) do(req *http.Request) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var api apiResponse
	if err := json.Unmarshal(payload, &api); err != nil {
		return fmt.Errorf("decoding gateway response: %w", err)
	}
	if !api.OK {
		return fmt.Errorf("gateway rejected call: %s", api.Description)
	}
	return nil
}

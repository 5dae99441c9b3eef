package bot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinoteca/stockbot/bot"
)

func TestParseAction_Grammar(t *testing.T) {
	cases := []struct {
		raw  string
		want bot.Action
	}{
		{"noop", bot.Action{Kind: bot.ActionNoop}},
		{"menu:home", bot.Action{Kind: bot.ActionMenu, Menu: "home"}},
		{"menu:vanzari_back", bot.Action{Kind: bot.ActionMenu, Menu: "vanzari_back"}},
		{"pg:sellpick:3", bot.Action{Kind: bot.ActionPage, Prefix: "sellpick", Page: 3}},
		{"pg:delpick:-1", bot.Action{Kind: bot.ActionPage, Prefix: "delpick", Page: -1}},
		{"sellpick:12:p2", bot.Action{Kind: bot.ActionPick, Prefix: "sellpick", ProductID: 12, Page: 2}},
		{"renpick:7:p1", bot.Action{Kind: bot.ActionPick, Prefix: "renpick", ProductID: 7, Page: 1}},
		{"sellqty:4:10", bot.Action{Kind: bot.ActionSellQty, ProductID: 4, Qty: 10}},
		{"sellother:4", bot.Action{Kind: bot.ActionSellOther, ProductID: 4}},
		{"editprod:add:9", bot.Action{Kind: bot.ActionEditStock, Direction: "add", ProductID: 9}},
		{"editprod:remove:9", bot.Action{Kind: bot.ActionEditStock, Direction: "remove", ProductID: 9}},
		{"delconfirm:5:yes", bot.Action{Kind: bot.ActionDeleteConfirm, ProductID: 5}},
		{"access:request", bot.Action{Kind: bot.ActionAccessRequest}},
		{"access:accept:123", bot.Action{Kind: bot.ActionAccessDecide, Accept: true, TargetID: "123"}},
		{"access:reject:123", bot.Action{Kind: bot.ActionAccessDecide, Accept: false, TargetID: "123"}},
	}

	for _, tc := range cases {
		got, err := bot.ParseAction(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

func TestParseAction_RejectsMalformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"menu",
		"menu:",
		"pg:sellpick",
		"pg:unknown:2",
		"pg:sellpick:abc",
		"sellpick:12",
		"sellpick:12:2",
		"sellpick:x:p2",
		"unknownpick:1:p1",
		"sellqty:4",
		"sellqty:a:b",
		"editprod:drop:9",
		"delconfirm:5:no",
		"delconfirm:x:yes",
		"access:accept:",
		"access:grant:1",
		"garbage",
	} {
		_, err := bot.ParseAction(raw)
		assert.ErrorIs(t, err, bot.ErrBadAction, "%q must be rejected", raw)
	}
}

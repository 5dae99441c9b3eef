package bot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinoteca/stockbot/bot"
	"github.com/vinoteca/stockbot/ledger"
)

func TestParseQuantity(t *testing.T) {
	for text, want := range map[string]int{
		"5":    5,
		" 5 ":  5,
		"5.0":  5,
		"10":   10,
		"5.00": 5,
	} {
		got, err := bot.ParseQuantity(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, got, text)
	}
}

func TestParseQuantity_Rejects(t *testing.T) {
	for _, text := range []string{"", "abc", "5.5", "0", "-2", "1 2", "½"} {
		_, err := bot.ParseQuantity(text)
		assert.ErrorIs(t, err, ledger.ErrInvalidQuantity, "%q must be rejected", text)
	}
}

func TestParseTotal_AllowsZero(t *testing.T) {
	got, err := bot.ParseTotal("0")
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	_, err = bot.ParseTotal("-1")
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)
}

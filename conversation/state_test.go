package conversation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vinoteca/stockbot/conversation"
)

func TestStore_SetGetClear(t *testing.T) {
	s := conversation.NewStore()

	_, ok := s.Get("100")
	assert.False(t, ok)

	s.Set("100", conversation.State{Mode: conversation.ModeAddName})
	st, ok := s.Get("100")
	assert.True(t, ok)
	assert.Equal(t, conversation.ModeAddName, st.Mode)

	s.Clear("100")
	_, ok = s.Get("100")
	assert.False(t, ok)
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	s := conversation.NewStore()
	s.Clear("100")
	s.Clear("100")

	_, ok := s.Get("100")
	assert.False(t, ok)
}

func TestStore_StatesAreIndependentPerUser(t *testing.T) {
	s := conversation.NewStore()
	s.Set("100", conversation.State{Mode: conversation.ModeSaleQty, ProductID: 7})
	s.Set("200", conversation.State{Mode: conversation.ModeAddType, DraftName: "Merlot"})

	st1, _ := s.Get("100")
	st2, _ := s.Get("200")
	assert.Equal(t, 7, st1.ProductID)
	assert.Equal(t, "Merlot", st2.DraftName)

	s.Clear("100")
	_, ok := s.Get("200")
	assert.True(t, ok, "clearing one user must not touch another")
}

func TestStore_SetOverwritesPriorFlow(t *testing.T) {
	// Starting a new flow replaces the old one wholesale, stale fields from
	// the prior flow must not leak through.
	s := conversation.NewStore()
	s.Set("100", conversation.State{Mode: conversation.ModeSaleQty, ProductID: 7, Qty: 3})
	s.Set("100", conversation.State{Mode: conversation.ModeAddName})

	st, _ := s.Get("100")
	assert.Equal(t, conversation.ModeAddName, st.Mode)
	assert.Zero(t, st.ProductID)
	assert.Zero(t, st.Qty)
}

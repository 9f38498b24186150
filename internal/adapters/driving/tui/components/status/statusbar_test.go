package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragman/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragman/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	bar := NewBar(s, km)

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilParams(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestBar_SetState(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetState(StateSearching)

	assert.Equal(t, StateSearching, bar.State())
}

func TestBar_SetMessage(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetMessage("custom message")

	assert.Equal(t, "custom message", bar.Message())
}

func TestBar_SetResultCount(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetResultCount(7)

	assert.Equal(t, 7, bar.ResultCount())
}

func TestBar_SetWidth(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetWidth(120)

	assert.Equal(t, 120, bar.Width())
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetResultCount(3)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
}

func TestBar_View_Ready(t *testing.T) {
	bar := NewBar(nil, nil)

	view := bar.View()

	assert.Contains(t, view, "Ready")
}

func TestBar_View_Searching(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateSearching)

	view := bar.View()

	assert.Contains(t, view, "Searching...")
}

func TestBar_View_Thinking(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateThinking)

	view := bar.View()

	assert.Contains(t, view, "Thinking...")
}

func TestBar_View_Error(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("something broke")

	view := bar.View()

	assert.Contains(t, view, "Error: something broke")
}

func TestBar_View_Error_NoMessage(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)

	view := bar.View()

	assert.Contains(t, view, "Error")
}

func TestBar_View_Results(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateResults)
	bar.SetResultCount(5)

	view := bar.View()

	assert.Contains(t, view, "5 results")
}

func TestBar_View_CustomMessage_TakesPrecedence(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateReady)
	bar.SetMessage("64% confidence, 2 sources")
	bar.SetResultCount(5)

	view := bar.View()

	assert.Contains(t, view, "64% confidence, 2 sources")
	assert.NotContains(t, view, "5 results")
}

func TestBar_View_ContainsHints(t *testing.T) {
	bar := NewBar(nil, nil)

	view := bar.View()

	assert.Contains(t, view, "q: quit")
}

func TestBar_Update_Passive(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(struct{}{})

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

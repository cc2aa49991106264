package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCardDefaults(t *testing.T) {
	card := NewCard(3, 7, "Write release notes", "for the v2 launch")

	assert.Equal(t, uint(3), card.ListID)
	assert.Equal(t, uint(7), card.UserID)
	assert.Equal(t, CARD_STATUS_TODO, card.Status)
	assert.Equal(t, CARD_PRIORITY_MEDIUM, card.Priority)
	require.NotEmpty(t, card.UUID)
	assert.Len(t, card.UUID, 36)
	assert.False(t, card.IsDone())

	require.NoError(t, card.Validate())
}

func TestCardValidate(t *testing.T) {
	card := NewCard(1, 1, "ok", "")
	card.Status = "archived"
	assert.Error(t, card.Validate(), "unknown status")

	card = NewCard(1, 1, "", "")
	assert.Error(t, card.Validate(), "missing title")

	card = NewCard(1, 1, "ok", "")
	card.Priority = "urgent"
	assert.Error(t, card.Validate(), "unknown priority")
}

func TestCardIsDone(t *testing.T) {
	card := NewCard(1, 1, "ok", "")
	assert.False(t, card.IsDone())
	card.Status = CARD_STATUS_DONE
	assert.True(t, card.IsDone())
}

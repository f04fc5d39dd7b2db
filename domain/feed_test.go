package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedCursorRoundTrip(t *testing.T) {
	cursor := FeedCursor{
		ID:        "7f9c3e1a",
		CreatedAt: time.Date(2023, 6, 1, 12, 30, 45, 123456789, time.UTC),
	}

	token := cursor.Encode()
	decoded, err := DecodeFeedCursor(token)
	require.NoError(t, err)

	assert.Equal(t, cursor.ID, decoded.ID)
	assert.True(t, cursor.CreatedAt.Equal(decoded.CreatedAt))
}

func TestDecodeFeedCursorRejectsGarbage(t *testing.T) {
	_, err := DecodeFeedCursor("not a cursor !!!")
	assert.Error(t, err)

	// Valid base64 that isn't a cursor object.
	_, err = DecodeFeedCursor("bm90IGpzb24")
	assert.Error(t, err)
}

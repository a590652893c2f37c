package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	createdAt := time.Date(2026, 8, 1, 12, 30, 0, 123456789, time.UTC)
	id := uuid.New()

	cursor := EncodeCursor(createdAt, id)
	require.NotEmpty(t, cursor)

	gotTime, gotID, err := DecodeCursor(cursor)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotTime))
	assert.Equal(t, id, gotID)
}

func TestDecodeCursor_Empty(t *testing.T) {
	gotTime, gotID, err := DecodeCursor("")
	require.NoError(t, err)
	assert.True(t, gotTime.IsZero())
	assert.Equal(t, uuid.Nil, gotID)
}

func TestDecodeCursor_Garbage(t *testing.T) {
	testCases := []string{
		"not-base64!!!",
		"aGVsbG8=", // base64, но не наш формат
	}
	for _, in := range testCases {
		_, _, err := DecodeCursor(in)
		assert.Error(t, err, "input %q", in)
	}
}

package models

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	last := "Schmitz"
	assert.Equal(t, "Anna Schmitz", UserProfile{FirstName: "Anna", LastName: &last}.DisplayName())
	assert.Equal(t, "Anna", UserProfile{FirstName: "Anna"}.DisplayName())
}

func TestFriendshipEdgeHelpers(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	f := Friendship{UserID: a, FriendID: b}

	assert.True(t, f.Involves(a))
	assert.True(t, f.Involves(b))
	assert.False(t, f.Involves(c))

	assert.Equal(t, b, f.OtherSide(a))
	assert.Equal(t, a, f.OtherSide(b))
}

func TestStringListRoundTrip(t *testing.T) {
	list := StringList{"brauhaus", "altstadt"}
	value, err := list.Value()
	require.NoError(t, err)
	assert.Equal(t, `["brauhaus","altstadt"]`, value)

	var scanned StringList
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, list, scanned)

	var fromBytes StringList
	require.NoError(t, fromBytes.Scan([]byte(`["kneipe"]`)))
	assert.Equal(t, StringList{"kneipe"}, fromBytes)

	var fromNil StringList
	require.NoError(t, fromNil.Scan(nil))
	assert.Nil(t, fromNil)

	assert.Error(t, scanned.Scan(42))
}

func TestStringListNilValue(t *testing.T) {
	var list StringList
	value, err := list.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", value)
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	appErr := NewNetworkError(cause)

	assert.Equal(t, "NETWORK_ERROR", appErr.Code)
	assert.ErrorIs(t, appErr, cause)
	assert.Contains(t, appErr.Error(), "connection refused")
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, 400, StatusForError(NewValidationError("nope")))
	assert.Equal(t, 400, StatusForError(NewDecodeError("events")))
	assert.Equal(t, 401, StatusForError(NewAuthError("nope")))
	assert.Equal(t, 404, StatusForError(NewNotFoundError("Event", uuid.New())))
	assert.Equal(t, 502, StatusForError(NewNetworkError(errors.New("boom"))))
	assert.Equal(t, 500, StatusForError(errors.New("plain")))
}

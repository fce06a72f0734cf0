package aggregate

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elfkoelsch/internal/models"
)

var (
	me     = uuid.New()
	anna   = uuid.New()
	bernd  = uuid.New()
	clara  = uuid.New()
	nobody = uuid.New()
)

func strptr(s string) *string { return &s }
func fptr(f float64) *float64 { return &f }

func testProfiles() []models.UserProfile {
	return []models.UserProfile{
		{ID: me, FirstName: "Ich"},
		{ID: anna, FirstName: "Anna", LastName: strptr("Schmitz"), Username: strptr("anna_s")},
		{ID: bernd, FirstName: "Bernd", Username: strptr("bernd_k")},
		{ID: clara, FirstName: "Clara"},
	}
}

func TestConfirmedFriendsExcludesPending(t *testing.T) {
	friendships := []models.Friendship{
		{ID: uuid.New(), UserID: me, FriendID: anna, Status: models.FriendshipStatusAccepted},
		{ID: uuid.New(), UserID: bernd, FriendID: me, Status: models.FriendshipStatusPending},
	}

	friends := ConfirmedFriends(friendships, testProfiles(), nil, me)
	require.Len(t, friends, 1)
	assert.Equal(t, anna, friends[0].FriendID)
	assert.Equal(t, "Anna Schmitz", friends[0].Name)
}

func TestConfirmedFriendsResolvesOtherSide(t *testing.T) {
	// The friend is whichever side of the edge is not the current user.
	friendships := []models.Friendship{
		{ID: uuid.New(), UserID: me, FriendID: anna, Status: models.FriendshipStatusAccepted},
		{ID: uuid.New(), UserID: bernd, FriendID: me, Status: models.FriendshipStatusAccepted},
	}

	friends := ConfirmedFriends(friendships, testProfiles(), nil, me)
	require.Len(t, friends, 2)
	assert.Equal(t, "Anna Schmitz", friends[0].Name)
	assert.Equal(t, "Bernd", friends[1].Name)
}

func TestConfirmedFriendsDrinkingFlag(t *testing.T) {
	friendships := []models.Friendship{
		{ID: uuid.New(), UserID: me, FriendID: anna, Status: models.FriendshipStatusAccepted},
		{ID: uuid.New(), UserID: me, FriendID: bernd, Status: models.FriendshipStatusAccepted},
	}
	sessions := []models.BeerSession{
		{ID: uuid.New(), UserID: anna, Status: models.SessionStatusActive},
		{ID: uuid.New(), UserID: bernd, Status: models.SessionStatusCompleted},
	}

	friends := ConfirmedFriends(friendships, testProfiles(), sessions, me)
	require.Len(t, friends, 2)

	assert.True(t, friends[0].IsDrinking)
	assert.Equal(t, 2, friends[0].BeerEmojis)
	assert.False(t, friends[1].IsDrinking)
	assert.Equal(t, 0, friends[1].BeerEmojis)
}

func TestConfirmedFriendsSkipsUnresolvableProfiles(t *testing.T) {
	friendships := []models.Friendship{
		{ID: uuid.New(), UserID: me, FriendID: nobody, Status: models.FriendshipStatusAccepted},
		{ID: uuid.New(), UserID: me, FriendID: anna, Status: models.FriendshipStatusAccepted},
	}

	friends := ConfirmedFriends(friendships, testProfiles(), nil, me)
	require.Len(t, friends, 1)
	assert.Equal(t, anna, friends[0].FriendID)
}

func TestConfirmedFriendsSortedByName(t *testing.T) {
	friendships := []models.Friendship{
		{ID: uuid.New(), UserID: me, FriendID: clara, Status: models.FriendshipStatusAccepted},
		{ID: uuid.New(), UserID: me, FriendID: bernd, Status: models.FriendshipStatusAccepted},
		{ID: uuid.New(), UserID: me, FriendID: anna, Status: models.FriendshipStatusAccepted},
	}

	friends := ConfirmedFriends(friendships, testProfiles(), nil, me)
	require.Len(t, friends, 3)
	assert.Equal(t, "Anna Schmitz", friends[0].Name)
	assert.Equal(t, "Bernd", friends[1].Name)
	assert.Equal(t, "Clara", friends[2].Name)
}

func TestPendingRequestsNewestFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	friendships := []models.Friendship{
		{ID: uuid.New(), UserID: anna, FriendID: me, Status: models.FriendshipStatusPending, CreatedAt: base},
		{ID: uuid.New(), UserID: bernd, FriendID: me, Status: models.FriendshipStatusPending, CreatedAt: base.Add(time.Hour)},
	}

	requests := PendingFriendRequests(friendships, testProfiles(), me)
	require.Len(t, requests, 2)
	assert.Equal(t, bernd, requests[0].RequesterID)
	assert.Equal(t, anna, requests[1].RequesterID)
}

func TestPendingRequestsIncludeOutgoing(t *testing.T) {
	// The other side is treated as the requester even when the current user
	// sent the request.
	friendships := []models.Friendship{
		{ID: uuid.New(), UserID: me, FriendID: anna, Status: models.FriendshipStatusPending},
	}

	requests := PendingFriendRequests(friendships, testProfiles(), me)
	require.Len(t, requests, 1)
	assert.Equal(t, anna, requests[0].RequesterID)
}

func TestPendingRequestsExcludeAccepted(t *testing.T) {
	friendships := []models.Friendship{
		{ID: uuid.New(), UserID: anna, FriendID: me, Status: models.FriendshipStatusAccepted},
	}
	assert.Empty(t, PendingFriendRequests(friendships, testProfiles(), me))
}

func TestActiveFriendSessionsIncludesPendingFriends(t *testing.T) {
	// The map's friend set spans every friendship status.
	friendships := []models.Friendship{
		{ID: uuid.New(), UserID: me, FriendID: anna, Status: models.FriendshipStatusPending},
	}
	sessions := []models.BeerSession{
		{ID: uuid.New(), UserID: anna, Status: models.SessionStatusActive},
	}

	markers := ActiveFriendSessions(friendships, testProfiles(), sessions, nil, me)
	require.Len(t, markers, 1)
	assert.Equal(t, anna, markers[0].UserID)
}

func TestActiveFriendSessionsExcludesCompletedAndStrangers(t *testing.T) {
	friendships := []models.Friendship{
		{ID: uuid.New(), UserID: me, FriendID: anna, Status: models.FriendshipStatusAccepted},
	}
	sessions := []models.BeerSession{
		{ID: uuid.New(), UserID: anna, Status: models.SessionStatusCompleted},
		{ID: uuid.New(), UserID: clara, Status: models.SessionStatusActive},
	}

	assert.Empty(t, ActiveFriendSessions(friendships, testProfiles(), sessions, nil, me))
}

func TestActiveFriendSessionsVenueMatchByCoordinates(t *testing.T) {
	venueID := uuid.New()
	venues := []models.KoelschLocation{
		{ID: venueID, Name: "Früh am Dom", Latitude: 50.9402, Longitude: 6.9569},
	}
	friendships := []models.Friendship{
		{ID: uuid.New(), UserID: me, FriendID: anna, Status: models.FriendshipStatusAccepted},
	}
	sessions := []models.BeerSession{
		{
			ID:         uuid.New(),
			UserID:     anna,
			LocationID: venueID,
			Status:     models.SessionStatusActive,
			Latitude:   fptr(50.9402),
			Longitude:  fptr(6.9569),
			Message:    strptr("Prost!"),
			BeerCount:  2,
		},
	}

	markers := ActiveFriendSessions(friendships, testProfiles(), sessions, venues, me)
	require.Len(t, markers, 1)
	assert.Equal(t, "Früh am Dom", markers[0].LocationName)
	assert.Equal(t, "anna_s", markers[0].UserName)
	assert.Equal(t, venueID, markers[0].LocationID)
	assert.Equal(t, 50.9402, markers[0].Latitude)
	assert.Equal(t, "Prost!", markers[0].Message)
	assert.Equal(t, 2, markers[0].BeerCount)
}

func TestActiveFriendSessionsFallbacks(t *testing.T) {
	friendships := []models.Friendship{
		{ID: uuid.New(), UserID: me, FriendID: clara, Status: models.FriendshipStatusAccepted},
	}
	// Clara has no username and the session carries no coordinates.
	sessions := []models.BeerSession{
		{ID: uuid.New(), UserID: clara, Status: models.SessionStatusActive},
	}

	markers := ActiveFriendSessions(friendships, testProfiles(), sessions, nil, me)
	require.Len(t, markers, 1)
	assert.Equal(t, "Unbekannt", markers[0].UserName)
	assert.Equal(t, "Unbekannter Ort", markers[0].LocationName)
	assert.Equal(t, 50.9375, markers[0].Latitude)
	assert.Equal(t, 6.9603, markers[0].Longitude)
}

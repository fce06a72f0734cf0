// Package aggregate computes view-facing state from a local cache snapshot.
// Every function is pure and deterministic: no side effects, no suspension,
// recomputed on every read. Joins that fail to resolve (missing profile)
// silently exclude the record; partial results win over total failure.
package aggregate

import (
	"sort"

	"github.com/google/uuid"

	"elfkoelsch/internal/models"
)

// Fallback marker position (Heumarkt) and labels used when a session has no
// coordinates or no resolvable profile/venue.
const (
	fallbackLatitude  = 50.9375
	fallbackLongitude = 6.9603
	unknownUser       = "Unbekannt"
	unknownVenue      = "Unbekannter Ort"
)

// ConfirmedFriends returns the accepted friends of currentUserID, each with a
// display name, whether they currently run an active session, and the last
// friendship activity. Sorted ascending by display name.
func ConfirmedFriends(
	friendships []models.Friendship,
	profiles []models.UserProfile,
	sessions []models.BeerSession,
	currentUserID uuid.UUID,
) []models.FriendData {
	byID := profileIndex(profiles)

	out := make([]models.FriendData, 0, len(friendships))
	for _, f := range friendships {
		if f.Status != models.FriendshipStatusAccepted || !f.Involves(currentUserID) {
			continue
		}
		friendID := f.OtherSide(currentUserID)
		profile, ok := byID[friendID]
		if !ok {
			continue
		}

		isDrinking := false
		for _, s := range sessions {
			if s.UserID == friendID && s.Status == models.SessionStatusActive {
				isDrinking = true
				break
			}
		}

		beerEmojis := 0
		if isDrinking {
			beerEmojis = 2
		}

		out = append(out, models.FriendData{
			FriendID:     friendID,
			Name:         profile.DisplayName(),
			IsDrinking:   isDrinking,
			LastActivity: f.UpdatedAt,
			BeerEmojis:   beerEmojis,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PendingFriendRequests returns the not-yet-accepted friendships touching
// currentUserID, newest first. The requester is resolved as "the other side"
// regardless of who actually sent the request, so a pending outgoing request
// shows up here too; see the friendship direction note in DESIGN.md.
func PendingFriendRequests(
	friendships []models.Friendship,
	profiles []models.UserProfile,
	currentUserID uuid.UUID,
) []models.FriendRequestData {
	byID := profileIndex(profiles)

	out := make([]models.FriendRequestData, 0, len(friendships))
	for _, f := range friendships {
		if f.Status == models.FriendshipStatusAccepted || !f.Involves(currentUserID) {
			continue
		}
		requesterID := f.OtherSide(currentUserID)
		profile, ok := byID[requesterID]
		if !ok {
			continue
		}

		out = append(out, models.FriendRequestData{
			ID:          f.ID,
			Name:        profile.DisplayName(),
			RequesterID: requesterID,
			CreatedAt:   f.CreatedAt,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// ActiveFriendSessions returns map markers for active sessions of the user's
// friends. The friend set is taken from all friendships regardless of status,
// matching the map screen's behavior. The venue name is matched by exact
// coordinate equality against the catalog; LocationID is carried so callers
// can do an id join instead.
func ActiveFriendSessions(
	friendships []models.Friendship,
	profiles []models.UserProfile,
	sessions []models.BeerSession,
	venues []models.KoelschLocation,
	currentUserID uuid.UUID,
) []models.ActiveBeerSession {
	friendIDs := make(map[uuid.UUID]bool)
	for _, f := range friendships {
		if f.Involves(currentUserID) {
			friendIDs[f.OtherSide(currentUserID)] = true
		}
	}

	byID := profileIndex(profiles)

	out := make([]models.ActiveBeerSession, 0, len(sessions))
	for _, s := range sessions {
		if !friendIDs[s.UserID] || s.Status != models.SessionStatusActive {
			continue
		}

		userName := unknownUser
		if profile, ok := byID[s.UserID]; ok && profile.Username != nil {
			userName = *profile.Username
		}

		venueName := unknownVenue
		for _, v := range venues {
			if s.Latitude != nil && s.Longitude != nil &&
				v.Latitude == *s.Latitude && v.Longitude == *s.Longitude {
				venueName = v.Name
				break
			}
		}

		lat, lng := fallbackLatitude, fallbackLongitude
		if s.Latitude != nil {
			lat = *s.Latitude
		}
		if s.Longitude != nil {
			lng = *s.Longitude
		}

		message := ""
		if s.Message != nil {
			message = *s.Message
		}

		out = append(out, models.ActiveBeerSession{
			ID:           s.ID,
			UserID:       s.UserID,
			UserName:     userName,
			LocationID:   s.LocationID,
			LocationName: venueName,
			Latitude:     lat,
			Longitude:    lng,
			Duration:     s.Duration,
			Message:      message,
			BeerCount:    s.BeerCount,
			StartedAt:    s.StartedAt,
			EndsAt:       s.EndsAt,
		})
	}
	return out
}

func profileIndex(profiles []models.UserProfile) map[uuid.UUID]models.UserProfile {
	byID := make(map[uuid.UUID]models.UserProfile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	return byID
}

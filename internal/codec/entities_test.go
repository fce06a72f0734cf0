package codec

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elfkoelsch/internal/models"
)

func strptr(s string) *string { return &s }
func fptr(f float64) *float64 { return &f }
func ts(h int) time.Time      { return time.Date(2026, 8, 14, h, 30, 0, 0, time.UTC) }

func TestUserProfileRoundTrip(t *testing.T) {
	profile := models.UserProfile{
		ID:        uuid.New(),
		FirstName: "Jan",
		LastName:  strptr("Müller"),
		Username:  strptr("jan_m"),
		CreatedAt: ts(10),
		UpdatedAt: ts(11),
	}

	decoded, ok := DecodeUserProfile(EncodeUserProfile(profile))
	require.True(t, ok)
	assert.Equal(t, profile, decoded)
}

func TestUserProfileOptionalFieldsOmitted(t *testing.T) {
	profile := models.UserProfile{
		ID:        uuid.New(),
		FirstName: "Jan",
		CreatedAt: ts(10),
		UpdatedAt: ts(10),
	}

	record := EncodeUserProfile(profile)
	assert.NotContains(t, record, "last_name")
	assert.NotContains(t, record, "username")
	assert.NotContains(t, record, "avatar_url")

	decoded, ok := DecodeUserProfile(record)
	require.True(t, ok)
	assert.Nil(t, decoded.LastName)
	assert.Nil(t, decoded.Username)
}

func TestUserProfileMissingRequiredField(t *testing.T) {
	record := EncodeUserProfile(models.UserProfile{
		ID:        uuid.New(),
		FirstName: "Jan",
		CreatedAt: ts(10),
		UpdatedAt: ts(10),
	})
	delete(record, "created_at")

	_, ok := DecodeUserProfile(record)
	assert.False(t, ok)
}

func TestFriendshipRoundTrip(t *testing.T) {
	friendship := models.Friendship{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		FriendID:  uuid.New(),
		Status:    models.FriendshipStatusAccepted,
		CreatedAt: ts(9),
		UpdatedAt: ts(12),
	}

	decoded, ok := DecodeFriendship(EncodeFriendship(friendship))
	require.True(t, ok)
	assert.Equal(t, friendship, decoded)
}

func TestBeerSessionMessageAsymmetry(t *testing.T) {
	base := models.BeerSession{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		LocationID: uuid.New(),
		Duration:   models.Duration2Hours,
		StartedAt:  ts(18),
		EndsAt:     ts(20),
		Status:     models.SessionStatusActive,
		CreatedAt:  ts(18),
		BeerCount:  3,
	}

	t.Run("absent message encodes as empty string", func(t *testing.T) {
		record := EncodeBeerSession(base)
		assert.Equal(t, "", record["message"])
	})

	t.Run("empty string decodes back to absence", func(t *testing.T) {
		decoded, ok := DecodeBeerSession(EncodeBeerSession(base))
		require.True(t, ok)
		assert.Nil(t, decoded.Message)
	})

	t.Run("non-empty message survives the round trip", func(t *testing.T) {
		withMessage := base
		withMessage.Message = strptr("Prost!")
		decoded, ok := DecodeBeerSession(EncodeBeerSession(withMessage))
		require.True(t, ok)
		require.NotNil(t, decoded.Message)
		assert.Equal(t, "Prost!", *decoded.Message)
	})

	t.Run("missing message key fails decode", func(t *testing.T) {
		record := EncodeBeerSession(base)
		delete(record, "message")
		_, ok := DecodeBeerSession(record)
		assert.False(t, ok)
	})
}

func TestBeerSessionBeerCountDefaultsToZero(t *testing.T) {
	record := EncodeBeerSession(models.BeerSession{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		LocationID: uuid.New(),
		Duration:   models.Duration1Hour,
		StartedAt:  ts(18),
		EndsAt:     ts(19),
		Status:     models.SessionStatusActive,
		CreatedAt:  ts(18),
		BeerCount:  7,
	})
	delete(record, "beer_count")

	decoded, ok := DecodeBeerSession(record)
	require.True(t, ok)
	assert.Equal(t, 0, decoded.BeerCount)
}

func TestBeerSessionCoordinates(t *testing.T) {
	session := models.BeerSession{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		LocationID: uuid.New(),
		Duration:   models.Duration3Hours,
		StartedAt:  ts(18),
		EndsAt:     ts(21),
		Status:     models.SessionStatusActive,
		CreatedAt:  ts(18),
		Latitude:   fptr(50.9402),
		Longitude:  fptr(6.9569),
	}

	decoded, ok := DecodeBeerSession(EncodeBeerSession(session))
	require.True(t, ok)
	assert.Equal(t, session, decoded)

	withoutCoords := session
	withoutCoords.Latitude = nil
	withoutCoords.Longitude = nil
	record := EncodeBeerSession(withoutCoords)
	assert.NotContains(t, record, "latitude")
	assert.NotContains(t, record, "longitude")
}

func TestBeerSessionTolerantOfJSONNumbers(t *testing.T) {
	// Numbers arriving through encoding/json are float64.
	record := EncodeBeerSession(models.BeerSession{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		LocationID: uuid.New(),
		Duration:   models.Duration1Hour,
		StartedAt:  ts(18),
		EndsAt:     ts(19),
		Status:     models.SessionStatusActive,
		CreatedAt:  ts(18),
	})
	record["beer_count"] = float64(4)

	decoded, ok := DecodeBeerSession(record)
	require.True(t, ok)
	assert.Equal(t, 4, decoded.BeerCount)
}

func TestEventRoundTrip(t *testing.T) {
	max := 25
	event := models.Event{
		ID:            uuid.New(),
		Title:         "Kölsch-Verkostung",
		Description:   strptr("Eine Runde durch die Brauhäuser"),
		Location:      strptr("Altstadt"),
		StartDate:     ts(17),
		EndDate:       ts(22),
		IsPublic:      true,
		MaxAttendees:  &max,
		AttendeeCount: 4,
		CreatedBy:     uuid.New(),
		CreatedAt:     ts(8),
		UpdatedAt:     ts(8),
	}

	decoded, ok := DecodeEvent(EncodeEvent(event))
	require.True(t, ok)
	assert.Equal(t, event, decoded)
}

func TestKoelschLocationRoundTrip(t *testing.T) {
	venue := models.KoelschLocation{
		ID:         uuid.New(),
		Name:       "Früh am Dom",
		Address:    "Am Hof 12-18, 50667 Köln",
		Latitude:   50.9402,
		Longitude:  6.9569,
		PriceRange: "€€",
		Phone:      "+49221 2613215",
		Website:    "https://frueh-am-dom.de",
		Tags:       models.StringList{"brauhaus", "altstadt"},
		CreatedAt:  ts(6),
	}

	decoded, ok := DecodeKoelschLocation(EncodeKoelschLocation(venue))
	require.True(t, ok)
	assert.Equal(t, venue, decoded)
}

func TestKoelschLocationRequiresEveryField(t *testing.T) {
	record := EncodeKoelschLocation(models.KoelschLocation{
		ID: uuid.New(), Name: "Päffgen", Address: "Friesenstraße 64",
		Latitude: 50.9410, Longitude: 6.9441, PriceRange: "€€",
		Phone: "x", Website: "y", Tags: models.StringList{"brauhaus"},
		CreatedAt: ts(6),
	})
	delete(record, "phone")

	_, ok := DecodeKoelschLocation(record)
	assert.False(t, ok)
}

func TestDecodeAuthUserOnlyIDRequired(t *testing.T) {
	id := uuid.New()

	user, ok := DecodeAuthUser(Record{"id": id.String()})
	require.True(t, ok)
	assert.Equal(t, id, user.ID)
	assert.Empty(t, user.Phone)
	assert.Nil(t, user.Email)

	_, ok = DecodeAuthUser(Record{"phone": "+4915112345678"})
	assert.False(t, ok)
}

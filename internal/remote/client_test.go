package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elfkoelsch/internal/codec"
	"elfkoelsch/internal/models"
	"elfkoelsch/internal/observability"
)

const testAnonKey = "anon-key-123"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, testAnonKey, observability.NewNopLogger())
}

func signedToken(t *testing.T, userID uuid.UUID, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(expiresIn).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestRequestHeaders(t *testing.T) {
	var gotAPIKey, gotAuth, gotPrefer string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		gotPrefer = r.Header.Get("Prefer")
		writeJSON(w, http.StatusOK, []codec.Record{})
	})

	_, err := client.ListVenues(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testAnonKey, gotAPIKey)
	assert.Equal(t, "Bearer "+testAnonKey, gotAuth, "anon key doubles as bearer before login")
	assert.Equal(t, "return=representation", gotPrefer)
}

func TestLoginAdoptsSession(t *testing.T) {
	userID := uuid.New()
	token := signedToken(t, userID, time.Hour)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "jan@example.de", body["email"])

		writeJSON(w, http.StatusOK, map[string]any{
			"access_token":  token,
			"refresh_token": "refresh-1",
			"user":          map[string]any{"id": userID.String(), "email": "jan@example.de"},
		})
	})

	user, err := client.LoginWithEmail(context.Background(), "jan@example.de", "secret")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)

	session := client.Session()
	require.NotNil(t, session)
	assert.Equal(t, token, session.AccessToken)
	assert.Equal(t, "refresh-1", session.RefreshToken)
	assert.Equal(t, userID, session.UserID, "user id comes from the token's sub claim")
	assert.False(t, session.Expired(time.Now()))
	assert.True(t, session.Expired(time.Now().Add(2*time.Hour)))
}

func TestLoginFailureSurfacesBackendMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error_description": "Invalid login credentials",
		})
	})

	_, err := client.LoginWithEmail(context.Background(), "jan@example.de", "wrong")
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "AUTH_ERROR", appErr.Code)
	assert.Equal(t, "Invalid login credentials", appErr.Message)
	assert.Nil(t, client.Session())
}

func TestBearerSwitchesToAccessTokenAfterLogin(t *testing.T) {
	userID := uuid.New()
	token := signedToken(t, userID, time.Hour)
	var bearers []string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		bearers = append(bearers, r.Header.Get("Authorization"))
		if r.URL.Path == "/auth/v1/token" {
			writeJSON(w, http.StatusOK, map[string]any{
				"access_token": token,
				"user":         map[string]any{"id": userID.String()},
			})
			return
		}
		writeJSON(w, http.StatusOK, []codec.Record{})
	})

	_, err := client.LoginWithEmail(context.Background(), "jan@example.de", "secret")
	require.NoError(t, err)
	_, err = client.ListVenues(context.Background())
	require.NoError(t, err)

	require.Len(t, bearers, 2)
	assert.Equal(t, "Bearer "+testAnonKey, bearers[0])
	assert.Equal(t, "Bearer "+token, bearers[1])
}

func TestSendOTPCreateUserFlag(t *testing.T) {
	var bodies []map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/otp", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body)
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	require.NoError(t, client.SendOTP(context.Background(), "+4915112345678", models.OTPPurposeLogin))
	require.NoError(t, client.SendOTP(context.Background(), "+4915112345678", models.OTPPurposeRegister))

	require.Len(t, bodies, 2)
	assert.Equal(t, false, bodies[0]["create_user"])
	assert.Equal(t, true, bodies[1]["create_user"])
}

func TestVerifyOTPBody(t *testing.T) {
	userID := uuid.New()
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/verify", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": signedToken(t, userID, time.Hour),
			"user":         map[string]any{"id": userID.String(), "phone": "+4915112345678"},
		})
	})

	user, err := client.VerifyOTP(context.Background(), "+4915112345678", "123456", map[string]any{"first_name": "Jan"})
	require.NoError(t, err)
	assert.Equal(t, "+4915112345678", user.Phone)
	assert.Equal(t, "sms", gotBody["type"])
	assert.Equal(t, "123456", gotBody["token"])
	assert.Equal(t, map[string]any{"first_name": "Jan"}, gotBody["data"])
}

func TestConfirmEmailUsesEmailType(t *testing.T) {
	userID := uuid.New()
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(w, http.StatusOK, map[string]any{
			"user": map[string]any{"id": userID.String()},
		})
	})

	_, err := client.ConfirmEmail(context.Background(), "confirm-token")
	require.NoError(t, err)
	assert.Equal(t, "email", gotBody["type"])
	assert.Equal(t, "confirm-token", gotBody["token"])
	assert.Nil(t, client.Session(), "a response without tokens adopts no session")
}

func TestLogoutClearsSession(t *testing.T) {
	userID := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/v1/token" {
			writeJSON(w, http.StatusOK, map[string]any{
				"access_token": signedToken(t, userID, time.Hour),
				"user":         map[string]any{"id": userID.String()},
			})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := client.LoginWithEmail(context.Background(), "jan@example.de", "secret")
	require.NoError(t, err)
	require.NotNil(t, client.Session())

	require.NoError(t, client.Logout(context.Background()))
	assert.Nil(t, client.Session())
}

func TestFetchProfilesUsesInFilter(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		writeJSON(w, http.StatusOK, []codec.Record{
			codec.EncodeUserProfile(models.UserProfile{ID: ids[0], FirstName: "A", CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}),
			codec.EncodeUserProfile(models.UserProfile{ID: ids[1], FirstName: "B", CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}),
		})
	})

	profiles, err := client.FetchProfiles(context.Background(), ids)
	require.NoError(t, err)
	assert.Len(t, profiles, 2)
	assert.Equal(t, "in.("+ids[0].String()+","+ids[1].String()+")", gotQuery.Get("id"))
}

func TestListDecodingSkipsMalformedRows(t *testing.T) {
	good := codec.EncodeUserProfile(models.UserProfile{ID: uuid.New(), FirstName: "A", CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []codec.Record{
			good,
			{"id": "not-a-uuid", "first_name": "broken"},
		})
	})

	profiles, err := client.FetchProfiles(context.Background(), []uuid.UUID{uuid.New()})
	require.NoError(t, err, "one bad row must not fail the batch")
	assert.Len(t, profiles, 1)
}

func TestListActiveSessionsFilter(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/beer_sessions", r.URL.Path)
		gotQuery = r.URL.Query()
		writeJSON(w, http.StatusOK, []codec.Record{})
	})

	_, err := client.ListActiveSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "eq.active", gotQuery.Get("status"))
}

func TestListFriendshipsOrFilter(t *testing.T) {
	userID := uuid.New()
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		writeJSON(w, http.StatusOK, []codec.Record{})
	})

	_, err := client.ListFriendships(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t,
		"(user_id.eq."+userID.String()+",friend_id.eq."+userID.String()+")",
		gotQuery.Get("or"))
}

func TestUpdateRowNoMatchIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		writeJSON(w, http.StatusOK, []codec.Record{})
	})

	_, err := client.UpdateBeerSession(context.Background(), uuid.New(), codec.Record{"beer_count": 2})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestNetworkFailureIsTyped(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", testAnonKey, observability.NewNopLogger(),
		WithTimeout(200*time.Millisecond))

	_, err := client.ListVenues(context.Background())
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NETWORK_ERROR", appErr.Code)
}

func TestCreateBeerSessionRoundTrip(t *testing.T) {
	session := models.BeerSession{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		LocationID: uuid.New(),
		Duration:   models.Duration2Hours,
		StartedAt:  time.Date(2026, 8, 14, 18, 0, 0, 0, time.UTC),
		EndsAt:     time.Date(2026, 8, 14, 20, 0, 0, 0, time.UTC),
		Status:     models.SessionStatusActive,
		CreatedAt:  time.Date(2026, 8, 14, 18, 0, 0, 0, time.UTC),
		BeerCount:  1,
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/beer_sessions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		var rec codec.Record
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rec))
		// PostgREST echoes the inserted row.
		writeJSON(w, http.StatusCreated, []codec.Record{rec})
	})

	stored, err := client.CreateBeerSession(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, session.ID, stored.ID)
	assert.Equal(t, 1, stored.BeerCount)
	assert.Nil(t, stored.Message)
}

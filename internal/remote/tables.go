package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"elfkoelsch/internal/codec"
	"elfkoelsch/internal/models"
	"elfkoelsch/internal/observability"
)

// Table CRUD over the PostgREST surface: one round trip per call, rows
// filtered with column operators (id=eq.<uuid>, status=eq.active, ...).
// List decoding skips malformed rows instead of failing the batch.

var (
	profilePull    = observability.NewSyncLogger("user_profiles")
	sessionPull    = observability.NewSyncLogger("beer_sessions")
	friendshipPull = observability.NewSyncLogger("friendships")
	eventPull      = observability.NewSyncLogger("events")
	venuePull      = observability.NewSyncLogger("koelsch_locations")
)

func (c *Client) insert(ctx context.Context, table string, rec codec.Record) (codec.Record, error) {
	start := time.Now()
	raw, status, err := c.do(ctx, http.MethodPost, "/rest/v1/"+table, rec)
	observability.ObserveRemote("insert_"+table, start, err)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, restError(status, raw)
	}

	records, err := decodeRecords(raw)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, models.NewNetworkError(fmt.Errorf("insert into %s returned no row", table))
	}
	return records[0], nil
}

func (c *Client) selectRows(ctx context.Context, table, filter string) ([]codec.Record, error) {
	start := time.Now()
	path := "/rest/v1/" + table + "?select=*"
	if filter != "" {
		path += "&" + filter
	}
	raw, status, err := c.do(ctx, http.MethodGet, path, nil)
	observability.ObserveRemote("select_"+table, start, err)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, restError(status, raw)
	}
	return decodeRecords(raw)
}

func (c *Client) updateRow(ctx context.Context, table string, id uuid.UUID, updates codec.Record) (codec.Record, error) {
	start := time.Now()
	path := fmt.Sprintf("/rest/v1/%s?id=eq.%s", table, id)
	raw, status, err := c.do(ctx, http.MethodPatch, path, updates)
	observability.ObserveRemote("update_"+table, start, err)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, restError(status, raw)
	}

	records, err := decodeRecords(raw)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, models.NewNotFoundError(table, id)
	}
	return records[0], nil
}

func (c *Client) deleteRow(ctx context.Context, table string, id uuid.UUID) error {
	start := time.Now()
	path := fmt.Sprintf("/rest/v1/%s?id=eq.%s", table, id)
	raw, status, err := c.do(ctx, http.MethodDelete, path, nil)
	observability.ObserveRemote("delete_"+table, start, err)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return restError(status, raw)
	}
	return nil
}

// CreateProfile inserts a profile and returns the stored row.
func (c *Client) CreateProfile(ctx context.Context, p models.UserProfile) (models.UserProfile, error) {
	rec, err := c.insert(ctx, "user_profiles", codec.EncodeUserProfile(p))
	if err != nil {
		return models.UserProfile{}, err
	}
	stored, ok := codec.DecodeUserProfile(rec)
	if !ok {
		return models.UserProfile{}, models.NewDecodeError("user_profiles")
	}
	return stored, nil
}

// GetProfile fetches one profile by id.
func (c *Client) GetProfile(ctx context.Context, id uuid.UUID) (models.UserProfile, error) {
	rows, err := c.selectRows(ctx, "user_profiles", "id=eq."+id.String())
	if err != nil {
		return models.UserProfile{}, err
	}
	if len(rows) == 0 {
		return models.UserProfile{}, models.NewNotFoundError("UserProfile", id)
	}
	p, ok := codec.DecodeUserProfile(rows[0])
	if !ok {
		return models.UserProfile{}, models.NewDecodeError("user_profiles")
	}
	return p, nil
}

// UpdateProfile overwrites a profile row.
func (c *Client) UpdateProfile(ctx context.Context, p models.UserProfile) (models.UserProfile, error) {
	rec, err := c.updateRow(ctx, "user_profiles", p.ID, codec.EncodeUserProfile(p))
	if err != nil {
		return models.UserProfile{}, err
	}
	stored, ok := codec.DecodeUserProfile(rec)
	if !ok {
		return models.UserProfile{}, models.NewDecodeError("user_profiles")
	}
	return stored, nil
}

// FetchProfiles fetches the profiles with the given ids. Missing ids are
// simply absent from the result.
func (c *Client) FetchProfiles(ctx context.Context, ids []uuid.UUID) ([]models.UserProfile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ss := make([]string, len(ids))
	for i, id := range ids {
		ss[i] = id.String()
	}
	rows, err := c.selectRows(ctx, "user_profiles", "id=in.("+strings.Join(ss, ",")+")")
	if err != nil {
		return nil, err
	}

	out := make([]models.UserProfile, 0, len(rows))
	for _, row := range rows {
		p, ok := codec.DecodeUserProfile(row)
		if !ok {
			observability.DecodeSkips.WithLabelValues("user_profiles").Inc()
			continue
		}
		out = append(out, p)
	}
	profilePull.LogPull(len(rows), len(rows)-len(out))
	return out, nil
}

// CreateBeerSession inserts a session and returns the stored row.
func (c *Client) CreateBeerSession(ctx context.Context, s models.BeerSession) (models.BeerSession, error) {
	rec, err := c.insert(ctx, "beer_sessions", codec.EncodeBeerSession(s))
	if err != nil {
		return models.BeerSession{}, err
	}
	stored, ok := codec.DecodeBeerSession(rec)
	if !ok {
		return models.BeerSession{}, models.NewDecodeError("beer_sessions")
	}
	return stored, nil
}

// GetBeerSession fetches one session by id.
func (c *Client) GetBeerSession(ctx context.Context, id uuid.UUID) (models.BeerSession, error) {
	rows, err := c.selectRows(ctx, "beer_sessions", "id=eq."+id.String())
	if err != nil {
		return models.BeerSession{}, err
	}
	if len(rows) == 0 {
		return models.BeerSession{}, models.NewNotFoundError("BeerSession", id)
	}
	s, ok := codec.DecodeBeerSession(rows[0])
	if !ok {
		return models.BeerSession{}, models.NewDecodeError("beer_sessions")
	}
	return s, nil
}

// UpdateBeerSession applies a partial update (beer count bump, status
// transition) and returns the stored row.
func (c *Client) UpdateBeerSession(ctx context.Context, id uuid.UUID, updates codec.Record) (models.BeerSession, error) {
	rec, err := c.updateRow(ctx, "beer_sessions", id, updates)
	if err != nil {
		return models.BeerSession{}, err
	}
	stored, ok := codec.DecodeBeerSession(rec)
	if !ok {
		return models.BeerSession{}, models.NewDecodeError("beer_sessions")
	}
	return stored, nil
}

// ListActiveSessions fetches every session currently marked active.
func (c *Client) ListActiveSessions(ctx context.Context) ([]models.BeerSession, error) {
	rows, err := c.selectRows(ctx, "beer_sessions", "status=eq.active")
	if err != nil {
		return nil, err
	}

	out := make([]models.BeerSession, 0, len(rows))
	for _, row := range rows {
		s, ok := codec.DecodeBeerSession(row)
		if !ok {
			observability.DecodeSkips.WithLabelValues("beer_sessions").Inc()
			continue
		}
		out = append(out, s)
	}
	sessionPull.LogPull(len(rows), len(rows)-len(out))
	return out, nil
}

// CreateFriendship inserts a friendship edge and returns the stored row.
func (c *Client) CreateFriendship(ctx context.Context, f models.Friendship) (models.Friendship, error) {
	rec, err := c.insert(ctx, "friendships", codec.EncodeFriendship(f))
	if err != nil {
		return models.Friendship{}, err
	}
	stored, ok := codec.DecodeFriendship(rec)
	if !ok {
		return models.Friendship{}, models.NewDecodeError("friendships")
	}
	return stored, nil
}

// GetFriendship fetches one friendship by id.
func (c *Client) GetFriendship(ctx context.Context, id uuid.UUID) (models.Friendship, error) {
	rows, err := c.selectRows(ctx, "friendships", "id=eq."+id.String())
	if err != nil {
		return models.Friendship{}, err
	}
	if len(rows) == 0 {
		return models.Friendship{}, models.NewNotFoundError("Friendship", id)
	}
	f, ok := codec.DecodeFriendship(rows[0])
	if !ok {
		return models.Friendship{}, models.NewDecodeError("friendships")
	}
	return f, nil
}

// UpdateFriendship applies a partial update (status, updated_at) and returns
// the stored row.
func (c *Client) UpdateFriendship(ctx context.Context, id uuid.UUID, updates codec.Record) (models.Friendship, error) {
	rec, err := c.updateRow(ctx, "friendships", id, updates)
	if err != nil {
		return models.Friendship{}, err
	}
	stored, ok := codec.DecodeFriendship(rec)
	if !ok {
		return models.Friendship{}, models.NewDecodeError("friendships")
	}
	return stored, nil
}

// DeleteFriendship removes a friendship edge (declined request).
func (c *Client) DeleteFriendship(ctx context.Context, id uuid.UUID) error {
	return c.deleteRow(ctx, "friendships", id)
}

// ListFriendships fetches every friendship touching the given user, either
// side of the edge.
func (c *Client) ListFriendships(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	filter := fmt.Sprintf("or=(user_id.eq.%s,friend_id.eq.%s)", userID, userID)
	rows, err := c.selectRows(ctx, "friendships", filter)
	if err != nil {
		return nil, err
	}

	out := make([]models.Friendship, 0, len(rows))
	for _, row := range rows {
		f, ok := codec.DecodeFriendship(row)
		if !ok {
			observability.DecodeSkips.WithLabelValues("friendships").Inc()
			continue
		}
		out = append(out, f)
	}
	friendshipPull.LogPull(len(rows), len(rows)-len(out))
	return out, nil
}

// CreateEvent inserts an event and returns the stored row.
func (c *Client) CreateEvent(ctx context.Context, e models.Event) (models.Event, error) {
	rec, err := c.insert(ctx, "events", codec.EncodeEvent(e))
	if err != nil {
		return models.Event{}, err
	}
	stored, ok := codec.DecodeEvent(rec)
	if !ok {
		return models.Event{}, models.NewDecodeError("events")
	}
	return stored, nil
}

// ListEvents fetches all visible events.
func (c *Client) ListEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := c.selectRows(ctx, "events", "")
	if err != nil {
		return nil, err
	}

	out := make([]models.Event, 0, len(rows))
	for _, row := range rows {
		e, ok := codec.DecodeEvent(row)
		if !ok {
			observability.DecodeSkips.WithLabelValues("events").Inc()
			continue
		}
		out = append(out, e)
	}
	eventPull.LogPull(len(rows), len(rows)-len(out))
	return out, nil
}

// ListVenues fetches the read-only Kölsch venue directory.
func (c *Client) ListVenues(ctx context.Context) ([]models.KoelschLocation, error) {
	rows, err := c.selectRows(ctx, "koelsch_locations", "")
	if err != nil {
		return nil, err
	}

	out := make([]models.KoelschLocation, 0, len(rows))
	for _, row := range rows {
		v, ok := codec.DecodeKoelschLocation(row)
		if !ok {
			observability.DecodeSkips.WithLabelValues("koelsch_locations").Inc()
			continue
		}
		out = append(out, v)
	}
	venuePull.LogPull(len(rows), len(rows)-len(out))
	return out, nil
}

package service

import (
	"context"

	"github.com/google/uuid"

	"elfkoelsch/internal/codec"
	"elfkoelsch/internal/observability"
	"elfkoelsch/internal/remote"
)

// ApplyChange folds one realtime row change into the cache. Malformed
// records are dropped; the next full refresh reconciles anyway.
func (s *SyncService) ApplyChange(ctx context.Context, ev remote.ChangeEvent) {
	if ev.Action == "DELETE" {
		s.applyDelete(ctx, ev)
		return
	}

	switch ev.Table {
	case "user_profiles":
		if p, ok := codec.DecodeUserProfile(ev.Record); ok {
			_ = s.store.PutProfile(ctx, p)
			return
		}
	case "friendships":
		if f, ok := codec.DecodeFriendship(ev.Record); ok {
			_ = s.store.PutFriendship(ctx, f)
			return
		}
	case "beer_sessions":
		if sess, ok := codec.DecodeBeerSession(ev.Record); ok {
			_ = s.store.PutSession(ctx, sess)
			return
		}
	case "events":
		if e, ok := codec.DecodeEvent(ev.Record); ok {
			_ = s.store.PutEvent(ctx, e)
			return
		}
	case "koelsch_locations":
		if v, ok := codec.DecodeKoelschLocation(ev.Record); ok {
			_ = s.store.PutVenue(ctx, v)
			return
		}
	default:
		return
	}

	observability.DecodeSkips.WithLabelValues(ev.Table).Inc()
	s.logger.Warn("realtime record dropped", "table", ev.Table, "action", ev.Action)
}

func (s *SyncService) applyDelete(ctx context.Context, ev remote.ChangeEvent) {
	id, err := uuid.Parse(ev.OldID)
	if err != nil {
		return
	}
	switch ev.Table {
	case "user_profiles":
		_ = s.store.DeleteProfile(ctx, id)
	case "friendships":
		_ = s.store.DeleteFriendship(ctx, id)
	case "beer_sessions":
		_ = s.store.DeleteSession(ctx, id)
	case "events":
		_ = s.store.DeleteEvent(ctx, id)
	}
}

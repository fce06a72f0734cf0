package remote

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"elfkoelsch/internal/codec"
	"elfkoelsch/internal/observability"
)

const (
	// Time allowed to write a message to the peer.
	realtimeWriteWait = 10 * time.Second

	// Heartbeat period keeping the change-feed socket open.
	heartbeatPeriod = 30 * time.Second

	// Maximum message size allowed from the feed.
	realtimeMaxMessage = 1 << 20
)

// ChangeEvent is one row change pushed by the backend's realtime feed.
type ChangeEvent struct {
	Table  string
	Action string // INSERT, UPDATE, DELETE
	Record codec.Record
	OldID  string // id of the deleted row, DELETE only
}

// realtimeMessage is the feed's framing: topic-scoped events with a payload.
type realtimeMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

type changePayload struct {
	Record    codec.Record `json:"record"`
	OldRecord codec.Record `json:"old_record"`
}

// RealtimeFeed subscribes to row changes on the given tables and delivers
// them to the handler until ctx is cancelled. It reconnects with a flat
// delay on socket loss; applying a change is the handler's job so a slow
// cache write never stalls the read pump longer than one event.
type RealtimeFeed struct {
	url     string
	tables  []string
	handler func(ChangeEvent)
	logger  Logger

	ref uint64
}

// Logger narrows observability.Logger to what the feed needs.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// NewRealtimeFeed builds a feed for the client's backend. tables use wire
// names (beer_sessions, friendships, ...).
func (c *Client) NewRealtimeFeed(tables []string, handler func(ChangeEvent)) *RealtimeFeed {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) +
		"/realtime/v1/websocket?apikey=" + c.anonKey + "&vsn=1.0.0"
	return &RealtimeFeed{
		url:     wsURL,
		tables:  tables,
		handler: handler,
		logger:  c.logger,
	}
}

// Run connects and pumps events until ctx is done. Blocking; start it on its
// own goroutine.
func (f *RealtimeFeed) Run(ctx context.Context) {
	for {
		if err := f.connectAndPump(ctx); err != nil {
			f.logger.Warn("realtime feed disconnected", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func (f *RealtimeFeed) connectAndPump(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	for _, table := range f.tables {
		join := realtimeMessage{
			Topic:   "realtime:public:" + table,
			Event:   "phx_join",
			Payload: json.RawMessage("{}"),
			Ref:     f.nextRef(),
		}
		_ = conn.SetWriteDeadline(time.Now().Add(realtimeWriteWait))
		if err := conn.WriteJSON(join); err != nil {
			return err
		}
	}
	f.logger.Info("realtime feed connected", "tables", strings.Join(f.tables, ","))

	// Heartbeat writer; the read loop below owns the connection lifetime.
	hbCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go f.heartbeat(hbCtx, conn)

	conn.SetReadLimit(realtimeMaxMessage)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		var msg realtimeMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		switch msg.Event {
		case "INSERT", "UPDATE", "DELETE":
		default:
			continue
		}

		var payload changePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			continue
		}

		table := strings.TrimPrefix(msg.Topic, "realtime:public:")
		observability.RealtimeEvents.WithLabelValues(table, msg.Event).Inc()

		event := ChangeEvent{
			Table:  table,
			Action: msg.Event,
			Record: payload.Record,
		}
		if msg.Event == "DELETE" {
			if id, ok := payload.OldRecord["id"].(string); ok {
				event.OldID = id
			}
		}
		f.handler(event)
	}
}

func (f *RealtimeFeed) heartbeat(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(heartbeatPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			msg := realtimeMessage{
				Topic:   "phoenix",
				Event:   "heartbeat",
				Payload: json.RawMessage("{}"),
				Ref:     f.nextRef(),
			}
			_ = conn.SetWriteDeadline(time.Now().Add(realtimeWriteWait))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}

func (f *RealtimeFeed) nextRef() string {
	return strconv.FormatUint(atomic.AddUint64(&f.ref, 1), 10)
}

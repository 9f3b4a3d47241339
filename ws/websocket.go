// Package ws provides a multiplexed WebSocket client for Hyperliquid
// real-time data: one underlying connection fans out to many independently
// subscribed consumer channels, with automatic reconnect and subscription
// replay.
//
// Basic usage:
//
//	mux := ws.NewMultiplexer(ws.MainnetWsURL, logger)
//	if err := mux.Connect(ctx); err != nil { ... }
//	defer mux.Shutdown()
//
//	id, msgs, err := mux.Subscribe(ws.Subscription{Type: ws.SubscriptionTrades, Coin: "BTC"})
//	for msg := range msgs {
//	    var trade WsTrade
//	    json.Unmarshal(msg.Data, &trade)
//	}
//	mux.Unsubscribe(id)
//
// Unlike a per-subscription connection, the Multiplexer holds exactly one
// gorilla/websocket connection at a time (a reconnect replaces it);
// reconnects are transparent to consumers (their channels never close
// across a reconnect).
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/shoyowada/hlgo/constants"
)

const (
	// MainnetWsURL is the default Hyperliquid WebSocket URL.
	MainnetWsURL = constants.MainnetWSURL
	// TestnetWsURL is the Hyperliquid testnet WebSocket URL.
	TestnetWsURL = constants.TestnetWSURL
)

// Subscription describes a single consumer's interest in a feed. Coin and
// User are mutually exclusive per variant (the venue's own subscription
// schema dictates which applies); Interval only applies to SubscriptionCandle.
type Subscription struct {
	Type     SubscriptionType
	Coin     string
	User     string
	Interval string
}

// frame renders the subscription as the wire form used in subscribe/unsubscribe frames.
func (s Subscription) frame() map[string]any {
	sub := map[string]any{"type": string(s.Type)}
	if s.Coin != "" {
		sub["coin"] = s.Coin
	}
	if s.User != "" {
		sub["user"] = s.User
	}
	if s.Interval != "" {
		sub["interval"] = s.Interval
	}
	return sub
}

// matches decides whether an inbound Message should be routed to a
// subscription record, per the dispatch policy: variant match plus
// coin/user filter when the variant carries one.
func (s Subscription) matches(channel string, peek peekFields) bool {
	if string(s.Type) != channel {
		return false
	}
	if s.Coin != "" {
		coin := peek.Coin
		if coin == "" {
			coin = peek.S // candle payloads carry the coin under "s"
		}
		if coin != s.Coin {
			return false
		}
	}
	if s.User != "" && peek.User != "" && peek.User != s.User {
		return false
	}
	return true
}

// peekFields extracts the handful of routing-relevant fields that appear,
// under different names, across the payload shapes in types.go/ws/types.go.
type peekFields struct {
	Coin string `json:"coin"`
	S    string `json:"s"`
	User string `json:"user"`
}

// Message is the decoded envelope of every inbound WebSocket frame, tagged
// by channel; consumers decode Data into the payload type documented for
// that channel in ws/types.go.
type Message struct {
	Channel string
	Data    json.RawMessage
}

type subscriptionRecord struct {
	id    int64
	sub   Subscription
	ch    chan Message
	frame map[string]any
}

type connState int32

const (
	stateDisconnected connState = iota
	stateConnected
	stateReconnecting
)

// Multiplexer is a single shared WebSocket connection fanning out to many
// subscriber channels, per component C10.
type Multiplexer struct {
	url string
	log zerolog.Logger

	connMu sync.Mutex
	conn   *websocket.Conn
	state  atomic.Int32

	registryMu sync.RWMutex
	registry   map[int64]*subscriptionRecord
	nextID     atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc

	lastPong   atomic.Int64 // unix millis
	pingPeriod time.Duration
	pongWait   time.Duration
}

// NewMultiplexer constructs a Multiplexer for the given endpoint. Connect
// must be called before Subscribe.
func NewMultiplexer(url string, log zerolog.Logger) *Multiplexer {
	return &Multiplexer{
		url:        url,
		log:        log.With().Str("component", "ws.Multiplexer").Logger(),
		registry:   make(map[int64]*subscriptionRecord),
		pingPeriod: constants.WSPingIntervalSeconds * time.Second,
		pongWait:   constants.WSPongTimeoutSeconds * time.Second,
	}
}

// Connect opens the underlying socket and starts the reader and pinger
// goroutines. It is idempotent: calling it again while already connected is
// a no-op.
func (m *Multiplexer) Connect(ctx context.Context) error {
	if connState(m.state.Load()) != stateDisconnected {
		return nil
	}

	m.ctx, m.cancel = context.WithCancel(ctx)

	conn, err := m.dial()
	if err != nil {
		return err
	}

	m.connMu.Lock()
	m.conn = conn
	m.connMu.Unlock()

	m.state.Store(int32(stateConnected))
	m.lastPong.Store(time.Now().UnixMilli())
	m.armPongHandler(conn)

	go m.readLoop()
	go m.pingLoop()

	return nil
}

func (m *Multiplexer) dial() (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(m.url, nil)
	if err != nil {
		return nil, fmt.Errorf("ws: dial %s: %w", m.url, err)
	}
	return conn, nil
}

func (m *Multiplexer) armPongHandler(conn *websocket.Conn) {
	conn.SetPongHandler(func(string) error {
		m.lastPong.Store(time.Now().UnixMilli())
		return nil
	})
}

// Subscribe registers interest in a feed, returning a registry id and a
// channel delivering every matching Message. The channel is never closed by
// a reconnect; it is closed only by Unsubscribe or Shutdown.
func (m *Multiplexer) Subscribe(sub Subscription) (int64, <-chan Message, error) {
	id := m.nextID.Add(1)
	rec := &subscriptionRecord{
		id:    id,
		sub:   sub,
		ch:    make(chan Message, 64),
		frame: map[string]any{"method": "subscribe", "subscription": sub.frame()},
	}

	m.registryMu.Lock()
	m.registry[id] = rec
	m.registryMu.Unlock()

	if err := m.writeJSON(rec.frame); err != nil {
		m.registryMu.Lock()
		delete(m.registry, id)
		m.registryMu.Unlock()
		return 0, nil, fmt.Errorf("ws: subscribe: %w", err)
	}

	return id, rec.ch, nil
}

// Unsubscribe drops the registry entry and sends the matching unsubscribe
// frame. Safe to call more than once; subsequent calls are no-ops.
func (m *Multiplexer) Unsubscribe(id int64) error {
	m.registryMu.Lock()
	rec, ok := m.registry[id]
	if ok {
		delete(m.registry, id)
	}
	m.registryMu.Unlock()

	if !ok {
		return nil
	}
	close(rec.ch)

	unsub := map[string]any{"method": "unsubscribe", "subscription": rec.sub.frame()}
	return m.writeJSON(unsub)
}

func (m *Multiplexer) writeJSON(v any) error {
	m.connMu.Lock()
	defer m.connMu.Unlock()
	if m.conn == nil {
		return fmt.Errorf("ws: not connected")
	}
	return m.conn.WriteJSON(v)
}

// Shutdown closes the socket, stops background goroutines, and closes every
// subscriber channel.
func (m *Multiplexer) Shutdown() {
	if m.cancel != nil {
		m.cancel()
	}

	m.connMu.Lock()
	if m.conn != nil {
		m.conn.Close()
	}
	m.connMu.Unlock()

	m.registryMu.Lock()
	for id, rec := range m.registry {
		close(rec.ch)
		delete(m.registry, id)
	}
	m.registryMu.Unlock()

	m.state.Store(int32(stateDisconnected))
}

func (m *Multiplexer) pingLoop() {
	ticker := time.NewTicker(m.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			if err := m.writeJSON(map[string]string{"method": "ping"}); err != nil {
				m.log.Warn().Err(err).Msg("ping write failed")
				continue
			}
			if time.Since(time.UnixMilli(m.lastPong.Load())) > m.pongWait {
				m.log.Warn().Msg("pong timeout, forcing reconnect")
				m.triggerReconnect()
			}
		}
	}
}

func (m *Multiplexer) readLoop() {
	for {
		if m.ctx.Err() != nil {
			return
		}

		m.connMu.Lock()
		conn := m.conn
		m.connMu.Unlock()
		if conn == nil {
			return
		}

		_, raw, err := conn.ReadMessage()
		if err != nil {
			if m.ctx.Err() != nil {
				return
			}
			m.log.Warn().Err(err).Msg("read error, reconnecting")
			m.triggerReconnect()
			continue
		}

		m.lastPong.Store(time.Now().UnixMilli())

		if len(raw) == 0 || raw[0] != '{' {
			continue
		}

		var frame struct {
			Channel string          `json:"channel"`
			Data    json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &frame); err != nil {
			continue
		}
		if frame.Channel == "" || frame.Channel == "subscriptionResponse" || frame.Channel == "pong" {
			continue
		}

		var peek peekFields
		_ = json.Unmarshal(frame.Data, &peek)

		msg := Message{Channel: frame.Channel, Data: frame.Data}

		m.registryMu.RLock()
		for _, rec := range m.registry {
			if !rec.sub.matches(frame.Channel, peek) {
				continue
			}
			select {
			case rec.ch <- msg:
			default:
				m.log.Warn().Int64("subscription", rec.id).Msg("consumer channel full, dropping message")
			}
		}
		m.registryMu.RUnlock()
	}
}

// triggerReconnect transitions to reconnecting state and relaunches the
// reconnect loop if not already in progress. Safe to call from multiple
// goroutines; only the first caller after a disconnect actually reconnects.
func (m *Multiplexer) triggerReconnect() {
	if !m.state.CompareAndSwap(int32(stateConnected), int32(stateReconnecting)) {
		return
	}

	m.connMu.Lock()
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
	m.connMu.Unlock()

	go m.reconnectLoop()
}

// reconnectLoop retries the dial with exponential backoff (base 500ms, cap
// 30s, +/-20% jitter), and on success replays every active registry entry's
// subscribe frame before the reader resumes consuming new data -- per
// Testable Property 8 / Scenario S8, every previously-active subscription
// must see its replay frame go out before any new subscription registers.
func (m *Multiplexer) reconnectLoop() {
	base := time.Duration(constants.WSReconnectBaseDelayMs) * time.Millisecond
	cap_ := time.Duration(constants.WSReconnectMaxDelayMs) * time.Millisecond
	delay := base

	for {
		if m.ctx.Err() != nil {
			return
		}

		conn, err := m.dial()
		if err != nil {
			m.log.Warn().Err(err).Dur("delay", delay).Msg("reconnect attempt failed")
			select {
			case <-m.ctx.Done():
				return
			case <-time.After(jitter(delay)):
			}
			delay *= 2
			if delay > cap_ {
				delay = cap_
			}
			continue
		}

		m.connMu.Lock()
		m.conn = conn
		m.connMu.Unlock()
		m.armPongHandler(conn)
		m.lastPong.Store(time.Now().UnixMilli())

		m.registryMu.RLock()
		for _, rec := range m.registry {
			_ = m.writeJSON(rec.frame)
		}
		m.registryMu.RUnlock()

		m.state.Store(int32(stateConnected))
		go m.readLoop()
		return
	}
}

func jitter(d time.Duration) time.Duration {
	// +/-20% jitter around d.
	delta := float64(d) * 0.2
	offset := (rand.Float64()*2 - 1) * delta
	return time.Duration(float64(d) + offset)
}

// Package websocket pushes view invalidations to browsers watching a match or competition.
// file: websocket/hub.go
package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"kabaddi-scoreboard/logger"
	"kabaddi-scoreboard/metrics"
	"kabaddi-scoreboard/models"
)

// MetricLiveViewers is the gauge of open connections per topic.
const MetricLiveViewers = "LiveViewers"

const broadcastBuffer = 256

// Invalidation tells viewers of Topic that their page is stale.
// Match carries the fresh record when the topic is a match.
type Invalidation struct {
	Action string        `json:"action"`
	Topic  string        `json:"topic"`
	Match  *models.Match `json:"match,omitempty"`
}

// MatchTopic is the topic watched by a match scoreboard page.
func MatchTopic(matchID string) string { return "match:" + matchID }

// CompetitionTopic is the topic watched by a competition page.
func CompetitionTopic(competitionID string) string { return "competition:" + competitionID }

// NewMatchInvalidation builds the message sent after a match changes.
func NewMatchInvalidation(m *models.Match) Invalidation {
	return Invalidation{Action: "invalidate", Topic: MatchTopic(m.ID), Match: m}
}

// NewCompetitionInvalidation builds the message sent after a competition changes.
func NewCompetitionInvalidation(competitionID string) Invalidation {
	return Invalidation{Action: "invalidate", Topic: CompetitionTopic(competitionID)}
}

// Hub tracks live connections by topic and fans invalidations out to them.
type Hub struct {
	mu        sync.RWMutex
	topics    map[string]map[*Connection]bool
	broadcast chan Invalidation
	metrics   metrics.Recorder
	origins   map[string]bool
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithRecorder reports the LiveViewers gauge to r.
func WithRecorder(r metrics.Recorder) HubOption {
	return func(h *Hub) { h.metrics = r }
}

// WithAllowedOrigins accepts cross-origin upgrades from the listed origins.
func WithAllowedOrigins(origins []string) HubOption {
	return func(h *Hub) {
		for _, o := range origins {
			h.origins[o] = true
		}
	}
}

// NewHub returns a hub; call Run to start delivery.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		topics:    make(map[string]map[*Connection]bool),
		broadcast: make(chan Invalidation, broadcastBuffer),
		metrics:   metrics.Noop{},
		origins:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run delivers queued invalidations until ctx is done, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case inv := <-h.broadcast:
			h.fanOut(inv)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Deliver queues inv for local subscribers. It never blocks; a full queue drops inv.
func (h *Hub) Deliver(inv Invalidation) {
	select {
	case h.broadcast <- inv:
	default:
		logger.Warn.Printf("[Deliver] broadcast queue full, dropping %s", inv.Topic)
	}
}

// InvalidateMatch notifies viewers of m's scoreboard.
func (h *Hub) InvalidateMatch(m *models.Match) {
	h.Deliver(NewMatchInvalidation(m))
}

// InvalidateCompetition notifies viewers of the competition page.
func (h *Hub) InvalidateCompetition(competitionID string) {
	h.Deliver(NewCompetitionInvalidation(competitionID))
}

// Subscribers returns the number of open connections on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

func (h *Hub) fanOut(inv Invalidation) {
	msg, err := json.Marshal(inv)
	if err != nil {
		logger.Error.Printf("[fanOut] Error marshalling invalidation: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.topics[inv.Topic] {
		select {
		case c.send <- msg:
		default:
			logger.Warn.Printf("[fanOut] Dropping message for connection %v", c.conn.RemoteAddr())
		}
	}
}

func (h *Hub) register(c *Connection) {
	h.mu.Lock()
	conns, ok := h.topics[c.topic]
	if !ok {
		conns = make(map[*Connection]bool)
		h.topics[c.topic] = conns
	}
	conns[c] = true
	n := len(conns)
	h.mu.Unlock()

	logger.Debug.Printf("[register] %v joined %s (%d viewers)", c.conn.RemoteAddr(), c.topic, n)
	h.metrics.SetGauge(MetricLiveViewers, float64(n), c.topic)
}

func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	conns := h.topics[c.topic]
	if _, ok := conns[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(conns, c)
	n := len(conns)
	if n == 0 {
		delete(h.topics, c.topic)
	}
	h.mu.Unlock()

	c.closeSend()
	logger.Debug.Printf("[unregister] %v left %s (%d viewers)", c.conn.RemoteAddr(), c.topic, n)
	h.metrics.SetGauge(MetricLiveViewers, float64(n), c.topic)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for topic, conns := range h.topics {
		for c := range conns {
			c.closeSend()
		}
		delete(h.topics, topic)
	}
}

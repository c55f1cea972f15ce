// Package broker relays view invalidations between scoreboard instances over NATS.
// File: broker/relay.go
package broker

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"kabaddi-scoreboard/logger"
	"kabaddi-scoreboard/models"
	"kabaddi-scoreboard/websocket"
)

// DefaultSubject prefixes every invalidation subject.
const DefaultSubject = "scoreboard.invalidate"

// Deliverer hands an invalidation to the local live viewers.
type Deliverer interface {
	Deliver(inv websocket.Invalidation)
}

// Relay publishes invalidations on NATS and feeds every received one to the
// local hub, so viewers connected to any instance are refreshed.
type Relay struct {
	nc      *nats.Conn
	sub     *nats.Subscription
	subject string
	local   Deliverer
}

// Connect dials url and subscribes to subject.>.
func Connect(url, subject string, local Deliverer) (*Relay, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	opts := []nats.Option{
		nats.Name("kabaddi-scoreboard"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn.Printf("[broker] NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info.Printf("[broker] NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			logger.Error.Printf("[broker] NATS error: %v", err)
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	r := &Relay{nc: nc, subject: subject, local: local}
	r.sub, err = nc.Subscribe(subject+".>", r.handle)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("subscribe %s.>: %w", subject, err)
	}

	logger.Info.Printf("[broker] relaying invalidations on %s.> via %s", subject, nc.ConnectedUrl())
	return r, nil
}

// InvalidateMatch publishes the match invalidation to every instance.
func (r *Relay) InvalidateMatch(m *models.Match) {
	r.publish(websocket.NewMatchInvalidation(m))
}

// InvalidateCompetition publishes the competition invalidation to every instance.
func (r *Relay) InvalidateCompetition(competitionID string) {
	r.publish(websocket.NewCompetitionInvalidation(competitionID))
}

// publish falls back to local delivery when NATS refuses the message.
func (r *Relay) publish(inv websocket.Invalidation) {
	data, err := json.Marshal(inv)
	if err == nil {
		err = r.nc.Publish(subjectFor(r.subject, inv.Topic), data)
	}
	if err != nil {
		logger.Warn.Printf("[broker] publish %s failed, delivering locally: %v", inv.Topic, err)
		r.local.Deliver(inv)
	}
}

func (r *Relay) handle(msg *nats.Msg) {
	var inv websocket.Invalidation
	if err := json.Unmarshal(msg.Data, &inv); err != nil {
		logger.Warn.Printf("[broker] ignoring malformed message on %s: %v", msg.Subject, err)
		return
	}
	if inv.Topic == "" {
		logger.Warn.Printf("[broker] ignoring message without topic on %s", msg.Subject)
		return
	}
	r.local.Deliver(inv)
}

// Close drains the subscription and closes the connection.
func (r *Relay) Close() error {
	if r == nil || r.nc == nil {
		return nil
	}
	return r.nc.Drain()
}

// subjectFor maps "match:abc" under prefix to "prefix.match.abc".
func subjectFor(prefix, topic string) string {
	kind, id, found := strings.Cut(topic, ":")
	if !found {
		return prefix + "." + sanitizeToken(topic)
	}
	return prefix + "." + sanitizeToken(kind) + "." + sanitizeToken(id)
}

// sanitizeToken replaces characters NATS treats as separators or wildcards.
func sanitizeToken(s string) string {
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\n', '\r':
			return '_'
		}
		return r
	}, s)
}

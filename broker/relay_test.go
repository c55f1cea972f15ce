// file: broker/relay_test.go
package broker

import (
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kabaddi-scoreboard/websocket"
)

type captureDeliverer struct {
	got []websocket.Invalidation
}

func (c *captureDeliverer) Deliver(inv websocket.Invalidation) {
	c.got = append(c.got, inv)
}

func TestSubjectFor(t *testing.T) {
	assert.Equal(t, "scoreboard.invalidate.match.abc", subjectFor("scoreboard.invalidate", "match:abc"))
	assert.Equal(t, "p.competition.a_b", subjectFor("p", "competition:a.b"))
	assert.Equal(t, "p.odd", subjectFor("p", "odd"))
	assert.Equal(t, "p.match._", subjectFor("p", "match:"))
}

func TestHandleDeliversLocally(t *testing.T) {
	local := &captureDeliverer{}
	r := &Relay{subject: DefaultSubject, local: local}

	r.handle(&nats.Msg{
		Subject: "scoreboard.invalidate.competition.c1",
		Data:    []byte(`{"action":"invalidate","topic":"competition:c1"}`),
	})

	require.Len(t, local.got, 1)
	assert.Equal(t, "competition:c1", local.got[0].Topic)
	assert.Nil(t, local.got[0].Match)
}

func TestHandleIgnoresBadMessages(t *testing.T) {
	local := &captureDeliverer{}
	r := &Relay{subject: DefaultSubject, local: local}

	r.handle(&nats.Msg{Subject: "x", Data: []byte(`not json`)})
	r.handle(&nats.Msg{Subject: "x", Data: []byte(`{"action":"invalidate"}`)})

	assert.Empty(t, local.got)
}

func TestCloseNilRelay(t *testing.T) {
	var r *Relay
	assert.NoError(t, r.Close())
}

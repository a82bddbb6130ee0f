package mailer

import (
	"context"
	"crowdfunding/pkg/mailer/templates"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakePublisher struct {
	bodies [][]byte
	err    error
}

func (p *fakePublisher) PublishJSON(ctx context.Context, body any) error {
	if p.err != nil {
		return p.err
	}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	p.bodies = append(p.bodies, b)
	return nil
}

func TestLogNotifier_Send(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	err := n.Send(context.Background(), templates.Activation, "a@x.com", map[string]any{
		"Name":      "Alice",
		"ActionURL": "http://localhost:3000/activate/tok",
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("email").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "a@x.com", entries[0].ContextMap()["to"])
	assert.Equal(t, "http://localhost:3000/activate/tok", entries[0].ContextMap()["action_url"])
}

func TestQueueNotifier_Send(t *testing.T) {
	pub := &fakePublisher{}
	n := NewQueueNotifier(pub)

	err := n.Send(context.Background(), templates.PasswordReset, "a@x.com", map[string]any{"ActionURL": "u"})
	require.NoError(t, err)
	require.Len(t, pub.bodies, 1)

	var job EmailJob
	require.NoError(t, json.Unmarshal(pub.bodies[0], &job))
	assert.Equal(t, "a@x.com", job.To)
	assert.Equal(t, templates.PasswordReset, job.Template)
	assert.Equal(t, "u", job.Data["ActionURL"])
}

func TestQueueNotifier_Errors(t *testing.T) {
	pub := &fakePublisher{}
	n := NewQueueNotifier(pub)

	assert.Error(t, n.Send(context.Background(), "unknown", "a@x.com", nil))
	assert.Empty(t, pub.bodies)

	pub.err = errors.New("channel closed")
	assert.Error(t, n.Send(context.Background(), templates.Activation, "a@x.com", nil))
}

package events

import (
	"context"
	"errors"
	"testing"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"expensetracker/internal/logger"
)

type publishedMsg struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	declared   []string
	declareErr error
	publishErr error
	published  []publishedMsg
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, _, _, _, _ bool, _ amqp091.Table) error {
	f.declared = append(f.declared, name+":"+kind)
	return f.declareErr
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, publishedMsg{exchange, key, msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestNewPublisher_DeclaresTopicExchange(t *testing.T) {
	ch := &fakeChannel{}
	_, err := newPublisher(ch, "audit", zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, []string{"audit:topic"}, ch.declared)
}

func TestNewPublisher_DeclareFailureClosesChannel(t *testing.T) {
	ch := &fakeChannel{declareErr: errors.New("access refused")}
	_, err := newPublisher(ch, "audit", zap.NewNop().Sugar())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declare exchange")
	assert.True(t, ch.closed)
}

func TestPublisher_Log(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newPublisher(ch, "audit", zap.NewNop().Sugar())
	require.NoError(t, err)

	p.Log(context.Background(), "CREATE_EXPENSE", "expense", "e-1", map[string]any{"amount": 5.0})

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, "audit", got.exchange)
	assert.Equal(t, "expense.CREATE_EXPENSE", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp091.Persistent, got.msg.DeliveryMode)

	msg, err := AuditMessageFromJSON(got.msg.Body)
	require.NoError(t, err)
	assert.Equal(t, "CREATE_EXPENSE", msg.Action)
	assert.Equal(t, "expense", msg.ResourceType)
	assert.Equal(t, "e-1", msg.ResourceID)
	assert.Equal(t, 5.0, msg.Changes["amount"])
}

func TestPublisher_CorrelatesRequestID(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newPublisher(ch, "audit", zap.NewNop().Sugar())
	require.NoError(t, err)

	ctx := logger.WithRequestID(context.Background(), "req-42")
	p.Log(ctx, "UPDATE_USER", "user", "u-1", nil)

	require.Len(t, ch.published, 1)
	assert.Equal(t, "req-42", ch.published[0].msg.CorrelationId)
}

func TestPublisher_LogSwallowsBrokerErrors(t *testing.T) {
	ch := &fakeChannel{publishErr: errors.New("channel closed")}
	p, err := newPublisher(ch, "audit", zap.NewNop().Sugar())
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		p.Log(context.Background(), "DELETE_USER", "user", "u-1", nil)
	})
	assert.Error(t, p.Publish(context.Background(), NewAuditMessage("DELETE_USER", "user", "u-1", nil)))
}

func TestPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newPublisher(ch, "audit", zap.NewNop().Sugar())
	require.NoError(t, err)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

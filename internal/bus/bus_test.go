package bus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageBus_InboundOrder(t *testing.T) {
	b := NewWithBuffer(4)
	b.PublishInbound(InboundMessage{Content: "first"})
	b.PublishInbound(InboundMessage{Content: "second"})

	ctx := context.Background()
	msg, ok := b.ConsumeInbound(ctx)
	require.True(t, ok)
	assert.Equal(t, "first", msg.Content)

	msg, ok = b.ConsumeInbound(ctx)
	require.True(t, ok)
	assert.Equal(t, "second", msg.Content)
}

func TestMessageBus_ConsumeStopsOnCancel(t *testing.T) {
	b := New()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, ok := b.ConsumeInbound(ctx)
	assert.False(t, ok)

	_, ok = b.SubscribeOutbound(ctx)
	assert.False(t, ok)
}

func TestOutboundMessage_MessageID(t *testing.T) {
	msg := OutboundMessage{Metadata: map[string]string{"message_id": "42"}}
	assert.Equal(t, "42", msg.MessageID())
	assert.Empty(t, OutboundMessage{}.MessageID())
}

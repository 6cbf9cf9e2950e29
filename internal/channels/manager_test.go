package channels

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextlevelbuilder/healthbot/internal/bus"
)

type fakeChannel struct {
	*BaseChannel
	startErr error

	mu   sync.Mutex
	sent []bus.OutboundMessage
}

func newFakeChannel(name string, b *bus.MessageBus) *fakeChannel {
	return &fakeChannel{BaseChannel: NewBaseChannel(name, b, nil)}
}

func (f *fakeChannel) Start(context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.SetConnected("42")
	return nil
}

func (f *fakeChannel) Stop(context.Context) error {
	f.SetDisconnected()
	return nil
}

func (f *fakeChannel) Send(_ context.Context, msg bus.OutboundMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeChannel) ResolveUser(context.Context, string) bool { return true }

func (f *fakeChannel) sentMessages() []bus.OutboundMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bus.OutboundMessage(nil), f.sent...)
}

func TestManagerDispatchesOutbound(t *testing.T) {
	b := bus.New()
	m := NewManager(b)
	ch := newFakeChannel("fake", b)
	m.RegisterChannel("fake", ch)

	ctx := context.Background()
	require.NoError(t, m.StartAll(ctx))
	assert.Equal(t, "42", ch.SelfID())
	assert.Equal(t, map[string]ConnectionStatus{"fake": StatusConnected}, m.GetStatus())

	b.PublishOutbound(bus.OutboundMessage{Channel: "fake", ChatID: "c1", Content: "hi", Reaction: "👍"})
	b.PublishOutbound(bus.OutboundMessage{Channel: "missing", ChatID: "c1", Content: "dropped"})

	require.Eventually(t, func() bool { return len(ch.sentMessages()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "hi", ch.sentMessages()[0].Content)

	require.NoError(t, m.StopAll(ctx))
	assert.False(t, ch.IsRunning())
	assert.Empty(t, ch.SelfID())
}

func TestManagerStartAllFailsWhenNothingStarts(t *testing.T) {
	b := bus.New()
	m := NewManager(b)
	ch := newFakeChannel("fake", b)
	ch.startErr = errors.New("login failed")
	m.RegisterChannel("fake", ch)

	err := m.StartAll(context.Background())
	require.Error(t, err)
	require.NoError(t, m.StopAll(context.Background()))
}

func TestManagerRegistry(t *testing.T) {
	b := bus.New()
	m := NewManager(b)
	m.RegisterChannel("b", newFakeChannel("b", b))
	m.RegisterChannel("a", newFakeChannel("a", b))
	assert.Equal(t, []string{"a", "b"}, m.GetEnabledChannels())

	m.UnregisterChannel("a")
	_, ok := m.GetChannel("a")
	assert.False(t, ok)

	err := m.Deliver(context.Background(), bus.OutboundMessage{Channel: "a"})
	assert.Error(t, err)
}

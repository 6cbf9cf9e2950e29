package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextlevelbuilder/healthbot/internal/bus"
	"github.com/nextlevelbuilder/healthbot/internal/channels"
	"github.com/nextlevelbuilder/healthbot/internal/sessions"
	"github.com/nextlevelbuilder/healthbot/internal/tracker"
)

const botID = "900"

type fakeChannel struct {
	*channels.BaseChannel
	known map[string]bool
}

func (f *fakeChannel) Start(context.Context) error                     { f.SetConnected(botID); return nil }
func (f *fakeChannel) Stop(context.Context) error                      { f.SetDisconnected(); return nil }
func (f *fakeChannel) Send(context.Context, bus.OutboundMessage) error { return nil }
func (f *fakeChannel) ResolveUser(_ context.Context, id string) bool {
	return f.known[id]
}

type fixture struct {
	bus      *bus.MessageBus
	store    *sessions.Store
	consumer *Consumer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := bus.New()
	mgr := channels.NewManager(b)
	ch := &fakeChannel{
		BaseChannel: channels.NewBaseChannel("discord", b, nil),
		known:       map[string]bool{"1": true, "2": true, "3": true},
	}
	require.NoError(t, ch.Start(context.Background()))
	mgr.RegisterChannel("discord", ch)

	store := sessions.NewStore()
	return &fixture{
		bus:      b,
		store:    store,
		consumer: NewConsumer(b, mgr, tracker.NewController(store, 2, 5), "!health"),
	}
}

func groupMsg(sender, content string) bus.InboundMessage {
	return bus.InboundMessage{
		Channel:  "discord",
		SenderID: sender,
		UserID:   sender,
		ChatID:   "c1",
		Content:  content,
		PeerKind: "group",
		Metadata: map[string]string{"message_id": "m-" + sender},
	}
}

func TestHandleInboundStartsSession(t *testing.T) {
	f := newFixture(t)

	out, ok := f.consumer.HandleInbound(context.Background(), groupMsg("1", "!health start me <@2> 10"))
	require.True(t, ok)
	assert.Equal(t, "discord", out.Channel)
	assert.Equal(t, "c1", out.ChatID)
	assert.Equal(t, "Player Health:\n<@1>: 10🩸\n<@2>: 10🩸", out.Content)
	assert.Equal(t, tracker.ReactionOK, out.Reaction)
	assert.Equal(t, "m-1", out.MessageID())
	assert.NotEmpty(t, out.Metadata["correlation_id"])

	assert.True(t, f.store.Has(sessions.BuildStoreKey("discord", sessions.PeerGroup, "c1"), "2"))
}

func TestHandleInboundAddressing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, ok := f.consumer.HandleInbound(ctx, groupMsg("1", "just chatting"))
	assert.False(t, ok)

	_, ok = f.consumer.HandleInbound(ctx, groupMsg("1", "<@"+botID+"> help"))
	assert.True(t, ok)

	_, ok = f.consumer.HandleInbound(ctx, groupMsg("1", "<@!"+botID+"> help"))
	assert.True(t, ok)

	direct := groupMsg("1", "show")
	direct.PeerKind = "direct"
	out, ok := f.consumer.HandleInbound(ctx, direct)
	require.True(t, ok)
	assert.Equal(t, tracker.ReactionFail, out.Reaction)
	assert.Equal(t, "Health tracking is not in progress", out.Content)

	unknown := groupMsg("1", "!health show")
	unknown.Channel = "telegram"
	_, ok = f.consumer.HandleInbound(ctx, unknown)
	assert.False(t, ok)
}

func TestHandleInboundRejectsUnknownPlayer(t *testing.T) {
	f := newFixture(t)

	out, ok := f.consumer.HandleInbound(context.Background(), groupMsg("1", "!health start me <@77> 10"))
	require.True(t, ok)
	assert.Equal(t, "Unknown player <@77>", out.Content)
	assert.Equal(t, tracker.ReactionFail, out.Reaction)
	assert.Zero(t, f.store.Len())
}

func TestRunPublishesReplies(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.consumer.Run(ctx) }()

	f.bus.PublishInbound(groupMsg("1", "ignored"))
	f.bus.PublishInbound(groupMsg("1", "!health start me <@2> 10"))
	f.bus.PublishInbound(groupMsg("2", "!health dec me 3"))

	first, ok := f.bus.SubscribeOutbound(ctx)
	require.True(t, ok)
	assert.Equal(t, "m-1", first.MessageID())

	second, ok := f.bus.SubscribeOutbound(ctx)
	require.True(t, ok)
	assert.Equal(t, "Player Health:\n<@1>: 10🩸\n<@2>: 7🩸", second.Content)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}

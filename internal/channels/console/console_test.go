package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextlevelbuilder/healthbot/internal/bus"
	"github.com/nextlevelbuilder/healthbot/internal/config"
)

func TestConsoleRoundTrip(t *testing.T) {
	b := bus.New()
	var out bytes.Buffer
	ch := New(config.ConsoleConfig{UserID: "7"}, b, strings.NewReader("show\n\n  \nhelp\n"), &out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var seen []bus.InboundMessage
	go func() {
		for {
			msg, ok := b.ConsumeInbound(ctx)
			if !ok {
				return
			}
			seen = append(seen, msg)
			_ = ch.Send(ctx, bus.OutboundMessage{
				Channel:  "console",
				ChatID:   msg.ChatID,
				Content:  "reply to " + msg.Content,
				Reaction: "👍",
				Metadata: map[string]string{"message_id": msg.Metadata["message_id"]},
			})
		}
	}()

	require.NoError(t, ch.Start(ctx))
	assert.Equal(t, SelfID, ch.SelfID())

	select {
	case <-ch.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("console did not finish reading input")
	}

	text := out.String()
	assert.Contains(t, text, "reply to show\n[👍]\n")
	assert.Contains(t, text, "reply to help\n[👍]\n")
	assert.Less(t, strings.Index(text, "reply to show"), strings.Index(text, "reply to help"))

	require.Len(t, seen, 2)
	assert.Equal(t, "7", seen[0].SenderID)
	assert.Equal(t, ChatID, seen[0].ChatID)
	assert.Equal(t, "direct", seen[0].PeerKind)
	assert.Equal(t, "1", seen[0].Metadata["message_id"])
	assert.Equal(t, "2", seen[1].Metadata["message_id"])

	require.NoError(t, ch.Stop(ctx))
	assert.False(t, ch.IsRunning())
}

func TestConsoleResolveUser(t *testing.T) {
	ctx := context.Background()
	open := New(config.ConsoleConfig{}, bus.New(), strings.NewReader(""), &bytes.Buffer{})
	assert.True(t, open.ResolveUser(ctx, config.DefaultConsoleUser))
	assert.True(t, open.ResolveUser(ctx, "123456"))
	assert.False(t, open.ResolveUser(ctx, "bob"))
	assert.False(t, open.ResolveUser(ctx, ""))

	closed := New(config.ConsoleConfig{UserID: "1", KnownUsers: config.FlexibleStringSlice{"2", "3"}}, bus.New(), strings.NewReader(""), &bytes.Buffer{})
	assert.True(t, closed.ResolveUser(ctx, "1"))
	assert.True(t, closed.ResolveUser(ctx, "2"))
	assert.True(t, closed.ResolveUser(ctx, SelfID))
	assert.False(t, closed.ResolveUser(ctx, "4"))
}

// Package gateway connects channels to the tracker: it drains inbound chat
// messages from the bus, routes addressed ones through the session
// controller and publishes the rendered reply back to the originating chat.
package gateway

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nextlevelbuilder/healthbot/internal/bus"
	"github.com/nextlevelbuilder/healthbot/internal/channels"
	"github.com/nextlevelbuilder/healthbot/internal/sessions"
	"github.com/nextlevelbuilder/healthbot/internal/tracing"
	"github.com/nextlevelbuilder/healthbot/internal/tracker"
)

// ChannelSource looks up registered channels by name.
type ChannelSource interface {
	GetChannel(name string) (channels.Channel, bool)
}

// Consumer is the single goroutine that turns inbound messages into replies.
// Commands are handled one at a time in arrival order.
type Consumer struct {
	bus        *bus.MessageBus
	channels   ChannelSource
	controller *tracker.Controller
	renderer   tracker.Renderer
	tracer     trace.Tracer
}

// NewConsumer creates a consumer for the given command word.
func NewConsumer(msgBus *bus.MessageBus, source ChannelSource, controller *tracker.Controller, commandWord string) *Consumer {
	return &Consumer{
		bus:        msgBus,
		channels:   source,
		controller: controller,
		renderer:   tracker.Renderer{CommandWord: commandWord},
		tracer:     otel.Tracer(tracing.InstrumentationName),
	}
}

// Run consumes inbound messages until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	slog.Info("inbound message consumer started")
	for {
		msg, ok := c.bus.ConsumeInbound(ctx)
		if !ok {
			slog.Info("inbound message consumer stopped")
			return nil
		}
		if out, ok := c.HandleInbound(ctx, msg); ok {
			c.bus.PublishOutbound(out)
		}
	}
}

// HandleInbound processes one message. It returns false when the message is
// not addressed to the bot or its channel is unknown.
func (c *Consumer) HandleInbound(ctx context.Context, msg bus.InboundMessage) (bus.OutboundMessage, bool) {
	ch, ok := c.channels.GetChannel(msg.Channel)
	if !ok {
		slog.Warn("inbound: channel not found", "channel", msg.Channel)
		return bus.OutboundMessage{}, false
	}

	peerKind := sessions.PeerKind(msg.PeerKind)
	if peerKind == "" {
		peerKind = sessions.PeerDirect
	}

	cmd, addressed := tracker.Route(msg.Content, tracker.Addressing{
		SelfID:      ch.SelfID(),
		CommandWord: c.renderer.CommandWord,
		Direct:      peerKind == sessions.PeerDirect,
	})
	if !addressed {
		return bus.OutboundMessage{}, false
	}

	invokerID := msg.UserID
	if invokerID == "" {
		invokerID = msg.SenderID
	}
	sessionKey := sessions.BuildStoreKey(msg.Channel, peerKind, msg.ChatID)
	correlationID := uuid.NewString()

	ctx, span := c.tracer.Start(ctx, "healthbot.command",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("healthbot.correlation_id", correlationID),
			attribute.String("healthbot.channel", msg.Channel),
			attribute.String("healthbot.session_key", sessionKey),
			attribute.String("healthbot.command", cmd.Kind.String()),
		),
	)
	defer span.End()

	out := c.controller.Handle(ctx, tracker.Request{
		SessionKey: sessionKey,
		InvokerID:  invokerID,
		Command:    cmd,
		Identities: ch,
	})
	reply := c.renderer.Render(out)

	span.SetAttributes(attribute.String("healthbot.outcome", out.Kind.String()))
	if out.Rejection != nil {
		span.SetAttributes(attribute.String("healthbot.rejection", out.Rejection.Reason.String()))
	}

	slog.Info("inbound: command handled",
		"correlation_id", correlationID,
		"channel", msg.Channel,
		"chat_id", msg.ChatID,
		"sender_id", invokerID,
		"command", cmd.Kind.String(),
		"outcome", out.Kind.String(),
	)

	return bus.OutboundMessage{
		Channel:  msg.Channel,
		ChatID:   msg.ChatID,
		Content:  reply.Text,
		Reaction: reply.Reaction,
		Metadata: map[string]string{
			"message_id":     msg.Metadata["message_id"],
			"correlation_id": correlationID,
		},
	}, true
}

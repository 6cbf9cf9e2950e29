package bus

import "context"

// InboundMessage represents a message received from a channel (Discord, console, etc.)
type InboundMessage struct {
	Channel  string            `json:"channel"`
	SenderID string            `json:"sender_id"`
	ChatID   string            `json:"chat_id"`
	Content  string            `json:"content"`
	PeerKind string            `json:"peer_kind,omitempty"` // "direct" or "group" (drives command addressing)
	UserID   string            `json:"user_id,omitempty"`   // platform user ID of the sender
	Metadata map[string]string `json:"metadata,omitempty"`
}

// OutboundMessage represents a reply to be sent to a channel.
type OutboundMessage struct {
	Channel  string            `json:"channel"`
	ChatID   string            `json:"chat_id"`
	Content  string            `json:"content"`
	Reaction string            `json:"reaction,omitempty"` // emoji added to the inbound message named by Metadata["message_id"]
	Metadata map[string]string `json:"metadata,omitempty"` // channel-specific metadata
}

// MessageID returns the inbound message this reply refers to, if any.
func (m OutboundMessage) MessageID() string {
	return m.Metadata["message_id"]
}

// MessageRouter abstracts inbound/outbound message routing between channels and the command consumer.
type MessageRouter interface {
	PublishInbound(msg InboundMessage)
	ConsumeInbound(ctx context.Context) (InboundMessage, bool)
	PublishOutbound(msg OutboundMessage)
	SubscribeOutbound(ctx context.Context) (OutboundMessage, bool)
}

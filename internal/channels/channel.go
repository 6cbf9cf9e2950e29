// Package channels provides the chat gateway abstraction.
// Channels connect external platforms (Discord, a local console) to the
// command consumer via the message bus, and expose the few capabilities the
// tracker needs back: send a reply, react to a message, resolve a user.
package channels

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/nextlevelbuilder/healthbot/internal/bus"
)

// Channel defines the interface that all channel implementations must satisfy.
type Channel interface {
	// Name returns the channel identifier (e.g., "discord", "console").
	Name() string

	// Start begins listening for messages. Should be non-blocking after setup.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the channel.
	Stop(ctx context.Context) error

	// Send delivers a reply, then adds msg.Reaction to the inbound message if set.
	Send(ctx context.Context, msg bus.OutboundMessage) error

	// IsRunning returns whether the channel is connected.
	IsRunning() bool

	// IsAllowed checks if a sender is permitted by the channel's allowlist.
	IsAllowed(senderID string) bool

	// SelfID returns the bot's own user ID on this platform (empty until connected).
	SelfID() string

	// ResolveUser reports whether userID is a user known to the platform.
	ResolveUser(ctx context.Context, userID string) bool
}

// ConnectionStatus is the two-state login status of a channel.
type ConnectionStatus int

const (
	StatusDisconnected ConnectionStatus = iota
	StatusConnected
)

func (s ConnectionStatus) String() string {
	if s == StatusConnected {
		return "connected"
	}
	return "disconnected"
}

// BaseChannel provides shared functionality for all channel implementations.
// Channel implementations should embed this struct.
type BaseChannel struct {
	name      string
	bus       *bus.MessageBus
	allowList []string

	mu     sync.RWMutex
	status ConnectionStatus
	selfID string
}

// NewBaseChannel creates a new BaseChannel with the given parameters.
func NewBaseChannel(name string, msgBus *bus.MessageBus, allowList []string) *BaseChannel {
	return &BaseChannel{
		name:      name,
		bus:       msgBus,
		allowList: allowList,
	}
}

// Name returns the channel name.
func (c *BaseChannel) Name() string { return c.name }

// SetName overrides the channel name.
func (c *BaseChannel) SetName(name string) { c.name = name }

// Bus returns the message bus reference.
func (c *BaseChannel) Bus() *bus.MessageBus { return c.bus }

// SetConnected records a successful login as selfID.
func (c *BaseChannel) SetConnected(selfID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = StatusConnected
	c.selfID = selfID
}

// SetDisconnected records that the channel is no longer logged in.
func (c *BaseChannel) SetDisconnected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = StatusDisconnected
}

// Status returns the current connection status.
func (c *BaseChannel) Status() ConnectionStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// IsRunning returns whether the channel is connected.
func (c *BaseChannel) IsRunning() bool { return c.Status() == StatusConnected }

// SelfID returns the bot's user ID, or "" while disconnected.
func (c *BaseChannel) SelfID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.status != StatusConnected {
		return ""
	}
	return c.selfID
}

// HasAllowList returns true if an allowlist is configured (non-empty).
func (c *BaseChannel) HasAllowList() bool { return len(c.allowList) > 0 }

// IsAllowed checks if a sender is permitted by the allowlist.
// Supports compound senderID format: "123456|username".
// Empty allowlist means all senders are allowed.
func (c *BaseChannel) IsAllowed(senderID string) bool {
	if len(c.allowList) == 0 {
		return true
	}

	idPart := senderID
	userPart := ""
	if idx := strings.Index(senderID, "|"); idx > 0 {
		idPart = senderID[:idx]
		userPart = senderID[idx+1:]
	}

	for _, allowed := range c.allowList {
		trimmed := strings.TrimPrefix(allowed, "@")
		if senderID == trimmed || idPart == trimmed || (userPart != "" && userPart == trimmed) {
			return true
		}
	}

	return false
}

// HandleMessage creates an InboundMessage and publishes it to the bus.
// This is the standard way for channels to forward received messages.
// peerKind should be "direct" or "group" (see sessions.PeerDirect, sessions.PeerGroup).
func (c *BaseChannel) HandleMessage(senderID, chatID, content string, metadata map[string]string, peerKind string) {
	if !c.IsAllowed(senderID) {
		return
	}

	userID := senderID
	if idx := strings.IndexByte(senderID, '|'); idx > 0 {
		userID = senderID[:idx]
	}

	c.bus.PublishInbound(bus.InboundMessage{
		Channel:  c.name,
		SenderID: senderID,
		ChatID:   chatID,
		Content:  content,
		PeerKind: peerKind,
		UserID:   userID,
		Metadata: metadata,
	})
}

// Truncate shortens a string to maxLen, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:runeBoundary(s, maxLen)] + "..."
}

// SplitChunks splits content into pieces of at most maxLen bytes,
// preferring to break after a newline in the second half of a piece.
// Pieces never split a UTF-8 sequence; a byte cap also keeps each piece
// within a character cap of the same size.
func SplitChunks(content string, maxLen int) []string {
	var chunks []string
	for len(content) > 0 {
		if len(content) <= maxLen {
			chunks = append(chunks, content)
			break
		}
		cutAt := runeBoundary(content, maxLen)
		if cutAt == 0 {
			_, cutAt = utf8.DecodeRuneInString(content)
		}
		if idx := strings.LastIndexByte(content[:maxLen], '\n'); idx > maxLen/2 {
			cutAt = idx + 1
		}
		chunks = append(chunks, content[:cutAt])
		content = content[cutAt:]
	}
	return chunks
}

// runeBoundary backs n off to the start of the rune containing s[n].
func runeBoundary(s string, n int) int {
	for n > 0 && n < len(s) && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}

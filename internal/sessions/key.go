// Package sessions holds the health-tracking session store and its key builder.
//
// Store keys follow the format:
//
//	{channel}:{peerKind}:{chatID}
//
// Examples:
//
//	discord:group:1101234567890123456
//	discord:direct:1109876543210987654
//	console:direct:console
//
// The key is opaque to the tracker; it only needs to be unique per chat so
// that two gateways never share a session namespace.
package sessions

import (
	"fmt"
	"strings"
)

// PeerKind distinguishes DM from group conversations.
type PeerKind string

const (
	PeerDirect PeerKind = "direct"
	PeerGroup  PeerKind = "group"
)

// BuildStoreKey builds the session store key for a channel conversation.
func BuildStoreKey(channel string, kind PeerKind, chatID string) string {
	if kind == "" {
		kind = PeerDirect
	}
	return fmt.Sprintf("%s:%s:%s", channel, kind, chatID)
}

// ParseStoreKey splits a store key into its parts.
// Returns ok=false if the key is not in the expected format.
// The chat ID may itself contain ':'.
func ParseStoreKey(key string) (channel string, kind PeerKind, chatID string, ok bool) {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) < 3 || parts[0] == "" || parts[2] == "" {
		return "", "", "", false
	}
	switch PeerKind(parts[1]) {
	case PeerDirect, PeerGroup:
	default:
		return "", "", "", false
	}
	return parts[0], PeerKind(parts[1]), parts[2], true
}

// PeerKindFromGroup returns PeerGroup if isGroup is true, PeerDirect otherwise.
func PeerKindFromGroup(isGroup bool) PeerKind {
	if isGroup {
		return PeerGroup
	}
	return PeerDirect
}

package config

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/titanous/json5"
)

// FlexibleStringSlice accepts both ["str"] and [123] in JSON5.
// Discord snowflakes are often pasted as bare numbers, so numbers are kept
// as their literal text rather than passed through float64.
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	dec := json5.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	result := make([]string, 0, len(raw))
	for _, v := range raw {
		switch val := v.(type) {
		case string:
			result = append(result, val)
		case json5.Number:
			result = append(result, val.String())
		default:
			result = append(result, fmt.Sprintf("%v", val))
		}
	}
	*f = result
	return nil
}

// Config is the root configuration for the health bot.
type Config struct {
	Command    string          `json:"command"`          // command word that addresses the bot in group chats
	Avatar     string          `json:"avatar,omitempty"` // file path or http(s) URL uploaded as the bot avatar
	MinPlayers int             `json:"min_players"`
	MaxPlayers int             `json:"max_players"`
	Channels   ChannelsConfig  `json:"channels"`
	Telemetry  TelemetryConfig `json:"telemetry,omitempty"`
	mu         sync.RWMutex
}

// TelemetryConfig configures OpenTelemetry export for command spans.
type TelemetryConfig struct {
	Enabled     bool              `json:"enabled,omitempty"`      // enable OTLP export (default false)
	Endpoint    string            `json:"endpoint,omitempty"`     // OTLP endpoint (e.g. "localhost:4317", "https://otel.example.com:4318")
	Protocol    string            `json:"protocol,omitempty"`     // "grpc" (default) or "http"
	Insecure    bool              `json:"insecure,omitempty"`     // plaintext connection (local collectors)
	ServiceName string            `json:"service_name,omitempty"` // OTEL service name (default "healthbot")
	Headers     map[string]string `json:"headers,omitempty"`      // extra headers (e.g. auth tokens for cloud backends)
}

// PlayerBounds returns the configured player count limits.
func (c *Config) PlayerBounds() (minPlayers, maxPlayers int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.MinPlayers, c.MaxPlayers
}

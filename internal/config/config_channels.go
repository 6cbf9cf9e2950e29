package config

// ChannelsConfig contains per-channel configuration.
type ChannelsConfig struct {
	Discord DiscordConfig `json:"discord"`
	Console ConsoleConfig `json:"console"`
}

// DiscordConfig configures the Discord gateway.
type DiscordConfig struct {
	Enabled   bool                `json:"enabled"`
	Token     string              `json:"token"`
	AllowFrom FlexibleStringSlice `json:"allow_from"` // empty = everyone
}

// ConsoleConfig configures the local stdin/stdout gateway used by `healthbot chat`.
type ConsoleConfig struct {
	Enabled    bool                `json:"enabled,omitempty"`
	UserID     string              `json:"user_id,omitempty"`     // invoker id for every line typed
	KnownUsers FlexibleStringSlice `json:"known_users,omitempty"` // resolvable ids; empty = any all-digit id
}

// AnyChannelEnabled reports whether at least one gateway is enabled.
func (c *Config) AnyChannelEnabled() bool {
	return c.Channels.Discord.Enabled || c.Channels.Console.Enabled
}

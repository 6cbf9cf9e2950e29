package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/titanous/json5"
)

const (
	DefaultCommand     = "!health"
	DefaultMinPlayers  = 2
	DefaultMaxPlayers  = 5
	DefaultServiceName = "healthbot"
	DefaultConsoleUser = "1"
)

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Command:    DefaultCommand,
		MinPlayers: DefaultMinPlayers,
		MaxPlayers: DefaultMaxPlayers,
		Channels: ChannelsConfig{
			Console: ConsoleConfig{
				UserID: DefaultConsoleUser,
			},
		},
		Telemetry: TelemetryConfig{
			Protocol:    "grpc",
			ServiceName: DefaultServiceName,
		},
	}
}

// Load reads config from a JSON5 file, then overlays env vars.
// A missing file is not an error: defaults plus env are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ExpandHome(path))
	switch {
	case err == nil:
		if err := json5.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides overlays env vars onto the config.
// Env vars take precedence over file values.
func (c *Config) applyEnvOverrides() {
	envStr := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	envInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	envBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			*dst = v == "true" || v == "1"
		}
	}

	envStr("HEALTHBOT_COMMAND", &c.Command)
	envStr("HEALTHBOT_AVATAR", &c.Avatar)
	envInt("HEALTHBOT_MIN_PLAYERS", &c.MinPlayers)
	envInt("HEALTHBOT_MAX_PLAYERS", &c.MaxPlayers)

	// Discord token: legacy name first so the prefixed one wins.
	envStr("DISCORD_BOT_TOKEN", &c.Channels.Discord.Token)
	envStr("HEALTHBOT_DISCORD_TOKEN", &c.Channels.Discord.Token)
	if os.Getenv("DISCORD_BOT_TOKEN") != "" || os.Getenv("HEALTHBOT_DISCORD_TOKEN") != "" {
		c.Channels.Discord.Enabled = true
	}

	// Telemetry
	envBool("HEALTHBOT_TELEMETRY_ENABLED", &c.Telemetry.Enabled)
	envStr("HEALTHBOT_TELEMETRY_ENDPOINT", &c.Telemetry.Endpoint)
	envStr("HEALTHBOT_TELEMETRY_PROTOCOL", &c.Telemetry.Protocol)
	envStr("HEALTHBOT_TELEMETRY_SERVICE_NAME", &c.Telemetry.ServiceName)
	envBool("HEALTHBOT_TELEMETRY_INSECURE", &c.Telemetry.Insecure)
}

// ApplyEnvOverrides re-applies environment variable overrides onto the config.
func (c *Config) ApplyEnvOverrides() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyEnvOverrides()
}

// Validate checks the config for values the tracker cannot run with.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var errs []error
	if c.Command == "" {
		errs = append(errs, errors.New("command must not be empty"))
	}
	if c.MinPlayers < 1 {
		errs = append(errs, fmt.Errorf("min_players must be >= 1, got %d", c.MinPlayers))
	}
	if c.MaxPlayers < c.MinPlayers {
		errs = append(errs, fmt.Errorf("max_players (%d) must be >= min_players (%d)", c.MaxPlayers, c.MinPlayers))
	}
	if c.Channels.Discord.Enabled && c.Channels.Discord.Token == "" {
		errs = append(errs, errors.New("channels.discord.token is required when discord is enabled"))
	}
	switch c.Telemetry.Protocol {
	case "", "grpc", "http":
	default:
		errs = append(errs, fmt.Errorf("telemetry.protocol must be \"grpc\" or \"http\", got %q", c.Telemetry.Protocol))
	}
	return errors.Join(errs...)
}

// Save writes the config to a JSON file.
func Save(path string, cfg *Config) error {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	path = ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

const secretMask = "***"

// MaskedCopy returns a copy of the config with secret fields masked, for logging.
func (c *Config) MaskedCopy() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// Deep copy via JSON round-trip
	data, err := json.Marshal(c)
	if err != nil {
		return &Config{}
	}
	cp := Default()
	if err := json.Unmarshal(data, cp); err != nil {
		return &Config{}
	}

	maskNonEmpty(&cp.Channels.Discord.Token)
	for k := range cp.Telemetry.Headers {
		cp.Telemetry.Headers[k] = secretMask
	}
	return cp
}

func maskNonEmpty(s *string) {
	if *s != "" {
		*s = secretMask
	}
}

// ExpandHome replaces leading ~ with the user home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, _ := os.UserHomeDir()
	if len(path) > 1 && path[1] == '/' {
		return home + path[1:]
	}
	return home
}

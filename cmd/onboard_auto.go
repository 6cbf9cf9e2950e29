package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nextlevelbuilder/healthbot/internal/config"
)

// canAutoOnboard returns true if a Discord token is present in the environment,
// indicating the user wants non-interactive configuration (e.g. Docker).
func canAutoOnboard() bool {
	return os.Getenv("HEALTHBOT_DISCORD_TOKEN") != "" || os.Getenv("DISCORD_BOT_TOKEN") != ""
}

// runAutoOnboard writes a config file from defaults plus environment.
// The token itself stays in the environment and is not persisted.
// Returns true on success.
func runAutoOnboard(cfgPath string) bool {
	cfg := config.Default()
	cfg.ApplyEnvOverrides()
	cfg.Channels.Discord.Enabled = true
	cfg.Channels.Discord.Token = ""

	if err := config.Save(cfgPath, cfg); err != nil {
		slog.Warn("auto-onboard: could not write config", "path", cfgPath, "error", err)
		return false
	}
	slog.Info("auto-onboard: config written from environment", "path", cfgPath)
	fmt.Printf("Auto-onboard: wrote %s (token is read from the environment)\n", cfgPath)
	return true
}

package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nextlevelbuilder/healthbot/internal/config"
)

func TestOnboardAnswersApply(t *testing.T) {
	cfg := config.Default()
	onboardAnswers{
		command:       " !hp ",
		minPlayers:    "1",
		maxPlayers:    " 6",
		enableDiscord: true,
		token:         "tok ",
		allowFrom:     "1, 2,,3 ",
		telemetry:     true,
		endpoint:      "localhost:4317",
	}.apply(cfg)

	assert.Equal(t, "!hp", cfg.Command)
	assert.Equal(t, 1, cfg.MinPlayers)
	assert.Equal(t, 6, cfg.MaxPlayers)
	assert.Equal(t, "tok", cfg.Channels.Discord.Token)
	assert.Equal(t, config.FlexibleStringSlice{"1", "2", "3"}, cfg.Channels.Discord.AllowFrom)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestPositiveInt(t *testing.T) {
	assert.NoError(t, positiveInt("3"))
	assert.Error(t, positiveInt("0"))
	assert.Error(t, positiveInt("x"))
}

func TestResolveConfigPath(t *testing.T) {
	old := cfgFile
	defer func() { cfgFile = old }()

	cfgFile = ""
	t.Setenv("HEALTHBOT_CONFIG", "")
	assert.Equal(t, "config.json", resolveConfigPath())

	t.Setenv("HEALTHBOT_CONFIG", "/etc/healthbot.json")
	assert.Equal(t, "/etc/healthbot.json", resolveConfigPath())

	cfgFile = "mine.json"
	assert.Equal(t, "mine.json", resolveConfigPath())
}

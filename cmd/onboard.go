package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/healthbot/internal/config"
)

func onboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "onboard",
		Short: "Interactive setup wizard that writes the config file",
		Run: func(cmd *cobra.Command, args []string) {
			runOnboard()
		},
	}
}

// onboardAnswers is the form state; numeric fields are edited as text.
type onboardAnswers struct {
	command       string
	avatar        string
	minPlayers    string
	maxPlayers    string
	enableDiscord bool
	token         string
	allowFrom     string
	telemetry     bool
	endpoint      string
}

func runOnboard() {
	cfgPath := resolveConfigPath()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("Could not read existing config %s: %v\n", cfgPath, err)
		cfg = config.Default()
	}

	ans := onboardAnswers{
		command:       cfg.Command,
		avatar:        cfg.Avatar,
		minPlayers:    strconv.Itoa(cfg.MinPlayers),
		maxPlayers:    strconv.Itoa(cfg.MaxPlayers),
		enableDiscord: true,
		token:         cfg.Channels.Discord.Token,
		allowFrom:     strings.Join(cfg.Channels.Discord.AllowFrom, ","),
		telemetry:     cfg.Telemetry.Enabled,
		endpoint:      cfg.Telemetry.Endpoint,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Command word").
				Description("First word of a message addressed to the bot in group chats").
				Value(&ans.command).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" || strings.ContainsAny(s, " \t") {
						return errors.New("must be a single non-empty word")
					}
					return nil
				}),
			huh.NewInput().
				Title("Minimum players").
				Value(&ans.minPlayers).
				Validate(positiveInt),
			huh.NewInput().
				Title("Maximum players").
				Value(&ans.maxPlayers).
				Validate(positiveInt),
			huh.NewInput().
				Title("Avatar (optional)").
				Description("Image file path or http(s) URL uploaded as the bot avatar").
				Value(&ans.avatar),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable Discord?").
				Value(&ans.enableDiscord),
			huh.NewInput().
				Title("Discord bot token").
				Description("Leave empty to supply HEALTHBOT_DISCORD_TOKEN at runtime").
				EchoMode(huh.EchoModePassword).
				Value(&ans.token),
			huh.NewInput().
				Title("Allowed user IDs (optional)").
				Description("Comma-separated; empty allows everyone").
				Value(&ans.allowFrom),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Export traces over OTLP?").
				Value(&ans.telemetry),
			huh.NewInput().
				Title("OTLP endpoint").
				Placeholder("localhost:4317").
				Value(&ans.endpoint),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("Onboarding cancelled.")
			return
		}
		fmt.Printf("Onboarding failed: %v\n", err)
		os.Exit(1)
	}

	ans.apply(cfg)
	// The token may be left for the environment, so only bounds are checked here.
	if cfg.MaxPlayers < cfg.MinPlayers {
		fmt.Printf("Maximum players (%d) must be >= minimum players (%d)\n", cfg.MaxPlayers, cfg.MinPlayers)
		os.Exit(1)
	}

	if cfg.Channels.Discord.Enabled && cfg.Channels.Discord.Token != "" {
		fmt.Println("  Verifying Discord token...")
		if verr := verifyDiscordToken(cfg.Channels.Discord.Token); verr != nil {
			if verr.fatal {
				fmt.Printf("    discord: FAILED: %s\n", verr.message)
				os.Exit(1)
			}
			fmt.Printf("    discord: WARNING: %s\n", verr.message)
		} else {
			fmt.Println("    discord: OK")
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		fmt.Printf("Failed to write %s: %v\n", cfgPath, err)
		os.Exit(1)
	}
	fmt.Printf("Config written to %s\n", cfgPath)
	fmt.Println("Start the bot with: healthbot")
}

// apply copies the answers onto cfg. Numbers were validated by the form.
func (a onboardAnswers) apply(cfg *config.Config) {
	cfg.Command = strings.TrimSpace(a.command)
	cfg.Avatar = strings.TrimSpace(a.avatar)
	cfg.MinPlayers, _ = strconv.Atoi(strings.TrimSpace(a.minPlayers))
	cfg.MaxPlayers, _ = strconv.Atoi(strings.TrimSpace(a.maxPlayers))

	cfg.Channels.Discord.Enabled = a.enableDiscord
	cfg.Channels.Discord.Token = strings.TrimSpace(a.token)
	cfg.Channels.Discord.AllowFrom = splitList(a.allowFrom)

	cfg.Telemetry.Enabled = a.telemetry
	cfg.Telemetry.Endpoint = strings.TrimSpace(a.endpoint)
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return errors.New("must be a whole number >= 1")
	}
	return nil
}

func splitList(s string) config.FlexibleStringSlice {
	var out config.FlexibleStringSlice
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

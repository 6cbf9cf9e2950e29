package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/healthbot/internal/channels/console"
	"github.com/nextlevelbuilder/healthbot/internal/config"
)

func chatCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Play locally: every line typed on stdin is a command",
		Long: "Runs the tracker against a local console channel. Each line is a direct\n" +
			"message from --user (default: channels.console.user_id), e.g.\n\n" +
			"  start me <@2> 20\n  dec <@2> 3\n  show\n",
		Run: func(cmd *cobra.Command, args []string) {
			runChat(userID)
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "user ID to play as")
	return cmd
}

func runChat(userID string) {
	// Keep the REPL readable: only warnings unless --verbose.
	setupLogging(os.Stderr, slog.LevelWarn)

	cfg := loadConfig()
	consoleCfg := cfg.Channels.Console
	consoleCfg.Enabled = true
	if userID != "" {
		consoleCfg.UserID = userID
	}

	rt := newApp(cfg)
	ch := console.New(consoleCfg, rt.bus, os.Stdin, os.Stdout)
	rt.manager.RegisterChannel(ch.Name(), ch)

	fmt.Printf("healthbot %s console. You are <@%s>. Type \"help\" for commands, Ctrl-D to quit.\n", Version, consoleUser(consoleCfg.UserID))

	if err := rt.run(context.Background(), ch.Done()); err != nil {
		slog.Error("console stopped with error", "error", err)
		os.Exit(1)
	}
}

func consoleUser(id string) string {
	if id == "" {
		return config.DefaultConsoleUser
	}
	return id
}

package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nextlevelbuilder/healthbot/internal/bus"
	"github.com/nextlevelbuilder/healthbot/internal/channels"
	"github.com/nextlevelbuilder/healthbot/internal/channels/discord"
	"github.com/nextlevelbuilder/healthbot/internal/config"
	"github.com/nextlevelbuilder/healthbot/internal/gateway"
	"github.com/nextlevelbuilder/healthbot/internal/sessions"
	"github.com/nextlevelbuilder/healthbot/internal/tracing"
	"github.com/nextlevelbuilder/healthbot/internal/tracker"
)

const shutdownTimeout = 10 * time.Second

func gatewayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gateway",
		Short: "Run the bot on the configured chat channels (default command)",
		Run: func(cmd *cobra.Command, args []string) {
			runGateway()
		},
	}
}

// app is the wiring shared by the gateway and the console REPL.
type app struct {
	cfg        *config.Config
	bus        *bus.MessageBus
	manager    *channels.Manager
	controller *tracker.Controller
	consumer   *gateway.Consumer
}

func newApp(cfg *config.Config) *app {
	msgBus := bus.New()
	manager := channels.NewManager(msgBus)
	minPlayers, maxPlayers := cfg.PlayerBounds()
	controller := tracker.NewController(sessions.NewStore(), minPlayers, maxPlayers)
	return &app{
		cfg:        cfg,
		bus:        msgBus,
		manager:    manager,
		controller: controller,
		consumer:   gateway.NewConsumer(msgBus, manager, controller, cfg.Command),
	}
}

// loadConfig loads and validates the config, exiting on failure.
func loadConfig() *config.Config {
	cfgPath := resolveConfigPath()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "path", cfgPath, "error", err)
		os.Exit(1)
	}

	// First run with a token in the environment: write a config file so the
	// next start does not depend on env alone.
	if _, statErr := os.Stat(config.ExpandHome(cfgPath)); os.IsNotExist(statErr) && canAutoOnboard() {
		if runAutoOnboard(cfgPath) {
			if reloaded, err := config.Load(cfgPath); err == nil {
				cfg = reloaded
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "path", cfgPath, "error", err)
		os.Exit(1)
	}
	slog.Debug("config loaded", "path", cfgPath, "config", cfg.MaskedCopy())
	return cfg
}

func runGateway() {
	setupLogging(os.Stdout, slog.LevelInfo)

	cfg := loadConfig()
	if !cfg.Channels.Discord.Enabled {
		slog.Error("no chat channel enabled: run `healthbot onboard` or set HEALTHBOT_DISCORD_TOKEN (or use `healthbot chat` to play locally)")
		os.Exit(1)
	}

	rt := newApp(cfg)

	dc, err := discord.New(cfg.Channels.Discord, rt.bus, cfg.Command, config.ExpandHome(cfg.Avatar))
	if err != nil {
		slog.Error("failed to initialize discord channel", "error", err)
		os.Exit(1)
	}
	rt.manager.RegisterChannel(dc.Name(), dc)

	slog.Info("healthbot gateway starting",
		"version", Version,
		"command", cfg.Command,
		"channels", rt.manager.GetEnabledChannels(),
	)

	if err := rt.run(context.Background(), nil); err != nil {
		slog.Error("gateway stopped with error", "error", err)
		os.Exit(1)
	}
}

// run starts tracing, the channels and the inbound consumer, then blocks until
// SIGINT/SIGTERM or until done (if non-nil) is closed.
func (rt *app) run(parent context.Context, done <-chan struct{}) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	shutdownTracing, err := tracing.Setup(ctx, rt.cfg.Telemetry)
	if err != nil {
		slog.Warn("telemetry disabled", "error", err)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer flushCancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Warn("telemetry flush failed", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if err := rt.manager.StartAll(ctx); err != nil {
		return err
	}
	for name, status := range rt.manager.GetStatus() {
		slog.Info("channel status", "channel", name, "status", status.String())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return rt.consumer.Run(gctx)
	})
	g.Go(func() error {
		select {
		case sig := <-sigCh:
			slog.Info("graceful shutdown initiated", "signal", sig)
		case <-done:
			slog.Debug("input closed, shutting down")
		case <-gctx.Done():
		}
		cancel()
		return nil
	})

	waitErr := g.Wait()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	stopErr := rt.manager.StopAll(stopCtx)

	rt.logDiscardedSessions()
	return errors.Join(waitErr, stopErr)
}

// logDiscardedSessions reports the sessions lost on shutdown; nothing is persisted.
func (rt *app) logDiscardedSessions() {
	keys := rt.controller.Store().Keys()
	for _, key := range keys {
		channel, kind, chatID, ok := sessions.ParseStoreKey(key)
		if !ok {
			slog.Debug("discarding session", "key", key)
			continue
		}
		slog.Debug("discarding session", "channel", channel, "peer_kind", string(kind), "chat_id", chatID)
	}
	slog.Info("healthbot stopped", "sessions_discarded", len(keys))
}

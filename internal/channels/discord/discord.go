package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/nextlevelbuilder/healthbot/internal/bus"
	"github.com/nextlevelbuilder/healthbot/internal/channels"
	"github.com/nextlevelbuilder/healthbot/internal/config"
	"github.com/nextlevelbuilder/healthbot/internal/sessions"
)

const maxMessageLen = 2000

// Channel connects to Discord via the Bot API using gateway events.
type Channel struct {
	*channels.BaseChannel
	session *discordgo.Session
	config  config.DiscordConfig
	command string   // advertised as the "Listening to" presence
	avatar  string   // file path or http(s) URL, uploaded on ready
	users   sync.Map // userID string → bool (known to Discord)
}

// New creates a new Discord channel from config.
func New(cfg config.DiscordConfig, msgBus *bus.MessageBus, command, avatar string) (*Channel, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	return &Channel{
		BaseChannel: channels.NewBaseChannel("discord", msgBus, cfg.AllowFrom),
		session:     session,
		config:      cfg,
		command:     command,
		avatar:      avatar,
	}, nil
}

// Start opens the Discord gateway connection and begins receiving events.
func (c *Channel) Start(_ context.Context) error {
	slog.Info("starting discord bot")

	c.session.AddHandler(c.handleReady)
	c.session.AddHandler(c.handleDisconnect)
	c.session.AddHandler(c.handleMessage)

	if err := c.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	// Ready may not have arrived yet; fetch identity so SelfID is usable right away.
	user, err := c.session.User("@me")
	if err != nil {
		c.session.Close()
		return fmt.Errorf("fetch discord bot identity: %w", err)
	}
	c.SetConnected(user.ID)
	c.users.Store(user.ID, true)

	slog.Info("discord bot connected", "username", user.Username, "id", user.ID)
	return nil
}

// Stop closes the Discord gateway connection.
func (c *Channel) Stop(_ context.Context) error {
	slog.Info("stopping discord bot")
	c.SetDisconnected()
	return c.session.Close()
}

// Send delivers an outbound message to a Discord channel and reacts to the
// originating message when a reaction is set.
func (c *Channel) Send(ctx context.Context, msg bus.OutboundMessage) error {
	if !c.IsRunning() {
		return fmt.Errorf("discord bot not running")
	}

	channelID := msg.ChatID
	if channelID == "" {
		return fmt.Errorf("empty chat ID for discord send")
	}

	if msg.Content != "" {
		if err := c.sendChunked(ctx, channelID, msg.Content); err != nil {
			return err
		}
	}

	if msg.Reaction != "" {
		if messageID := msg.MessageID(); messageID != "" {
			if err := c.session.MessageReactionAdd(channelID, messageID, msg.Reaction, discordgo.WithContext(ctx)); err != nil {
				return fmt.Errorf("add discord reaction: %w", err)
			}
		}
	}
	return nil
}

// sendChunked sends a message, splitting into multiple messages if over 2000 chars.
func (c *Channel) sendChunked(ctx context.Context, channelID, content string) error {
	for _, chunk := range channels.SplitChunks(content, maxMessageLen) {
		if _, err := c.session.ChannelMessageSend(channelID, chunk, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("send discord message: %w", err)
		}
	}
	return nil
}

// ResolveUser reports whether userID names an existing Discord user.
// Lookups go through a local cache first, then the REST API.
func (c *Channel) ResolveUser(ctx context.Context, userID string) bool {
	if known, ok := c.users.Load(userID); ok {
		return known.(bool)
	}

	user, err := c.session.User(userID, discordgo.WithContext(ctx))
	if err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Response != nil &&
			(restErr.Response.StatusCode == http.StatusNotFound || restErr.Response.StatusCode == http.StatusBadRequest) {
			c.users.Store(userID, false)
		}
		slog.Debug("discord user lookup failed", "user_id", userID, "error", err)
		return false
	}

	c.users.Store(user.ID, true)
	return true
}

func (c *Channel) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	if r.User == nil {
		return
	}
	c.SetConnected(r.User.ID)
	c.users.Store(r.User.ID, true)
	slog.Info("discord ready", "username", r.User.Username, "guilds", len(r.Guilds))

	if c.command != "" {
		if err := s.UpdateListeningStatus(c.command); err != nil {
			slog.Warn("discord: set presence failed", "error", err)
		}
	}

	if c.avatar != "" {
		go c.uploadAvatar(s)
	}
}

func (c *Channel) handleDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	slog.Warn("discord gateway disconnected")
	c.SetDisconnected()
}

func (c *Channel) uploadAvatar(s *discordgo.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), avatarTimeout)
	defer cancel()

	dataURI, err := loadAvatar(ctx, c.avatar)
	if err != nil {
		slog.Warn("discord: load avatar failed", "avatar", c.avatar, "error", err)
		return
	}
	if _, err := s.UserUpdate("", dataURI, "", discordgo.WithContext(ctx)); err != nil {
		slog.Warn("discord: avatar upload failed", "error", err)
		return
	}
	slog.Info("discord avatar updated")
}

// handleMessage processes incoming Discord messages.
func (c *Channel) handleMessage(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == c.SelfID() {
		return
	}
	if m.Author.Bot {
		return
	}

	senderID := m.Author.ID
	if !c.IsAllowed(senderID) {
		slog.Debug("discord message rejected by allowlist",
			"user_id", senderID,
			"username", m.Author.Username,
		)
		return
	}

	// Authors and mentioned users are known to exist.
	c.users.Store(senderID, true)
	for _, u := range m.Mentions {
		if u != nil {
			c.users.Store(u.ID, true)
		}
	}

	isDM := m.GuildID == ""
	peerKind := string(sessions.PeerKindFromGroup(!isDM))

	slog.Debug("discord message received",
		"sender_id", senderID,
		"channel_id", m.ChannelID,
		"is_dm", isDM,
		"preview", channels.Truncate(m.Content, 50),
	)

	metadata := map[string]string{
		"message_id": m.ID,
		"username":   m.Author.Username,
		"guild_id":   m.GuildID,
	}

	c.HandleMessage(senderID, m.ChannelID, m.Content, metadata, peerKind)
}

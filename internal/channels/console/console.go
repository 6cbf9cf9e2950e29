// Package console implements a stdin/stdout channel for playing with the
// tracker locally. Every line typed is a direct message from the configured
// user; replies and reactions are printed back.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nextlevelbuilder/healthbot/internal/bus"
	"github.com/nextlevelbuilder/healthbot/internal/channels"
	"github.com/nextlevelbuilder/healthbot/internal/config"
	"github.com/nextlevelbuilder/healthbot/internal/sessions"
)

const (
	ChatID = "console"
	SelfID = "0"

	replyTimeout = 5 * time.Second
)

// Channel reads commands from in and writes replies to out.
type Channel struct {
	*channels.BaseChannel
	in     io.Reader
	out    io.Writer
	userID string
	known  map[string]bool
	prompt string

	outMu   sync.Mutex
	replies chan string // message IDs whose reply has been printed
	seq     int
	done    chan struct{}
	cancel  context.CancelFunc
}

// New creates a console channel. An empty cfg.UserID defaults to
// config.DefaultConsoleUser.
func New(cfg config.ConsoleConfig, msgBus *bus.MessageBus, in io.Reader, out io.Writer) *Channel {
	userID := cfg.UserID
	if userID == "" {
		userID = config.DefaultConsoleUser
	}
	known := make(map[string]bool, len(cfg.KnownUsers))
	for _, id := range cfg.KnownUsers {
		known[id] = true
	}
	return &Channel{
		BaseChannel: channels.NewBaseChannel("console", msgBus, nil),
		in:          in,
		out:         out,
		userID:      userID,
		known:       known,
		prompt:      "> ",
		replies:     make(chan string, 1),
		done:        make(chan struct{}),
	}
}

// Start begins reading lines in the background.
func (c *Channel) Start(ctx context.Context) error {
	readCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.SetConnected(SelfID)
	go c.readLoop(readCtx)
	return nil
}

// Stop stops accepting input. A read blocked on the underlying reader is abandoned.
func (c *Channel) Stop(_ context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}
	c.SetDisconnected()
	return nil
}

// Done is closed once the input is exhausted or the channel is stopped.
func (c *Channel) Done() <-chan struct{} { return c.done }

// Send prints a reply followed by its reaction.
func (c *Channel) Send(_ context.Context, msg bus.OutboundMessage) error {
	c.outMu.Lock()
	if msg.Content != "" {
		fmt.Fprintln(c.out, msg.Content)
	}
	if msg.Reaction != "" {
		fmt.Fprintf(c.out, "[%s]\n", msg.Reaction)
	}
	c.outMu.Unlock()

	select {
	case c.replies <- msg.MessageID():
	default:
	}
	return nil
}

// ResolveUser accepts the configured known users, or any all-digit id when
// none are configured. The console user and the bot itself are always known.
func (c *Channel) ResolveUser(_ context.Context, userID string) bool {
	if userID == c.userID || userID == SelfID {
		return true
	}
	if len(c.known) > 0 {
		return c.known[userID]
	}
	if userID == "" {
		return false
	}
	for _, r := range userID {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (c *Channel) readLoop(ctx context.Context) {
	defer close(c.done)

	scanner := bufio.NewScanner(c.in)
	c.printPrompt()
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			c.printPrompt()
			continue
		}

		c.seq++
		messageID := strconv.Itoa(c.seq)
		c.HandleMessage(c.userID, ChatID, line, map[string]string{"message_id": messageID}, string(sessions.PeerDirect))

		if !c.awaitReply(ctx, messageID) {
			if ctx.Err() != nil {
				return
			}
			slog.Warn("console: no reply", "message_id", messageID)
		}
		c.printPrompt()
	}
	if err := scanner.Err(); err != nil {
		slog.Error("console: read input", "error", err)
	}
}

// awaitReply blocks until the reply for messageID has been printed so that
// output and the next prompt do not interleave.
func (c *Channel) awaitReply(ctx context.Context, messageID string) bool {
	timer := time.NewTimer(replyTimeout)
	defer timer.Stop()
	for {
		select {
		case id := <-c.replies:
			if id == messageID {
				return true
			}
		case <-timer.C:
			return false
		case <-ctx.Done():
			return false
		}
	}
}

func (c *Channel) printPrompt() {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprint(c.out, c.prompt)
}

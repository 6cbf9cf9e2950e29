package tracker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nextlevelbuilder/healthbot/internal/sessions"
)

// Request is one command to run against a chat's session.
type Request struct {
	SessionKey string // opaque per-chat key, see sessions.BuildStoreKey
	InvokerID  string
	Command    Command
	Identities IdentityResolver
}

// Controller runs the per-chat state machine: Idle (no session) and Active.
type Controller struct {
	store    *sessions.Store
	resolver Resolver
	mu       sync.Mutex // one whole command is a critical section
}

// NewController creates a controller over store with the given player bounds.
func NewController(store *sessions.Store, minPlayers, maxPlayers int) *Controller {
	return &Controller{
		store:    store,
		resolver: Resolver{MinPlayers: minPlayers, MaxPlayers: maxPlayers},
	}
}

// Store returns the session store the controller owns.
func (c *Controller) Store() *sessions.Store { return c.store }

// Handle runs req.Command and reports the outcome. It never fails: every
// problem with the input becomes a rejected Outcome.
func (c *Controller) Handle(ctx context.Context, req Request) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out Outcome
	switch req.Command.Kind {
	case CmdStart:
		out = c.start(ctx, req)
	case CmdStop:
		out = c.stop(req)
	case CmdInc:
		out = c.adjust(ctx, req, 1)
	case CmdDec:
		out = c.adjust(ctx, req, -1)
	case CmdShow:
		out = c.show(req)
	case CmdHelp:
		out = Outcome{Kind: OutcomeHelp}
	default: // CmdUnknown
		out = rejected(&Rejection{Reason: ReasonUnknownCommand, Token: req.Command.Word})
	}

	slog.Debug("tracker: command handled",
		"session", req.SessionKey,
		"invoker", req.InvokerID,
		"command", req.Command.Kind.String(),
		"outcome", out.Kind.String(),
	)
	return out
}

func (c *Controller) start(ctx context.Context, req Request) Outcome {
	if _, active := c.store.Get(req.SessionKey); active {
		return rejected(reject(ReasonAlreadyStarted))
	}

	res, err := c.resolver.ResolveStart(ctx, req.Command.Args, ResolutionContext{
		InvokerID:  req.InvokerID,
		Identities: req.Identities,
	})
	if err != nil {
		return rejectedErr(err)
	}

	snap, err := c.store.Create(req.SessionKey, res.PlayerIDs, res.Health)
	if err != nil {
		// Only ErrSessionExists; unreachable while mu is held.
		return rejected(reject(ReasonAlreadyStarted))
	}
	return Outcome{Kind: OutcomeStarted, Players: playersOf(snap), Health: res.Health}
}

func (c *Controller) stop(req Request) Outcome {
	snap, active := c.store.Get(req.SessionKey)
	if !active {
		return rejected(reject(ReasonNotStarted))
	}
	c.store.Delete(req.SessionKey)
	return Outcome{Kind: OutcomeStopped, Players: playersOf(snap)}
}

func (c *Controller) adjust(ctx context.Context, req Request, sign int) Outcome {
	snap, active := c.store.Get(req.SessionKey)
	if !active {
		return rejected(reject(ReasonNotStarted))
	}
	if !snap.Has(req.InvokerID) {
		return rejected(reject(ReasonNotAPlayer))
	}

	res, err := c.resolver.ResolveAdjust(ctx, req.Command.Args, ResolutionContext{
		InvokerID:    req.InvokerID,
		Participants: snap.PlayerIDs(),
		Identities:   req.Identities,
	})
	if err != nil {
		return rejectedErr(err)
	}

	delta := sign * res.Health
	for _, id := range res.PlayerIDs {
		if err := c.store.Mutate(req.SessionKey, id, delta); err != nil {
			return rejected(reject(ReasonNotStarted))
		}
	}

	after, _ := c.store.Get(req.SessionKey)
	return Outcome{Kind: OutcomeAdjusted, Players: playersOf(after), Targets: res.PlayerIDs, Delta: delta}
}

func (c *Controller) show(req Request) Outcome {
	snap, active := c.store.Get(req.SessionKey)
	if !active {
		return rejected(reject(ReasonNotStarted))
	}
	return Outcome{Kind: OutcomeShown, Players: playersOf(snap)}
}

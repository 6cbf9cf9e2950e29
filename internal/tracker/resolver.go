package tracker

import (
	"context"
	"regexp"
	"strconv"
)

// IdentityResolver checks that a user ID refers to a known user.
type IdentityResolver interface {
	ResolveUser(ctx context.Context, userID string) bool
}

// IdentityResolverFunc adapts a function to IdentityResolver.
type IdentityResolverFunc func(ctx context.Context, userID string) bool

func (f IdentityResolverFunc) ResolveUser(ctx context.Context, userID string) bool {
	return f(ctx, userID)
}

// ResolutionContext carries what the resolver needs to interpret tokens for one command.
type ResolutionContext struct {
	InvokerID    string
	Participants []string // current session players; the universe for "all" and "others"
	Identities   IdentityResolver
}

// Resolution is a validated set of player IDs plus a positive health value.
type Resolution struct {
	PlayerIDs []string // deduplicated, in first-mention order
	Health    int
}

// Resolver turns argument tokens into players and a number.
type Resolver struct {
	MinPlayers int
	MaxPlayers int
}

// ResolveStart resolves "start" arguments: players (me or mentions) then health.
// The player count must be within [MinPlayers, MaxPlayers]; that check runs
// before the number is parsed.
func (r Resolver) ResolveStart(ctx context.Context, args []string, rc ResolutionContext) (Resolution, error) {
	if len(args) < 2 {
		return Resolution{}, reject(ReasonNotEnoughArguments)
	}
	playerArgs, healthArg := args[:len(args)-1], args[len(args)-1]

	players, err := resolvePlayers(ctx, playerArgs, rc, false)
	if err != nil {
		return Resolution{}, err
	}
	if len(players) < r.MinPlayers {
		return Resolution{}, &Rejection{Reason: ReasonTooFewPlayers, Value: r.MinPlayers}
	}
	if len(players) > r.MaxPlayers {
		return Resolution{}, &Rejection{Reason: ReasonTooManyPlayers, Value: r.MaxPlayers}
	}

	health, err := ParseHealth(healthArg)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{PlayerIDs: players, Health: health}, nil
}

// ResolveAdjust resolves "inc"/"dec" arguments: players (me, all, others or
// mentions) then a positive amount. "all" and "others" expand over
// rc.Participants, so an empty selection is possible and rejected last.
func (r Resolver) ResolveAdjust(ctx context.Context, args []string, rc ResolutionContext) (Resolution, error) {
	if len(args) < 2 {
		return Resolution{}, reject(ReasonNotEnoughArguments)
	}
	playerArgs, healthArg := args[:len(args)-1], args[len(args)-1]

	players, err := resolvePlayers(ctx, playerArgs, rc, true)
	if err != nil {
		return Resolution{}, err
	}

	health, err := ParseHealth(healthArg)
	if err != nil {
		return Resolution{}, err
	}
	if len(players) == 0 {
		return Resolution{}, reject(ReasonNoPlayersSelected)
	}
	return Resolution{PlayerIDs: players, Health: health}, nil
}

// resolvePlayers classifies each token. The first unknown token aborts.
func resolvePlayers(ctx context.Context, tokens []string, rc ResolutionContext, expand bool) ([]string, error) {
	var set playerSet
	for _, tok := range tokens {
		switch {
		case tok == KeywordMe:
			set.add(rc.InvokerID)
		case expand && tok == KeywordAll:
			for _, id := range rc.Participants {
				set.add(id)
			}
		case expand && tok == KeywordOthers:
			for _, id := range rc.Participants {
				if id != rc.InvokerID {
					set.add(id)
				}
			}
		case IsUserMention(tok):
			id := ParseUserMention(tok)
			if id == "" || rc.Identities == nil || !rc.Identities.ResolveUser(ctx, id) {
				return nil, &Rejection{Reason: ReasonUnknownPlayer, Token: tok}
			}
			set.add(id)
		default:
			return nil, &Rejection{Reason: ReasonUnknownPlayer, Token: tok}
		}
	}
	return set.ids, nil
}

// leadingInt matches the longest signed decimal prefix, after optional whitespace.
var leadingInt = regexp.MustCompile(`^\s*([+-]?[0-9]+)`)

// ParseHealth reads a positive integer the permissive way: a leading signed
// decimal prefix is enough ("10abc" is 10, "0x10" is 0). No digits, or a value
// that overflows int, is NotANumber; zero or less is NonPositiveHealth.
func ParseHealth(tok string) (int, error) {
	m := leadingInt.FindStringSubmatch(tok)
	if m == nil {
		return 0, &Rejection{Reason: ReasonNotANumber, Token: tok}
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, &Rejection{Reason: ReasonNotANumber, Token: tok}
	}
	if v <= 0 {
		return 0, &Rejection{Reason: ReasonNonPositiveHealth, Value: v}
	}
	return v, nil
}

// playerSet is an insertion-ordered set of IDs.
type playerSet struct {
	ids  []string
	seen map[string]struct{}
}

func (s *playerSet) add(id string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.ids = append(s.ids, id)
}

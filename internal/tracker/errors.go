package tracker

import (
	"errors"
	"fmt"
)

// Reason identifies why a command was rejected. Every reason is an expected
// user-input condition, not a fault.
type Reason int

const (
	ReasonAlreadyStarted Reason = iota + 1
	ReasonNotStarted
	ReasonNotAPlayer
	ReasonNotEnoughArguments
	ReasonUnknownPlayer
	ReasonTooFewPlayers
	ReasonTooManyPlayers
	ReasonNotANumber
	ReasonNonPositiveHealth
	ReasonNoPlayersSelected
	ReasonUnknownCommand
)

var reasonNames = map[Reason]string{
	ReasonAlreadyStarted:     "already_started",
	ReasonNotStarted:         "not_started",
	ReasonNotAPlayer:         "not_a_player",
	ReasonNotEnoughArguments: "not_enough_arguments",
	ReasonUnknownPlayer:      "unknown_player",
	ReasonTooFewPlayers:      "too_few_players",
	ReasonTooManyPlayers:     "too_many_players",
	ReasonNotANumber:         "not_a_number",
	ReasonNonPositiveHealth:  "non_positive_health",
	ReasonNoPlayersSelected:  "no_players_selected",
	ReasonUnknownCommand:     "unknown_command",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Rejection is returned by the resolver and carried by rejected outcomes.
type Rejection struct {
	Reason Reason
	Token  string // offending token (UnknownPlayer, NotANumber, UnknownCommand)
	Value  int    // parsed health (NonPositiveHealth) or the violated bound (TooFew/TooManyPlayers)
}

func (r *Rejection) Error() string {
	switch r.Reason {
	case ReasonUnknownPlayer, ReasonNotANumber, ReasonUnknownCommand:
		return fmt.Sprintf("%s: %q", r.Reason, r.Token)
	case ReasonNonPositiveHealth, ReasonTooFewPlayers, ReasonTooManyPlayers:
		return fmt.Sprintf("%s: %d", r.Reason, r.Value)
	default:
		return r.Reason.String()
	}
}

// Is matches another *Rejection with the same reason, so
// errors.Is(err, &Rejection{Reason: ReasonNotStarted}) works.
func (r *Rejection) Is(target error) bool {
	t, ok := target.(*Rejection)
	return ok && t.Reason == r.Reason
}

func reject(reason Reason) *Rejection {
	return &Rejection{Reason: reason}
}

// AsRejection extracts a *Rejection from err.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// IsReason reports whether err is a rejection for reason.
func IsReason(err error, reason Reason) bool {
	rej, ok := AsRejection(err)
	return ok && rej.Reason == reason
}

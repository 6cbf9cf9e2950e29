package tracker

import "github.com/nextlevelbuilder/healthbot/internal/sessions"

// OutcomeKind tags the result of one handled command.
type OutcomeKind int

const (
	OutcomeRejected OutcomeKind = iota
	OutcomeStarted
	OutcomeStopped
	OutcomeAdjusted
	OutcomeShown
	OutcomeHelp
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeStarted:
		return "started"
	case OutcomeStopped:
		return "stopped"
	case OutcomeAdjusted:
		return "adjusted"
	case OutcomeShown:
		return "shown"
	case OutcomeHelp:
		return "help"
	default:
		return "rejected"
	}
}

// PlayerHealth is one row of the rendered health table.
type PlayerHealth struct {
	PlayerID string
	Health   int
}

// Outcome is what the controller reports back for rendering.
type Outcome struct {
	Kind OutcomeKind

	// Players is the full session mapping: after creation (Started), before
	// deletion (Stopped), after mutation (Adjusted) or as is (Shown).
	Players []PlayerHealth

	// Targets and Delta describe an adjustment; Delta is signed.
	Targets []string
	Delta   int

	// Health is the initial value of a started session.
	Health int

	Rejection *Rejection
}

// OK reports whether the command succeeded.
func (o Outcome) OK() bool {
	return o.Kind != OutcomeRejected
}

func rejected(rej *Rejection) Outcome {
	return Outcome{Kind: OutcomeRejected, Rejection: rej}
}

// rejectedErr wraps a resolver error. The resolver only returns *Rejection.
func rejectedErr(err error) Outcome {
	rej, ok := AsRejection(err)
	if !ok {
		rej = &Rejection{Reason: ReasonNotEnoughArguments}
	}
	return rejected(rej)
}

func playersOf(snap sessions.Snapshot) []PlayerHealth {
	out := make([]PlayerHealth, len(snap.Entries))
	for i, e := range snap.Entries {
		out[i] = PlayerHealth{PlayerID: e.PlayerID, Health: e.Health}
	}
	return out
}

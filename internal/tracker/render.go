package tracker

import (
	"fmt"
	"strings"
)

// Reactions added to the command message.
const (
	ReactionOK   = "👍"
	ReactionFail = "👎"
)

// Reply is the rendered form of an Outcome.
type Reply struct {
	Text     string
	Reaction string
}

// Renderer formats outcomes for chat.
type Renderer struct {
	CommandWord string
}

// Render turns an outcome into reply text and exactly one reaction.
func (r Renderer) Render(out Outcome) Reply {
	reaction := ReactionOK
	if !out.OK() {
		reaction = ReactionFail
	}

	var text string
	switch out.Kind {
	case OutcomeStarted, OutcomeAdjusted, OutcomeShown:
		text = healthTable(out.Players)
	case OutcomeStopped:
		text = healthTable(out.Players) + "\nStopped"
	case OutcomeHelp:
		text = r.HelpText()
	default:
		text = r.rejectionText(out.Rejection)
	}
	return Reply{Text: text, Reaction: reaction}
}

// HelpText is the static usage text.
func (r Renderer) HelpText() string {
	cmd := r.CommandWord
	return strings.Join([]string{
		"Commands:",
		cmd + " start @player1 @player2 <health>",
		cmd + " stop",
		cmd + " inc @player me all others <health>",
		cmd + " dec @player me all others <health>",
		cmd + " show",
		cmd + " help",
	}, "\n")
}

func (r Renderer) rejectionText(rej *Rejection) string {
	if rej == nil {
		return "Something went wrong"
	}
	switch rej.Reason {
	case ReasonAlreadyStarted:
		return "Health tracking already in progress"
	case ReasonNotStarted:
		return "Health tracking is not in progress"
	case ReasonNotAPlayer:
		return "You are not a player"
	case ReasonNotEnoughArguments:
		return "There are not enough arguments for this command"
	case ReasonUnknownPlayer:
		return "Unknown player " + rej.Token
	case ReasonTooFewPlayers:
		return fmt.Sprintf("Must have at least %d players", rej.Value)
	case ReasonTooManyPlayers:
		return fmt.Sprintf("Must have at most %d players", rej.Value)
	case ReasonNotANumber:
		return rej.Token + " is not a valid number"
	case ReasonNonPositiveHealth:
		return fmt.Sprintf("%d must be > 0", rej.Value)
	case ReasonNoPlayersSelected:
		return "No players selected"
	case ReasonUnknownCommand:
		return "Unknown command: " + rej.Token + "\n" + r.HelpText()
	default:
		return rej.Error()
	}
}

func healthTable(players []PlayerHealth) string {
	lines := make([]string, 0, len(players)+1)
	lines = append(lines, "Player Health:")
	for _, p := range players {
		lines = append(lines, fmt.Sprintf("%s: %d🩸", MentionUser(p.PlayerID), p.Health))
	}
	return strings.Join(lines, "\n")
}

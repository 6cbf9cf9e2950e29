package tracker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderer_Render(t *testing.T) {
	r := Renderer{CommandWord: "!health"}
	players := []PlayerHealth{{"1", 12}, {"2", -3}}

	tests := []struct {
		name     string
		out      Outcome
		text     string
		reaction string
	}{
		{
			name:     "shown",
			out:      Outcome{Kind: OutcomeShown, Players: players},
			text:     "Player Health:\n<@1>: 12🩸\n<@2>: -3🩸",
			reaction: ReactionOK,
		},
		{
			name:     "stopped",
			out:      Outcome{Kind: OutcomeStopped, Players: players},
			text:     "Player Health:\n<@1>: 12🩸\n<@2>: -3🩸\nStopped",
			reaction: ReactionOK,
		},
		{"already started", rejected(reject(ReasonAlreadyStarted)), "Health tracking already in progress", ReactionFail},
		{"not started", rejected(reject(ReasonNotStarted)), "Health tracking is not in progress", ReactionFail},
		{"not a player", rejected(reject(ReasonNotAPlayer)), "You are not a player", ReactionFail},
		{"args", rejected(reject(ReasonNotEnoughArguments)), "There are not enough arguments for this command", ReactionFail},
		{"unknown player", rejected(&Rejection{Reason: ReasonUnknownPlayer, Token: "<@9>"}), "Unknown player <@9>", ReactionFail},
		{"too few", rejected(&Rejection{Reason: ReasonTooFewPlayers, Value: 2}), "Must have at least 2 players", ReactionFail},
		{"too many", rejected(&Rejection{Reason: ReasonTooManyPlayers, Value: 5}), "Must have at most 5 players", ReactionFail},
		{"nan", rejected(&Rejection{Reason: ReasonNotANumber, Token: "abc"}), "abc is not a valid number", ReactionFail},
		{"non positive", rejected(&Rejection{Reason: ReasonNonPositiveHealth, Value: -5}), "-5 must be > 0", ReactionFail},
		{"none selected", rejected(reject(ReasonNoPlayersSelected)), "No players selected", ReactionFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := r.Render(tt.out)
			assert.Equal(t, tt.text, reply.Text)
			assert.Equal(t, tt.reaction, reply.Reaction)
		})
	}
}

func TestRenderer_HelpAndUnknownCommand(t *testing.T) {
	r := Renderer{CommandWord: "!hp"}

	help := r.Render(Outcome{Kind: OutcomeHelp})
	assert.Equal(t, ReactionOK, help.Reaction)
	assert.True(t, strings.HasPrefix(help.Text, "Commands:\n!hp start"))
	assert.Contains(t, help.Text, "!hp show")

	unknown := r.Render(rejected(&Rejection{Reason: ReasonUnknownCommand, Token: "jump"}))
	assert.Equal(t, ReactionFail, unknown.Reaction)
	assert.Equal(t, "Unknown command: jump\n"+r.HelpText(), unknown.Text)
}

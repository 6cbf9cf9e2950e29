package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoute(t *testing.T) {
	group := Addressing{SelfID: "42", CommandWord: "!health"}
	direct := Addressing{SelfID: "42", CommandWord: "!health", Direct: true}

	tests := []struct {
		name     string
		text     string
		addr     Addressing
		wantOK   bool
		wantKind CommandKind
		wantArgs []string
	}{
		{"group command word", "!health start me <@7> 10", group, true, CmdStart, []string{"me", "<@7>", "10"}},
		{"group mention", "<@42> show", group, true, CmdShow, []string{}},
		{"group nickname mention", "<@!42>   inc  me 5", group, true, CmdInc, []string{"me", "5"}},
		{"group not addressed", "hello there", group, false, 0, nil},
		{"group other mention", "<@43> show", group, false, 0, nil},
		{"group empty", "   ", group, false, 0, nil},
		{"group address only", "!health", group, true, CmdHelp, nil},
		{"direct always", "stop", direct, true, CmdStop, []string{}},
		{"direct keeps first token", "!health stop", direct, true, CmdUnknown, []string{"stop"}},
		{"case sensitive", "!health Start me 1", group, true, CmdUnknown, []string{"me", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := Route(tt.text, tt.addr)
			assert.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantKind, cmd.Kind)
			assert.Equal(t, tt.wantArgs, cmd.Args)
		})
	}
}

func TestParseCommand_Words(t *testing.T) {
	for word, kind := range commandWords {
		cmd := ParseCommand([]string{word})
		assert.Equal(t, kind, cmd.Kind)
		assert.Equal(t, word, cmd.Kind.String())
	}
	cmd := ParseCommand([]string{"frobnicate", "x"})
	assert.Equal(t, CmdUnknown, cmd.Kind)
	assert.Equal(t, "frobnicate", cmd.Word)
}

func TestMentions(t *testing.T) {
	assert.True(t, IsUserMention("<@123>"))
	assert.True(t, IsUserMention("<@!123>"))
	assert.False(t, IsUserMention("@123"))
	assert.False(t, IsUserMention("<#123>"))
	assert.False(t, IsUserMention("<@"))

	assert.Equal(t, "123", ParseUserMention("<@123>"))
	assert.Equal(t, "123", ParseUserMention("<@!123>"))
	assert.Equal(t, "<@123>", MentionUser("123"))
}

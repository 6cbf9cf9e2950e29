package tracker

import "strings"

// CommandKind is the closed set of commands the bot understands.
type CommandKind int

const (
	CmdUnknown CommandKind = iota
	CmdStart
	CmdStop
	CmdInc
	CmdDec
	CmdShow
	CmdHelp
)

var commandWords = map[string]CommandKind{
	"start": CmdStart,
	"stop":  CmdStop,
	"inc":   CmdInc,
	"dec":   CmdDec,
	"show":  CmdShow,
	"help":  CmdHelp,
}

func (k CommandKind) String() string {
	switch k {
	case CmdStart:
		return "start"
	case CmdStop:
		return "stop"
	case CmdInc:
		return "inc"
	case CmdDec:
		return "dec"
	case CmdShow:
		return "show"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Command is a parsed command line with the address word already removed.
type Command struct {
	Kind CommandKind
	Word string   // the command word as typed
	Args []string // tokens after the command word
}

// ParseCommand classifies tokens[0] (case-sensitive) and keeps the rest as arguments.
// An empty token list is a request for help.
func ParseCommand(tokens []string) Command {
	if len(tokens) == 0 {
		return Command{Kind: CmdHelp}
	}
	kind, ok := commandWords[tokens[0]]
	if !ok {
		kind = CmdUnknown
	}
	return Command{Kind: kind, Word: tokens[0], Args: tokens[1:]}
}

// Addressing describes how a message reached the bot.
type Addressing struct {
	SelfID      string // the bot's own user ID
	CommandWord string // e.g. "!health"
	Direct      bool   // one-to-one conversation
}

// Route decides whether text addresses the bot and, if so, parses the command.
// Direct conversations always address the bot. In shared chats the first
// token must be the command word or a mention of the bot.
func Route(text string, addr Addressing) (Command, bool) {
	tokens := strings.Fields(text)
	if addr.Direct {
		return ParseCommand(tokens), true
	}
	if len(tokens) == 0 {
		return Command{}, false
	}
	first := tokens[0]
	if first != addr.CommandWord && !isSelfMention(first, addr.SelfID) {
		return Command{}, false
	}
	return ParseCommand(tokens[1:]), true
}

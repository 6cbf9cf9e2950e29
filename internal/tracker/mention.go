package tracker

import "strings"

// Keywords accepted in player position.
const (
	KeywordMe     = "me"
	KeywordAll    = "all"
	KeywordOthers = "others"
)

// IsUserMention reports whether tok looks like <@id> or <@!id>.
func IsUserMention(tok string) bool {
	return len(tok) >= 3 && strings.HasPrefix(tok, "<@") && strings.HasSuffix(tok, ">")
}

// ParseUserMention returns the user ID inside a mention token.
// The nickname marker '!' right after "<@" is dropped.
func ParseUserMention(tok string) string {
	id := tok[2 : len(tok)-1]
	return strings.TrimPrefix(id, "!")
}

// MentionUser renders a user ID as a mention token.
func MentionUser(userID string) string {
	return "<@" + userID + ">"
}

// isSelfMention reports whether tok mentions selfID in either form.
func isSelfMention(tok, selfID string) bool {
	if selfID == "" {
		return false
	}
	return tok == "<@"+selfID+">" || tok == "<@!"+selfID+">"
}

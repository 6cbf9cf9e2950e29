package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
)

// tokenVerifyError holds the result of a Discord token check.
type tokenVerifyError struct {
	fatal   bool   // true = bad credentials
	message string // human-readable description
}

func (e *tokenVerifyError) Error() string { return e.message }

// verifyDiscordToken fetches the bot's own user with token.
//   - 401/403 RESTError → invalid token (fatal)
//   - Any other error   → non-fatal warning (transient network issue)
//   - Success           → token is valid
func verifyDiscordToken(token string) *tokenVerifyError {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return &tokenVerifyError{fatal: true, message: err.Error()}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if _, err := session.User("@me", discordgo.WithContext(ctx)); err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Response != nil &&
			(restErr.Response.StatusCode == http.StatusUnauthorized || restErr.Response.StatusCode == http.StatusForbidden) {
			return &tokenVerifyError{
				fatal:   true,
				message: fmt.Sprintf("discord returned %d: invalid bot token", restErr.Response.StatusCode),
			}
		}
		return &tokenVerifyError{message: err.Error()}
	}
	return nil
}

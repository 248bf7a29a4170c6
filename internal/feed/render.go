// Package feed turns the game event feed into something people can read:
// console log lines, Discord channel messages, or an in-memory record.
package feed

import (
	"fmt"
	"strings"

	"github.com/nicholasngai/chairs/internal/game"
)

const rule = "------------------------------------------"

// Render formats an event as human readable text. Unknown events render as
// the empty string.
func Render(e game.Event) string {
	switch e := e.(type) {
	case game.GameStarted:
		return fmt.Sprintf("Welcome to musical chairs! %d players and %d chairs.", e.Players, e.Seats)
	case game.RoundStarted:
		return fmt.Sprintf("Round %d: %d players and %d chairs. The music is playing...",
			e.Round, e.Players, e.Seats)
	case game.ActorSeated:
		return fmt.Sprintf("Player %d got chair %d!", int(e.ID), e.Seat)
	case game.ActorEliminated:
		return fmt.Sprintf("Player %d could not find a chair and is out!", int(e.ID))
	case game.RoundEnded:
		var b strings.Builder
		b.WriteString(rule)
		for i, id := range e.Occupants {
			fmt.Fprintf(&b, "\n[Chair %d]: taken by %v", i+1, id)
		}
		b.WriteString("\n" + rule)
		return b.String()
	case game.GameWon:
		return fmt.Sprintf("Winner: player %d after %d rounds! Congratulations!", int(e.ID), e.Rounds)
	case game.GameFailed:
		return fmt.Sprintf("The game was aborted in round %d: %v", e.Round, e.Err)
	default:
		return ""
	}
}

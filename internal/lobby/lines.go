package lobby

import (
	"fmt"

	"github.com/DoyleJ11/wordduel-backend/internal/engine"
)

// describe renders the game-event log line for ev, if it has one.
func describe(ev engine.Event, rules engine.Rules) (string, bool) {
	switch ev.Type {
	case engine.EvtPlayerJoinedTeam:
		return fmt.Sprintf("%s joined team %d.", ev.Name, ev.Team), true
	case engine.EvtCorrectGuess:
		return fmt.Sprintf("Team %d: %s correct guess %q +%d", ev.Team, ev.Name, ev.Letter, ev.Revealed), true
	case engine.EvtIncorrectGuess:
		return fmt.Sprintf("Team %d: %s incorrect guess %q -1", ev.Team, ev.Name, ev.Letter), true
	case engine.EvtInvalidGuess:
		// Only attributed under the active-team policy
		if ev.Name == "" {
			return "", false
		}
		return fmt.Sprintf("Team %d: %s invalid guess -1", ev.Team, ev.Name), true
	case engine.EvtTurnTimedOut:
		return "Team timeout. Next turn.", true
	case engine.EvtTurnAdvanced:
		return fmt.Sprintf("Team %d's turn.", ev.Team), true
	case engine.EvtRoundCompleted:
		return fmt.Sprintf("Round over. Team %d wins! Next round will begin in %d seconds.", ev.Team, int(rules.RestartDelay.Seconds())), true
	default:
		return "", false
	}
}

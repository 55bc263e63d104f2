package engine

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidName = errors.New("name must be between 1 and 25 characters")
var ErrInvalidTeam = errors.New("invalid team ID")
var ErrPlayerNotRegistered = errors.New("player not registered")
var ErrAlreadyOnTeam = errors.New("already joined a team")
var ErrNotOnTeam = errors.New("you must join a team before guessing")
var ErrInvalidGuess = errors.New("invalid letter")
var ErrUnsupportedCommand = errors.New("unsupported command")

// InvalidGuessPolicy decides who is penalized for a malformed guess.
type InvalidGuessPolicy string

const (
	// PenalizeAny rotates the turn whoever sent the malformed guess.
	PenalizeAny InvalidGuessPolicy = "any"
	// PenalizeActiveTeam only rotates when a player on the active team sent it,
	// and scores it as a miss.
	PenalizeActiveTeam InvalidGuessPolicy = "active-team"
)

type State struct {
	Board       Board
	CurrentTeam TeamID
	RoundOver   bool
	GamesWon    map[TeamID]int
	Scores      Scores
	Registry    Registry
	Rules       Rules
}

type Rules struct {
	TurnTimeout        time.Duration
	RestartDelay       time.Duration
	InvalidGuessPolicy InvalidGuessPolicy
}

type CommandType string

const (
	CmdSetName        CommandType = "SetName"
	CmdJoinTeam       CommandType = "JoinTeam"
	CmdGuessLetter    CommandType = "GuessLetter"
	CmdLeave          CommandType = "Leave"
	CmdTimeoutAdvance CommandType = "TimeoutAdvance"
	CmdStartRound     CommandType = "StartRound"
)

/*
	CmdSetName        -> EvtPlayerRegistered
	CmdJoinTeam       -> EvtPlayerJoinedTeam
	CmdGuessLetter    -> EvtLetterEchoed -> EvtCorrectGuess|EvtIncorrectGuess -> EvtTurnAdvanced or EvtRoundCompleted
	                  -> EvtInvalidGuess -> EvtTurnAdvanced (malformed letter, returned with ErrInvalidGuess)
	CmdLeave          -> EvtPlayerLeft
	CmdTimeoutAdvance -> EvtTurnTimedOut -> EvtTurnAdvanced
	CmdStartRound     -> EvtRoundStarted -> EvtTurnAdvanced
*/

type Command struct {
	Type      CommandType
	SessionID string
	Name      string
	Team      TeamID
	Letter    string
	Word      string
}

type EventType string

const (
	EvtPlayerRegistered EventType = "PlayerRegistered"
	EvtPlayerJoinedTeam EventType = "PlayerJoinedTeam"
	EvtPlayerLeft       EventType = "PlayerLeft"
	EvtLetterEchoed     EventType = "LetterEchoed"
	EvtCorrectGuess     EventType = "CorrectGuess"
	EvtIncorrectGuess   EventType = "IncorrectGuess"
	EvtInvalidGuess     EventType = "InvalidGuess"
	EvtTurnTimedOut     EventType = "TurnTimedOut"
	EvtTurnAdvanced     EventType = "TurnAdvanced"
	EvtRoundCompleted   EventType = "RoundCompleted"
	EvtRoundStarted     EventType = "RoundStarted"
)

type Event struct {
	Type      EventType
	Team      TeamID
	SessionID string
	Name      string
	Letter    string
	Revealed  int
	Delta     int
}

// Apply validates cmd against s and returns the resulting events and state.
// It never mutates s. On rejection the returned state is s, except for
// ErrInvalidGuess which still carries the penalty rotation.
func Apply(s State, cmd Command) ([]Event, State, error) {
	next := s.Clone()

	switch cmd.Type {
	case CmdSetName:
		if err := next.Registry.Register(cmd.SessionID, cmd.Name); err != nil {
			return nil, s, err
		}
		return []Event{{Type: EvtPlayerRegistered, SessionID: cmd.SessionID, Name: cmd.Name}}, next, nil

	case CmdJoinTeam:
		if err := next.Registry.AssignTeam(cmd.SessionID, cmd.Team); err != nil {
			return nil, s, err
		}
		p, _ := next.Registry.Player(cmd.SessionID)
		return []Event{{Type: EvtPlayerJoinedTeam, SessionID: cmd.SessionID, Name: p.Name, Team: p.Team}}, next, nil

	case CmdLeave:
		p, ok := next.Registry.Remove(cmd.SessionID)
		if !ok {
			return nil, s, nil
		}
		return []Event{{Type: EvtPlayerLeft, SessionID: cmd.SessionID, Name: p.Name, Team: p.Team}}, next, nil

	case CmdGuessLetter:
		return guess(s, next, cmd)

	case CmdTimeoutAdvance:
		// No turn is active between rounds
		if s.RoundOver {
			return nil, s, nil
		}
		events := []Event{{Type: EvtTurnTimedOut, Team: next.CurrentTeam}}
		events = append(events, next.advanceTurn())
		return events, next, nil

	case CmdStartRound:
		if !s.RoundOver {
			return nil, s, nil
		}
		return next.startRound(cmd.Word), next, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

func guess(s, next State, cmd Command) ([]Event, State, error) {
	letter, ok := NormalizeGuess(cmd.Letter)
	if !ok {
		return invalidGuess(s, next, cmd)
	}

	p, ok := next.Registry.Player(cmd.SessionID)
	if !ok {
		return nil, s, fmt.Errorf("set your name before guessing: %w", ErrPlayerNotRegistered)
	}
	if p.Team == NoTeam {
		return nil, s, ErrNotOnTeam
	}
	// Guesses out of turn are dropped without a reply
	if s.RoundOver || p.Team != s.CurrentTeam {
		return nil, s, nil
	}

	team := p.Team
	echo := Event{Type: EvtLetterEchoed, SessionID: cmd.SessionID, Team: team, Letter: string(letter)}
	events := []Event{echo}

	if n := next.Board.Reveal(letter); n > 0 {
		gain := next.Scores.Hit(team, n)
		events = append(events, Event{
			Type: EvtCorrectGuess, Team: team, SessionID: cmd.SessionID, Name: p.Name,
			Letter: string(letter), Revealed: n, Delta: gain,
		})
	} else {
		next.Scores.Miss(team)
		events = append(events, Event{
			Type: EvtIncorrectGuess, Team: team, SessionID: cmd.SessionID, Name: p.Name,
			Letter: string(letter), Delta: -1,
		})
	}

	if next.Board.Complete() {
		events = append(events, next.completeRound())
		return events, next, nil
	}
	events = append(events, next.advanceTurn())
	return events, next, nil
}

func invalidGuess(s, next State, cmd Command) ([]Event, State, error) {
	if s.RoundOver {
		return nil, s, ErrInvalidGuess
	}

	ev := Event{Type: EvtInvalidGuess, SessionID: cmd.SessionID}
	if s.Rules.InvalidGuessPolicy == PenalizeActiveTeam {
		p, ok := next.Registry.Player(cmd.SessionID)
		if !ok || p.Team != s.CurrentTeam {
			return nil, s, ErrInvalidGuess
		}
		next.Scores.Miss(p.Team)
		ev.Team, ev.Name, ev.Delta = p.Team, p.Name, -1
	}

	events := []Event{ev, next.advanceTurn()}
	return events, next, fmt.Errorf("%w: your team loses a turn", ErrInvalidGuess)
}

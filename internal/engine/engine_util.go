package engine

import (
	"maps"
	"time"

	"github.com/DoyleJ11/wordduel-backend/pkg/types"
)

func DefaultRules() Rules {
	return Rules{
		TurnTimeout:        30 * time.Second,
		RestartDelay:       10 * time.Second,
		InvalidGuessPolicy: PenalizeAny,
	}
}

// NewState starts the first round on word with team 1 to play.
func NewState(word string, rules Rules) State {
	s := State{
		Board:       NewBoard(word),
		CurrentTeam: Team1,
		GamesWon:    map[TeamID]int{},
		Scores:      NewScores(),
		Registry:    NewRegistry(),
		Rules:       rules,
	}
	for _, t := range Teams {
		s.GamesWon[t] = 0
	}
	return s
}

func (s State) Clone() State {
	c := s
	c.Board = s.Board.Clone()
	c.GamesWon = maps.Clone(s.GamesWon)
	if c.GamesWon == nil {
		c.GamesWon = map[TeamID]int{}
	}
	c.Scores = s.Scores.Clone()
	c.Registry = s.Registry.Clone()
	return c
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

// StateChanged reports whether any event altered what clients can see.
// A bare echo or a rejected malformed guess does not.
func StateChanged(events []Event) bool {
	for _, event := range events {
		switch event.Type {
		case EvtLetterEchoed, EvtInvalidGuess:
			continue
		default:
			return true
		}
	}
	return false
}

// Snapshot renders the public view of s. The secret word is not part of it.
func (s State) Snapshot() types.Snapshot {
	snap := types.Snapshot{
		GuessedLetters:  s.Board.Cells(),
		CurrentTeam:     int(s.CurrentTeam),
		Players:         make(map[string]types.PlayerView, len(s.Registry.Players)),
		Teams:           make(map[int]map[string]types.PlayerView, len(Teams)),
		Score:           make(map[int]int, len(Teams)),
		MultiplierScore: make(map[int]int, len(Teams)),
		RoundOver:       s.RoundOver,
		GamesWon:        make(map[int]int, len(Teams)),
	}
	for id, p := range s.Registry.Players {
		snap.Players[id] = types.PlayerView{Name: p.Name, TeamID: int(p.Team)}
	}
	for _, t := range Teams {
		roster := make(map[string]types.PlayerView)
		for _, id := range s.Registry.Roster(t) {
			roster[id] = snap.Players[id]
		}
		snap.Teams[int(t)] = roster
		snap.Score[int(t)] = s.Scores.Score[t]
		snap.MultiplierScore[int(t)] = s.Scores.Multiplier[t]
		snap.GamesWon[int(t)] = s.GamesWon[t]
	}
	return snap
}

package engine

// TeamID identifies one of the two fixed teams. NoTeam marks a player who
// has not joined yet.
type TeamID int

const (
	NoTeam TeamID = 0
	Team1  TeamID = 1
	Team2  TeamID = 2
)

var Teams = []TeamID{Team1, Team2}

func (t TeamID) Valid() bool {
	return t == Team1 || t == Team2
}

// Other returns the team that plays after t.
func (t TeamID) Other() TeamID {
	if t == Team1 {
		return Team2
	}
	return Team1
}

func (s *State) advanceTurn() Event {
	s.CurrentTeam = s.CurrentTeam.Other()
	return Event{Type: EvtTurnAdvanced, Team: s.CurrentTeam}
}

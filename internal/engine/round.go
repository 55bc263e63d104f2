package engine

// completeRound credits the team on turn and zeroes every score. The turn
// stays with the winner until the next round starts.
func (s *State) completeRound() Event {
	winner := s.CurrentTeam
	s.GamesWon[winner]++
	s.Scores.Reset()
	s.RoundOver = true
	return Event{Type: EvtRoundCompleted, Team: winner}
}

func (s *State) startRound(word string) []Event {
	s.Board = NewBoard(word)
	s.RoundOver = false
	return []Event{
		{Type: EvtRoundStarted},
		s.advanceTurn(),
	}
}

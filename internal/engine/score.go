package engine

// Scores holds score and momentum multiplier per team. Both survive turn
// changes and are only cleared when a round completes.
type Scores struct {
	Score      map[TeamID]int
	Multiplier map[TeamID]int
}

func NewScores() Scores {
	s := Scores{Score: map[TeamID]int{}, Multiplier: map[TeamID]int{}}
	s.Reset()
	return s
}

// Hit bumps the team's multiplier first, then adds revealed*multiplier to
// its score. It returns the points gained.
func (s *Scores) Hit(team TeamID, revealed int) int {
	s.Multiplier[team]++
	gain := revealed * s.Multiplier[team]
	s.Score[team] += gain
	return gain
}

func (s *Scores) Miss(team TeamID) {
	s.Multiplier[team] = 0
	s.Score[team]--
}

func (s *Scores) Reset() {
	for _, t := range Teams {
		s.Score[t] = 0
		s.Multiplier[t] = 0
	}
}

func (s Scores) Clone() Scores {
	c := Scores{
		Score:      make(map[TeamID]int, len(s.Score)),
		Multiplier: make(map[TeamID]int, len(s.Multiplier)),
	}
	for t, v := range s.Score {
		c.Score[t] = v
	}
	for t, v := range s.Multiplier {
		c.Multiplier[t] = v
	}
	return c
}

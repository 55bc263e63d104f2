package types

// Snapshot:
//   guessedLetters: string[]               one entry per letter, "_" until revealed
//   currentTeam: 1 | 2
//   players: { [sessionId]: Player }
//   teams: { "1": { [sessionId]: Player }, "2": {...} }
//   score: { "1": number, "2": number }
//   multiplierScore: { "1": number, "2": number }
//   roundOver: boolean
//   gamesWon: { "1": number, "2": number }

type PlayerView struct {
	Name   string `json:"name"`
	TeamID int    `json:"teamId,omitempty"`
}

type Snapshot struct {
	GuessedLetters  []string                      `json:"guessedLetters"`
	CurrentTeam     int                           `json:"currentTeam"`
	Players         map[string]PlayerView         `json:"players"`
	Teams           map[int]map[string]PlayerView `json:"teams"`
	Score           map[int]int                   `json:"score"`
	MultiplierScore map[int]int                   `json:"multiplierScore"`
	RoundOver       bool                          `json:"roundOver"`
	GamesWon        map[int]int                   `json:"gamesWon"`
}

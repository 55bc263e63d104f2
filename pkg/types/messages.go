package types

// Client -> Server
// set-name:
//   name: string (1-25 characters)
//
// join-team:
//   teamId: 1 | 2 | "1" | "2"
//
// guess-letter:
//   letter: string (one letter or digit)
//
// game-state: {} (answered with a game-state frame to the requester only)

// Server -> Client
// game-state:  state: Snapshot          (broadcast, or reply to game-state)
// game-error:  message: string          (requester only)
// game-event:  message: string          (broadcast, human readable log line)
// letter:      letter: string           (guesser only, upper-cased guess)

const (
	IntentSetName     = "set-name"
	IntentJoinTeam    = "join-team"
	IntentGuessLetter = "guess-letter"
	IntentGameState   = "game-state"
)

const (
	EventGameState = "game-state"
	EventGameError = "game-error"
	EventGameEvent = "game-event"
	EventLetter    = "letter"
)

type ServerMessage struct {
	Type    string    `json:"type"`
	Version int       `json:"version,omitempty"`
	State   *Snapshot `json:"state,omitempty"`
	Message string    `json:"message,omitempty"`
	Letter  string    `json:"letter,omitempty"`
}

func StateMessage(version int, snap Snapshot) ServerMessage {
	return ServerMessage{Type: EventGameState, Version: version, State: &snap}
}

func ErrorMessage(text string) ServerMessage {
	return ServerMessage{Type: EventGameError, Message: text}
}

func EventMessage(line string) ServerMessage {
	return ServerMessage{Type: EventGameEvent, Message: line}
}

func LetterMessage(letter string) ServerMessage {
	return ServerMessage{Type: EventLetter, Letter: letter}
}

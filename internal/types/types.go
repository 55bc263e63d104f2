package types

import "encoding/json"

// ClientMessage is one inbound websocket frame. Payload fields stay raw so a
// value of the wrong JSON type can be told apart from a missing one.
type ClientMessage struct {
	Type   string          `json:"type"`
	Name   json.RawMessage `json:"name,omitempty"`
	TeamID json.RawMessage `json:"teamId,omitempty"`
	Letter json.RawMessage `json:"letter,omitempty"`
}

// Text decodes a string field. present is false when the field was absent
// or null; a non-string value decodes to "".
func Text(raw json.RawMessage) (value string, present bool) {
	if absent(raw) {
		return "", false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", true
	}
	return value, true
}

// TeamNumber accepts 1, 2, "1" or "2" and yields 0 for anything else.
func TeamNumber(raw json.RawMessage) (team int, present bool) {
	if absent(raw) {
		return 0, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch s {
		case "1":
			return 1, true
		case "2":
			return 2, true
		}
		return 0, true
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, true
	}
	switch n.String() {
	case "1", "2":
		v, _ := n.Int64()
		return int(v), true
	}
	return 0, true
}

func absent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

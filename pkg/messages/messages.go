package messages

import (
	"encoding/json"
	"fmt"
)

// Message types
const (
	MessageTypeClientJoin  = "join"
	MessageTypeClientGuess = "guess"
	MessageTypeServerState = "state"
)

// Message is the envelope of every frame on the channel.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ClientJoin asks the server to add a player to the lobby.
type ClientJoin struct {
	Name string `json:"name"`
}

// ClientGuess submits or overwrites a player's guess for the current question.
type ClientGuess struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewMessage marshals payload into a message of the given type.
func NewMessage(msgType string, payload interface{}) (*Message, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %v", msgType, err)
	}
	return &Message{
		Type:    msgType,
		Payload: b,
	}, nil
}

// ErrUnknownPhase is returned when a state payload carries a phase tag this client does not know.
type ErrUnknownPhase struct {
	Type string
}

func (e *ErrUnknownPhase) Error() string {
	return fmt.Sprintf("unknown phase type: %q", e.Type)
}

func IsUnknownPhase(err error) bool {
	_, ok := err.(*ErrUnknownPhase)
	return ok
}

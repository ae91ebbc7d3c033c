package messages

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cbodonnell/geoquiz/pkg/game/types"
	"github.com/klauspost/compress/zstd"
)

func SerializeMessage(m *Message) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message: %v", err)
	}
	return b, nil
}

func DeserializeMessage(data []byte) (*Message, error) {
	message := &Message{}
	if err := json.Unmarshal(data, message); err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}
	if message.Type == "" {
		return nil, fmt.Errorf("message has no type")
	}
	return message, nil
}

// Compress zstd-compresses a serialized frame.
func Compress(b []byte) ([]byte, error) {
	compressed := bytes.NewBuffer(nil)
	compWriter, err := zstd.NewWriter(compressed, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %v", err)
	}
	if _, err := compWriter.Write(b); err != nil {
		return nil, fmt.Errorf("failed to compress message: %v", err)
	}
	if err := compWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zstd writer: %v", err)
	}

	return compressed.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	compReader, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %v", err)
	}
	defer compReader.Close()

	b, err := io.ReadAll(compReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read decompressed message: %v", err)
	}
	return b, nil
}

type serverState struct {
	Phase             json.RawMessage `json:"phase"`
	UpcomingQuestions int             `json:"upcoming_questions"`
}

type phaseHeader struct {
	Type string `json:"type"`
}

type lobbyPhase struct {
	Type   string   `json:"type"`
	Joined []string `json:"joined"`
}

type questionPayload struct {
	ImagePath string   `json:"image_path"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type guessPayload struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type questionPhase struct {
	Type     string                  `json:"type"`
	Question questionPayload         `json:"question"`
	Guesses  map[string]guessPayload `json:"guesses"`
	Revealed bool                    `json:"revealed"`
	Scores   map[string]float64      `json:"scores"`
}

type endPhase struct {
	Type   string             `json:"type"`
	Scores map[string]float64 `json:"scores"`
}

// DeserializeServerState decodes a state payload into a snapshot.
// Question coordinates are dropped unless the round is revealed.
func DeserializeServerState(b []byte) (*types.Snapshot, error) {
	state := &serverState{}
	if err := json.Unmarshal(b, state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %v", err)
	}
	if state.UpcomingQuestions < 0 {
		return nil, fmt.Errorf("invalid upcoming question count: %d", state.UpcomingQuestions)
	}
	if len(state.Phase) == 0 || string(state.Phase) == "null" {
		return nil, fmt.Errorf("state has no phase")
	}

	header := &phaseHeader{}
	if err := json.Unmarshal(state.Phase, header); err != nil {
		return nil, fmt.Errorf("failed to unmarshal phase header: %v", err)
	}

	var phase types.Phase
	switch header.Type {
	case types.PhaseLobby.String():
		lobby := &lobbyPhase{}
		if err := json.Unmarshal(state.Phase, lobby); err != nil {
			return nil, fmt.Errorf("failed to unmarshal lobby phase: %v", err)
		}
		phase = types.NewLobby(lobby.Joined...)
	case types.PhaseQuestion.String():
		question := &questionPhase{}
		if err := json.Unmarshal(state.Phase, question); err != nil {
			return nil, fmt.Errorf("failed to unmarshal question phase: %v", err)
		}
		guesses := make(map[string]types.Guess, len(question.Guesses))
		for name, g := range question.Guesses {
			guesses[name] = types.Guess{Lat: g.Lat, Lon: g.Lon}
		}
		phase = types.NewQuestionRound(types.Question{
			ImagePath: question.Question.ImagePath,
			Latitude:  question.Question.Latitude,
			Longitude: question.Question.Longitude,
		}, types.Scores(question.Scores), guesses, question.Revealed)
	case types.PhaseEnd.String():
		end := &endPhase{}
		if err := json.Unmarshal(state.Phase, end); err != nil {
			return nil, fmt.Errorf("failed to unmarshal end phase: %v", err)
		}
		scores := types.Scores(end.Scores)
		if scores == nil {
			scores = types.Scores{}
		}
		phase = &types.End{Scores: scores}
	default:
		return nil, &ErrUnknownPhase{Type: header.Type}
	}

	return &types.Snapshot{
		Phase:             phase,
		UpcomingQuestions: state.UpcomingQuestions,
	}, nil
}

// phaseEncoder turns a phase into its wire form.
type phaseEncoder struct {
	out interface{}
}

func (e *phaseEncoder) VisitLobby(p *types.Lobby) {
	joined := p.Joined
	if joined == nil {
		joined = []string{}
	}
	e.out = &lobbyPhase{Type: p.Kind().String(), Joined: joined}
}

func (e *phaseEncoder) VisitQuestion(p *types.QuestionRound) {
	guesses := make(map[string]guessPayload, len(p.Guesses))
	for name, g := range p.Guesses {
		guesses[name] = guessPayload{Lat: g.Lat, Lon: g.Lon}
	}
	scores := map[string]float64(p.Scores)
	if scores == nil {
		scores = map[string]float64{}
	}
	e.out = &questionPhase{
		Type: p.Kind().String(),
		Question: questionPayload{
			ImagePath: p.Question.ImagePath,
			Latitude:  p.Question.Latitude,
			Longitude: p.Question.Longitude,
		},
		Guesses:  guesses,
		Revealed: p.Revealed,
		Scores:   scores,
	}
}

func (e *phaseEncoder) VisitEnd(p *types.End) {
	scores := map[string]float64(p.Scores)
	if scores == nil {
		scores = map[string]float64{}
	}
	e.out = &endPhase{Type: p.Kind().String(), Scores: scores}
}

// SerializeServerState encodes a snapshot in the server's state format.
func SerializeServerState(s *types.Snapshot) ([]byte, error) {
	if s == nil || s.Phase == nil {
		return nil, fmt.Errorf("snapshot has no phase")
	}
	enc := &phaseEncoder{}
	s.Phase.Accept(enc)

	phase, err := json.Marshal(enc.out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal phase: %v", err)
	}
	b, err := json.Marshal(&serverState{
		Phase:             phase,
		UpcomingQuestions: s.UpcomingQuestions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %v", err)
	}
	return b, nil
}

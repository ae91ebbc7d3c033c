package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type kindRecorder struct {
	visited []PhaseKind
}

func (k *kindRecorder) VisitLobby(p *Lobby)            { k.visited = append(k.visited, p.Kind()) }
func (k *kindRecorder) VisitQuestion(p *QuestionRound) { k.visited = append(k.visited, p.Kind()) }
func (k *kindRecorder) VisitEnd(p *End)                { k.visited = append(k.visited, p.Kind()) }

func TestPhaseAcceptDispatches(t *testing.T) {
	rec := &kindRecorder{}
	phases := []Phase{
		NewLobby("Bob"),
		NewQuestionRound(Question{ImagePath: "q1.jpg"}, nil, nil, false),
		&End{Scores: Scores{"Bob": 1}},
	}
	for _, p := range phases {
		p.Accept(rec)
	}
	assert.Equal(t, []PhaseKind{PhaseLobby, PhaseQuestion, PhaseEnd}, rec.visited)
	assert.Equal(t, "question", PhaseQuestion.String())
}

func TestNewLobbyDeduplicatesAndSorts(t *testing.T) {
	l := NewLobby("Carol", "Alice", "Bob", "Alice")
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, l.Joined)
	assert.True(t, l.Has("Bob"))
	assert.False(t, l.Has("Dave"))
}

func TestQuestionRoundNormalize(t *testing.T) {
	tests := []struct {
		name       string
		question   Question
		revealed   bool
		wantAnswer bool
	}{
		{
			name:       "hidden coordinates are dropped before reveal",
			question:   Question{ImagePath: "q1.jpg", Latitude: Coord(48.8), Longitude: Coord(2.3)},
			revealed:   false,
			wantAnswer: false,
		},
		{
			name:       "revealed with both coordinates",
			question:   Question{ImagePath: "q1.jpg", Latitude: Coord(48.8), Longitude: Coord(2.3)},
			revealed:   true,
			wantAnswer: true,
		},
		{
			name:       "revealed with a missing longitude has no answer",
			question:   Question{ImagePath: "q1.jpg", Latitude: Coord(48.8)},
			revealed:   true,
			wantAnswer: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewQuestionRound(tt.question, nil, nil, tt.revealed)
			_, ok := r.Question.Answer()
			assert.Equal(t, tt.wantAnswer, ok)
			if !tt.wantAnswer {
				assert.Nil(t, r.Question.Latitude)
				assert.Nil(t, r.Question.Longitude)
			}
			assert.NotNil(t, r.Scores)
			assert.NotNil(t, r.Guesses)
		})
	}
}

func TestSortedNames(t *testing.T) {
	r := NewQuestionRound(Question{ImagePath: "q"}, Scores{"b": 1, "a": 2}, map[string]Guess{"z": {}, "y": {}}, false)
	assert.Equal(t, []string{"a", "b"}, r.Scores.Names())
	assert.Equal(t, []string{"y", "z"}, r.GuessNames())
}

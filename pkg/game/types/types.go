package types

import "sort"

// PhaseKind is the tag of a Phase.
type PhaseKind int

const (
	PhaseLobby PhaseKind = iota
	PhaseQuestion
	PhaseEnd
)

func (k PhaseKind) String() string {
	switch k {
	case PhaseLobby:
		return "lobby"
	case PhaseQuestion:
		return "question"
	case PhaseEnd:
		return "end"
	}
	return "unknown"
}

// Phase is the closed set of game stages carried by a Snapshot.
// The only implementations are *Lobby, *QuestionRound and *End.
type Phase interface {
	Kind() PhaseKind
	// Accept calls the visitor method matching the concrete phase.
	Accept(v PhaseVisitor)
}

// PhaseVisitor must handle every phase. Adding a phase adds a method here,
// so every visitor stops compiling until it handles the new case.
type PhaseVisitor interface {
	VisitLobby(p *Lobby)
	VisitQuestion(p *QuestionRound)
	VisitEnd(p *End)
}

// Scores maps player names to cumulative scores computed by the server.
type Scores map[string]float64

// Names returns the player names in lexical order.
func (s Scores) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Guess is a single player's submitted location.
type Guess struct {
	Lat float64
	Lon float64
}

// Lobby is the waiting room before the first question.
type Lobby struct {
	// Joined is kept sorted and free of duplicates.
	Joined []string
}

// NewLobby returns a lobby with the given names de-duplicated and sorted.
func NewLobby(names ...string) *Lobby {
	seen := make(map[string]struct{}, len(names))
	joined := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		joined = append(joined, name)
	}
	sort.Strings(joined)
	return &Lobby{Joined: joined}
}

func (l *Lobby) Kind() PhaseKind { return PhaseLobby }

func (l *Lobby) Accept(v PhaseVisitor) { v.VisitLobby(l) }

// Has reports whether name has joined.
func (l *Lobby) Has(name string) bool {
	i := sort.SearchStrings(l.Joined, name)
	return i < len(l.Joined) && l.Joined[i] == name
}

// Question is the prompt of a round. Latitude and Longitude are only set
// once the round is revealed.
type Question struct {
	ImagePath string
	Latitude  *float64
	Longitude *float64
}

// Answer returns the revealed location, if both coordinates are known.
func (q Question) Answer() (Guess, bool) {
	if q.Latitude == nil || q.Longitude == nil {
		return Guess{}, false
	}
	return Guess{Lat: *q.Latitude, Lon: *q.Longitude}, true
}

// QuestionRound is a single question being guessed or revealed.
type QuestionRound struct {
	Question Question
	Scores   Scores
	Guesses  map[string]Guess
	Revealed bool
}

// NewQuestionRound builds a round and applies Normalize.
func NewQuestionRound(question Question, scores Scores, guesses map[string]Guess, revealed bool) *QuestionRound {
	r := &QuestionRound{
		Question: question,
		Scores:   scores,
		Guesses:  guesses,
		Revealed: revealed,
	}
	r.Normalize()
	return r
}

func (r *QuestionRound) Kind() PhaseKind { return PhaseQuestion }

func (r *QuestionRound) Accept(v PhaseVisitor) { v.VisitQuestion(r) }

// Normalize enforces that coordinates exist only on a revealed round and
// only as a complete pair. Nil maps are replaced with empty ones.
func (r *QuestionRound) Normalize() {
	if !r.Revealed || r.Question.Latitude == nil || r.Question.Longitude == nil {
		r.Question.Latitude = nil
		r.Question.Longitude = nil
	}
	if r.Scores == nil {
		r.Scores = Scores{}
	}
	if r.Guesses == nil {
		r.Guesses = map[string]Guess{}
	}
}

// GuessOf returns the guess recorded for name, if any.
func (r *QuestionRound) GuessOf(name string) (Guess, bool) {
	g, ok := r.Guesses[name]
	return g, ok
}

// GuessNames returns the names that have a guess, in lexical order.
func (r *QuestionRound) GuessNames() []string {
	names := make([]string, 0, len(r.Guesses))
	for name := range r.Guesses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// End is the final stage showing the final scores.
type End struct {
	Scores Scores
}

func (e *End) Kind() PhaseKind { return PhaseEnd }

func (e *End) Accept(v PhaseVisitor) { v.VisitEnd(e) }

// Snapshot is the complete authoritative game state. Every snapshot replaces
// the previous one; there are no partial updates.
type Snapshot struct {
	Phase             Phase
	UpcomingQuestions int
}

// Coord returns a pointer to v, for building revealed questions.
func Coord(v float64) *float64 {
	return &v
}

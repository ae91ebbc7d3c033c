// Package state holds the latest authoritative snapshot and classifies each
// arrival against the previous one.
package state

import (
	"github.com/cbodonnell/geoquiz/pkg/game/types"
	"github.com/cbodonnell/geoquiz/pkg/log"
)

// TransitionKind describes how a new snapshot relates to the previous one.
type TransitionKind int

const (
	// SameQuestion covers re-sent snapshots, the reveal of the current
	// question, and lobby or end updates.
	SameQuestion TransitionKind = iota
	// NewQuestion is a different question, or the same image asked again.
	NewQuestion
	// PhaseChanged is the first snapshot or a change of phase tag.
	PhaseChanged
)

func (k TransitionKind) String() string {
	switch k {
	case SameQuestion:
		return "SameQuestion"
	case NewQuestion:
		return "NewQuestion"
	case PhaseChanged:
		return "PhaseChanged"
	}
	return "Unknown"
}

// ResetsRound reports whether per-round client state must be discarded.
func (k TransitionKind) ResetsRound() bool {
	return k == NewQuestion || k == PhaseChanged
}

// questionKey identifies the question last seen.
type questionKey struct {
	imagePath string
	revealed  bool
}

// Store owns the current snapshot. It is not safe for concurrent use; only
// the update loop touches it.
type Store struct {
	current  *types.Snapshot
	question *questionKey
	version  uint64
}

func NewStore() *Store {
	return &Store{}
}

// Apply replaces the current snapshot with s and returns the transition.
func (s *Store) Apply(snapshot *types.Snapshot) TransitionKind {
	previous := s.current
	kind := classify(previous, s.question, snapshot)

	s.current = snapshot
	s.version++
	if round, ok := snapshot.Phase.(*types.QuestionRound); ok {
		s.question = &questionKey{imagePath: round.Question.ImagePath, revealed: round.Revealed}
	} else {
		s.question = nil
	}

	log.Debug("Applied snapshot %d (%s): %s", s.version, snapshot.Phase.Kind(), kind)
	return kind
}

func classify(previous *types.Snapshot, last *questionKey, next *types.Snapshot) TransitionKind {
	if previous == nil || previous.Phase.Kind() != next.Phase.Kind() {
		return PhaseChanged
	}
	round, ok := next.Phase.(*types.QuestionRound)
	if !ok || last == nil {
		return SameQuestion
	}
	if round.Question.ImagePath != last.imagePath {
		return NewQuestion
	}
	if last.revealed && !round.Revealed {
		return NewQuestion
	}
	return SameQuestion
}

// Current returns the latest snapshot, or nil before the first arrival.
// Callers must not modify it.
func (s *Store) Current() *types.Snapshot {
	return s.current
}

// Version is the number of snapshots applied so far.
func (s *Store) Version() uint64 {
	return s.version
}

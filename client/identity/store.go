package identity

import (
	"context"
	"fmt"

	"github.com/cbodonnell/geoquiz/pkg/log"
	"github.com/cbodonnell/geoquiz/pkg/repositories"
)

// StorageKey is the single durable key holding the raw identity string.
const StorageKey = "geoquiz.name"

// Store persists the player's identity in a repository.
type Store struct {
	repository repositories.Repository
}

func NewStore(repository repositories.Repository) *Store {
	return &Store{
		repository: repository,
	}
}

// Load returns the stored identity. A missing or no longer valid value
// is reported as absent rather than as an error.
func (s *Store) Load(ctx context.Context) (Identity, bool, error) {
	raw, err := s.repository.Get(ctx, StorageKey)
	if err != nil {
		if repositories.IsNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to load identity: %v", err)
	}

	id, err := Validate(raw)
	if err != nil {
		log.Warn("Ignoring stored identity %q: %v", raw, err)
		return "", false, nil
	}
	return id, true, nil
}

func (s *Store) Persist(ctx context.Context, id Identity) error {
	if id.IsZero() {
		return fmt.Errorf("cannot persist an empty identity")
	}
	if err := s.repository.Set(ctx, StorageKey, id.String()); err != nil {
		return fmt.Errorf("failed to persist identity: %v", err)
	}
	return nil
}

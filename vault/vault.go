package vault

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store keeps records in memory, keyed by a generated id. It is not safe
// for concurrent use; a host sharing one Store across sessions must
// serialize access itself.
type Store struct {
	records map[string]Record
	order   []string
	newID   func() string
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		records: make(map[string]Record),
		newID:   func() string { return uuid.New().String() },
		now:     time.Now,
	}
}

// Put inserts a record and returns its id. Existing ids are never
// overwritten.
func (s *Store) Put(ciphertext, passkeyDigest string) (string, error) {
	if ciphertext == "" || passkeyDigest == "" {
		return "", fmt.Errorf("%w: empty ciphertext or digest", ErrValidation)
	}

	id := s.newID()
	for {
		if _, taken := s.records[id]; !taken {
			break
		}
		id = s.newID()
	}

	s.records[id] = Record{
		ID:            id,
		Ciphertext:    ciphertext,
		PasskeyDigest: passkeyDigest,
		CreatedAt:     s.now(),
	}
	s.order = append(s.order, id)
	return id, nil
}

func (s *Store) Get(id string) (Record, error) {
	r, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return r, nil
}

func (s *Store) Len() int { return len(s.records) }

// IDs lists record ids in insertion order.
func (s *Store) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

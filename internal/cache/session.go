package cache

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/priya/course-platform/internal/domain"
)

// SessionStore keeps a JSON snapshot of each logged-in user keyed by id.
// The snapshot includes the password hash: it is a server-side mirror of the
// identity record, never a public view. Deleting the entry is the only
// server-side revocation mechanism; access tokens themselves are stateless.
type SessionStore struct {
	store Store
}

func NewSessionStore(store Store) *SessionStore {
	return &SessionStore{store: store}
}

// sessionEntry carries the fields the public user JSON drops. The hash is
// tagged json:"-" on domain.User, so the snapshot stores it alongside.
type sessionEntry struct {
	domain.User
	PasswordHash string `json:"passwordHash"`
}

// Get returns the cached user snapshot, or ErrCacheMiss.
func (s *SessionStore) Get(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	raw, err := s.store.Get(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	var entry sessionEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, err
	}
	user := entry.User
	user.PasswordHash = entry.PasswordHash
	return &user, nil
}

// Set overwrites the snapshot for the user. Last writer wins; concurrent
// flows touching the same user do not coordinate.
func (s *SessionStore) Set(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(sessionEntry{User: *user, PasswordHash: user.PasswordHash})
	if err != nil {
		return err
	}
	return s.store.Set(ctx, user.ID.String(), string(raw))
}

// Delete removes the snapshot. Deleting an absent entry is not an error,
// which keeps logout idempotent.
func (s *SessionStore) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.store.Delete(ctx, userID.String())
}

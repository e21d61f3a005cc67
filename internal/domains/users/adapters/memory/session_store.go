package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Apurer/poster-parlor-api/internal/domains/users/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory SessionStore implementation keyed by token digest.
type SessionStore struct {
	sessions sync.Map
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Save(_ context.Context, session ports.Session) error {
	if session.TokenHash == "" || session.UserID == "" {
		return errors.New("token hash and user id are required")
	}
	s.sessions.Store(session.TokenHash, session)
	return nil
}

func (s *SessionStore) Get(_ context.Context, tokenHash string) (*ports.Session, error) {
	v, ok := s.sessions.Load(tokenHash)
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	session := v.(ports.Session)
	return &session, nil
}

func (s *SessionStore) Delete(_ context.Context, tokenHash string) error {
	s.sessions.Delete(tokenHash)
	return nil
}

func (s *SessionStore) DeleteByUser(_ context.Context, userID string) error {
	s.sessions.Range(func(key, value any) bool {
		if value.(ports.Session).UserID == userID {
			s.sessions.Delete(key)
		}
		return true
	})
	return nil
}

func (s *SessionStore) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	var purged int64
	s.sessions.Range(func(key, value any) bool {
		if value.(ports.Session).Expired(now) {
			s.sessions.Delete(key)
			purged++
		}
		return true
	})
	return purged, nil
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"rentexpress/internal/db"
	"rentexpress/internal/models"

	"github.com/rs/zerolog"
)

// SessionStore keeps server-side session records keyed by session id.
// Get never returns an expired session; it reports ErrSessionNotFound.
type SessionStore interface {
	Save(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes every session expired at now and returns how many.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.Session
	now      func() time.Time
}

var _ SessionStore = (*MemorySessionStore)(nil)

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]models.Session),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Save(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.Expired(s.now()) {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemorySessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// SQLSessionStore persists sessions in the sessions table so they
// survive restarts and are shared between server instances.
type SQLSessionStore struct {
	db      *sql.DB
	dialect db.Dialect
	logger  zerolog.Logger
	now     func() time.Time
}

var _ SessionStore = (*SQLSessionStore)(nil)

func NewSQLSessionStore(database *sql.DB, dialect db.Dialect, logger zerolog.Logger) *SQLSessionStore {
	return &SQLSessionStore{
		db:      database,
		dialect: dialect,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *SQLSessionStore) Save(ctx context.Context, session *models.Session) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(
		`INSERT INTO sessions (id, user_id, username, email, name, role, created_at, expires_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		session.ID, session.UserID, session.Username, session.Email, session.Name, session.Role,
		session.CreatedAt.UTC(), session.ExpiresAt.UTC(),
	)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", session.UserID).Msg("Error saving session")
		return storageError("insert session", err)
	}
	return nil
}

func (s *SQLSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var session models.Session
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(
		`SELECT id, user_id, username, email, name, role, created_at, expires_at FROM sessions WHERE id = ? AND expires_at > ?`),
		id, s.now().UTC(),
	).Scan(
		&session.ID, &session.UserID, &session.Username, &session.Email, &session.Name, &session.Role,
		&session.CreatedAt, &session.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching session")
		return nil, storageError("query session", err)
	}
	return &session, nil
}

func (s *SQLSessionStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, s.dialect.Rebind(`DELETE FROM sessions WHERE id = ?`), id); err != nil {
		s.logger.Error().Err(err).Msg("Error deleting session")
		return storageError("delete session", err)
	}
	return nil
}

func (s *SQLSessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(`DELETE FROM sessions WHERE expires_at <= ?`), now.UTC())
	if err != nil {
		return 0, storageError("delete expired sessions", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageError("delete expired sessions", err)
	}
	return n, nil
}

// StartSessionSweeper deletes expired sessions every interval until ctx
// is cancelled.
func StartSessionSweeper(ctx context.Context, store SessionStore, interval time.Duration, logger zerolog.Logger) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				n, err := store.DeleteExpired(ctx, now)
				if err != nil {
					logger.Error().Err(err).Msg("Session sweep failed")
					continue
				}
				if n > 0 {
					logger.Debug().Int64("removed", n).Msg("Expired sessions removed")
				}
			}
		}
	}()
}

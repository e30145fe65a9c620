package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"rentexpress/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	LoginRedirect    = "inicio.html"
	RegisterRedirect = "index.html"
)

// AuthService issues and resolves login sessions. The session token is a
// signed JWT whose ID claim names a record in the SessionStore; the store
// is authoritative, so logging out revokes a token before it expires.
type AuthService struct {
	users     *UserService
	sessions  SessionStore
	secretKey []byte
	ttl       time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

type SessionClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// SessionState is what the current-session endpoint reports. Err is set
// only when the store could not be read, so the token may still be live.
type SessionState struct {
	Authenticated bool
	Session       *models.Session
	Err           error
}

func NewAuthService(users *UserService, sessions SessionStore, secretKey []byte, ttl time.Duration, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		secretKey: secretKey,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// Register creates the account and logs it in. The account is removed
// again when no session can be started, so the request can be retried.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
	user, err := s.users.Register(ctx, req)
	if err != nil {
		return nil, "", err
	}

	token, err := s.startSession(ctx, user)
	if err != nil {
		if delErr := s.users.Delete(context.WithoutCancel(ctx), user.ID); delErr != nil {
			s.logger.Error().Err(delErr).Int64("user_id", user.ID).Msg("Error removing user without session")
		}
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error) {
	user, err := s.users.Authenticate(ctx, req)
	if err != nil {
		return nil, "", err
	}

	token, err := s.startSession(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout drops the session behind token. Unknown or invalid tokens are
// not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := s.ValidateToken(token)
	if err != nil {
		return nil
	}

	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		return err
	}
	s.logger.Info().Str("username", claims.Username).Msg("User logged out")
	return nil
}

// CurrentSession never fails: a missing, forged, expired or revoked token
// just means the caller is anonymous.
func (s *AuthService) CurrentSession(ctx context.Context, token string) SessionState {
	session, err := s.ResolveSession(ctx, token)
	if err != nil {
		if errors.Is(err, ErrStorage) {
			s.logger.Error().Err(err).Msg("Session lookup failed")
			return SessionState{Err: err}
		}
		return SessionState{}
	}
	return SessionState{Authenticated: true, Session: session}
}

func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	claims, err := s.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if strconv.FormatInt(session.UserID, 10) != claims.Subject {
		s.logger.Warn().Str("session_id", claims.ID).Msg("Session token subject mismatch")
		return nil, ErrInvalidToken
	}
	return session, nil
}

func (s *AuthService) GenerateToken(session *models.Session) (string, error) {
	claims := &SessionClaims{
		Username: session.Username,
		Role:     session.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   strconv.FormatInt(session.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			NotBefore: jwt.NewNumericDate(session.CreatedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error signing session token")
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return tokenString, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) startSession(ctx context.Context, user *models.User) (string, error) {
	now := s.now().UTC().Truncate(time.Second)
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return "", err
	}

	token, err := s.GenerateToken(session)
	if err != nil {
		_ = s.sessions.Delete(ctx, session.ID)
		return "", err
	}
	return token, nil
}

func (s *AuthService) TTL() time.Duration {
	return s.ttl
}

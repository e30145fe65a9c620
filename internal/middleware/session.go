package middleware

import (
	"context"
	"net/http"
	"time"

	"rentexpress/internal/models"
	"rentexpress/internal/services"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
)

const (
	SessionCookieName = "rentexpress_session"
	tokenValueKey     = "token"
)

// SessionCookies carries the session token in a signed cookie.
type SessionCookies struct {
	store *sessions.CookieStore
}

func NewSessionCookies(hashKey []byte, ttl time.Duration, secure bool) *SessionCookies {
	store := sessions.NewCookieStore(hashKey)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(int(ttl / time.Second))
	return &SessionCookies{store: store}
}

// Token returns the token in the request cookie, or "" when there is none
// or the cookie fails verification.
func (c *SessionCookies) Token(r *http.Request) string {
	session, err := c.store.Get(r, SessionCookieName)
	if err != nil {
		return ""
	}
	token, _ := session.Values[tokenValueKey].(string)
	return token
}

func (c *SessionCookies) SetToken(w http.ResponseWriter, r *http.Request, token string) error {
	// a tampered cookie yields a fresh session along with the error
	session, _ := c.store.Get(r, SessionCookieName)
	session.Values[tokenValueKey] = token
	return session.Save(r, w)
}

func (c *SessionCookies) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := c.store.Get(r, SessionCookieName)
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

type SessionResolver interface {
	CurrentSession(ctx context.Context, token string) services.SessionState
}

// LoadSession resolves the cookie token and stores the session state in the
// request context. A cookie that no longer names a live session is cleared;
// one that could not be checked is kept.
func LoadSession(resolver SessionResolver, cookies *SessionCookies, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookies.Token(r)
			state := resolver.CurrentSession(r.Context(), token)

			if token != "" && !state.Authenticated && state.Err == nil {
				if err := cookies.Clear(w, r); err != nil {
					logger.Warn().Err(err).Msg("Error clearing stale session cookie")
				}
			}

			ctx := context.WithValue(r.Context(), SessionKey, state)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession returns the session loaded by LoadSession, if authenticated.
func GetSession(r *http.Request) (*models.Session, bool) {
	state, ok := r.Context().Value(SessionKey).(services.SessionState)
	if !ok || !state.Authenticated {
		return nil, false
	}
	return state.Session, true
}

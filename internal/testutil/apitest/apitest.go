// Package apitest runs the full HTTP API against a throwaway SQLite
// database for end-to-end tests.
package apitest

import (
	"database/sql"
	"net/http/httptest"
	"testing"
	"time"

	"rentexpress/internal/config"
	"rentexpress/internal/db"
	"rentexpress/internal/middleware"
	"rentexpress/internal/router"
	"rentexpress/internal/services"
	"rentexpress/internal/testutil"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var Secret = []byte("apitest-session-secret-0123456789")

// Server is a running API. Sessions is nil when sessions live in the
// database.
type Server struct {
	*httptest.Server
	DB       *sql.DB
	Sessions *services.MemorySessionStore
}

// NewServer keeps sessions in memory.
func NewServer(t *testing.T) *Server {
	t.Helper()
	return newServer(t, false)
}

// NewSQLSessionServer keeps sessions in the sessions table of DB.
func NewSQLSessionServer(t *testing.T) *Server {
	t.Helper()
	return newServer(t, true)
}

func newServer(t *testing.T, sqlSessions bool) *Server {
	t.Helper()

	d := testutil.OpenTestDB(t)
	logger := zerolog.Nop()

	users := services.NewUserService(d, db.SQLite, logger).WithHashCost(bcrypt.MinCost)
	var (
		sessions services.SessionStore
		memory   *services.MemorySessionStore
	)
	if sqlSessions {
		sessions = services.NewSQLSessionStore(d, db.SQLite, logger)
	} else {
		memory = services.NewMemorySessionStore()
		sessions = memory
	}
	auth := services.NewAuthService(users, sessions, Secret, time.Hour, logger)
	vehicles := services.NewVehicleService(d, db.SQLite, nil, logger)

	cfg := config.Config{
		CORSAllowedOrigins: []string{"http://localhost:5500"},
		RateLimit:          1000,
		RateBurst:          1000,
	}
	handler := router.SetupRouter(router.Dependencies{
		Auth:     auth,
		Vehicles: vehicles,
		Cookies:  middleware.NewSessionCookies(Secret, time.Hour, false),
	}, cfg, logger)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &Server{Server: srv, DB: d, Sessions: memory}
}

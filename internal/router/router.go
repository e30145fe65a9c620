package router

import (
	"net/http"
	"time"

	"rentexpress/internal/config"
	"rentexpress/internal/handlers"
	"rentexpress/internal/middleware"
	"rentexpress/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type Dependencies struct {
	Auth     *services.AuthService
	Vehicles *services.VehicleService
	Cookies  *middleware.SessionCookies
}

func SetupRouter(deps Dependencies, cfg config.Config, logger zerolog.Logger) http.Handler {
	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Cookies, logger)
	vehicleHandler := handlers.NewVehicleHandler(deps.Vehicles, logger)

	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)

	rateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.PerformanceMonitoring(logger, time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(rateLimiter.Middleware())

	loadSession := middleware.LoadSession(deps.Auth, deps.Cookies, logger)
	requireJSON := middleware.RequireJSON()

	r.Handle("/session", loadSession(http.HandlerFunc(authHandler.Session))).Methods(http.MethodGet)
	r.Handle("/login", requireJSON(http.HandlerFunc(authHandler.Login))).Methods(http.MethodPost)
	r.Handle("/register", requireJSON(http.HandlerFunc(authHandler.Register))).Methods(http.MethodPost)
	r.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	r.HandleFunc("/vehicles", vehicleHandler.ListAvailable).Methods(http.MethodGet)
	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	for _, path := range []string{"/session", "/login", "/register", "/logout", "/vehicles"} {
		r.HandleFunc(path, handlers.Preflight).Methods(http.MethodOptions)
	}

	return middleware.CORS(cfg.CORSAllowedOrigins)(r)
}

package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"rentexpress/internal/models"

	"github.com/rs/zerolog"
)

var (
	ErrIncompleteForm     = errors.New("required fields missing")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrVehicleUnavailable = errors.New("vehicle not available")
)

const (
	minPasswordLength = 6

	msgConnectionError    = "Error de conexión. Verifica tu internet."
	msgLoginIncomplete    = "Por favor completa todos los campos"
	msgRegisterIncomplete = "Por favor completa todos los campos obligatorios"
	msgPasswordMismatch   = "Las contraseñas no coinciden"
	msgPasswordTooShort   = "La contraseña debe tener al menos 6 caracteres"
	msgLoginSuccess       = "¡Inicio de sesión exitoso!"
	msgLogoutSuccess      = "Sesión cerrada exitosamente"
	msgSelectRequiresAuth = "Debes iniciar sesión para seleccionar un vehículo"
	msgVehicleNotFound    = "Vehículo no encontrado"
	msgVehicleUnavailable = "Vehículo no disponible"
	msgSelectionCleared   = "Selección eliminada"
	msgDemoVehicles       = "Mostrando vehículos de demostración"
	msgDemoOffline        = "Error de conexión. Mostrando vehículos de demostración."
	msgNoResults          = "No se encontraron vehículos con los filtros seleccionados"
)

// API is the part of the HTTP client the controller drives.
type API interface {
	Session(ctx context.Context) (*models.SessionResponse, error)
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context) error
	Vehicles(ctx context.Context) ([]models.Vehicle, error)
	Cookies() []SavedCookie
	RestoreCookies(saved []SavedCookie)
}

var _ API = (*Client)(nil)

type AlertKind string

const (
	AlertSuccess AlertKind = "success"
	AlertError   AlertKind = "error"
	AlertInfo    AlertKind = "info"
	AlertWarning AlertKind = "warning"
)

type Alert struct {
	Kind    AlertKind
	Message string
}

// State is everything the views render from.
type State struct {
	User     *User
	Vehicles []models.Vehicle
	Selected *models.Vehicle
	// Demo marks Vehicles as the built-in demo catalogue.
	Demo bool
	// Offline marks User as read from the local snapshot because the
	// server could not be reached.
	Offline bool
	Alerts  []Alert
}

func (s *State) Authenticated() bool {
	return s.User != nil
}

// DismissAlert removes the alert at index i. Out of range is a no-op.
func (s *State) DismissAlert(i int) {
	if i < 0 || i >= len(s.Alerts) {
		return
	}
	s.Alerts = append(s.Alerts[:i], s.Alerts[i+1:]...)
}

type RegisterForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Name            string
	Phone           string
}

type Controller struct {
	api    API
	store  *StateStore
	logger zerolog.Logger
	State  State
}

func NewController(api API, store *StateStore, logger zerolog.Logger) *Controller {
	return &Controller{
		api:    api,
		store:  store,
		logger: logger,
	}
}

// Load restores the identity and selection. The server decides who is
// logged in; the local snapshot is used only when it cannot be reached.
func (c *Controller) Load(ctx context.Context) {
	identity, err := c.store.LoadIdentity()
	if err != nil {
		c.logger.Warn().Err(err).Msg("Error reading identity snapshot")
	}
	if identity != nil {
		c.api.RestoreCookies(identity.Cookies)
	}

	c.State.User, c.State.Offline = nil, false

	resp, err := c.api.Session(ctx)
	switch {
	case err != nil:
		c.logger.Warn().Err(err).Msg("Session check failed")
		if identity != nil {
			user := identity.User
			c.State.User, c.State.Offline = &user, true
		}
	case resp.Authenticated && resp.User != nil:
		user := userFromSession(resp.User)
		if identity != nil && identity.User.ID == user.ID {
			user.Email = identity.User.Email
		}
		c.setUser(user)
	default:
		if err := c.store.ClearIdentity(); err != nil {
			c.logger.Warn().Err(err).Msg("Error clearing identity snapshot")
		}
	}

	selected, err := c.store.LoadSelection()
	if err != nil {
		c.logger.Warn().Err(err).Msg("Error reading selection snapshot")
	}
	c.State.Selected = selected
}

// LoadVehicles fetches the catalogue, substituting the demo catalogue when
// the server fails or has nothing to show.
func (c *Controller) LoadVehicles(ctx context.Context) {
	vehicles, err := c.api.Vehicles(ctx)
	switch {
	case err != nil:
		c.logger.Warn().Err(err).Msg("Error loading vehicles")
		c.useDemo(AlertWarning, msgDemoOffline)
	case len(vehicles) == 0:
		c.useDemo(AlertInfo, msgDemoVehicles)
	default:
		c.State.Vehicles, c.State.Demo = vehicles, false
	}
}

func (c *Controller) useDemo(kind AlertKind, message string) {
	c.State.Vehicles, c.State.Demo = DemoVehicles(), true
	c.alert(kind, message)
}

// Login returns the page the server redirects to.
func (c *Controller) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		c.alert(AlertError, msgLoginIncomplete)
		return "", ErrIncompleteForm
	}

	resp, err := c.api.Login(ctx, email, password)
	if err != nil {
		c.alert(AlertError, Message(err))
		return "", err
	}

	user, err := c.serverUser(ctx, resp.User)
	if err != nil {
		c.alert(AlertError, Message(err))
		return "", err
	}
	c.setUser(user)
	c.alert(AlertSuccess, msgLoginSuccess)
	return resp.Redirect, nil
}

// Register validates the form like the web page does before sending it.
// The server logs the new account in.
func (c *Controller) Register(ctx context.Context, form RegisterForm) (string, error) {
	req := models.RegisterRequest{
		Username: strings.TrimSpace(form.Username),
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
		Name:     strings.TrimSpace(form.Name),
		Phone:    strings.TrimSpace(form.Phone),
	}

	switch {
	case req.Name == "" || req.Email == "" || req.Password == "" || req.Username == "":
		c.alert(AlertError, msgRegisterIncomplete)
		return "", ErrIncompleteForm
	case req.Password != form.ConfirmPassword:
		c.alert(AlertError, msgPasswordMismatch)
		return "", ErrPasswordMismatch
	case utf8.RuneCountInString(req.Password) < minPasswordLength:
		c.alert(AlertError, msgPasswordTooShort)
		return "", ErrPasswordTooShort
	}

	resp, err := c.api.Register(ctx, req)
	if err != nil {
		c.alert(AlertError, Message(err))
		return "", err
	}

	user, err := c.serverUser(ctx, resp.User)
	if err != nil {
		c.alert(AlertError, Message(err))
		return "", err
	}
	c.setUser(user)
	c.alert(AlertSuccess, resp.Message)
	return resp.Redirect, nil
}

// Logout forgets the local identity even when the server call fails.
func (c *Controller) Logout(ctx context.Context) error {
	err := c.api.Logout(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Server logout failed")
	}

	c.State.User, c.State.Offline = nil, false
	if clearErr := c.store.ClearIdentity(); clearErr != nil {
		c.logger.Warn().Err(clearErr).Msg("Error clearing identity snapshot")
	}
	c.alert(AlertSuccess, msgLogoutSuccess)
	return err
}

// Search filters the loaded catalogue, loading it first when empty.
func (c *Controller) Search(ctx context.Context, f Filters) []models.Vehicle {
	if len(c.State.Vehicles) == 0 {
		c.LoadVehicles(ctx)
	}

	results := Search(c.State.Vehicles, f)
	if len(results) == 0 {
		c.alert(AlertInfo, msgNoResults)
	}
	return results
}

// Select marks a vehicle of the loaded catalogue as the user's choice.
// Demo vehicles are selected but never persisted.
func (c *Controller) Select(id int64) (*models.Vehicle, error) {
	if !c.State.Authenticated() {
		c.alert(AlertError, msgSelectRequiresAuth)
		return nil, ErrNotAuthenticated
	}

	var found *models.Vehicle
	for i := range c.State.Vehicles {
		if c.State.Vehicles[i].ID == id {
			v := c.State.Vehicles[i]
			found = &v
			break
		}
	}
	if found == nil {
		c.alert(AlertError, msgVehicleNotFound)
		return nil, ErrVehicleNotFound
	}
	if !found.Available {
		c.alert(AlertError, msgVehicleUnavailable)
		return nil, ErrVehicleUnavailable
	}

	c.State.Selected = found
	if !c.State.Demo {
		if err := c.store.SaveSelection(found); err != nil {
			c.logger.Warn().Err(err).Msg("Error saving selection snapshot")
		}
	}
	c.alert(AlertSuccess, fmt.Sprintf("Has seleccionado: %s %s", found.Brand, found.Model))
	return found, nil
}

// ClearSelection forgets the chosen vehicle, locally and on disk.
func (c *Controller) ClearSelection() error {
	c.State.Selected = nil
	if err := c.store.ClearSelection(); err != nil {
		c.logger.Warn().Err(err).Msg("Error clearing selection snapshot")
		return err
	}
	c.alert(AlertInfo, msgSelectionCleared)
	return nil
}

// serverUser prefers the user in the response and falls back to asking
// the server for the current session.
func (c *Controller) serverUser(ctx context.Context, public *models.PublicUser) (*User, error) {
	if public != nil {
		return userFromPublic(public), nil
	}
	resp, err := c.api.Session(ctx)
	if err != nil {
		return nil, err
	}
	if !resp.Authenticated || resp.User == nil {
		return nil, ErrNotAuthenticated
	}
	return userFromSession(resp.User), nil
}

func (c *Controller) setUser(user *User) {
	c.State.User, c.State.Offline = user, false

	err := c.store.SaveIdentity(&Identity{
		User:    *user,
		Cookies: c.api.Cookies(),
		SavedAt: time.Now().UTC(),
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("Error saving identity snapshot")
	}
}

func (c *Controller) alert(kind AlertKind, message string) {
	c.State.Alerts = append(c.State.Alerts, Alert{Kind: kind, Message: message})
}

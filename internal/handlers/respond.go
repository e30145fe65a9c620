package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentexpress/internal/models"
	"rentexpress/internal/services"

	"github.com/rs/zerolog"
)

const (
	msgInvalidJSON      = "JSON inválido"
	msgServerError      = "Error en el servidor"
	msgVehiclesError    = "Error al obtener vehículos"
	msgMethodNotAllowed = "Método no permitido"
	msgNotFound         = "Recurso no encontrado"
	msgLoginSuccess     = "Login exitoso"
	msgRegisterSuccess  = "Registro exitoso. ¡Bienvenido a RentExpress!"
	msgLogoutSuccess    = "Sesión cerrada exitosamente"
	maxRequestBodyBytes = 1 << 20
)

// errorMessages maps service errors to the status and message the API
// reports. The first entry matching with errors.Is wins, so specific
// errors precede their categories.
var errorMessages = []struct {
	err     error
	status  int
	message string
}{
	{services.ErrMissingLogin, http.StatusBadRequest, "Email y contraseña requeridos"},
	{services.ErrMissingFields, http.StatusBadRequest, "Todos los campos obligatorios deben completarse"},
	{services.ErrInvalidEmail, http.StatusBadRequest, "Email no válido"},
	{services.ErrPasswordTooShort, http.StatusBadRequest, "La contraseña debe tener al menos 6 caracteres"},
	{services.ErrPasswordTooLong, http.StatusBadRequest, "La contraseña es demasiado larga"},
	{services.ErrEmailTaken, http.StatusConflict, "El email ya está registrado"},
	{services.ErrUsernameTaken, http.StatusConflict, "El nombre de usuario ya existe"},
	{services.ErrUserNotFound, http.StatusNotFound, "Usuario no encontrado"},
	{services.ErrWrongPassword, http.StatusUnauthorized, "Contraseña incorrecta"},
	{services.ErrMethodNotAllowed, http.StatusMethodNotAllowed, msgMethodNotAllowed},
	{services.ErrValidation, http.StatusBadRequest, "Solicitud inválida"},
}

// errorResponse returns the status and message for err. Anything not in
// the table, storage failures included, is a generic server error.
func errorResponse(err error) (int, string) {
	for _, m := range errorMessages {
		if errors.Is(err, m.err) {
			return m.status, m.message
		}
	}
	return http.StatusInternalServerError, msgServerError
}

func respondWithServiceError(w http.ResponseWriter, logger zerolog.Logger, err error, action string) {
	status, message := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg(action + " failed")
	} else {
		logger.Debug().Err(err).Msg(action + " rejected")
	}
	respondWithError(w, status, message)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, models.MessageResponse{
		Success: false,
		Message: message,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(dst)
}

// MethodNotAllowed answers requests whose path exists but whose method is
// not served there.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	status, message := errorResponse(services.ErrMethodNotAllowed)
	respondWithError(w, status, message)
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, http.StatusNotFound, msgNotFound)
}

// Preflight answers a bare OPTIONS request with an empty 204.
func Preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package handlers

import (
	"net/http"

	"rentexpress/internal/models"
	"rentexpress/internal/services"

	"github.com/rs/zerolog"
)

type VehicleHandler struct {
	vehicleService *services.VehicleService
	logger         zerolog.Logger
}

func NewVehicleHandler(vehicleService *services.VehicleService, logger zerolog.Logger) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
		logger:         logger,
	}
}

func (h *VehicleHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.vehicleService.ListAvailable(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to fetch vehicles")
		respondWithError(w, http.StatusInternalServerError, msgVehiclesError)
		return
	}

	respondWithJSON(w, http.StatusOK, models.VehiclesResponse{
		Success:  true,
		Vehicles: vehicles,
	})
}

package services

import (
	"context"
	"database/sql"
	"time"

	"rentexpress/internal/db"
	"rentexpress/internal/models"

	"github.com/rs/zerolog"
)

type VehicleService struct {
	db      *sql.DB
	dialect db.Dialect
	images  ImageResolver
	logger  zerolog.Logger
}

func NewVehicleService(database *sql.DB, dialect db.Dialect, images ImageResolver, logger zerolog.Logger) *VehicleService {
	if images == nil {
		images = PassthroughImages{}
	}
	return &VehicleService{
		db:      database,
		dialect: dialect,
		images:  images,
		logger:  logger,
	}
}

// ListAvailable returns every vehicle marked available, newest first.
// The result is never nil so it encodes as an empty JSON array.
func (s *VehicleService) ListAvailable(ctx context.Context) ([]models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(
		`SELECT id, brand, model, year, color, price_per_day, available, image, created_at
		FROM vehicles
		WHERE available = ?
		ORDER BY created_at DESC, id DESC`),
		true,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error querying vehicles")
		return nil, storageError("query vehicles", err)
	}
	defer rows.Close()

	vehicles := make([]models.Vehicle, 0)
	for rows.Next() {
		var (
			v     models.Vehicle
			color sql.NullString
			image sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.Brand, &v.Model, &v.Year, &color, &v.PricePerDay, &v.Available, &image, &v.CreatedAt); err != nil {
			s.logger.Error().Err(err).Msg("Error scanning vehicle")
			return nil, storageError("scan vehicle", err)
		}
		if color.Valid {
			v.Color = &color.String
		}
		if image.Valid && image.String != "" {
			url, err := s.images.ResolveImage(ctx, image.String)
			if err != nil {
				// a broken image link should not hide the vehicle
				s.logger.Warn().Err(err).Int64("vehicle_id", v.ID).Msg("Error resolving vehicle image")
			} else {
				v.Image = &url
			}
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error().Err(err).Msg("Error iterating vehicles")
		return nil, storageError("iterate vehicles", err)
	}

	return vehicles, nil
}

package models

import "time"

type Vehicle struct {
	ID          int64     `json:"id"`
	Brand       string    `json:"brand"`
	Model       string    `json:"model"`
	Year        int       `json:"year"`
	Color       *string   `json:"color"`
	PricePerDay float64   `json:"price_per_day"`
	Available   bool      `json:"available"`
	Image       *string   `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
}

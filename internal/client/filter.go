package client

import (
	"strconv"
	"strings"

	"rentexpress/internal/models"
)

// Filters are the search form fields. Empty fields do not narrow the
// result; a MaxPrice that is not a number is ignored.
type Filters struct {
	Brand    string
	Model    string
	Year     string
	MaxPrice string
}

// Search returns the vehicles matching every non-empty filter, in their
// original order.
func Search(vehicles []models.Vehicle, f Filters) []models.Vehicle {
	brand := strings.ToLower(strings.TrimSpace(f.Brand))
	model := strings.ToLower(strings.TrimSpace(f.Model))
	year := strings.TrimSpace(f.Year)

	maxPrice, hasMaxPrice := 0.0, false
	if p := strings.TrimSpace(f.MaxPrice); p != "" {
		if v, err := strconv.ParseFloat(p, 64); err == nil {
			maxPrice, hasMaxPrice = v, true
		}
	}

	out := make([]models.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if brand != "" && !strings.Contains(strings.ToLower(v.Brand), brand) {
			continue
		}
		if model != "" && !strings.Contains(strings.ToLower(v.Model), model) {
			continue
		}
		if year != "" && strconv.Itoa(v.Year) != year {
			continue
		}
		if hasMaxPrice && v.PricePerDay > maxPrice {
			continue
		}
		out = append(out, v)
	}
	return out
}

package client

import "rentexpress/internal/models"

// DemoVehicles is the fixed catalogue shown when the server cannot provide
// one. It returns a fresh slice on every call.
func DemoVehicles() []models.Vehicle {
	color := func(c string) *string { return &c }
	return []models.Vehicle{
		{ID: 1, Brand: "Toyota", Model: "Corolla", Year: 2022, Color: color("Blanco"), PricePerDay: 2500, Available: true},
		{ID: 2, Brand: "Honda", Model: "Civic", Year: 2023, Color: color("Gris"), PricePerDay: 2800, Available: true},
		{ID: 3, Brand: "Nissan", Model: "Sentra", Year: 2021, Color: color("Negro"), PricePerDay: 2400, Available: true},
		{ID: 4, Brand: "Hyundai", Model: "Elantra", Year: 2022, Color: color("Azul"), PricePerDay: 2600, Available: false},
		{ID: 5, Brand: "Toyota", Model: "RAV4", Year: 2023, Color: color("Rojo"), PricePerDay: 4500, Available: true},
	}
}

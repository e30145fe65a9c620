package client

import (
	"fmt"
	"io"
	"strings"

	"rentexpress/internal/models"

	"github.com/dustin/go-humanize"
)

// FormatPrice renders a daily price the way the web cards do, e.g.
// "RD$ 2,500.00".
func FormatPrice(price float64) string {
	return "RD$ " + humanize.FormatFloat("#,###.##", price)
}

func RenderNavigation(w io.Writer, s *State) {
	if !s.Authenticated() {
		fmt.Fprintln(w, "Iniciar Sesión | Registrarse")
		return
	}

	items := []string{"Hola, " + displayName(s.User), "Mi Cuenta"}
	if s.User.IsAdmin() {
		items = append(items, "Administración")
	}
	items = append(items, "Cerrar Sesión")
	line := strings.Join(items, " | ")
	if s.Offline {
		line += " (sin conexión)"
	}
	fmt.Fprintln(w, line)
}

func RenderVehicles(w io.Writer, s *State, vehicles []models.Vehicle) {
	if s.Demo {
		fmt.Fprintf(w, "** %s **\n\n", msgDemoVehicles)
	}
	if len(vehicles) == 0 {
		fmt.Fprintln(w, "No se encontraron vehículos")
		return
	}
	for i := range vehicles {
		RenderCard(w, s, &vehicles[i])
		fmt.Fprintln(w)
	}
}

func RenderCard(w io.Writer, s *State, v *models.Vehicle) {
	color := "N/A"
	if v.Color != nil && *v.Color != "" {
		color = *v.Color
	}
	available := "No"
	if v.Available {
		available = "Sí"
	}

	fmt.Fprintf(w, "[%d] %s %s\n", v.ID, v.Brand, v.Model)
	fmt.Fprintf(w, "    %s/día\n", FormatPrice(v.PricePerDay))
	fmt.Fprintf(w, "    Año: %d\n", v.Year)
	fmt.Fprintf(w, "    Color: %s\n", color)
	fmt.Fprintf(w, "    Disponible: %s\n", available)
	if v.Image != nil && *v.Image != "" {
		fmt.Fprintf(w, "    Imagen: %s\n", *v.Image)
	}

	switch {
	case !v.Available:
		fmt.Fprintln(w, "    No Disponible")
	case s.Authenticated():
		fmt.Fprintf(w, "    Seleccionar: rentctl select %d\n", v.ID)
	default:
		fmt.Fprintln(w, "    Inicia Sesión para Rentar")
	}
}

func RenderSelection(w io.Writer, s *State) {
	if s.Selected == nil {
		return
	}
	fmt.Fprintf(w, "Vehículo seleccionado: %s %s (%s/día)\n",
		s.Selected.Brand, s.Selected.Model, FormatPrice(s.Selected.PricePerDay))
}

var alertLabels = map[AlertKind]string{
	AlertSuccess: "OK",
	AlertError:   "ERROR",
	AlertInfo:    "INFO",
	AlertWarning: "AVISO",
}

// RenderAlerts prints each alert with the index DismissAlert takes.
func RenderAlerts(w io.Writer, alerts []Alert) {
	for i, a := range alerts {
		fmt.Fprintf(w, "%d. [%s] %s\n", i, alertLabels[a.Kind], a.Message)
	}
}

func displayName(u *User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

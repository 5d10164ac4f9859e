package inventory

import (
	"encoding/json"
	"strings"

	"github.com/alejandrodnm/dealmax/internal/domain"
)

// mapVehicles convierte los DTOs del feed a domain.Vehicle.
func mapVehicles(raw []feedVehicle) []domain.Vehicle {
	vehicles := make([]domain.Vehicle, 0, len(raw))
	for _, r := range raw {
		vehicles = append(vehicles, mapVehicle(r))
	}
	return vehicles
}

// mapVehicle convierte un feedVehicle a domain.Vehicle. Importes ausentes
// quedan a 0; el motor los trata como desconocidos.
func mapVehicle(r feedVehicle) domain.Vehicle {
	return domain.Vehicle{
		ID:              strings.TrimSpace(r.StockNumber),
		VIN:             strings.ToUpper(strings.TrimSpace(r.VIN)),
		Year:            r.Year,
		Make:            strings.TrimSpace(r.Make),
		Model:           strings.TrimSpace(r.Model),
		Trim:            strings.TrimSpace(r.Trim),
		Mileage:         r.Odometer,
		Cost:            number(r.Cost),
		SuggestedPrice:  number(r.ListPrice),
		CollateralValue: number(r.BookValue),
		InStock:         inStock(r.Status),
	}
}

func number(n json.Number) float64 {
	v, err := n.Float64()
	if err != nil {
		return 0
	}
	return v
}

// inStock interpreta el estado del DMS. Vacío cuenta como disponible.
func inStock(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "", "available", "in_stock", "instock", "active":
		return true
	}
	return false
}

package engine

import (
	"strings"

	"github.com/alejandrodnm/dealmax/internal/domain"
)

// Filter aplica el filtro de inventario de una petición. Solo pasan vehículos en stock.
type Filter struct {
	cfg domain.InventoryFilter
}

// NewFilter crea un Filter; nil equivale a no filtrar más allá del stock.
func NewFilter(cfg *domain.InventoryFilter) *Filter {
	f := &Filter{}
	if cfg != nil {
		f.cfg = *cfg
		f.cfg.Make = strings.ToLower(strings.TrimSpace(cfg.Make))
		f.cfg.Model = strings.ToLower(strings.TrimSpace(cfg.Model))
	}
	return f
}

// Apply devuelve los vehículos que pasan el filtro, conservando el orden.
func (f *Filter) Apply(vehicles []domain.Vehicle) []domain.Vehicle {
	result := make([]domain.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if f.passes(v) {
			result = append(result, v)
		}
	}
	return result
}

// passes devuelve true si el vehículo supera todos los criterios.
func (f *Filter) passes(v domain.Vehicle) bool {
	if !v.InStock {
		return false
	}
	// make y model: subcadena sin distinguir mayúsculas
	if f.cfg.Make != "" && !strings.Contains(strings.ToLower(v.Make), f.cfg.Make) {
		return false
	}
	if f.cfg.Model != "" && !strings.Contains(strings.ToLower(v.Model), f.cfg.Model) {
		return false
	}
	if f.cfg.MaxMileage > 0 && v.Mileage > f.cfg.MaxMileage {
		return false
	}
	if f.cfg.MinYear > 0 && v.Year < f.cfg.MinYear {
		return false
	}
	return true
}

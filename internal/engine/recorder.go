package engine

import (
	"time"

	"github.com/alejandrodnm/dealmax/internal/domain"
)

// SearchStats resume una ejecución del maximizador.
type SearchStats struct {
	Lender    domain.LenderID
	Tier      string
	Vehicles  int // vehículos evaluados tras el filtro
	Evaluated int // combinaciones vehículo × bundle que llegaron a cotizarse
	Compliant int
	Misfit    int // bundles descartados por superar el tope de productos
	Returned  int
	Duration  time.Duration
}

// Recorder recibe métricas del motor. Las implementaciones deben ser seguras
// para uso concurrente.
type Recorder interface {
	ObserveSearch(SearchStats)
	ObserveScenario(lender string, subvented bool, totalGross float64)
}

// NopRecorder descarta todo.
type NopRecorder struct{}

func (NopRecorder) ObserveSearch(SearchStats) {}

func (NopRecorder) ObserveScenario(string, bool, float64) {}

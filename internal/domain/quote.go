package domain

import (
	"time"

	"github.com/google/uuid"
)

// Quote es una búsqueda de deals ya ejecutada: la petición del cliente, la
// versión del catálogo usada y el resumen del ranking devuelto.
type Quote struct {
	ID             string           `json:"id" yaml:"id"`
	CreatedAt      time.Time        `json:"createdAt" yaml:"created_at"`
	CatalogVersion string           `json:"catalogVersion" yaml:"catalog_version"`
	Request        FindDealsRequest `json:"request" yaml:"request"`
	Summary        DealSummary      `json:"summary" yaml:"summary"`
}

// NewQuote crea una Quote con ID nuevo y marca de tiempo UTC.
func NewQuote(req FindDealsRequest, catalogVersion string, summary DealSummary) Quote {
	return Quote{
		ID:             uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		CatalogVersion: catalogVersion,
		Request:        req,
		Summary:        summary,
	}
}

package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/dealmax/internal/domain"
)

// QuoteStore persiste las cotizaciones y sus deals para consultas históricas.
type QuoteStore interface {
	// SaveQuote guarda la cotización y su ranking en una transacción.
	SaveQuote(ctx context.Context, quote domain.Quote, deals []domain.Deal) error

	// GetHistory devuelve los deals cotizados en [from, to], ordenados por
	// beneficio bruto total descendente.
	GetHistory(ctx context.Context, from, to time.Time) ([]domain.Deal, error)

	Close() error
}

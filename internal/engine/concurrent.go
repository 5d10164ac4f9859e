package engine

// concurrent.go: evaluación paralela de vehículos.
//
// Cada vehículo es independiente: el catálogo es de solo lectura y cada
// worker escribe en su propio slot, así que el resultado es idéntico al
// secuencial y no hace falta ningún lock.

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/alejandrodnm/dealmax/internal/domain"
)

// evaluateConcurrent aplica eval a cada vehículo con como mucho workers en
// paralelo. Devuelve los resultados en el orden del inventario. El primer
// error cancela el resto y se devuelve.
//
// Si workers <= 0 usa runtime.NumCPU().
func evaluateConcurrent(
	ctx context.Context,
	vehicles []domain.Vehicle,
	workers int,
	eval func(domain.Vehicle) (vehicleResult, error),
) ([]vehicleResult, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]vehicleResult, len(vehicles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, v := range vehicles {
		if gctx.Err() != nil {
			break
		}
		i, v := i, v
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := eval(v)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Si el contexto del llamador se canceló antes de encolar nada, Wait no lo ve.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Debug("concurrent evaluation complete",
		"vehicles", len(vehicles),
		"workers", workers,
	)
	return results, nil
}

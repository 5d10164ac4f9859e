package ports

import (
	"context"

	"github.com/alejandrodnm/dealmax/internal/domain"
)

// InventoryProvider obtiene el inventario del concesionario.
type InventoryProvider interface {
	// FetchInventory devuelve todas las unidades conocidas, en el orden de la
	// fuente. El filtrado por stock y criterios lo hace el motor.
	FetchInventory(ctx context.Context) ([]domain.Vehicle, error)
}

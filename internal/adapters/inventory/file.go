package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alejandrodnm/dealmax/internal/domain"
	"gopkg.in/yaml.v3"
)

// File implementa ports.InventoryProvider leyendo un export del DMS en YAML o
// JSON. El archivo se relee en cada llamada para recoger cambios del stock.
type File struct {
	path string
}

// NewFile crea un proveedor sobre la ruta dada.
func NewFile(path string) *File {
	return &File{path: path}
}

type fileInventory struct {
	Vehicles []domain.Vehicle `json:"vehicles" yaml:"vehicles"`
}

// FetchInventory lee y decodifica el archivo. Acepta una lista suelta o un
// objeto con clave "vehicles".
func (f *File) FetchInventory(ctx context.Context) ([]domain.Vehicle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("inventory.File: read %q: %w", f.path, err)
	}

	vehicles, err := decodeVehicles(data, strings.ToLower(filepath.Ext(f.path)) == ".json")
	if err != nil {
		return nil, fmt.Errorf("inventory.File: decode %q: %w", f.path, err)
	}

	slog.Debug("inventory fetched", "source", "file", "path", f.path, "vehicles", len(vehicles))
	return vehicles, nil
}

func decodeVehicles(data []byte, isJSON bool) ([]domain.Vehicle, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, nil
	}

	if isJSON {
		if strings.HasPrefix(trimmed, "[") {
			var list []domain.Vehicle
			if err := json.Unmarshal(data, &list); err != nil {
				return nil, err
			}
			return list, nil
		}
		var wrapped fileInventory
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, err
		}
		return wrapped.Vehicles, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind == yaml.SequenceNode {
		var list []domain.Vehicle
		if err := root.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var wrapped fileInventory
	if err := root.Decode(&wrapped); err != nil {
		return nil, err
	}
	return wrapped.Vehicles, nil
}

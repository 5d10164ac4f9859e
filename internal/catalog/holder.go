package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// Holder mantiene el catálogo activo. Las peticiones en curso conservan el
// *Catalog que leyeron; Reload solo afecta a las siguientes.
type Holder struct {
	current atomic.Pointer[Catalog]
}

// NewHolder crea un Holder con el catálogo inicial.
func NewHolder(c *Catalog) *Holder {
	h := &Holder{}
	h.current.Store(c)
	return h
}

// Current devuelve el catálogo activo.
func (h *Holder) Current() *Catalog {
	return h.current.Load()
}

// Reload sustituye el catálogo activo.
func (h *Holder) Reload(c *Catalog) error {
	if c == nil {
		return errors.New("catalog.Reload: nil catalog")
	}
	prev := h.current.Swap(c)
	if prev != nil {
		slog.Info("catalog reloaded",
			"from_version", prev.meta.Version,
			"to_version", c.meta.Version,
			"programs", c.Len(),
		)
	}
	return nil
}

// ReloadFile carga un catálogo YAML y lo activa. Si el fichero no es válido
// el catálogo activo no cambia.
func (h *Holder) ReloadFile(path string) error {
	c, err := LoadFile(path)
	if err != nil {
		return fmt.Errorf("catalog.ReloadFile: %w", err)
	}
	return h.Reload(c)
}

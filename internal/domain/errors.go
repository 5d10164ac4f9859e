package domain

import (
	"errors"
	"fmt"
)

// Errores estructurales del motor. Los fallos de cumplimiento (DSR/LTV) y de
// encaje de productos NO son errores: se filtran como datos.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnknownProgram  = errors.New("unknown lender program")
	ErrUnknownLender   = errors.New("unknown lender")
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrUnknownProvince = errors.New("unknown province")
)

// ValidationError describe un input numérico fuera de rango.
// Nunca se corrige en silencio: siempre sube al llamador.
type ValidationError struct {
	Field   string
	Value   float64
	Min     *float64
	Max     *float64
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Field, e.Message, e.Value)
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// UnknownProgramError indica que la combinación lender/tier no existe en el catálogo.
type UnknownProgramError struct {
	Lender LenderID
	Tier   string
}

func (e *UnknownProgramError) Error() string {
	return fmt.Sprintf("invalid lender/tier: %s/%s", e.Lender, e.Tier)
}

func (e *UnknownProgramError) Unwrap() error {
	return ErrUnknownProgram
}

func bound(v float64) *float64 {
	return &v
}

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alejandrodnm/dealmax/internal/domain"
	"gopkg.in/yaml.v3"
)

// Format es el formato de salida estructurada.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat valida el nombre del formato.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML:
		return Format(s), nil
	}
	return "", fmt.Errorf("notify.ParseFormat: unknown format %q (json|yaml)", s)
}

// Encoder implementa ports.Notifier volcando los resultados como JSON o YAML,
// para integrarlo con otras herramientas del concesionario.
type Encoder struct {
	out    io.Writer
	format Format
}

// NewEncoder crea un Encoder sobre stdout.
func NewEncoder(format Format) *Encoder {
	return NewEncoderWriter(os.Stdout, format)
}

// NewEncoderWriter crea un Encoder sobre un writer arbitrario.
func NewEncoderWriter(w io.Writer, format Format) *Encoder {
	return &Encoder{out: w, format: format}
}

type dealsPayload struct {
	Deals   []domain.Deal      `json:"deals" yaml:"deals"`
	Summary domain.DealSummary `json:"summary" yaml:"summary"`
}

type scenariosPayload struct {
	Vehicle   domain.Vehicle          `json:"vehicle" yaml:"vehicle"`
	Scenarios []domain.ProfitScenario `json:"scenarios" yaml:"scenarios"`
}

type rankingPayload struct {
	Approvals []domain.ApprovalWithProfit `json:"approvals" yaml:"approvals"`
}

// NotifyDeals vuelca deals + resumen.
func (e *Encoder) NotifyDeals(_ context.Context, summary domain.DealSummary, deals []domain.Deal) error {
	if deals == nil {
		deals = []domain.Deal{}
	}
	return e.encode(dealsPayload{Deals: deals, Summary: summary})
}

// NotifyScenarios vuelca los escenarios de un vehículo.
func (e *Encoder) NotifyScenarios(_ context.Context, vehicle domain.Vehicle, scenarios []domain.ProfitScenario) error {
	if scenarios == nil {
		scenarios = []domain.ProfitScenario{}
	}
	return e.encode(scenariosPayload{Vehicle: vehicle, Scenarios: scenarios})
}

// NotifyRanking vuelca el ranking de aprobaciones.
func (e *Encoder) NotifyRanking(_ context.Context, ranked []domain.ApprovalWithProfit) error {
	if ranked == nil {
		ranked = []domain.ApprovalWithProfit{}
	}
	return e.encode(rankingPayload{Approvals: ranked})
}

func (e *Encoder) encode(v any) error {
	switch e.format {
	case FormatYAML:
		enc := yaml.NewEncoder(e.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("notify.Encoder: yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(e.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("notify.Encoder: json: %w", err)
		}
		return nil
	}
}

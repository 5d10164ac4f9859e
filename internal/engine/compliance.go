package engine

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/dealmax/internal/catalog"
	"github.com/alejandrodnm/dealmax/internal/domain"
)

// Umbrales de aviso. No afectan a Overall.
const (
	dsrWarningRatio  = 0.9   // aviso cuando el DSR supera el 90% del techo
	highLTVThreshold = 130.0 // aviso de colchón mínimo de equity
)

// ComplianceInput son los números de un deal que el banco suscribe.
type ComplianceInput struct {
	Payment         float64
	Income          float64
	FinanceAmount   float64
	CollateralValue float64
	Lender          domain.LenderID
	Tier            string
	VehicleYear     int
}

// ValidateCompliance calcula DSR y LTV y los compara contra los techos del
// programa. El techo de LTV es el efectivo para el año del vehículo.
//
//	DSR = payment / income × 100          (0 si income <= 0)
//	LTV = finance / collateral × 100      (0 si collateral <= 0)
func ValidateCompliance(cat *catalog.Catalog, in ComplianceInput) (domain.ComplianceResult, error) {
	program, err := cat.Require(in.Lender, in.Tier)
	if err != nil {
		return domain.ComplianceResult{}, fmt.Errorf("engine.ValidateCompliance: %w", err)
	}
	return checkCompliance(program, in), nil
}

// checkCompliance es ValidateCompliance con el programa ya resuelto.
func checkCompliance(program catalog.Program, in ComplianceInput) domain.ComplianceResult {
	var dsr, ltv float64
	if in.Income > 0 {
		dsr = in.Payment / in.Income * 100
	}
	if in.CollateralValue > 0 {
		ltv = in.FinanceAmount / in.CollateralValue * 100
	}
	ltvLimit := program.EffectiveLTV(in.VehicleYear)

	res := domain.ComplianceResult{
		DSR:      round2(dsr),
		DSRPass:  dsr <= program.MaxDSR,
		MaxDSR:   program.MaxDSR,
		LTV:      round2(ltv),
		LTVPass:  ltv <= ltvLimit,
		LTVLimit: ltvLimit,
		Warnings: []string{},
	}
	res.Overall = res.DSRPass && res.LTVPass

	if dsr > program.MaxDSR*dsrWarningRatio {
		res.Warnings = append(res.Warnings, fmt.Sprintf("HIGH DSR: %.1f%% (max: %g%%)", dsr, program.MaxDSR))
	}
	if ltv > highLTVThreshold {
		res.Warnings = append(res.Warnings, fmt.Sprintf("HIGH LTV: %.1f%% - minimal equity cushion", ltv))
	}
	if !res.DSRPass && !res.LTVPass {
		res.Warnings = append(res.Warnings, "MARGINAL DEAL: Both DSR and LTV are high")
	}
	return res
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package catalog

import "github.com/alejandrodnm/dealmax/internal/domain"

// LTVOverride sustituye el LTV base para un rango de años de modelo (inclusive).
type LTVOverride struct {
	FromYear int
	ToYear   int
	LTV      float64
}

func (o *LTVOverride) covers(year int) bool {
	return o != nil && year >= o.FromYear && year <= o.ToYear
}

// Program es la ficha de suscripción de un tier de un banco. Inmutable.
type Program struct {
	Lender              domain.LenderID
	Tier                domain.Tier
	Rate                float64 // tasa anual en %
	LTV                 float64 // techo de LTV en %
	MaxDSR              float64 // techo de DSR en %
	MinIncome           float64 // ingreso mensual mínimo
	Reserve             ReserveStrategy
	Fee                 float64 // comisión de originación que se financia
	NegativeEquityLimit float64 // equity negativo máximo que se puede refinanciar
	RateUpsell          float64 // puntos de tasa que el concesionario puede añadir
	LTVOverride         *LTVOverride
}

// TierName devuelve el nombre canónico del tier ("2-Key").
func (p Program) TierName() string { return p.Tier.Name }

// EffectiveLTV devuelve el techo de LTV para un vehículo del año dado.
func (p Program) EffectiveLTV(vehicleYear int) float64 {
	if p.LTVOverride.covers(vehicleYear) {
		return p.LTVOverride.LTV
	}
	return p.LTV
}

// ReserveFor aplica la estrategia de reserva del programa.
func (p Program) ReserveFor(q ReserveQuote) float64 {
	if p.Reserve == nil {
		return 0
	}
	return p.Reserve.Reserve(q)
}

// UpsellAmount es el beneficio por subir la tasa RateUpsell puntos sobre el importe financiado.
func (p Program) UpsellAmount(amountFinanced float64) float64 {
	return amountFinanced * p.RateUpsell / 100
}

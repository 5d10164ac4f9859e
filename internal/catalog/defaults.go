package catalog

import (
	"time"

	"github.com/alejandrodnm/dealmax/internal/domain"
)

// Versión de la tabla integrada.
const (
	DefaultVersion         = "2026.01"
	DefaultLatestModelYear = 2026
)

// TDReserveGrid es la rejilla de reserva por importe de TD especializado.
var TDReserveGrid = NewAmountGrid(
	Bracket{Min: 40000, Value: 700},
	Bracket{Min: 25000, Value: 600},
	Bracket{Min: 20000, Value: 500},
	Bracket{Min: 15000, Value: 400},
	Bracket{Min: 10000, Value: 300},
	Bracket{Min: 7500, Value: 200},
)

// tramos de importe de la rejilla prime: 100k+, 50k, 40k, 30k, 20k, 7.5k.
// Un 0 es una celda sin entrada y se conserva: si se omitiera, el importe
// caería al tramo inferior.
func primeRow(rate float64, pcts ...float64) RateRow {
	mins := []float64{100000, 50000, 40000, 30000, 20000, 7500}
	row := RateRow{Rate: rate}
	for i, pct := range pcts {
		row.Brackets = append(row.Brackets, Bracket{Min: mins[i], Value: pct})
	}
	return row
}

// TDPrimeReserveGrid es la rejilla porcentual de TD prime por plazo, tasa e importe.
// Los buckets de plazo son 0–83 (rejilla de 48–78 meses), 84–89 y 90+.
var TDPrimeReserveGrid = NewRateTermGrid(
	TermBucket{MinTerm: 0, Rows: []RateRow{
		primeRow(6.89, .0030, .0030, .0020, .0015),
		primeRow(7.39, .0060, .0050, .0050, .0030),
		primeRow(7.89, .0115, .0115, .0100, .0080, .0025),
		primeRow(8.39, .0170, .0170, .0140, .0085, .0050),
		primeRow(8.89, 0, .0235, .0215, .0180, .0100, .0010),
		primeRow(9.39, 0, 0, .0290, .0235, .0145, .0060),
	}},
	TermBucket{MinTerm: 84, Rows: []RateRow{
		primeRow(6.89, .0035, .0035, .0025, .0020),
		primeRow(7.39, .0060, .0050, .0050, .0020),
		primeRow(7.89, .0120, .0115, .0100, .0080, .0025),
		primeRow(8.39, .0145, .0135, .0110, .0075, .0040),
		primeRow(8.89, 0, .0165, .0150, .0095, .0050, .0010),
		primeRow(9.39, 0, 0, .0210, .0160, .0085, .0050),
	}},
	TermBucket{MinTerm: 90, Rows: []RateRow{
		primeRow(7.39, .0050, .0050, .0040, .0020),
		primeRow(7.89, .0110, .0100, .0080, .0050),
	}},
)

// DefaultSubvention es el incentivo FCA para TD (Key) y SDA (Star), niveles 3–6.
func DefaultSubvention() Subvention {
	rates := map[int]float64{6: 8.99, 5: 7.99, 4: 16.99, 3: 20.09}
	return Subvention{
		ModelYears: 3,
		Makes:      []string{"chrysler", "dodge", "jeep", "ram"},
		Lenders: map[domain.LenderID]SubventionTable{
			domain.LenderTD:  {Family: domain.FamilyKey, Rates: rates},
			domain.LenderSDA: {Family: domain.FamilyStar, Rates: rates},
		},
	}
}

// row es la forma compacta de una ficha en la tabla integrada.
type row struct {
	tier      domain.Tier
	rate      float64
	ltv       float64
	maxDSR    float64
	minIncome float64
	reserve   ReserveStrategy
	fee       float64
	negEquity float64
	upsell    float64
}

func build(lender domain.LenderID, override *LTVOverride, rows ...row) []Program {
	out := make([]Program, 0, len(rows))
	for _, r := range rows {
		out = append(out, Program{
			Lender:              lender,
			Tier:                r.tier,
			Rate:                r.rate,
			LTV:                 r.ltv,
			MaxDSR:              r.maxDSR,
			MinIncome:           r.minIncome,
			Reserve:             r.reserve,
			Fee:                 r.fee,
			NegativeEquityLimit: r.negEquity,
			RateUpsell:          r.upsell,
			LTVOverride:         override,
		})
	}
	return out
}

func flat(v float64) ReserveStrategy { return FlatReserve(v) }

// DefaultPrograms devuelve la tabla integrada de programas (enero 2026).
func DefaultPrograms() []Program {
	// TD especializado: 140% usado, 125% en modelos 2024–2026 según la guía de TD.
	tdNew := &LTVOverride{FromYear: 2024, ToYear: 2026, LTV: 125}

	var ps []Program
	ps = append(ps, build(domain.LenderTD, tdNew,
		row{domain.KeyTier(2), 27.0, 140, 50, 1800, TDReserveGrid, 799, 2000, 0},
		row{domain.KeyTier(3), 21.5, 140, 50, 1800, TDReserveGrid, 799, 2000, 0},
		row{domain.KeyTier(4), 17.5, 140, 50, 1800, TDReserveGrid, 799, 2000, 0},
		row{domain.KeyTier(5), 14.5, 140, 50, 1800, TDReserveGrid, 799, 2000, 0},
		row{domain.KeyTier(6), 11.99, 140, 50, 1800, TDReserveGrid, 799, 2000, 0},
	)...)

	var prime []row
	for _, r := range []struct {
		name string
		rate float64
	}{
		{"6.49", 6.49}, {"6.89", 6.89}, {"7.39", 7.39}, {"7.89", 7.89},
		{"8.39", 8.39}, {"8.89", 8.89}, {"9.39", 9.39}, {"9.89", 9.89},
		{"10.39", 10.39}, {"10.89", 10.89}, {"11.39", 11.39}, {"11.9", 11.9},
	} {
		prime = append(prime, row{domain.PrimeTier(r.name), r.rate, 140, 50, 1800, TDPrimeReserveGrid, 0, 0, 0})
	}
	ps = append(ps, build(domain.LenderTD, nil, prime...)...)

	ps = append(ps, build(domain.LenderSantander, nil,
		row{domain.NumberedTier("Tier", 8), 11.49, 165, 30, 2500, flat(600), 0, 5000, 0},
		row{domain.NumberedTier("Tier", 7), 13.49, 165, 30, 2500, flat(600), 0, 5000, 0},
		row{domain.NumberedTier("Tier", 6), 16.49, 165, 30, 2500, flat(550), 0, 4000, 0},
		row{domain.NumberedTier("Tier", 5), 21.99, 165, 30, 2500, flat(550), 0, 3500, 0},
		row{domain.NumberedTier("Tier", 4), 24.49, 165, 30, 2500, flat(550), 0, 3500, 0},
		row{domain.NumberedTier("Tier", 3), 26.24, 165, 30, 2500, flat(525), 0, 3000, 0},
		row{domain.NumberedTier("Tier", 2), 29.99, 165, 30, 2500, flat(750), 0, 3000, 0},
		row{domain.NumberedTier("Tier", 1), 31.9, 165, 30, 2500, flat(500), 0, 3000, 0},
	)...)

	ps = append(ps, build(domain.LenderSDA, nil,
		row{domain.StarTier(7), 11.99, 180, 65, 1750, flat(600), 399, 5000, 2},
		row{domain.StarTier(6), 13.49, 180, 60, 1750, flat(600), 699, 5000, 2},
		row{domain.StarTier(5), 14.49, 160, 55, 1750, flat(500), 699, 5000, 2},
		row{domain.StarTier(4), 18.49, 150, 55, 1750, flat(300), 699, 4000, 2},
		row{domain.StarTier(3), 21.99, 140, 45, 1750, flat(400), 699, 4000, 2},
		row{domain.StarTier(2), 27.99, 140, 45, 1750, flat(300), 799, 3000, 2},
		row{domain.StarTier(1), 29.99, 140, 45, 1750, flat(100), 799, 3000, 2},
		row{domain.NamedTier("StartRight"), 15.49, 140, 65, 1750, flat(300), 599, 5000, 2},
	)...)

	ps = append(ps, build(domain.LenderAutoCapital, nil,
		row{domain.NumberedTier("Tier", 1), 13.49, 140, 55, 1800, flat(500), 799, 5000, 0},
		row{domain.NumberedTier("Tier", 2), 14.49, 140, 55, 1800, flat(500), 799, 5000, 0},
		row{domain.NumberedTier("Tier", 3), 15.99, 140, 50, 1800, flat(500), 799, 4000, 0},
		row{domain.NumberedTier("Tier", 4), 17.99, 135, 47, 1800, flat(500), 799, 4000, 0},
		row{domain.NumberedTier("Tier", 5), 21.49, 135, 43, 1800, flat(500), 799, 3000, 0},
		row{domain.NumberedTier("Tier", 6), 23.49, 130, 43, 1800, flat(500), 799, 3000, 0},
	)...)

	ps = append(ps, build(domain.LenderEdenPark, nil,
		row{domain.RideTier(6), 11.99, 140, 50, 1800, flat(750), 0, 5000, 0},
		row{domain.RideTier(5), 13.99, 140, 50, 1800, flat(750), 0, 5000, 0},
		row{domain.RideTier(4), 16.99, 140, 50, 1800, flat(750), 0, 4000, 0},
		row{domain.RideTier(3), 19.99, 135, 50, 1800, flat(750), 0, 4000, 0},
		row{domain.RideTier(2), 23.99, 130, 50, 1800, flat(750), 0, 3000, 0},
	)...)

	ps = append(ps, build(domain.LenderIAAutoFinance, nil,
		row{domain.GearTier(6), 11.49, 140, 50, 1800, flat(1000), 699, 5000, 0},
		row{domain.GearTier(5), 15.49, 140, 50, 1800, flat(1000), 699, 5000, 0},
		row{domain.GearTier(4), 20.49, 135, 50, 1800, flat(1000), 699, 4000, 0},
		row{domain.GearTier(3), 25.49, 125, 50, 1800, flat(1000), 699, 3000, 0},
		row{domain.GearTier(2), 29.99, 125, 50, 1800, flat(1000), 699, 3000, 0},
		row{domain.GearTier(1), 29.99, 110, 50, 1800, flat(1000), 699, 2000, 0},
	)...)

	ps = append(ps, build(domain.LenderLendCare, nil,
		row{domain.NumberedTier("Tier", 1), 18.9, 140, 50, 1800, flat(799), 0, 5000, 0},
		row{domain.NumberedTier("Tier", 2), 27.9, 140, 50, 1800, flat(599), 0, 3000, 0},
		row{domain.NumberedTier("Tier", 3), 29.9, 110, 50, 1800, flat(399), 0, 2000, 0},
	)...)

	ps = append(ps, build(domain.LenderNorthlake, nil,
		row{domain.NamedTier("Titanium"), 10.99, 140, 20, 1800, flat(600), 0, 5000, 0},
		row{domain.NamedTier("Platinum"), 10.99, 140, 20, 1800, flat(600), 0, 5000, 0},
		row{domain.NamedTier("Gold"), 13.99, 135, 18, 1800, flat(450), 0, 4000, 0},
		row{domain.NamedTier("Standard"), 17.99, 125, 17, 1800, flat(300), 0, 3000, 0},
		row{domain.NamedTier("UDrive"), 22.99, 120, 15, 1800, flat(0), 0, 2000, 0},
	)...)

	ps = append(ps, build(domain.LenderRIFCO, nil,
		row{domain.NumberedTier("PreferredTier", 1), 12.95, 140, 50, 1800, flat(600), 395, 5000, 0},
		row{domain.NumberedTier("PreferredTier", 2), 14.95, 135, 50, 1800, flat(500), 395, 5000, 0},
		row{domain.NumberedTier("PreferredTier", 3), 19.95, 135, 50, 1800, flat(400), 395, 4000, 0},
		row{domain.NumberedTier("PreferredTier", 4), 24.95, 130, 50, 1800, flat(0), 395, 3000, 0},
		row{domain.NumberedTier("PreferredTier", 5), 29.95, 125, 50, 1800, flat(300), 395, 3000, 0},
		row{domain.NamedTier("Standard"), 29.95, 130, 50, 1800, flat(250), 395, 3000, 0},
	)...)

	return ps
}

// DefaultMeta es la metadata de la tabla integrada.
func DefaultMeta() Meta {
	return Meta{
		Version:         DefaultVersion,
		EffectiveDate:   time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		LatestModelYear: DefaultLatestModelYear,
		Subvention:      DefaultSubvention(),
	}
}

// Default construye el catálogo integrado. La tabla es estática: un error aquí
// es un bug de programación.
func Default() *Catalog {
	c, err := New(DefaultMeta(), DefaultPrograms()...)
	if err != nil {
		panic(err)
	}
	return c
}

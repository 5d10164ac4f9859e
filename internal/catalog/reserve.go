package catalog

import (
	"math"
	"sort"
)

// ReserveKind identifica la variante de cálculo de reserva.
type ReserveKind string

const (
	ReserveFlat         ReserveKind = "flat"
	ReserveAmountGrid   ReserveKind = "amount_grid"
	ReserveRateTermGrid ReserveKind = "rate_term_grid"
)

// ReserveQuote son los datos del préstamo que determinan la reserva del banco.
type ReserveQuote struct {
	AmountFinanced float64
	Rate           float64
	TermMonths     int
}

// ReserveStrategy calcula la reserva (comisión que el banco paga al concesionario).
type ReserveStrategy interface {
	Kind() ReserveKind
	Reserve(q ReserveQuote) float64
}

// FlatReserve es una reserva fija por contrato.
type FlatReserve float64

func (FlatReserve) Kind() ReserveKind { return ReserveFlat }

func (f FlatReserve) Reserve(ReserveQuote) float64 { return float64(f) }

// Bracket es un tramo de importe financiado con límite inferior inclusivo.
type Bracket struct {
	Min   float64 `yaml:"min"`
	Value float64 `yaml:"value"`
}

// brackets se mantiene ordenado de mayor a menor Min.
type brackets []Bracket

func newBrackets(in []Bracket) brackets {
	out := make(brackets, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Min > out[j].Min })
	return out
}

// lookup devuelve el valor del mayor tramo cuyo Min <= amount; 0 por debajo del menor.
func (bs brackets) lookup(amount float64) float64 {
	for _, b := range bs {
		if amount >= b.Min {
			return b.Value
		}
	}
	return 0
}

// AmountGrid asigna una reserva fija según el tramo de importe financiado.
type AmountGrid struct {
	brackets brackets
}

// NewAmountGrid construye la rejilla; el orden de entrada no importa.
func NewAmountGrid(bs ...Bracket) AmountGrid {
	return AmountGrid{brackets: newBrackets(bs)}
}

func (AmountGrid) Kind() ReserveKind { return ReserveAmountGrid }

func (g AmountGrid) Reserve(q ReserveQuote) float64 {
	return g.brackets.lookup(q.AmountFinanced)
}

// RateRow es la fila de una tasa concreta: tramos de importe → porcentaje (0.0115 = 1.15%).
type RateRow struct {
	Rate     float64
	Brackets []Bracket
}

// TermBucket agrupa las filas aplicables a plazos >= MinTerm.
type TermBucket struct {
	MinTerm int
	Rows    []RateRow
}

type termBucket struct {
	minTerm int
	rows    map[int64]brackets // clave: tasa en puntos básicos
}

// RateTermGrid calcula la reserva como porcentaje del importe financiado según
// plazo, tasa exacta e importe. Una tasa sin fila exacta da reserva 0.
type RateTermGrid struct {
	buckets []termBucket // de mayor a menor minTerm
}

// NewRateTermGrid construye la rejilla a partir de sus buckets de plazo.
func NewRateTermGrid(buckets ...TermBucket) RateTermGrid {
	g := RateTermGrid{buckets: make([]termBucket, 0, len(buckets))}
	for _, b := range buckets {
		tb := termBucket{minTerm: b.MinTerm, rows: make(map[int64]brackets, len(b.Rows))}
		for _, row := range b.Rows {
			tb.rows[basisPoints(row.Rate)] = newBrackets(row.Brackets)
		}
		g.buckets = append(g.buckets, tb)
	}
	sort.SliceStable(g.buckets, func(i, j int) bool { return g.buckets[i].minTerm > g.buckets[j].minTerm })
	return g
}

func (RateTermGrid) Kind() ReserveKind { return ReserveRateTermGrid }

func (g RateTermGrid) Reserve(q ReserveQuote) float64 {
	return q.AmountFinanced * g.Percent(q)
}

// Percent devuelve el porcentaje de reserva (fracción) sin aplicarlo al importe.
func (g RateTermGrid) Percent(q ReserveQuote) float64 {
	for _, b := range g.buckets {
		if q.TermMonths < b.minTerm {
			continue
		}
		row, ok := b.rows[basisPoints(q.Rate)]
		if !ok {
			return 0
		}
		return row.lookup(q.AmountFinanced)
	}
	return 0
}

func basisPoints(rate float64) int64 {
	return int64(math.Round(rate * 100))
}

package domain

import (
	"fmt"
	"math"
	"strings"
)

// salesTaxRates es el impuesto de venta combinado (GST/HST/PST/QST) por provincia.
var salesTaxRates = map[string]float64{
	"AB": 0.05,
	"BC": 0.12,
	"SK": 0.11,
	"MB": 0.12,
	"ON": 0.13,
	"QC": 0.14975,
	"NS": 0.15,
	"NB": 0.15,
	"PE": 0.15,
	"NL": 0.15,
}

// SalesTaxRate devuelve la tasa de la provincia (código de dos letras).
func SalesTaxRate(province string) (float64, error) {
	rate, ok := salesTaxRates[strings.ToUpper(strings.TrimSpace(province))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownProvince, province)
	}
	return rate, nil
}

// TaxProvince normaliza el código de provincia; las desconocidas caen a Alberta,
// igual que RegistrationFee.
func TaxProvince(province string) string {
	p := strings.ToUpper(strings.TrimSpace(province))
	if _, ok := salesTaxRates[p]; ok {
		return p
	}
	return DefaultProvince
}

// TradeTaxImpact es el efecto del trade-in sobre la base imponible.
type TradeTaxImpact struct {
	TaxableBase      float64 `json:"taxableBase" yaml:"taxable_base"`
	TaxableReduction float64 `json:"taxableReduction" yaml:"taxable_reduction"`
}

// TradeInTaxImpact descuenta el crédito del trade-in del precio de venta. En
// Canadá el impuesto se paga sobre la diferencia, así que el crédito reduce la
// base uno a uno. El crédito se acota a [0, salePrice].
func TradeInTaxImpact(salePrice, tradeCredit float64) TradeTaxImpact {
	credit := math.Min(math.Max(0, tradeCredit), math.Max(0, salePrice))
	return TradeTaxImpact{
		TaxableBase:      math.Max(0, salePrice) - credit,
		TaxableReduction: credit,
	}
}

// TaxResult es el impuesto de una venta con trade-in.
type TaxResult struct {
	Province            string  `json:"province" yaml:"province"`
	TaxRate             float64 `json:"taxRate" yaml:"tax_rate"`
	SalePrice           float64 `json:"salePrice" yaml:"sale_price"`
	TaxableBase         float64 `json:"taxableBase" yaml:"taxable_base"`
	TotalTax            float64 `json:"totalTax" yaml:"total_tax"`
	TaxSavingsWithTrade float64 `json:"taxSavingsWithTrade" yaml:"tax_savings_with_trade"`
}

// CalculateTaxSavings calcula el impuesto de la venta y lo que ahorra el cliente
// gracias al trade-in.
//
//	base    = salePrice − crédito
//	tax     = base × tasa
//	savings = salePrice × tasa − tax
//
// Importes redondeados a céntimos.
func CalculateTaxSavings(salePrice, tradeInCredit float64, province string) (TaxResult, error) {
	rate, err := SalesTaxRate(province)
	if err != nil {
		return TaxResult{}, err
	}

	impact := TradeInTaxImpact(salePrice, tradeInCredit)
	total := impact.TaxableBase * rate
	without := math.Max(0, salePrice) * rate

	return TaxResult{
		Province:            strings.ToUpper(strings.TrimSpace(province)),
		TaxRate:             rate,
		SalePrice:           salePrice,
		TaxableBase:         impact.TaxableBase,
		TotalTax:            roundCents(total),
		TaxSavingsWithTrade: roundCents(without - total),
	}, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

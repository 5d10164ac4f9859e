package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MaxDealsReturned es el tamaño del ranking devuelto por el maximizador.
const MaxDealsReturned = 10

// GrossProfit es el desglose del beneficio bruto de un deal.
type GrossProfit struct {
	VehicleGross  float64 `json:"vehicleGross" yaml:"vehicle_gross"`
	LenderReserve float64 `json:"lenderReserve" yaml:"lender_reserve"`
	RateUpsell    float64 `json:"rateUpsell" yaml:"rate_upsell"`
	ProductMargin float64 `json:"productMargin" yaml:"product_margin"`
	Total         float64 `json:"total" yaml:"total"`
}

// NewGrossProfit suma las cuatro componentes.
func NewGrossProfit(vehicleGross, reserve, upsell, productMargin float64) GrossProfit {
	return GrossProfit{
		VehicleGross:  vehicleGross,
		LenderReserve: reserve,
		RateUpsell:    upsell,
		ProductMargin: productMargin,
		Total:         vehicleGross + reserve + upsell + productMargin,
	}
}

// Deal es una estructura de financiación candidata: vehículo + programa + bundle.
type Deal struct {
	ID             string           `json:"id" yaml:"id"`
	Rank           int              `json:"rank" yaml:"rank"`
	Vehicle        Vehicle          `json:"vehicle" yaml:"vehicle"`
	Lender         LenderID         `json:"lender" yaml:"lender"`
	Tier           string           `json:"tier" yaml:"tier"`
	SalePrice      float64          `json:"salePrice" yaml:"sale_price"`
	DownPayment    float64          `json:"downPayment" yaml:"down_payment"`
	FinanceAmount  float64          `json:"financeAmount" yaml:"finance_amount"`
	MonthlyPayment float64          `json:"monthlyPayment" yaml:"monthly_payment"`
	Term           int              `json:"term" yaml:"term"`
	Rate           float64          `json:"rate" yaml:"rate"`
	Compliance     ComplianceResult `json:"compliance" yaml:"compliance"`
	ProductBundle  ProductBundle    `json:"productBundle" yaml:"product_bundle"`
	GrossProfit    GrossProfit      `json:"grossProfit" yaml:"gross_profit"`
}

// NewDealID genera un identificador único para un deal.
func NewDealID() string {
	return uuid.NewString()
}

// DealertrackCopy devuelve el bloque de texto que se pega en el portal del banco.
func (d Deal) DealertrackCopy() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Vehicle: %d %s %s\n", d.Vehicle.Year, d.Vehicle.Make, d.Vehicle.Model)
	fmt.Fprintf(&b, "Stock: %s\n", d.Vehicle.ID)
	fmt.Fprintf(&b, "VIN: %s\n", d.Vehicle.VIN)
	fmt.Fprintf(&b, "Price: $%s\n", FormatMoney(d.SalePrice))
	fmt.Fprintf(&b, "Finance: $%s\n", FormatMoney(d.FinanceAmount))
	fmt.Fprintf(&b, "Payment: $%s/month\n", FormatMoney(d.MonthlyPayment))
	fmt.Fprintf(&b, "Term: %d months\n", d.Term)
	fmt.Fprintf(&b, "Rate: %g%%\n", d.Rate)
	fmt.Fprintf(&b, "Lender: %s %s", d.Lender, d.Tier)
	return b.String()
}

// InventoryFilter restringe el inventario evaluado. Campos cero no filtran.
type InventoryFilter struct {
	Make       string `json:"make,omitempty" yaml:"make,omitempty"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty"`
	MaxMileage int    `json:"maxMileage,omitempty" yaml:"max_mileage,omitempty"`
	MinYear    int    `json:"minYear,omitempty" yaml:"min_year,omitempty"`
}

// FindDealsRequest son los datos financieros del cliente y el programa aprobado.
type FindDealsRequest struct {
	Lender          LenderID         `json:"lender" yaml:"lender"`
	Tier            string           `json:"tier" yaml:"tier"`
	MonthlyIncome   float64          `json:"monthlyIncome" yaml:"monthly_income"`
	DownPayment     float64          `json:"downPayment" yaml:"down_payment"`
	TradeInValue    float64          `json:"tradeInValue,omitempty" yaml:"trade_in_value,omitempty"`
	TradeInBalance  float64          `json:"tradeInBalance,omitempty" yaml:"trade_in_balance,omitempty"`
	Term            int              `json:"term" yaml:"term"`
	InventoryFilter *InventoryFilter `json:"inventoryFilter,omitempty" yaml:"inventory_filter,omitempty"`
}

// DealSummary resume una búsqueda para el desk.
type DealSummary struct {
	VehiclesScanned       int     `json:"totalVehiclesScanned" yaml:"vehicles_scanned"`
	CompliantDeals        int     `json:"totalCompliantDeals" yaml:"compliant_deals"`
	TopDealGrossProfit    float64 `json:"topDealGrossProfit" yaml:"top_deal_gross_profit"`
	AverageMonthlyPayment float64 `json:"averageMonthlyPayment" yaml:"average_monthly_payment"`
}

// Summarize calcula el resumen de un ranking de deals.
func Summarize(scanned int, deals []Deal) DealSummary {
	s := DealSummary{VehiclesScanned: scanned, CompliantDeals: len(deals)}
	if len(deals) == 0 {
		return s
	}
	var sum float64
	for _, d := range deals {
		sum += d.MonthlyPayment
		if d.GrossProfit.Total > s.TopDealGrossProfit {
			s.TopDealGrossProfit = d.GrossProfit.Total
		}
	}
	s.AverageMonthlyPayment = sum / float64(len(deals))
	return s
}

// FormatMoney formatea con separador de miles y sin decimales si es entero: 20199 → "20,199".
func FormatMoney(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	if frac == ".00" {
		frac = ""
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteString(frac)
	return b.String()
}

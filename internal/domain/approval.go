package domain

// ApprovalSpec es una aprobación condicional devuelta por un banco:
// tasa, plazo y banda de cuota que el cliente puede asumir.
type ApprovalSpec struct {
	ID           string  `json:"id,omitempty" yaml:"id,omitempty"`
	Bank         string  `json:"bank" yaml:"bank"`       // nombre tal como llega ("TD Auto Finance")
	Program      string  `json:"program" yaml:"program"` // tier tal como llega ("Star 5")
	APR          float64 `json:"apr" yaml:"apr"`
	TermMonths   int     `json:"termMonths" yaml:"term_months"`
	PaymentMin   float64 `json:"paymentMin" yaml:"payment_min"`
	PaymentMax   float64 `json:"paymentMax" yaml:"payment_max"`
	DownPayment  float64 `json:"downPayment,omitempty" yaml:"down_payment,omitempty"`
	Province     string  `json:"province,omitempty" yaml:"province,omitempty"`
	CustomerName string  `json:"customerName,omitempty" yaml:"customer_name,omitempty"`
}

// TradeInfo describe el vehículo que el cliente entrega.
type TradeInfo struct {
	Allowance   float64 `json:"allowance" yaml:"allowance"`
	LienBalance float64 `json:"lienBalance" yaml:"lien_balance"`
	Year        int     `json:"year,omitempty" yaml:"year,omitempty"`
	Make        string  `json:"make,omitempty" yaml:"make,omitempty"`
	Model       string  `json:"model,omitempty" yaml:"model,omitempty"`
	Mileage     int     `json:"mileage,omitempty" yaml:"mileage,omitempty"`
	VIN         string  `json:"vin,omitempty" yaml:"vin,omitempty"`
}

// Equity = Allowance − LienBalance. Negativo significa que el cliente debe más de lo que vale.
func (t *TradeInfo) Equity() float64 {
	if t == nil {
		return 0
	}
	return t.Allowance - t.LienBalance
}

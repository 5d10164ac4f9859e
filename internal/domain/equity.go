package domain

// EquityType clasifica el resultado de la resolución del trade-in.
type EquityType string

const (
	EquityPositive EquityType = "positive"
	EquityNegative EquityType = "negative"
	EquityZero     EquityType = "zero" // sin trade-in
)

// EquityResult es el resultado del resolver de equity.
// EquityAmount siempre es un valor absoluto; Type indica el signo.
type EquityResult struct {
	Type             EquityType `json:"type" yaml:"type"`
	EquityAmount     float64    `json:"equityAmount" yaml:"equity_amount"`
	CanRollover      bool       `json:"canRollover" yaml:"can_rollover"`
	RolledAmount     float64    `json:"rolledAmount" yaml:"rolled_amount"`
	MaxRolloverLimit float64    `json:"maxRolloverLimit" yaml:"max_rollover_limit"`
	Note             string     `json:"note" yaml:"note"`
}

// NoTrade es el resultado cuando no hay vehículo a cambio.
func NoTrade() EquityResult {
	return EquityResult{Type: EquityZero, Note: "No trade-in"}
}

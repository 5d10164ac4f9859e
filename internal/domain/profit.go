package domain

// Recommendation clasifica una aprobación dentro del ranking por beneficio.
type Recommendation string

const (
	RecommendHighestProfit   Recommendation = "HIGHEST_PROFIT"
	RecommendGoodAlternative Recommendation = "GOOD_ALTERNATIVE"
	RecommendLastResort      Recommendation = "LAST_RESORT"
)

// ProfitScenario es el beneficio alcanzable con una aprobación sobre un vehículo,
// partiendo del adelanto máximo que permite la cuota tope.
type ProfitScenario struct {
	ApprovalID          string  `json:"approvalId,omitempty" yaml:"approval_id,omitempty"`
	Lender              string  `json:"lender" yaml:"lender"`
	Program             string  `json:"program" yaml:"program"`
	Rate                float64 `json:"rate" yaml:"rate"`
	Term                int     `json:"term" yaml:"term"`
	IsSubvented         bool    `json:"isSubvented" yaml:"is_subvented"`
	MaxAdvance          float64 `json:"maxAdvance" yaml:"max_advance"`
	MaxSellingPrice     float64 `json:"maxSellingPrice" yaml:"max_selling_price"`
	FrontGross          float64 `json:"frontGross" yaml:"front_gross"`
	Reserve             float64 `json:"reserve" yaml:"reserve"`
	AftermarketCapacity float64 `json:"aftermarketCapacity" yaml:"aftermarket_capacity"`
	BackGross           float64 `json:"backGross" yaml:"back_gross"`
	TotalGross          float64 `json:"totalGross" yaml:"total_gross"`
	Fees                float64 `json:"fees" yaml:"fees"`
	SalesTax            float64 `json:"salesTax" yaml:"sales_tax"`                // sobre maxSellingPrice menos el trade
	TradeTaxSavings     float64 `json:"tradeTaxSavings" yaml:"trade_tax_savings"` // lo que el trade-in ahorra en impuesto
	ProfitRank          int     `json:"profitRank" yaml:"profit_rank"`
}

// ApprovalWithProfit es una aprobación con su potencial de beneficio y posición.
type ApprovalWithProfit struct {
	ApprovalSpec    `yaml:",inline"`
	MaxAdvance      float64        `json:"maxAdvance" yaml:"max_advance"`
	ProfitPotential float64        `json:"profitPotential" yaml:"profit_potential"`
	Rank            int            `json:"rank" yaml:"rank"`
	Recommendation  Recommendation `json:"recommendation" yaml:"recommendation"`
}

// ProfitLoss cuantifica lo que se deja de ganar usando una alternativa en lugar
// del mejor escenario. Todos los campos son >= 0.
type ProfitLoss struct {
	GrossLoss      float64 `json:"grossLoss" yaml:"gross_loss"`
	AdvanceLoss    float64 `json:"advanceLoss" yaml:"advance_loss"`
	PercentageLoss float64 `json:"percentageLoss" yaml:"percentage_loss"`
}

package domain

// ComplianceResult es el resultado de validar DSR y LTV contra un programa.
// DSR y LTV se expresan en porcentaje redondeado a dos decimales.
type ComplianceResult struct {
	DSR      float64  `json:"dsr" yaml:"dsr"`
	DSRPass  bool     `json:"dsrPass" yaml:"dsr_pass"`
	MaxDSR   float64  `json:"maxDsr" yaml:"max_dsr"`
	LTV      float64  `json:"ltv" yaml:"ltv"`
	LTVPass  bool     `json:"ltvPass" yaml:"ltv_pass"`
	LTVLimit float64  `json:"ltvLimit" yaml:"ltv_limit"`
	Overall  bool     `json:"overall" yaml:"overall"`
	Warnings []string `json:"warnings" yaml:"warnings"`
}

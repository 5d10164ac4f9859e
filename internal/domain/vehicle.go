package domain

import "fmt"

// Vehicle es una unidad del inventario del concesionario.
// CollateralValue es el valor de libro (Black Book) usado como denominador del LTV.
type Vehicle struct {
	ID              string  `json:"id" yaml:"id"` // stock number
	VIN             string  `json:"vin" yaml:"vin"`
	Year            int     `json:"year" yaml:"year"`
	Make            string  `json:"make" yaml:"make"`
	Model           string  `json:"model" yaml:"model"`
	Trim            string  `json:"trim,omitempty" yaml:"trim,omitempty"`
	Mileage         int     `json:"mileage" yaml:"mileage"`
	Cost            float64 `json:"yourCost" yaml:"cost"`
	SuggestedPrice  float64 `json:"suggestedPrice" yaml:"suggested_price"`
	CollateralValue float64 `json:"blackBookValue" yaml:"collateral_value"`
	InStock         bool    `json:"inStock" yaml:"in_stock"`
}

// Title devuelve "2022 Jeep Compass" (con trim si lo hay).
func (v Vehicle) Title() string {
	if v.Trim != "" {
		return fmt.Sprintf("%d %s %s %s", v.Year, v.Make, v.Model, v.Trim)
	}
	return fmt.Sprintf("%d %s %s", v.Year, v.Make, v.Model)
}

// UnitCost devuelve el coste del vehículo; si no se conoce, cae al valor de libro.
func (v Vehicle) UnitCost() float64 {
	if v.Cost > 0 {
		return v.Cost
	}
	return v.CollateralValue
}

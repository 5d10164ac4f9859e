package domain

// ProductCategory agrupa productos aftermarket.
type ProductCategory string

const (
	CategoryWarranty   ProductCategory = "warranty"
	CategoryGAP        ProductCategory = "gap"
	CategoryTire       ProductCategory = "tire"
	CategoryAppearance ProductCategory = "appearance"
)

// Product es un producto de F&I con precio de venta y coste fijos.
type Product struct {
	Code        string          `json:"code" yaml:"code"`
	Name        string          `json:"name" yaml:"name"`
	Category    ProductCategory `json:"category" yaml:"category"`
	RetailPrice float64         `json:"retailPrice" yaml:"retail_price"`
	Cost        float64         `json:"cost" yaml:"cost"`
	Margin      float64         `json:"margin" yaml:"margin"`
}

// NewProduct calcula el margen a partir de retail y coste.
func NewProduct(code, name string, category ProductCategory, retail, cost float64) Product {
	return Product{
		Code:        code,
		Name:        name,
		Category:    category,
		RetailPrice: retail,
		Cost:        cost,
		Margin:      retail - cost,
	}
}

// ProductBundle es una combinación ordenada de productos con sus totales.
type ProductBundle struct {
	Tier        string    `json:"tier" yaml:"tier"`
	Products    []Product `json:"products" yaml:"products"`
	TotalRetail float64   `json:"totalRetail" yaml:"total_retail"`
	TotalCost   float64   `json:"totalCost" yaml:"total_cost"`
	TotalMargin float64   `json:"totalMargin" yaml:"total_margin"`
}

// NewBundle suma los totales de los productos dados.
func NewBundle(tier string, products ...Product) ProductBundle {
	b := ProductBundle{Tier: tier, Products: products}
	for _, p := range products {
		b.TotalRetail += p.RetailPrice
		b.TotalCost += p.Cost
		b.TotalMargin += p.Margin
	}
	return b
}

// FitResult indica si un bundle cabe dentro del tope de productos del banco.
type FitResult struct {
	Fits                bool    `json:"fits" yaml:"fits"`
	MaxAllowed          float64 `json:"maxAllowed" yaml:"max_allowed"`
	BundleTotal         float64 `json:"bundleTotal" yaml:"bundle_total"`
	PercentOfCollateral float64 `json:"percentOfBlackBook" yaml:"percent_of_collateral"`
}

package engine

import "github.com/alejandrodnm/dealmax/internal/domain"

// Lista de precios de F&I (retail / coste).
var (
	WarrantyEconomy = domain.NewProduct("WARRANTY_ECONOMY", "Extended Warranty - Economy", domain.CategoryWarranty, 1500, 750)
	WarrantyMid     = domain.NewProduct("WARRANTY_MID", "Extended Warranty - Mid-Range", domain.CategoryWarranty, 2150, 1075)
	WarrantyPremium = domain.NewProduct("WARRANTY_PREMIUM", "Extended Warranty - Premium", domain.CategoryWarranty, 3000, 1500)
	GAP             = domain.NewProduct("GAP", "Gap Insurance", domain.CategoryGAP, 649, 200)
	TireBasic       = domain.NewProduct("TIRE_BASIC", "Tire & Rim - Basic", domain.CategoryTire, 449, 200)
	TirePremium     = domain.NewProduct("TIRE_PREMIUM", "Tire & Rim - Premium", domain.CategoryTire, 649, 325)
	TireUltimate    = domain.NewProduct("TIRE_ULTIMATE", "Tire & Rim - Ultimate", domain.CategoryTire, 1049, 500)
	Paint           = domain.NewProduct("PAINT", "Paint Protection", domain.CategoryAppearance, 349, 175)
	Fabric          = domain.NewProduct("FABRIC", "Fabric Protection", domain.CategoryAppearance, 249, 125)
	PaintFabric     = domain.NewProduct("PAINT_FABRIC", "Paint & Fabric Protection", domain.CategoryAppearance, 499, 250)
)

// Tramos de valor de libro para elegir la garantía.
const (
	midWarrantyFrom     = 20000.0
	premiumWarrantyFrom = 35000.0
)

// Tope de productos como fracción del valor de libro.
const DefaultProductCap = 0.40

// Nombres de los bundles, de menor a mayor.
const (
	BundleWarranty   = "warranty"
	BundleProtection = "protection"
	BundleComplete   = "complete"
)

// Bundler recomienda combinaciones de productos y comprueba que caben en el
// tope del banco.
type Bundler struct {
	caps       map[domain.LenderID]float64
	defaultCap float64
}

// NewBundler devuelve un Bundler con los topes vigentes (Santander 30%, resto 40%).
func NewBundler() *Bundler {
	return &Bundler{
		caps:       map[domain.LenderID]float64{domain.LenderSantander: 0.30},
		defaultCap: DefaultProductCap,
	}
}

// ProductCap devuelve la fracción del valor de libro que el banco acepta en productos.
func (b *Bundler) ProductCap(lender domain.LenderID) float64 {
	if c, ok := b.caps[lender]; ok {
		return c
	}
	return b.defaultCap
}

// WarrantyFor elige la garantía según el valor de libro.
func WarrantyFor(collateralValue float64) domain.Product {
	switch {
	case collateralValue >= premiumWarrantyFrom:
		return WarrantyPremium
	case collateralValue >= midWarrantyFrom:
		return WarrantyMid
	default:
		return WarrantyEconomy
	}
}

// RecommendBundles devuelve siempre tres bundles en orden creciente:
// solo garantía; garantía+GAP+neumáticos básico; garantía+GAP+neumáticos
// premium+pintura y tapicería. El banco no cambia la composición, solo el tope.
func (b *Bundler) RecommendBundles(collateralValue float64, _ domain.LenderID) []domain.ProductBundle {
	w := WarrantyFor(collateralValue)
	return []domain.ProductBundle{
		domain.NewBundle(BundleWarranty, w),
		domain.NewBundle(BundleProtection, w, GAP, TireBasic),
		domain.NewBundle(BundleComplete, w, GAP, TirePremium, PaintFabric),
	}
}

// ValidateProductFit comprueba que el retail del bundle no supere
// collateral × tope del banco. Con collateral <= 0 nada no vacío cabe.
func (b *Bundler) ValidateProductFit(bundle domain.ProductBundle, collateralValue float64, lender domain.LenderID) domain.FitResult {
	maxAllowed := collateralValue * b.ProductCap(lender)
	if maxAllowed < 0 {
		maxAllowed = 0
	}
	res := domain.FitResult{
		MaxAllowed:  maxAllowed,
		BundleTotal: bundle.TotalRetail,
	}
	if collateralValue > 0 {
		res.PercentOfCollateral = round2(bundle.TotalRetail / collateralValue * 100)
	}
	res.Fits = bundle.TotalRetail <= maxAllowed && (collateralValue > 0 || bundle.TotalRetail == 0)
	return res
}

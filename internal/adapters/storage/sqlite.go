package storage

// sqlite.go: histórico de cotizaciones.
//
// Estrategia:
//   - `quotes`: una fila por búsqueda (petición + resumen + versión de catálogo).
//   - `deals`: el ranking devuelto, una fila por deal, ligado a su quote.
//   - `vehicles`: UNA fila por unidad de stock (UPSERT) con el mejor bruto
//     alcanzado y cuántas veces entró en un ranking. Sirve para detectar
//     unidades que nunca cierran.
//   - Tiempos en milisegundos Unix: los rangos se comparan como enteros.
//   - Prune automático al arrancar: quotes > 180d y sus deals.

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alejandrodnm/dealmax/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS quotes (
    id               TEXT PRIMARY KEY,
    created_at       INTEGER NOT NULL,
    catalog_version  TEXT    NOT NULL DEFAULT '',
    lender           TEXT    NOT NULL,
    tier             TEXT    NOT NULL,
    term             INTEGER NOT NULL,
    monthly_income   REAL    NOT NULL DEFAULT 0,
    down_payment     REAL    NOT NULL DEFAULT 0,
    request_json     TEXT    NOT NULL,
    vehicles_scanned INTEGER NOT NULL DEFAULT 0,
    compliant_deals  INTEGER NOT NULL DEFAULT 0,
    top_gross        REAL    NOT NULL DEFAULT 0,
    avg_payment      REAL    NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS deals (
    id              TEXT PRIMARY KEY,
    quote_id        TEXT    NOT NULL REFERENCES quotes(id),
    rank            INTEGER NOT NULL,
    vehicle_id      TEXT    NOT NULL,
    vin             TEXT,
    year            INTEGER NOT NULL DEFAULT 0,
    make            TEXT,
    model           TEXT,
    trim            TEXT,
    mileage         INTEGER NOT NULL DEFAULT 0,
    collateral      REAL    NOT NULL DEFAULT 0,
    lender          TEXT    NOT NULL,
    tier            TEXT    NOT NULL,
    bundle          TEXT,
    sale_price      REAL    NOT NULL DEFAULT 0,
    down_payment    REAL    NOT NULL DEFAULT 0,
    finance_amount  REAL    NOT NULL DEFAULT 0,
    monthly_payment REAL    NOT NULL DEFAULT 0,
    term            INTEGER NOT NULL DEFAULT 0,
    rate            REAL    NOT NULL DEFAULT 0,
    dsr             REAL    NOT NULL DEFAULT 0,
    ltv             REAL    NOT NULL DEFAULT 0,
    vehicle_gross   REAL    NOT NULL DEFAULT 0,
    reserve         REAL    NOT NULL DEFAULT 0,
    rate_upsell     REAL    NOT NULL DEFAULT 0,
    product_margin  REAL    NOT NULL DEFAULT 0,
    total_gross     REAL    NOT NULL DEFAULT 0,
    created_at      INTEGER NOT NULL
);

-- Una fila por unidad de stock, sin duplicados
CREATE TABLE IF NOT EXISTS vehicles (
    vehicle_id   TEXT PRIMARY KEY,
    vin          TEXT,
    title        TEXT,
    times_ranked INTEGER NOT NULL DEFAULT 0,
    best_gross   REAL    NOT NULL DEFAULT 0,
    best_lender  TEXT,
    best_tier    TEXT,
    first_seen   INTEGER NOT NULL,
    last_seen    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_quotes_at    ON quotes(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_deals_quote  ON deals(quote_id);
CREATE INDEX IF NOT EXISTS idx_deals_at     ON deals(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_deals_gross  ON deals(total_gross DESC);
CREATE INDEX IF NOT EXISTS idx_vehicles_last ON vehicles(last_seen DESC);
`

const retentionQuotes = 180 * 24 * time.Hour

// SQLiteStorage implementa ports.QuoteStore usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia datos antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveQuote persiste la cotización, su ranking y el estado por vehículo en una
// sola transacción.
func (s *SQLiteStorage) SaveQuote(ctx context.Context, q domain.Quote, deals []domain.Deal) error {
	if q.ID == "" {
		return fmt.Errorf("storage.SaveQuote: quote without id")
	}
	created := q.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	at := created.UnixMilli()

	reqJSON, err := json.Marshal(q.Request)
	if err != nil {
		return fmt.Errorf("storage.SaveQuote: marshal request: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveQuote: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO quotes
			(id, created_at, catalog_version, lender, tier, term, monthly_income,
			 down_payment, request_json, vehicles_scanned, compliant_deals,
			 top_gross, avg_payment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, at, q.CatalogVersion,
		string(q.Request.Lender), q.Request.Tier, q.Request.Term,
		q.Request.MonthlyIncome, q.Request.DownPayment, string(reqJSON),
		q.Summary.VehiclesScanned, q.Summary.CompliantDeals,
		q.Summary.TopDealGrossProfit, q.Summary.AverageMonthlyPayment,
	); err != nil {
		return fmt.Errorf("storage.SaveQuote: insert quote: %w", err)
	}

	if len(deals) == 0 {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("storage.SaveQuote: commit: %w", err)
		}
		return nil
	}

	dealStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO deals
			(id, quote_id, rank, vehicle_id, vin, year, make, model, trim, mileage,
			 collateral, lender, tier, bundle, sale_price, down_payment,
			 finance_amount, monthly_payment, term, rate, dsr, ltv,
			 vehicle_gross, reserve, rate_upsell, product_margin, total_gross,
			 created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveQuote: prepare deals: %w", err)
	}
	defer dealStmt.Close()

	vehicleStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vehicles
			(vehicle_id, vin, title, times_ranked, best_gross, best_lender,
			 best_tier, first_seen, last_seen)
		VALUES (?, ?, ?, 1, ?, ?, ?, ?, ?)
		ON CONFLICT(vehicle_id) DO UPDATE SET
			vin          = excluded.vin,
			title        = excluded.title,
			times_ranked = times_ranked + 1,
			best_lender  = CASE WHEN excluded.best_gross > best_gross THEN excluded.best_lender ELSE best_lender END,
			best_tier    = CASE WHEN excluded.best_gross > best_gross THEN excluded.best_tier ELSE best_tier END,
			best_gross   = MAX(best_gross, excluded.best_gross),
			last_seen    = excluded.last_seen
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveQuote: prepare vehicles: %w", err)
	}
	defer vehicleStmt.Close()

	for _, d := range deals {
		v := d.Vehicle
		if _, err := dealStmt.ExecContext(ctx,
			d.ID, q.ID, d.Rank, v.ID, v.VIN, v.Year, v.Make, v.Model, v.Trim, v.Mileage,
			v.CollateralValue, string(d.Lender), d.Tier, d.ProductBundle.Tier,
			d.SalePrice, d.DownPayment, d.FinanceAmount, d.MonthlyPayment,
			d.Term, d.Rate, d.Compliance.DSR, d.Compliance.LTV,
			d.GrossProfit.VehicleGross, d.GrossProfit.LenderReserve,
			d.GrossProfit.RateUpsell, d.GrossProfit.ProductMargin,
			d.GrossProfit.Total, at,
		); err != nil {
			return fmt.Errorf("storage.SaveQuote: insert deal %s: %w", d.ID, err)
		}
	}

	// una unidad cuenta una vez por cotización, con su mejor bruto
	for _, d := range bestPerVehicle(deals) {
		v := d.Vehicle
		if _, err := vehicleStmt.ExecContext(ctx,
			v.ID, v.VIN, v.Title(), d.GrossProfit.Total,
			string(d.Lender), d.Tier,
			at, // first_seen: ignorado en ON CONFLICT
			at,
		); err != nil {
			return fmt.Errorf("storage.SaveQuote: upsert vehicle %s: %w", v.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveQuote: commit: %w", err)
	}
	return nil
}

// bestPerVehicle deja un deal por unidad de stock, el de mayor bruto, en el
// orden en que aparece cada unidad por primera vez.
func bestPerVehicle(deals []domain.Deal) []domain.Deal {
	idx := make(map[string]int, len(deals))
	out := make([]domain.Deal, 0, len(deals))
	for _, d := range deals {
		i, seen := idx[d.Vehicle.ID]
		if !seen {
			idx[d.Vehicle.ID] = len(out)
			out = append(out, d)
			continue
		}
		if d.GrossProfit.Total > out[i].GrossProfit.Total {
			out[i] = d
		}
	}
	return out
}

// GetHistory devuelve los deals cotizados en el rango dado, los de mayor
// beneficio bruto primero.
func (s *SQLiteStorage) GetHistory(ctx context.Context, from, to time.Time) ([]domain.Deal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, rank, vehicle_id, vin, year, make, model, trim, mileage,
		       collateral, lender, tier, bundle, sale_price, down_payment,
		       finance_amount, monthly_payment, term, rate, dsr, ltv,
		       vehicle_gross, reserve, rate_upsell, product_margin, total_gross
		FROM deals
		WHERE created_at BETWEEN ? AND ?
		ORDER BY total_gross DESC, created_at ASC, rank ASC
	`, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("storage.GetHistory: query: %w", err)
	}
	defer rows.Close()

	var deals []domain.Deal
	for rows.Next() {
		var d domain.Deal
		var lender string
		var vin, mk, model, trim, bundle sql.NullString

		if err := rows.Scan(
			&d.ID, &d.Rank,
			&d.Vehicle.ID, &vin, &d.Vehicle.Year, &mk, &model, &trim,
			&d.Vehicle.Mileage, &d.Vehicle.CollateralValue,
			&lender, &d.Tier, &bundle,
			&d.SalePrice, &d.DownPayment, &d.FinanceAmount, &d.MonthlyPayment,
			&d.Term, &d.Rate, &d.Compliance.DSR, &d.Compliance.LTV,
			&d.GrossProfit.VehicleGross, &d.GrossProfit.LenderReserve,
			&d.GrossProfit.RateUpsell, &d.GrossProfit.ProductMargin,
			&d.GrossProfit.Total,
		); err != nil {
			return nil, fmt.Errorf("storage.GetHistory: scan row: %w", err)
		}

		d.Lender = domain.LenderID(lender)
		d.Vehicle.VIN = vin.String
		d.Vehicle.Make = mk.String
		d.Vehicle.Model = model.String
		d.Vehicle.Trim = trim.String
		d.ProductBundle.Tier = bundle.String
		// solo se persisten deals que pasaron compliance
		d.Compliance.DSRPass, d.Compliance.LTVPass, d.Compliance.Overall = true, true, true
		deals = append(deals, d)
	}

	return deals, rows.Err()
}

// VehicleStats es el acumulado histórico de una unidad de stock.
type VehicleStats struct {
	VehicleID   string
	Title       string
	TimesRanked int
	BestGross   float64
	BestLender  domain.LenderID
	BestTier    string
	LastSeen    time.Time
}

// GetVehicleStats devuelve el acumulado de una unidad. ok es false si nunca
// entró en un ranking.
func (s *SQLiteStorage) GetVehicleStats(ctx context.Context, vehicleID string) (VehicleStats, bool, error) {
	var vs VehicleStats
	var lender, title sql.NullString
	var tier sql.NullString
	var lastSeen int64

	err := s.db.QueryRowContext(ctx, `
		SELECT vehicle_id, title, times_ranked, best_gross, best_lender, best_tier, last_seen
		FROM vehicles WHERE vehicle_id = ?`, vehicleID,
	).Scan(&vs.VehicleID, &title, &vs.TimesRanked, &vs.BestGross, &lender, &tier, &lastSeen)
	if err == sql.ErrNoRows {
		return VehicleStats{}, false, nil
	}
	if err != nil {
		return VehicleStats{}, false, fmt.Errorf("storage.GetVehicleStats: query %s: %w", vehicleID, err)
	}

	vs.Title = title.String
	vs.BestLender = domain.LenderID(lender.String)
	vs.BestTier = tier.String
	vs.LastSeen = time.UnixMilli(lastSeen).UTC()
	return vs, true, nil
}

// CountQuotes devuelve cuántas cotizaciones hay guardadas.
func (s *SQLiteStorage) CountQuotes(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quotes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("storage.CountQuotes: %w", err)
	}
	return n, nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld elimina cotizaciones antiguas y sus deals.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionQuotes).UnixMilli()
	s.db.ExecContext(ctx, `DELETE FROM deals WHERE quote_id IN (SELECT id FROM quotes WHERE created_at < ?)`, cutoff)
	s.db.ExecContext(ctx, `DELETE FROM quotes WHERE created_at < ?`, cutoff)
	s.db.ExecContext(ctx, `DELETE FROM vehicles WHERE last_seen < ?`, cutoff)
}

package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/dealmax/internal/domain"
)

const (
	defaultPerPage = 100
	maxPages       = 500
)

// FeedConfig configura el cliente del feed HTTP del DMS.
type FeedConfig struct {
	BaseURL    string
	APIKey     string
	PerPage    int
	RatePerSec float64
	Timeout    time.Duration
	RetryWait  time.Duration
}

// Feed implementa ports.InventoryProvider contra el endpoint paginado
// GET {base}/vehicles?page=N&per_page=M.
type Feed struct {
	c       *client
	base    string
	perPage int
}

// NewFeed crea un Feed. BaseURL es obligatorio.
func NewFeed(cfg FeedConfig) (*Feed, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("inventory.NewFeed: empty base url")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("inventory.NewFeed: parse base url: %w", err)
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	return &Feed{
		c:       newClient(cfg.RatePerSec, cfg.Timeout, cfg.RetryWait, cfg.APIKey),
		base:    base,
		perPage: perPage,
	}, nil
}

// FetchInventory pagina el feed hasta agotar resultados.
func (f *Feed) FetchInventory(ctx context.Context) ([]domain.Vehicle, error) {
	var all []domain.Vehicle

	for page := 1; page <= maxPages; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(f.perPage))

		var resp vehiclesPage
		if err := f.c.get(ctx, f.base+"/vehicles?"+q.Encode(), &resp); err != nil {
			return nil, fmt.Errorf("inventory.FetchInventory: page %d: %w", page, err)
		}

		all = append(all, mapVehicles(resp.Vehicles)...)

		if len(resp.Vehicles) < f.perPage {
			break
		}
		if resp.Total > 0 && len(all) >= resp.Total {
			break
		}
	}

	slog.Debug("inventory fetched", "source", "feed", "vehicles", len(all))
	return all, nil
}

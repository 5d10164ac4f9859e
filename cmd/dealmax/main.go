package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alejandrodnm/dealmax/config"
	"github.com/alejandrodnm/dealmax/internal/adapters/inventory"
	"github.com/alejandrodnm/dealmax/internal/adapters/metrics"
	"github.com/alejandrodnm/dealmax/internal/adapters/notify"
	"github.com/alejandrodnm/dealmax/internal/adapters/storage"
	"github.com/alejandrodnm/dealmax/internal/catalog"
	"github.com/alejandrodnm/dealmax/internal/desk"
	"github.com/alejandrodnm/dealmax/internal/domain"
	"github.com/alejandrodnm/dealmax/internal/engine"
	"github.com/alejandrodnm/dealmax/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (empty = built-in defaults)")
	requestPath := flag.String("request", "", "path to request file (YAML or JSON)")
	mode := flag.String("mode", "deals", "deals | profit | rank | history | catalog")
	vehicleID := flag.String("vehicle", "", "stock number to compare approvals on (profit mode)")
	table := flag.Bool("table", false, "print full tables (default: compact 1-line)")
	dealertrack := flag.Bool("copy", false, "print the Dealertrack block for the top deal")
	format := flag.String("format", "text", "output format: text|json|yaml")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	metricsAddr := flag.String("metrics", "", "serve Prometheus /metrics on this address (overrides config)")
	watch := flag.Duration("watch", 0, "re-quote every interval until interrupted (deals mode)")
	since := flag.Duration("since", 7*24*time.Hour, "history window (history mode)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
	if *watch > 0 {
		cfg.Engine.WatchSeconds = int(watch.Seconds())
	}
	setupLogger(cfg.Log, os.Stderr)

	slog.Info("dealmax starting",
		"config", *configPath,
		"mode", *mode,
		"format", *format,
		"catalog", catalogLabel(cfg.Catalog.Path),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, options{
		mode:        *mode,
		requestPath: *requestPath,
		vehicleID:   *vehicleID,
		table:       *table,
		copy:        *dealertrack,
		format:      *format,
		since:       *since,
	}); err != nil {
		slog.Error("dealmax exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("dealmax stopped cleanly")
}

type options struct {
	mode        string
	requestPath string
	vehicleID   string
	table       bool
	copy        bool
	format      string
	since       time.Duration
}

func run(ctx context.Context, cfg *config.Config, opts options) error {
	cat, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	holder := catalog.NewHolder(cat)
	if cfg.Catalog.Path != "" {
		go reloadOnHangup(ctx, holder, cfg.Catalog.Path)
	}

	if opts.mode == "catalog" {
		return printCatalog(os.Stdout, holder.Current())
	}

	notifier, err := newNotifier(opts)
	if err != nil {
		return err
	}

	var recorder engine.Recorder = engine.NopRecorder{}
	if cfg.Metrics.Addr != "" {
		prom := metrics.NewPrometheus(prometheus.NewRegistry())
		recorder = prom
		go func() {
			if err := prom.Serve(ctx, cfg.Metrics.Addr); err != nil {
				slog.Error("metrics server failed", "err", err)
			}
		}()
	}

	inv, err := newInventory(cfg)
	if err != nil {
		return err
	}

	var store ports.QuoteStore
	if cfg.Storage.Enabled {
		s, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			return fmt.Errorf("open storage %q: %w", cfg.Storage.DSN, err)
		}
		defer s.Close()
		store = s
	}

	maximizer := engine.NewMaximizer(engine.MaximizerConfig{
		TopN:    cfg.Engine.TopN,
		Workers: cfg.Engine.Workers,
	}, holder, engine.NewBundler(), recorder)
	profit := engine.NewProfitMaximizer(engine.ProfitConfig{
		BackGrossShare: *cfg.Engine.BackGrossShare,
		DefaultTerm:    cfg.Engine.DefaultTerm,
	}, holder, recorder)

	d := desk.New(desk.Config{
		Province:    cfg.Engine.Province,
		DocFee:      cfg.Engine.DocFee,
		DefaultTerm: cfg.Engine.DefaultTerm,
	}, inv, store, notifier, holder, maximizer, profit)

	switch opts.mode {
	case "history":
		return runHistory(ctx, d, notifier, opts.since)
	case "deals", "profit", "rank":
	default:
		return fmt.Errorf("unknown mode %q", opts.mode)
	}

	if opts.requestPath == "" {
		return errors.New("-request is required for mode " + opts.mode)
	}
	req, err := loadRequest(opts.requestPath)
	if err != nil {
		return err
	}

	switch opts.mode {
	case "deals":
		if req.Deal == nil {
			return errors.New("request file has no deal section")
		}
		if interval := cfg.WatchInterval(); interval > 0 {
			return d.Watch(ctx, *req.Deal, interval)
		}
		_, _, err = d.Quote(ctx, *req.Deal)
		return err
	case "profit":
		vehicle := opts.vehicleID
		if vehicle == "" {
			vehicle = req.VehicleID
		}
		if vehicle == "" {
			return errors.New("-vehicle is required for profit mode")
		}
		_, err = d.Compare(ctx, vehicle, req.Approvals, req.Trade)
		return err
	default:
		_, err = d.Rank(ctx, req.Approvals, req.Term)
		return err
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(path)
}

func catalogLabel(path string) string {
	if path == "" {
		return "built-in " + catalog.DefaultVersion
	}
	return path
}

// reloadOnHangup recarga el catálogo desde disco con cada SIGHUP.
func reloadOnHangup(ctx context.Context, holder *catalog.Holder, path string) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := holder.ReloadFile(path); err != nil {
				slog.Error("catalog reload failed", "path", path, "err", err)
			}
		}
	}
}

func newNotifier(opts options) (ports.Notifier, error) {
	if opts.format == "" || opts.format == "text" {
		return notify.NewConsole(opts.table, opts.copy), nil
	}
	f, err := notify.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}
	return notify.NewEncoder(f), nil
}

func newInventory(cfg *config.Config) (ports.InventoryProvider, error) {
	if cfg.Inventory.FeedURL != "" {
		return inventory.NewFeed(inventory.FeedConfig{
			BaseURL:    cfg.Inventory.FeedURL,
			APIKey:     cfg.Inventory.APIKey,
			PerPage:    cfg.Inventory.PerPage,
			RatePerSec: cfg.Inventory.RatePerSec,
			Timeout:    cfg.InventoryTimeout(),
		})
	}
	if cfg.Inventory.Path == "" {
		return nil, errors.New("no inventory source: set inventory.path or inventory.feed_url")
	}
	return inventory.NewFile(cfg.Inventory.Path), nil
}

func runHistory(ctx context.Context, d *desk.Desk, notifier ports.Notifier, since time.Duration) error {
	to := time.Now()
	deals, err := d.History(ctx, to.Add(-since), to)
	if err != nil {
		return err
	}
	for i := range deals {
		deals[i].Rank = i + 1
	}
	return notifier.NotifyDeals(ctx, domain.Summarize(len(deals), deals), deals)
}

func setupLogger(cfg config.LogConfig, w io.Writer) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}

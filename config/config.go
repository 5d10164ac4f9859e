package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa de dealmax.
type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Inventory InventoryConfig `yaml:"inventory"`
	Storage   StorageConfig   `yaml:"storage"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Log       LogConfig       `yaml:"log"`
}

// EngineConfig controla el motor de deals y el análisis de beneficio.
type EngineConfig struct {
	TopN           int      `yaml:"top_n"`
	Workers        int      `yaml:"workers"` // 0 = runtime.NumCPU()
	DefaultTerm    int      `yaml:"default_term"`
	DocFee         float64  `yaml:"doc_fee"`
	Province       string   `yaml:"province"`
	BackGrossShare *float64 `yaml:"back_gross_share"` // nil = 0.5; 0 es válido
	WatchSeconds   int      `yaml:"watch_seconds"`    // 0 = una sola cotización
}

// CatalogConfig indica de dónde sale el catálogo de programas.
type CatalogConfig struct {
	Path string `yaml:"path"` // vacío = catálogo embebido
}

// InventoryConfig elige la fuente del inventario: archivo o feed HTTP.
type InventoryConfig struct {
	Path           string  `yaml:"path"`
	FeedURL        string  `yaml:"feed_url"`
	APIKey         string  `yaml:"api_key"`
	PerPage        int     `yaml:"per_page"`
	RatePerSec     float64 `yaml:"rate_per_sec"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// StorageConfig controla dónde se persisten las cotizaciones.
type StorageConfig struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// MetricsConfig controla el endpoint de Prometheus.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // vacío = sin endpoint
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// Default devuelve la configuración por defecto, con overrides de entorno.
// Se usa cuando no hay archivo de configuración.
func Default() *Config {
	_ = godotenv.Load()
	var cfg Config
	applyEnvOverrides(&cfg)
	setDefaults(&cfg)
	return &cfg
}

// WatchInterval devuelve el intervalo de recotización; 0 si está desactivado.
func (c *Config) WatchInterval() time.Duration {
	return time.Duration(c.Engine.WatchSeconds) * time.Second
}

// InventoryTimeout devuelve el timeout HTTP del feed.
func (c *Config) InventoryTimeout() time.Duration {
	return time.Duration(c.Inventory.TimeoutSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("DEALMAX_DB"); v != "" {
		cfg.Storage.DSN = v
		cfg.Storage.Enabled = true
	}
	if v := os.Getenv("DEALMAX_INVENTORY_URL"); v != "" {
		cfg.Inventory.FeedURL = v
	}
	if v := os.Getenv("DEALMAX_INVENTORY_API_KEY"); v != "" {
		cfg.Inventory.APIKey = v
	}
	if v := os.Getenv("DEALMAX_CATALOG"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("DEALMAX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.Workers = n
		}
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Engine.TopN <= 0 {
		cfg.Engine.TopN = 10
	}
	if cfg.Engine.DefaultTerm <= 0 {
		cfg.Engine.DefaultTerm = 84
	}
	if cfg.Engine.DocFee <= 0 {
		cfg.Engine.DocFee = 799
	}
	if cfg.Engine.Province == "" {
		cfg.Engine.Province = "AB"
	}
	if cfg.Engine.BackGrossShare == nil {
		share := 0.5
		cfg.Engine.BackGrossShare = &share
	}
	if cfg.Inventory.PerPage <= 0 {
		cfg.Inventory.PerPage = 100
	}
	if cfg.Inventory.RatePerSec <= 0 {
		cfg.Inventory.RatePerSec = 5
	}
	if cfg.Inventory.TimeoutSeconds <= 0 {
		cfg.Inventory.TimeoutSeconds = 10
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "dealmax.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

func (c *Config) validate() error {
	if s := c.Engine.BackGrossShare; s != nil && (math.IsNaN(*s) || *s < 0 || *s > 1) {
		return fmt.Errorf("engine.back_gross_share must be in [0, 1], got %g", *s)
	}
	if c.Engine.DefaultTerm < 24 || c.Engine.DefaultTerm > 84 {
		return fmt.Errorf("engine.default_term must be between 24 and 84, got %d", c.Engine.DefaultTerm)
	}
	if c.Engine.WatchSeconds < 0 {
		return fmt.Errorf("engine.watch_seconds cannot be negative")
	}
	return nil
}

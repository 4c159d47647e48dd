// Package config provides configuration management for the cartonization service.
//
// Values are layered, later layers winning: built-in defaults, a .env file,
// an optional YAML file and finally the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DotEnvFile is read from the working directory when present.
const DotEnvFile = ".env"

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Cache    CacheConfig    `yaml:"cache"`
	Packing  PackingConfig  `yaml:"packing"`
	Database DatabaseConfig `yaml:"database"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Products ProductsConfig `yaml:"products"`
	Kafka    KafkaConfig    `yaml:"kafka"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `yaml:"port"`
	RateLimit       int           `yaml:"rate_limit"`
	RateWindow      time.Duration `yaml:"rate_window"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	SwaggerUser     string        `yaml:"swagger_user"`
	SwaggerPass     string        `yaml:"swagger_pass"`
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// CacheConfig sizes the packing solution cache.
type CacheConfig struct {
	Size   int           `yaml:"size"`
	TTL    time.Duration `yaml:"ttl"`
	Shards int           `yaml:"shards"`
}

// PackingConfig tunes the packing computation.
type PackingConfig struct {
	ComputationBudget  time.Duration `yaml:"computation_budget"`
	FallbackBudget     time.Duration `yaml:"fallback_budget"`
	DimensionalDivisor float64       `yaml:"dimensional_divisor"`
	MaxUnits           int           `yaml:"max_units"`
}

// DatabaseConfig holds MongoDB configuration. When disabled the catalog and
// the solution archive live in memory.
type DatabaseConfig struct {
	Enabled      bool          `yaml:"enabled"`
	URI          string        `yaml:"uri"`
	DatabaseName string        `yaml:"database"`
	SolutionsTTL time.Duration `yaml:"solutions_ttl"`
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int           `yaml:"circuit_breaker_failure_threshold"`
	CircuitBreakerSuccessThreshold int           `yaml:"circuit_breaker_success_threshold"`
	CircuitBreakerTimeout          time.Duration `yaml:"circuit_breaker_timeout"`
}

// CatalogConfig holds carton catalog configuration.
type CatalogConfig struct {
	// WatchSchedule is a six-field cron spec or a descriptor such as "@every 30s".
	WatchSchedule string `yaml:"watch_schedule"`
	// Seed populates an empty catalog at startup.
	Seed []CartonSeed `yaml:"seed"`
}

// CartonSeed is a carton as written in the YAML file.
type CartonSeed struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Length    float64 `yaml:"length"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	MaxWeight float64 `yaml:"max_weight"`
	Cost      string  `yaml:"cost"`
	NoFragile bool    `yaml:"no_fragile"`
	Inactive  bool    `yaml:"inactive"`
}

// ProductsConfig configures the product dimension service. An empty BaseURL
// disables lookups; callers must then send dimensions and weight.
type ProductsConfig struct {
	BaseURL       string        `yaml:"base_url"`
	Timeout       time.Duration `yaml:"timeout"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
	Authoritative bool          `yaml:"authoritative"`
}

// KafkaConfig configures event publishing. When disabled events are logged.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			RateLimit:       100,
			RateWindow:      time.Minute,
			RequestTimeout:  5 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		},
		Log: LogConfig{Level: "info"},
		Cache: CacheConfig{
			Size:   10000,
			TTL:    24 * time.Hour,
			Shards: 16,
		},
		Packing: PackingConfig{
			ComputationBudget:  200 * time.Millisecond,
			FallbackBudget:     100 * time.Millisecond,
			DimensionalDivisor: 5000,
			MaxUnits:           1000,
		},
		Database: DatabaseConfig{
			URI:                            "mongodb://localhost:27017",
			DatabaseName:                   "cartonization",
			SolutionsTTL:                   30 * 24 * time.Hour,
			CircuitBreakerFailureThreshold: 5,
			CircuitBreakerSuccessThreshold: 2,
			CircuitBreakerTimeout:          30 * time.Second,
		},
		Catalog: CatalogConfig{
			WatchSchedule: "*/30 * * * * *",
			Seed:          DefaultCartons(),
		},
		Products: ProductsConfig{
			Timeout:  500 * time.Millisecond,
			CacheTTL: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "wms.packing.events",
		},
	}
}

// DefaultCartons is the catalog used when no seed is configured.
func DefaultCartons() []CartonSeed {
	return []CartonSeed{
		{ID: "BOX-S", Name: "Small box", Length: 20, Width: 20, Height: 20, MaxWeight: 10, Cost: "0.80"},
		{ID: "BOX-M", Name: "Medium box", Length: 40, Width: 30, Height: 30, MaxWeight: 20, Cost: "1.50"},
		{ID: "BOX-L", Name: "Large box", Length: 60, Width: 40, Height: 40, MaxWeight: 30, Cost: "2.40"},
	}
}

// Load builds the configuration. path names an optional YAML file; an empty
// path skips it.
func Load(path string) (Config, error) {
	cfg := Default()

	dotenv, err := godotenv.Read(DotEnvFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read %s: %w", DotEnvFile, err)
	}
	applyEnv(&cfg, mapLookup(dotenv))

	if path != "" {
		if err := loadYAML(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg, os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, errors.New("server.request_timeout must be positive"))
	}
	if c.Cache.Size <= 0 || c.Cache.Shards <= 0 {
		errs = append(errs, errors.New("cache.size and cache.shards must be positive"))
	}
	if c.Packing.ComputationBudget <= 0 || c.Packing.FallbackBudget <= 0 {
		errs = append(errs, errors.New("packing budgets must be positive"))
	}
	if c.Packing.MaxUnits <= 0 {
		errs = append(errs, errors.New("packing.max_units must be positive"))
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		errs = append(errs, errors.New("kafka.brokers and kafka.topic are required when kafka is enabled"))
	}
	if _, err := c.Catalog.Cartons(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Cartons converts the seed into catalog cartons.
func (c CatalogConfig) Cartons() ([]model.Carton, error) {
	cartons := make([]model.Carton, 0, len(c.Seed))
	for i, s := range c.Seed {
		if s.ID == "" {
			return nil, fmt.Errorf("catalog.seed[%d]: id is required", i)
		}
		cost := decimal.Zero
		if s.Cost != "" {
			var err error
			if cost, err = decimal.NewFromString(s.Cost); err != nil {
				return nil, fmt.Errorf("catalog.seed[%d]: cost: %w", i, err)
			}
		}
		status := model.CartonStatusActive
		if s.Inactive {
			status = model.CartonStatusInactive
		}
		cartons = append(cartons, model.Carton{
			ID:         s.ID,
			Name:       s.Name,
			Dimensions: model.Dimensions{Length: s.Length, Width: s.Width, Height: s.Height},
			MaxWeight:  s.MaxWeight,
			Cost:       cost,
			Status:     status,
			NoFragile:  s.NoFragile,
		})
	}
	return cartons, nil
}

type lookupFunc func(key string) (string, bool)

func mapLookup(m map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// applyEnv overrides cfg with every variable lookup knows about.
func applyEnv(cfg *Config, lookup lookupFunc) {
	s := &cfg.Server
	s.Port = lookup.getEnv("PORT", s.Port)
	s.RateLimit = lookup.getEnvInt("RATE_LIMIT", s.RateLimit)
	s.RateWindow = lookup.getEnvDuration("RATE_WINDOW", s.RateWindow)
	s.RequestTimeout = lookup.getEnvDuration("REQUEST_TIMEOUT", s.RequestTimeout)
	s.ShutdownTimeout = lookup.getEnvDuration("SHUTDOWN_TIMEOUT", s.ShutdownTimeout)
	s.CORSOrigins = lookup.getEnvList("CORS_ORIGINS", s.CORSOrigins)
	s.SwaggerUser = lookup.getEnv("SWAGGER_USER", s.SwaggerUser)
	s.SwaggerPass = lookup.getEnv("SWAGGER_PASS", s.SwaggerPass)

	cfg.Log.Level = lookup.getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Pretty = lookup.getEnvBool("LOG_PRETTY", cfg.Log.Pretty)

	cfg.Cache.Size = lookup.getEnvInt("CACHE_SIZE", cfg.Cache.Size)
	cfg.Cache.TTL = lookup.getEnvDuration("CACHE_TTL", cfg.Cache.TTL)
	cfg.Cache.Shards = lookup.getEnvInt("CACHE_SHARDS", cfg.Cache.Shards)

	p := &cfg.Packing
	p.ComputationBudget = lookup.getEnvDuration("PACKING_COMPUTATION_BUDGET", p.ComputationBudget)
	p.FallbackBudget = lookup.getEnvDuration("PACKING_FALLBACK_BUDGET", p.FallbackBudget)
	p.DimensionalDivisor = lookup.getEnvFloat("PACKING_DIMENSIONAL_DIVISOR", p.DimensionalDivisor)
	p.MaxUnits = lookup.getEnvInt("PACKING_MAX_UNITS", p.MaxUnits)

	d := &cfg.Database
	d.Enabled = lookup.getEnvBool("MONGODB_ENABLED", d.Enabled)
	d.URI = lookup.getEnv("MONGODB_URI", d.URI)
	d.DatabaseName = lookup.getEnv("MONGODB_DATABASE", d.DatabaseName)
	d.SolutionsTTL = lookup.getEnvDuration("MONGODB_SOLUTIONS_TTL", d.SolutionsTTL)
	d.CircuitBreakerFailureThreshold = lookup.getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", d.CircuitBreakerFailureThreshold)
	d.CircuitBreakerSuccessThreshold = lookup.getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", d.CircuitBreakerSuccessThreshold)
	d.CircuitBreakerTimeout = lookup.getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", d.CircuitBreakerTimeout)

	cfg.Catalog.WatchSchedule = lookup.getEnv("CATALOG_WATCH_SCHEDULE", cfg.Catalog.WatchSchedule)

	pr := &cfg.Products
	pr.BaseURL = lookup.getEnv("PRODUCT_SERVICE_URL", pr.BaseURL)
	pr.Timeout = lookup.getEnvDuration("PRODUCT_SERVICE_TIMEOUT", pr.Timeout)
	pr.CacheTTL = lookup.getEnvDuration("PRODUCT_CACHE_TTL", pr.CacheTTL)
	pr.Authoritative = lookup.getEnvBool("PRODUCT_DIMENSIONS_AUTHORITATIVE", pr.Authoritative)

	k := &cfg.Kafka
	k.Enabled = lookup.getEnvBool("KAFKA_ENABLED", k.Enabled)
	k.Brokers = lookup.getEnvList("KAFKA_BROKERS", k.Brokers)
	k.Topic = lookup.getEnv("KAFKA_TOPIC", k.Topic)
}

func (l lookupFunc) getEnv(key, defaultValue string) string {
	if v, ok := l(key); ok && v != "" {
		return v
	}
	return defaultValue
}

func (l lookupFunc) getEnvInt(key string, defaultValue int) int {
	if v, ok := l(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func (l lookupFunc) getEnvFloat(key string, defaultValue float64) float64 {
	if v, ok := l(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func (l lookupFunc) getEnvBool(key string, defaultValue bool) bool {
	if v, ok := l(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func (l lookupFunc) getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, ok := l(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func (l lookupFunc) getEnvList(key string, defaultValue []string) []string {
	v, ok := l(key)
	if !ok || v == "" {
		return defaultValue
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}

package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// DeliveryPolicy holds the tunable constants of the delivery cost formula.
type DeliveryPolicy struct {
	FreeRadiusKm float64
	BaseCost     float64
	PerKmRate    float64
	MaxCost      float64
}

// Prefixes maps order origins to order number prefixes.
type Prefixes struct {
	Delivery string
	Pickup   string
	Operator string
}

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	CatalogAddress    string
	GeocoderAddress   string
	JWTSecret         string
	AdminLogin        string
	AdminPassword     string
	LogLevel          string
	KafkaBrokers      string
	NotifyTopic       string
	NotifyWorkers     int
	NotifyQueueSize   int
	DependencyTimeout time.Duration
	ShutdownTimeout   time.Duration

	RestaurantLat      float64
	RestaurantLon      float64
	Delivery           DeliveryPolicy
	PickupDiscountRate float64
	PickupLocation     string
	PromoThreshold     int64
	PromoCode          string

	StrictTransitions  bool
	AllocationRetries  int
	CatalogConcurrency int
	Prefixes           Prefixes
}

const (
	defaultRunAddress         = ":8080"
	defaultJWTSecret          = "change-me-in-production"
	defaultLogLevel           = "info"
	defaultNotifyTopic        = "orders.created"
	defaultNotifyWorkers      = 2
	defaultNotifyQueueSize    = 128
	defaultDependencyTimeout  = 3 * time.Second
	defaultShutdownTimeout    = 10 * time.Second
	defaultRestaurantLat      = 47.2260
	defaultRestaurantLon      = 39.6861
	defaultFreeRadiusKm       = 2
	defaultBaseCost           = 100
	defaultPerKmRate          = 25
	defaultMaxCost            = 500
	defaultPickupDiscountRate = 0.10
	defaultPickupLocation     = "main hall"
	defaultPromoThreshold     = 2500
	defaultPromoCode          = "FREE_ITEM"
	defaultAllocationRetries  = 5
	defaultCatalogConcurrency = 4
	defaultDeliveryPrefix     = "D"
	defaultPickupPrefix       = "P"
	defaultOperatorPrefix     = "O"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		CatalogAddress:    getString(lookup, "CATALOG_ADDRESS", ""),
		GeocoderAddress:   getString(lookup, "GEOCODER_ADDRESS", ""),
		JWTSecret:         getString(lookup, "JWT_SECRET", defaultJWTSecret),
		AdminLogin:        getString(lookup, "ADMIN_LOGIN", ""),
		AdminPassword:     getString(lookup, "ADMIN_PASSWORD", ""),
		LogLevel:          getString(lookup, "LOG_LEVEL", defaultLogLevel),
		KafkaBrokers:      getString(lookup, "KAFKA_BROKERS", ""),
		NotifyTopic:       getString(lookup, "NOTIFY_TOPIC", defaultNotifyTopic),
		NotifyWorkers:     getInt(lookup, "NOTIFY_WORKERS", defaultNotifyWorkers),
		NotifyQueueSize:   getInt(lookup, "NOTIFY_QUEUE", defaultNotifyQueueSize),
		DependencyTimeout: getDuration(lookup, "DEPENDENCY_TIMEOUT", defaultDependencyTimeout),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),

		RestaurantLat: getFloat(lookup, "RESTAURANT_LAT", defaultRestaurantLat),
		RestaurantLon: getFloat(lookup, "RESTAURANT_LON", defaultRestaurantLon),
		Delivery: DeliveryPolicy{
			FreeRadiusKm: getFloat(lookup, "DELIVERY_FREE_RADIUS_KM", defaultFreeRadiusKm),
			BaseCost:     getFloat(lookup, "DELIVERY_BASE_COST", defaultBaseCost),
			PerKmRate:    getFloat(lookup, "DELIVERY_PER_KM", defaultPerKmRate),
			MaxCost:      getFloat(lookup, "DELIVERY_MAX_COST", defaultMaxCost),
		},
		PickupDiscountRate: getFloat(lookup, "PICKUP_DISCOUNT_RATE", defaultPickupDiscountRate),
		PickupLocation:     getString(lookup, "PICKUP_LOCATION", defaultPickupLocation),
		PromoThreshold:     int64(getInt(lookup, "PROMO_FREE_ITEM_THRESHOLD", defaultPromoThreshold)),
		PromoCode:          getString(lookup, "PROMO_FREE_ITEM_CODE", defaultPromoCode),

		StrictTransitions:  getBool(lookup, "STRICT_TRANSITIONS", true),
		AllocationRetries:  getInt(lookup, "ALLOCATION_RETRIES", defaultAllocationRetries),
		CatalogConcurrency: getInt(lookup, "CATALOG_CONCURRENCY", defaultCatalogConcurrency),
		Prefixes: Prefixes{
			Delivery: getString(lookup, "PREFIX_DELIVERY", defaultDeliveryPrefix),
			Pickup:   getString(lookup, "PREFIX_PICKUP", defaultPickupPrefix),
			Operator: getString(lookup, "PREFIX_OPERATOR", defaultOperatorPrefix),
		},
	}

	fs := flag.NewFlagSet("orderdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		dependencyTimeoutStr = cfg.DependencyTimeout.String()
		shutdownTimeoutStr   = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.CatalogAddress, "c", cfg.CatalogAddress, "Catalog service base URL")
	fs.StringVar(&cfg.GeocoderAddress, "g", cfg.GeocoderAddress, "Geocoder service base URL")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.AdminLogin, "admin-login", cfg.AdminLogin, "Login of the admin account created at startup")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.KafkaBrokers, "kafka-brokers", cfg.KafkaBrokers, "Comma separated Kafka brokers for operator notifications")
	fs.StringVar(&cfg.NotifyTopic, "notify-topic", cfg.NotifyTopic, "Kafka topic for operator notifications")
	fs.IntVar(&cfg.NotifyWorkers, "notify-workers", cfg.NotifyWorkers, "Number of notification workers")
	fs.StringVar(&dependencyTimeoutStr, "dependency-timeout", dependencyTimeoutStr, "Timeout for catalog and geocoder calls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.BoolVar(&cfg.StrictTransitions, "strict-transitions", cfg.StrictTransitions, "Reject status changes outside the transition table")
	fs.IntVar(&cfg.AllocationRetries, "allocation-retries", cfg.AllocationRetries, "Order number allocation attempts")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.DependencyTimeout, err = time.ParseDuration(dependencyTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid dependency timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	if passwordFile, ok := lookup("ADMIN_PASSWORD_FILE"); ok && passwordFile != "" {
		content, err := os.ReadFile(passwordFile)
		if err != nil {
			return nil, fmt.Errorf("read admin password file: %w", err)
		}
		cfg.AdminPassword = strings.TrimSpace(string(content))
	}

	cfg.AdminLogin = strings.TrimSpace(cfg.AdminLogin)
	if (cfg.AdminLogin == "") != (cfg.AdminPassword == "") {
		return nil, fmt.Errorf("admin login and password must be provided together")
	}

	if cfg.NotifyWorkers <= 0 {
		cfg.NotifyWorkers = defaultNotifyWorkers
	}

	if cfg.NotifyQueueSize <= 0 {
		cfg.NotifyQueueSize = defaultNotifyQueueSize
	}

	if cfg.DependencyTimeout <= 0 {
		cfg.DependencyTimeout = defaultDependencyTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.AllocationRetries <= 0 {
		cfg.AllocationRetries = defaultAllocationRetries
	}

	if cfg.CatalogConcurrency <= 0 {
		cfg.CatalogConcurrency = defaultCatalogConcurrency
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.CatalogAddress == "" {
		return nil, fmt.Errorf("catalog address must be provided")
	}

	if cfg.GeocoderAddress == "" {
		return nil, fmt.Errorf("geocoder address must be provided")
	}

	if cfg.PickupDiscountRate < 0 || cfg.PickupDiscountRate >= 1 {
		return nil, fmt.Errorf("pickup discount rate must be within [0, 1), got %v", cfg.PickupDiscountRate)
	}

	if cfg.Delivery.FreeRadiusKm < 0 || cfg.Delivery.BaseCost < 0 || cfg.Delivery.PerKmRate < 0 || cfg.Delivery.MaxCost < 0 {
		return nil, fmt.Errorf("delivery policy values must not be negative")
	}

	for _, prefix := range []*string{&cfg.Prefixes.Delivery, &cfg.Prefixes.Pickup, &cfg.Prefixes.Operator} {
		*prefix = strings.ToUpper(strings.TrimSpace(*prefix))
		if !validPrefix(*prefix) {
			return nil, fmt.Errorf("order number prefix %q must be one or more letters A-Z", *prefix)
		}
	}

	return cfg, nil
}

func validPrefix(prefix string) bool {
	if prefix == "" {
		return false
	}
	for _, r := range prefix {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

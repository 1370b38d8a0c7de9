package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Districts DistrictsConfig `yaml:"districts" mapstructure:"districts"`
	Seed      SeedConfig      `yaml:"seed" mapstructure:"seed"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// ServerConfig configures the REST API server.
type ServerConfig struct {
	Port              int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins    []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	RatePerSecond     float64  `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst         int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	SearchPerMinute   float64  `yaml:"search_per_minute" mapstructure:"search_per_minute"`
	ShutdownTimeoutMS int      `yaml:"shutdown_timeout_ms" mapstructure:"shutdown_timeout_ms"`
}

// SearchConfig bounds search and nearby queries.
type SearchConfig struct {
	DefaultLimit  int     `yaml:"default_limit" mapstructure:"default_limit"`
	MaxLimit      int     `yaml:"max_limit" mapstructure:"max_limit"`
	NearbyRadiusM float64 `yaml:"nearby_radius_m" mapstructure:"nearby_radius_m"`
	NearbyLimit   int     `yaml:"nearby_limit" mapstructure:"nearby_limit"`
}

// DistrictsConfig locates the district polygon source.
type DistrictsConfig struct {
	GeoJSONPath string `yaml:"geojson_path" mapstructure:"geojson_path"`
}

// SeedConfig locates the seed dataset.
type SeedConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LAUNDRYMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "laundry.db")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})
	v.SetDefault("server.rate_per_second", 100.0/900.0) // 100 requests per 15 minutes
	v.SetDefault("server.rate_burst", 100)
	v.SetDefault("server.search_per_minute", 30.0)
	v.SetDefault("server.shutdown_timeout_ms", 5000)
	v.SetDefault("search.default_limit", 8)
	v.SetDefault("search.max_limit", 50)
	v.SetDefault("search.nearby_radius_m", 2000.0)
	v.SetDefault("search.nearby_limit", 10)
	v.SetDefault("districts.geojson_path", "districts.json")
	v.SetDefault("seed.path", "seed/laundries.yaml")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the fields required for the given run mode. Modes map to
// commands: "serve", "seed", "districts", "export", "status".
func (c *Config) Validate(mode string) error {
	var problems []string

	checkStore := func() {
		switch c.Store.Driver {
		case "sqlite":
			if c.Store.SQLitePath == "" {
				problems = append(problems, "store.sqlite_path is required for the sqlite driver")
			}
		case "postgres":
			if c.Store.DatabaseURL == "" {
				problems = append(problems, "store.database_url is required for the postgres driver")
			}
		default:
			problems = append(problems, "store.driver must be sqlite or postgres")
		}
	}

	switch mode {
	case "serve":
		checkStore()
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Search.DefaultLimit <= 0 || c.Search.DefaultLimit > c.Search.MaxLimit {
			problems = append(problems, "search.default_limit must be between 1 and search.max_limit")
		}
	case "seed":
		checkStore()
		if c.Seed.Path == "" {
			problems = append(problems, "seed.path is required")
		}
	case "districts":
		if c.Districts.GeoJSONPath == "" {
			problems = append(problems, "districts.geojson_path is required")
		}
	case "export", "status":
		checkStore()
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

package config

import (
	"encoding/json"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/joho/godotenv"
	"github.com/rxtech-lab/argo-charts/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvPolygonAPIKey = "POLYGON_API_KEY"
	EnvDataDir       = "CHARTSYNC_DATA_DIR"
	EnvProvider      = "CHARTSYNC_PROVIDER"
	EnvRedisAddr     = "REDIS_ADDR"
)

// Config is the chartsync configuration file.
type Config struct {
	DataDir       string          `yaml:"data_dir" json:"data_dir" validate:"required" jsonschema:"title=Data Directory,description=Directory holding the parquet cache"`
	WatchlistFile string          `yaml:"watchlist_file" json:"watchlist_file" validate:"required" jsonschema:"title=Watchlist File,description=Newline-delimited list of tickers"`
	Provider      ProviderConfig  `yaml:"provider" json:"provider" jsonschema:"title=Provider"`
	Sync          SyncConfig      `yaml:"sync" json:"sync" jsonschema:"title=Synchronization"`
	Redis         RedisConfig     `yaml:"redis" json:"redis" jsonschema:"title=Redis,description=Company info cache; disabled when addr is empty"`
	Scheduler     SchedulerConfig `yaml:"scheduler" json:"scheduler" jsonschema:"title=Scheduler"`
	Server        ServerConfig    `yaml:"server" json:"server" jsonschema:"title=Server"`
	LogLevel      string          `yaml:"log_level" json:"log_level" validate:"oneof=debug info warn error" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error"`
}

// ProviderConfig selects the market data provider.
type ProviderConfig struct {
	Preferred     string `yaml:"preferred" json:"preferred" validate:"required,oneof=polygon yahoo binance" jsonschema:"title=Preferred Provider,enum=polygon,enum=yahoo,enum=binance"`
	Fallback      string `yaml:"fallback" json:"fallback" validate:"omitempty,oneof=polygon yahoo binance" jsonschema:"title=Fallback Provider,description=Used when the preferred provider fails to initialize,enum=polygon,enum=yahoo,enum=binance"`
	PolygonAPIKey string `yaml:"polygon_api_key" json:"polygon_api_key,omitempty" jsonschema:"title=Polygon API Key"`
	YahooBaseURL  string `yaml:"yahoo_base_url" json:"yahoo_base_url,omitempty" validate:"omitempty,url" jsonschema:"title=Yahoo Base URL"`
}

// SyncConfig controls synchronization.
type SyncConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout" validate:"gt=0" jsonschema:"title=Provider Timeout,description=Timeout of one provider request e.g. 30s"`
	DisplayYears int           `yaml:"display_years" json:"display_years" validate:"min=1,max=20" jsonschema:"title=Display Years,minimum=1,maximum=20"`
}

// RedisConfig configures the company info cache.
type RedisConfig struct {
	Addr     string        `yaml:"addr" json:"addr,omitempty" validate:"omitempty,hostname_port" jsonschema:"title=Address"`
	Password string        `yaml:"password" json:"password,omitempty" jsonschema:"title=Password"`
	DB       int           `yaml:"db" json:"db" validate:"min=0" jsonschema:"title=Database,minimum=0"`
	TTL      time.Duration `yaml:"ttl" json:"ttl" validate:"gte=0" jsonschema:"title=TTL,description=Lifetime of a cached entry e.g. 6h"`
}

// SchedulerConfig configures the periodic watchlist refresh.
type SchedulerConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled" jsonschema:"title=Enabled"`
	Cron    string `yaml:"cron" json:"cron,omitempty" validate:"required_if=Enabled true" jsonschema:"title=Cron Expression,description=Standard five-field cron expression"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" json:"listen_addr" validate:"required" jsonschema:"title=Listen Address"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		DataDir:       "data",
		WatchlistFile: "listStocks",
		Provider: ProviderConfig{
			Preferred:     "polygon",
			Fallback:      "yahoo",
			PolygonAPIKey: "",
			YahooBaseURL:  "",
		},
		Sync: SyncConfig{
			Timeout:      30 * time.Second,
			DisplayYears: 2,
		},
		Redis: RedisConfig{
			Addr:     "",
			Password: "",
			DB:       0,
			TTL:      6 * time.Hour,
		},
		Scheduler: SchedulerConfig{
			Enabled: false,
			Cron:    "30 22 * * 1-5",
		},
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
		LogLevel: "info",
	}
}

// Load reads path on top of the defaults, applies environment overrides and validates the result.
// An empty path skips the file. A .env file in the working directory is loaded when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeConfigLoadFailed, err, "failed to read config %s", path)
		}

		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeConfigLoadFailed, err, "failed to parse config %s", path)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if value := os.Getenv(EnvPolygonAPIKey); value != "" {
		c.Provider.PolygonAPIKey = value
	}

	if value := os.Getenv(EnvDataDir); value != "" {
		c.DataDir = value
	}

	if value := os.Getenv(EnvProvider); value != "" {
		c.Provider.Preferred = strings.ToLower(strings.TrimSpace(value))
	}

	if value := os.Getenv(EnvRedisAddr); value != "" {
		c.Redis.Addr = value
	}
}

// Validate checks the struct tags.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	return nil
}

// Schema generates the JSON schema of the configuration file.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(time.Duration(0)) {
				//nolint:exhaustruct
				return &jsonschema.Schema{
					Type:   "string",
					Format: "duration",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(&Config{})
	schema.Title = "chartsync-config"
	schema.Description = "Configuration schema for chartsync"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// SchemaJSON returns the indented JSON schema.
func SchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

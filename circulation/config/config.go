package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
)

const (
	envPrefix     = "CIRCULATION"
	envConfigPath = "CIRCULATION_CONFIG"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Postgres adapters.
const (
	AdapterPGX  = "pgx"
	AdapterSQL  = "sql"
	AdapterSQLX = "sqlx"
)

// Policy store drivers.
const (
	PolicyStoreStatic = "static"
	PolicyStoreSQL    = "sql"
)

// Notify drivers.
const (
	NotifyLog  = "log"
	NotifyAMQP = "amqp"
	NotifyNone = "none"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the top-level configuration of the circulation service.
type Config struct {
	Store         StoreConfig       `mapstructure:"store" yaml:"store"`
	HTTP          HTTPConfig        `mapstructure:"http" yaml:"http"`
	PolicyStore   PolicyStoreConfig `mapstructure:"policy_store" yaml:"policy_store"`
	DefaultPolicy PolicyConfig      `mapstructure:"default_policy" yaml:"default_policy"`
	Policies      []PolicyConfig    `mapstructure:"policies" yaml:"policies"`
	Notify        NotifyConfig      `mapstructure:"notify" yaml:"notify"`
	Log           LogConfig         `mapstructure:"log" yaml:"log"`
	Telemetry     TelemetryConfig   `mapstructure:"telemetry" yaml:"telemetry"`
	Retry         RetryConfig       `mapstructure:"retry" yaml:"retry"`
}

// StoreConfig selects the event store engine.
type StoreConfig struct {
	Driver    string `mapstructure:"driver" yaml:"driver"`   // "memory" or "postgres"
	Adapter   string `mapstructure:"adapter" yaml:"adapter"` // "pgx", "sql" or "sqlx"
	DSN       string `mapstructure:"dsn" yaml:"dsn"`
	TableName string `mapstructure:"table_name" yaml:"table_name"`
	MaxConns  int32  `mapstructure:"max_conns" yaml:"max_conns"`
	MinConns  int32  `mapstructure:"min_conns" yaml:"min_conns"`
}

// HTTPConfig holds the listen address of the API.
type HTTPConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// Addr returns host:port.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// PolicyStoreConfig selects where library policies come from.
type PolicyStoreConfig struct {
	Driver    string `mapstructure:"driver" yaml:"driver"`         // "static" or "sql"
	SQLDriver string `mapstructure:"sql_driver" yaml:"sql_driver"` // "postgres" or "sqlite3"
	DSN       string `mapstructure:"dsn" yaml:"dsn"`
}

// PolicyConfig is a library policy as written in the config file. FinePerDay is a decimal like "0.50".
type PolicyConfig struct {
	LibraryID         string `mapstructure:"library_id" yaml:"library_id,omitempty"`
	LoanDurationDays  int    `mapstructure:"loan_duration_days" yaml:"loan_duration_days"`
	FinePerDay        string `mapstructure:"fine_per_day" yaml:"fine_per_day"`
	MaxBooksPerMember int    `mapstructure:"max_books_per_member" yaml:"max_books_per_member"`
	HoldWindowDays    int    `mapstructure:"hold_window_days" yaml:"hold_window_days"`
}

// ToPolicy converts and validates the policy.
func (c PolicyConfig) ToPolicy() (core.LibraryPolicy, error) {
	fine, err := core.ParseMoney(c.FinePerDay)
	if err != nil {
		return core.LibraryPolicy{}, err
	}

	policy := core.LibraryPolicy{
		LibraryID:         c.LibraryID,
		LoanDurationDays:  c.LoanDurationDays,
		FinePerDay:        fine,
		MaxBooksPerMember: c.MaxBooksPerMember,
		HoldWindowDays:    c.HoldWindowDays,
	}

	if err = policy.Validate(); err != nil {
		return core.LibraryPolicy{}, err
	}

	return policy, nil
}

// NotifyConfig selects the notification dispatcher.
type NotifyConfig struct {
	Driver   string `mapstructure:"driver" yaml:"driver"` // "log", "amqp" or "none"
	URL      string `mapstructure:"url" yaml:"url"`
	Exchange string `mapstructure:"exchange" yaml:"exchange"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // "json" or "text"
}

// TelemetryConfig switches tracing and the Prometheus endpoint on and off.
type TelemetryConfig struct {
	Tracing      bool   `mapstructure:"tracing" yaml:"tracing"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name" yaml:"service_name"`
	Prometheus   bool   `mapstructure:"prometheus" yaml:"prometheus"`
}

// RetryConfig configures the retry of operation sets on stale state.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay" yaml:"base_delay"`
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "circulation.yml"
	}

	return filepath.Join(dir, "circulation", "config.yml")
}

// Path returns the config file to use: the explicit path, else $CIRCULATION_CONFIG, else DefaultPath.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if fromEnv := os.Getenv(envConfigPath); fromEnv != "" {
		return fromEnv
	}

	return DefaultPath()
}

// setDefaults registers every key, AutomaticEnv only overrides keys viper knows.
func setDefaults(v *viper.Viper) {
	defaultPolicy := core.DefaultPolicy("")

	v.SetDefault("store.driver", StoreMemory)
	v.SetDefault("store.adapter", AdapterPGX)
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.table_name", "events")
	v.SetDefault("store.max_conns", 8)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("http.host", "127.0.0.1")
	v.SetDefault("http.port", 8080)
	v.SetDefault("policy_store.driver", PolicyStoreStatic)
	v.SetDefault("policy_store.sql_driver", "sqlite3")
	v.SetDefault("policy_store.dsn", "")
	v.SetDefault("default_policy.loan_duration_days", defaultPolicy.LoanDurationDays)
	v.SetDefault("default_policy.fine_per_day", defaultPolicy.FinePerDay.String())
	v.SetDefault("default_policy.max_books_per_member", defaultPolicy.MaxBooksPerMember)
	v.SetDefault("default_policy.hold_window_days", defaultPolicy.HoldWindowDays)
	v.SetDefault("notify.driver", NotifyLog)
	v.SetDefault("notify.url", "")
	v.SetDefault("notify.exchange", "circulation")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("telemetry.service_name", "circulation")
	v.SetDefault("telemetry.otlp_endpoint", "localhost:4317")
	v.SetDefault("telemetry.tracing", false)
	v.SetDefault("telemetry.prometheus", true)
	v.SetDefault("retry.max_attempts", 1)
	v.SetDefault("retry.base_delay", 10*time.Millisecond)
}

// Load reads the config file at path (see Path) and the environment.
// A missing file is fine, defaults and environment apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(Path(path))
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the config to path (see Path).
func Save(cfg *Config, path string) error {
	path = Path(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)

	if err = enc.Encode(cfg); err != nil {
		return err
	}

	return enc.Close()
}

// Default returns the configuration Load produces without file and environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)

	return &cfg
}

// Validate checks the enumerations and the policies.
func (c *Config) Validate() error {
	var errs []error

	check := func(field, value string, allowed ...string) {
		for _, a := range allowed {
			if value == a {
				return
			}
		}

		errs = append(errs, fmt.Errorf("%w: %s must be one of %s, got %q",
			ErrInvalidConfig, field, strings.Join(allowed, "|"), value))
	}

	check("store.driver", c.Store.Driver, StoreMemory, StorePostgres)
	check("store.adapter", c.Store.Adapter, AdapterPGX, AdapterSQL, AdapterSQLX)
	check("policy_store.driver", c.PolicyStore.Driver, PolicyStoreStatic, PolicyStoreSQL)
	check("notify.driver", c.Notify.Driver, NotifyLog, NotifyAMQP, NotifyNone)
	check("log.format", c.Log.Format, "json", "text")

	if c.Store.Driver == StorePostgres && c.Store.DSN == "" {
		errs = append(errs, fmt.Errorf("%w: store.dsn is required for postgres", ErrInvalidConfig))
	}

	if c.Notify.Driver == NotifyAMQP && c.Notify.URL == "" {
		errs = append(errs, fmt.Errorf("%w: notify.url is required for amqp", ErrInvalidConfig))
	}

	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("%w: retry.max_attempts must be positive", ErrInvalidConfig))
	}

	if _, err := c.DefaultPolicy.ToPolicy(); err != nil {
		errs = append(errs, fmt.Errorf("%w: default_policy: %w", ErrInvalidConfig, err))
	}

	for i, p := range c.Policies {
		if p.LibraryID == "" {
			errs = append(errs, fmt.Errorf("%w: policies[%d].library_id is required", ErrInvalidConfig, i))
		}

		if _, err := p.ToPolicy(); err != nil {
			errs = append(errs, fmt.Errorf("%w: policies[%d]: %w", ErrInvalidConfig, i, err))
		}
	}

	return errors.Join(errs...)
}

// LibraryPolicies converts the configured policies and the fallback policy.
func (c *Config) LibraryPolicies() ([]core.LibraryPolicy, core.LibraryPolicy, error) {
	fallback, err := c.DefaultPolicy.ToPolicy()
	if err != nil {
		return nil, core.LibraryPolicy{}, err
	}

	policies := make([]core.LibraryPolicy, 0, len(c.Policies))
	for _, p := range c.Policies {
		policy, policyErr := p.ToPolicy()
		if policyErr != nil {
			return nil, core.LibraryPolicy{}, policyErr
		}

		policies = append(policies, policy)
	}

	return policies, fallback, nil
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "GOODS_CONFIG_FILE"

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

var ErrInvalidConfig = errors.New("invalid config")

type consumers struct {
	CompanyStatsGroup string `mapstructure:"company_stats_group"`
}

type topics struct {
	CatalogItems string `mapstructure:"catalog_items"`
}

type brokerTLS struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

type brokerSASL struct {
	User string `mapstructure:"user"`
	Pass string `mapstructure:"pass"`
}

type broker struct {
	Enabled            bool       `mapstructure:"enabled"`
	SeedBrokers        []string   `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string   `mapstructure:"schema_registry_urls"`
	Topics             topics     `mapstructure:"topics"`
	Consumers          consumers  `mapstructure:"consumers"`
	TLS                brokerTLS  `mapstructure:"tls"`
	SASL               brokerSASL `mapstructure:"sasl"`
}

type scraper struct {
	UserAgent         string            `mapstructure:"user_agent"`
	NavigationTimeout time.Duration     `mapstructure:"navigation_timeout"`
	RPS               float64           `mapstructure:"rps"`
	RevealCycles      int               `mapstructure:"reveal_cycles"`
	OverlayTimeout    time.Duration     `mapstructure:"overlay_timeout"`
	Sources           []string          `mapstructure:"sources"`
	ListingURLs       map[string]string `mapstructure:"listing_urls"`
}

type Config struct {
	LogLevel       string  `mapstructure:"log_level"`
	HTTPServerAddr string  `mapstructure:"http_server_addr"`
	MetricsAddr    string  `mapstructure:"metrics_addr"`
	Store          string  `mapstructure:"store"`
	SQLDB          string  `mapstructure:"sql_db"`
	MaxConns       int32   `mapstructure:"max_conns"`
	PageSize       int     `mapstructure:"page_size"`
	Scraper        scraper `mapstructure:"scraper"`
	Broker         broker  `mapstructure:"broker"`
}

func Load() Config {
	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFile reads and validates the YAML config at path. Absent keys
// take their defaults.
func LoadFile(path string) (Config, error) {
	const op = "config.LoadFile"

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("metrics_addr", ":9090")
	v.SetDefault("store", StorePostgres)
	v.SetDefault("max_conns", 10)
	v.SetDefault("page_size", 16)
	v.SetDefault("scraper.navigation_timeout", "30s")
	v.SetDefault("scraper.rps", 1.0)
	v.SetDefault("scraper.reveal_cycles", 5)
	v.SetDefault("scraper.overlay_timeout", "5s")
	v.SetDefault("broker.topics.catalog_items", "catalog-items")
	v.SetDefault("broker.consumers.company_stats_group", "company-stats")
}

func (c Config) validate() error {
	var errs []error

	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	switch c.Store {
	case StorePostgres:
		if c.SQLDB == "" {
			errs = append(errs, errors.New("sql_db: required for postgres store"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("store: unknown %q", c.Store))
	}

	if c.PageSize <= 0 {
		errs = append(errs, errors.New("page_size: must be positive"))
	}

	if c.Broker.Enabled {
		if len(c.Broker.SeedBrokers) == 0 {
			errs = append(errs, errors.New("broker.seed_brokers: required"))
		}
		if len(c.Broker.SchemaRegistryURLs) == 0 {
			errs = append(errs, errors.New("broker.schema_registry_urls: required"))
		}
	}

	if len(errs) != 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// getConfigFilepath parses the command line. Commands define their own
// flags on [pflag.CommandLine] before calling [Load].
func getConfigFilepath() string {
	arg := pflag.String("config", "/config.yaml", "config file")
	pflag.Parse()
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	template := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	MetricsAddr=%q
	Store=%q
	MaxConns=%d
	PageSize=%d

	Scraper:
	UserAgent=%q
	NavigationTimeout=%s
	RPS=%.2f
	RevealCycles=%d
	OverlayTimeout=%s
	Sources=%q

	BrokerConfig:
	Enabled=%t
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		CatalogItems=%q
	Consumers:
		CompanyStatsGroup=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(template, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.MetricsAddr,
		c.Store,
		c.MaxConns,
		c.PageSize,
		c.Scraper.UserAgent,
		c.Scraper.NavigationTimeout,
		c.Scraper.RPS,
		c.Scraper.RevealCycles,
		c.Scraper.OverlayTimeout,
		c.Scraper.Sources,
		c.Broker.Enabled,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.CatalogItems,
		c.Broker.Consumers.CompanyStatsGroup,
	)
}

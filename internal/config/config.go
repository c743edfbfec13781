package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type AffiliateConfig struct {
	Env          string `yaml:"env" env:"AFFILIATE_ENV" env-default:"local"`
	GRPCServer   `yaml:"grpc_server"`
	HTTPServer   `yaml:"http_server"`
	AffiliateDB  `yaml:"affiliate_db"`
	Storage      `yaml:"storage"`
	RedisCache   `yaml:"redis"`
	KafkaService `yaml:"kafka-service"`
	LogConfig    `yaml:"log_config"`
	Commission   `yaml:"commission"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"AFFILIATE_GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"AFFILIATE_GRPC_PORT" env-default:"50061"`
}

type HTTPServer struct {
	Host string `yaml:"host" env:"AFFILIATE_HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"AFFILIATE_HTTP_PORT" env-default:"8081"`
}

type AffiliateDB struct {
	Dsn             string        `yaml:"dsn" env:"AFFILIATE_DB_DSN"`
	MaxOpenConns    int           `yaml:"max_open_conns" env-default:"20"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env-default:"30m"`
	MigrationsPath  string        `yaml:"migrations_path" env:"AFFILIATE_MIGRATIONS_PATH" env-default:"migrations"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"AFFILIATE_STORAGE_DRIVER" env-default:"postgres"`
}

type RedisCache struct {
	Enabled  bool          `yaml:"enabled" env:"AFFILIATE_REDIS_ENABLED"`
	Addr     string        `yaml:"addr" env:"AFFILIATE_REDIS_ADDR" env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"AFFILIATE_REDIS_PASSWORD"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl" env-default:"5m"`
}

type KafkaService struct {
	Enabled    bool     `yaml:"enabled" env:"AFFILIATE_KAFKA_ENABLED"`
	Brokers    []string `yaml:"brokers" env:"AFFILIATE_KAFKA_BROKERS" env-separator:","`
	Topic      string   `yaml:"topic" env-default:"affiliate-events"`
	Username   string   `yaml:"username" env:"AFFILIATE_KAFKA_USERNAME"`
	Password   string   `yaml:"password" env:"AFFILIATE_KAFKA_PASSWORD"`
	Mechanism  string   `yaml:"mechanism"`
	TLSEnabled bool     `yaml:"tls_enabled"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"AFFILIATE_LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"text"`
	LogOutput string `yaml:"log_output" env-default:"stdout"`
}

// Commission holds the engine defaults as decimal strings.
type Commission struct {
	DefaultPrimaryPercent   string `yaml:"default_primary_percent" env:"DEFAULT_PRIMARY_COMMISSION" env-default:"50"`
	DefaultReferringPercent string `yaml:"default_referring_percent" env:"DEFAULT_REFERRING_COMMISSION" env-default:"25"`
	DefaultDealValue        string `yaml:"default_deal_value" env-default:"1000"`
	MinimumPayoutAmount     string `yaml:"minimum_payout_amount" env:"MINIMUM_PAYOUT_AMOUNT" env-default:"0"`
	LeadCodePrefix          string `yaml:"lead_code_prefix" env-default:"LEAD"`
	LeadCodeDigits          int    `yaml:"lead_code_digits" env-default:"3"`
	ReferralTreeDepth       int    `yaml:"referral_tree_depth" env-default:"2"`
}

// Policy parses the commission section into domain defaults.
func (c Commission) Policy() (domain.CommissionPolicy, error) {
	policy := domain.DefaultCommissionPolicy()

	fields := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"default_primary_percent", c.DefaultPrimaryPercent, &policy.DefaultPrimaryPercent},
		{"default_referring_percent", c.DefaultReferringPercent, &policy.DefaultReferringPercent},
		{"default_deal_value", c.DefaultDealValue, &policy.DefaultDealValue},
		{"minimum_payout_amount", c.MinimumPayoutAmount, &policy.MinimumPayoutAmount},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		v, err := decimal.NewFromString(f.raw)
		if err != nil {
			return policy, fmt.Errorf("commission.%s: %w", f.name, err)
		}
		*f.dst = v
	}

	hundred := decimal.NewFromInt(100)
	for _, p := range []decimal.Decimal{policy.DefaultPrimaryPercent, policy.DefaultReferringPercent} {
		if p.IsNegative() || p.GreaterThan(hundred) {
			return policy, fmt.Errorf("commission percentage %s out of [0, 100]", p)
		}
	}
	if !policy.DefaultDealValue.IsPositive() {
		return policy, fmt.Errorf("commission.default_deal_value must be positive")
	}
	if policy.MinimumPayoutAmount.IsNegative() {
		return policy, fmt.Errorf("commission.minimum_payout_amount must not be negative")
	}

	if c.LeadCodePrefix != "" {
		policy.LeadCodePrefix = c.LeadCodePrefix
	}
	if c.LeadCodeDigits > 0 {
		policy.LeadCodeDigits = c.LeadCodeDigits
	}
	if c.ReferralTreeDepth > 0 {
		policy.ReferralTreeDepth = c.ReferralTreeDepth
	}
	return policy, nil
}

func Load(configPath string) (*AffiliateConfig, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg AffiliateConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch cfg.Storage.Driver {
	case StorageDriverPostgres:
		if cfg.AffiliateDB.Dsn == "" {
			return nil, fmt.Errorf("affiliate_db.dsn is required for the postgres driver")
		}
	case StorageDriverMemory:
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if cfg.KafkaService.Enabled && len(cfg.KafkaService.Brokers) == 0 {
		return nil, fmt.Errorf("kafka-service.brokers is required when kafka is enabled")
	}

	return &cfg, nil
}

func MustLoad() *AffiliateConfig {

	// Processing env config variable and file
	configPath := os.Getenv("AFFILIATE_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("AFFILIATE_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v\n", err)
	}

	return cfg
}

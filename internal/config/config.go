package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/flash-crm/leads-cli/internal/scorer"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig    `yaml:"store" mapstructure:"store"`
	Import ImportConfig   `yaml:"import" mapstructure:"import"`
	Scorer scorer.Weights `yaml:"scorer" mapstructure:"scorer"`
	Server ServerConfig   `yaml:"server" mapstructure:"server"`
	Log    LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the local lead database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ImportConfig configures the CSV import pipeline.
type ImportConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ServerConfig configures the read-only HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("FLASHCRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "flashcrm.db")
	v.SetDefault("import.concurrency", 8)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	w := scorer.DefaultWeights()
	v.SetDefault("scorer.gbp_unclaimed", w.GBPUnclaimed)
	v.SetDefault("scorer.gbp_unverified", w.GBPUnverified)
	v.SetDefault("scorer.gbp_few_reviews", w.GBPFewReviews)
	v.SetDefault("scorer.gbp_weak_rating", w.GBPWeakRating)
	v.SetDefault("scorer.sercotec_claimed", w.SercotecClaimed)
	v.SetDefault("scorer.sercotec_verified", w.SercotecVerified)
	v.SetDefault("scorer.sercotec_many_reviews", w.SercotecManyReviews)
	v.SetDefault("scorer.sercotec_strong_rating", w.SercotecStrongRating)
	v.SetDefault("scorer.sercotec_has_phone", w.SercotecHasPhone)
	v.SetDefault("scorer.sercotec_has_address", w.SercotecHasAddress)
	v.SetDefault("scorer.few_reviews_below", w.FewReviewsBelow)
	v.SetDefault("scorer.many_reviews_above", w.ManyReviewsAbove)
	v.SetDefault("scorer.strong_rating_min", w.StrongRatingMin)
	v.SetDefault("scorer.min_phone_len", w.MinPhoneLen)
	v.SetDefault("scorer.min_address_len", w.MinAddressLen)
	v.SetDefault("scorer.web_weight", w.WebWeight)
	v.SetDefault("scorer.gbp_weight", w.GBPWeight)
	v.SetDefault("scorer.sercotec_weight", w.SercotecWeight)

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

	if err := scorer.ValidateWeights(cfg.Scorer); err != nil {
		return nil, err
	}

	return &cfg, nil
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

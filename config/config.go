package config

import (
	"gpa-calculator/catalog"
	"gpa-calculator/models"

	"github.com/spf13/viper"
)

type CatalogConfig struct {
	NameColumn    string   `mapstructure:"name_column"`
	CreditsColumn string   `mapstructure:"credits_column"`
	CodeColumn    string   `mapstructure:"code_column"`
	Reserved      []string `mapstructure:"reserved"`
}

// OverridesConfig selects where the correction table comes from. File wins
// over a database when both are set.
type OverridesConfig struct {
	File   string `mapstructure:"file"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Watch   bool `mapstructure:"watch"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config holds all runtime configuration.
// Values are populated from .gpacalc.yaml, GPACALC_* env vars, and CLI flags.
type Config struct {
	DataDir     string          `mapstructure:"data_dir"`
	Addr        string          `mapstructure:"addr"`
	GradePoints map[string]int  `mapstructure:"grade_points"`
	Catalog     CatalogConfig   `mapstructure:"catalog"`
	Overrides   OverridesConfig `mapstructure:"overrides"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Log         LogConfig       `mapstructure:"log"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("data_dir", "data")
	viper.SetDefault("addr", ":8000")
	points := make(map[string]any, len(models.DefaultGradePoints))
	for symbol, value := range models.DefaultGradePoints {
		points[symbol] = value
	}
	viper.SetDefault("grade_points", points)
	viper.SetDefault("catalog.name_column", catalog.DefaultColumns.Name)
	viper.SetDefault("catalog.credits_column", catalog.DefaultColumns.Credits)
	viper.SetDefault("catalog.code_column", catalog.DefaultColumns.Code)
	viper.SetDefault("catalog.reserved", catalog.DefaultReserved)
	viper.SetDefault("overrides.file", "")
	viper.SetDefault("overrides.driver", "sqlite")
	viper.SetDefault("overrides.dsn", "")
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.watch", false)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "logfmt")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) GradeTable() models.GradeTable {
	return models.NewGradeTable(c.GradePoints)
}

func (c Config) LoaderConfig() catalog.Config {
	return catalog.Config{
		Root: c.DataDir,
		Columns: catalog.Columns{
			Name:    c.Catalog.NameColumn,
			Credits: c.Catalog.CreditsColumn,
			Code:    c.Catalog.CodeColumn,
		},
		Reserved: c.Catalog.Reserved,
	}
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gpa-calculator/calculator"
	"gpa-calculator/catalog"
	"gpa-calculator/config"
	"gpa-calculator/driver"
	"gpa-calculator/utils"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "gpacalc",
	Short:         "GPA and CGPA calculator",
	Long:          "gpacalc computes credit-weighted GPA and CGPA, interactively or over HTTP from department course catalogs.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .gpacalc.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding one folder per department")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
}

// bindFlags ties command-line flags to their configuration keys. It runs on
// every execution, so bindings survive a viper.Reset.
func bindFlags() {
	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("cache.watch", serveCmd.Flags().Lookup("watch"))
}

func initConfig() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()
	bindFlags()

	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".gpacalc")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("GPACALC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// app is what every subcommand builds from configuration.
type app struct {
	cfg    config.Config
	logger log.Logger
	engine *calculator.Engine
	cache  *catalog.Cache
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	logger := utils.NewLogger(os.Stderr, cfg.Log.Format, cfg.Log.Level)

	overrides, err := loadOverrides(ctx, cfg.Overrides)
	if err != nil {
		return nil, err
	}
	if overrides.Len() > 0 {
		level.Info(logger).Log("msg", "catalog overrides loaded", "count", overrides.Len())
	}

	loader := catalog.NewLoader(cfg.LoaderConfig(), overrides, logger)
	return &app{
		cfg:    cfg,
		logger: logger,
		engine: calculator.NewEngine(cfg.GradeTable(), logger),
		cache:  catalog.NewCache(loader, cfg.Cache.Enabled, logger),
	}, nil
}

func loadOverrides(ctx context.Context, cfg config.OverridesConfig) (*catalog.Overrides, error) {
	switch {
	case cfg.File != "":
		return catalog.LoadOverridesFile(cfg.File)
	case cfg.DSN != "":
		db, err := driver.ConnectDB(ctx, cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return catalog.LoadOverridesDB(ctx, db)
	}
	return catalog.NewOverrides(nil)
}

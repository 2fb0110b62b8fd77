package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/bmireport/internal/config"
	"github.com/KaramelBytes/bmireport/internal/dashboard"
	"github.com/KaramelBytes/bmireport/internal/logging"
)

var (
	// Global flags
	cfgFile  string
	dataPath string
	debug    bool

	// Loaded configuration
	cfg *cfgpkg.Global
	// Process logger, rebuilt with the configuration
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "bmireport",
	Short:         "bmireport: explore global BMI trends and compare your own BMI",
	Long:          `bmireport loads a table of mean body-mass-index estimates by country, year, sex and age group, and reports trends, category distributions and a personal BMI comparison as Markdown, JSON or over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/bmireport/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "BMI dataset CSV (overrides config data_path)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so config set can repair the file
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		d := cfgpkg.Defaults()
		c = &d
	}
	cfg = c

	// Apply CLI overrides if provided
	if rootCmd.PersistentFlags().Changed("data") && dataPath != "" {
		cfg.DataPath = dataPath
	}

	l, err := logging.New(cfg.LogLevel, debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		l, _ = logging.New("info", debug)
	}
	if l != nil {
		logger = l
	}
}

// sessionOptions maps the configuration onto dashboard options.
func sessionOptions() dashboard.Options {
	return dashboard.Options{
		ReferenceYear:     cfg.ReferenceYear,
		DistributionYears: cfg.DistributionYears,
		SampleRows:        cfg.SampleRows,
	}
}

// openSession loads the configured dataset.
func openSession() (*dashboard.Session, error) {
	if cfg.DataPath == "" {
		return nil, fmt.Errorf("no dataset configured (use --data or 'bmireport config set data_path <file>')")
	}
	return dashboard.Open(cfg.DataPath, sessionOptions(), logger)
}

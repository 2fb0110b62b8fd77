package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	cfgpkg "github.com/KaramelBytes/bmireport/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set bmireport configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "data_path: %s\n", cfg.DataPath)
		if cfg.ReferenceYear > 0 {
			fmt.Fprintf(out, "reference_year: %d\n", cfg.ReferenceYear)
		} else {
			fmt.Fprintln(out, "reference_year: current")
		}
		fmt.Fprintf(out, "distribution_years: %s\n", joinInts(cfg.DistributionYears))
		fmt.Fprintf(out, "sample_rows: %d\n", cfg.SampleRows)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "server_addr: %s\n", cfg.ServerAddr)
		fmt.Fprintf(out, "config_dir: %s\n", cfgpkg.Dir())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Edit the file as stored, without env or flag overrides.
		fc, err := cfgpkg.LoadFile(cfgFile)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: rewriting unreadable config: %v\n", err)
			d := cfgpkg.Defaults()
			fc = &d
		}
		switch key {
		case "data_path":
			fc.DataPath = val
		case "reference_year":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for reference_year: %v", val)
			}
			fc.ReferenceYear = i
		case "distribution_years":
			years, err := parseInts(val)
			if err != nil {
				return fmt.Errorf("invalid distribution_years: %w", err)
			}
			fc.DistributionYears = years
		case "sample_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid sample_rows: %v (must be at least 1)", val)
			}
			fc.SampleRows = i
		case "log_level":
			var lvl zapcore.Level
			if err := lvl.UnmarshalText([]byte(strings.ToLower(val))); err != nil {
				return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
			}
			fc.LogLevel = lvl.String()
		case "server_addr":
			if strings.TrimSpace(val) == "" {
				return fmt.Errorf("server_addr must not be empty")
			}
			fc.ServerAddr = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(fc, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// parseInts parses a comma-separated list of positive integers.
func parseInts(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil || i <= 0 {
			return nil, fmt.Errorf("not a year: %q", part)
		}
		out = append(out, i)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no years in %q", s)
	}
	return out, nil
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

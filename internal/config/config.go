package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultDataPath is the dataset file name used when none is configured.
const DefaultDataPath = "BMI_python_streamline.csv"

// Global configuration structure.
type Global struct {
	DataPath          string `mapstructure:"data_path" yaml:"data_path"`
	ReferenceYear     int    `mapstructure:"reference_year" yaml:"reference_year"`
	DistributionYears []int  `mapstructure:"distribution_years" yaml:"distribution_years"`
	SampleRows        int    `mapstructure:"sample_rows" yaml:"sample_rows"`
	LogLevel          string `mapstructure:"log_level" yaml:"log_level"`
	ServerAddr        string `mapstructure:"server_addr" yaml:"server_addr"`
}

// Dir returns the default configuration directory, $XDG_CONFIG_HOME/bmireport.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, "bmireport")
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to config.yaml in Dir, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir := Dir()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Defaults returns the values used for keys absent from the file and env.
func Defaults() Global {
	return Global{
		DataPath:          DefaultDataPath,
		ReferenceYear:     0,
		DistributionYears: []int{1975, 2016},
		SampleRows:        5,
		LogLevel:          "info",
		ServerAddr:        "127.0.0.1:8080",
	}
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	c, err := read(cfgFile, true)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile loads only the config file over the defaults, ignoring env, and
// does not validate. It is the starting point for edits that are saved back,
// so overrides and a single bad value do not end up in or block the file.
func LoadFile(cfgFile string) (*Global, error) {
	return read(cfgFile, false)
}

func read(cfgFile string, env bool) (*Global, error) {
	v := viper.New()
	if env {
		v.SetEnvPrefix("BMIREPORT")
		v.AutomaticEnv()
	}

	d := Defaults()
	v.SetDefault("data_path", d.DataPath)
	v.SetDefault("reference_year", d.ReferenceYear)
	v.SetDefault("distribution_years", d.DistributionYears)
	v.SetDefault("sample_rows", d.SampleRows)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("server_addr", d.ServerAddr)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.AddConfigPath(Dir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Validate rejects values no command can run with.
func (c *Global) Validate() error {
	if c.ReferenceYear < 0 {
		return fmt.Errorf("invalid reference_year: %d", c.ReferenceYear)
	}
	if c.SampleRows < 1 {
		return fmt.Errorf("invalid sample_rows: %d (must be at least 1)", c.SampleRows)
	}
	if c.ServerAddr == "" {
		return fmt.Errorf("invalid server_addr: must not be empty")
	}
	for _, y := range c.DistributionYears {
		if y <= 0 {
			return fmt.Errorf("invalid distribution year: %d", y)
		}
	}
	return nil
}

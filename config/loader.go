package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/theoremus-urban-solutions/marc2xml/charset"
	"github.com/theoremus-urban-solutions/marc2xml/marcxml"
)

// Config is the global application configuration
var Config = Default()

// Server defaults
const (
	DefaultPort         = 16181
	DefaultMaxBodyBytes = 32 << 20
)

// SearchPaths are tried in order by LoadAppConfig
var SearchPaths = []string{"marc2xml.yml", "config.yml"}

// Default returns the configuration used when no file sets a value
func Default() AppConfig {
	var cfg AppConfig
	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Converter.Strategy == "" {
		cfg.Converter.Strategy = charset.StrategyIdentity
	}
	if cfg.Converter.Fallback == "" {
		cfg.Converter.Fallback = charset.FallbackReplace.String()
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = FormatXML
	}
	if cfg.Output.Indent == "" {
		cfg.Output.Indent = marcxml.DefaultIndent
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
}

// Parse decodes and validates a YAML document
func Parse(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("config: %w", err)
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks cfg against its struct tags
func Validate(cfg AppConfig) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load reads and validates the configuration file at path
func Load(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, err
	}
	return Parse(data)
}

// LoadAppConfig loads the first file found in SearchPaths into Config.
// Having no file at all is not an error; Config keeps its defaults.
func LoadAppConfig() error {
	for _, p := range SearchPaths {
		cfg, err := Load(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		Config = cfg
		return nil
	}
	Config = Default()
	return nil
}

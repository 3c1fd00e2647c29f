package config

import (
	"github.com/theoremus-urban-solutions/marc2xml/charset"
)

// Output formats
const (
	FormatXML   = "xml"
	FormatJSONL = "jsonl"
)

// ConverterConfig selects the character set conversion applied to field text
type ConverterConfig struct {
	Strategy  string `yaml:"strategy" validate:"oneof=identity marc8 ansel"`
	Normalize bool   `yaml:"normalize"`
	Fallback  string `yaml:"fallback" validate:"oneof=strict replace passthrough"`
}

// Build returns the converter described by c
func (c ConverterConfig) Build() (charset.Converter, error) {
	fb, err := charset.ParseFallback(c.Fallback)
	if err != nil {
		return nil, err
	}
	return charset.New(c.Strategy, fb, c.Normalize)
}

// OutputConfig contains serializer configuration
type OutputConfig struct {
	Format string `yaml:"format" validate:"oneof=xml jsonl"`
	Pretty bool   `yaml:"pretty"`
	Indent string `yaml:"indent" validate:"max=16"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         int   `yaml:"port" validate:"gt=0,lte=65535"`
	MaxBodyBytes int64 `yaml:"maxBodyBytes" validate:"gt=0"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Converter ConverterConfig `yaml:"converter"`
	Output    OutputConfig    `yaml:"output"`
	Server    ServerConfig    `yaml:"server"`
}

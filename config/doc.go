// Package config handles application configuration loading and validation.
//
// Configuration is loaded from marc2xml.yml (or config.yml) and validated
// using struct tags. Missing keys take their defaults, so an empty file is
// a valid configuration.
package config

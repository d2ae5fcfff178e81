// Package config provides layered configuration for tsffi.
//
// Values are resolved with the precedence flags > environment (TSFFI_) >
// config file (tsffi.yaml) > defaults. The same loader serves the CLI and
// the shared library's tsffi_init.
package config

import (
	"github.com/leapstack-labs/tsffi/internal/engine"
	"github.com/leapstack-labs/tsffi/internal/pipeline"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "tsffi.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "tsffi.yml"

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "TSFFI_"

// Default configuration values.
const (
	DefaultTarget    = "esnext"
	DefaultFormat    = "preserve"
	DefaultJSX       = "transform"
	DefaultColor     = "auto"
	DefaultLogLevel  = "off"
	DefaultLogFormat = "text"
)

// Config holds all configuration options.
type Config struct {
	Target         string `koanf:"target"`
	Format         string `koanf:"format"`
	JSX            string `koanf:"jsx"`
	SourceMap      bool   `koanf:"source_map"`
	SourcesContent bool   `koanf:"sources_content"`
	Minify         bool   `koanf:"minify"`
	KeepNames      bool   `koanf:"keep_names"`
	TsconfigRaw    string `koanf:"tsconfig_raw"`
	Color          string `koanf:"color"`
	LogLevel       string `koanf:"log_level"`
	LogFormat      string `koanf:"log_format"`
	Verbose        bool   `koanf:"verbose"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Target:         DefaultTarget,
		Format:         DefaultFormat,
		JSX:            DefaultJSX,
		SourcesContent: true,
		Color:          DefaultColor,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
	}
}

// EngineOptions returns the engine options described by c.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		Target:         c.Target,
		Format:         c.Format,
		JSX:            c.JSX,
		KeepNames:      c.KeepNames,
		SourcesContent: c.SourcesContent,
		TsconfigRaw:    c.TsconfigRaw,
	}
}

// PipelineSettings returns everything needed to build a pipeline.
func (c *Config) PipelineSettings() pipeline.Settings {
	return pipeline.Settings{
		Engine:    c.EngineOptions(),
		Defaults:  pipeline.Options{SourceMap: c.SourceMap, Minify: c.Minify},
		KeepNames: c.KeepNames,
	}
}

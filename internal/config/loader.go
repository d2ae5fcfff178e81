package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Loaded is a configuration together with the file it came from.
type Loaded struct {
	*Config
	// File is the config file used, empty when none was found
	File string
}

// findConfigFile finds the config file to use.
// Priority: explicit path > tsffi.yaml > tsffi.yml in dir.
func findConfigFile(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Load loads configuration from file, environment variables, and flags.
// cfgFile may be empty to search the working directory. flags may be nil.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Loaded, error) {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return LoadFrom(cwd, cfgFile, flags)
}

// LoadFrom is Load with an explicit directory to search for config files.
func LoadFrom(dir, cfgFile string, flags *pflag.FlagSet) (*Loaded, error) {
	// A fresh instance per load keeps concurrent loads independent
	k := koanf.New(".")

	// 1. Load defaults
	d := Default()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"target":          d.Target,
		"format":          d.Format,
		"jsx":             d.JSX,
		"source_map":      d.SourceMap,
		"sources_content": d.SourcesContent,
		"minify":          d.Minify,
		"keep_names":      d.KeepNames,
		"tsconfig_raw":    d.TsconfigRaw,
		"color":           d.Color,
		"log_level":       d.LogLevel,
		"log_format":      d.LogFormat,
		"verbose":         d.Verbose,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	used := findConfigFile(cfgFile, dir)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Load environment variables (TSFFI_ prefix)
	// Transform: TSFFI_SOURCE_MAP -> source_map
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			// Transform kebab-case to snake_case for config keys
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Verbose implies debug logging unless a level was chosen explicitly
	if cfg.Verbose && cfg.LogLevel == DefaultLogLevel {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Loaded{Config: &cfg, File: used}, nil
}

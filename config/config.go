// Package config loads postpipe's configuration.
//
// The config file is a multi-document YAML stream: documents with an
// "options" key set global options, documents with a "collector" key each add
// one source to poll. Options resolve with precedence
// defaults < file < env (POSTPIPE_*) < flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/postpipe/core"
)

// DefaultPath is used when no --config flag is given.
const DefaultPath = "config.yml"

const defaultPostLimit = 10

// Option keys.
const (
	KeyLogLevel = "log_level"
	KeyTimezone = "timezone"
)

// ConfigOption is a global option key with its default value.
type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the global options and their defaults.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: KeyLogLevel, Default: "INFO", Comment: "DEBUG, INFO, WARNING, ERROR or CRITICAL"},
		{Key: KeyTimezone, Default: "Etc/UTC", Comment: "IANA timezone posts are displayed and grouped in"},
	}
}

// Config is the resolved configuration.
type Config struct {
	LogLevel slog.Level
	Location *time.Location
	Sources  []core.Source
}

// document is one YAML document of the config stream.
type document struct {
	Options   map[string]any `yaml:"options"`
	Collector *collector     `yaml:"collector"`
}

type collector struct {
	Type   string `yaml:"collector_type"`
	Handle string `yaml:"handle"`
	Limit  *int   `yaml:"post_limit"`
}

func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load reads the config file at path and resolves options through v.
// Flags should already be bound to v under the option keys.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	return load(v, f, path)
}

func load(v *viper.Viper, r io.Reader, name string) (*Config, error) {
	applyDefaults(v)

	var collectors []collector
	dec := yaml.NewDecoder(r)
	for i := 1; ; i++ {
		var doc document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s document %d: %w", name, i, err)
		}

		if doc.Options != nil {
			if err := v.MergeConfigMap(doc.Options); err != nil {
				return nil, fmt.Errorf("merging options from %s document %d: %w", name, i, err)
			}
		}
		if doc.Collector != nil {
			collectors = append(collectors, *doc.Collector)
		}
	}

	v.SetEnvPrefix("postpipe")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return resolve(v, collectors)
}

// resolve validates everything and reports all problems at once.
func resolve(v *viper.Viper, collectors []collector) (*Config, error) {
	var errs []error
	cfg := &Config{}

	level, err := ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		errs = append(errs, err)
	}
	cfg.LogLevel = level

	tz := strings.TrimSpace(v.GetString(KeyTimezone))
	if loc, err := time.LoadLocation(tz); err != nil || tz == "" {
		errs = append(errs, fmt.Errorf("timezone %q is not a known location", tz))
	} else {
		cfg.Location = loc
	}

	for i, c := range collectors {
		src := core.Source{
			Type:   strings.TrimSpace(c.Type),
			Handle: strings.TrimSpace(c.Handle),
			Limit:  defaultPostLimit,
		}
		if c.Limit != nil {
			src.Limit = *c.Limit
		}

		if src.Type == "" {
			errs = append(errs, fmt.Errorf("collector %d: collector_type is required", i+1))
		}
		if src.Handle == "" {
			errs = append(errs, fmt.Errorf("collector %d: handle is required", i+1))
		}
		if src.Limit <= 0 {
			errs = append(errs, fmt.Errorf("collector %d: post_limit must be greater than 0", i+1))
		}
		cfg.Sources = append(cfg.Sources, src)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// levelCritical sits above slog.LevelError so CRITICAL hides ordinary errors.
const levelCritical = slog.LevelError + 4

// ParseLevel maps a log level name (case-insensitive) to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	case "CRITICAL":
		return levelCritical, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level %q is not one of DEBUG, INFO, WARNING, ERROR, CRITICAL", name)
	}
}

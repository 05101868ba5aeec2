// Package config loads jman settings from defaults, a config file, the
// environment and command line flags.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/zerr"
)

// EnvPrefix prefixes every environment variable jman reads.
const EnvPrefix = "JMAN"

// HistoryDisabled turns the operation journal off when used as history.dsn.
const HistoryDisabled = "off"

// Settings is the resolved configuration.
type Settings struct {
	Root         string          `mapstructure:"root"`
	DryRun       bool            `mapstructure:"dry_run"`
	SearchDepth  int             `mapstructure:"search_depth"`
	ProbeTimeout time.Duration   `mapstructure:"probe_timeout"`
	Catalog      string          `mapstructure:"catalog"`
	Log          LogSettings     `mapstructure:"log"`
	History      HistorySettings `mapstructure:"history"`
	Metrics      MetricsSettings `mapstructure:"metrics"`
	Watch        WatchSettings   `mapstructure:"watch"`
}

// LogSettings configures console and file logging.
type LogSettings struct {
	JSON       bool   `mapstructure:"json"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
	// Trace logs a line per finished workflow span.
	Trace bool `mapstructure:"trace"`
}

// HistorySettings configures the sqlite operation journal.
type HistorySettings struct {
	DSN string `mapstructure:"dsn"`
}

// MetricsSettings configures the Prometheus textfile export.
type MetricsSettings struct {
	Textfile string `mapstructure:"textfile"`
}

// WatchSettings configures `jman watch`.
type WatchSettings struct {
	// Debounce coalesces bursts of file events before a runtime is re-verified.
	Debounce time.Duration `mapstructure:"debounce"`
}

// DefaultWatchDebounce is the default quiet period of `jman watch`.
const DefaultWatchDebounce = 250 * time.Millisecond

// HistoryEnabled reports whether the journal should be opened.
func (s Settings) HistoryEnabled() bool {
	return s.History.DSN != "" && !strings.EqualFold(s.History.DSN, HistoryDisabled)
}

// flagKeys maps config keys to the persistent flags that override them.
var flagKeys = map[string]string{
	"root":             "root",
	"dry_run":          "dry-run",
	"catalog":          "catalog",
	"log.json":         "json-logs",
	"log.file":         "log-file",
	"log.trace":        "trace",
	"metrics.textfile": "metrics-file",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("root", domain.DefaultRootPath())
	v.SetDefault("dry_run", false)
	v.SetDefault("search_depth", domain.DefaultSearchDepth)
	v.SetDefault("probe_timeout", time.Duration(0))
	v.SetDefault("catalog", "")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)
	v.SetDefault("log.compress", false)
	v.SetDefault("log.trace", false)
	v.SetDefault("history.dsn", "")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("watch.debounce", DefaultWatchDebounce)
}

// Load resolves Settings. An explicit configFile must exist; otherwise
// $JMAN_CONFIG and then ~/.jman/config.yaml are tried and may be absent.
// Flags that were set on the command line take precedence over everything else.
func Load(configFile string, flags *pflag.FlagSet) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Settings{}, zerr.With(zerr.Wrap(err, "failed to bind flag"), "flag", name)
				}
			}
		}
	}

	if err := readConfigFile(v, configFile); err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	return normalize(s)
}

func readConfigFile(v *viper.Viper, explicit string) error {
	path := explicit
	required := explicit != ""
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
		required = path != ""
	}
	if path == "" {
		path = domain.DefaultConfigPath()
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !required && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}
	return nil
}

func normalize(s Settings) (Settings, error) {
	root, err := expandPath(s.Root)
	if err != nil {
		return Settings{}, err
	}
	s.Root = root

	if s.SearchDepth <= 0 {
		s.SearchDepth = domain.DefaultSearchDepth
	}
	if s.ProbeTimeout < 0 {
		s.ProbeTimeout = 0
	}
	if s.Watch.Debounce <= 0 {
		s.Watch.Debounce = DefaultWatchDebounce
	}
	if s.History.DSN == "" {
		s.History.DSN = filepath.Join(s.Root, domain.HistoryFileName)
	}
	if s.Log.File != "" {
		if s.Log.File, err = expandPath(s.Log.File); err != nil {
			return Settings{}, err
		}
	}
	return s, nil
}

func expandPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", zerr.Wrap(err, "failed to resolve home directory")
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve path"), "path", p)
	}
	return abs, nil
}

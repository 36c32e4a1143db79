package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"vired/internal/domain"
	"vired/internal/logging"
)

// AppName names the config, data and trash directories
const AppName = "vired"

// Config is the resolved configuration
type Config struct {
	TrashDir     string
	TrashIndex   bool
	TrashCatalog string

	Columns    []string
	Layout     domain.ColumnLayout
	ShowHidden bool

	VCSEnabled bool
	VCSTimeout time.Duration

	HistoryMax int

	Log logging.Config

	WatchEnabled  bool
	WatchDebounce time.Duration

	MetricsAddr string

	// Editor is the external editor command line; empty uses $VISUAL or $EDITOR
	Editor string

	Keymap *Keymap

	// File is the config file that was read, empty when none was found
	File string
}

// ConfigDir is $XDG_CONFIG_HOME/vired, or ~/.config/vired
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DataDir is $XDG_DATA_HOME/vired, or ~/.local/share/vired
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, ".local", "share", AppName)
}

// StartDir returns the directory to open from the VIRED_DIR env var,
// falling back to the working directory.
func StartDir() string {
	if env := os.Getenv("VIRED_DIR"); env != "" {
		return env
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("trash.dir", filepath.Join(DataDir(), "trash"))
	v.SetDefault("trash.index", true)
	v.SetDefault("trash.catalog", filepath.Join(DataDir(), "trash.db"))
	v.SetDefault("listing.columns", domain.DefaultLayout().Columns())
	v.SetDefault("listing.show_hidden", false)
	v.SetDefault("vcs.enabled", true)
	v.SetDefault("vcs.timeout", "5s")
	v.SetDefault("history.max", 100)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("watch.enabled", true)
	v.SetDefault("watch.debounce", "150ms")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("editor.command", "")
}

// Load reads the config file at path, or the default location when path is
// empty. A missing default file is not an error; a missing explicit one is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(ConfigDir())
		v.SetConfigType("toml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("VIRED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	columns := v.GetStringSlice("listing.columns")
	layout, err := domain.ParseColumns(columns)
	if err != nil {
		return nil, err
	}

	keymap, err := NewKeymap(keymapOverrides(v))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		TrashDir:      v.GetString("trash.dir"),
		TrashIndex:    v.GetBool("trash.index"),
		TrashCatalog:  v.GetString("trash.catalog"),
		Columns:       layout.Columns(),
		Layout:        layout,
		ShowHidden:    v.GetBool("listing.show_hidden"),
		VCSEnabled:    v.GetBool("vcs.enabled"),
		VCSTimeout:    v.GetDuration("vcs.timeout"),
		HistoryMax:    v.GetInt("history.max"),
		WatchEnabled:  v.GetBool("watch.enabled"),
		WatchDebounce: v.GetDuration("watch.debounce"),
		MetricsAddr:   v.GetString("metrics.addr"),
		Editor:        v.GetString("editor.command"),
		Keymap:        keymap,
		File:          v.ConfigFileUsed(),
		Log: logging.Config{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			OutputPath: v.GetString("log.output"),
		},
	}

	if cfg.HistoryMax <= 0 {
		return nil, fmt.Errorf("history.max must be positive, got %d", cfg.HistoryMax)
	}
	if cfg.VCSTimeout <= 0 {
		return nil, fmt.Errorf("vcs.timeout must be positive, got %s", cfg.VCSTimeout)
	}
	return cfg, nil
}

// keymapOverrides reads keymap.<action> entries. A value may be a single key
// or a list of keys.
func keymapOverrides(v *viper.Viper) map[string][]string {
	overrides := make(map[string][]string)
	for name := range v.GetStringMap("keymap") {
		keys := v.GetStringSlice("keymap." + name)
		if len(keys) == 0 {
			if single := v.GetString("keymap." + name); single != "" {
				keys = []string{single}
			}
		}
		overrides[name] = keys
	}
	return overrides
}

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/javanhut/refscope/internal/logger"
)

// EnvPrefix prefixes every environment override, e.g. REFSCOPE_REPO_REMOTE.
const EnvPrefix = "REFSCOPE"

// Config represents refscope configuration
type Config struct {
	Repo    RepoConfig    `mapstructure:"repo"`
	Source  SourceConfig  `mapstructure:"source"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Log     logger.Config `mapstructure:"log"`
	Color   ColorConfig   `mapstructure:"color"`
}

// RepoConfig locates the repository and its branch state
type RepoConfig struct {
	GitDir string `mapstructure:"git_dir" default:".git"`
	// Remote is the tracked remote branch, e.g. origin/main. Resolved from
	// git when empty.
	Remote string `mapstructure:"remote"`
	// Head is the checked out branch. Resolved from git when empty.
	Head string `mapstructure:"head"`
}

// SourceConfig selects where the reference listing comes from
type SourceConfig struct {
	// LsRemote replaces the `git ls-remote` command line.
	LsRemote string `mapstructure:"ls_remote"`
	// File reads a saved listing instead of running git.
	File string `mapstructure:"file"`
}

// CatalogConfig bounds the reference catalog
type CatalogConfig struct {
	MaxRecords int `mapstructure:"max_records" default:"0"`
}

// ColorConfig holds color settings
type ColorConfig struct {
	UI bool `mapstructure:"ui" default:"true"`
}

// LoadOptions controls where Load looks for configuration.
type LoadOptions struct {
	// Dir is searched for a .env file.
	Dir string
	// File is an explicit config file (any format viper reads).
	File string
	// Settings are persisted values; they override built-in defaults only.
	Settings map[string]string
	// Flags maps config keys to command line flags.
	Flags map[string]*pflag.Flag
}

// Load builds the configuration. Precedence, highest first: flags,
// environment, config file, persisted settings, defaults.
func Load(opts LoadOptions) (*Config, error) {
	if opts.Dir != "" {
		// A missing .env file is fine.
		_ = godotenv.Load(filepath.Join(opts.Dir, ".env"))
	}

	v := viper.New()
	bindValues(v, Config{}, "")

	for key, value := range opts.Settings {
		if !IsKey(key) {
			continue
		}
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.File, err)
		}
	}

	for key, flag := range opts.Flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag.Name, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Catalog.MaxRecords < 0 {
		return nil, errors.New("catalog.max_records must not be negative")
	}
	return &cfg, nil
}

// Keys returns every dotted configuration key, sorted.
func Keys() []string {
	var keys []string
	walk(reflect.TypeOf(Config{}), "", func(key string, _ reflect.StructField) {
		keys = append(keys, key)
	})
	sort.Strings(keys)
	return keys
}

// IsKey reports whether key names a configuration value.
func IsKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// GetValue retrieves a configuration value by key (e.g., "repo.remote")
func (c *Config) GetValue(key string) (string, error) {
	v := reflect.ValueOf(*c)
	parts := strings.Split(key, ".")
	for _, part := range parts {
		if v.Kind() != reflect.Struct {
			return "", fmt.Errorf("unknown config key: %s", key)
		}
		field, ok := fieldByTag(v, part)
		if !ok {
			return "", fmt.Errorf("unknown config key: %s", key)
		}
		v = field
	}
	if v.Kind() == reflect.Struct {
		return "", fmt.Errorf("invalid config key: %s (expected format: section.key)", key)
	}
	return fmt.Sprint(v.Interface()), nil
}

func fieldByTag(v reflect.Value, tag string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("mapstructure") == tag {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// bindValues registers every key with its `default` tag so AutomaticEnv and
// Unmarshal see it.
func bindValues(v *viper.Viper, iface any, prefix string) {
	walk(reflect.TypeOf(iface), prefix, func(key string, field reflect.StructField) {
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	})
}

func walk(t reflect.Type, prefix string, fn func(key string, field reflect.StructField)) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			walk(field.Type, key, fn)
			continue
		}
		fn(key, field)
	}
}

// Settings is the persisted store behind SetValue, see internal/store.
type Settings interface {
	PutConfig(key, value string) error
	RemoveConfig(key string) error
}

// SetValue validates and persists a configuration value by key
// (e.g., "repo.remote", "origin/main").
func SetValue(s Settings, key, value string) error {
	var field *reflect.StructField
	walk(reflect.TypeOf(Config{}), "", func(k string, f reflect.StructField) {
		if k == key {
			field = &f
		}
	})
	if field == nil {
		return fmt.Errorf("unknown config key: %s", key)
	}

	switch field.Type.Kind() {
	case reflect.Bool:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("%s expects true or false, got %q", key, value)
		}
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s expects a non-negative number, got %q", key, value)
		}
	}
	return s.PutConfig(key, value)
}

// UnsetValue removes a persisted configuration value.
func UnsetValue(s Settings, key string) error {
	if !IsKey(key) {
		return fmt.Errorf("unknown config key: %s", key)
	}
	return s.RemoveConfig(key)
}

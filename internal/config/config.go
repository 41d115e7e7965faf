// Package config loads mdfmt's settings from the nearest .mdfmt.yaml, .mdfmt.yml, or .mdfmt.toml file, with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/codalotl/mdfmt/internal/editor"
	"github.com/codalotl/mdfmt/internal/format"
	"github.com/codalotl/mdfmt/internal/patch"
	"github.com/codalotl/mdfmt/internal/position"
)

// FileNames are the config file names Load looks for, in order of preference within a directory.
var FileNames = []string{".mdfmt.yaml", ".mdfmt.yml", ".mdfmt.toml"}

// Config is mdfmt's configuration.
type Config struct {
	// Ignore holds gitignore-style patterns, relative to the config file's directory. Matching files are never formatted.
	Ignore []string `yaml:"ignore" toml:"ignore"`

	// Debug enables diagnostic logging.
	Debug bool `yaml:"debug" toml:"debug"`

	FormatOnSave bool   `yaml:"format_on_save" toml:"format_on_save"`
	Strategy     string `yaml:"strategy" toml:"strategy"`       // "incremental" or "replace"
	ColumnUnit   string `yaml:"column_unit" toml:"column_unit"` // "runes", "bytes", "utf16", or "graphemes"

	// Rules names the formatting rules to run, in order.
	Rules []string `yaml:"rules" toml:"rules"`

	// LogFile, if set, is where debug logs are appended.
	LogFile string `yaml:"log_file" toml:"log_file"`

	// Path is the absolute path of the file the config was loaded from, or "" for defaults.
	Path string `yaml:"-" toml:"-"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		FormatOnSave: true,
		Strategy:     editor.Incremental.String(),
		ColumnUnit:   position.Runes.String(),
		Rules:        format.Default().Names(),
	}
}

// Load finds the nearest config file in dir or its ancestors and loads it. If there is none, it returns Default() with environment overrides applied.
func Load(dir string) (Config, error) {
	path, err := Find(dir)
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		cfg := Default()
		cfg.ApplyEnv()
		return cfg, nil
	}
	return LoadFile(path)
}

// Find returns the nearest config file in dir or its ancestors, or "" if there is none.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	for {
		for _, name := range FileNames {
			p := filepath.Join(dir, name)
			if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
				return p, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadFile loads the config file at path, choosing the decoder by extension. Fields missing from the file keep their defaults. Unknown fields are errors.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
	case ".toml":
		err = decodeTOML(data, &cfg)
	default:
		err = fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if cfg.Path, err = filepath.Abs(path); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeTOML(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown fields: %s", strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv applies MDFMT_DEBUG and MDFMT_LOG_FILE. Unparseable values are ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("MDFMT_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
	if v := os.Getenv("MDFMT_LOG_FILE"); v != "" {
		c.LogFile = v
	}
}

// Validate checks that the strategy, column unit, and rule names are known.
func (c Config) Validate() error {
	var errs []error
	if _, err := editor.ParseStrategy(c.Strategy); err != nil {
		errs = append(errs, err)
	}
	if _, err := position.ParseUnit(c.ColumnUnit); err != nil {
		errs = append(errs, err)
	}
	if _, err := format.ByName(c.Rules); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Formatter builds the editor.Formatter the configuration describes. log may be nil.
func (c Config) Formatter(log func(string, ...any)) (*editor.Formatter, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	strategy, _ := editor.ParseStrategy(c.Strategy)
	unit, _ := position.ParseUnit(c.ColumnUnit)
	rules, _ := format.ByName(c.Rules)
	return &editor.Formatter{
		Transform: rules,
		Builder:   patch.Builder{Unit: unit},
		Strategy:  strategy,
		Log:       log,
	}, nil
}

// SaveHook returns the format-on-save hook the configuration describes.
func (c Config) SaveHook(log func(string, ...any)) (editor.SaveHook, error) {
	f, err := c.Formatter(log)
	if err != nil {
		return nil, err
	}
	return editor.FormatOnSave{Formatter: f, Enabled: c.FormatOnSave, Ignore: c.Matcher()}, nil
}

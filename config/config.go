// Package config loads registry settings from a YAML/JSON file and
// STATEFOR_* environment variables and turns them into statefor.Options.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/statefor"
	"github.com/unkn0wn-root/statefor/keyexpr"
	zapadapter "github.com/unkn0wn-root/statefor/log/zap"
)

// EnvPrefix selects overriding variables; "__" separates nested keys,
// e.g. STATEFOR_PROGRAM_CACHE__KIND=ristretto.
const EnvPrefix = "STATEFOR_"

type Config struct {
	// Namespace prefixes category names in factory lookups.
	Namespace string `json:"namespace"`
	// Engine selects the key expression engine: "expr" or "cel".
	Engine       string             `json:"engine"`
	ProgramCache ProgramCacheConfig `json:"program_cache"`
	Logging      LoggingConfig      `json:"logging"`
}

// ProgramCacheConfig sizes the compiled key-expression cache.
type ProgramCacheConfig struct {
	// Kind is "map" (unbounded), "ristretto" (bounded) or "none".
	Kind string `json:"kind"`
	// MaxPrograms bounds the ristretto cache.
	MaxPrograms int64 `json:"max_programs"`
}

type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json or console
}

// Load reads path (skipped when empty) and applies environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Namespace == "" {
		c.Namespace = statefor.DefaultNamespace
	}
	if c.Engine == "" {
		c.Engine = "expr"
	}
	if c.ProgramCache.Kind == "" {
		c.ProgramCache.Kind = "map"
	}
	if c.ProgramCache.Kind == "ristretto" && c.ProgramCache.MaxPrograms <= 0 {
		c.ProgramCache.MaxPrograms = 10_000
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch c.Engine {
	case "expr", "cel":
	default:
		return fmt.Errorf("unknown engine %q", c.Engine)
	}
	switch c.ProgramCache.Kind {
	case "map", "ristretto", "none":
	default:
		return fmt.Errorf("unknown program cache %q", c.ProgramCache.Kind)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging level: %w", err)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("unknown logging format %q", c.Logging.Format)
	}
	return nil
}

// Build turns the configuration into registry options. closeFn flushes the
// logger and releases the program cache; call it when the registry is retired.
func (c Config) Build(hooks statefor.Hooks) (opts statefor.Options, closeFn func(), err error) {
	var closers []func()
	closeFn = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var evalOpts []keyexpr.Option
	switch c.ProgramCache.Kind {
	case "map":
		evalOpts = append(evalOpts, keyexpr.WithProgramCache(keyexpr.NewMapCache()))
	case "ristretto":
		rc, err := keyexpr.NewRistrettoCache(keyexpr.RistrettoConfig{
			NumCounters: 10 * c.ProgramCache.MaxPrograms,
			MaxCost:     c.ProgramCache.MaxPrograms,
			BufferItems: 64,
		})
		if err != nil {
			return statefor.Options{}, closeFn, fmt.Errorf("program cache: %w", err)
		}
		closers = append(closers, rc.Close)
		evalOpts = append(evalOpts, keyexpr.WithProgramCache(rc))
	}

	var eval keyexpr.Evaluator
	if c.Engine == "cel" {
		if eval, err = keyexpr.NewCEL(evalOpts...); err != nil {
			closeFn()
			return statefor.Options{}, func() {}, fmt.Errorf("cel engine: %w", err)
		}
	} else {
		eval = keyexpr.NewExpr(evalOpts...)
	}

	zl, err := c.zapLogger()
	if err != nil {
		closeFn()
		return statefor.Options{}, func() {}, err
	}
	closers = append(closers, func() { _ = zl.Sync() })

	return statefor.Options{
		Namespace: c.Namespace,
		Logger:    zapadapter.New(zl),
		Hooks:     hooks,
		Evaluator: eval,
	}, closeFn, nil
}

func (c Config) zapLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Logging.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "NEWSARCHIVE_CONFIG"
	dataDirEnv    = "NEWSARCHIVE_DATA_DIR"
	logLevelEnv   = "NEWSARCHIVE_LOG_LEVEL"
)

// Config holds everything the pipeline needs for one run.
type Config struct {
	Storage    StorageConfig  `yaml:"storage"`
	HTTP       HTTPConfig     `yaml:"http"`
	Politeness DelayConfig    `yaml:"politeness"`
	Logging    LoggingConfig  `yaml:"logging"`
	Sources    []SourceConfig `yaml:"sources"`
}

// StorageConfig locates the archive on disk.
type StorageConfig struct {
	// DataDir is the root under which per-source directories and the index
	// ledger live.
	DataDir string `yaml:"dataDir"`
	// LedgerName is the ledger file name relative to DataDir.
	LedgerName string `yaml:"ledgerName"`
}

// LedgerPath resolves the full ledger location.
func (s StorageConfig) LedgerPath() string {
	return filepath.Join(s.DataDir, s.LedgerName)
}

// HTTPConfig bounds outbound requests.
type HTTPConfig struct {
	TimeoutSeconds int `yaml:"timeoutSeconds"`
}

// Timeout converts the configured seconds to a duration.
func (h HTTPConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// DelayConfig is the randomized pause applied between network calls.
type DelayConfig struct {
	MinSeconds float64 `yaml:"minSeconds"`
	MaxSeconds float64 `yaml:"maxSeconds"`
}

// Min returns the lower bound as a duration.
func (d DelayConfig) Min() time.Duration {
	return time.Duration(d.MinSeconds * float64(time.Second))
}

// Max returns the upper bound as a duration.
func (d DelayConfig) Max() time.Duration {
	return time.Duration(d.MaxSeconds * float64(time.Second))
}

// LoggingConfig selects verbosity and output shape.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SourceConfig is one feed in the registry, in registry order.
type SourceConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. A missing or broken config file falls back to defaults; an
// empty source list is the caller's problem to reject.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// Validate rejects configurations the pipeline cannot run with. These are
// the only errors that abort a run before it starts.
func (c Config) Validate() error {
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.dataDir must not be empty")
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("no feed sources configured")
	}
	if c.Politeness.MinSeconds < 0 || c.Politeness.MaxSeconds < c.Politeness.MinSeconds {
		return fmt.Errorf("politeness delay range [%v, %v] is invalid",
			c.Politeness.MinSeconds, c.Politeness.MaxSeconds)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(dataDirEnv); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Storage.DataDir != "" {
		base.Storage.DataDir = override.Storage.DataDir
	}
	if override.Storage.LedgerName != "" {
		base.Storage.LedgerName = override.Storage.LedgerName
	}

	if override.HTTP.TimeoutSeconds > 0 {
		base.HTTP = override.HTTP
	}

	if override.Politeness.MaxSeconds > 0 {
		base.Politeness = override.Politeness
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			DataDir:    "raw_data/news",
			LedgerName: "article_index.csv",
		},
		HTTP:       HTTPConfig{TimeoutSeconds: 20},
		Politeness: DelayConfig{MinSeconds: 5, MaxSeconds: 15},
		Logging:    LoggingConfig{Level: "info", Format: "text"},
	}
}

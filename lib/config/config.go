// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/webview/lib/enginebin"
	"github.com/bureau-foundation/webview/lib/transcript"
	"github.com/bureau-foundation/webview/lib/version"
)

// EnvConfig names the environment variable Load reads the config path
// from.
const EnvConfig = "WEBVIEW_CONFIG"

// Config is the client configuration.
type Config struct {
	// Engine configures where the engine binary comes from.
	Engine EngineConfig `yaml:"engine" toml:"engine"`

	// Session configures engine sessions.
	Session SessionConfig `yaml:"session" toml:"session"`

	// Transcript configures frame recording.
	Transcript TranscriptConfig `yaml:"transcript" toml:"transcript"`

	// Logging configures the command-line logger.
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// EngineConfig configures engine binary resolution.
type EngineConfig struct {
	// Binary, if set, is the engine executable to run. The cache and
	// download are skipped. WEBVIEW_BIN still takes precedence.
	Binary string `yaml:"binary" toml:"binary"`

	// Version is the engine release to download.
	// Default: the release this client was built against.
	Version string `yaml:"version" toml:"version"`

	// CacheDir holds downloaded engines.
	// Default: <user cache dir>/webview
	CacheDir string `yaml:"cache_dir" toml:"cache_dir"`

	// BaseURL is the release download root.
	// Default: the engine's GitHub releases.
	BaseURL string `yaml:"base_url" toml:"base_url"`

	// Digests maps asset names (webview-linux, webview-mac-arm64-devtools,
	// ...) to hex BLAKE3 digests. Downloads and cached copies of a
	// listed asset must match.
	Digests map[string]string `yaml:"digests" toml:"digests"`
}

// SessionConfig configures engine sessions. Durations use Go syntax
// ("500ms", "2s").
type SessionConfig struct {
	// ExpectedVersion is compared against the engine's started
	// notification. A mismatch is logged, not fatal.
	// Default: the release this client was built against.
	ExpectedVersion string `yaml:"expected_version" toml:"expected_version"`

	// RequestTimeout bounds each request. Empty or "0" waits
	// indefinitely.
	RequestTimeout string `yaml:"request_timeout" toml:"request_timeout"`

	// CloseGracePeriod is how long the engine has to exit on its own
	// before it is signalled.
	// Default: 2s
	CloseGracePeriod string `yaml:"close_grace_period" toml:"close_grace_period"`

	// MaxFrameSize caps a single inbound frame in bytes. Zero selects
	// the wire default.
	MaxFrameSize int `yaml:"max_frame_size" toml:"max_frame_size"`
}

// TranscriptConfig configures frame recording.
type TranscriptConfig struct {
	// Path, if set, records every session frame to this file.
	Path string `yaml:"path" toml:"path"`

	// Compression is none, lz4, or zstd.
	// Default: zstd
	Compression string `yaml:"compression" toml:"compression"`
}

// LoggingConfig configures the command-line logger.
type LoggingConfig struct {
	// Level is debug, info, warn, or error.
	// Default: info
	Level string `yaml:"level" toml:"level"`

	// Format is text, json, or auto (text on a terminal, JSON
	// otherwise).
	// Default: auto
	Format string `yaml:"format" toml:"format"`
}

// Default returns the configuration used before a file is applied.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Version: version.EngineVersion,
		},
		Session: SessionConfig{
			ExpectedVersion:  version.EngineVersion,
			CloseGracePeriod: "2s",
		},
		Transcript: TranscriptConfig{
			Compression: transcript.CompressionZstd.String(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load loads configuration from the file named by WEBVIEW_CONFIG.
// There is no search path; if the variable is unset, Load fails.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvConfig)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your webview.yaml config file, or use --config flag", EnvConfig)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from path over the defaults. Files
// ending in .toml are TOML; anything else is YAML. ${VAR} and
// ${VAR:-default} are expanded in path fields afterwards.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.expandVariables()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Engine.Binary = expandVars(c.Engine.Binary, vars)
	c.Engine.CacheDir = expandVars(c.Engine.CacheDir, vars)
	c.Transcript.Path = expandVars(c.Transcript.Path, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Engine.Version == "" {
		errs = append(errs, fmt.Errorf("engine.version is required"))
	}
	if c.Engine.BaseURL != "" {
		parsed, err := url.Parse(c.Engine.BaseURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			errs = append(errs, fmt.Errorf("engine.base_url must be an http or https URL, got %q", c.Engine.BaseURL))
		}
	}
	for asset, digest := range c.Engine.Digests {
		if _, err := enginebin.ParseDigest(digest); err != nil {
			errs = append(errs, fmt.Errorf("engine.digests[%s]: %w", asset, err))
		}
	}

	if _, err := parseDuration(c.Session.RequestTimeout); err != nil {
		errs = append(errs, fmt.Errorf("session.request_timeout: %w", err))
	}
	if _, err := parseDuration(c.Session.CloseGracePeriod); err != nil {
		errs = append(errs, fmt.Errorf("session.close_grace_period: %w", err))
	}
	if c.Session.MaxFrameSize < 0 {
		errs = append(errs, fmt.Errorf("session.max_frame_size must not be negative"))
	}

	if _, err := transcript.ParseCompression(c.Transcript.Compression); err != nil {
		errs = append(errs, fmt.Errorf("transcript.compression: %w", err))
	}

	if _, err := c.Logging.SlogLevel(); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	formats := []string{"auto", "text", "json"}
	if !contains(formats, c.Logging.Format) {
		errs = append(errs, fmt.Errorf("logging.format must be one of: %v", formats))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// RequestTimeoutDuration returns RequestTimeout parsed. Call Validate
// first; unparseable values read as zero.
func (s SessionConfig) RequestTimeoutDuration() time.Duration {
	duration, _ := parseDuration(s.RequestTimeout)
	return duration
}

// CloseGracePeriodDuration returns CloseGracePeriod parsed. Call
// Validate first; unparseable values read as zero.
func (s SessionConfig) CloseGracePeriodDuration() time.Duration {
	duration, _ := parseDuration(s.CloseGracePeriod)
	return duration
}

// SlogLevel parses Level. Empty means info.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, err
	}
	return level, nil
}

// EnsurePaths creates the engine cache directory and the transcript's
// parent directory if they are configured.
func (c *Config) EnsurePaths() error {
	paths := []string{c.Engine.CacheDir}
	if c.Transcript.Path != "" {
		paths = append(paths, filepath.Dir(c.Transcript.Path))
	}

	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}

	return nil
}

func parseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if duration < 0 {
		return 0, fmt.Errorf("must not be negative, got %s", value)
	}
	return duration, nil
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}

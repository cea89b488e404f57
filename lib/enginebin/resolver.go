// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package enginebin

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/webview/lib/version"
	"github.com/bureau-foundation/webview/lib/wire"
)

// EnvBinary names the environment variable that overrides binary
// resolution entirely. Its value is used as-is, without checks.
const EnvBinary = "WEBVIEW_BIN"

// DefaultBaseURL is the engine's release download root. Assets live at
// <base>/webview-v<version>/<asset>.
const DefaultBaseURL = "https://github.com/zephraph/webview/releases/download"

// Config holds the resolver's parameters. The zero value resolves the
// engine release this client was built for, caching it under the
// user cache directory.
type Config struct {
	// Version is the engine release to fetch. Empty selects
	// version.EngineVersion.
	Version string

	// BinaryPath, if set, is used instead of the cache and download.
	// It must exist.
	BinaryPath string

	// CacheDir holds downloaded engines. Empty selects
	// DefaultCacheDir().
	CacheDir string

	// BaseURL is the release download root. Empty selects
	// DefaultBaseURL.
	BaseURL string

	// Digests maps asset names (as returned by AssetName) to expected
	// hex BLAKE3 digests. Assets without an entry are not verified.
	Digests map[string]string

	// HTTPClient performs downloads. Nil uses http.DefaultClient.
	HTTPClient *http.Client

	// Logger receives resolution progress. Nil logs text to stderr.
	Logger *slog.Logger

	// GOOS and GOARCH select the asset. Empty uses the running
	// platform.
	GOOS   string
	GOARCH string

	// LookupEnv reads the environment. Nil uses os.LookupEnv.
	LookupEnv func(key string) (string, bool)
}

// Resolver finds or fetches engine binaries. It implements
// webview.BinaryResolver.
type Resolver struct {
	config Config
	logger *slog.Logger
	client *http.Client
}

// NewResolver returns a Resolver with config's defaults filled in.
func NewResolver(config Config) *Resolver {
	if config.Version == "" {
		config.Version = version.EngineVersion
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.GOOS == "" {
		config.GOOS = runtime.GOOS
	}
	if config.GOARCH == "" {
		config.GOARCH = runtime.GOARCH
	}
	if config.LookupEnv == nil {
		config.LookupEnv = os.LookupEnv
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &Resolver{config: config, logger: logger, client: client}
}

// Flags returns the build variant suffix options select on goos:
// "-devtools", "-transparent" (macOS only), or "".
func Flags(options wire.Options, goos string) string {
	if options.Devtools {
		return "-devtools"
	}
	if options.Transparent && goos == "darwin" {
		return "-transparent"
	}
	return ""
}

// AssetName returns the release asset for a platform and build
// variant, such as "webview-mac-arm64-devtools" or
// "webview-windows.exe".
func AssetName(goos, goarch, flags string) (string, error) {
	switch goos {
	case "darwin":
		if goarch == "arm64" {
			return "webview-mac-arm64" + flags, nil
		}
		return "webview-mac" + flags, nil
	case "linux":
		return "webview-linux" + flags, nil
	case "windows":
		return "webview-windows" + flags + ".exe", nil
	default:
		return "", fmt.Errorf("no webview engine builds for %s/%s", goos, goarch)
	}
}

// CacheFileName returns the name a downloaded engine is cached under.
func CacheFileName(engineVersion, flags, goos string) string {
	name := "webview-" + engineVersion + flags
	if goos == "windows" {
		name += ".exe"
	}
	return name
}

// DefaultCacheDir returns the per-user cache directory for engine
// binaries.
func DefaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating user cache directory: %w", err)
	}
	return filepath.Join(base, "webview"), nil
}

// Resolve returns the path of an engine executable suitable for
// options.
func (resolver *Resolver) Resolve(ctx context.Context, options wire.Options) (string, error) {
	if path, ok := resolver.config.LookupEnv(EnvBinary); ok && path != "" {
		resolver.logger.Debug("using webview engine from environment", "variable", EnvBinary, "path", path)
		return path, nil
	}

	if resolver.config.BinaryPath != "" {
		if _, err := os.Stat(resolver.config.BinaryPath); err != nil {
			return "", fmt.Errorf("configured webview engine: %w", err)
		}
		return resolver.config.BinaryPath, nil
	}

	flags := Flags(options, resolver.config.GOOS)
	asset, err := AssetName(resolver.config.GOOS, resolver.config.GOARCH, flags)
	if err != nil {
		return "", err
	}
	expected, err := resolver.expectedDigest(asset)
	if err != nil {
		return "", err
	}

	cacheDir := resolver.config.CacheDir
	if cacheDir == "" {
		if cacheDir, err = DefaultCacheDir(); err != nil {
			return "", err
		}
	}
	path := filepath.Join(cacheDir, CacheFileName(resolver.config.Version, flags, resolver.config.GOOS))

	if _, err := os.Stat(path); err == nil {
		if resolver.verifyCached(path, asset, expected) {
			return path, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("checking cached webview engine: %w", err)
	}

	if err := resolver.download(ctx, asset, path, expected); err != nil {
		return "", err
	}
	return path, nil
}

func (resolver *Resolver) expectedDigest(asset string) (*Digest, error) {
	hexDigest, ok := resolver.config.Digests[asset]
	if !ok {
		return nil, nil
	}
	digest, err := ParseDigest(hexDigest)
	if err != nil {
		return nil, fmt.Errorf("digest for %s: %w", asset, err)
	}
	return &digest, nil
}

// verifyCached reports whether the cached file can be used. A file that
// fails verification is removed so it is downloaded again.
func (resolver *Resolver) verifyCached(path, asset string, expected *Digest) bool {
	if expected == nil {
		return true
	}
	actual, err := HashFile(path)
	if err == nil && actual == *expected {
		return true
	}
	resolver.logger.Warn("discarding cached webview engine that does not match its digest",
		"path", path, "asset", asset, "error", err)
	if err := os.Remove(path); err != nil {
		resolver.logger.Warn("removing cached webview engine", "path", path, "error", err)
	}
	return false
}

// download fetches asset into path. The file appears at path only once
// it is complete, verified, and executable.
func (resolver *Resolver) download(ctx context.Context, asset, path string, expected *Digest) error {
	url := fmt.Sprintf("%s/webview-v%s/%s", resolver.config.BaseURL, resolver.config.Version, asset)
	resolver.logger.Info("downloading webview engine", "url", url, "path", path)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building download request: %w", err)
	}
	response, err := resolver.client.Do(request)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", url, err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: %s", url, response.Status)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	temporary, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return fmt.Errorf("creating download file: %w", err)
	}
	temporaryPath := temporary.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(temporaryPath)
		}
	}()

	hasher := blake3.New()
	size, err := io.Copy(io.MultiWriter(temporary, hasher), response.Body)
	if closeErr := temporary.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", asset, err)
	}

	actual := sumDigest(hasher)
	if expected != nil && actual != *expected {
		return fmt.Errorf("downloaded %s has digest %s, want %s", asset, FormatDigest(actual), FormatDigest(*expected))
	}
	if err := os.Chmod(temporaryPath, 0o755); err != nil {
		return fmt.Errorf("marking %s executable: %w", asset, err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		return fmt.Errorf("installing %s: %w", asset, err)
	}
	committed = true

	resolver.logger.Info("webview engine cached", "path", path, "bytes", size, "blake3", FormatDigest(actual))
	return nil
}

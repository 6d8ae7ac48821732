package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// configuration keys; all overridable via environment variables with the
// PHOTOVAULT_ prefix (dots become underscores, e.g. PHOTOVAULT_REPOSITORY_PATH)
const (
	KeyRepositoryPath     = "repository.path"
	KeyRepositoryRemote   = "repository.remote"
	KeyRepositoryUsername = "repository.username"
	KeyRepositoryPassword = "repository.password"
	KeyPollIntervalMin    = "repository.poll_interval_minutes"
	KeyStartupGraceSec    = "repository.startup_grace_seconds"

	KeyTaggerExecutable = "tagger.executable"
	KeyTaggerScript     = "tagger.script"
	KeyTaggerTimeoutSec = "tagger.timeout_seconds"

	KeyScriptTimeoutSec = "scripts.timeout_seconds"

	KeyThumbnailMaxSize = "thumbnail.max_size"

	KeyDatabasePath = "database.path"

	KeyHTTPPort = "http.port"

	KeyAdminEmail    = "admin.email"
	KeyAdminPassword = "admin.password"
)

const (
	defaultPollIntervalMinutes = 5
	defaultStartupGraceSeconds = 30
	defaultTaggerTimeoutSec    = 30
	defaultScriptTimeoutSec    = 60
	defaultThumbnailMaxSize    = 300
)

// ThumbnailsSubDir is the sibling directory under the repository root
// where generated previews are written.
const ThumbnailsSubDir = "thumbnails"

// Provider exposes runtime-overridable configuration. Values are read
// from the live viper instance on every call, so settings changed in the
// config file between polls take effect on the next cycle.
type Provider struct {
	v *viper.Viper
}

// Load builds the provider from defaults, an optional photovault.yaml in
// the working directory, and PHOTOVAULT_* environment variables.
func Load() (*Provider, error) {
	v := viper.New()

	v.SetDefault(KeyRepositoryPath, ".")
	v.SetDefault(KeyRepositoryRemote, "origin")
	v.SetDefault(KeyPollIntervalMin, defaultPollIntervalMinutes)
	v.SetDefault(KeyStartupGraceSec, defaultStartupGraceSeconds)
	v.SetDefault(KeyTaggerTimeoutSec, defaultTaggerTimeoutSec)
	v.SetDefault(KeyScriptTimeoutSec, defaultScriptTimeoutSec)
	v.SetDefault(KeyThumbnailMaxSize, defaultThumbnailMaxSize)
	v.SetDefault(KeyDatabasePath, "photovault.db")
	v.SetDefault(KeyHTTPPort, "8080")

	v.SetEnvPrefix("PHOTOVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("photovault")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.WatchConfig()
	}

	return &Provider{v: v}, nil
}

// GetProperty returns the raw string value for key, or def when unset.
func (p *Provider) GetProperty(key, def string) string {
	if p.v.IsSet(key) {
		if s := p.v.GetString(key); s != "" {
			return s
		}
	}
	return def
}

// RepositoryPath returns the absolute path of the monitored working copy.
func (p *Provider) RepositoryPath() string {
	path := p.v.GetString(KeyRepositoryPath)
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// RepositoryRemote is the remote name pulled before each poll.
func (p *Provider) RepositoryRemote() string {
	if remote := p.v.GetString(KeyRepositoryRemote); remote != "" {
		return remote
	}
	return "origin"
}
func (p *Provider) RepositoryUsername() string { return p.v.GetString(KeyRepositoryUsername) }
func (p *Provider) RepositoryPassword() string { return p.v.GetString(KeyRepositoryPassword) }

func (p *Provider) PollInterval() time.Duration {
	minutes := p.v.GetInt(KeyPollIntervalMin)
	if minutes <= 0 {
		minutes = defaultPollIntervalMinutes
	}
	return time.Duration(minutes) * time.Minute
}

func (p *Provider) StartupGrace() time.Duration {
	seconds := p.v.GetInt(KeyStartupGraceSec)
	if seconds < 0 {
		seconds = defaultStartupGraceSeconds
	}
	return time.Duration(seconds) * time.Second
}

func (p *Provider) TaggerExecutable() string { return p.v.GetString(KeyTaggerExecutable) }
func (p *Provider) TaggerScript() string     { return p.v.GetString(KeyTaggerScript) }

func (p *Provider) TaggerTimeout() time.Duration {
	seconds := p.v.GetInt(KeyTaggerTimeoutSec)
	if seconds <= 0 {
		seconds = defaultTaggerTimeoutSec
	}
	return time.Duration(seconds) * time.Second
}

func (p *Provider) ScriptTimeout() time.Duration {
	seconds := p.v.GetInt(KeyScriptTimeoutSec)
	if seconds <= 0 {
		seconds = defaultScriptTimeoutSec
	}
	return time.Duration(seconds) * time.Second
}

func (p *Provider) ThumbnailMaxSize() int {
	size := p.v.GetInt(KeyThumbnailMaxSize)
	if size <= 0 {
		size = defaultThumbnailMaxSize
	}
	return size
}

// ThumbnailsDir is the sibling "thumbnails" directory under the
// configured repository root.
func (p *Provider) ThumbnailsDir() string {
	return filepath.Join(p.RepositoryPath(), ThumbnailsSubDir)
}

func (p *Provider) DatabasePath() string { return p.v.GetString(KeyDatabasePath) }
func (p *Provider) HTTPPort() string     { return p.v.GetString(KeyHTTPPort) }

func (p *Provider) AdminEmail() string    { return p.v.GetString(KeyAdminEmail) }
func (p *Provider) AdminPassword() string { return p.v.GetString(KeyAdminPassword) }

// Set overrides a value at runtime; used by tests and the admin surface.
func (p *Provider) Set(key string, value interface{}) {
	p.v.Set(key, value)
}

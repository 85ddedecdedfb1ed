// Package config loads memories-e2e settings from ini files and the environment.
//
// Values are resolved in layers: embedded defaults, then the global config
// (~/.config/memories-e2e/config), then the project-local .memories-e2e/config,
// then the USE_LOCAL, HEADLESS and APP_URL environment variables.
package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/umputun/memories-e2e/pkg/notify"
)

//go:embed defaults
var defaultsFS embed.FS

// localDirName is the project-local config directory looked up in the working directory.
const localDirName = ".memories-e2e"

// environment variables that override file configuration.
const (
	EnvUseLocal = "USE_LOCAL"
	EnvHeadless = "HEADLESS"
	EnvAppURL   = "APP_URL"
)

// Config is the fully resolved run configuration. It is built once and not mutated afterwards.
type Config struct {
	AppURL string

	UseLocal     bool
	BackendDir   string
	FrontendDir  string
	StartCommand string
	StartupDelay time.Duration

	Headless        bool
	ViewportWidth   int
	ViewportHeight  int
	UserAgent       string
	ImplicitWait    time.Duration
	PageLoadTimeout time.Duration

	SettleDelay   time.Duration
	MaxLoadTime   time.Duration
	SelectorsFile string

	ScreenshotsDir  string
	ReportPath      string
	FinalScreenshot string
	ProgressLog     string

	Colors       ColorConfig
	NotifyParams notify.Params

	configDir string
	localDir  string
	suiteRoot string
}

// DefaultsFS returns the embedded defaults filesystem.
func DefaultsFS() embed.FS { return defaultsFS }

// DefaultConfigDir returns the global config directory, ~/.config/memories-e2e.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "memories-e2e")
	}
	return filepath.Join(home, ".config", "memories-e2e")
}

// Load reads configuration from configDir (default location if empty), the local
// .memories-e2e directory when present in the working directory, and the environment.
// The default config file is installed into configDir on first use.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	localDir := ""
	if st, err := os.Stat(localDirName); err == nil && st.IsDir() {
		localDir = localDirName
	}
	return loadWithLocal(configDir, localDir)
}

// loadWithLocal loads configuration with an explicit local directory; empty localDir skips the local layer.
func loadWithLocal(globalDir, localDir string) (*Config, error) {
	if err := installDefaults(defaultsFS, globalDir); err != nil {
		return nil, fmt.Errorf("install defaults: %w", err)
	}

	globalPath := filepath.Join(globalDir, "config")
	localPath := ""
	if localDir != "" {
		localPath = filepath.Join(localDir, "config")
	}

	values, err := newValuesLoader(defaultsFS).Load(localPath, globalPath)
	if err != nil {
		return nil, fmt.Errorf("load values: %w", err)
	}

	colors, err := loadColors(defaultsFS, globalPath, localPath)
	if err != nil {
		return nil, fmt.Errorf("load colors: %w", err)
	}

	cfg := fromValues(values)
	cfg.Colors = colors
	cfg.configDir = globalDir
	cfg.localDir = localDir
	cfg.suiteRoot = suiteRoot(localDir)
	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

// LocalDir returns the local config directory in use, empty when none.
func (c *Config) LocalDir() string { return c.localDir }

// ConfigDir returns the global config directory in use.
func (c *Config) ConfigDir() string { return c.configDir }

// SuiteRoot returns the absolute directory relative backend and frontend dirs are resolved against:
// the project holding the local config directory, or the working directory at load time without one.
func (c *Config) SuiteRoot() string { return c.suiteRoot }

func suiteRoot(localDir string) string {
	root := "."
	if localDir != "" {
		root = filepath.Dir(localDir)
	}
	if abs, err := filepath.Abs(root); err == nil {
		return abs
	}
	return root
}

// applyEnv overrides file values with environment variables. Empty variables are ignored,
// boolean variables are true only for a case-insensitive "true".
func (c *Config) applyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvUseLocal)); v != "" {
		c.UseLocal = strings.EqualFold(v, "true")
	}
	if v := strings.TrimSpace(getenv(EnvHeadless)); v != "" {
		c.Headless = strings.EqualFold(v, "true")
	}
	if v := strings.TrimSpace(getenv(EnvAppURL)); v != "" {
		c.AppURL = v
	}
	c.AppURL = strings.TrimRight(c.AppURL, "/")
}

func fromValues(v Values) *Config {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	return &Config{
		AppURL:          v.AppURL,
		UseLocal:        v.UseLocal,
		BackendDir:      v.BackendDir,
		FrontendDir:     v.FrontendDir,
		StartCommand:    v.StartCommand,
		StartupDelay:    ms(v.StartupDelayMs),
		Headless:        v.Headless,
		ViewportWidth:   v.ViewportWidth,
		ViewportHeight:  v.ViewportHeight,
		UserAgent:       v.UserAgent,
		ImplicitWait:    ms(v.ImplicitWaitMs),
		PageLoadTimeout: ms(v.PageLoadTimeoutMs),
		SettleDelay:     ms(v.SettleDelayMs),
		MaxLoadTime:     ms(v.MaxLoadTimeMs),
		SelectorsFile:   v.SelectorsFile,
		ScreenshotsDir:  v.ScreenshotsDir,
		ReportPath:      v.ReportPath,
		FinalScreenshot: v.FinalScreenshot,
		ProgressLog:     v.ProgressLog,
		NotifyParams: notify.Params{
			Channels:      v.NotifyChannels,
			OnError:       v.NotifyOnError,
			OnComplete:    v.NotifyOnComplete,
			TimeoutMs:     v.NotifyTimeoutMs,
			TelegramToken: v.NotifyTelegramToken,
			TelegramChat:  v.NotifyTelegramChat,
			SlackToken:    v.NotifySlackToken,
			SlackChannel:  v.NotifySlackChannel,
			SMTPHost:      v.NotifySMTPHost,
			SMTPPort:      v.NotifySMTPPort,
			SMTPUsername:  v.NotifySMTPUsername,
			SMTPPassword:  v.NotifySMTPPassword,
			SMTPStartTLS:  v.NotifySMTPStartTLS,
			EmailFrom:     v.NotifyEmailFrom,
			EmailTo:       v.NotifyEmailTo,
			WebhookURLs:   v.NotifyWebhookURLs,
			CustomScript:  v.NotifyCustomScript,
		},
	}
}

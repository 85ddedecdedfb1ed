package config

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// Values holds scalar configuration values.
// Fields ending in *Set (e.g., UseLocalSet) track whether that field was explicitly
// set in config. This allows distinguishing explicit false/0 from "not set", enabling
// proper merge behavior where local config can override global config with zero values.
type Values struct {
	AppURL string

	UseLocal       bool
	UseLocalSet    bool // tracks if use_local was explicitly set
	BackendDir     string
	FrontendDir    string
	StartCommand   string
	StartupDelayMs int

	Headless          bool
	HeadlessSet       bool // tracks if headless was explicitly set
	ViewportWidth     int
	ViewportHeight    int
	UserAgent         string
	ImplicitWaitMs    int
	PageLoadTimeoutMs int

	SettleDelayMs    int
	SettleDelayMsSet bool // tracks if settle_delay_ms was explicitly set (0 disables settling)
	MaxLoadTimeMs    int
	SelectorsFile    string

	ScreenshotsDir  string
	ReportPath      string
	FinalScreenshot string
	ProgressLog     string

	NotifyChannels      []string
	NotifyOnError       bool
	NotifyOnErrorSet    bool
	NotifyOnComplete    bool
	NotifyOnCompleteSet bool
	NotifyTimeoutMs     int
	NotifyWebhookURLs   []string
	NotifySlackToken    string
	NotifySlackChannel  string
	NotifyTelegramToken string
	NotifyTelegramChat  string
	NotifySMTPHost      string
	NotifySMTPPort      int
	NotifySMTPUsername  string
	NotifySMTPPassword  string
	NotifySMTPStartTLS  bool
	NotifySMTPStartSet  bool
	NotifyEmailFrom     string
	NotifyEmailTo       []string
	NotifyCustomScript  string
}

// valuesLoader loads Values with embedded filesystem fallback.
type valuesLoader struct {
	embedFS embed.FS
}

// newValuesLoader creates a new valuesLoader with the given embedded filesystem.
func newValuesLoader(embedFS embed.FS) *valuesLoader {
	return &valuesLoader{embedFS: embedFS}
}

// Load loads values from config files with fallback chain: local → global → embedded.
// localConfigPath and globalConfigPath are full paths to config files (not directories).
func (vl *valuesLoader) Load(localConfigPath, globalConfigPath string) (Values, error) {
	embedded, err := vl.parseValuesFromEmbedded()
	if err != nil {
		return Values{}, fmt.Errorf("parse embedded defaults: %w", err)
	}

	global, err := vl.parseValuesFromFile(globalConfigPath)
	if err != nil {
		return Values{}, fmt.Errorf("parse global config: %w", err)
	}

	local, err := vl.parseValuesFromFile(localConfigPath)
	if err != nil {
		return Values{}, fmt.Errorf("parse local config: %w", err)
	}

	// merge: embedded → global → local (local wins)
	result := embedded
	result.mergeFrom(&global)
	result.mergeFrom(&local)

	return result, nil
}

// parseValuesFromFile reads a config file and parses it into Values.
// returns empty Values (not error) if file doesn't exist or contains only comments/whitespace.
func (vl *valuesLoader) parseValuesFromFile(path string) (Values, error) {
	if path == "" {
		return Values{}, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is constructed internally
	if err != nil {
		if os.IsNotExist(err) {
			return Values{}, nil
		}
		return Values{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if strings.TrimSpace(stripComments(string(data))) == "" {
		return Values{}, nil
	}

	return vl.parseValuesFromBytes(data)
}

// parseValuesFromEmbedded parses values from the embedded defaults/config file.
func (vl *valuesLoader) parseValuesFromEmbedded() (Values, error) {
	data, err := vl.embedFS.ReadFile("defaults/config")
	if err != nil {
		return Values{}, fmt.Errorf("read embedded defaults: %w", err)
	}
	return vl.parseValuesFromBytes(data)
}

// parseValuesFromBytes parses configuration from a byte slice into Values.
// empty keys are treated as unset so that commented templates and blank placeholders
// never override earlier layers.
func (vl *valuesLoader) parseValuesFromBytes(data []byte) (Values, error) {
	// ignoreInlineComment: true prevents # in hex colors from being treated as a comment marker
	cfg, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, data)
	if err != nil {
		return Values{}, fmt.Errorf("parse config: %w", err)
	}

	var v Values
	p := sectionParser{section: cfg.Section("")}

	p.str("app_url", &v.AppURL)

	p.boolean("use_local", &v.UseLocal, &v.UseLocalSet)
	p.str("backend_dir", &v.BackendDir)
	p.str("frontend_dir", &v.FrontendDir)
	p.str("start_command", &v.StartCommand)
	p.positiveInt("startup_delay_ms", &v.StartupDelayMs)

	p.boolean("headless", &v.Headless, &v.HeadlessSet)
	p.positiveInt("viewport_width", &v.ViewportWidth)
	p.positiveInt("viewport_height", &v.ViewportHeight)
	p.str("user_agent", &v.UserAgent)
	p.positiveInt("implicit_wait_ms", &v.ImplicitWaitMs)
	p.positiveInt("page_load_timeout_ms", &v.PageLoadTimeoutMs)

	p.nonNegativeInt("settle_delay_ms", &v.SettleDelayMs, &v.SettleDelayMsSet)
	p.positiveInt("max_load_time_ms", &v.MaxLoadTimeMs)
	p.str("selectors_file", &v.SelectorsFile)

	p.str("screenshots_dir", &v.ScreenshotsDir)
	p.str("report_path", &v.ReportPath)
	p.str("final_screenshot", &v.FinalScreenshot)
	p.str("progress_log", &v.ProgressLog)

	p.list("notify_channels", &v.NotifyChannels)
	p.boolean("notify_on_error", &v.NotifyOnError, &v.NotifyOnErrorSet)
	p.boolean("notify_on_complete", &v.NotifyOnComplete, &v.NotifyOnCompleteSet)
	p.positiveInt("notify_timeout_ms", &v.NotifyTimeoutMs)
	p.list("notify_webhook_urls", &v.NotifyWebhookURLs)
	p.str("notify_slack_token", &v.NotifySlackToken)
	p.str("notify_slack_channel", &v.NotifySlackChannel)
	p.str("notify_telegram_token", &v.NotifyTelegramToken)
	p.str("notify_telegram_chat", &v.NotifyTelegramChat)
	p.str("notify_smtp_host", &v.NotifySMTPHost)
	p.positiveInt("notify_smtp_port", &v.NotifySMTPPort)
	p.str("notify_smtp_username", &v.NotifySMTPUsername)
	p.str("notify_smtp_password", &v.NotifySMTPPassword)
	p.boolean("notify_smtp_starttls", &v.NotifySMTPStartTLS, &v.NotifySMTPStartSet)
	p.str("notify_email_from", &v.NotifyEmailFrom)
	p.list("notify_email_to", &v.NotifyEmailTo)
	p.str("notify_custom_script", &v.NotifyCustomScript)

	if p.err != nil {
		return Values{}, p.err
	}
	return v, nil
}

// sectionParser reads typed keys from an ini section, remembering the first error.
type sectionParser struct {
	section *ini.Section
	err     error
}

func (p *sectionParser) raw(name string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	key, err := p.section.GetKey(name)
	if err != nil {
		return "", false
	}
	val := strings.TrimSpace(key.String())
	return val, val != ""
}

func (p *sectionParser) str(name string, dst *string) {
	if val, ok := p.raw(name); ok {
		*dst = val
	}
}

func (p *sectionParser) list(name string, dst *[]string) {
	val, ok := p.raw(name)
	if !ok {
		return
	}
	var res []string
	for item := range strings.SplitSeq(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}
	*dst = res
}

func (p *sectionParser) boolean(name string, dst, set *bool) {
	if _, ok := p.raw(name); !ok {
		return
	}
	val, err := p.section.Key(name).Bool()
	if err != nil {
		p.err = fmt.Errorf("invalid %s: %w", name, err)
		return
	}
	*dst = val
	*set = true
}

func (p *sectionParser) positiveInt(name string, dst *int) {
	if _, ok := p.raw(name); !ok {
		return
	}
	val, err := p.section.Key(name).Int()
	if err != nil {
		p.err = fmt.Errorf("invalid %s: %w", name, err)
		return
	}
	if val <= 0 {
		p.err = fmt.Errorf("invalid %s: must be positive, got %d", name, val)
		return
	}
	*dst = val
}

func (p *sectionParser) nonNegativeInt(name string, dst *int, set *bool) {
	if _, ok := p.raw(name); !ok {
		return
	}
	val, err := p.section.Key(name).Int()
	if err != nil {
		p.err = fmt.Errorf("invalid %s: %w", name, err)
		return
	}
	if val < 0 {
		p.err = fmt.Errorf("invalid %s: must be non-negative, got %d", name, val)
		return
	}
	*dst = val
	*set = true
}

// stripComments removes full-line comments (# or ;) from ini content.
func stripComments(content string) string {
	var b strings.Builder
	for line := range strings.SplitSeq(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ";") {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// mergeFrom merges set values from src into dst.
//
//nolint:gocyclo // flat list of field merges
func (dst *Values) mergeFrom(src *Values) {
	mergeStr := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	mergeInt := func(d *int, s int) {
		if s > 0 {
			*d = s
		}
	}
	mergeList := func(d *[]string, s []string) {
		if len(s) > 0 {
			*d = s
		}
	}
	mergeBool := func(d, dSet *bool, s, sSet bool) {
		if sSet {
			*d = s
			*dSet = true
		}
	}

	mergeStr(&dst.AppURL, src.AppURL)
	mergeBool(&dst.UseLocal, &dst.UseLocalSet, src.UseLocal, src.UseLocalSet)
	mergeStr(&dst.BackendDir, src.BackendDir)
	mergeStr(&dst.FrontendDir, src.FrontendDir)
	mergeStr(&dst.StartCommand, src.StartCommand)
	mergeInt(&dst.StartupDelayMs, src.StartupDelayMs)

	mergeBool(&dst.Headless, &dst.HeadlessSet, src.Headless, src.HeadlessSet)
	mergeInt(&dst.ViewportWidth, src.ViewportWidth)
	mergeInt(&dst.ViewportHeight, src.ViewportHeight)
	mergeStr(&dst.UserAgent, src.UserAgent)
	mergeInt(&dst.ImplicitWaitMs, src.ImplicitWaitMs)
	mergeInt(&dst.PageLoadTimeoutMs, src.PageLoadTimeoutMs)

	if src.SettleDelayMsSet {
		dst.SettleDelayMs = src.SettleDelayMs
		dst.SettleDelayMsSet = true
	}
	mergeInt(&dst.MaxLoadTimeMs, src.MaxLoadTimeMs)
	mergeStr(&dst.SelectorsFile, src.SelectorsFile)

	mergeStr(&dst.ScreenshotsDir, src.ScreenshotsDir)
	mergeStr(&dst.ReportPath, src.ReportPath)
	mergeStr(&dst.FinalScreenshot, src.FinalScreenshot)
	mergeStr(&dst.ProgressLog, src.ProgressLog)

	mergeList(&dst.NotifyChannels, src.NotifyChannels)
	mergeBool(&dst.NotifyOnError, &dst.NotifyOnErrorSet, src.NotifyOnError, src.NotifyOnErrorSet)
	mergeBool(&dst.NotifyOnComplete, &dst.NotifyOnCompleteSet, src.NotifyOnComplete, src.NotifyOnCompleteSet)
	mergeInt(&dst.NotifyTimeoutMs, src.NotifyTimeoutMs)
	mergeList(&dst.NotifyWebhookURLs, src.NotifyWebhookURLs)
	mergeStr(&dst.NotifySlackToken, src.NotifySlackToken)
	mergeStr(&dst.NotifySlackChannel, src.NotifySlackChannel)
	mergeStr(&dst.NotifyTelegramToken, src.NotifyTelegramToken)
	mergeStr(&dst.NotifyTelegramChat, src.NotifyTelegramChat)
	mergeStr(&dst.NotifySMTPHost, src.NotifySMTPHost)
	mergeInt(&dst.NotifySMTPPort, src.NotifySMTPPort)
	mergeStr(&dst.NotifySMTPUsername, src.NotifySMTPUsername)
	mergeStr(&dst.NotifySMTPPassword, src.NotifySMTPPassword)
	mergeBool(&dst.NotifySMTPStartTLS, &dst.NotifySMTPStartSet, src.NotifySMTPStartTLS, src.NotifySMTPStartSet)
	mergeStr(&dst.NotifyEmailFrom, src.NotifyEmailFrom)
	mergeList(&dst.NotifyEmailTo, src.NotifyEmailTo)
	mergeStr(&dst.NotifyCustomScript, src.NotifyCustomScript)
}

// Package notify sends end-of-run summaries of the e2e suite to chat, mail, webhooks or a script.
//
// Delivery is best effort: a target that fails is logged and the rest still get the summary.
package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Params holds notification settings as loaded by the config package.
type Params struct {
	Channels      []string
	OnError       bool
	OnComplete    bool
	TimeoutMs     int
	TelegramToken string
	TelegramChat  string
	SlackToken    string
	SlackChannel  string
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPStartTLS  bool
	EmailFrom     string
	EmailTo       []string
	WebhookURLs   []string
	CustomScript  string
}

const defaultTimeout = 10 * time.Second

// Service delivers run summaries to the configured targets.
type Service struct {
	targets   []target
	onFailure bool
	onSuccess bool
	timeout   time.Duration
	hostname  string
	log       logger
}

// target is one delivery destination.
type target interface {
	deliver(ctx context.Context, r Result, text string) error
	String() string
}

type logger interface {
	Print(format string, args ...any)
}

// New builds a Service for the channels listed in p.
// it returns nil, nil when no channel is configured; Send on a nil Service does nothing.
func New(p Params, log logger) (*Service, error) {
	if len(p.Channels) == 0 {
		return nil, nil //nolint:nilnil // a nil service is a valid "notifications off" value
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	svc := &Service{
		onFailure: p.OnError,
		onSuccess: p.OnComplete,
		timeout:   time.Duration(p.TimeoutMs) * time.Millisecond,
		hostname:  hostname,
		log:       log,
	}
	if svc.timeout <= 0 {
		svc.timeout = defaultTimeout
	}

	for _, name := range p.Channels {
		name = strings.ToLower(strings.TrimSpace(name))
		build, ok := builders[name]
		if !ok {
			return nil, fmt.Errorf("unknown notification channel: %q", name)
		}
		ts, err := build(p)
		if err != nil {
			var soft *softError
			if errors.As(err, &soft) {
				log.Print("[WARN] %s channel disabled: %s", name, soft.msg)
				continue
			}
			return nil, fmt.Errorf("%s channel: %w", name, err)
		}
		svc.targets = append(svc.targets, ts...)
	}

	if len(svc.targets) == 0 {
		log.Print("[WARN] no notification target left after setup, notifications are off")
	}
	return svc, nil
}

// Send delivers r to every target, honoring the on_error and on_complete switches.
// errors are logged, never returned.
func (s *Service) Send(ctx context.Context, r Result) {
	if s == nil || !s.wants(r) {
		return
	}

	text := r.Text(s.hostname)
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	for _, t := range s.targets {
		if err := t.deliver(ctx, r, text); err != nil {
			s.log.Print("[WARN] notification to %s failed: %v", t, err)
		}
	}
}

func (s *Service) wants(r Result) bool {
	if r.Status == StatusPassed {
		return s.onSuccess
	}
	return s.onFailure
}

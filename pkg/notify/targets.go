package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"

	ntfy "github.com/go-pkgz/notify"
)

// builders maps a channel name to the constructor of its targets.
var builders = map[string]func(Params) ([]target, error){
	"telegram": buildTelegram,
	"email":    buildEmail,
	"slack":    buildSlack,
	"webhook":  buildWebhooks,
	"custom":   buildScript,
}

// softError marks a channel that could not be set up for reasons outside the config,
// e.g. an unreachable api. such a channel is skipped with a warning instead of failing the run.
type softError struct{ msg string }

func (e *softError) Error() string { return e.msg }

// sendTarget delivers through a go-pkgz/notify notifier.
// dest builds the destination per result, so subjects can carry the outcome.
type sendTarget struct {
	n      ntfy.Notifier
	dest   func(Result) string
	escape bool // html parse mode needs escaped text
}

func (t sendTarget) deliver(ctx context.Context, r Result, text string) error {
	if t.escape {
		text = html.EscapeString(text)
	}
	return t.n.Send(ctx, t.dest(r), text) //nolint:wrapcheck // wrapped by caller log line
}

func (t sendTarget) String() string { return t.n.String() }

func fixed(dest string) func(Result) string { return func(Result) string { return dest } }

// newTelegram is replaced in tests, the real constructor calls the telegram api.
var newTelegram = func(token string) (ntfy.Notifier, error) {
	tg, err := ntfy.NewTelegram(ntfy.TelegramParams{Token: token})
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by buildTelegram
	}
	return tg, nil
}

func buildTelegram(p Params) ([]target, error) {
	if p.TelegramToken == "" || p.TelegramChat == "" {
		return nil, errors.New("notify_telegram_token and notify_telegram_chat are required")
	}
	tg, err := newTelegram(p.TelegramToken)
	if err != nil {
		// the api error may echo the token back
		return nil, &softError{msg: strings.ReplaceAll(err.Error(), p.TelegramToken, "***")}
	}
	dest := fmt.Sprintf("telegram:%s?parseMode=HTML", p.TelegramChat)
	return []target{sendTarget{n: tg, dest: fixed(dest), escape: true}}, nil
}

func buildEmail(p Params) ([]target, error) {
	switch {
	case p.SMTPHost == "":
		return nil, errors.New("notify_smtp_host is required")
	case p.EmailFrom == "":
		return nil, errors.New("notify_email_from is required")
	case len(p.EmailTo) == 0:
		return nil, errors.New("notify_email_to is required")
	}

	em := ntfy.NewEmail(ntfy.SMTPParams{
		Host:     p.SMTPHost,
		Port:     p.SMTPPort,
		Username: p.SMTPUsername,
		Password: p.SMTPPassword,
		StartTLS: p.SMTPStartTLS,
	})
	to := strings.Join(p.EmailTo, ",")
	dest := func(r Result) string {
		return fmt.Sprintf("mailto:%s?from=%s&subject=%s", to, url.QueryEscape(p.EmailFrom), url.QueryEscape(r.Subject()))
	}
	return []target{sendTarget{n: em, dest: dest}}, nil
}

func buildSlack(p Params) ([]target, error) {
	if p.SlackToken == "" || p.SlackChannel == "" {
		return nil, errors.New("notify_slack_token and notify_slack_channel are required")
	}
	return []target{sendTarget{n: ntfy.NewSlack(p.SlackToken), dest: fixed("slack:" + p.SlackChannel)}}, nil
}

// buildWebhooks shares one notifier between all urls.
func buildWebhooks(p Params) ([]target, error) {
	if len(p.WebhookURLs) == 0 {
		return nil, errors.New("notify_webhook_urls is required")
	}
	wh := ntfy.NewWebhook(ntfy.WebhookParams{})
	res := make([]target, 0, len(p.WebhookURLs))
	for _, u := range p.WebhookURLs {
		res = append(res, sendTarget{n: wh, dest: fixed(u)})
	}
	return res, nil
}

func buildScript(p Params) ([]target, error) {
	if p.CustomScript == "" {
		return nil, errors.New("notify_custom_script is required")
	}
	return []target{scriptTarget{path: p.CustomScript}}, nil
}

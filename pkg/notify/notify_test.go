package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	ntfy "github.com/go-pkgz/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu   sync.Mutex
	err  error
	sent []string // dest|text
}

func (f *fakeNotifier) Send(_ context.Context, dest, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, dest+"|"+text)
	return f.err
}

func (f *fakeNotifier) Schema() string { return "fake" }
func (f *fakeNotifier) String() string { return "fake notifier" }

func (f *fakeNotifier) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

type logRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (l *logRecorder) Print(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *logRecorder) joined() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "\n")
}

func TestNew(t *testing.T) {
	tbl := []struct {
		name    string
		params  Params
		targets int
		wantErr string
	}{
		{name: "unknown channel", params: Params{Channels: []string{"pager"}}, wantErr: `unknown notification channel: "pager"`},
		{name: "webhook without urls", params: Params{Channels: []string{"webhook"}}, wantErr: "notify_webhook_urls is required"},
		{name: "webhook per url", params: Params{Channels: []string{"webhook"}, WebhookURLs: []string{"http://a/h", "http://b/h"}}, targets: 2},
		{name: "email without host", params: Params{Channels: []string{"email"}}, wantErr: "notify_smtp_host is required"},
		{name: "email without sender", params: Params{Channels: []string{"email"}, SMTPHost: "smtp"}, wantErr: "notify_email_from is required"},
		{name: "email without recipients", params: Params{Channels: []string{"email"}, SMTPHost: "smtp", EmailFrom: "e2e@x"},
			wantErr: "notify_email_to is required"},
		{name: "email", params: Params{Channels: []string{"email"}, SMTPHost: "smtp", EmailFrom: "e2e@x", EmailTo: []string{"qa@x"}}, targets: 1},
		{name: "slack without channel", params: Params{Channels: []string{"slack"}, SlackToken: "xoxb"},
			wantErr: "notify_slack_token and notify_slack_channel are required"},
		{name: "slack", params: Params{Channels: []string{"slack"}, SlackToken: "xoxb", SlackChannel: "qa"}, targets: 1},
		{name: "telegram without chat", params: Params{Channels: []string{"telegram"}, TelegramToken: "t"},
			wantErr: "notify_telegram_token and notify_telegram_chat are required"},
		{name: "custom without script", params: Params{Channels: []string{"custom"}}, wantErr: "notify_custom_script is required"},
		{name: "names are trimmed and case folded", params: Params{Channels: []string{" Custom "}, CustomScript: "/bin/true"}, targets: 1},
		{name: "several channels", params: Params{Channels: []string{"custom", "webhook"}, CustomScript: "/bin/true",
			WebhookURLs: []string{"http://a/h"}}, targets: 2},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := New(tt.params, &logRecorder{})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, svc.targets, tt.targets)
		})
	}

	t.Run("no channels means no service", func(t *testing.T) {
		svc, err := New(Params{}, &logRecorder{})
		require.NoError(t, err)
		assert.Nil(t, svc)
		svc.Send(context.Background(), Result{Status: StatusFailed}) // no-op on nil
	})

	t.Run("timeout defaults", func(t *testing.T) {
		svc, err := New(Params{Channels: []string{"custom"}, CustomScript: "/bin/true"}, &logRecorder{})
		require.NoError(t, err)
		assert.Equal(t, 10*time.Second, svc.timeout)

		svc, err = New(Params{Channels: []string{"custom"}, CustomScript: "/bin/true", TimeoutMs: 250}, &logRecorder{})
		require.NoError(t, err)
		assert.Equal(t, 250*time.Millisecond, svc.timeout)
	})
}

func TestNew_TelegramUnavailable(t *testing.T) {
	orig := newTelegram
	t.Cleanup(func() { newTelegram = orig })
	newTelegram = func(token string) (ntfy.Notifier, error) {
		return nil, fmt.Errorf("get bot info for %s: connection refused", token)
	}

	log := &logRecorder{}
	svc, err := New(Params{Channels: []string{"telegram"}, TelegramToken: "123:secret", TelegramChat: "42"}, log)
	require.NoError(t, err, "unreachable telegram api should not stop the run")
	assert.Empty(t, svc.targets)

	out := log.joined()
	assert.Contains(t, out, "[WARN] telegram channel disabled")
	assert.Contains(t, out, "get bot info for ***")
	assert.NotContains(t, out, "123:secret")
	assert.Contains(t, out, "notifications are off")
}

func TestNew_TelegramTarget(t *testing.T) {
	fake := &fakeNotifier{}
	orig := newTelegram
	t.Cleanup(func() { newTelegram = orig })
	newTelegram = func(string) (ntfy.Notifier, error) { return fake, nil }

	svc, err := New(Params{Channels: []string{"telegram"}, TelegramToken: "t", TelegramChat: "42", OnError: true}, &logRecorder{})
	require.NoError(t, err)

	svc.Send(context.Background(), Result{Status: StatusFailed, Failed: 1, Total: 1,
		Failures: []Failure{{Scenario: "form_validation", Message: "want <p class=error>"}}})
	sent := fake.messages()
	require.Len(t, sent, 1)
	assert.True(t, strings.HasPrefix(sent[0], "telegram:42?parseMode=HTML|"), sent[0])
	assert.Contains(t, sent[0], "want &lt;p class=error&gt;")
}

func TestService_Send(t *testing.T) {
	failed := Result{Status: StatusFailed, Total: 2, Passed: 1, Failed: 1, Failures: []Failure{{Scenario: "search"}}}
	passed := Result{Status: StatusPassed, Total: 2, Passed: 2}

	tbl := []struct {
		name               string
		onError, onSuccess bool
		res                Result
		want               int
	}{
		{name: "failure delivered when on_error", onError: true, res: failed, want: 1},
		{name: "failure muted without on_error", onSuccess: true, res: failed, want: 0},
		{name: "success delivered when on_complete", onSuccess: true, res: passed, want: 1},
		{name: "success muted without on_complete", onError: true, res: passed, want: 0},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeNotifier{}
			svc := &Service{targets: []target{sendTarget{n: fake, dest: fixed("d")}}, onFailure: tt.onError, onSuccess: tt.onSuccess,
				timeout: time.Second, hostname: "ci", log: &logRecorder{}}
			svc.Send(context.Background(), tt.res)
			assert.Len(t, fake.messages(), tt.want)
		})
	}

	t.Run("one failing target does not block the rest", func(t *testing.T) {
		bad, good := &fakeNotifier{err: errors.New("boom")}, &fakeNotifier{}
		log := &logRecorder{}
		svc := &Service{targets: []target{sendTarget{n: bad, dest: fixed("x")}, sendTarget{n: good, dest: fixed("y")}},
			onFailure: true, timeout: time.Second, hostname: "ci", log: log}

		svc.Send(context.Background(), failed)
		assert.Len(t, bad.messages(), 1)
		require.Len(t, good.messages(), 1)
		assert.True(t, strings.HasPrefix(good.messages()[0], "y|memories-e2e failed: 1 of 2 scenarios (ci)"))
		assert.Contains(t, log.joined(), "[WARN] notification to fake notifier failed: boom")
	})
}

func TestEmailSubjectFollowsResult(t *testing.T) {
	ts, err := buildEmail(Params{SMTPHost: "smtp", EmailFrom: "e2e@example.com", EmailTo: []string{"a@x", "b@x"}})
	require.NoError(t, err)
	require.Len(t, ts, 1)

	st, ok := ts[0].(sendTarget)
	require.True(t, ok)
	dest := st.dest(Result{Status: StatusFailed, Failed: 3, Total: 15})
	assert.Equal(t, "mailto:a@x,b@x?from=e2e%40example.com&subject=memories-e2e+failed%3A+3+of+15+scenarios", dest)
}

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// scriptTarget hands the result to a user script as json on stdin.
// the rendered text is not used, scripts format what they need themselves.
type scriptTarget struct {
	path string
}

func (t scriptTarget) deliver(ctx context.Context, r Result, _ string) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, t.path) //nolint:gosec // script path is operator config
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout, cmd.Stderr = &out, &out

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(out.String())
		if msg == "" {
			return fmt.Errorf("run %s: %w", t.path, err)
		}
		return fmt.Errorf("run %s: %w: %s", t.path, err, msg)
	}
	return nil
}

func (t scriptTarget) String() string { return "script " + t.path }

package scenario

import (
	"context"
	"fmt"
	"strings"

	"github.com/umputun/memories-e2e/pkg/locate"
)

func responsive(ctx context.Context, env *Env) (err error) {
	width, height := env.desktop()
	defer func() {
		if rerr := restoreViewport(env, width, height); rerr != nil && err == nil {
			err = rerr
		}
	}()

	if err := env.Page.SetViewport(375, 667); err != nil {
		return err
	}
	if err := env.open(ctx, ""); err != nil {
		return err
	}
	env.Shot("mobile_view")
	if _, err := env.find("body", locate.Visible); err != nil {
		return Failf("body not visible on mobile")
	}
	env.Log.Print("mobile view: content visible")

	if err := env.Page.SetViewport(768, 1024); err != nil {
		return err
	}
	if err := env.Page.Reload(); err != nil {
		return err
	}
	if err := env.settle(ctx); err != nil {
		return err
	}
	env.Shot("tablet_view")
	env.Log.Print("tablet view: content visible")
	return nil
}

func restoreViewport(env *Env, width, height int) error {
	if err := env.Page.SetViewport(width, height); err != nil {
		return fmt.Errorf("restore viewport: %w", err)
	}
	if err := env.Page.Reload(); err != nil {
		return fmt.Errorf("reload after restoring viewport: %w", err)
	}
	return nil
}

// missingPage is a path no sane application serves.
const missingPage = "/nonexistent-page-12345"

func errorHandling(ctx context.Context, env *Env) error {
	if err := env.open(ctx, missingPage); err != nil {
		return err
	}
	env.Shot("error_page")

	text := env.bodyText()
	url := env.Page.URL()
	switch {
	case containsAny(text, "404", "not found", "error"):
		env.Log.Print("error page displayed")
	case strings.TrimRight(url, "/") != env.BaseURL+missingPage:
		env.Log.Print("redirected from error page to: %s", url)
	default:
		env.Log.Print("no explicit error message, but app didn't crash")
	}
	return nil
}

func performance(ctx context.Context, env *Env) error {
	start := env.now()
	if err := env.open(ctx, ""); err != nil {
		return err
	}
	elapsed := env.now().Sub(start)
	env.Log.Print("page load time: %.2fs", elapsed.Seconds())
	if limit := env.maxLoadTime(); elapsed >= limit {
		return Failf("page load too slow: %.2fs, limit %s", elapsed.Seconds(), limit)
	}
	return nil
}

package scenario

import (
	"context"
	"strings"

	"github.com/umputun/memories-e2e/pkg/locate"
)

func homepageLoads(ctx context.Context, env *Env) error {
	if err := env.Page.Goto(env.BaseURL); err != nil {
		return err
	}
	if _, err := env.Resolver.Wait(ctx, env.Page, env.targets("body"), present, env.waitTimeout()); err != nil {
		return Failf("page body did not appear: %v", err)
	}
	if err := env.settle(ctx); err != nil {
		return err
	}
	env.Shot("homepage_loaded")

	src, err := env.Page.Content()
	if err != nil {
		return err
	}
	src = strings.ToLower(src)
	if !containsAny(src, "memories", "memory") {
		return Failf("page should contain 'memories', content: %s", truncate(src, 500))
	}
	env.Log.Print("homepage loaded")
	return nil
}

func navigationBar(ctx context.Context, env *Env) error {
	if err := env.open(ctx, ""); err != nil {
		return err
	}

	nav, navErr := env.find("nav", present)
	if navErr == nil {
		env.Log.Print("found navigation with selector: %s", nav.Candidate)
	}
	env.Shot("navigation_bar")

	logo, logoErr := env.find("logo", locate.VisibleWithText)
	if logoErr == nil {
		text, _ := logo.Element.Text()
		env.Log.Print("found logo/title: %s", truncate(strings.TrimSpace(text), 50))
	}

	if navErr != nil && logoErr != nil {
		return Failf("no navigation or title found")
	}
	return nil
}

func memoriesDisplayed(ctx context.Context, env *Env) error {
	if err := env.open(ctx, ""); err != nil {
		return err
	}

	cards := env.Resolver.Collect(env.Page, env.targets("memory_cards"), locate.All(locate.Visible, locate.HasWidth))
	env.Shot("memories_displayed")
	if len(cards) > 0 {
		env.Log.Print("found %d memory card(s)", len(cards))
		return nil
	}

	if containsAny(env.bodyText(), "no memories", "create your first") {
		env.Log.Print("no memories found, fresh app")
		return nil
	}
	return Failf("should display memories or a 'no memories' message")
}

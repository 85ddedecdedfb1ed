package scenario

import (
	"context"
	"fmt"
	"strings"

	"github.com/umputun/memories-e2e/pkg/locate"
)

func createMemoryScenario(ctx context.Context, env *Env) error {
	_, err := createMemory(ctx, env)
	return err
}

// createMemory submits a fresh memory through the ui and verifies it shows up on the home page.
func createMemory(ctx context.Context, env *Env) (Memory, error) {
	if err := env.open(ctx, ""); err != nil {
		return Memory{}, err
	}
	mem := NewMemory(env.now())

	if m, err := env.click("create_button", locate.Interactive); err == nil {
		env.Log.Print("clicked create button: %s", m.Candidate)
	} else {
		if err := env.Page.Goto(env.BaseURL + "/create"); err != nil {
			return mem, err
		}
		env.Log.Print("navigated directly to create page")
	}
	if err := env.settle(ctx); err != nil {
		return mem, err
	}
	env.Shot("create_form")

	m, err := env.fill("title_field", mem.Title)
	if err != nil {
		return mem, Failf("could not find title field")
	}
	env.Log.Print("filled title: %s", m.Candidate)

	if m, err = env.fill("message_field", mem.Message); err != nil {
		return mem, Failf("could not find message field")
	}
	env.Log.Print("filled message: %s", m.Candidate)

	if m, err = env.fill("tags_field", mem.Tags); err == nil {
		env.Log.Print("filled tags: %s", m.Candidate)
	}
	env.Shot("form_filled")

	if m, err = env.click("submit_button", locate.Interactive); err != nil {
		return mem, Failf("could not submit form")
	}
	env.Log.Print("submitted with: %s", m.Candidate)
	if err := env.settle(ctx); err != nil {
		return mem, err
	}
	env.Shot("after_submit")

	if err := env.open(ctx, ""); err != nil {
		return mem, err
	}
	src, err := env.Page.Content()
	if err != nil {
		return mem, err
	}
	if !strings.Contains(src, mem.Title) {
		return mem, Failf("created memory title %q not found on homepage", mem.Title)
	}
	env.Log.Print("memory created: %s", mem.Title)
	return mem, nil
}

func viewMemoryDetails(ctx context.Context, env *Env) error {
	if err := env.open(ctx, ""); err != nil {
		return err
	}

	_, err := env.Resolver.First(env.Page, env.targets("memory_clickable"), locate.Interactive, func(el locate.Element) error {
		env.Log.Print("memory title: %s", cardTitle(env, el))
		return el.Click()
	})
	if err != nil {
		if strings.Contains(env.bodyText(), "no memories") {
			return Skipf("no memories available to view")
		}
		return Failf("memories exist but could not click any")
	}

	if err := env.settle(ctx); err != nil {
		return err
	}
	env.Shot("memory_details")

	if url := env.Page.URL(); containsAny(url, "detail", "memory", "post") {
		env.Log.Print("on details page: %s", url)
	} else {
		env.Log.Print("current url: %s", url)
	}

	m, err := env.find("detail_content", locate.All(locate.Visible, locate.TextLongerThan(10)))
	if err != nil {
		return Failf("could not find memory details")
	}
	text, _ := m.Element.Text()
	env.Log.Print("found detail content: %s", truncate(strings.TrimSpace(text), 100))
	return nil
}

// cardTitle returns the heading text inside a memory card, "Unknown" when there is none.
func cardTitle(env *Env, card locate.Element) string {
	for _, c := range env.targets("card_title") {
		els, err := card.Query(c)
		if err != nil || len(els) == 0 {
			continue
		}
		if text, err := els[0].Text(); err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
	}
	return "Unknown"
}

func editMemory(ctx context.Context, env *Env) error {
	if err := env.open(ctx, ""); err != nil {
		return err
	}

	if m, err := env.click("edit_button", locate.Interactive); err == nil {
		env.Log.Print("clicked edit button: %s", m.Candidate)
	} else {
		env.Log.Print("no edit button found, trying to navigate")
		url := env.Page.URL()
		if !strings.Contains(url, "/post/") {
			return Skipf("no edit functionality found")
		}
		if err := env.Page.Goto(strings.TrimRight(url, "/") + "/edit"); err != nil {
			return err
		}
	}
	if err := env.settle(ctx); err != nil {
		return err
	}
	env.Shot("edit_form")

	newTitle := fmt.Sprintf("Edited Memory %d", env.now().Unix())
	if m, err := env.fill("edit_title_field", newTitle); err == nil {
		env.Log.Print("updated title: %s", m.Candidate)
	} else {
		env.Log.Print("could not find title field to edit")
	}
	env.Shot("form_edited")

	m, saveErr := env.click("save_button", locate.Interactive)
	if saveErr == nil {
		env.Log.Print("saved changes with: %s", m.Candidate)
	}
	if err := env.settle(ctx); err != nil {
		return err
	}
	env.Shot("after_edit")

	if saveErr != nil {
		env.inconclusive("no save button found")
		return nil
	}
	if err := env.open(ctx, ""); err != nil {
		return err
	}
	src, err := env.Page.Content()
	if err != nil {
		return err
	}
	if strings.Contains(src, newTitle) {
		env.Log.Print("memory edited: %s", newTitle)
		return nil
	}
	env.inconclusive("edit may have worked but new title not visible")
	return nil
}

func deleteMemory(ctx context.Context, env *Env) error {
	if err := env.open(ctx, ""); err != nil {
		return err
	}

	before := env.Resolver.CountFirst(env.Page, env.targets("memory_count"), locate.Visible)
	env.Log.Print("memories before: %d", before)
	if before == 0 {
		env.Log.Print("no memories to delete, creating one first")
		if _, err := createMemory(ctx, env); err != nil {
			return fmt.Errorf("create memory to delete: %w", err)
		}
		before = 1
	}

	m, err := env.Resolver.First(env.Page, env.targets("delete_button"), locate.Interactive, func(el locate.Element) error {
		env.Shot("before_delete")
		return el.Click()
	})
	if err != nil {
		return Skipf("delete functionality not available")
	}
	env.Log.Print("clicked delete button: %s", m.Candidate)

	if err := env.settle(ctx); err != nil {
		return err
	}
	if msg, ok := env.Page.TakeDialog(); ok {
		env.Log.Print("accepted confirmation dialog: %s", msg)
	} else {
		env.Log.Print("no dialog, checking for modal")
		if m, err := env.click("confirm_button", locate.Visible); err == nil {
			env.Log.Print("clicked confirmation: %s", m.Candidate)
		}
	}

	if err := env.settle(ctx); err != nil {
		return err
	}
	env.Shot("after_delete")

	if err := env.Page.Reload(); err != nil {
		return err
	}
	if err := env.settle(ctx); err != nil {
		return err
	}
	after := env.Resolver.CountFirst(env.Page, env.targets("memory_count"), locate.Visible)
	env.Log.Print("memories after: %d", after)
	if after >= before {
		return Failf("memory count didn't decrease, before: %d, after: %d", before, after)
	}
	env.Log.Print("memory deleted")
	return nil
}

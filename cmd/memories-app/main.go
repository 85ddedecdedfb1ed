// Package main provides memories-app - the reference Memories application used by the e2e suite.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"github.com/umputun/memories-e2e/pkg/memapp"
)

type opts struct {
	Port    int    `short:"p" long:"port" env:"PORT" default:"3000" description:"http port"`
	DB      string `long:"db" env:"MEMORIES_DB" description:"sqlite database file, in-memory when empty"`
	Version bool   `short:"v" long:"version" description:"print version and exit"`
}

var revision = "unknown"

func main() {
	fmt.Printf("memories-app %s\n", revision)

	var o opts
	if _, err := flags.NewParser(&o, flags.Default).Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	if o.Version {
		os.Exit(0)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, o); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1) //nolint:gocritic // cancel is a no-op after a failed run
	}
}

func run(ctx context.Context, o opts) error {
	store, err := memapp.NewStore(o.DB)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	srv, err := memapp.NewServer(store)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	fmt.Printf("listening on http://localhost:%d\n", o.Port)
	if err := srv.Start(ctx, fmt.Sprintf(":%d", o.Port)); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

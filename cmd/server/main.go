package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bissquit/userdesk/internal/app"
	"github.com/bissquit/userdesk/internal/config"
	"github.com/bissquit/userdesk/internal/version"
	"github.com/jessevdk/go-flags"
)

// Options are the command line options of the server.
type Options struct {
	Config  string `short:"c" long:"config" env:"USERDESK_CONFIG" description:"path to YAML config file"`
	Version bool   `short:"v" long:"version" description:"print version and exit"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		log.Fatalf("userdesk: %v", err)
	}
}

func run(args []string) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}

	if opts.Version {
		fmt.Println(version.String())
		return nil
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.Run(ctx)
}

func parseOptions(args []string) (*Options, error) {
	opts := &Options{}
	if _, err := flags.ParseArgs(opts, args); err != nil {
		return nil, err
	}
	return opts, nil
}

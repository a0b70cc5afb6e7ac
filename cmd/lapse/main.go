package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/lapsehq/lapse/internal/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Logs go to stderr; stdout belongs to command output. Warn keeps
	// normal runs quiet, generate --verbose raises the level.
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	app := &cli.App{Log: log}

	// Detect an interactive terminal for the view entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/toddlers/naws/internal/app"
	"github.com/toddlers/naws/internal/config"
	"github.com/toddlers/naws/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Parse(args)
	if errors.Is(err, config.ErrHelp) {
		config.Usage(stdout)
		return exitOK
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		printError(stderr, false, err)
		config.Usage(stderr)
		return exitUsage
	}
	if cfg.ShowVersion {
		fmt.Fprintf(stdout, "naws %s\n", version)
		return exitOK
	}

	appLogger := logger.New(cfg.Logger, stderr)
	a := app.New(cfg, app.Options{
		Logger:  appLogger,
		Stdout:  stdout,
		Color:   !cfg.Display.NoColor && isTerminal(stdout),
		Version: version,
	})
	if err := a.Run(ctx); err != nil {
		printError(stderr, !cfg.Display.NoColor && isTerminal(stderr), err)
		return exitError
	}
	return exitOK
}

func printError(w io.Writer, colored bool, err error) {
	prefix := color.New(color.FgRed, color.Bold)
	if colored {
		prefix.EnableColor()
	} else {
		prefix.DisableColor()
	}
	fmt.Fprintf(w, "%s %v\n", prefix.Sprint("ERROR:"), err)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

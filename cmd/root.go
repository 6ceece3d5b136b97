// Package cmd implements the CLI command structure for tasktracker.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/nibzard/tasktracker/internal/config"
	"github.com/nibzard/tasktracker/internal/controller"
	"github.com/nibzard/tasktracker/internal/logging"
	"github.com/nibzard/tasktracker/internal/ui"
	"github.com/nibzard/tasktracker/internal/web"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the tasktracker CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasktracker", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(os.Stdout)
	}

	// Determine the subcommand; the terminal UI is the default
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "serve":
		return serveCommand(ctx, cfg, remainingArgs)
	case "config":
		return configCommand(os.Stdout, cws, remainingArgs)
	case "logs":
		return logsCommand(ctx, os.Stdout, cfg, remainingArgs)
	case "version":
		return versionCommand(os.Stdout)
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// tuiCommand runs the terminal UI. Logs go to a session file because the
// UI owns the terminal.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasktracker tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	session, err := logging.NewSession(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("creating session log: %w", err)
	}
	defer session.Close()

	logger := logging.New(session.Writer(), cfg.LogOptions("tui"))
	logger.Info("session started", "version", Version, "log", session.Path)

	ctrl := controller.New(controller.WithLogger(logger))

	g, gctx := errgroup.WithContext(ctx)
	runCtx, stop := context.WithCancel(gctx)
	defer stop()

	g.Go(func() error {
		return ignoreCanceled(ctrl.Run(runCtx))
	})
	g.Go(func() error {
		defer stop()
		return ui.RunTUI(runCtx, cfg, ctrl, logger)
	})

	err = g.Wait()
	logger.Info("session ended", "err", err)
	return err
}

// serveCommand runs the HTTP API until ctx is cancelled.
func serveCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasktracker serve", flag.ContinueOnError)
	addr := fs.String("addr", cfg.Addr, "Listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if logging.ParseLevel(cfg.LogLevel) > logging.ParseLevel("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := logging.New(os.Stderr, cfg.LogOptions("serve"))
	ctrl := controller.New(controller.WithLogger(logger))
	srv := web.NewServer(ctrl, cfg.TaskCategories(), logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ignoreCanceled(ctrl.Run(gctx))
	})
	g.Go(func() error {
		return srv.Serve(gctx, *addr)
	})
	return g.Wait()
}

// configCommand prints the effective configuration and where each value
// came from.
func configCommand(w io.Writer, cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("tasktracker config", flag.ContinueOnError)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(w, config.ExampleConfig())
		return nil
	}

	fmt.Fprintln(w, "Config files:")
	if len(cws.Files) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, file := range cws.Files {
		fmt.Fprintf(w, "  %s\n", file)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Values:")
	for _, field := range cws.Fields() {
		value := cws.Value(field)
		if value == "" {
			value = `""`
		}
		fmt.Fprintf(w, "  %-18s %-28s (%s)\n", field, value, cws.Source(field))
	}
	return nil
}

// logsCommand prints the latest session log of the current project.
func logsCommand(ctx context.Context, w io.Writer, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasktracker logs", flag.ContinueOnError)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dir, err := logging.SessionDir(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	path, err := logging.LatestSession(dir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if path == "" {
		fmt.Fprintln(w, "No session logs found.")
		return nil
	}

	fmt.Fprintf(w, "Tailing: %s\n", path)
	if *follow {
		fmt.Fprintln(w, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(w)

	return logging.Tail(ctx, w, path, *n, *follow)
}

func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "tasktracker version %s\n", Version)
	return nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasktracker - Track tasks with priorities, due dates and categories")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasktracker [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui           Launch the terminal UI (default command)")
	fmt.Fprintln(w, "  serve         Serve the JSON API")
	fmt.Fprintln(w, "  config        Show effective configuration and value sources")
	fmt.Fprintln(w, "  logs          Show the latest terminal UI session log")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve Options (use with 'serve' command):")
	fmt.Fprintln(w, "  -addr string")
	fmt.Fprintln(w, "        Listen address (overrides the global -addr)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options (use with 'config' command):")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example config file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logs Options (use with 'logs' command):")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}

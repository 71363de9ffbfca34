package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Commands.
const (
	cmdConvert    = "convert"
	cmdInitConfig = "init-config"
	cmdStyles     = "styles"
	cmdVersion    = "version"
	cmdHelp       = "help"
)

// ErrUnknownCommand is returned for a first argument that is neither a
// command nor a Markdown input.
var ErrUnknownCommand = errors.New("unknown command")

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches the command line and returns the process exit code.
// "md2docx notes.md" is shorthand for "md2docx convert notes.md".
func runMain(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch {
	case cmd == "-h" || cmd == "--help":
		cmd = cmdHelp
	case cmd == "--version":
		cmd = cmdVersion
	case !isCommand(cmd) && (looksLikeInput(cmd) || strings.HasPrefix(cmd, "-")):
		cmd, rest = cmdConvert, args[1:]
	}

	var err error
	switch cmd {
	case cmdConvert:
		err = runConvertCommand(ctx, rest, env)
	case cmdInitConfig:
		err = runInitConfig(rest, env)
	case cmdStyles:
		err = runStyles(rest, env)
	case cmdVersion:
		fmt.Fprintf(env.Stdout, "md2docx %s\n", Version)
	case cmdHelp:
		runHelp(rest, env)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
		printUsage(env.Stderr)
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runConvertCommand parses convert flags, sizes GOMAXPROCS and converts.
func runConvertCommand(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env)
	if err != nil {
		return err
	}

	logger := newLogger(env, flags.common)
	// maxprocs.Set only fails on an invalid GOMAXPROCS variable, in which case
	// the runtime default stays in place.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))

	return runConvert(ctx, positional, flags, logger, env)
}

// newLogger writes to stderr: errors only with -q, debug with -v, warnings
// otherwise.
func newLogger(env *Environment, f commonFlags) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case f.quiet:
		level = slog.LevelError
	case f.verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(env.Stderr, &slog.HandlerOptions{Level: level}))
}

func isCommand(s string) bool {
	switch s {
	case cmdConvert, cmdInitConfig, cmdStyles, cmdVersion, cmdHelp:
		return true
	}
	return false
}

// looksLikeInput reports whether s names a Markdown file or an existing
// directory.
func looksLikeInput(s string) bool {
	if validateMarkdownExtension(s) == nil {
		return true
	}
	info, err := os.Stat(s)
	return err == nil && info.IsDir()
}

// notifyContext returns a context that is canceled when an interrupt
// or termination signal is received. Call stop() to release resources.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

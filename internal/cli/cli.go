// Package cli implements the enlearn command-line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/phrazzld/enlearn/internal/app"
	"github.com/phrazzld/enlearn/internal/config"
	"github.com/phrazzld/enlearn/internal/platform/logger"
	"github.com/phrazzld/enlearn/internal/store"
	"github.com/spf13/pflag"
)

// Exit codes returned by Main.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// defaultCLILogLevel keeps diagnostics off the terminal unless asked for.
const defaultCLILogLevel = "warn"

// errUsage marks a command line that could not be understood.
var errUsage = errors.New("usage error")

// IO bundles the streams a command reads from and writes to.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Option configures Main.
type Option func(*mainOptions)

type mainOptions struct {
	appOpts []app.Option
}

// WithAppOptions passes options to app.New, mainly for tests.
func WithAppOptions(opts ...app.Option) Option {
	return func(o *mainOptions) {
		o.appOpts = append(o.appOpts, opts...)
	}
}

// command is one enlearn subcommand.
type command struct {
	summary string
	usage   string
	flags   func(fs *pflag.FlagSet)
	run     func(ctx context.Context, c *commandContext) error
}

// commandContext is what a running command has access to.
type commandContext struct {
	*app.App
	io    IO
	flags *pflag.FlagSet
	args  []string
}

func (c *commandContext) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(c.io.Out, format, a...)
}

func (c *commandContext) println(a ...any) {
	_, _ = fmt.Fprintln(c.io.Out, a...)
}

var commands = map[string]*command{
	"add": {
		summary: "Add a word and its definition",
		usage:   "add WORD DEFINITION [--context TEXT]",
		flags: func(fs *pflag.FlagSet) {
			fs.String("context", "", "optional context sentence or note")
		},
		run: runAdd,
	},
	"list": {
		summary: "List entries by next review date",
		usage:   "list [--limit N]",
		flags: func(fs *pflag.FlagSet) {
			fs.Int("limit", config.DefaultReviewLimit, "maximum entries to show")
		},
		run: runList,
	},
	"review": {
		summary: "Review the words due today",
		usage:   "review [--limit N] [--mode word-first|definition-first]",
		flags: func(fs *pflag.FlagSet) {
			fs.Int("limit", config.DefaultReviewLimit, "maximum entries to review")
			fs.String("mode", config.DefaultReviewMode, "which side of an entry is shown first")
		},
		run: runReview,
	},
	"delete": {
		summary: "Delete an entry by id",
		usage:   "delete ID",
		run:     runDelete,
	},
	"lookup": {
		summary: "Suggest translations for a word",
		usage:   "lookup WORD",
		flags: func(fs *pflag.FlagSet) {
			fs.String("provider", config.ProviderMyMemory, "translation provider: mymemory, gemini or none")
		},
		run: runLookup,
	},
	"import": {
		summary: "Import entries from an .xlsx or .csv file",
		usage:   "import FILE",
		flags: func(fs *pflag.FlagSet) {
			fs.String("provider", config.ProviderMyMemory, "translation provider for missing definitions")
		},
		run: runImport,
	},
	"export": {
		summary: "Write the collection as JSON",
		usage:   "export [--output FILE]",
		flags: func(fs *pflag.FlagSet) {
			fs.StringP("output", "o", "", "file to write instead of standard output")
		},
		run: runExport,
	},
}

// addGlobalFlags registers the flags every command accepts.
func addGlobalFlags(fs *pflag.FlagSet) {
	fs.String("storage", "", "path to the vocabulary file")
	fs.String("backend", "", "storage backend: json or sqlite")
	fs.String("config", "", "config file")
	fs.String("log-level", defaultCLILogLevel, "log level: debug, info, warn or error")
}

// Main runs the command named by args[0] and returns the process exit code.
func Main(ctx context.Context, args []string, stdio IO, opts ...Option) int {
	o := &mainOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(stdio.Err)
		if len(args) == 0 {
			return ExitUsage
		}
		return ExitOK
	}

	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		_, _ = fmt.Fprintf(stdio.Err, "Unknown command: %s\n\n", name)
		printUsage(stdio.Err)
		return ExitUsage
	}

	fs := pflag.NewFlagSet("enlearn "+name, pflag.ContinueOnError)
	fs.SetOutput(stdio.Err)
	addGlobalFlags(fs)
	if cmd.flags != nil {
		cmd.flags(fs)
	}
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stdio.Err, "Usage: enlearn %s\n\nFlags:\n%s", cmd.usage, fs.FlagUsages())
	}
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}
	cfg, err := config.Load(fs)
	if err != nil {
		_, _ = fmt.Fprintf(stdio.Err, "Error: %v\n", err)
		return ExitError
	}
	// The CLI ignores server.log_level: stderr stays quiet unless --log-level is given.
	level, _ := fs.GetString("log-level")
	log, err := logger.Setup(logger.LoggerConfig{
		Level:  level,
		Format: logger.FormatText,
		Output: stdio.Err,
	})
	if err != nil {
		_, _ = fmt.Fprintf(stdio.Err, "Error: %v\n", err)
		return ExitError
	}
	ctx = logger.WithLogger(ctx, log)

	a, err := app.New(ctx, cfg, log, o.appOpts...)
	if err != nil {
		_, _ = fmt.Fprintf(stdio.Err, "Error: %v\n", err)
		return ExitError
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	var corrupted *store.CorruptedStorageError
	err = cmd.run(ctx, &commandContext{App: a, io: stdio, flags: fs, args: fs.Args()})
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errUsage):
		_, _ = fmt.Fprintf(stdio.Err, "%v\nUsage: enlearn %s\n", err, cmd.usage)
		return ExitUsage
	case errors.As(err, &corrupted):
		_, _ = fmt.Fprintf(stdio.Err, "Error: %v\n", corrupted)
		return ExitError
	default:
		_, _ = fmt.Fprintf(stdio.Err, "Error: %v\n", err)
		return ExitError
	}
}

func printUsage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Capture and review vocabulary quickly.\n\nUsage: enlearn COMMAND [flags]\n\nCommands:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-8s %s\n", name, commands[name].summary)
	}
	b.WriteString("\nGlobal flags: --storage PATH, --backend json|sqlite, --config FILE, --log-level LEVEL\n")
	_, _ = io.WriteString(w, b.String())
}

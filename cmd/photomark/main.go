package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/example/photomark/internal/config"
	"github.com/example/photomark/internal/notify"
	"github.com/example/photomark/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	config      *config.Config
	notifier    *notify.Notifier
	log         *zap.Logger
	activeTheme *theme.Theme

	verbose      bool
	saveAlerts   bool
	exportAlerts bool
	copyAlerts   bool
	themeName    string
	configPath   string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

// subcommand returns a copy of r for the named subcommand. The copy shares
// the loaded config, notifier and streams.
func (r *root) subcommand(name string) *root {
	if r == nil {
		r = &root{program: "photomark", config: config.New(), log: zap.NewNop(),
			stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	}
	sub := *r
	sub.fs = nil
	sub.program = strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &sub
}

func newRoot() *root {
	r := &root{
		fs:      flag.NewFlagSet("photomark", flag.ContinueOnError),
		program: "photomark",
		config:  config.New(),
		log:     zap.NewNop(),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	r.fs.SetOutput(r.stderr)
	r.fs.StringVar(&r.configPath, "config", configPathOverride, "path to the config file")
	r.fs.BoolVar(&r.verbose, "verbose", false, "log debug output to stderr")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", false, "show a desktop notification after saving annotations")
	r.fs.BoolVar(&r.exportAlerts, "notify-export", false, "show a desktop notification after rendering an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", false, "show a desktop notification after copying to the clipboard")
	// Precedence: CLI > Env > Config > Default. An empty flag falls through.
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use ("+strings.Join(theme.Builtin(), ", ")+")")
	r.fs.Usage = usageFunc(r)
	return r
}

// subFlagSet creates a flag set for a subcommand that reports errors instead
// of exiting.
func (r *root) subFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.stderr)
	return fs
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}

	log, err := buildLogger(r.verbose)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	r.log = log
	defer func() { _ = r.log.Sync() }()

	r.loadConfig()
	r.setupNotifier()
	r.activeTheme = r.loadTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var cmd runnable
	switch cmdName {
	case "annotate":
		cmd, err = parseAnnotateCmd(subArgs, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r)
	case "render":
		cmd, err = parseRenderCmd(subArgs, r)
	case "validate":
		cmd, err = parseValidateCmd(subArgs, r)
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r)
	case "widths":
		cmd, err = parseWidthsCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// buildLogger returns a development logger when verbose, otherwise a
// production logger that only reports warnings and errors.
func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	return cfg.Build()
}

func (r *root) loadConfig() {
	loader := config.NewLoader(version, r.configPath)
	cfg, err := loader.Load()
	if err != nil {
		r.log.Warn("failed to load config, using defaults", zap.Error(err))
		cfg = config.New()
	}
	r.config = cfg
}

// setupNotifier enables an event when either the flag or the config asks
// for it.
func (r *root) setupNotifier() {
	r.notifier = notify.New(notify.LoadPreferences(), notify.WithLogger(r.log))
	r.notifier.Enable(notify.EventSave, r.saveAlerts || r.config.Notify.Save)
	r.notifier.Enable(notify.EventExport, r.exportAlerts || r.config.Notify.Export)
	r.notifier.Enable(notify.EventCopy, r.copyAlerts || r.config.Notify.Copy)
}

func (r *root) loadTheme() *theme.Theme {
	name := r.config.ThemeName(r.themeName)
	loader := theme.NewLoader()
	loader.Custom = r.config.Themes
	t, err := loader.Load(name)
	if err != nil {
		r.log.Warn("failed to load theme, using default", zap.String("theme", name), zap.Error(err))
		return theme.Default()
	}
	return t
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

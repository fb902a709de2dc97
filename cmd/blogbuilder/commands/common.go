package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

// LogLevelEnv overrides the log level when --verbose is not given.
const LogLevelEnv = "BLOGBUILDER_LOG_LEVEL"

// Global is shared by every command.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"blogbuilder.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" default:"withargs" help:"Build the site, regenerating only what changed"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration and a first post"`
	Manifest ManifestCmd `cmd:"" help:"Show the state recorded by the last build"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(newLogger(os.Stderr, c.level(""), config.LogFormatText))
	return nil
}

// level picks the effective log level: --verbose, then the environment, then the
// configured one.
func (c *CLI) level(configured config.LogLevel) config.LogLevel {
	if c.Verbose {
		return config.LogLevelDebug
	}
	if env := os.Getenv(LogLevelEnv); env != "" {
		return config.NormalizeLogLevel(env)
	}
	if configured != "" {
		return configured
	}
	return config.LogLevelInfo
}

// configureLogging replaces the default logger once the configuration is known.
func (c *CLI) configureLogging(g *Global, cfg *config.Config) *slog.Logger {
	logger := newLogger(os.Stderr, c.level(cfg.Logging.Level), cfg.Logging.Format)
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
	return logger
}

func newLogger(w io.Writer, level config.LogLevel, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level.SlogLevel()}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

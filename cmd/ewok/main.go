package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/ironsheep/ewok/internal/compose"
	"github.com/ironsheep/ewok/internal/config"
	"github.com/ironsheep/ewok/internal/fonts"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ewok: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(c.App.Writer, "ewok version %s\n", c.App.Version)
		fmt.Fprintf(c.App.Writer, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(c.App.Writer, "  Git commit: %s\n", GitCommit)
	}

	return &cli.App{
		Name:      "ewok",
		Usage:     "image compositing for wallpapers, overlays and watermarks",
		Version:   Version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML settings file",
				EnvVars: []string{config.EnvPrefix + "CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override the configured log level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			renderCommand(),
			presetsCommand(),
		},
	}
}

// setup loads the settings named by the global flags and builds the logger.
// Logs always go to stderr; stdout carries MCP traffic and render output.
func setup(c *cli.Context) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, zerolog.Nop(), err
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
		if err := cfg.Validate(); err != nil {
			return cfg, zerolog.Nop(), err
		}
	}
	return cfg, newLogger(c.App.ErrWriter, cfg.Level()), nil
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		w = zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// newPipeline wires the configured fonts and presets. src may be nil.
func newPipeline(cfg config.Config, src compose.ImageSource) *compose.Pipeline {
	opts := []compose.Option{
		compose.WithFonts(fonts.NewChain(cfg.FontPaths...)),
		compose.WithPresets(cfg.PresetTable()),
		compose.WithMaxPixels(cfg.MaxPixels),
	}
	if src != nil {
		opts = append(opts, compose.WithImageSource(src))
	}
	return compose.New(opts...)
}

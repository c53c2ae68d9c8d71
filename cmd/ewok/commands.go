package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/ewok/internal/compose"
	"github.com/ironsheep/ewok/internal/httpapi"
	"github.com/ironsheep/ewok/internal/imaging"
	"github.com/ironsheep/ewok/internal/server"
	"github.com/ironsheep/ewok/internal/store"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP upload and render service",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address (overrides the configured one)"},
		},
		Action: func(c *cli.Context) error {
			cfg, log, err := setup(c)
			if err != nil {
				return err
			}
			if addr := c.String("addr"); addr != "" {
				cfg.Addr = addr
			}

			st, err := store.New(cfg.UploadDir, cfg.OutputDir, cfg.AllowedExtensions)
			if err != nil {
				return err
			}
			h := httpapi.NewHandler(st, newPipeline(cfg, st), cfg.MaxUploadBytes)
			srv := &http.Server{
				Addr:    cfg.Addr,
				Handler: httpapi.NewRouter(h, log),
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.Addr).Str("uploads", st.UploadDir()).Str("outputs", st.OutputDir()).Msg("listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("http server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown server")
				return err
			}
			log.Info().Msg("server stopped")
			return nil
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "serve the MCP tools over stdin and stdout",
		Action: func(c *cli.Context) error {
			cfg, log, err := setup(c)
			if err != nil {
				return err
			}
			log.Debug().Str("version", Version).Str("build_time", BuildTime).Str("commit", GitCommit).Msg("starting mcp server")

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(newPipeline(cfg, overlayDir(cfg.UploadDir)), server.WithLogger(log), server.WithVersion(Version))
			if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "apply an edit configuration to one image and write a PNG",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "source image", Required: true},
			&cli.StringFlag{Name: "edits", Aliases: []string{"e"}, Usage: "edit configuration, YAML or JSON (- for stdin)"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "PNG output path (- for stdout)", Required: true},
			&cli.StringFlag{Name: "overlay-dir", Usage: "directory image overlays are read from (default: the upload directory)"},
		},
		Action: func(c *cli.Context) error {
			cfg, log, err := setup(c)
			if err != nil {
				return err
			}

			edits, err := readEdits(c.String("edits"), os.Stdin)
			if err != nil {
				return err
			}

			dir := c.String("overlay-dir")
			if dir == "" {
				dir = cfg.UploadDir
			}

			src, err := imaging.NewImageCache().Load(c.String("input"))
			if err != nil {
				return err
			}

			res, err := newPipeline(cfg, overlayDir(dir)).Render(log.WithContext(c.Context), src, edits)
			if err != nil {
				return err
			}
			for _, w := range res.Warnings {
				log.Warn().Msg(w)
			}

			if err := writeResult(c.String("output"), c.App.Writer, res); err != nil {
				return err
			}
			log.Info().Int("width", res.Width).Int("height", res.Height).Str("output", c.String("output")).Msg("rendered")
			return nil
		},
	}
}

func presetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "presets",
		Usage: "list the wallpaper presets",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print JSON instead of a table"},
		},
		Action: func(c *cli.Context) error {
			cfg, _, err := setup(c)
			if err != nil {
				return err
			}
			presets := cfg.PresetTable().List()

			if c.Bool("json") {
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(presets)
			}

			tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSIZE")
			for _, p := range presets {
				size := fmt.Sprintf("%dx%d", p.Width, p.Height)
				if p.Auto {
					size = "auto"
				}
				fmt.Fprintf(tw, "%s\t%s\n", p.Name, size)
			}
			return tw.Flush()
		},
	}
}

// readEdits decodes an edit configuration. YAML is a superset of JSON, so
// one decoder serves both. An empty path yields the identity configuration.
func readEdits(path string, stdin io.Reader) (compose.Config, error) {
	var cfg compose.Config
	if path == "" {
		return cfg, nil
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return cfg, fmt.Errorf("read edits: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse edits: %w", err)
	}
	return cfg, nil
}

// overlayDir resolves image overlay names as plain file names inside dir.
func overlayDir(dir string) compose.ImageSource {
	cache := imaging.NewImageCache()
	return compose.ImageSourceFunc(func(name string) (image.Image, error) {
		if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
			return nil, fmt.Errorf("%w: %q", store.ErrInvalidKey, name)
		}
		return cache.Load(filepath.Join(dir, name))
	})
}

// writeResult encodes res to stdout for "-", otherwise next to path and
// renames it into place so a failed encode leaves nothing behind.
func writeResult(path string, stdout io.Writer, res *compose.Result) error {
	if path == "-" {
		return res.Encode(stdout)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".ewok-*.png")
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := res.Encode(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Package cmd: collect command.
// This is the main command that orchestrates the pipeline:
// collect → normalize → render → write.
//
// Sources are polled one after another. A failing source aborts the run
// before anything is written, so a partial fetch never overwrites a day file
// with fewer posts than it had.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/postpipe/collect"
	"github.com/gaurav-prasanna/postpipe/config"
	"github.com/gaurav-prasanna/postpipe/core"
	"github.com/gaurav-prasanna/postpipe/core/extract"
	"github.com/gaurav-prasanna/postpipe/core/fetch"
	"github.com/gaurav-prasanna/postpipe/core/normalize"
	"github.com/gaurav-prasanna/postpipe/core/output"
	"github.com/gaurav-prasanna/postpipe/core/render"
)

// Flag variables.
var (
	flagOutputDir string
	flagConfig    string
	flagStdout    bool
)

// settings layers --log-level and --timezone over the config file.
var settings = viper.New()

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect posts from every configured source and write gemtext day files",
	Long: `Collect polls each collector listed in the config file, normalizes the
posts, groups them by calendar day in the configured timezone and writes
one <YYYY-MM-DD>.gmi file per day. Files whose content would not change
are left untouched.

Examples:
  postpipe collect --output ./capsule/log
  postpipe collect -o ./out -c ~/postpipe.yml --timezone Europe/Berlin
  postpipe collect --stdout`,
	Args: cobra.NoArgs,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)

	flags := collectCmd.Flags()
	flags.StringVarP(&flagOutputDir, "output", "o", "", "Gemtext output directory (required unless --stdout)")
	flags.StringVarP(&flagConfig, "config", "c", "", "Configuration file to use (default: ./"+config.DefaultPath+")")
	flags.BoolVar(&flagStdout, "stdout", false, "Print all days as one document instead of writing files")

	// Overrides for the config file's options block.
	flags.String("log-level", "", "Log level: DEBUG, INFO, WARNING, ERROR, CRITICAL")
	flags.String("timezone", "", "IANA timezone used for timestamps and day grouping")
	cobra.CheckErr(settings.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level")))
	cobra.CheckErr(settings.BindPFlag(config.KeyTimezone, flags.Lookup("timezone")))
}

// sourceCollector is the part of collect.Collector the pipeline needs.
type sourceCollector interface {
	Collect(ctx context.Context, src core.Source) ([]core.Post, error)
}

// dayWriter is the part of output.Writer the pipeline needs.
type dayWriter interface {
	WriteDay(doc string, ext string) (output.Result, error)
}

func runCollect(cmd *cobra.Command, args []string) error {
	if flagOutputDir == "" && !flagStdout {
		return fmt.Errorf("--output is required unless --stdout is set")
	}

	cfg, err := config.Load(settings, flagConfig)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	collector := collect.New(fetch.New(), extract.New(), normalize.New(), cfg.Location, logger)
	posts, err := gather(cmd.Context(), collector, cfg.Sources, logger)
	if err != nil {
		return err
	}

	if flagStdout {
		_, err := io.WriteString(cmd.OutOrStdout(), render.RenderAll(posts))
		return err
	}

	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	return writeDays(render.NewGemtextRenderer(), posts, writer, logger)
}

// gather runs every source in order and concatenates their posts.
func gather(ctx context.Context, c sourceCollector, sources []core.Source, logger *slog.Logger) ([]core.Post, error) {
	var posts []core.Post
	for _, src := range sources {
		found, err := c.Collect(ctx, src)
		if errors.Is(err, collect.ErrUnknownCollector) {
			logger.Warn("skipping source", "collector", src.Type, "handle", src.Handle, "error", err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("collecting: %w", err)
		}
		logger.Info("found posts", "count", len(found), "collector", src.Type, "handle", src.Handle)
		posts = append(posts, found...)
	}
	return posts, nil
}

// writeDays renders posts and hands each day document to the writer.
func writeDays(renderer core.Renderer, posts []core.Post, w dayWriter, logger *slog.Logger) error {
	docs := renderer.Render(posts)

	var errCount, written int
	for _, doc := range docs {
		res, err := w.WriteDay(doc, renderer.Extension())
		if err != nil {
			logger.Error("write failed", "error", err)
			errCount++
			continue
		}
		if !res.Written {
			logger.Info("skipped: no changes", "path", res.Path)
			continue
		}
		written++
		logger.Info("wrote new file", "path", res.Path, "size", humanize.Bytes(uint64(res.Bytes)))
	}

	logger.Info("done", "days", len(docs), "written", written, "unchanged", len(docs)-written-errCount)
	if errCount > 0 {
		return fmt.Errorf("%d/%d day files failed to write", errCount, len(docs))
	}
	return nil
}

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/postpipe/collect"
	"github.com/gaurav-prasanna/postpipe/config"
	"github.com/gaurav-prasanna/postpipe/core"
	"github.com/gaurav-prasanna/postpipe/core/output"
	"github.com/gaurav-prasanna/postpipe/core/render"
)

type fakeCollector struct {
	posts map[string][]core.Post
	calls []string
}

func (f *fakeCollector) Collect(_ context.Context, src core.Source) ([]core.Post, error) {
	f.calls = append(f.calls, src.Type)
	switch src.Type {
	case "broken":
		return nil, errors.New("upstream exploded")
	case "bluesky", "mastodon":
		return f.posts[src.Type], nil
	default:
		return nil, fmt.Errorf("%w: %q", collect.ErrUnknownCollector, src.Type)
	}
}

func at(s string) *time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return core.At(t.UTC())
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestGatherSkipsUnknownSources(t *testing.T) {
	fc := &fakeCollector{posts: map[string][]core.Post{
		"bluesky":  {{SourceApp: "bluesky", Text: "a"}},
		"mastodon": {{SourceApp: "mastodon", Text: "b"}, {SourceApp: "mastodon", Text: "c"}},
	}}

	posts, err := gather(context.Background(), fc, []core.Source{
		{Type: "bluesky"}, {Type: "friendster"}, {Type: "mastodon"},
	}, discard())
	require.NoError(t, err)
	assert.Len(t, posts, 3)
	assert.Equal(t, []string{"bluesky", "friendster", "mastodon"}, fc.calls)
}

func TestGatherStopsOnError(t *testing.T) {
	fc := &fakeCollector{}
	_, err := gather(context.Background(), fc, []core.Source{{Type: "broken"}, {Type: "bluesky"}}, discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream exploded")
	assert.Equal(t, []string{"broken"}, fc.calls)
}

func TestGatherLogsCountsAsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	fc := &fakeCollector{posts: map[string][]core.Post{
		"mastodon": {{SourceApp: "mastodon", Text: "a"}, {SourceApp: "mastodon", Text: "b"}},
	}}

	_, err := gather(context.Background(), fc, []core.Source{{Type: "mastodon", Handle: "bob@example.social"}}, logger)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "found posts", entry["msg"])
	assert.Equal(t, float64(2), entry["count"])
	assert.Equal(t, "mastodon", entry["collector"])
	assert.Equal(t, "bob@example.social", entry["handle"])
}

func TestCollectFlagsBindToSettings(t *testing.T) {
	flags := collectCmd.Flags()
	t.Cleanup(func() {
		for _, name := range []string{"timezone", "log-level"} {
			f := flags.Lookup(name)
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})

	require.NoError(t, flags.Set("timezone", "Asia/Tokyo"))
	require.NoError(t, flags.Set("log-level", "DEBUG"))
	assert.Equal(t, "Asia/Tokyo", settings.GetString(config.KeyTimezone))
	assert.Equal(t, "DEBUG", settings.GetString(config.KeyLogLevel))
}

func TestWriteDaysIsIdempotent(t *testing.T) {
	w, err := output.New(t.TempDir())
	require.NoError(t, err)

	posts := []core.Post{
		{Timestamp: at("2024-03-01T10:00:00Z"), SourceURI: "https://b/1", Text: "one"},
		{Timestamp: at("2024-03-02T10:00:00Z"), SourceURI: "https://b/2", Text: "two"},
	}
	r := render.NewGemtextRenderer()
	require.NoError(t, writeDays(r, posts, w, discard()))

	entries, err := os.ReadDir(w.OutputDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2024-03-01.gmi", entries[0].Name())
	assert.Equal(t, "2024-03-02.gmi", entries[1].Name())

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	require.NoError(t, writeDays(r, posts, w, logger))
	assert.Contains(t, logs.String(), "skipped: no changes")
	assert.NotContains(t, logs.String(), "wrote new file")
}

type failingWriter struct{}

func (failingWriter) WriteDay(string, string) (output.Result, error) {
	return output.Result{}, errors.New("disk full")
}

func TestWriteDaysReportsFailures(t *testing.T) {
	posts := []core.Post{{Timestamp: at("2024-03-01T10:00:00Z"), Text: "one"}}
	err := writeDays(render.NewGemtextRenderer(), posts, failingWriter{}, discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1/1 day files failed")
}

func TestCollectCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("options:\n  timezone: Etc/UTC\n  log_level: ERROR\n"), 0644))

	t.Run("output is required", func(t *testing.T) {
		flagOutputDir, flagStdout = "", false
		rootCmd.SetArgs([]string{"collect", "-c", cfgPath})
		err := rootCmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--output is required")
	})

	t.Run("stdout with no sources", func(t *testing.T) {
		flagOutputDir, flagStdout = "", false
		var out, errOut bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&errOut)
		rootCmd.SetArgs([]string{"collect", "-c", cfgPath, "--stdout"})
		require.NoError(t, rootCmd.Execute())
		assert.Empty(t, out.String())
	})

	t.Run("bad timezone flag", func(t *testing.T) {
		flagOutputDir, flagStdout = "", false
		rootCmd.SetArgs([]string{"collect", "-c", cfgPath, "-o", filepath.Join(dir, "out"), "--timezone", "Nowhere/Land"})
		err := rootCmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Nowhere/Land")
	})
}

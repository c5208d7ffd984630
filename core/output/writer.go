// Package output handles file naming and writing for postpipe outputs.
// Each day document is written to <output_dir>/<YYYY-MM-DD><ext>, and only
// when the file is missing or its content differs. Unchanged days are left
// untouched so repeated runs do not churn a versioned capsule directory.
package output

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gaurav-prasanna/postpipe/core/render"
)

// Writer writes rendered day documents to disk.
type Writer struct {
	OutputDir string
}

// Result describes what WriteDay did.
type Result struct {
	Path    string
	Written bool // false when the existing file already had this content
	Bytes   int
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	// Ensure the output directory exists.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// PathFor returns the file a day document is written to.
func (w *Writer) PathFor(doc string, ext string) (string, error) {
	day, err := render.DayOf(doc)
	if err != nil {
		return "", err
	}
	return filepath.Join(w.OutputDir, day+ext), nil
}

// WriteDay writes doc unless the target file already holds exactly doc.
func (w *Writer) WriteDay(doc string, ext string) (Result, error) {
	path, err := w.PathFor(doc, ext)
	if err != nil {
		return Result{}, fmt.Errorf("naming output file: %w", err)
	}
	data := []byte(doc)
	res := Result{Path: path, Bytes: len(data)}

	existing, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(existing, data):
		return res, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return Result{}, fmt.Errorf("reading existing file %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return Result{}, fmt.Errorf("writing file %s: %w", path, err)
	}
	res.Written = true
	return res, nil
}

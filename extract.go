// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package bsarc

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// ExtractEntry is one unit of work for the shared extraction engine. The
// format packages produce entries with sanitized relative paths and a
// payload writer that performs any on-the-fly decompression.
type ExtractEntry struct {
	// WriteTo streams the decoded payload into w.
	WriteTo func(w io.Writer) error
	// Path is the sanitized slash-separated destination path.
	Path string
}

// ExtractOptions configures the shared extraction engine.
type ExtractOptions struct {
	// OnEntryDone is called after one entry is fully written to disk.
	OnEntryDone func(path string, written int64)
	// MaxWorkers is the number of extraction workers (zero means GOMAXPROCS).
	MaxWorkers int
}

// ExtractEntries writes entries below dstDir with a bounded worker pool.
// On failure it returns the first encountered error; in-flight entries
// are drained before returning.
func ExtractEntries(ctx context.Context, dstDir string, entries []ExtractEntry, opts ExtractOptions) error {
	if len(entries) == 0 {
		return nil
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(entries) {
		workers = len(entries)
	}

	dstRoot, err := filepath.Abs(dstDir)
	if err != nil {
		return fmt.Errorf("resolve output dir: %w", err)
	}
	if err := os.MkdirAll(dstRoot, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := prepareExtractDirs(dstRoot, entries); err != nil {
		return err
	}

	taskCh := make(chan ExtractEntry, len(entries))
	errCh := make(chan error, len(entries))
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for task := range taskCh {
				err := extractOne(ctx, dstRoot, task, opts.OnEntryDone)
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		})
	}

	for _, task := range entries {
		select {
		case <-ctx.Done():
			close(taskCh)
			wg.Wait()
			return ctx.Err()
		case taskCh <- task:
		}
	}

	close(taskCh)
	wg.Wait()
	close(errCh)

	var first error
	for err := range errCh {
		if err != nil && first == nil {
			first = err
		}
	}

	return first
}

// prepareExtractDirs creates all destination directories up front so
// workers never race on MkdirAll.
func prepareExtractDirs(dstRoot string, entries []ExtractEntry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		dir := ""
		if idx := strings.LastIndexByte(entry.Path, '/'); idx >= 0 {
			dir = entry.Path[:idx]
		}
		if dir == "" {
			continue
		}
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}

		abs, err := resolveExtractPath(dstRoot, dir)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(abs, 0o750); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}

	return nil
}

// resolveExtractPath joins a relative entry path onto the destination
// root and verifies the result stays inside it.
func resolveExtractPath(dstRoot, rel string) (string, error) {
	abs := filepath.Join(dstRoot, filepath.FromSlash(rel))
	if abs != dstRoot && !strings.HasPrefix(abs, dstRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrExtractPathOutsideRoot, rel)
	}

	return abs, nil
}

// extractOne writes a single entry to disk.
func extractOne(ctx context.Context, dstRoot string, entry ExtractEntry, onDone func(string, int64)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	abs, err := resolveExtractPath(dstRoot, entry.Path)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create %s: %w", entry.Path, err)
	}

	cw := &countingWriter{w: f}
	if err := entry.WriteTo(cw); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", entry.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", entry.Path, err)
	}

	if onDone != nil {
		onDone(entry.Path, cw.n)
	}

	return nil
}

// countingWriter tracks bytes written for progress callbacks.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

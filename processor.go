package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	gogitignore "github.com/monochromegane/go-gitignore"
	"github.com/sourcegraph/conc"
	"github.com/spf13/afero"
	"golang.org/x/sync/semaphore"
)

// ScanOptions configures a directory scan.
type ScanOptions struct {
	Threads  int      // Parallel workers; 0 or less uses runtime.NumCPU()
	Excludes []string // Extra gitignore-style patterns anchored at the scan root
	NoIgnore bool     // Don't read .gitignore files
}

// walker holds the immutable state shared by every directory visit of one scan.
type walker struct {
	fs       afero.Fs
	opts     ScanOptions
	workers  int
	sem      *semaphore.Weighted // Bounds concurrent blocking I/O across the whole tree
	spawn    *semaphore.Weighted // Bounds visitor goroutines across every directory level
	excludes gogitignore.IgnoreMatcher
	reporter *Reporter
}

func newWalker(fs afero.Fs, root string, opts ScanOptions, reporter *Reporter) *walker {
	workers := opts.Threads
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &walker{
		fs:       fs,
		opts:     opts,
		workers:  workers,
		sem:      semaphore.NewWeighted(int64(workers)),
		spawn:    semaphore.NewWeighted(int64(workers)),
		excludes: newExcludeMatcher(root, opts.Excludes),
		reporter: reporter,
	}
}

// processLocalPath scans the directory at path and returns one record per counted file.
// A path that exists but is not a directory yields no records.
func processLocalPath(ctx context.Context, fs afero.Fs, path string, opts ScanOptions, reporter *Reporter) ([]FileRecord, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", path, err)
	}
	if !info.IsDir() {
		reporter.Infof("%s is not a directory, nothing to scan", path)
		return nil, nil
	}

	w := newWalker(fs, path, opts, reporter)
	reporter.Infof("Scanning %s with %d worker(s)", path, w.workers)
	return w.walkDir(ctx, path, nil, ignoreRules{}), nil
}

// walkDir returns the records for every counted file below dir. rel is dir's
// path relative to the scan root and inherited the rules of its ancestors.
// An unreadable directory is reported and contributes nothing.
func (w *walker) walkDir(ctx context.Context, dir string, rel []string, inherited ignoreRules) []FileRecord {
	entries, own, err := w.readDir(ctx, dir, rel)
	if err != nil {
		w.reporter.Warnf("could not read directory %s: %v", dir, err)
		return nil
	}
	rules := inherited.extend(own)

	// Each entry fills its own slot, so the join needs no locking and keeps listing order.
	// An entry runs on a new goroutine only while the shared budget has room;
	// otherwise the current goroutine visits it inline.
	parts := make([][]FileRecord, len(entries))
	var wg conc.WaitGroup
	for i, entry := range entries {
		i, entry := i, entry
		if w.spawn.TryAcquire(1) {
			wg.Go(func() {
				defer w.spawn.Release(1)
				parts[i] = w.visit(ctx, dir, rel, entry, rules)
			})
			continue
		}
		parts[i] = w.visit(ctx, dir, rel, entry, rules)
	}
	wg.Wait()
	return mergeRecords(parts)
}

// readDir loads dir's own ignore patterns and lists its entries while holding one I/O slot.
func (w *walker) readDir(ctx context.Context, dir string, rel []string) ([]os.FileInfo, []gitignore.Pattern, error) {
	if err := w.sem.Acquire(ctx, 1); err != nil {
		return nil, nil, err
	}
	defer w.sem.Release(1)

	var own []gitignore.Pattern
	if !w.opts.NoIgnore {
		patterns, err := loadIgnorePatterns(w.fs, dir, rel)
		if err != nil {
			w.reporter.Warnf("%v", err)
		}
		own = patterns
	}

	entries, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		return nil, nil, err
	}
	return entries, own, nil
}

// visit handles a single directory entry: skip, recurse or measure.
func (w *walker) visit(ctx context.Context, dir string, rel []string, entry os.FileInfo, rules ignoreRules) []FileRecord {
	name := entry.Name()
	path := filepath.Join(dir, name)
	entryRel := append(rel[:len(rel):len(rel)], name)
	isDir := entry.IsDir()

	if entry.Mode()&os.ModeSymlink != 0 {
		// Directory links are not followed.
		if target, err := w.fs.Stat(path); err == nil && target.IsDir() {
			return nil
		}
	}

	if rules.excluded(entryRel, isDir) || w.excludes.Match(path, isDir) {
		return nil
	}

	if isDir {
		return w.walkDir(ctx, path, entryRel, rules)
	}

	ext, ok := classifyFile(name)
	if !ok {
		return nil
	}
	return []FileRecord{w.measure(ctx, path, ext)}
}

// measure counts the lines of one accepted file. Failures are reported and the
// file is kept with zero lines.
func (w *walker) measure(ctx context.Context, path, ext string) FileRecord {
	record := FileRecord{Path: path, Extension: ext}

	if err := w.sem.Acquire(ctx, 1); err != nil {
		w.reporter.Warnf("skipped counting %s: %v", path, err)
		return record
	}
	defer w.sem.Release(1)

	lines, err := countLines(w.fs, path)
	if err != nil {
		w.reporter.Warnf("%v (counted as 0 lines)", err)
		return record
	}
	record.LineCount = lines
	return record
}

// mergeRecords flattens per-entry results in order.
func mergeRecords(parts [][]FileRecord) []FileRecord {
	var total int
	for _, part := range parts {
		total += len(part)
	}
	if total == 0 {
		return nil
	}
	files := make([]FileRecord, 0, total)
	for _, part := range parts {
		files = append(files, part...)
	}
	return files
}

// parsePatterns splits comma-separated pattern lists into a flat slice.
func parsePatterns(values []string) []string {
	var patterns []string
	for _, value := range values {
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
	}
	return patterns
}

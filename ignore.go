package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	gogitignore "github.com/monochromegane/go-gitignore"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

const gitIgnoreFile = ".gitignore"

// ignoreRules is the effective exclusion state for one directory: the patterns
// inherited from every ancestor followed by the directory's own patterns.
// Later patterns take precedence, so a deeper .gitignore overrides a shallower one.
type ignoreRules struct {
	patterns []gitignore.Pattern
	matcher  gitignore.Matcher
}

func newIgnoreRules(patterns []gitignore.Pattern) ignoreRules {
	return ignoreRules{patterns: patterns, matcher: gitignore.NewMatcher(patterns)}
}

// extend returns the rules for a child directory. The receiver is never modified,
// so sibling directories can extend the same parent concurrently.
func (r ignoreRules) extend(own []gitignore.Pattern) ignoreRules {
	if len(own) == 0 {
		return r
	}
	combined := make([]gitignore.Pattern, 0, len(r.patterns)+len(own))
	combined = append(combined, r.patterns...)
	combined = append(combined, own...)
	return newIgnoreRules(combined)
}

// excluded reports whether the entry at rel (components relative to the scan root) is ignored.
func (r ignoreRules) excluded(rel []string, isDir bool) bool {
	if len(r.patterns) == 0 {
		return false
	}
	return r.matcher.Match(rel, isDir)
}

// loadIgnorePatterns reads the .gitignore located directly inside dir.
// A missing file yields no patterns and no error. On a malformed file the
// patterns that could be parsed are returned together with the error.
func loadIgnorePatterns(fs afero.Fs, dir string, domain []string) ([]gitignore.Pattern, error) {
	ignorePath := filepath.Join(dir, gitIgnoreFile)
	file, err := fs.Open(ignorePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not open %s: %w", ignorePath, err)
	}
	defer file.Close()

	patterns, err := parseIgnorePatterns(file, domain)
	if err != nil {
		return patterns, fmt.Errorf("could not parse %s: %w", ignorePath, err)
	}
	return patterns, nil
}

// parseIgnorePatterns compiles gitignore lines scoped to domain.
func parseIgnorePatterns(r io.Reader, domain []string) ([]gitignore.Pattern, error) {
	var patterns []gitignore.Pattern
	var errs error

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		if err := validateIgnorePattern(line); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("line %d %q: %w", lineNumber, line, err))
			continue
		}
		patterns = append(patterns, parseEntryPattern(line, domain))
	}
	if err := scanner.Err(); err != nil {
		errs = multierr.Append(errs, err)
	}
	return patterns, errs
}

// entryPattern matches one gitignore line against a walked entry itself.
// go-git patterns also match a path when one of its ancestors matches. The
// walker has already decided every ancestor, so that would let "!dir/"
// re-include files below dir that an earlier pattern excludes.
type entryPattern struct {
	simple   gitignore.Pattern // Set for patterns without a slash, matched on the base name
	domain   []string
	segments []string
	dirOnly  bool
	include  bool
}

// parseEntryPattern compiles a gitignore line for the directory at domain.
func parseEntryPattern(line string, domain []string) gitignore.Pattern {
	p := &entryPattern{domain: append([]string(nil), domain...)}

	body := line
	if strings.HasPrefix(body, "!") {
		p.include = true
		body = body[1:]
	}
	if !strings.HasSuffix(body, "\\ ") {
		body = strings.TrimRight(body, " ")
	}
	if strings.HasSuffix(body, "/") {
		p.dirOnly = true
		body = strings.TrimSuffix(body, "/")
	}

	if !strings.Contains(body, "/") {
		p.simple = gitignore.ParsePattern(line, p.domain)
		return p
	}
	for _, segment := range strings.Split(body, "/") {
		if segment != "" {
			p.segments = append(p.segments, segment)
		}
	}
	return p
}

func (p *entryPattern) Match(path []string, isDir bool) gitignore.MatchResult {
	if len(path) <= len(p.domain) {
		return gitignore.NoMatch
	}
	for i, name := range p.domain {
		if path[i] != name {
			return gitignore.NoMatch
		}
	}
	if p.dirOnly && !isDir {
		return gitignore.NoMatch
	}

	if p.simple != nil {
		entry := append(p.domain[:len(p.domain):len(p.domain)], path[len(path)-1])
		return p.simple.Match(entry, isDir)
	}
	if !matchSegments(p.segments, path[len(p.domain):]) {
		return gitignore.NoMatch
	}
	if p.include {
		return gitignore.Include
	}
	return gitignore.Exclude
}

// matchSegments reports whether pattern consumes all of path. "**" spans zero
// or more components; a trailing "**" matches everything inside, not the
// directory itself.
func matchSegments(pattern, path []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}
	if pattern[0] == "**" {
		if len(pattern) == 1 {
			return len(path) > 0
		}
		for i := 0; i <= len(path); i++ {
			if matchSegments(pattern[1:], path[i:]) {
				return true
			}
		}
		return false
	}
	if len(path) == 0 {
		return false
	}
	if ok, err := filepath.Match(pattern[0], path[0]); err != nil || !ok {
		return false
	}
	return matchSegments(pattern[1:], path[1:])
}

// validateIgnorePattern rejects lines whose glob segments can never be evaluated.
func validateIgnorePattern(line string) error {
	p := strings.TrimPrefix(line, "!")
	p = strings.TrimRight(p, " ")
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return errors.New("empty pattern")
	}
	for _, segment := range strings.Split(p, "/") {
		if segment == "" || segment == "**" {
			continue
		}
		if _, err := filepath.Match(segment, ""); err != nil {
			return err
		}
	}
	return nil
}

// newExcludeMatcher compiles extra gitignore-style patterns anchored at root.
func newExcludeMatcher(root string, patterns []string) gogitignore.IgnoreMatcher {
	var lines []string
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			lines = append(lines, p)
		}
	}
	if len(lines) == 0 {
		return gogitignore.DummyIgnoreMatcher(false)
	}
	return gogitignore.NewGitIgnoreFromReader(root, strings.NewReader(strings.Join(lines, "\n")))
}

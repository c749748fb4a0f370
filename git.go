package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// isGitURL checks if the input string looks like a Git repository URL.
// Prioritizes .git suffix or git@ prefix.
func isGitURL(input string) bool {
	return strings.HasSuffix(input, ".git") ||
		strings.HasPrefix(input, "git@") // Common SSH format
}

// cloneGitRepo shallow-clones a Git repository URL into a temporary directory.
// It returns the path to the temporary directory; the caller removes it.
func cloneGitRepo(ctx context.Context, url string, progress io.Writer, reporter *Reporter) (string, error) {
	tempDir, err := os.MkdirTemp("", "linecount-git-")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %w", err)
	}

	reporter.Infof("Cloning Git repository '%s' into '%s'...", url, tempDir)

	_, err = git.PlainCloneContext(ctx, tempDir, false, &git.CloneOptions{
		URL:           url,
		Progress:      progress,
		Depth:         1, // History is not needed to count lines
		ReferenceName: plumbing.HEAD,
		SingleBranch:  true,
	})
	if err != nil {
		// Attempt cleanup even if clone failed
		_ = os.RemoveAll(tempDir)
		return "", fmt.Errorf("failed to clone repository '%s': %w", url, err)
	}

	reporter.Infof("Finished cloning '%s'.", url)
	return tempDir, nil
}

package git

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

const (
	// ErrGitNotFound is returned as the diff text when the git binary is missing
	ErrGitNotFound = "Error: Git not found."
	// errDiffFailedPrefix prefixes the captured stderr of a failed git command
	errDiffFailedPrefix = "Error getting git diff: "
)

// DiffResult holds either the diff text or an error message.
// Error messages always start with "Error".
type DiffResult struct {
	Text string
	Err  string
}

// IsError reports whether the result carries an error message
func (r DiffResult) IsError() bool {
	return r.Err != ""
}

// String returns the error message for error results and the diff otherwise
func (r DiffResult) String() string {
	if r.IsError() {
		return r.Err
	}
	return r.Text
}

// Extractor reads pending changes through the git CLI.
type Extractor struct {
	Binary string
	Dir    string
	Exec   func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewExtractor returns an Extractor running binary in dir. An empty dir means
// the process working directory.
func NewExtractor(binary, dir string) *Extractor {
	if binary == "" {
		binary = "git"
	}
	return &Extractor{
		Binary: binary,
		Dir:    dir,
		Exec: func(ctx context.Context, name string, args ...string) *exec.Cmd {
			return exec.CommandContext(ctx, name, args...)
		},
	}
}

// Diff returns the staged diff, or the diff against HEAD when nothing is
// staged. Output is returned verbatim.
func (e *Extractor) Diff(ctx context.Context) DiffResult {
	staged, err := e.run(ctx, "diff", "--staged")
	if err != nil {
		return errorResult(err)
	}
	if strings.TrimSpace(staged) != "" {
		return DiffResult{Text: staged}
	}

	all, err := e.run(ctx, "diff", "HEAD")
	if err != nil {
		return errorResult(err)
	}
	return DiffResult{Text: all}
}

func (e *Extractor) run(ctx context.Context, args ...string) (string, error) {
	cmd := e.Exec(ctx, e.Binary, args...)
	if e.Dir != "" {
		cmd.Dir = e.Dir
	}
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(output), nil
}

func errorResult(err error) DiffResult {
	var lookErr *exec.Error
	if errors.As(err, &lookErr) {
		return DiffResult{Err: ErrGitNotFound}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return DiffResult{Err: errDiffFailedPrefix + string(exitErr.Stderr)}
	}
	return DiffResult{Err: errDiffFailedPrefix + err.Error()}
}

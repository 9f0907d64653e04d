package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/javanhut/refscope/internal/refs"
)

// LsRemoteEnv names the environment variable that overrides the listing
// command, kept for compatibility with tig.
const LsRemoteEnv = "TIG_LS_REMOTE"

// ErrNotRepository is returned when no git directory is known.
var ErrNotRepository = errors.New("not a git repository")

// GitSource lists references by running git.
type GitSource struct {
	gitDir   string
	gitPath  string
	lsRemote []string
	env      []string
}

// GitOption configures a GitSource.
type GitOption func(*GitSource)

// WithGitPath sets the git executable.
func WithGitPath(path string) GitOption {
	return func(s *GitSource) { s.gitPath = path }
}

// WithLsRemote replaces the listing command. The command line is split on
// whitespace; an empty string keeps the default `git ls-remote <git-dir>`.
func WithLsRemote(cmdline string) GitOption {
	return func(s *GitSource) {
		if argv := strings.Fields(cmdline); len(argv) > 0 {
			s.lsRemote = argv
		}
	}
}

// WithEnv appends environment variables to every git invocation.
func WithEnv(env ...string) GitOption {
	return func(s *GitSource) { s.env = append(s.env, env...) }
}

// NewGitSource creates a source for the repository at gitDir. The listing
// command honours TIG_LS_REMOTE unless WithLsRemote is given.
func NewGitSource(gitDir string, opts ...GitOption) (*GitSource, error) {
	if gitDir == "" {
		return nil, ErrNotRepository
	}
	s := &GitSource{gitDir: gitDir, gitPath: "git"}
	WithLsRemote(os.Getenv(LsRemoteEnv))(s)
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GitDir returns the repository the source reads from.
func (s *GitSource) GitDir() string { return s.gitDir }

// Argv returns the listing command line.
func (s *GitSource) Argv() []string {
	if len(s.lsRemote) > 0 {
		return append([]string(nil), s.lsRemote...)
	}
	return []string{s.gitPath, "ls-remote", s.gitDir}
}

// HeadName implements refs.Source by running `git symbolic-ref HEAD`.
func (s *GitSource) HeadName(ctx context.Context) (string, error) {
	out, err := s.output(ctx, "symbolic-ref", "HEAD")
	if err != nil {
		return "", &refs.SourceError{Op: "symbolic-ref", Err: err}
	}
	return out, nil
}

// Upstream returns the remote branch the current branch tracks, e.g.
// "origin/main".
func (s *GitSource) Upstream(ctx context.Context) (string, error) {
	out, err := s.output(ctx, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{upstream}")
	if err != nil {
		return "", &refs.SourceError{Op: "rev-parse", Err: err}
	}
	return out, nil
}

// Refs implements refs.Source by streaming the listing command's output.
func (s *GitSource) Refs(ctx context.Context, fn func(id, name string) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	argv := s.Argv()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), s.env...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &refs.SourceError{Op: "ls-remote", Err: err}
	}
	if err := cmd.Start(); err != nil {
		return &refs.SourceError{Op: "ls-remote", Err: err}
	}

	var fnErr error
	parseErr := Parse(stdout, func(id, name string) error {
		if err := fn(id, name); err != nil {
			fnErr = err
			return err
		}
		return nil
	})
	if fnErr != nil {
		cancel()
		_ = cmd.Wait()
		return fnErr
	}
	if parseErr != nil {
		cancel()
		_ = cmd.Wait()
		return &refs.SourceError{Op: "ls-remote", Err: parseErr}
	}
	if err := cmd.Wait(); err != nil {
		return &refs.SourceError{Op: "ls-remote", Err: errorWithStderr(err, stderr.Bytes())}
	}
	return nil
}

func (s *GitSource) output(ctx context.Context, args ...string) (string, error) {
	args = append([]string{"--git-dir", s.gitDir}, args...)
	cmd := exec.CommandContext(ctx, s.gitPath, args...)
	cmd.Env = append(os.Environ(), s.env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", errorWithStderr(err, stderr.Bytes())
	}
	return strings.TrimSpace(stdout.String()), nil
}

func errorWithStderr(err error, stderr []byte) error {
	if msg := bytes.TrimSpace(stderr); len(msg) > 0 {
		return fmt.Errorf("%w, stderr: %q", err, msg)
	}
	return err
}

var _ refs.Source = (*GitSource)(nil)

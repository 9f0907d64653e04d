package source

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javanhut/refscope/internal/refs"
)

const listing = "1111111111111111111111111111111111111111\tHEAD\n" +
	"1111111111111111111111111111111111111111\trefs/heads/main\n" +
	"\n" +
	"2222222222222222222222222222222222222222\trefs/tags/v1  \r\n" +
	"1111111111111111111111111111111111111111\trefs/tags/v1^{}\n" +
	"3333333333333333333333333333333333333333\n"

func collect(t *testing.T, src refs.Source) []Pair {
	t.Helper()
	var out []Pair
	require.NoError(t, src.Refs(context.Background(), func(id, name string) error {
		out = append(out, Pair{id, name})
		return nil
	}))
	return out
}

var wantPairs = []Pair{
	{"1111111111111111111111111111111111111111", "HEAD"},
	{"1111111111111111111111111111111111111111", "refs/heads/main"},
	{"2222222222222222222222222222222222222222", "refs/tags/v1"},
	{"1111111111111111111111111111111111111111", "refs/tags/v1^{}"},
	{"3333333333333333333333333333333333333333", ""},
}

func TestParse(t *testing.T) {
	var got []Pair
	err := Parse(strings.NewReader(listing), func(id, name string) error {
		got = append(got, Pair{id, name})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, wantPairs, got)
}

func TestParseStopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := Parse(strings.NewReader(listing), func(id, name string) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestParsePair(t *testing.T) {
	p, err := ParsePair("abc refs/heads/main")
	require.NoError(t, err)
	assert.Equal(t, Pair{"abc", "refs/heads/main"}, p)

	_, err = ParsePair("abc")
	assert.Error(t, err)
}

func TestStatic(t *testing.T) {
	boom := errors.New("boom")
	s := &Static{Head: "refs/heads/main", Pairs: wantPairs[:2], Err: boom}

	head, err := s.HeadName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refs/heads/main", head)

	var got []Pair
	err = s.Refs(context.Background(), func(id, name string) error {
		got = append(got, Pair{id, name})
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, wantPairs[:2], got)

	_, err = (&Static{}).HeadName(context.Background())
	assert.Error(t, err)
}

func TestFileSourcePlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.txt")
	require.NoError(t, os.WriteFile(path, []byte(listing), 0o644))

	src := NewFileSource(path, WithHead("refs/heads/main"))
	assert.Equal(t, wantPairs, collect(t, src))

	head, err := src.HeadName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refs/heads/main", head)
}

func TestFileSourceZstd(t *testing.T) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	require.NoError(t, err)
	_, err = enc.Write([]byte(listing))
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	path := filepath.Join(t.TempDir(), "refs.txt.zst")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	assert.Equal(t, wantPairs, collect(t, NewFileSource(path)))
}

func TestFileSourceErrors(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "missing"))

	err := src.Refs(context.Background(), func(id, name string) error { return nil })
	var serr *refs.SourceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "open", serr.Op)

	_, err = src.HeadName(context.Background())
	assert.ErrorAs(t, err, &serr)
}

func TestFileSourceReturnsCallbackError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.txt")
	require.NoError(t, os.WriteFile(path, []byte(listing), 0o644))

	err := NewFileSource(path).Refs(context.Background(), func(id, name string) error {
		return refs.ErrAllocation
	})
	assert.Equal(t, refs.ErrAllocation, err)
}

func TestFileSourceEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	assert.Empty(t, collect(t, NewFileSource(path)))
}

func TestNewGitSource(t *testing.T) {
	t.Setenv(LsRemoteEnv, "")

	_, err := NewGitSource("")
	assert.ErrorIs(t, err, ErrNotRepository)

	s, err := NewGitSource("/repo/.git")
	require.NoError(t, err)
	assert.Equal(t, []string{"git", "ls-remote", "/repo/.git"}, s.Argv())
	assert.Equal(t, "/repo/.git", s.GitDir())

	s, err = NewGitSource("/repo/.git", WithGitPath("/usr/bin/git"), WithLsRemote("git show-ref --head -d"))
	require.NoError(t, err)
	assert.Equal(t, []string{"git", "show-ref", "--head", "-d"}, s.Argv())
}

func TestNewGitSourceHonoursEnv(t *testing.T) {
	t.Setenv(LsRemoteEnv, "git for-each-ref")

	s, err := NewGitSource(".git")
	require.NoError(t, err)
	assert.Equal(t, []string{"git", "for-each-ref"}, s.Argv())

	s, err = NewGitSource(".git", WithLsRemote("cat refs.txt"))
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "refs.txt"}, s.Argv())
}

func TestGitSourceRunsListingCommand(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	path := filepath.Join(t.TempDir(), "refs.txt")
	require.NoError(t, os.WriteFile(path, []byte(listing), 0o644))

	s, err := NewGitSource(".git", WithLsRemote("cat "+path))
	require.NoError(t, err)
	assert.Equal(t, wantPairs, collect(t, s))
}

func TestGitSourceCommandFailure(t *testing.T) {
	s, err := NewGitSource(".git", WithLsRemote("refscope-command-that-does-not-exist"))
	require.NoError(t, err)

	err = s.Refs(context.Background(), func(id, name string) error { return nil })
	var serr *refs.SourceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "ls-remote", serr.Op)
}

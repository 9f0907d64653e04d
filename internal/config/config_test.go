package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSettings map[string]string

func (m memSettings) PutConfig(key, value string) error { m[key] = value; return nil }

func (m memSettings) RemoveConfig(key string) error { delete(m, key); return nil }

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, ".git", cfg.Repo.GitDir)
	assert.Empty(t, cfg.Repo.Remote)
	assert.Equal(t, 0, cfg.Catalog.MaxRecords)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.Color.UI)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "refscope.yaml")
	require.NoError(t, os.WriteFile(file, []byte("repo:\n  remote: upstream/main\n  head: dev\ncatalog:\n  max_records: 10\n"), 0o644))

	t.Setenv("REFSCOPE_REPO_HEAD", "env-head")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("git-dir", "", "")
	require.NoError(t, flags.Parse([]string{"--git-dir", "/tmp/repo.git"}))

	cfg, err := Load(LoadOptions{
		File: file,
		Settings: map[string]string{
			"repo.remote":      "stored/main",
			"source.ls_remote": "git show-ref -d",
			"color.ui":         "false",
			"bogus.key":        "ignored",
		},
		Flags: map[string]*pflag.Flag{"repo.git_dir": flags.Lookup("git-dir")},
	})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/repo.git", cfg.Repo.GitDir)
	assert.Equal(t, "env-head", cfg.Repo.Head)
	assert.Equal(t, "upstream/main", cfg.Repo.Remote)
	assert.Equal(t, "git show-ref -d", cfg.Source.LsRemote)
	assert.Equal(t, 10, cfg.Catalog.MaxRecords)
	assert.False(t, cfg.Color.UI)
}

func TestLoadUnchangedFlagKeepsLowerPriority(t *testing.T) {
	t.Setenv("REFSCOPE_REPO_GIT_DIR", "/env/repo.git")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("git-dir", ".git", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load(LoadOptions{Flags: map[string]*pflag.Flag{"repo.git_dir": flags.Lookup("git-dir")}})
	require.NoError(t, err)
	assert.Equal(t, "/env/repo.git", cfg.Repo.GitDir)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REFSCOPE_LOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("REFSCOPE_LOG_LEVEL") })

	cfg, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(LoadOptions{File: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{
		"catalog.max_records",
		"color.ui",
		"log.format",
		"log.level",
		"repo.git_dir",
		"repo.head",
		"repo.remote",
		"source.file",
		"source.ls_remote",
	}, Keys())
	assert.True(t, IsKey("repo.remote"))
	assert.False(t, IsKey("repo"))
}

func TestGetValue(t *testing.T) {
	cfg := &Config{Repo: RepoConfig{Remote: "origin/main"}, Color: ColorConfig{UI: true}}

	v, err := cfg.GetValue("repo.remote")
	require.NoError(t, err)
	assert.Equal(t, "origin/main", v)

	v, err = cfg.GetValue("color.ui")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	_, err = cfg.GetValue("repo")
	assert.Error(t, err)
	_, err = cfg.GetValue("repo.nope")
	assert.Error(t, err)
}

func TestSetValue(t *testing.T) {
	s := memSettings{}

	require.NoError(t, SetValue(s, "repo.remote", "origin/main"))
	require.NoError(t, SetValue(s, "color.ui", "false"))
	require.NoError(t, SetValue(s, "catalog.max_records", "5000"))
	assert.Error(t, SetValue(s, "color.ui", "maybe"))
	assert.Error(t, SetValue(s, "catalog.max_records", "-1"))
	assert.Error(t, SetValue(s, "nope.key", "x"))

	assert.Equal(t, memSettings{
		"repo.remote":         "origin/main",
		"color.ui":            "false",
		"catalog.max_records": "5000",
	}, s)

	require.NoError(t, UnsetValue(s, "repo.remote"))
	assert.NotContains(t, s, "repo.remote")
	assert.Error(t, UnsetValue(s, "nope.key"))
}

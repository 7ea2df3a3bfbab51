package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amozoss/pushover-go"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pushoverrc")
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReadConfig(t *testing.T) {
	path := writeConfig(t, `[main]
token = TOK

[phone]
user_key = UPHONE
device = iphone

[team]
user_key = UTEAM
`)

	cfg, err := readConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "TOK", cfg.Token)
	assert.Equal(t, map[string]Profile{
		"phone": {UserKey: "UPHONE", Device: "iphone"},
		"team":  {UserKey: "UTEAM"},
	}, cfg.Profiles)
}

func TestReadConfigMissingFile(t *testing.T) {
	cfg, err := readConfig(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Token)
	assert.Empty(t, cfg.Profiles)
}

func TestReadConfigWithoutUserKey(t *testing.T) {
	path := writeConfig(t, "[main]\ntoken = TOK\n\n[phone]\ndevice = iphone\n")

	_, err := readConfig(path)
	require.Error(t, err)
	assert.True(t, ConfigError.Contains(err))
	assert.Contains(t, err.Error(), "phone")
}

func TestResolve(t *testing.T) {
	cfg := &Config{Profiles: map[string]Profile{
		"phone": {UserKey: "UPHONE", Device: "iphone"},
	}}

	profile, err := cfg.resolve("phone")
	require.NoError(t, err)
	assert.Equal(t, Profile{UserKey: "UPHONE", Device: "iphone"}, profile)

	profile, err = cfg.resolve("URAW")
	require.NoError(t, err)
	assert.Equal(t, Profile{UserKey: "URAW"}, profile)

	_, err = cfg.resolve("")
	assert.True(t, pushover.InvalidUserError.Contains(err))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	path, err := expandHome("~/.pushoverrc")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".pushoverrc"), path)

	path, err = expandHome("/etc/pushoverrc")
	require.NoError(t, err)
	assert.Equal(t, "/etc/pushoverrc", path)
}

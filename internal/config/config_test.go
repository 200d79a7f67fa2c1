package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-pgpmime/message"
)

var envVars = []string{
	"KEYRINGS", "PASSPHRASE",
	"FROM", "SIGNER", "RECIPIENTS",
	"ENGINE", "ENGINE_COMMAND",
	"MAX_DEPTH", "MAX_LENGTH",
	"LOG_LEVEL", "CONFIG",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envVars {
		t.Setenv(EnvPrefix+env, "")
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EngineOpenPGP, cfg.Engine.Kind)
	assert.Equal(t, message.DefaultMaxMultipartDepth, cfg.Parse.MaxDepth)
	assert.Equal(t, message.DefaultMaxLength, cfg.Parse.MaxLength)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Keys.KeyRings)
	assert.Empty(t, cfg.Compose.Recipients)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvVarOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PGPMIME_KEYRINGS", "a.asc, b.asc,")
	t.Setenv("PGPMIME_PASSPHRASE", "pw")
	t.Setenv("PGPMIME_FROM", "me@example.com")
	t.Setenv("PGPMIME_SIGNER", "signer@example.com")
	t.Setenv("PGPMIME_RECIPIENTS", "a@example.com,b@example.com")
	t.Setenv("PGPMIME_ENGINE", "REMOTE")
	t.Setenv("PGPMIME_ENGINE_COMMAND", "pgpmime serve --log-level debug")
	t.Setenv("PGPMIME_MAX_DEPTH", "-1")
	t.Setenv("PGPMIME_MAX_LENGTH", "1024")
	t.Setenv("PGPMIME_LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"a.asc", "b.asc"}, cfg.Keys.KeyRings)
	assert.Equal(t, "pw", cfg.Keys.Passphrase)
	assert.Equal(t, "me@example.com", cfg.Compose.From)
	assert.Equal(t, "signer@example.com", cfg.Compose.Signer)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Compose.Recipients)
	assert.Equal(t, EngineRemote, cfg.Engine.Kind)
	assert.Equal(t, []string{"pgpmime", "serve", "--log-level", "debug"}, cfg.Engine.Command)
	assert.Equal(t, -1, cfg.Parse.MaxDepth)
	assert.Equal(t, 1024, cfg.Parse.MaxLength)

	lvl, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, lvl)
	assert.NoError(t, cfg.Validate())
	assert.Len(t, cfg.ParseOptions(), 2)
}

func TestLoad_BadNumber(t *testing.T) {
	clearEnv(t)
	t.Setenv("PGPMIME_MAX_DEPTH", "deep")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PGPMIME_FROM", "env@example.com")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
keys:
  keyrings:
    - /home/me/.gnupg/secring.asc
compose:
  from: file@example.com
  signer: file@example.com
  recipients:
    - you@example.com
parse:
  max_depth: 3
logging:
  level: warn
`), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"/home/me/.gnupg/secring.asc"}, cfg.Keys.KeyRings)
	assert.Equal(t, "env@example.com", cfg.Compose.From)
	assert.Equal(t, "file@example.com", cfg.Compose.Signer)
	assert.Equal(t, []string{"you@example.com"}, cfg.Compose.Recipients)
	assert.Equal(t, 3, cfg.Parse.MaxDepth)
	assert.Equal(t, message.DefaultMaxLength, cfg.Parse.MaxLength)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, EngineOpenPGP, cfg.Engine.Kind)
}

func TestLoadFromFile_Errors(t *testing.T) {
	clearEnv(t)

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keys: [unclosed"), 0o600))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	cfg.Engine.Kind = EngineRemote
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)

	cfg.Engine.Command = []string{"engine"}
	assert.NoError(t, cfg.Validate())

	cfg.Engine.Kind = "gpg"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)

	cfg.Engine.Kind = EngineOpenPGP
	cfg.Logging.Level = "loud"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
}

func TestDefaultPath(t *testing.T) {
	clearEnv(t)
	t.Setenv("PGPMIME_CONFIG", "/etc/pgpmime.yaml")
	assert.Equal(t, "/etc/pgpmime.yaml", DefaultPath())

	t.Setenv("PGPMIME_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	assert.Equal(t, "", DefaultPath())
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_Default(t *testing.T) {
	cfg := Default()

	assert := assert.New(t)
	assert.Equal(10, cfg.MaxSamples)
	assert.Equal(3.0, cfg.OracleTimeoutSeconds)
	assert.Equal(int64(1), cfg.RandomSeed)
	assert.Equal("subprocess", cfg.Oracle.Kind)
}

func Test_Config_Timeout(t *testing.T) {
	cfg := Config{OracleTimeoutSeconds: 1.5}
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout())
}

func Test_Load_EmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func Test_Load_OverridesOnlyGivenFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	contents := `
max_samples = 25

[oracle]
kind = "session"
`
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg, err := Load(path)
	assert.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(25, cfg.MaxSamples)
	assert.Equal("session", cfg.Oracle.Kind)
	// untouched fields keep their Default() value
	assert.Equal(3.0, cfg.OracleTimeoutSeconds)
	assert.Equal(int64(1), cfg.RandomSeed)
}

func Test_Load_SubprocessCommandAndArgs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	contents := `
[oracle]
kind = "subprocess"
command = "./run-oracle.sh"
args = ["--strict", "-v"]

[cache]
path = "oracle-cache.db"
`
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg, err := Load(path)
	assert.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("./run-oracle.sh", cfg.Oracle.Command)
	assert.Equal([]string{"--strict", "-v"}, cfg.Oracle.Args)
	assert.Equal("oracle-cache.db", cfg.Cache.Path)
}

func Test_Load_MissingFileIsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.Error(t, err)
}

func Test_Load_MalformedTomlIsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	assert.NoError(t, os.WriteFile(path, []byte("not = [valid toml"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

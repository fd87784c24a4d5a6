package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/cclsearch/configs"
	"github.com/Aman-CERP/cclsearch/internal/config"
)

func TestConfigShow_Defaults(t *testing.T) {
	// Given: no configuration files
	env := newCLIEnv(t)

	// When: showing the configuration
	out, _, err := env.run("config", "show")

	// Then: the defaults are printed as YAML
	require.NoError(t, err)
	assert.Contains(t, out, "backend: embedded")
	assert.Contains(t, out, "default_index: AW")
	assert.Contains(t, out, "level: warn")
}

func TestConfigShow_MergesProjectAndEnv(t *testing.T) {
	env := newCLIEnv(t)
	env.writeProjectConfig(t, "query:\n  locale: it\n  default_index: TI\n")
	t.Setenv("CCLSEARCH_CACHE_SIZE", "64")

	out, _, err := env.run("config", "show", "--json")

	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "it", cfg.Query.Locale)
	assert.Equal(t, "TI", cfg.Query.DefaultIndex)
	assert.Equal(t, 64, cfg.Catalog.CacheSize)
}

func TestConfigShow_InvalidConfig(t *testing.T) {
	env := newCLIEnv(t)
	env.writeProjectConfig(t, "catalog:\n  backend: postgres\n")

	_, _, err := env.run("config", "show")

	assert.Error(t, err)
}

func TestConfigInit_CreatesProjectConfig(t *testing.T) {
	// Given: a project without configuration
	env := newCLIEnv(t)

	// When: running config init
	out, _, err := env.run("config", "init")

	// Then: the template is written and loads cleanly
	require.NoError(t, err)
	assert.Contains(t, out, "Created configuration")
	data, err := os.ReadFile(filepath.Join(env.dir, config.ProjectConfigFile))
	require.NoError(t, err)
	assert.Equal(t, configs.ProjectConfigTemplate, string(data))

	_, err = config.Load(env.dir)
	assert.NoError(t, err)
}

func TestConfigInit_ExistingWithoutForce(t *testing.T) {
	env := newCLIEnv(t)
	env.writeProjectConfig(t, "query:\n  locale: it\n")

	out, _, err := env.run("config", "init")

	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
	data, _ := os.ReadFile(filepath.Join(env.dir, config.ProjectConfigFile))
	assert.Equal(t, "query:\n  locale: it\n", string(data))
}

func TestConfigInit_ForceKeepsBackup(t *testing.T) {
	// Given: an existing project configuration
	env := newCLIEnv(t)
	env.writeProjectConfig(t, "query:\n  locale: it\n")

	// When: forcing init
	out, _, err := env.run("config", "init", "--force")

	// Then: the old file is backed up and replaced
	require.NoError(t, err)
	assert.Contains(t, out, "Backup:")
	backups, err := config.ListBackups(filepath.Join(env.dir, config.ProjectConfigFile))
	require.NoError(t, err)
	require.Len(t, backups, 1)
	old, _ := os.ReadFile(backups[0])
	assert.Equal(t, "query:\n  locale: it\n", string(old))
}

func TestConfigInit_User(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run("config", "init", "--user")

	require.NoError(t, err)
	assert.True(t, config.UserConfigExists())
}

func TestConfigPath(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := env.run("config", "path")

	require.NoError(t, err)
	assert.Contains(t, out, config.GetUserConfigPath())
	assert.Contains(t, out, filepath.Join(env.dir, config.ProjectConfigFile))
}

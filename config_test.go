package msgtemplate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "msgtemplate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, "DBPath: /tmp/templates.db\nVarNames:\n  - name\n  - city\n")
	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/templates.db", config.DBPath)
	assert.Equal(t, "default", config.Template)
	assert.Equal(t, []string{"name", "city"}, config.VarNames)
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "Template: greeting\n"))
	require.NoError(t, err)
	assert.Equal(t, "greeting", config.Template)
	assert.Equal(t, DefaultVarNames, config.VarNames)
	assert.Equal(t, DefaultConfig().DBPath, config.DBPath)
}

func TestLoadConfigInvalid(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "VarNames: [name, name]\n"))
	assert.ErrorContains(t, err, "invalid config")

	_, err = LoadConfig(writeConfig(t, "VarNames: [\"{name}\"]\n"))
	assert.ErrorContains(t, err, "invalid config")

	_, err = LoadConfig(writeConfig(t, "DBPath: \"\"\n"))
	assert.ErrorContains(t, err, "invalid config")

	_, err = LoadConfig(writeConfig(t, "VarNames: {"))
	assert.ErrorContains(t, err, "can't parse config")

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "can't read config")
}

func TestValidateVarNames(t *testing.T) {
	assert.NoError(t, ValidateVarNames(DefaultVarNames))
	assert.NoError(t, ValidateVarNames(nil))
	assert.Error(t, ValidateVarNames([]string{"a", ""}))
	assert.Error(t, ValidateVarNames([]string{"a", "a"}))
	assert.Error(t, ValidateVarNames([]string{"a}"}))
}

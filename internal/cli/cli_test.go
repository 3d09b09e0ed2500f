package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinimalArguments(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	config, exit, err := Parse([]string{"./my-archetype"}, &out)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "./my-archetype", config.ArchetypePath)
	assert.Equal(t, ".", config.OutputDir)
	assert.Equal(t, "fail", config.OnMissing)
	assert.Equal(t, "text", config.LogFormat)
	assert.Equal(t, "warn", config.LogLevel)
}

func TestParseAllFlags(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	config, exit, err := Parse([]string{
		"-out", "/tmp/dest",
		"-prop", "name=billing",
		"-p", "gradle=true",
		"-batch",
		"-on-missing", "keep",
		"-log-format", "json",
		"-log-level", "debug",
		"./arch.zip",
	}, &out)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "./arch.zip", config.ArchetypePath)
	assert.Equal(t, "/tmp/dest", config.OutputDir)
	assert.Equal(t, map[string]string{"name": "billing", "gradle": "true"}, config.Properties)
	assert.True(t, config.Batch)
	assert.Equal(t, "keep", config.OnMissing)
	assert.Equal(t, "json", config.LogFormat)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestParseShorthandOutputFlagWins(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	config, _, err := Parse([]string{"-out", "/a", "-o", "/b", "./arch"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "/b", config.OutputDir)
}

func TestParseNoArgumentsPrintsUsage(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	config, exit, err := Parse([]string{}, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, config)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseHelpFlag(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	_, exit, err := Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	assert.True(t, exit)
}

func TestParseRejectsExtraPositionalArguments(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	_, _, err := Parse([]string{"./a", "./b"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseRejectsMalformedProperty(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	_, _, err := Parse([]string{"-prop", "no-equals-sign", "./arch"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseRejectsInvalidOnMissingPolicy(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	_, _, err := Parse([]string{"-on-missing", "ignore", "./arch"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "on-missing")
}

func TestParseRejectsInvalidLogFormat(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	_, _, err := Parse([]string{"-log-format", "xml", "./arch"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "log-format")
}

func TestParsePropertiesFile(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	propsFile := filepath.Join(t.TempDir(), "project.env")
	require.NoError(t, os.WriteFile(propsFile, []byte("name=from-file\ngradle=true\n"), 0o644))

	config, _, err := Parse([]string{"-props", propsFile, "./arch"}, &out)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "from-file", "gradle": "true"}, config.Properties)
}

func TestParseExplicitPropertyWinsOverFile(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	propsFile := filepath.Join(t.TempDir(), "project.env")
	require.NoError(t, os.WriteFile(propsFile, []byte("name=from-file\n"), 0o644))

	config, _, err := Parse([]string{"-props", propsFile, "-prop", "name=explicit", "./arch"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "explicit", config.Properties["name"])
}

func TestParseMissingPropertiesFile(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	_, _, err := Parse([]string{"-props", filepath.Join(t.TempDir(), "nope.env"), "./arch"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "properties file")
}

package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/archetype/internal/app"
	"github.com/vk/archetype/internal/testutil"
)

// conditionalFixture wires a yesno input to a guarded exec so the same
// catalog produces different models depending on the supplied property.
var conditionalFixture = map[string]string{
	"archetype.hcl": `
archetype {
  name = "toggles"
  root = "main"
}

fileset "project" {
  dir       = "payload"
  templated = true
}
`,
	"main.hcl": `
script {
  input "gradle" {
    prompt  = "Use Gradle?"
    type    = "yesno"
    default = true
  }
  value "build/tool" {
    value   = "make"
    order   = 10
  }
  exec "gradle-setup" {
    if = ["gradle"]
  }
}
`,
	"gradle-setup.hcl": `
script {
  value "build/tool" {
    value   = "gradle"
    replace = true
  }
  list "deps" {
    items = ["gradle-wrapper"]
  }
}
`,
	"payload/build.txt": "tool={{ .Model.build.tool }}\n",
}

func TestGeneration_GuardedScriptRuns(t *testing.T) {
	t.Parallel()

	result := testutil.RunApp(t, conditionalFixture, "", func(cfg *app.Config) {
		cfg.Properties = map[string]string{"gradle": "true"}
	})

	require.NoError(t, result.Err)
	assert.Equal(t, "tool=gradle\n", readGenerated(t, result.OutDir, "build.txt"))
}

func TestGeneration_GuardedScriptSkipped(t *testing.T) {
	t.Parallel()

	result := testutil.RunApp(t, conditionalFixture, "", func(cfg *app.Config) {
		cfg.Properties = map[string]string{"gradle": "false"}
	})

	require.NoError(t, result.Err)
	assert.Equal(t, "tool=make\n", readGenerated(t, result.OutDir, "build.txt"))
}

func TestGeneration_KeyedMapEntriesMerge(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"archetype.hcl": `
archetype {
  name = "plugins"
  root = "main"
}

fileset "project" {
  dir       = "payload"
  templated = true
}
`,
		"main.hcl": `
script {
  map "plugins" {
    key    = "java"
    fields = { version = "21" }
    order  = 10
  }
  exec "vendor" {}
  map "plugins" {
    key    = "kotlin"
    fields = { version = "2.0" }
    order  = 20
  }
}
`,
		"vendor.hcl": `
script {
  map "plugins" {
    key    = "java"
    fields = { vendor = "temurin" }
    order  = 10
  }
}
`,
		"payload/plugins.txt": "{{ range .Model.plugins }}{{ ._key }}:{{ .version }}{{ if .vendor }}:{{ .vendor }}{{ end }}\n{{ end }}",
	}

	result := testutil.RunApp(t, files, "", nil)

	require.NoError(t, result.Err)
	assert.Equal(t, "java:21:temurin\nkotlin:2.0\n", readGenerated(t, result.OutDir, "plugins.txt"))
}

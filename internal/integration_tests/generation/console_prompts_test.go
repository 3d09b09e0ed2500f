package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/archetype/internal/app"
	"github.com/vk/archetype/internal/testutil"
)

func TestGeneration_InteractivePrompts(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"archetype.hcl": `
archetype {
  name = "interactive"
  root = "main"
}

fileset "project" {
  dir       = "payload"
  templated = true
}
`,
		"main.hcl": `
script {
  input "name" {
    prompt = "Project name"
  }
  input "database" {
    prompt  = "Pick a database"
    type    = "choice"
    choices = ["postgres", "sqlite"]
    default = "postgres"
  }
  input "docker" {
    prompt = "Add a Dockerfile?"
    type   = "yesno"
  }
}
`,
		"payload/summary.txt": "${name}/${database}/${docker}\n",
	}

	// One answer per prompt: a name, the second menu entry, and a yes.
	stdin := "billing\n2\ny\n"
	result := testutil.RunApp(t, files, stdin, func(cfg *app.Config) {
		cfg.Batch = false
	})

	require.NoError(t, result.Err)
	assert.Equal(t, "billing/sqlite/true\n", readGenerated(t, result.OutDir, "summary.txt"))
}

func TestGeneration_InteractiveAcceptsDefaults(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"archetype.hcl": `
archetype {
  name = "interactive-defaults"
  root = "main"
}

fileset "project" {
  dir       = "payload"
  templated = true
}
`,
		"main.hcl": `
script {
  input "name" {
    prompt  = "Project name"
    default = "demo"
  }
}
`,
		"payload/name.txt": "${name}\n",
	}

	result := testutil.RunApp(t, files, "\n", func(cfg *app.Config) {
		cfg.Batch = false
	})

	require.NoError(t, result.Err)
	assert.Equal(t, "demo\n", readGenerated(t, result.OutDir, "name.txt"))
}

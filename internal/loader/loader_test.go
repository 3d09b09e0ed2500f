package loader_test

import (
	"archive/zip"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/archetype/internal/ctxlog"
	"github.com/vk/archetype/internal/loader"
	"github.com/vk/archetype/internal/testutil"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&testutil.SafeBuffer{}, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger)
}

func TestResolveLogicalReference(t *testing.T) {
	t.Parallel()
	source := loader.NewDirSource(t.TempDir())

	ref, err := source.Resolve("", "main")
	require.NoError(t, err)
	assert.Equal(t, "main.hcl", ref)
}

func TestResolveRelativeToReferencingScript(t *testing.T) {
	t.Parallel()
	source := loader.NewDirSource(t.TempDir())

	ref, err := source.Resolve("shared/base.hcl", "java")
	require.NoError(t, err)
	assert.Equal(t, "shared/java.hcl", ref)

	ref, err = source.Resolve("shared/base.hcl", "../main")
	require.NoError(t, err)
	assert.Equal(t, "main.hcl", ref)
}

func TestResolveKeepsExplicitExtension(t *testing.T) {
	t.Parallel()
	source := loader.NewDirSource(t.TempDir())

	ref, err := source.Resolve("", "main.hcl")
	require.NoError(t, err)
	assert.Equal(t, "main.hcl", ref)
}

func TestResolveRejectsRootEscape(t *testing.T) {
	t.Parallel()
	source := loader.NewDirSource(t.TempDir())

	_, err := source.Resolve("main.hcl", "../../etc/passwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes the archetype root")
}

func TestResolveRejectsEmptyReference(t *testing.T) {
	t.Parallel()
	source := loader.NewDirSource(t.TempDir())

	_, err := source.Resolve("main.hcl", "")
	require.Error(t, err)
}

func TestLoadParsesDocument(t *testing.T) {
	t.Parallel()
	dir := testutil.WriteCatalog(t, map[string]string{
		"main.hcl": `
script {
  description = "root script"
}
`,
	})
	source := loader.NewDirSource(dir)

	doc, err := source.Load(testContext(t), "main.hcl")
	require.NoError(t, err)
	assert.Equal(t, "main.hcl", doc.Ref)
	assert.Equal(t, "root script", doc.Description)
}

func TestCachedLoadReturnsSameDocument(t *testing.T) {
	t.Parallel()
	dir := testutil.WriteCatalog(t, map[string]string{
		"main.hcl": `script {}`,
	})
	source, err := loader.NewCached(loader.NewDirSource(dir))
	require.NoError(t, err)
	ctx := testContext(t)

	first, err := source.Load(ctx, "main.hcl")
	require.NoError(t, err)
	second, err := source.Load(ctx, "main.hcl")
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestOpenDirectoryCatalog(t *testing.T) {
	t.Parallel()
	dir := testutil.WriteCatalog(t, map[string]string{
		"archetype.hcl": `
archetype {
  name = "fixture"
  root = "main"
}
`,
		"main.hcl": `script {}`,
	})

	catalog, err := loader.Open(testContext(t), dir)
	require.NoError(t, err)
	defer catalog.Close()

	assert.Equal(t, "fixture", catalog.Archetype.Name)
	assert.Equal(t, dir, catalog.PayloadRoot)

	ref, err := catalog.Scripts.Resolve("", catalog.Archetype.Root)
	require.NoError(t, err)
	_, err = catalog.Scripts.Load(testContext(t), ref)
	require.NoError(t, err)
}

func TestOpenMissingPath(t *testing.T) {
	t.Parallel()

	_, err := loader.Open(testContext(t), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestOpenMissingDescriptor(t *testing.T) {
	t.Parallel()

	_, err := loader.Open(testContext(t), t.TempDir())
	require.Error(t, err)
}

func writeZipCatalog(t *testing.T, files map[string]string) string {
	t.Helper()

	archivePath := filepath.Join(t.TempDir(), "fixture.zip")
	archive, err := os.Create(archivePath)
	require.NoError(t, err)

	writer := zip.NewWriter(archive)
	for name, content := range files {
		entry, err := writer.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	require.NoError(t, archive.Close())
	return archivePath
}

func TestOpenZipCatalog(t *testing.T) {
	t.Parallel()
	archivePath := writeZipCatalog(t, map[string]string{
		"archetype.hcl": `
archetype {
  name = "zipped"
  root = "main"
}
`,
		"main.hcl":          `script {}`,
		"payload/README.md": "hello\n",
		"nested/child.hcl":  `script {}`,
	})

	catalog, err := loader.Open(testContext(t), archivePath)
	require.NoError(t, err)

	assert.Equal(t, "zipped", catalog.Archetype.Name)
	assert.FileExists(t, filepath.Join(catalog.PayloadRoot, "payload", "README.md"))

	_, err = catalog.Scripts.Load(testContext(t), "nested/child.hcl")
	require.NoError(t, err)

	// Close removes the extraction directory.
	extracted := catalog.PayloadRoot
	require.NoError(t, catalog.Close())
	assert.NoDirExists(t, extracted)
}

func TestOpenZipRejectsEscapingEntry(t *testing.T) {
	t.Parallel()
	archivePath := writeZipCatalog(t, map[string]string{
		"../outside.txt": "nope",
	})

	_, err := loader.Open(testContext(t), archivePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes the extraction root")
}

func TestOpenRejectsNonZipFile(t *testing.T) {
	t.Parallel()
	filePath := filepath.Join(t.TempDir(), "archetype.tar")
	require.NoError(t, os.WriteFile(filePath, []byte("not a catalog"), 0o644))

	_, err := loader.Open(testContext(t), filePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither a directory nor a .zip archive")
}

package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/archetype/internal/ctxlog"
	"github.com/vk/archetype/internal/fsutil"
	"github.com/vk/archetype/internal/schema"
)

// descriptorFile is the well-known name of the catalog descriptor inside an
// archetype directory or archive.
const descriptorFile = "archetype.hcl"

// Catalog is an opened archetype: the parsed descriptor, a script source
// rooted at the catalog, and the payload root the renderer reads filesets
// from. Close releases any extraction directory backing an archive.
type Catalog struct {
	Archetype *schema.Archetype
	Scripts   Source
	PayloadRoot string

	cleanup func() error
}

// Close releases resources held by the catalog.
func (c *Catalog) Close() error {
	if c.cleanup == nil {
		return nil
	}
	return c.cleanup()
}

// Open opens an archetype from a directory or a .zip archive, parses its
// descriptor, and returns a cached script source rooted at it.
func Open(ctx context.Context, archPath string) (*Catalog, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(archPath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("archetype path not found: %s", archPath)
	}
	if err != nil {
		return nil, fmt.Errorf("error accessing archetype path %s: %w", archPath, err)
	}

	root := archPath
	var cleanup func() error
	if !info.IsDir() {
		if !strings.HasSuffix(archPath, ".zip") {
			return nil, fmt.Errorf("archetype path %s is neither a directory nor a .zip archive", archPath)
		}
		logger.Debug("Extracting archetype archive.", "path", archPath)
		root, err = extractZip(archPath)
		if err != nil {
			return nil, err
		}
		extracted := root
		cleanup = func() error { return os.RemoveAll(extracted) }
	}

	fail := func(err error) (*Catalog, error) {
		if cleanup != nil {
			cleanup()
		}
		return nil, err
	}

	parser := hclparse.NewParser()
	arch, err := schema.ParseArchetypeFile(parser, filepath.Join(root, descriptorFile))
	if err != nil {
		return fail(err)
	}
	logger.Debug("Archetype descriptor loaded.", "name", arch.Name, "root_script", arch.Root, "filesets", len(arch.FileSets))

	if scriptFiles, err := fsutil.FindFilesByExtension(root, ".hcl"); err == nil {
		logger.Debug("Catalog scripts discovered.", "count", len(scriptFiles))
	}

	scripts, err := NewCached(NewDirSource(root))
	if err != nil {
		return fail(err)
	}

	return &Catalog{
		Archetype:   arch,
		Scripts:     scripts,
		PayloadRoot: root,
		cleanup:     cleanup,
	}, nil
}

package loader

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/archetype/internal/ctxlog"
	"github.com/vk/archetype/internal/schema"
)

// Source resolves and loads parsed script documents. It mirrors the
// interface the interpreter consumes.
type Source interface {
	Resolve(fromRef, ref string) (string, error)
	Load(ctx context.Context, ref string) (*schema.Document, error)
}

// DirSource serves scripts from a directory tree. Canonical references are
// slash-delimited paths relative to the root.
type DirSource struct {
	root   string
	parser *hclparse.Parser
}

// NewDirSource returns a Source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{root: dir, parser: hclparse.NewParser()}
}

// Resolve canonicalizes ref relative to fromRef. An empty fromRef anchors
// the reference at the source root (used for the descriptor's root script).
func (s *DirSource) Resolve(fromRef, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("empty script reference")
	}
	if !strings.HasSuffix(ref, ".hcl") {
		// Logical reference.
		ref += ".hcl"
	}

	base := "."
	if fromRef != "" {
		base = path.Dir(fromRef)
	}
	canonical := path.Clean(path.Join(base, ref))
	if canonical == ".." || strings.HasPrefix(canonical, "../") {
		return "", fmt.Errorf("script reference %q escapes the archetype root", ref)
	}
	return canonical, nil
}

// Load parses the document for a canonical reference.
func (s *DirSource) Load(ctx context.Context, ref string) (*schema.Document, error) {
	logger := ctxlog.FromContext(ctx)
	filePath := filepath.Join(s.root, filepath.FromSlash(ref))
	logger.Debug("Loading script document.", "ref", ref, "path", filePath)
	return schema.ParseDocumentFile(s.parser, filePath, ref)
}

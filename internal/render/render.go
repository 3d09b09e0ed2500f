package render

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/vk/archetype/internal/ctxlog"
	"github.com/vk/archetype/internal/model"
	"github.com/vk/archetype/internal/props"
	"github.com/vk/archetype/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// Renderer writes the generated project for one run. It holds the run's
// property context and frozen model tree.
type Renderer struct {
	pc   *props.Context
	tree *model.Tree
}

// New returns a Renderer over a finished run. The tree must be frozen.
func New(pc *props.Context, tree *model.Tree) *Renderer {
	if !tree.Frozen() {
		panic("render: model tree handed to renderer before Finalize")
	}
	return &Renderer{pc: pc, tree: tree}
}

// Render materializes every fileset of the archetype into destDir.
func (r *Renderer) Render(ctx context.Context, arch *schema.Archetype, payloadRoot, destDir string) error {
	logger := ctxlog.FromContext(ctx)

	data, err := r.templateData()
	if err != nil {
		return fmt.Errorf("failed to assemble template data: %w", err)
	}
	for _, fileset := range arch.FileSets {
		logger.Debug("Rendering fileset.", "fileset", fileset.Name, "dir", fileset.Dir, "templated", fileset.Templated)
		if err := r.renderFileSet(ctx, fileset, payloadRoot, destDir, data); err != nil {
			return fmt.Errorf("fileset %q: %w", fileset.Name, err)
		}
	}
	return nil
}

func (r *Renderer) renderFileSet(ctx context.Context, fileset *schema.FileSet, payloadRoot, destDir string, data map[string]any) error {
	logger := ctxlog.FromContext(ctx)
	srcRoot := filepath.Join(payloadRoot, filepath.FromSlash(fileset.Dir))

	return filepath.WalkDir(srcRoot, func(srcPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(srcRoot, srcPath)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		selected, err := matches(fileset, rel)
		if err != nil {
			return err
		}
		if !selected {
			return nil
		}

		destRel, err := r.transformPath(rel)
		if err != nil {
			return fmt.Errorf("failed to transform path %q: %w", rel, err)
		}
		destPath := filepath.Join(destDir, filepath.FromSlash(destRel))
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return err
		}

		logger.Debug("Writing output file.", "src", rel, "dest", destRel)
		if fileset.Templated {
			return r.renderTemplateFile(srcPath, destPath, data)
		}
		return copyFile(srcPath, destPath)
	})
}

// matches applies the fileset's include and exclude globs to a relative
// slash path.
func matches(fileset *schema.FileSet, rel string) (bool, error) {
	included := false
	for _, pattern := range fileset.Includes {
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return false, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		if ok {
			included = true
			break
		}
	}
	if !included {
		return false, nil
	}
	for _, pattern := range fileset.Excludes {
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return false, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		if ok {
			return false, nil
		}
	}
	return true, nil
}

// transformPath expands ${property} references in every segment of a
// relative destination path.
func (r *Renderer) transformPath(rel string) (string, error) {
	segments := strings.Split(rel, "/")
	for i, segment := range segments {
		expanded, err := r.pc.Substitute(segment)
		if err != nil {
			return "", err
		}
		segments[i] = expanded
	}
	return strings.Join(segments, "/"), nil
}

func (r *Renderer) renderTemplateFile(srcPath, destPath string, data map[string]any) error {
	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}

	// ${property} references expand first, then template syntax.
	expanded, err := r.pc.Substitute(string(raw))
	if err != nil {
		return fmt.Errorf("substitution failed in %s: %w", srcPath, err)
	}

	tmpl, err := template.New(filepath.Base(srcPath)).Parse(expanded)
	if err != nil {
		return fmt.Errorf("invalid template %s: %w", srcPath, err)
	}

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := tmpl.Execute(out, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", srcPath, err)
	}
	return nil
}

func copyFile(srcPath, destPath string) error {
	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}
	return os.WriteFile(destPath, raw, 0o644)
}

// templateData assembles the data handed to templated files: the exported
// model tree under Model and the visible properties under Props. Values
// flagged render-as-template are expanded through ${} substitution.
func (r *Renderer) templateData() (map[string]any, error) {
	exported, err := r.exportWithTemplates(r.tree.Root())
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"Model": exported,
		"Props": r.propsData(),
	}, nil
}

func (r *Renderer) propsData() map[string]any {
	out := make(map[string]any)
	for name, v := range r.pc.Variables() {
		out[name] = scalarData(v)
	}
	return out
}

// exportWithTemplates mirrors model.Export but applies ${} substitution to
// values carrying the render-as-template flag.
func (r *Renderer) exportWithTemplates(n *model.Node) (any, error) {
	switch n.Kind() {
	case model.KindValue:
		v := scalarData(n.Value())
		if s, ok := v.(string); ok && n.Template() {
			expanded, err := r.pc.Substitute(s)
			if err != nil {
				return nil, err
			}
			return expanded, nil
		}
		return v, nil
	case model.KindList:
		out := make([]any, 0, len(n.Items()))
		for _, item := range n.Items() {
			child, err := r.exportWithTemplates(item)
			if err != nil {
				return nil, err
			}
			out = append(out, child)
		}
		return out, nil
	case model.KindMap:
		if n.Keyed() {
			out := make([]any, 0, len(n.Items()))
			for _, entry := range n.Items() {
				m, err := r.exportEntries(entry)
				if err != nil {
					return nil, err
				}
				m["_key"] = entry.Key()
				out = append(out, m)
			}
			return out, nil
		}
		return r.exportEntries(n)
	default:
		panic("render: unhandled node kind")
	}
}

func (r *Renderer) exportEntries(n *model.Node) (map[string]any, error) {
	out := make(map[string]any)
	for _, name := range n.EntryNames() {
		child, err := r.exportWithTemplates(n.Entry(name))
		if err != nil {
			return nil, err
		}
		out[name] = child
	}
	return out, nil
}

func scalarData(v cty.Value) any {
	if v.IsNull() {
		return nil
	}
	switch v.Type() {
	case cty.String:
		return v.AsString()
	case cty.Bool:
		return v.True()
	case cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f
	default:
		return v.GoString()
	}
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package schema

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Archetype is the parsed catalog descriptor (archetype.hcl). Root names the
// script the interpreter starts from; FileSets drive the renderer.
type Archetype struct {
	Name        string
	Description string
	Root        string
	FileSets    []*FileSet
}

// FileSet declares a group of payload files to materialize into the
// destination directory. Include/exclude patterns are doublestar globs
// relative to Dir. Templated filesets are rendered; others copied verbatim.
type FileSet struct {
	Name      string
	Dir       string
	Includes  []string
	Excludes  []string
	Templated bool
}

var archetypeFileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "archetype"},
		{Type: "fileset", LabelNames: []string{"name"}},
	},
}

var archetypeBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "name", Required: true},
		{Name: "description"},
		{Name: "root", Required: true},
	},
}

var filesetBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "dir", Required: true},
		{Name: "includes"},
		{Name: "excludes"},
		{Name: "templated"},
	},
}

// ParseArchetypeFile parses an archetype descriptor from disk.
func ParseArchetypeFile(parser *hclparse.Parser, filePath string) (*Archetype, error) {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse archetype descriptor %s: %w", filePath, diags)
	}
	return decodeArchetype(hclFile.Body, filePath)
}

func decodeArchetype(body hcl.Body, filePath string) (*Archetype, error) {
	content, diags := body.Content(archetypeFileSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid archetype descriptor %s: %w", filePath, diags)
	}

	arch := &Archetype{}
	sawDescriptor := false

	for _, block := range content.Blocks {
		switch block.Type {
		case "archetype":
			if sawDescriptor {
				return nil, fmt.Errorf("archetype descriptor %s contains more than one `archetype` block", filePath)
			}
			sawDescriptor = true
			if err := decodeArchetypeBlock(arch, block); err != nil {
				return nil, fmt.Errorf("invalid `archetype` block in %s: %w", filePath, err)
			}
		case "fileset":
			fs, err := decodeFileSetBlock(block)
			if err != nil {
				return nil, fmt.Errorf("invalid `fileset` block in %s: %w", filePath, err)
			}
			arch.FileSets = append(arch.FileSets, fs)
		}
	}

	if !sawDescriptor {
		return nil, fmt.Errorf("archetype descriptor %s is missing the `archetype` block", filePath)
	}
	return arch, nil
}

func decodeArchetypeBlock(arch *Archetype, block *hcl.Block) error {
	content, diags := block.Body.Content(archetypeBodySchema)
	if diags.HasErrors() {
		return diags
	}

	var aDiags hcl.Diagnostics
	arch.Name, aDiags = staticString(content.Attributes["name"])
	diags = append(diags, aDiags...)
	arch.Root, aDiags = staticString(content.Attributes["root"])
	diags = append(diags, aDiags...)
	if attr, ok := content.Attributes["description"]; ok {
		arch.Description, aDiags = staticString(attr)
		diags = append(diags, aDiags...)
	}

	if diags.HasErrors() {
		return diags
	}
	return nil
}

func decodeFileSetBlock(block *hcl.Block) (*FileSet, error) {
	content, diags := block.Body.Content(filesetBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	fs := &FileSet{
		Name:     block.Labels[0],
		Includes: []string{"**"},
	}

	var aDiags hcl.Diagnostics
	fs.Dir, aDiags = staticString(content.Attributes["dir"])
	diags = append(diags, aDiags...)
	if attr, ok := content.Attributes["includes"]; ok {
		fs.Includes, aDiags = staticStringList(attr)
		diags = append(diags, aDiags...)
	}
	if attr, ok := content.Attributes["excludes"]; ok {
		fs.Excludes, aDiags = staticStringList(attr)
		diags = append(diags, aDiags...)
	}
	if attr, ok := content.Attributes["templated"]; ok {
		fs.Templated, aDiags = staticBool(attr)
		diags = append(diags, aDiags...)
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return fs, nil
}

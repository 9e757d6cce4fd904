// Package loader reads pipeline and run-status files into core types.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/blockgraph/pkg/core"
)

// Sentinel errors callers branch on.
var (
	// ErrNoBlocks is returned for a pipeline file without blocks.
	ErrNoBlocks = errors.New("pipeline has no blocks")
	// ErrMissingUUID is returned for a block without a uuid.
	ErrMissingUUID = errors.New("block has no uuid")
	// ErrDuplicateUUID is returned when two blocks share a uuid.
	ErrDuplicateUUID = errors.New("duplicate block uuid")
)

// pipelineYAML mirrors the on-disk pipeline layout. Extensions nest their
// blocks one level deeper than the other block lists.
type pipelineYAML struct {
	UUID         string                   `yaml:"uuid"`
	Name         string                   `yaml:"name"`
	Type         core.PipelineType        `yaml:"type"`
	Blocks       []core.Block             `yaml:"blocks"`
	Callbacks    []core.Block             `yaml:"callbacks"`
	Conditionals []core.Block             `yaml:"conditionals"`
	Extensions   map[string]extensionYAML `yaml:"extensions"`
}

type extensionYAML struct {
	Blocks []core.Block `yaml:"blocks"`
}

// LoadPipeline reads and validates the pipeline file at path.
// Integration blocks without inline content get it from the block file next
// to the pipeline, when one exists.
func LoadPipeline(path string) (*core.Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline: %w", err)
	}

	p, err := ParsePipeline(data)
	if err != nil {
		return nil, &ParseError{File: path, Err: err}
	}

	if p.IsIntegration() {
		resolveContent(p, filepath.Dir(path))
	}

	return p, nil
}

// ParsePipeline decodes and validates pipeline YAML.
func ParsePipeline(data []byte) (*core.Pipeline, error) {
	var raw pipelineYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	p := &core.Pipeline{
		UUID:         raw.UUID,
		Name:         raw.Name,
		Type:         raw.Type,
		Blocks:       raw.Blocks,
		Callbacks:    raw.Callbacks,
		Conditionals: raw.Conditionals,
	}
	if p.Type == "" {
		p.Type = core.PipelineTypePython
	}
	if len(raw.Extensions) > 0 {
		p.Extensions = make(map[string][]core.Block, len(raw.Extensions))
		for name, ext := range raw.Extensions {
			p.Extensions[name] = ext.Blocks
		}
	}

	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the preconditions the layout engine relies on: at least one
// block, and a unique non-empty uuid on every block.
func Validate(p *core.Pipeline) error {
	if p == nil || len(p.Blocks) == 0 {
		return ErrNoBlocks
	}

	seen := make(map[string]bool, len(p.Blocks))
	for i, b := range p.Blocks {
		if strings.TrimSpace(b.UUID) == "" {
			return fmt.Errorf("blocks[%d]: %w", i, ErrMissingUUID)
		}
		if seen[b.UUID] {
			return fmt.Errorf("blocks[%d]: %w: %q", i, ErrDuplicateUUID, b.UUID)
		}
		seen[b.UUID] = true
	}

	for i, b := range p.Callbacks {
		if b.UUID == "" {
			return fmt.Errorf("callbacks[%d]: %w", i, ErrMissingUUID)
		}
	}
	for i, b := range p.Conditionals {
		if b.UUID == "" {
			return fmt.Errorf("conditionals[%d]: %w", i, ErrMissingUUID)
		}
	}
	for ext, blocks := range p.Extensions {
		for i, b := range blocks {
			if b.UUID == "" {
				return fmt.Errorf("extensions.%s[%d]: %w", ext, i, ErrMissingUUID)
			}
		}
	}

	return nil
}

// blockDirs maps integration block types to the directory holding their files.
var blockDirs = map[core.BlockType]string{
	core.BlockTypeDataLoader:   "data_loaders",
	core.BlockTypeTransformer:  "transformers",
	core.BlockTypeDataExporter: "data_exporters",
}

// ContentDirs returns the directories, relative to a pipeline file, that
// integration block content is read from.
func ContentDirs(pipelinePath string) []string {
	dir := filepath.Dir(pipelinePath)
	return []string{
		filepath.Join(dir, blockDirs[core.BlockTypeDataLoader]),
		filepath.Join(dir, blockDirs[core.BlockTypeTransformer]),
		filepath.Join(dir, blockDirs[core.BlockTypeDataExporter]),
	}
}

// resolveContent fills empty block content from <dir>/<type dir>/<uuid>.yaml.
// Missing files are not an error; the header then falls back to the uuid.
func resolveContent(p *core.Pipeline, dir string) {
	for i := range p.Blocks {
		b := &p.Blocks[i]
		if b.Content != "" {
			continue
		}
		sub, ok := blockDirs[b.Type]
		if !ok {
			continue
		}
		for _, ext := range []string{".yaml", ".yml"} {
			data, err := os.ReadFile(filepath.Join(dir, sub, b.UUID+ext))
			if err == nil {
				b.Content = string(data)
				break
			}
		}
	}
}

// ParseError reports a file that could not be loaded.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	}
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

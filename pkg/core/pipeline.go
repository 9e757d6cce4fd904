package core

// PipelineType affects how block display text is derived.
type PipelineType string

// Pipeline type constants.
const (
	PipelineTypePython      PipelineType = "python"
	PipelineTypeIntegration PipelineType = "integration"
	PipelineTypeStreaming   PipelineType = "streaming"
	PipelineTypeDatabricks  PipelineType = "databricks"
	PipelineTypePySpark     PipelineType = "pyspark"
)

// Pipeline is an ordered collection of blocks.
type Pipeline struct {
	UUID   string       `yaml:"uuid" json:"uuid"`
	Name   string       `yaml:"name,omitempty" json:"name,omitempty"`
	Type   PipelineType `yaml:"type" json:"type"`
	Blocks []Block      `yaml:"blocks" json:"blocks"`

	// Callbacks, Conditionals and Extensions attach to regular blocks through
	// their own UpstreamBlocks lists. They never appear as graph nodes.
	Callbacks    []Block `yaml:"callbacks,omitempty" json:"callbacks,omitempty"`
	Conditionals []Block `yaml:"conditionals,omitempty" json:"conditionals,omitempty"`
	// Extensions maps an extension name to its blocks.
	Extensions map[string][]Block `yaml:"-" json:"extensions,omitempty"`
}

// BlockByUUID returns the block with the given uuid.
// Block uuids are assumed unique; with duplicates the last one wins.
func (p *Pipeline) BlockByUUID(uuid string) (*Block, bool) {
	if p == nil {
		return nil, false
	}
	var found *Block
	for i := range p.Blocks {
		if p.Blocks[i].UUID == uuid {
			found = &p.Blocks[i]
		}
	}
	return found, found != nil
}

// IsIntegration reports whether display text comes from block content.
func (p *Pipeline) IsIntegration() bool {
	return p != nil && p.Type == PipelineTypeIntegration
}

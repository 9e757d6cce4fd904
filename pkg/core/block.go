package core

// BlockType is the kind of a pipeline block. It drives icon and color.
type BlockType string

// Block type constants.
const (
	BlockTypeDataLoader        BlockType = "data_loader"
	BlockTypeTransformer       BlockType = "transformer"
	BlockTypeDataExporter      BlockType = "data_exporter"
	BlockTypeSensor            BlockType = "sensor"
	BlockTypeChart             BlockType = "chart"
	BlockTypeCallback          BlockType = "callback"
	BlockTypeConditional       BlockType = "conditional"
	BlockTypeExtension         BlockType = "extension"
	BlockTypeDBT               BlockType = "dbt"
	BlockTypeCustom            BlockType = "custom"
	BlockTypeScratchpad        BlockType = "scratchpad"
	BlockTypeMarkdown          BlockType = "markdown"
	BlockTypeGlobalDataProduct BlockType = "global_data_product"
)

// BlockColor is an explicit accent color override for a block.
// Custom blocks carry one; for other types it is usually empty.
type BlockColor string

// Named block colors.
const (
	BlockColorBlue   BlockColor = "blue"
	BlockColorGrey   BlockColor = "grey"
	BlockColorPink   BlockColor = "pink"
	BlockColorPurple BlockColor = "purple"
	BlockColorTeal   BlockColor = "teal"
	BlockColorYellow BlockColor = "yellow"
)

// Block represents a single pipeline step.
type Block struct {
	// UUID is unique within a pipeline
	UUID string `yaml:"uuid" json:"uuid"`
	// Name is a human-readable name (optional)
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	// Type is the block kind
	Type BlockType `yaml:"type" json:"type"`
	// UpstreamBlocks are the uuids this block depends on, in declaration order.
	// Entries may reference blocks that do not exist.
	UpstreamBlocks []string `yaml:"upstream_blocks" json:"upstream_blocks"`
	// Color overrides the type-derived accent color
	Color BlockColor `yaml:"color,omitempty" json:"color,omitempty"`
	// Tags are short labels rendered under the node header
	Tags []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	// Content is the declarative body of the block (YAML for integration pipelines)
	Content string `yaml:"content,omitempty" json:"content,omitempty"`
	// Configuration holds type-specific settings (e.g. dbt file_path)
	Configuration map[string]any `yaml:"configuration,omitempty" json:"configuration,omitempty"`
	// Status is the last known execution status, supplied externally
	Status RunStatus `yaml:"status,omitempty" json:"status,omitempty"`
	// Runtime is the last known runtime in seconds, supplied externally
	Runtime *float64 `yaml:"runtime,omitempty" json:"runtime,omitempty"`
}

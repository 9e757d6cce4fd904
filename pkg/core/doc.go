// Package core defines the shared language of the blockgraph system.
//
// This package contains:
//   - Domain entities (Block, Pipeline, BlockStatus)
//   - Enumerations (BlockType, PipelineType, BlockColor, RunStatus)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core

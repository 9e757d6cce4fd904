package output

// DAGOutput is the JSON shape of the dag command.
type DAGOutput struct {
	Pipeline    string     `json:"pipeline"`
	Levels      []DAGLevel `json:"levels"`
	TotalBlocks int        `json:"total_blocks"`
	TotalEdges  int        `json:"total_edges"`
	// Cycle is a block path forming a cycle, if any
	Cycle   []string `json:"cycle,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// DAGLevel is one depth level.
type DAGLevel struct {
	Level  int       `json:"level"`
	Blocks []DAGNode `json:"blocks"`
}

// DAGNode is one block with its neighbours.
type DAGNode struct {
	UUID      string   `json:"uuid"`
	DependsOn []string `json:"depends_on"`
	UsedBy    []string `json:"used_by"`
}

package core

// RunStatus is the execution state of a block.
type RunStatus string

// Run status constants.
const (
	RunStatusInitial   RunStatus = "initial"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// IsValid reports whether s is a known status. Empty is not valid.
func (s RunStatus) IsValid() bool {
	switch s {
	case RunStatusInitial, RunStatusRunning, RunStatusCompleted, RunStatusFailed, RunStatusCancelled:
		return true
	}
	return false
}

// BlockStatus is the externally supplied run state of one block.
type BlockStatus struct {
	Status  RunStatus `yaml:"status" json:"status"`
	Runtime *float64  `yaml:"runtime,omitempty" json:"runtime,omitempty"`
}

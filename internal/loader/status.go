package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/blockgraph/pkg/core"
)

// Status maps block uuids to their run status.
type Status map[string]core.BlockStatus

// LoadStatus reads a status file. Files ending in .json are decoded as JSON,
// anything else as YAML.
func LoadStatus(path string) (Status, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read status: %w", err)
	}

	var status Status
	if strings.EqualFold(filepath.Ext(path), ".json") {
		status, err = ParseStatusJSON(data)
	} else {
		status, err = ParseStatusYAML(data)
	}
	if err != nil {
		return nil, &ParseError{File: path, Err: err}
	}
	return status, nil
}

// ParseStatusJSON decodes and validates a JSON status document.
func ParseStatusJSON(data []byte) (Status, error) {
	var status Status
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return status, validateStatus(status)
}

// ParseStatusYAML decodes and validates a YAML status document.
func ParseStatusYAML(data []byte) (Status, error) {
	var status Status
	if err := yaml.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return status, validateStatus(status)
}

func validateStatus(status Status) error {
	for uuid, s := range status {
		if !s.Status.IsValid() {
			return fmt.Errorf("block %q: invalid status %q", uuid, s.Status)
		}
		if s.Runtime != nil && *s.Runtime < 0 {
			return fmt.Errorf("block %q: negative runtime", uuid)
		}
	}
	return nil
}

// Queued returns the uuids whose status is initial, i.e. scheduled but not started.
func (s Status) Queued() []string {
	var ids []string
	for uuid, st := range s {
		if st.Status == core.RunStatusInitial {
			ids = append(ids, uuid)
		}
	}
	sort.Strings(ids)
	return ids
}

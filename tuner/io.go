package tuner

import (
	"encoding/json"
	"fmt"
	"os"

	"heron-engine/engine"
)

// SaveWeights writes the parameter set as indented JSON, the format
// DefaultWeights can be regenerated from.
func SaveWeights(path string, w *engine.Weights) error {
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// LoadWeights reads a parameter set saved by SaveWeights. Fields absent
// from the file keep their defaults, so partial sets are usable.
func LoadWeights(path string) (*engine.Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}
	w := engine.DefaultWeights()
	if err := json.Unmarshal(data, w); err != nil {
		return nil, fmt.Errorf("parse weights: %w", err)
	}
	return w, nil
}

// Package inference scores engineered feature vectors with a trained linear
// RUL model exported as a JSON artifact.
package inference

import (
	"encoding/json"
	"fmt"
	"os"
)

// Artifact is the serialized model: a standardizer fitted on the training
// features plus a linear head. Column order matches the canonical feature
// name list frozen by the feature engineer.
type Artifact struct {
	FeatureNames []string `json:"feature_names"`
	Scaler       Scaler   `json:"scaler"`
	Linear       Linear   `json:"linear"`
	TrainedAt    string   `json:"trained_at,omitempty"`
}

// Scaler holds per-column standardization parameters.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Linear is the regression head applied to standardized features.
type Linear struct {
	Intercept float64   `json:"intercept"`
	Coef      []float64 `json:"coef"`
}

// Validate checks internal width consistency and scaler sanity.
func (a *Artifact) Validate() error {
	n := len(a.FeatureNames)
	if n == 0 {
		return fmt.Errorf("artifact has no feature names")
	}
	if len(a.Scaler.Mean) != n || len(a.Scaler.Scale) != n || len(a.Linear.Coef) != n {
		return fmt.Errorf("artifact width mismatch: %d names, %d mean, %d scale, %d coef",
			n, len(a.Scaler.Mean), len(a.Scaler.Scale), len(a.Linear.Coef))
	}
	for i, s := range a.Scaler.Scale {
		if s == 0 {
			return fmt.Errorf("artifact scaler has zero scale at column %d (%s)", i, a.FeatureNames[i])
		}
	}
	return nil
}

// LoadArtifact reads and validates a model artifact from disk.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse model artifact %s: %w", path, err)
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model artifact %s: %w", path, err)
	}
	return &a, nil
}

// SaveArtifact writes the artifact as indented JSON, for the training export.
func SaveArtifact(path string, a *Artifact) error {
	if err := a.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encode model artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model artifact: %w", err)
	}
	return nil
}

package inference

import (
	"errors"
	"os"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"

	"github.com/hydrosense/phealth-backend/model"
)

// FallbackRUL is served when no model artifact is available. A neutral
// one-year estimate keeps the dashboard alive instead of failing reads.
const FallbackRUL = 365.0

// Service scores feature vectors against a loaded artifact. Safe for
// concurrent use after construction; the artifact is never swapped at
// runtime.
type Service struct {
	logger   *zap.SugaredLogger
	artifact *Artifact
}

// NewService loads the artifact at path, retrying transient read failures.
// A missing or unusable artifact is not fatal: the service starts in
// fallback mode and every prediction returns FallbackRUL.
func NewService(path string, logger *zap.SugaredLogger) *Service {
	s := &Service{logger: logger}

	op := func() error {
		a, err := LoadArtifact(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return backoff.Permanent(err)
			}
			return err
		}
		s.artifact = a
		return nil
	}

	if err := backoff.Retry(op, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)); err != nil {
		logger.Warnf("Model artifact unavailable, serving fallback RUL: %v", err)
		return s
	}

	logger.Infof("Loaded RUL model artifact %s (%d features)", path, len(s.artifact.FeatureNames))
	return s
}

// NewServiceFromArtifact wraps an already validated artifact.
func NewServiceFromArtifact(a *Artifact, logger *zap.SugaredLogger) *Service {
	return &Service{logger: logger, artifact: a}
}

// Ready reports whether a real model is loaded.
func (s *Service) Ready() bool { return s.artifact != nil }

// FeatureNames returns the model's expected column order, or nil in
// fallback mode.
func (s *Service) FeatureNames() []string {
	if s.artifact == nil {
		return nil
	}
	return s.artifact.FeatureNames
}

// Predict scores one feature vector. In fallback mode it returns
// FallbackRUL. A width mismatch between the vector and the model is a
// contract violation upstream; it returns the 0.0 sentinel and logs, rather
// than guessing an alignment. Predictions are floored at zero.
func (s *Service) Predict(fv model.FeatureVector) float64 {
	if s.artifact == nil {
		return FallbackRUL
	}
	if len(fv.Values) != len(s.artifact.Linear.Coef) {
		s.logger.Errorf("Feature width mismatch for %s day %d: got %d, model expects %d",
			fv.SegmentID, fv.Day, len(fv.Values), len(s.artifact.Linear.Coef))
		return 0.0
	}

	pred := s.artifact.Linear.Intercept
	for i, v := range fv.Values {
		standardized := (v - s.artifact.Scaler.Mean[i]) / s.artifact.Scaler.Scale[i]
		pred += standardized * s.artifact.Linear.Coef[i]
	}
	if pred < 0 {
		return 0
	}
	return pred
}

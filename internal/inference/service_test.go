package inference

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hydrosense/phealth-backend/model"
)

func testArtifact() *Artifact {
	return &Artifact{
		FeatureNames: []string{"a", "b", "c"},
		Scaler: Scaler{
			Mean:  []float64{1, 2, 3},
			Scale: []float64{1, 2, 1},
		},
		Linear: Linear{
			Intercept: 100,
			Coef:      []float64{10, -5, 2},
		},
	}
}

func TestPredictStandardizesThenAppliesLinearHead(t *testing.T) {
	s := NewServiceFromArtifact(testArtifact(), zap.NewNop().Sugar())

	fv := model.FeatureVector{SegmentID: "seg", Day: 1, Values: []float64{2, 6, 2}}
	// standardized: (2-1)/1=1, (6-2)/2=2, (2-3)/1=-1
	// 100 + 10*1 - 5*2 + 2*(-1) = 98
	assert.InDelta(t, 98.0, s.Predict(fv), 1e-9)
}

func TestPredictFloorsAtZero(t *testing.T) {
	a := testArtifact()
	a.Linear.Intercept = -1000
	s := NewServiceFromArtifact(a, zap.NewNop().Sugar())

	fv := model.FeatureVector{Values: []float64{1, 2, 3}}
	assert.Zero(t, s.Predict(fv))
}

func TestPredictWidthMismatchReturnsSentinel(t *testing.T) {
	s := NewServiceFromArtifact(testArtifact(), zap.NewNop().Sugar())

	fv := model.FeatureVector{SegmentID: "seg", Day: 5, Values: []float64{1, 2}}
	assert.Zero(t, s.Predict(fv))
}

func TestMissingArtifactFallsBack(t *testing.T) {
	s := NewService(filepath.Join(t.TempDir(), "nope.json"), zap.NewNop().Sugar())

	assert.False(t, s.Ready())
	assert.Nil(t, s.FeatureNames())
	assert.Equal(t, FallbackRUL, s.Predict(model.FeatureVector{Values: []float64{1}}))
}

func TestArtifactRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, SaveArtifact(path, testArtifact()))

	loaded, err := LoadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, testArtifact(), loaded)

	s := NewService(path, zap.NewNop().Sugar())
	assert.True(t, s.Ready())
	assert.Equal(t, []string{"a", "b", "c"}, s.FeatureNames())
}

func TestValidateRejectsBadArtifacts(t *testing.T) {
	t.Run("width mismatch", func(t *testing.T) {
		a := testArtifact()
		a.Linear.Coef = a.Linear.Coef[:2]
		assert.Error(t, a.Validate())
	})

	t.Run("zero scale", func(t *testing.T) {
		a := testArtifact()
		a.Scaler.Scale[1] = 0
		assert.Error(t, a.Validate())
	})

	t.Run("empty", func(t *testing.T) {
		assert.Error(t, (&Artifact{}).Validate())
	})
}

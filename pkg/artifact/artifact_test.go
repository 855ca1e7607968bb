package artifact

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Meesho/BharatMLStack/rental-pricer/internal/errors"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/schema"
)

func fittedArtifact(t *testing.T) *Artifact {
	t.Helper()

	f := buildVehicleFrame(trainingRows())
	enc := newSchemaEncoder()
	require.NoError(t, enc.Fit(f))

	encoded, err := enc.Transform(f)
	require.NoError(t, err)

	rf := NewRandomForestRegressor(WithNEstimators(8), WithRandomState(42))
	require.NoError(t, rf.Fit(encoded, []float64{120, 90, 60, 30}))

	return &Artifact{
		Version:   "1.0",
		CreatedAt: "2024-01-01T00:00:00Z",
		Encoder:   enc,
		Forest:    rf,
	}
}

func TestArtifactSaveLoadRoundTrip(t *testing.T) {
	art := fittedArtifact(t)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, art.Save(path))

	loaded, err := Load(path, true)
	require.NoError(t, err)

	f := buildVehicleFrame(trainingRows())
	want, err := art.Predict(f)
	require.NoError(t, err)
	got, err := loaded.Predict(f)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestArtifactLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"), false)
	require.Error(t, err)

	var mie *apperrors.ModelInvocationError
	assert.ErrorAs(t, err, &mie)
}

func TestArtifactLoadChecksumMismatch(t *testing.T) {
	art := fittedArtifact(t)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, art.Save(path))

	// Corrupt the payload after the checksum was written.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)/2] ^= 0xff
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = Load(path, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestArtifactLoadMissingChecksumFile(t *testing.T) {
	art := fittedArtifact(t)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, art.Save(path))
	require.NoError(t, os.Remove(path+ChecksumSuffix))

	_, err := Load(path, true)
	assert.Error(t, err)

	_, err = Load(path, false)
	assert.NoError(t, err)
}

func TestArtifactLoadCorruptJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt artifact")
}

func TestArtifactLoadRejectsSchemaDrift(t *testing.T) {
	art := fittedArtifact(t)
	art.Encoder.NumericColumns = []string{"mileage", "horsepower"}

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, art.Save(path))

	_, err := Load(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feature schema")
}

func TestArtifactLoadRejectsEmptyForest(t *testing.T) {
	art := fittedArtifact(t)
	art.Forest.Trees = nil

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, art.Save(path))

	_, err := Load(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no trees")
}

func TestArtifactValidateMissingStage(t *testing.T) {
	art := &Artifact{Version: "1.0"}
	err := art.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing encoder or forest")
}

func TestArtifactPredictEmptyFrame(t *testing.T) {
	art := fittedArtifact(t)
	out, err := art.Predict(buildVehicleFrame(nil))
	require.NoError(t, err)
	assert.Equal(t, []float64{}, out)
}

// A freshly loaded artifact serves its first requests concurrently; this
// must be race-free without any locking in the handlers.
func TestLoadedArtifactServesConcurrently(t *testing.T) {
	art := fittedArtifact(t)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, art.Save(path))

	loaded, err := Load(path, true)
	require.NoError(t, err)

	f := buildVehicleFrame(trainingRows())
	want, err := art.Predict(f)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				got, err := loaded.Predict(f)
				assert.NoError(t, err)
				assert.Equal(t, want, got)
				assert.True(t, loaded.Encoder.KnowsCategory(schema.ColumnFuel, "diesel"))
				assert.False(t, loaded.Encoder.KnowsCategory(schema.ColumnFuel, "hydrogen"))
			}
		}()
	}
	wg.Wait()
}

func TestArtifactPredictOrderMatchesRows(t *testing.T) {
	art := fittedArtifact(t)
	rows := trainingRows()

	forward, err := art.Predict(buildVehicleFrame(rows))
	require.NoError(t, err)

	reversed := []vehicleRow{rows[3], rows[2], rows[1], rows[0]}
	backward, err := art.Predict(buildVehicleFrame(reversed))
	require.NoError(t, err)

	require.Len(t, backward, len(forward))
	for i := range forward {
		assert.Equal(t, forward[i], backward[len(backward)-1-i])
	}
}

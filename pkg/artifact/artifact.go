package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	apperrors "github.com/Meesho/BharatMLStack/rental-pricer/internal/errors"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/frame"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/schema"
)

// Artifact is the serialized preprocessing+regression pipeline. It is
// loaded once at process start and never mutated afterwards, so handlers
// may share it across goroutines without locking.
type Artifact struct {
	Version   string                 `json:"version"`
	CreatedAt string                 `json:"created_at"`
	Encoder   *Encoder               `json:"encoder"`
	Forest    *RandomForestRegressor `json:"forest"`
}

// ChecksumSuffix is appended to the artifact path for the integrity file.
const ChecksumSuffix = ".sum"

// Load reads, verifies, and validates an artifact file. Any failure here
// is a ModelInvocationError: the artifact is unusable, not the request.
func Load(path string, checksumRequired bool) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &apperrors.ModelInvocationError{ErrorMsg: "cannot read artifact " + path, Cause: err}
	}

	if checksumRequired {
		if err := verifyChecksum(path, data); err != nil {
			return nil, err
		}
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, &apperrors.ModelInvocationError{ErrorMsg: "corrupt artifact " + path, Cause: err}
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	// Build the category index before serving starts; after this point
	// the artifact is shared read-only across handler goroutines.
	a.Encoder.ensureIndex()
	return &a, nil
}

// Save writes the artifact JSON and its checksum file.
func (a *Artifact) Save(path string) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	sum := strconv.FormatUint(xxhash.Sum64(data), 16)
	if err := os.WriteFile(path+ChecksumSuffix, []byte(sum+"\n"), 0o644); err != nil {
		return fmt.Errorf("write artifact checksum %s: %w", path+ChecksumSuffix, err)
	}
	return nil
}

// Predict scores a frame. Row order of predictions matches row order of
// the frame; an empty frame scores to an empty slice.
func (a *Artifact) Predict(f *frame.Frame) ([]float64, error) {
	if f.RowCount() == 0 {
		return []float64{}, nil
	}

	encoded, err := a.Encoder.Transform(f)
	if err != nil {
		return nil, &apperrors.ModelInvocationError{ErrorMsg: "encoding stage failed", Cause: err}
	}

	predictions, err := a.Forest.Predict(encoded)
	if err != nil {
		return nil, &apperrors.ModelInvocationError{ErrorMsg: "scoring stage failed", Cause: err}
	}
	return predictions, nil
}

// validate rejects artifacts whose stages disagree with each other or
// with the serving-side feature schema.
func (a *Artifact) validate() error {
	if a.Encoder == nil || a.Forest == nil {
		return &apperrors.ModelInvocationError{ErrorMsg: "artifact is missing encoder or forest stage"}
	}
	if err := a.Encoder.validate(); err != nil {
		return &apperrors.ModelInvocationError{ErrorMsg: "encoder stage is invalid", Cause: err}
	}
	if !schema.Equal(a.Encoder.NumericColumns, schema.NumericColumns()) ||
		!schema.Equal(a.Encoder.CategoricalColumns, schema.CategoricalColumns()) ||
		!schema.Equal(a.Encoder.BooleanColumns, schema.BooleanColumns()) {
		return &apperrors.ModelInvocationError{
			ErrorMsg: "artifact columns do not match the serving feature schema",
		}
	}
	if len(a.Forest.Trees) == 0 {
		return &apperrors.ModelInvocationError{ErrorMsg: "artifact forest has no trees"}
	}
	if width := a.Encoder.Width(); a.Forest.NumFeatures() > width {
		return &apperrors.ModelInvocationError{
			ErrorMsg: fmt.Sprintf("forest references feature %d but encoder produces %d columns",
				a.Forest.NumFeatures()-1, width),
		}
	}
	return nil
}

func verifyChecksum(path string, data []byte) error {
	sumBytes, err := os.ReadFile(path + ChecksumSuffix)
	if err != nil {
		return &apperrors.ModelInvocationError{ErrorMsg: "cannot read artifact checksum " + path + ChecksumSuffix, Cause: err}
	}
	expected := strings.TrimSpace(string(sumBytes))
	actual := strconv.FormatUint(xxhash.Sum64(data), 16)
	if expected != actual {
		return &apperrors.ModelInvocationError{
			ErrorMsg: fmt.Sprintf("artifact checksum mismatch for %s: expected %s, got %s", path, expected, actual),
		}
	}
	return nil
}

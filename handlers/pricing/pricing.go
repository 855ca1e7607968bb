package pricing

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"

	apperrors "github.com/Meesho/BharatMLStack/rental-pricer/internal/errors"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/artifact"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/configs"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/inmemorycache"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/logger"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/metrics"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/schema"
)

// PricingHandler serves price predictions from a model artifact loaded
// once at startup. The artifact is read-only shared state; handlers never
// mutate it, so concurrent requests need no locking.
type PricingHandler struct {
	artifact    *artifact.Artifact
	cache       inmemorycache.InMemoryCache
	cacheTTLSec int
}

var handler *PricingHandler

// InitPricingHandler loads the model artifact and wires the optional
// prediction cache. Panics if the artifact is unusable: a pricer that
// cannot score has no reason to accept traffic.
func InitPricingHandler(appConfigs *configs.AppConfigs) {
	art, err := artifact.Load(appConfigs.Configs.ModelArtifactPath, appConfigs.Configs.ModelChecksumRequired)
	if err != nil {
		logger.Panic("Failed to load model artifact", err)
	}

	var cache inmemorycache.InMemoryCache
	if appConfigs.Configs.PredictionCacheEnabled {
		inmemorycache.Init(appConfigs)
		cache = inmemorycache.Instance()
	}

	handler = &PricingHandler{
		artifact:    art,
		cache:       cache,
		cacheTTLSec: appConfigs.Configs.PredictionCacheTTLSec,
	}
	logger.Info(fmt.Sprintf("Pricing handler initialized with artifact %s (version %s)",
		appConfigs.Configs.ModelArtifactPath, art.Version))
}

// Instance returns the initialized handler.
func Instance() *PricingHandler {
	if handler == nil {
		logger.Panic("Pricing handler not initialized, call InitPricingHandler first", nil)
	}
	return handler
}

// NewHandler builds a handler around an already-loaded artifact.
func NewHandler(art *artifact.Artifact, cache inmemorycache.InMemoryCache, cacheTTLSec int) *PricingHandler {
	return &PricingHandler{artifact: art, cache: cache, cacheTTLSec: cacheTTLSec}
}

// Predict handles POST /predict: validate, assemble, score, respond.
// Validation errors never reach the scoring stage.
func (h *PricingHandler) Predict(c *gin.Context) {
	startTime := time.Now()
	metrics.Count("pricer.predict.request.total", 1, nil)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		writeError(c, &apperrors.BadRequestError{ErrorMsg: "failed to read request body: " + err.Error()})
		return
	}

	records, err := parsePredictionRequest(body)
	if err != nil {
		metrics.Count("pricer.predict.request.invalid", 1, nil)
		writeError(c, err)
		return
	}

	predictions, err := h.predictRecords(records)
	if err != nil {
		logger.Error("Predict: model invocation failed", err)
		metrics.Count("pricer.predict.request.failed", 1, nil)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, PredictionResponse{Prediction: predictions})

	metrics.Timing("pricer.predict.request.latency", time.Since(startTime), nil)
	metrics.Count("pricer.predict.request.batch.size", int64(len(records)), nil)
}

// predictRecords runs the cache-aware scoring path. An empty batch is a
// defined success with an empty prediction list.
func (h *PricingHandler) predictRecords(records []VehicleFeatures) ([]float64, error) {
	if len(records) == 0 {
		return []float64{}, nil
	}

	var canonical, cacheKey []byte
	if h.cache != nil {
		if canonical, _ = json.Marshal(records); canonical != nil {
			cacheKey = cacheKeyFor(canonical)
			if cached, err := h.cache.Get(cacheKey); err == nil {
				var entry cachedPrediction
				if err := json.Unmarshal(cached, &entry); err == nil &&
					bytes.Equal(entry.Canonical, canonical) && len(entry.Prediction) == len(records) {
					metrics.Count("pricer.predict.cache.hit", 1, nil)
					return entry.Prediction, nil
				}
			}
			metrics.Count("pricer.predict.cache.miss", 1, nil)
		}
	}

	h.countUnknownCategories(records)

	predictions, err := h.artifact.Predict(buildFrame(records))
	if err != nil {
		return nil, err
	}

	if h.cache != nil && cacheKey != nil {
		if encoded, err := json.Marshal(cachedPrediction{Canonical: canonical, Prediction: predictions}); err == nil {
			if h.cacheTTLSec > 0 {
				_ = h.cache.SetEx(cacheKey, encoded, h.cacheTTLSec)
			} else {
				_ = h.cache.Set(cacheKey, encoded)
			}
		}
	}
	return predictions, nil
}

// cachedPrediction pairs the predictions with the canonical batch they
// were computed from. The 64-bit key alone cannot rule out collisions
// between distinct batches, so a hit must also match the canonical bytes.
type cachedPrediction struct {
	Canonical  []byte    `json:"canonical"`
	Prediction []float64 `json:"prediction"`
}

// cacheKeyFor hashes the canonical form of the validated records. The
// pipeline is deterministic for a fixed artifact, so equal canonical
// inputs always map to equal predictions. The hash is only a lookup key;
// a colliding batch fails the canonical comparison and degrades to a miss.
func cacheKeyFor(canonical []byte) []byte {
	key := make([]byte, 8)
	binary.LittleEndian.PutUint64(key, xxhash.Sum64(canonical))
	return key
}

// countUnknownCategories publishes degraded-confidence telemetry. Unknown
// categories are not errors: they encode as an all-zero block, matching
// the training-time encoder.
func (h *PricingHandler) countUnknownCategories(records []VehicleFeatures) {
	for _, record := range records {
		values := map[string]string{
			schema.ColumnModelKey:   record.ModelKey,
			schema.ColumnFuel:       record.Fuel,
			schema.ColumnPaintColor: record.PaintColor,
			schema.ColumnCarType:    record.CarType,
		}
		for _, column := range schema.CategoricalColumns() {
			if !h.artifact.Encoder.KnowsCategory(column, values[column]) {
				metrics.Count("pricer.predict.unknown_category", 1, []string{"column:" + column})
			}
		}
	}
}

// writeError maps the error taxonomy to HTTP statuses: request-shape
// errors are 4xx and recoverable by the caller, invocation errors are 5xx.
func writeError(c *gin.Context, err error) {
	var missingField *apperrors.MissingFieldError
	var typeMismatch *apperrors.TypeMismatchError
	var badRequest *apperrors.BadRequestError

	switch {
	case errors.As(err, &missingField):
		record := missingField.Record
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
			Type:    "missing_field",
			Message: missingField.Error(),
			Record:  &record,
			Field:   missingField.Field,
		}})
	case errors.As(err, &typeMismatch):
		record := typeMismatch.Record
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
			Type:    "type_mismatch",
			Message: typeMismatch.Error(),
			Record:  &record,
			Field:   typeMismatch.Field,
		}})
	case errors.As(err, &badRequest):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
			Type:    "bad_request",
			Message: badRequest.Error(),
		}})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
			Type:    "model_invocation_error",
			Message: err.Error(),
		}})
	}
}

package pricing

import (
	"bytes"
	"encoding/json"

	apperrors "github.com/Meesho/BharatMLStack/rental-pricer/internal/errors"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/schema"
)

// rawPredictionRequest defers record decoding so each record can be
// checked field by field. Unknown top-level keys are ignored.
type rawPredictionRequest struct {
	Input *[]json.RawMessage `json:"input"`
}

var nullLiteral = []byte("null")

// parsePredictionRequest validates a request body against the feature
// schema. The first invalid record aborts the whole request; there is no
// partial batch processing.
func parsePredictionRequest(body []byte) ([]VehicleFeatures, error) {
	var raw rawPredictionRequest
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &apperrors.BadRequestError{ErrorMsg: "request body is not valid JSON: " + err.Error()}
	}
	if raw.Input == nil {
		return nil, &apperrors.BadRequestError{ErrorMsg: `request body must contain an "input" array`}
	}

	records := make([]VehicleFeatures, len(*raw.Input))
	for i, rawRecord := range *raw.Input {
		record, err := validateRecord(i, rawRecord)
		if err != nil {
			return nil, err
		}
		records[i] = record
	}
	return records, nil
}

// validateRecord enforces presence and primitive type of all thirteen
// fields. Extra fields in the record are silently ignored so clients can
// evolve ahead of the service.
func validateRecord(recordIdx int, rawRecord json.RawMessage) (VehicleFeatures, error) {
	var record VehicleFeatures

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rawRecord, &fields); err != nil {
		return record, &apperrors.BadRequestError{
			ErrorMsg: "input records must be JSON objects",
		}
	}

	for _, name := range schema.NumericColumns() {
		v, err := floatField(recordIdx, fields, name)
		if err != nil {
			return record, err
		}
		switch name {
		case schema.ColumnMileage:
			record.Mileage = v
		case schema.ColumnEnginePower:
			record.EnginePower = v
		}
	}

	for _, name := range schema.CategoricalColumns() {
		v, err := stringField(recordIdx, fields, name)
		if err != nil {
			return record, err
		}
		switch name {
		case schema.ColumnModelKey:
			record.ModelKey = v
		case schema.ColumnFuel:
			record.Fuel = v
		case schema.ColumnPaintColor:
			record.PaintColor = v
		case schema.ColumnCarType:
			record.CarType = v
		}
	}

	for _, name := range schema.BooleanColumns() {
		v, err := boolField(recordIdx, fields, name)
		if err != nil {
			return record, err
		}
		switch name {
		case schema.ColumnPrivateParkingAvailable:
			record.PrivateParkingAvailable = v
		case schema.ColumnHasGps:
			record.HasGps = v
		case schema.ColumnHasAirConditioning:
			record.HasAirConditioning = v
		case schema.ColumnAutomaticCar:
			record.AutomaticCar = v
		case schema.ColumnHasGetaroundConnect:
			record.HasGetaroundConnect = v
		case schema.ColumnHasSpeedRegulator:
			record.HasSpeedRegulator = v
		case schema.ColumnWinterTires:
			record.WinterTires = v
		}
	}

	return record, nil
}

func rawField(recordIdx int, fields map[string]json.RawMessage, name string) (json.RawMessage, error) {
	v, ok := fields[name]
	if !ok || bytes.Equal(bytes.TrimSpace(v), nullLiteral) {
		return nil, &apperrors.MissingFieldError{Record: recordIdx, Field: name}
	}
	return v, nil
}

func floatField(recordIdx int, fields map[string]json.RawMessage, name string) (float64, error) {
	raw, err := rawField(recordIdx, fields, name)
	if err != nil {
		return 0, err
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, &apperrors.TypeMismatchError{Record: recordIdx, Field: name, Expected: "number"}
	}
	return v, nil
}

func stringField(recordIdx int, fields map[string]json.RawMessage, name string) (string, error) {
	raw, err := rawField(recordIdx, fields, name)
	if err != nil {
		return "", err
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", &apperrors.TypeMismatchError{Record: recordIdx, Field: name, Expected: "string"}
	}
	return v, nil
}

func boolField(recordIdx int, fields map[string]json.RawMessage, name string) (bool, error) {
	raw, err := rawField(recordIdx, fields, name)
	if err != nil {
		return false, err
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, &apperrors.TypeMismatchError{Record: recordIdx, Field: name, Expected: "boolean"}
	}
	return v, nil
}

package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Meesho/BharatMLStack/rental-pricer/internal/errors"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/schema"
)

func validRecord() map[string]interface{} {
	return map[string]interface{}{
		"mileage":                   140411.0,
		"engine_power":              100.0,
		"model_key":                 "Citroën",
		"fuel":                      "diesel",
		"paint_color":               "black",
		"car_type":                  "convertible",
		"private_parking_available": true,
		"has_gps":                   true,
		"has_air_conditioning":      false,
		"automatic_car":             false,
		"has_getaround_connect":     true,
		"has_speed_regulator":       true,
		"winter_tires":              true,
	}
}

func requestBody(t *testing.T, records ...map[string]interface{}) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{"input": records})
	require.NoError(t, err)
	return body
}

func TestParseValidRequest(t *testing.T) {
	records, err := parsePredictionRequest(requestBody(t, validRecord()))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, 140411.0, records[0].Mileage)
	assert.Equal(t, 100.0, records[0].EnginePower)
	assert.Equal(t, "Citroën", records[0].ModelKey)
	assert.Equal(t, "diesel", records[0].Fuel)
	assert.Equal(t, "black", records[0].PaintColor)
	assert.Equal(t, "convertible", records[0].CarType)
	assert.True(t, records[0].PrivateParkingAvailable)
	assert.True(t, records[0].HasGps)
	assert.False(t, records[0].HasAirConditioning)
	assert.False(t, records[0].AutomaticCar)
	assert.True(t, records[0].HasGetaroundConnect)
	assert.True(t, records[0].HasSpeedRegulator)
	assert.True(t, records[0].WinterTires)
}

func TestParseEmptyInputIsValid(t *testing.T) {
	records, err := parsePredictionRequest([]byte(`{"input": []}`))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseEveryMissingFieldIsNamed(t *testing.T) {
	for _, field := range schema.AllColumns() {
		t.Run(field, func(t *testing.T) {
			record := validRecord()
			delete(record, field)

			_, err := parsePredictionRequest(requestBody(t, record))
			require.Error(t, err)

			var missing *apperrors.MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, field, missing.Field)
			assert.Equal(t, 0, missing.Record)
		})
	}
}

func TestParseNullFieldCountsAsMissing(t *testing.T) {
	record := validRecord()
	record["fuel"] = nil

	_, err := parsePredictionRequest(requestBody(t, record))
	require.Error(t, err)

	var missing *apperrors.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "fuel", missing.Field)
}

func TestParseTypeMismatches(t *testing.T) {
	cases := []struct {
		field    string
		value    interface{}
		expected string
	}{
		{"mileage", "fast", "number"},
		{"engine_power", true, "number"},
		{"model_key", 42, "string"},
		{"fuel", []string{"diesel"}, "string"},
		{"has_gps", "yes", "boolean"},
		{"winter_tires", 1, "boolean"},
	}
	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			record := validRecord()
			record[tc.field] = tc.value

			_, err := parsePredictionRequest(requestBody(t, record))
			require.Error(t, err)

			var mismatch *apperrors.TypeMismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, tc.field, mismatch.Field)
			assert.Equal(t, tc.expected, mismatch.Expected)
			assert.Equal(t, 0, mismatch.Record)
		})
	}
}

func TestParseErrorNamesTheFailingRecord(t *testing.T) {
	bad := validRecord()
	delete(bad, "car_type")

	_, err := parsePredictionRequest(requestBody(t, validRecord(), bad))
	require.Error(t, err)

	var missing *apperrors.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, 1, missing.Record)
	assert.Equal(t, "car_type", missing.Field)
}

func TestParseExtraFieldsAreIgnored(t *testing.T) {
	record := validRecord()
	record["owner_rating"] = 4.9
	record["color_hex"] = "#000000"

	records, err := parsePredictionRequest(requestBody(t, record))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "black", records[0].PaintColor)
}

func TestParseRejectsMalformedBodies(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", `{"input": [`},
		{"missing input key", `{"data": []}`},
		{"input not an array", `{"input": {"mileage": 1}}`},
		{"record not an object", `{"input": [42]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parsePredictionRequest([]byte(tc.body))
			require.Error(t, err)

			var badRequest *apperrors.BadRequestError
			assert.ErrorAs(t, err, &badRequest)
		})
	}
}

package schema

// Canonical vehicle feature schema. Training and serving both assemble
// frames against these column lists; order is part of the model contract
// and must not change between the two without retraining.

const (
	ColumnMileage                 = "mileage"
	ColumnEnginePower             = "engine_power"
	ColumnModelKey                = "model_key"
	ColumnFuel                    = "fuel"
	ColumnPaintColor              = "paint_color"
	ColumnCarType                 = "car_type"
	ColumnPrivateParkingAvailable = "private_parking_available"
	ColumnHasGps                  = "has_gps"
	ColumnHasAirConditioning      = "has_air_conditioning"
	ColumnAutomaticCar            = "automatic_car"
	ColumnHasGetaroundConnect     = "has_getaround_connect"
	ColumnHasSpeedRegulator       = "has_speed_regulator"
	ColumnWinterTires             = "winter_tires"

	// TargetColumn is the training label, never part of a serving request.
	TargetColumn = "rental_price_per_day"
)

// NumericColumns are standardized at encode time.
func NumericColumns() []string {
	return []string{ColumnMileage, ColumnEnginePower}
}

// CategoricalColumns are one-hot encoded against the training vocabulary.
func CategoricalColumns() []string {
	return []string{ColumnModelKey, ColumnFuel, ColumnPaintColor, ColumnCarType}
}

// BooleanColumns pass through as 0/1.
func BooleanColumns() []string {
	return []string{
		ColumnPrivateParkingAvailable,
		ColumnHasGps,
		ColumnHasAirConditioning,
		ColumnAutomaticCar,
		ColumnHasGetaroundConnect,
		ColumnHasSpeedRegulator,
		ColumnWinterTires,
	}
}

// AllColumns lists every required request field, numeric then categorical
// then boolean, matching the column order of the training pipeline.
func AllColumns() []string {
	all := NumericColumns()
	all = append(all, CategoricalColumns()...)
	all = append(all, BooleanColumns()...)
	return all
}

// FieldCount is the number of required fields in one vehicle record.
func FieldCount() int {
	return len(NumericColumns()) + len(CategoricalColumns()) + len(BooleanColumns())
}

// Equal reports whether two column lists match name-for-name in order.
func Equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

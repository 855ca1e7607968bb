package pricing

// VehicleFeatures is one validated vehicle description. All thirteen
// fields are required on the wire; unknown extra fields are ignored.
type VehicleFeatures struct {
	Mileage                 float64 `json:"mileage"`
	EnginePower             float64 `json:"engine_power"`
	ModelKey                string  `json:"model_key"`
	Fuel                    string  `json:"fuel"`
	PaintColor              string  `json:"paint_color"`
	CarType                 string  `json:"car_type"`
	PrivateParkingAvailable bool    `json:"private_parking_available"`
	HasGps                  bool    `json:"has_gps"`
	HasAirConditioning      bool    `json:"has_air_conditioning"`
	AutomaticCar            bool    `json:"automatic_car"`
	HasGetaroundConnect     bool    `json:"has_getaround_connect"`
	HasSpeedRegulator       bool    `json:"has_speed_regulator"`
	WinterTires             bool    `json:"winter_tires"`
}

// PredictionResponse carries one price estimate per input record, in
// input order.
type PredictionResponse struct {
	Prediction []float64 `json:"prediction"`
}

// ErrorDetail is the structured body returned on request failures.
type ErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Record  *int   `json:"record,omitempty"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

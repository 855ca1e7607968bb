package pricing

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const landingPageHTML = `<html lang="en">
    <head>
        <meta charset="UTF-8">
        <title>Rental Price Prediction API</title>
        <meta name="viewport" content="width=device-width, initial-scale=1">
        <style>
            body {
                font-family: 'Segoe UI', Arial, sans-serif;
                background: linear-gradient(135deg, #e8f0fe 0%, #f7fafd 100%);
                min-height: 100vh;
                display: flex;
                justify-content: center;
                align-items: center;
            }
            .container {
                background: white;
                padding: 36px 44px;
                border-radius: 18px;
                box-shadow: 0 12px 36px rgba(44, 62, 80, 0.10);
                text-align: center;
            }
            h1 { color: #2c3e50; font-size: 2.2rem; margin-bottom: 16px; }
            p  { color: #555; font-size: 1.13rem; margin-bottom: 16px; }
            .docs-link {
                display: inline-block;
                margin-top: 14px;
                padding: 12px 26px;
                background: linear-gradient(135deg, #2980b9 40%, #1abc9c 100%);
                color: #fff;
                border-radius: 8px;
                font-weight: 600;
                text-decoration: none;
            }
        </style>
    </head>
    <body>
        <div class="container">
            <h1>Welcome to the Rental Price Prediction API</h1>
            <p>
                Predict optimal car rental prices.<br>
                Send your car's features and get a daily price instantly.
            </p>
            <a class="docs-link" href="/docs">API Documentation</a>
        </div>
    </body>
</html>`

// exampleRecord doubles as a living contract fixture; tests post it
// verbatim against /predict.
var exampleRecord = VehicleFeatures{
	Mileage:                 7.0,
	EnginePower:             0.27,
	ModelKey:                "Citroën",
	Fuel:                    "diesel",
	PaintColor:              "black",
	CarType:                 "sedan",
	PrivateParkingAvailable: true,
	HasGps:                  true,
	HasAirConditioning:      false,
	AutomaticCar:            false,
	HasGetaroundConnect:     true,
	HasSpeedRegulator:       false,
	WinterTires:             true,
}

// Landing handles GET /: a static HTML welcome page.
func Landing(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(landingPageHTML))
}

// Docs handles GET /docs: a machine-readable description of the /predict
// contract with a literal example request/response pair.
func Docs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"title": "Rental Price Prediction API",
		"description": "Predict optimal rental prices for cars by sending their features in JSON format " +
			"to the /predict endpoint. Each car must be described as an object of features.",
		"endpoints": gin.H{
			"/predict": gin.H{
				"method":      "POST",
				"description": "Predicts car rental prices based on provided features.",
				"input": gin.H{
					"type": "object",
					"properties": gin.H{
						"input": gin.H{
							"type":        "array",
							"description": "A list of car objects, each containing all required features.",
							"items": gin.H{
								"type": "object",
								"properties": gin.H{
									"mileage":                   gin.H{"type": "number", "example": 7.0},
									"engine_power":              gin.H{"type": "number", "example": 0.27},
									"model_key":                 gin.H{"type": "string", "example": "Citroën"},
									"fuel":                      gin.H{"type": "string", "example": "diesel"},
									"paint_color":               gin.H{"type": "string", "example": "black"},
									"car_type":                  gin.H{"type": "string", "example": "sedan"},
									"private_parking_available": gin.H{"type": "boolean", "example": true},
									"has_gps":                   gin.H{"type": "boolean", "example": true},
									"has_air_conditioning":      gin.H{"type": "boolean", "example": false},
									"automatic_car":             gin.H{"type": "boolean", "example": false},
									"has_getaround_connect":     gin.H{"type": "boolean", "example": true},
									"has_speed_regulator":       gin.H{"type": "boolean", "example": false},
									"winter_tires":              gin.H{"type": "boolean", "example": true},
								},
								"required": []string{
									"mileage",
									"engine_power",
									"model_key",
									"fuel",
									"paint_color",
									"car_type",
									"private_parking_available",
									"has_gps",
									"has_air_conditioning",
									"automatic_car",
									"has_getaround_connect",
									"has_speed_regulator",
									"winter_tires",
								},
							},
						},
					},
					"required": []string{"input"},
					"example":  gin.H{"input": []VehicleFeatures{exampleRecord}},
				},
				"output": gin.H{
					"type": "object",
					"properties": gin.H{
						"prediction": gin.H{
							"type":        "array",
							"description": "Predicted prices in euros for each input car.",
							"example":     []float64{123.45},
						},
					},
					"required": []string{"prediction"},
					"example":  gin.H{"prediction": []float64{123.45}},
				},
			},
		},
	})
}

package pricing

import (
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/frame"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/schema"
)

// buildFrame converts validated records into the columnar shape the
// artifact expects: same column names, order, and types as training.
// Row i of the frame is record i of the request. Pure transformation.
func buildFrame(records []VehicleFeatures) *frame.Frame {
	f := &frame.Frame{}
	f.InitFrame(len(records),
		frame.NewColumnIndexMap(schema.NumericColumns()),
		frame.NewColumnIndexMap(schema.CategoricalColumns()),
		frame.NewColumnIndexMap(schema.BooleanColumns()),
	)

	for i, record := range records {
		f.SetFloat(i, schema.ColumnMileage, record.Mileage)
		f.SetFloat(i, schema.ColumnEnginePower, record.EnginePower)

		f.SetString(i, schema.ColumnModelKey, record.ModelKey)
		f.SetString(i, schema.ColumnFuel, record.Fuel)
		f.SetString(i, schema.ColumnPaintColor, record.PaintColor)
		f.SetString(i, schema.ColumnCarType, record.CarType)

		f.SetBool(i, schema.ColumnPrivateParkingAvailable, record.PrivateParkingAvailable)
		f.SetBool(i, schema.ColumnHasGps, record.HasGps)
		f.SetBool(i, schema.ColumnHasAirConditioning, record.HasAirConditioning)
		f.SetBool(i, schema.ColumnAutomaticCar, record.AutomaticCar)
		f.SetBool(i, schema.ColumnHasGetaroundConnect, record.HasGetaroundConnect)
		f.SetBool(i, schema.ColumnHasSpeedRegulator, record.HasSpeedRegulator)
		f.SetBool(i, schema.ColumnWinterTires, record.WinterTires)
	}
	return f
}

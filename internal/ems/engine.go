// Package ems defines the standardized engine telemetry model shared by all
// supported engine monitor devices, plus the parser contract a device
// implementation must satisfy.
package ems

import "fmt"

// CylinderReading is a temperature reading for a single cylinder (EGT or CHT).
// Cylinder numbers are 1-based. Values are degrees Fahrenheit.
type CylinderReading struct {
	Cylinder int     `json:"cylinder"`
	Value    float64 `json:"value"`
}

// NewCylinderReading validates and constructs a CylinderReading.
func NewCylinderReading(cylinder int, value float64) (CylinderReading, error) {
	if cylinder < 1 {
		return CylinderReading{}, fmt.Errorf("cylinder number must be >= 1, got %d", cylinder)
	}
	return CylinderReading{Cylinder: cylinder, Value: value}, nil
}

// CylinderReadings is an ordered collection of per-cylinder temperatures.
type CylinderReadings []CylinderReading

// Hottest returns the reading with the highest temperature. Ties resolve to
// the first reading encountered. The second return value is false when the
// collection is empty.
func (c CylinderReadings) Hottest() (CylinderReading, bool) {
	if len(c) == 0 {
		return CylinderReading{}, false
	}
	hottest := c[0]
	for _, r := range c[1:] {
		if r.Value > hottest.Value {
			hottest = r
		}
	}
	return hottest, true
}

// Coolest returns the reading with the lowest temperature. Ties resolve to
// the first reading encountered.
func (c CylinderReadings) Coolest() (CylinderReading, bool) {
	if len(c) == 0 {
		return CylinderReading{}, false
	}
	coolest := c[0]
	for _, r := range c[1:] {
		if r.Value < coolest.Value {
			coolest = r
		}
	}
	return coolest, true
}

// Spread returns the temperature difference between the hottest and coolest
// cylinders. The second return value is false when the collection is empty.
func (c CylinderReadings) Spread() (float64, bool) {
	hottest, ok := c.Hottest()
	if !ok {
		return 0, false
	}
	coolest, _ := c.Coolest()
	return hottest.Value - coolest.Value, true
}

// EngineData is the standardized sample format for all EMS types.
//
// Temperatures are degrees Fahrenheit, pressures PSI, manifold pressure
// inches of mercury, electrical values Volts and Amps, and g-force a
// multiplier. Nil pointer fields mean the device did not report that value;
// zero and negative values are valid readings where physically meaningful.
type EngineData struct {
	RPM              *float64 `json:"rpm,omitempty"`
	ManifoldPressure *float64 `json:"manifold_pressure,omitempty"`

	EGTs CylinderReadings `json:"egts,omitempty"`
	CHTs CylinderReadings `json:"chts,omitempty"`

	OilPressure    *float64 `json:"oil_pressure,omitempty"`
	OilTemperature *float64 `json:"oil_temperature,omitempty"`

	FuelPressure *float64 `json:"fuel_pressure,omitempty"`

	Volts *float64 `json:"volts,omitempty"`
	Amps  *float64 `json:"amps,omitempty"`

	GForce *float64 `json:"g_force,omitempty"`
}

// Empty reports whether the sample carries no readings at all.
func (d EngineData) Empty() bool {
	return d.RPM == nil && d.ManifoldPressure == nil &&
		len(d.EGTs) == 0 && len(d.CHTs) == 0 &&
		d.OilPressure == nil && d.OilTemperature == nil &&
		d.FuelPressure == nil && d.Volts == nil && d.Amps == nil &&
		d.GForce == nil
}

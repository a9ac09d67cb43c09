// Package units provides shared constants and validation for temperature units
package units

// Unit constants
const (
	Fahrenheit = "f"
	Celsius    = "c"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Fahrenheit, Celsius}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "f, c"
}

// ConvertTemperature converts a temperature from degrees Fahrenheit to the
// target units. The database stores all temperatures in Fahrenheit.
func ConvertTemperature(tempF float64, targetUnits string) float64 {
	switch targetUnits {
	case Celsius:
		return (tempF - 32) * 5 / 9
	case Fahrenheit:
		return tempF // no conversion needed
	default:
		return tempF // default to Fahrenheit if unknown unit
	}
}

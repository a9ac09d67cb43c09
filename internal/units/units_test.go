package units

import (
	"math"
	"testing"
)

func TestIsValid(t *testing.T) {
	if !IsValid(Fahrenheit) {
		t.Error("f should be valid")
	}
	if !IsValid(Celsius) {
		t.Error("c should be valid")
	}
	for _, u := range []string{"", "k", "F", "celsius"} {
		if IsValid(u) {
			t.Errorf("%q should not be valid", u)
		}
	}
}

func TestConvertTemperature(t *testing.T) {
	tests := []struct {
		tempF  float64
		target string
		want   float64
	}{
		{212, Celsius, 100},
		{32, Celsius, 0},
		{-40, Celsius, -40},
		{1300, Fahrenheit, 1300},
		{1300, "unknown", 1300},
	}

	for _, tt := range tests {
		got := ConvertTemperature(tt.tempF, tt.target)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ConvertTemperature(%v, %q) = %v, want %v", tt.tempF, tt.target, got, tt.want)
		}
	}
}

func TestGetValidUnitsString(t *testing.T) {
	if GetValidUnitsString() != "f, c" {
		t.Errorf("unexpected valid units string: %q", GetValidUnitsString())
	}
}

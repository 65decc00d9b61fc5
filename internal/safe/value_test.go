package safe

import (
	"math"
	"testing"
)

func TestInt64ToUint64(t *testing.T) {
	tests := []struct {
		name            string
		input           int64
		expectedValue   uint64
		expectedClamped bool
	}{
		{name: "zero value", input: 0, expectedValue: 0, expectedClamped: false},
		{name: "positive value", input: 42, expectedValue: 42, expectedClamped: false},
		{name: "max int64", input: math.MaxInt64, expectedValue: math.MaxInt64, expectedClamped: false},
		{name: "negative value clamps to zero", input: -7, expectedValue: 0, expectedClamped: true},
		{name: "min int64 clamps to zero", input: math.MinInt64, expectedValue: 0, expectedClamped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, clamped := Int64ToUint64(tt.input)
			if value != tt.expectedValue {
				t.Errorf("Int64ToUint64(%d) value = %d, expected %d", tt.input, value, tt.expectedValue)
			}
			if clamped != tt.expectedClamped {
				t.Errorf("Int64ToUint64(%d) clamped = %v, expected %v", tt.input, clamped, tt.expectedClamped)
			}
		})
	}
}

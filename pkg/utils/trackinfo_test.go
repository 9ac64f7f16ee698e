package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTrackLengthMeters(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOk bool
	}{
		{name: "kilometers", input: "4.3 km", want: 4300, wantOk: true},
		{name: "kilometersNoSpace", input: "2km", want: 2000, wantOk: true},
		{name: "miles", input: "2.1 mi", want: 2.1 * 1.60934 * 1000, wantOk: true},
		{name: "bareNumberIsKm", input: "3.4", want: 3400, wantOk: true},
		{name: "upperCase", input: "4.3 KM", want: 4300, wantOk: true},
		{name: "padded", input: "  5.0 km  ", want: 5000, wantOk: true},
		{name: "empty", input: "", wantOk: false},
		{name: "garbage", input: "unknown", wantOk: false},
		{name: "unitOnly", input: "km", wantOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTrackLengthMeters(tt.input)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

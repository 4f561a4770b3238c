package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cable-inspector/internal/domain/entity"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		in   []entity.Measurement
		want entity.MeasurementSummary
	}{
		{name: "empty", in: nil, want: entity.MeasurementSummary{}},
		{
			name: "single",
			in:   []entity.Measurement{entity.NewMeasurement(10, 5, 25)},
			want: entity.MeasurementSummary{Count: 1, Mean: 20, Min: 20, Max: 20},
		},
		{
			name: "three rows",
			in: []entity.Measurement{
				entity.NewMeasurement(50, 0, 10),
				entity.NewMeasurement(100, 0, 20),
				entity.NewMeasurement(150, 0, 30),
			},
			want: entity.MeasurementSummary{Count: 3, Mean: 20, StdDev: 10, Min: 10, Max: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.in)
			require.Equal(t, tt.want.Count, got.Count)
			require.InDelta(t, tt.want.Mean, got.Mean, 1e-9)
			require.InDelta(t, tt.want.StdDev, got.StdDev, 1e-9)
			require.Equal(t, tt.want.Min, got.Min)
			require.Equal(t, tt.want.Max, got.Max)
		})
	}
}

package app

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"cable-inspector/internal/domain/entity"
)

// Summarize считает сводную статистику по ширинам кабеля.
// Для одного измерения отклонение равно нулю.
func Summarize(ms []entity.Measurement) entity.MeasurementSummary {
	if len(ms) == 0 {
		return entity.MeasurementSummary{}
	}

	widths := make([]float64, len(ms))
	for i, m := range ms {
		widths[i] = float64(m.Width)
	}

	mean, std := stat.MeanStdDev(widths, nil)
	if len(widths) < 2 || math.IsNaN(std) {
		std = 0
	}

	return entity.MeasurementSummary{
		Count:  len(ms),
		Mean:   mean,
		StdDev: std,
		Min:    int(floats.Min(widths)),
		Max:    int(floats.Max(widths)),
	}
}

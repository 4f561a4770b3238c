//go:build gocv
// +build gocv

package vision

import (
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"cable-inspector/internal/domain/entity"
	"cable-inspector/internal/logger"
)

// measureDiameter строит маску оболочки и измеряет ширину на трёх строках.
// Возвращает размеченную копию src; src не изменяется.
func measureDiameter(src gocv.Mat, p entity.Params) (gocv.Mat, []entity.Measurement) {
	out := src.Clone()

	gray := gocv.NewMat()
	defer gray.Close()
	toGray(src, &gray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	blur(gray, &blurred, p.BlurKernel)

	// Маска подобрана под освещённый кабель на светлой поверхности.
	mask := gocv.NewMat()
	defer mask.Close()
	threshBin(blurred, &mask, p.MeasureThreshLow, 255)

	pix := mask.ToBytes()
	cols := mask.Cols()

	rows := entity.MeasurementRows(mask.Rows())
	measurements := make([]entity.Measurement, 0, len(rows))
	for _, y := range rows {
		xLeft, xRight, ok := scanRow(pix[y*cols : (y+1)*cols])
		if !ok {
			logger.WithField("row", y).Debug("No cable pixels on measurement row, skipping")
			continue
		}

		m := entity.NewMeasurement(y, xLeft, xRight)
		measurements = append(measurements, m)
		drawMeasurement(&out, m)
	}

	logger.WithFields(logrus.Fields{
		"rows":         mask.Rows(),
		"cols":         cols,
		"measurements": len(measurements),
	}).Debug("Diameter measured")

	return out, measurements
}

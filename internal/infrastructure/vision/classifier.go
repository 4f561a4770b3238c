//go:build gocv
// +build gocv

package vision

import (
	"image"

	"gocv.io/x/gocv"

	"cable-inspector/internal/domain/entity"
)

// classifyDefect разворачивает область под эллипсом в прямой патч w×h,
// суммирует яркость по столбцам и применяет правила классификации.
func classifyDefect(e entity.OrientedRect, src gocv.Mat, p entity.Params) (entity.DefectClass, int) {
	w, h := int(e.Width), int(e.Height)
	if w <= 0 || h <= 0 {
		return p.Classify(0, e.Width, e.Height), 0
	}

	fw, fh := e.Width, e.Height
	dstQuad := [4]entity.Point2f{
		{X: 0, Y: fh - 1},
		{X: 0, Y: 0},
		{X: fw - 1, Y: 0},
		{X: fw - 1, Y: fh - 1},
	}

	warped := gocv.NewMat()
	defer warped.Close()
	warpTo(src, &warped, e.Corners(), dstQuad, image.Pt(w, h))

	warpedGray := gocv.NewMat()
	defer warpedGray.Close()
	toGray(warped, &warpedGray)

	sums := columnSums(warpedGray.ToBytes(), warpedGray.Rows(), warpedGray.Cols())
	avg := averageIntensity(sums, w)

	return p.Classify(avg, e.Width, e.Height), avg
}

//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"cable-inspector/internal/domain/entity"
)

// toGray переводит BGR-изображение в оттенки серого.
func toGray(src gocv.Mat, dst *gocv.Mat) {
	gocv.CvtColor(src, dst, gocv.ColorBGRToGray)
}

// blur применяет гауссово размытие квадратным ядром k×k, σ выводится из k.
func blur(src gocv.Mat, dst *gocv.Mat, k int) {
	gocv.GaussianBlur(src, dst, image.Pt(k, k), 0, 0, gocv.BorderDefault)
}

// threshBin: hi, если пиксель > lo, иначе 0.
func threshBin(src gocv.Mat, dst *gocv.Mat, lo, hi int) {
	gocv.Threshold(src, dst, float32(lo), float32(hi), gocv.ThresholdBinary)
}

func canny(src gocv.Mat, dst *gocv.Mat, lo, hi int) {
	gocv.Canny(src, dst, float32(lo), float32(hi))
}

// morphKernel создаёт прямоугольный структурный элемент size×size.
func morphKernel(size int) gocv.Mat {
	return gocv.GetStructuringElement(gocv.MorphRect, image.Pt(size, size))
}

func morphDilate(src gocv.Mat, dst *gocv.Mat, kernel gocv.Mat) {
	gocv.Dilate(src, dst, kernel)
}

func morphErode(src gocv.Mat, dst *gocv.Mat, kernel gocv.Mat) {
	gocv.Erode(src, dst, kernel)
}

// approxPoly упрощает замкнутый контур алгоритмом Douglas-Peucker.
// Результат нужно закрыть.
func approxPoly(contour gocv.PointVector, eps float64) gocv.PointVector {
	return gocv.ApproxPolyDP(contour, eps, true)
}

func boundingRect(points gocv.PointVector) entity.AxisRect {
	r := gocv.BoundingRect(points)
	return entity.AxisRect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// fitEllipse вписывает эллипс в контур; контур должен содержать не меньше 5 точек.
// gocv округляет центр и размеры до целых, поэтому отношение сторон считается по округлённым w и h.
func fitEllipse(contour gocv.PointVector) entity.OrientedRect {
	rr := gocv.FitEllipse(contour)
	return entity.OrientedRect{
		Center: entity.Point2f{X: float64(rr.Center.X), Y: float64(rr.Center.Y)},
		Width:  float64(rr.Width),
		Height: float64(rr.Height),
		Angle:  rr.Angle,
	}
}

// warpTo переносит четырёхугольник srcQuad источника в dstQuad изображения size.
func warpTo(src gocv.Mat, dst *gocv.Mat, srcQuad, dstQuad [4]entity.Point2f, size image.Point) {
	sv := gocv.NewPoint2fVectorFromPoints(toPoint2f(srcQuad))
	defer sv.Close()
	dv := gocv.NewPoint2fVectorFromPoints(toPoint2f(dstQuad))
	defer dv.Close()

	m := gocv.GetPerspectiveTransform2f(sv, dv)
	defer m.Close()

	gocv.WarpPerspective(src, dst, m, size)
}

func toPoint2f(quad [4]entity.Point2f) []gocv.Point2f {
	pts := make([]gocv.Point2f, len(quad))
	for i, p := range quad {
		pts[i] = gocv.Point2f{X: float32(p.X), Y: float32(p.Y)}
	}
	return pts
}

// matFromRaster копирует растр в новый gocv.Mat. Исходный растр не изменяется.
func matFromRaster(r entity.Raster) (gocv.Mat, error) {
	if r.Empty() {
		return gocv.NewMat(), errors.New("empty raster")
	}

	var mt gocv.MatType
	switch r.Channels {
	case 1:
		mt = gocv.MatTypeCV8UC1
	case 3:
		mt = gocv.MatTypeCV8UC3
	default:
		return gocv.NewMat(), fmt.Errorf("unsupported channel count %d", r.Channels)
	}

	wrapped, err := gocv.NewMatFromBytes(r.Rows, r.Cols, mt, r.Pix[:r.Rows*r.Stride()])
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("wrap raster: %w", err)
	}
	defer wrapped.Close()

	return wrapped.Clone(), nil
}

// rasterFromMat копирует пиксели Mat в растр.
func rasterFromMat(m gocv.Mat) entity.Raster {
	return entity.Raster{
		Rows:     m.Rows(),
		Cols:     m.Cols(),
		Channels: m.Channels(),
		Pix:      m.ToBytes(),
	}
}

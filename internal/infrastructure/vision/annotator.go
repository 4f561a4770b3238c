//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"cable-inspector/internal/domain/entity"
)

const (
	labelScale     = 0.5
	ellipseStroke  = 2
	lineStroke     = 1
	labelOffsetX   = 60
	diameterOffset = 25
)

// overlayColor: красный, в gocv цвет задаётся как RGBA.
var overlayColor = color.RGBA{R: 255, A: 255}

func drawLine(img *gocv.Mat, from, to image.Point) {
	gocv.Line(img, from, to, overlayColor, lineStroke)
}

// drawEllipse рисует эллипс, вписанный в повёрнутый прямоугольник.
func drawEllipse(img *gocv.Mat, e entity.OrientedRect) {
	center := image.Pt(int(e.Center.X), int(e.Center.Y))
	axes := image.Pt(int(e.Width/2), int(e.Height/2))
	gocv.Ellipse(img, center, axes, e.Angle, 0, 360, overlayColor, ellipseStroke)
}

func drawText(img *gocv.Mat, text string, org image.Point) {
	gocv.PutText(img, text, org, gocv.FontHersheyDuplex, labelScale, overlayColor, 1)
}

// drawMeasurement рисует засечки наружу от краёв и подпись с шириной.
func drawMeasurement(img *gocv.Mat, m entity.Measurement) {
	drawLine(img, image.Pt(m.XLeft, m.Y), image.Pt(m.XLeft-tickLength, m.Y))
	drawLine(img, image.Pt(m.XRight, m.Y), image.Pt(m.XRight+tickLength, m.Y))
	drawText(img, fmt.Sprintf("Diameter: %d", m.Width), image.Pt(m.XRight+diameterOffset, m.Y))
}

// drawDefect обводит дефект эллипсом и подписывает класс справа от центра.
func drawDefect(img *gocv.Mat, d entity.DefectRegion) {
	drawEllipse(img, d.Ellipse)
	org := image.Pt(int(d.Ellipse.Center.X)+labelOffsetX, int(d.Ellipse.Center.Y))
	drawText(img, d.Class.Label(), org)
}

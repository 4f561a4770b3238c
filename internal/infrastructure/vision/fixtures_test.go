//go:build gocv
// +build gocv

package vision

import (
	"math"

	"cable-inspector/internal/domain/entity"
)

// uniform создаёт серое цветное изображение одной яркости.
func uniform(rows, cols int, v byte) entity.Raster {
	r := entity.NewRaster(rows, cols, 3)
	for i := range r.Pix {
		r.Pix[i] = v
	}
	return r
}

// fillRect закрашивает столбцы [x0,x1) и строки [y0,y1).
func fillRect(r entity.Raster, x0, y0, x1, y1 int, v byte) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r.Set(y, x, v, v, v)
		}
	}
}

func fillCircle(r entity.Raster, cx, cy, radius int, v byte) {
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				r.Set(y, x, v, v, v)
			}
		}
	}
}

// fillRotatedRect закрашивает прямоугольник length×width, повёрнутый на angle градусов.
func fillRotatedRect(r entity.Raster, cx, cy, length, width, angle float64, v byte) {
	rad := angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	reach := int(math.Ceil(math.Hypot(length, width)/2)) + 1
	for y := int(cy) - reach; y <= int(cy)+reach; y++ {
		for x := int(cx) - reach; x <= int(cx)+reach; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			u := dx*cos + dy*sin
			w := -dx*sin + dy*cos
			if math.Abs(u) <= length/2 && math.Abs(w) <= width/2 {
				r.Set(y, x, v, v, v)
			}
		}
	}
}

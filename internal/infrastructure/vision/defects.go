//go:build gocv
// +build gocv

package vision

import (
	"image"
	"image/color"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"cable-inspector/internal/domain/entity"
	"cable-inspector/internal/logger"
)

var groupFill = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// findDefects ищет дефекты в два прохода и возвращает размеченную копию src.
//
// Первый проход: края Canny, замыкание (dilate, затем erode) и рамки всех контуров,
// закрашенные на общем чёрном холсте. Второй проход: внешние контуры холста,
// так что пересекающиеся рамки одного дефекта сливаются в один регион.
func findDefects(src gocv.Mat, p entity.Params) (gocv.Mat, []entity.DefectRegion) {
	out := src.Clone()

	groupImg := paintFragmentBoxes(src, p)
	defer groupImg.Close()

	groupMask := clusterMask(groupImg, p)
	defer groupMask.Close()

	groups := gocv.FindContours(groupMask, gocv.RetrievalExternal, gocv.ChainApproxNone)
	defer groups.Close()

	regions := make([]entity.DefectRegion, 0, groups.Size())
	for i := 0; i < groups.Size(); i++ {
		c := groups.At(i)
		if c.Size() < minEllipsePoints {
			continue
		}

		poly := approxPoly(c, p.GroupPolyEps)
		bounds := boundingRect(poly)
		poly.Close()
		if bounds.Area() >= p.AreaFilter {
			logger.WithField("area", bounds.Area()).Debug("Defect cluster exceeds area filter, skipping")
			continue
		}

		ellipse := fitEllipse(c)
		class, avg := classifyDefect(ellipse, src, p)

		region := entity.DefectRegion{
			Ellipse:      ellipse,
			Bounds:       bounds,
			Class:        class,
			AvgIntensity: avg,
			Ratio:        ellipse.AspectRatio(),
		}
		regions = append(regions, region)
		drawDefect(&out, region)

		logger.WithFields(logrus.Fields{
			"class":         class.String(),
			"center_x":      ellipse.Center.X,
			"center_y":      ellipse.Center.Y,
			"avg_intensity": avg,
			"ratio":         region.Ratio,
		}).Debug("Defect classified")
	}

	return out, regions
}

// paintFragmentBoxes выполняет первый проход и возвращает холст с закрашенными рамками.
func paintFragmentBoxes(src gocv.Mat, p entity.Params) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()
	toGray(src, &gray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	blur(gray, &blurred, p.BlurKernel)

	edges := gocv.NewMat()
	defer edges.Close()
	canny(blurred, &edges, p.CannyLow, p.CannyHigh)

	kernel := morphKernel(p.MorphKernel)
	defer kernel.Close()

	dilated := gocv.NewMat()
	defer dilated.Close()
	morphDilate(edges, &dilated, kernel)

	accent := gocv.NewMat()
	defer accent.Close()
	morphErode(dilated, &accent, kernel)

	contours := gocv.FindContours(accent, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer contours.Close()

	groupImg := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), src.Rows(), src.Cols(), gocv.MatTypeCV8UC3)
	painted := 0
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		poly := approxPoly(c, p.PolyEpsFactor*gocv.ArcLength(c, true))
		r := boundingRect(poly)
		poly.Close()

		if r.Area() >= p.AreaFilter {
			continue
		}
		fillBox(&groupImg, r)
		painted++
	}

	logger.WithFields(logrus.Fields{
		"contours": contours.Size(),
		"painted":  painted,
	}).Debug("Edge fragments painted")

	return groupImg
}

// fillBox закрашивает рамку вместе с правой и нижней границей:
// gocv рисует прямоугольник до угла (x+w, y+h) включительно.
func fillBox(img *gocv.Mat, r entity.AxisRect) {
	box := image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
	gocv.RectangleWithParams(img, box, groupFill, -1, gocv.Line8, 0)
}

// clusterMask размывает холст с рамками и бинаризует его порогом второго прохода.
// Результат нужно закрыть.
func clusterMask(groupImg gocv.Mat, p entity.Params) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()
	toGray(groupImg, &gray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	blur(gray, &blurred, p.BlurKernel)

	mask := gocv.NewMat()
	threshBin(blurred, &mask, p.GroupThreshLow, 255)
	return mask
}

package entity

import "math"

// DefectClass — тип дефекта оболочки.
type DefectClass int

const (
	DefectPinhole DefectClass = iota // прокол
	DefectCut                        // порез
	DefectScratch                    // царапина
)

// DefectClasses перечисляет все классы в порядке их кодов.
var DefectClasses = []DefectClass{DefectPinhole, DefectCut, DefectScratch}

func (c DefectClass) String() string {
	switch c {
	case DefectPinhole:
		return "pinhole"
	case DefectCut:
		return "cut"
	case DefectScratch:
		return "scratch"
	default:
		return "unknown"
	}
}

// Label возвращает подпись, которая рисуется рядом с дефектом.
func (c DefectClass) Label() string {
	switch c {
	case DefectPinhole:
		return "Defect: Pin Hole"
	case DefectCut:
		return "Defect: Cut"
	case DefectScratch:
		return "Defect: Scratch"
	default:
		return "Defect"
	}
}

// Valid проверяет, что код класса известен.
func (c DefectClass) Valid() bool {
	return c >= DefectPinhole && c <= DefectScratch
}

// AxisRect: прямоугольник, выровненный по осям.
type AxisRect struct {
	X      int `json:"x"`      // координата X левого верхнего угла
	Y      int `json:"y"`      // координата Y левого верхнего угла
	Width  int `json:"width"`  // ширина в пикселях
	Height int `json:"height"` // высота в пикселях
}

// Area возвращает площадь прямоугольника.
func (r AxisRect) Area() int {
	return r.Width * r.Height
}

// Center возвращает координаты центра прямоугольника
func (r AxisRect) Center() (x, y int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Point2f: точка с дробными координатами.
type Point2f struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// OrientedRect — повёрнутый прямоугольник: центр, размеры и угол в градусах.
type OrientedRect struct {
	Center Point2f `json:"center"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Angle  float64 `json:"angle"`
}

// Corners возвращает углы в порядке bottom-left, top-left, top-right, bottom-right
// в собственной системе координат прямоугольника.
func (r OrientedRect) Corners() [4]Point2f {
	rad := r.Angle * math.Pi / 180
	b := math.Cos(rad) * 0.5
	a := math.Sin(rad) * 0.5

	var pts [4]Point2f
	pts[0] = Point2f{
		X: r.Center.X - a*r.Height - b*r.Width,
		Y: r.Center.Y + b*r.Height - a*r.Width,
	}
	pts[1] = Point2f{
		X: r.Center.X + a*r.Height - b*r.Width,
		Y: r.Center.Y - b*r.Height - a*r.Width,
	}
	pts[2] = Point2f{X: 2*r.Center.X - pts[0].X, Y: 2*r.Center.Y - pts[0].Y}
	pts[3] = Point2f{X: 2*r.Center.X - pts[1].X, Y: 2*r.Center.Y - pts[1].Y}
	return pts
}

// AspectRatio возвращает min(w,h)/max(w,h); для вырожденного прямоугольника 0.
func (r OrientedRect) AspectRatio() float64 {
	lo, hi := math.Min(r.Width, r.Height), math.Max(r.Width, r.Height)
	if hi <= 0 {
		return 0
	}
	return lo / hi
}

// DefectRegion представляет найденный и классифицированный дефект
type DefectRegion struct {
	Ellipse      OrientedRect `json:"ellipse"`       // эллипс, вписанный в кластер
	Bounds       AxisRect     `json:"bounds"`        // рамка кластера второго прохода
	Class        DefectClass  `json:"class"`         // класс дефекта
	AvgIntensity int          `json:"avg_intensity"` // средняя сумма яркости по столбцам патча
	Ratio        float64      `json:"ratio"`         // отношение сторон эллипса
}

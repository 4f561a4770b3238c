package entity

import (
	"errors"
	"fmt"
)

// Params содержит настраиваемые пороги обоих конвейеров.
type Params struct {
	BlurKernel       int     // размер ядра гауссова размытия (нечётный)
	MeasureThreshLow int     // порог маски оболочки
	CannyLow         int     // нижний порог Canny
	CannyHigh        int     // верхний порог Canny
	MorphKernel      int     // сторона прямоугольного структурного элемента
	AreaFilter       int     // максимальная площадь рамки контура первого прохода
	GroupThreshLow   int     // порог второго прохода
	PolyEpsFactor    float64 // точность Douglas-Peucker первого прохода, доля периметра
	GroupPolyEps     float64 // точность Douglas-Peucker второго прохода, пиксели
	ScratchIntensity int     // порог яркости царапины
	AspectCut        float64 // граница порез/прокол по отношению сторон
}

// DefaultParams возвращает пороги, подобранные на эталонных снимках.
func DefaultParams() Params {
	return Params{
		BlurKernel:       3,
		MeasureThreshLow: 60,
		CannyLow:         60,
		CannyHigh:        255,
		MorphKernel:      3,
		AreaFilter:       10000,
		GroupThreshLow:   50,
		PolyEpsFactor:    0.02,
		GroupPolyEps:     1.0,
		ScratchIntensity: 18000,
		AspectCut:        0.85,
	}
}

// Validate проверяет согласованность порогов.
func (p Params) Validate() error {
	if p.BlurKernel <= 0 || p.BlurKernel%2 == 0 {
		return fmt.Errorf("blur kernel must be a positive odd number (got %d)", p.BlurKernel)
	}
	if p.MorphKernel <= 0 {
		return fmt.Errorf("morph kernel must be > 0 (got %d)", p.MorphKernel)
	}
	if p.MeasureThreshLow < 0 || p.MeasureThreshLow > 255 {
		return fmt.Errorf("measure threshold must be in [0,255] (got %d)", p.MeasureThreshLow)
	}
	if p.GroupThreshLow < 0 || p.GroupThreshLow > 255 {
		return fmt.Errorf("group threshold must be in [0,255] (got %d)", p.GroupThreshLow)
	}
	if p.CannyLow < 0 || p.CannyHigh < p.CannyLow {
		return fmt.Errorf("invalid canny thresholds %d/%d", p.CannyLow, p.CannyHigh)
	}
	if p.AreaFilter <= 0 {
		return errors.New("area filter must be > 0")
	}
	if p.PolyEpsFactor <= 0 || p.GroupPolyEps <= 0 {
		return errors.New("polygon tolerances must be > 0")
	}
	if p.ScratchIntensity <= 0 {
		return errors.New("scratch intensity must be > 0")
	}
	if p.AspectCut <= 0 || p.AspectCut > 1 {
		return fmt.Errorf("aspect cut must be in (0,1] (got %.3f)", p.AspectCut)
	}
	return nil
}

// Classify применяет правила классификации по яркости и геометрии.
// Правила проверяются по порядку: сначала яркость, затем отношение сторон.
func (p Params) Classify(avgIntensity int, width, height float64) DefectClass {
	if avgIntensity > p.ScratchIntensity {
		return DefectScratch
	}
	if width <= 0 && height <= 0 {
		return DefectPinhole
	}
	ratio := OrientedRect{Width: width, Height: height}.AspectRatio()
	if ratio <= p.AspectCut {
		return DefectCut
	}
	return DefectPinhole
}

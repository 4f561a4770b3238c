package entity

// Measurement хранит ширину кабеля на одной строке изображения.
type Measurement struct {
	Y      int `json:"y"`       // номер строки
	XLeft  int `json:"x_left"`  // первый столбец маски
	XRight int `json:"x_right"` // последний столбец маски
	Width  int `json:"width"`   // XRight - XLeft, в пикселях
}

// NewMeasurement собирает измерение и считает ширину.
func NewMeasurement(y, xLeft, xRight int) Measurement {
	return Measurement{
		Y:      y,
		XLeft:  xLeft,
		XRight: xRight,
		Width:  xRight - xLeft,
	}
}

// MeasurementSummary хранит сводную статистику по ширинам.
type MeasurementSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
}

// MeasureResult хранит итог измерения диаметра.
type MeasureResult struct {
	Annotated    Raster             `json:"-"`
	Measurements []Measurement      `json:"measurements"`
	Summary      MeasurementSummary `json:"summary"`
}

// MeasurementRows возвращает три строки, на которых измеряется кабель:
// ⌊rows/4⌋, ⌊rows/2⌋ и ⌊3·rows/4⌋.
func MeasurementRows(rows int) [3]int {
	return [3]int{rows / 4, 2 * rows / 4, 3 * rows / 4}
}

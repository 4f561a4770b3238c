package entity

// DefectResult хранит итог поиска дефектов.
type DefectResult struct {
	Annotated Raster              `json:"-"`
	Regions   []DefectRegion      `json:"regions"`
	Counts    map[DefectClass]int `json:"-"`
}

// HasDefects сообщает, найден ли хотя бы один дефект.
func (r *DefectResult) HasDefects() bool {
	return r != nil && len(r.Regions) > 0
}

// CountByClass считает дефекты каждого класса.
func CountByClass(regions []DefectRegion) map[DefectClass]int {
	counts := make(map[DefectClass]int, len(DefectClasses))
	for _, c := range DefectClasses {
		counts[c] = 0
	}
	for _, r := range regions {
		counts[r.Class]++
	}
	return counts
}

// InspectionResult объединяет результаты обоих конвейеров.
type InspectionResult struct {
	ImageWidth  int            // ширина изображения
	ImageHeight int            // высота изображения
	Measure     *MeasureResult // может быть nil, если измерение не запускалось
	Defects     *DefectResult  // может быть nil, если поиск дефектов не запускался
}

// Description — текстовое описание результата для пользователя.
type Description struct {
	Text string
}

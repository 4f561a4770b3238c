package report

import (
	"context"
	"fmt"
	"strings"

	"cable-inspector/internal/domain/entity"
	"cable-inspector/internal/domain/port"
)

// TextDescriber собирает короткий отчёт на русском языке.
type TextDescriber struct{}

func NewTextDescriber() *TextDescriber {
	return &TextDescriber{}
}

var classNames = map[entity.DefectClass]string{
	entity.DefectPinhole: "проколы",
	entity.DefectCut:     "порезы",
	entity.DefectScratch: "царапины",
}

// Describe генерирует текстовое описание измерений и найденных дефектов
func (d *TextDescriber) Describe(ctx context.Context, result *entity.InspectionResult) (*entity.Description, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if result == nil {
		return &entity.Description{Text: "Нет результатов анализа."}, nil
	}

	var b strings.Builder
	if result.ImageWidth > 0 && result.ImageHeight > 0 {
		fmt.Fprintf(&b, "Изображение %d×%d\n", result.ImageWidth, result.ImageHeight)
	}

	if m := result.Measure; m != nil {
		writeMeasure(&b, m)
	}
	if dr := result.Defects; dr != nil {
		writeDefects(&b, dr)
	}

	return &entity.Description{Text: strings.TrimRight(b.String(), "\n")}, nil
}

func writeMeasure(b *strings.Builder, m *entity.MeasureResult) {
	if len(m.Measurements) == 0 {
		b.WriteString("Диаметр: кабель не найден ни на одной строке.\n")
		return
	}

	b.WriteString("Диаметр:\n")
	for _, ms := range m.Measurements {
		fmt.Fprintf(b, "  строка %d: %d px (x %d..%d)\n", ms.Y, ms.Width, ms.XLeft, ms.XRight)
	}
	if s := m.Summary; s.Count > 1 {
		fmt.Fprintf(b, "  среднее %.1f px, разброс %.1f px, min %d, max %d\n", s.Mean, s.StdDev, s.Min, s.Max)
	}
}

func writeDefects(b *strings.Builder, dr *entity.DefectResult) {
	if !dr.HasDefects() {
		b.WriteString("Дефекты не обнаружены.\n")
		return
	}

	counts := dr.Counts
	if counts == nil {
		counts = entity.CountByClass(dr.Regions)
	}

	fmt.Fprintf(b, "Найдено дефектов: %d\n", len(dr.Regions))
	for _, c := range entity.DefectClasses {
		if n := counts[c]; n > 0 {
			fmt.Fprintf(b, "  %s: %d\n", classNames[c], n)
		}
	}
}

// Проверка реализации интерфейса
var _ port.DefectDescriber = (*TextDescriber)(nil)

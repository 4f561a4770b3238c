package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"cable-inspector/internal/domain/entity"
)

func TestDescribe_Full(t *testing.T) {
	regions := []entity.DefectRegion{{Class: entity.DefectCut}, {Class: entity.DefectScratch}, {Class: entity.DefectCut}}
	result := &entity.InspectionResult{
		ImageWidth:  400,
		ImageHeight: 200,
		Measure: &entity.MeasureResult{
			Measurements: []entity.Measurement{entity.NewMeasurement(50, 100, 300), entity.NewMeasurement(100, 100, 302)},
			Summary:      entity.MeasurementSummary{Count: 2, Mean: 201, StdDev: 1.4, Min: 200, Max: 202},
		},
		Defects: &entity.DefectResult{Regions: regions, Counts: entity.CountByClass(regions)},
	}

	desc, err := NewTextDescriber().Describe(context.Background(), result)
	require.NoError(t, err)

	require.Contains(t, desc.Text, "Изображение 400×200")
	require.Contains(t, desc.Text, "строка 50: 200 px (x 100..300)")
	require.Contains(t, desc.Text, "среднее 201.0 px")
	require.Contains(t, desc.Text, "Найдено дефектов: 3")
	require.Contains(t, desc.Text, "порезы: 2")
	require.Contains(t, desc.Text, "царапины: 1")
	require.NotContains(t, desc.Text, "проколы")
}

func TestDescribe_Empty(t *testing.T) {
	result := &entity.InspectionResult{
		Measure: &entity.MeasureResult{},
		Defects: &entity.DefectResult{},
	}

	desc, err := NewTextDescriber().Describe(context.Background(), result)
	require.NoError(t, err)
	require.Equal(t, "Диаметр: кабель не найден ни на одной строке.\nДефекты не обнаружены.", desc.Text)
}

func TestDescribe_Nil(t *testing.T) {
	desc, err := NewTextDescriber().Describe(context.Background(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, desc.Text)
}

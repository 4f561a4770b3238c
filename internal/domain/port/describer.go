package port

import (
	"context"

	"cable-inspector/internal/domain/entity"
)

// DefectDescriber интерфейс описателя результатов
type DefectDescriber interface {
	// Describe генерирует текстовое описание измерений и найденных дефектов
	Describe(ctx context.Context, result *entity.InspectionResult) (*entity.Description, error)
}

package port

import (
	"context"

	"cable-inspector/internal/domain/entity"
)

// CableAnalyzer интерфейс конвейеров анализа кабеля
type CableAnalyzer interface {
	// Decode декодирует байты изображения в цветной растр
	Decode(ctx context.Context, data []byte) (entity.Raster, error)

	// Measure измеряет диаметр кабеля и возвращает размеченную копию
	Measure(ctx context.Context, src entity.Raster) (*entity.MeasureResult, error)

	// FindDefects ищет и классифицирует дефекты, возвращает размеченную копию
	FindDefects(ctx context.Context, src entity.Raster) (*entity.DefectResult, error)
}

// ImageEncoder интерфейс кодировщика изображений
type ImageEncoder interface {
	// Encode кодирует растр в формат, заданный расширением (".png", ".jpg", ...)
	Encode(r entity.Raster, ext string) ([]byte, error)

	// ContentType возвращает MIME-тип для расширения
	ContentType(ext string) string
}

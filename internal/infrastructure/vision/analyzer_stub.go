//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"cable-inspector/internal/domain/entity"
	"cable-inspector/internal/domain/port"
	apperrors "cable-inspector/internal/errors"
	"cable-inspector/internal/infrastructure/encoding"
)

var errNoGoCV = errors.New("gocv build tag is not enabled")

// GoCVAnalyzer без OpenCV декодирует изображения, но не анализирует их.
type GoCVAnalyzer struct {
	Params entity.Params
}

// NewGoCVAnalyzer создаёт анализатор-заглушку (без OpenCV).
func NewGoCVAnalyzer(params entity.Params) *GoCVAnalyzer {
	return &GoCVAnalyzer{Params: params}
}

// Decode декодирует изображение стандартными декодерами Go.
func (a *GoCVAnalyzer) Decode(ctx context.Context, data []byte) (entity.Raster, error) {
	if err := ctx.Err(); err != nil {
		return entity.Raster{}, err
	}
	return encoding.Decode(data)
}

// Measure возвращает ошибку, если сборка без тега gocv.
func (a *GoCVAnalyzer) Measure(ctx context.Context, src entity.Raster) (*entity.MeasureResult, error) {
	if src.Empty() {
		return nil, apperrors.NewPreconditionError("no image loaded", nil)
	}
	return nil, apperrors.NewProcessingError("diameter measurement is unavailable", errNoGoCV)
}

// FindDefects возвращает ошибку, если сборка без тега gocv.
func (a *GoCVAnalyzer) FindDefects(ctx context.Context, src entity.Raster) (*entity.DefectResult, error) {
	if src.Empty() {
		return nil, apperrors.NewPreconditionError("no image loaded", nil)
	}
	return nil, apperrors.NewProcessingError("defect detection is unavailable", errNoGoCV)
}

var _ port.CableAnalyzer = (*GoCVAnalyzer)(nil)

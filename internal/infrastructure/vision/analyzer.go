//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"cable-inspector/internal/domain/entity"
	"cable-inspector/internal/domain/port"
	apperrors "cable-inspector/internal/errors"
)

// GoCVAnalyzer реализует оба конвейера на OpenCV.
type GoCVAnalyzer struct {
	Params entity.Params
}

// NewGoCVAnalyzer создаёт анализатор с заданными порогами.
func NewGoCVAnalyzer(params entity.Params) *GoCVAnalyzer {
	return &GoCVAnalyzer{Params: params}
}

// Decode декодирует изображение декодером OpenCV (PNG, JPEG, BMP, TIFF).
func (a *GoCVAnalyzer) Decode(ctx context.Context, data []byte) (entity.Raster, error) {
	if err := ctx.Err(); err != nil {
		return entity.Raster{}, err
	}

	mat, err := decodeToMat(data)
	if err != nil {
		return entity.Raster{}, apperrors.NewIOError("could not load image", err)
	}
	defer mat.Close()

	return rasterFromMat(mat), nil
}

// Measure запускает измерение диаметра на копии src.
func (a *GoCVAnalyzer) Measure(ctx context.Context, src entity.Raster) (*entity.MeasureResult, error) {
	mat, err := a.prepare(ctx, src)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	out, measurements := measureDiameter(mat, a.Params)
	defer out.Close()

	return &entity.MeasureResult{
		Annotated:    rasterFromMat(out),
		Measurements: measurements,
	}, nil
}

// FindDefects запускает поиск и классификацию дефектов на копии src.
func (a *GoCVAnalyzer) FindDefects(ctx context.Context, src entity.Raster) (*entity.DefectResult, error) {
	mat, err := a.prepare(ctx, src)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	out, regions := findDefects(mat, a.Params)
	defer out.Close()

	return &entity.DefectResult{
		Annotated: rasterFromMat(out),
		Regions:   regions,
		Counts:    entity.CountByClass(regions),
	}, nil
}

// prepare проверяет предусловия и копирует растр в Mat.
func (a *GoCVAnalyzer) prepare(ctx context.Context, src entity.Raster) (gocv.Mat, error) {
	if err := ctx.Err(); err != nil {
		return gocv.NewMat(), err
	}
	if src.Empty() {
		return gocv.NewMat(), apperrors.NewPreconditionError("no image loaded", nil)
	}
	if src.Channels != 3 {
		return gocv.NewMat(), apperrors.NewValidationError(fmt.Sprintf("expected a 3-channel image, got %d", src.Channels), nil)
	}

	mat, err := matFromRaster(src)
	if err != nil {
		return gocv.NewMat(), apperrors.NewProcessingError("could not prepare image", err)
	}
	return mat, nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	if len(imageData) == 0 {
		return gocv.NewMat(), errors.New("empty image data")
	}

	// При ошибке gocv возвращает нулевой Mat, методы которого вызывать нельзя.
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to decode image: %w", err)
	}
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), errors.New("failed to decode image")
	}
	return mat, nil
}

// Проверка реализации интерфейса
var _ port.CableAnalyzer = (*GoCVAnalyzer)(nil)

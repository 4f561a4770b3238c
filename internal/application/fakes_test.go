package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"cable-inspector/internal/domain/entity"
)

// fakeAnalyzer декодирует байты как квадрат 4×4 со значением первого байта.
type fakeAnalyzer struct {
	measureCalls atomic.Int32
	defectCalls  atomic.Int32
	measureErr   error
	regions      []entity.DefectRegion
}

func (a *fakeAnalyzer) Decode(ctx context.Context, data []byte) (entity.Raster, error) {
	if string(data) == "bad" {
		return entity.Raster{}, errors.New("cannot decode")
	}
	r := entity.NewRaster(4, 4, 3)
	for i := range r.Pix {
		r.Pix[i] = data[0]
	}
	return r, nil
}

func (a *fakeAnalyzer) Measure(ctx context.Context, src entity.Raster) (*entity.MeasureResult, error) {
	a.measureCalls.Add(1)
	if a.measureErr != nil {
		return nil, a.measureErr
	}
	out := src.Clone()
	out.Pix[0] = 'M'
	return &entity.MeasureResult{
		Annotated: out,
		Measurements: []entity.Measurement{
			entity.NewMeasurement(1, 0, 2),
			entity.NewMeasurement(2, 0, 3),
		},
	}, nil
}

func (a *fakeAnalyzer) FindDefects(ctx context.Context, src entity.Raster) (*entity.DefectResult, error) {
	a.defectCalls.Add(1)
	out := src.Clone()
	out.Pix[0] = 'D'
	return &entity.DefectResult{Annotated: out, Regions: a.regions}, nil
}

// fakeEncoder возвращает первый байт растра и расширение.
type fakeEncoder struct{}

func (fakeEncoder) Encode(r entity.Raster, ext string) ([]byte, error) {
	if ext == ".nope" {
		return nil, errors.New("unsupported")
	}
	return append([]byte{r.Pix[0]}, ext...), nil
}

func (fakeEncoder) ContentType(ext string) string {
	return "image/test"
}

type memStore struct {
	mu    sync.Mutex
	files map[string][]byte
	types map[string]string
}

func newMemStore() *memStore {
	return &memStore{files: map[string][]byte{}, types: map[string]string{}}
}

func (s *memStore) Get(ctx context.Context, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func (s *memStore) Put(ctx context.Context, path string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
	s.types[path] = contentType
	return nil
}

type fakeDescriber struct{}

func (fakeDescriber) Describe(ctx context.Context, result *entity.InspectionResult) (*entity.Description, error) {
	return &entity.Description{Text: "ok"}, nil
}

package app

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"cable-inspector/internal/domain/entity"
	"cable-inspector/internal/domain/port"
	apperrors "cable-inspector/internal/errors"
	"cable-inspector/internal/logger"
	"cable-inspector/internal/metrics"
)

type InspectionService struct {
	sessions  *SessionService
	analyzer  port.CableAnalyzer
	encoder   port.ImageEncoder
	store     port.BlobStore
	describer port.DefectDescriber
	mu        sync.Mutex // защищает поля сессий
}

// NewInspectionService создаёт сервис, который ведёт изображение сессии через оба конвейера.
func NewInspectionService(
	sessions *SessionService,
	analyzer port.CableAnalyzer,
	encoder port.ImageEncoder,
	store port.BlobStore,
	describer port.DefectDescriber,
) *InspectionService {
	return &InspectionService{
		sessions:  sessions,
		analyzer:  analyzer,
		encoder:   encoder,
		store:     store,
		describer: describer,
	}
}

// Load читает изображение по пути (файл или azblob://) и делает его входом сессии.
func (s *InspectionService) Load(ctx context.Context, id, chatID int64, path string) (*entity.Session, error) {
	if s.store == nil {
		return nil, apperrors.NewInternalError("storage is not configured", nil)
	}

	data, err := s.store.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{"session": id, "path": path}).Info("image loaded")
	return s.Accept(ctx, id, chatID, data)
}

// Accept декодирует присланные байты и заменяет ими вход сессии.
// Прежние результаты сбрасываются.
func (s *InspectionService) Accept(ctx context.Context, id, chatID int64, data []byte) (*entity.Session, error) {
	if s.analyzer == nil {
		return nil, apperrors.NewInternalError("analyzer is not configured", nil)
	}
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("image is empty", nil)
	}

	raster, err := s.analyzer.Decode(ctx, data)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, id, chatID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	session.SetInput(raster)
	session.SetState(entity.StateMainMenu)
	s.mu.Unlock()

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// snapshot возвращает вход сессии и его ревизию.
func (s *InspectionService) snapshot(ctx context.Context, id, chatID int64) (*entity.Session, entity.Raster, uint64, error) {
	if s.analyzer == nil {
		return nil, entity.Raster{}, 0, apperrors.NewInternalError("analyzer is not configured", nil)
	}

	session, err := s.sessions.Get(ctx, id, chatID)
	if err != nil {
		return nil, entity.Raster{}, 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !session.HasInput() {
		return nil, entity.Raster{}, 0, apperrors.NewPreconditionError("no image loaded", nil)
	}
	return session, session.Input, session.Revision, nil
}

func (s *InspectionService) runMeasure(ctx context.Context, id int64, input entity.Raster) (*entity.MeasureResult, error) {
	started := time.Now()
	res, err := s.analyzer.Measure(ctx, input)
	metrics.ObservePipeline(metrics.PipelineMeasure, started, err)
	if err != nil {
		logger.WithField("session", id).WithError(err).Error("measure failed")
		return nil, err
	}

	metrics.CountSkippedRows(len(entity.MeasurementRows(input.Rows)) - len(res.Measurements))
	res.Summary = Summarize(res.Measurements)

	logger.WithFields(map[string]interface{}{
		"session":      id,
		"measurements": len(res.Measurements),
		"mean_width":   res.Summary.Mean,
	}).Info("measure finished")
	return res, nil
}

func (s *InspectionService) runDefects(ctx context.Context, id int64, input entity.Raster) (*entity.DefectResult, error) {
	started := time.Now()
	res, err := s.analyzer.FindDefects(ctx, input)
	metrics.ObservePipeline(metrics.PipelineDefects, started, err)
	if err != nil {
		logger.WithField("session", id).WithError(err).Error("defect search failed")
		return nil, err
	}

	if res.Counts == nil {
		res.Counts = entity.CountByClass(res.Regions)
	}
	metrics.CountDefects(res.Regions)

	logger.WithFields(map[string]interface{}{
		"session": id,
		"regions": len(res.Regions),
	}).Info("defect search finished")
	return res, nil
}

// Measure измеряет диаметр на входе сессии и кэширует размеченный результат.
func (s *InspectionService) Measure(ctx context.Context, id, chatID int64) (*entity.MeasureResult, error) {
	session, input, rev, err := s.snapshot(ctx, id, chatID)
	if err != nil {
		return nil, err
	}

	res, err := s.runMeasure(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if session.Revision == rev {
		session.MeasureOutput = res
	}
	s.mu.Unlock()
	return res, nil
}

// FindDefects ищет дефекты на входе сессии и кэширует размеченный результат.
func (s *InspectionService) FindDefects(ctx context.Context, id, chatID int64) (*entity.DefectResult, error) {
	session, input, rev, err := s.snapshot(ctx, id, chatID)
	if err != nil {
		return nil, err
	}

	res, err := s.runDefects(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if session.Revision == rev {
		session.DefectOutput = res
	}
	s.mu.Unlock()
	return res, nil
}

// Inspect запускает оба конвейера параллельно на одном входе.
func (s *InspectionService) Inspect(ctx context.Context, id, chatID int64) (*entity.InspectionResult, error) {
	session, input, rev, err := s.snapshot(ctx, id, chatID)
	if err != nil {
		return nil, err
	}

	var (
		measure *entity.MeasureResult
		defects *entity.DefectResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		measure, err = s.runMeasure(gctx, id, input)
		return err
	})
	g.Go(func() error {
		var err error
		defects, err = s.runDefects(gctx, id, input)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if session.Revision == rev {
		session.MeasureOutput = measure
		session.DefectOutput = defects
	}
	s.mu.Unlock()

	return &entity.InspectionResult{
		ImageWidth:  input.Cols,
		ImageHeight: input.Rows,
		Measure:     measure,
		Defects:     defects,
	}, nil
}

// SaveMeasure пишет размеченный результат измерения по пути.
// Формат выбирается по расширению; если измерение ещё не запускалось, оно выполняется.
func (s *InspectionService) SaveMeasure(ctx context.Context, id, chatID int64, path string) error {
	session, _, _, err := s.snapshot(ctx, id, chatID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	cached := session.MeasureOutput
	s.mu.Unlock()

	if cached == nil {
		if cached, err = s.Measure(ctx, id, chatID); err != nil {
			return err
		}
	}
	return s.save(ctx, cached.Annotated, path)
}

// SaveDefects пишет размеченный результат поиска дефектов по пути.
func (s *InspectionService) SaveDefects(ctx context.Context, id, chatID int64, path string) error {
	session, _, _, err := s.snapshot(ctx, id, chatID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	cached := session.DefectOutput
	s.mu.Unlock()

	if cached == nil {
		if cached, err = s.FindDefects(ctx, id, chatID); err != nil {
			return err
		}
	}
	return s.save(ctx, cached.Annotated, path)
}

func (s *InspectionService) save(ctx context.Context, r entity.Raster, path string) error {
	if s.encoder == nil || s.store == nil {
		return apperrors.NewInternalError("storage is not configured", nil)
	}
	if path == "" {
		return apperrors.NewValidationError("output path is empty", nil)
	}

	ext := filepath.Ext(path)
	data, err := s.encoder.Encode(r, ext)
	if err != nil {
		return err
	}

	if err := s.store.Put(ctx, path, data, s.encoder.ContentType(ext)); err != nil {
		return err
	}

	logger.WithFields(map[string]interface{}{"path": path, "bytes": len(data)}).Info("image saved")
	return nil
}

// EncodeOutput кодирует размеченный результат для отправки клиенту.
func (s *InspectionService) EncodeOutput(r entity.Raster, ext string) ([]byte, error) {
	if s.encoder == nil {
		return nil, apperrors.NewInternalError("encoder is not configured", nil)
	}
	return s.encoder.Encode(r, ext)
}

// Describe готовит текст по результатам для чата и консоли.
func (s *InspectionService) Describe(ctx context.Context, result *entity.InspectionResult) (*entity.Description, error) {
	if s.describer == nil {
		return nil, apperrors.NewInternalError("describer is not configured", nil)
	}
	return s.describer.Describe(ctx, result)
}

// Close завершает работу с сессией и освобождает изображение.
func (s *InspectionService) Close(ctx context.Context, id int64) error {
	return s.sessions.Drop(ctx, id)
}

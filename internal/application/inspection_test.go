package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"cable-inspector/internal/domain/entity"
	apperrors "cable-inspector/internal/errors"
	"cable-inspector/internal/infrastructure/storage"
)

type fixture struct {
	svc      *InspectionService
	analyzer *fakeAnalyzer
	store    *memStore
	repo     *storage.MemorySessionRepository
}

func newFixture() *fixture {
	repo := storage.NewMemorySessionRepository()
	analyzer := &fakeAnalyzer{}
	store := newMemStore()
	svc := NewInspectionService(NewSessionService(repo), analyzer, fakeEncoder{}, store, fakeDescriber{})
	return &fixture{svc: svc, analyzer: analyzer, store: store, repo: repo}
}

func TestInspectionService_PipelinesRequireInput(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Measure(ctx, 1, 10)
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypePrecondition))

	_, err = f.svc.FindDefects(ctx, 1, 10)
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypePrecondition))

	_, err = f.svc.Inspect(ctx, 1, 10)
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypePrecondition))

	err = f.svc.SaveDefects(ctx, 1, 10, "out.png")
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypePrecondition))
	require.Empty(t, f.store.files)
}

func TestInspectionService_AcceptReplacesInput(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Accept(ctx, 1, 10, []byte{1})
	require.NoError(t, err)
	_, err = f.svc.Measure(ctx, 1, 10)
	require.NoError(t, err)

	session, err := f.svc.Accept(ctx, 1, 10, []byte{2})
	require.NoError(t, err)
	require.Equal(t, byte(2), session.Input.Pix[0])
	require.Nil(t, session.MeasureOutput)
	require.Equal(t, entity.StateMainMenu, session.State)
}

func TestInspectionService_AcceptRejectsBadImage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Accept(ctx, 1, 10, nil)
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = f.svc.Accept(ctx, 1, 10, []byte("bad"))
	require.Error(t, err)

	_, err = f.svc.Measure(ctx, 1, 10)
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypePrecondition))
}

func TestInspectionService_LoadFromStore(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.store.files["in.png"] = []byte{7}

	session, err := f.svc.Load(ctx, 1, 10, "in.png")
	require.NoError(t, err)
	require.True(t, session.HasInput())

	_, err = f.svc.Load(ctx, 1, 10, "missing.png")
	require.Error(t, err)
	// неудачная загрузка не трогает прежний вход
	require.Equal(t, byte(7), session.Input.Pix[0])
}

func TestInspectionService_MeasureCachesAndSummarizes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.Accept(ctx, 1, 10, []byte{1})
	require.NoError(t, err)

	res, err := f.svc.Measure(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 2, res.Summary.Count)
	require.InDelta(t, 2.5, res.Summary.Mean, 1e-9)

	session, err := f.repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Same(t, res, session.MeasureOutput)
	require.Equal(t, byte(1), session.Input.Pix[0], "input must stay untouched")
}

func TestInspectionService_SaveUsesMatchingOutput(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.Accept(ctx, 1, 10, []byte{1})
	require.NoError(t, err)

	require.NoError(t, f.svc.SaveMeasure(ctx, 1, 10, "m.png"))
	require.NoError(t, f.svc.SaveDefects(ctx, 1, 10, "d.bmp"))

	require.Equal(t, []byte("M.png"), f.store.files["m.png"])
	require.Equal(t, []byte("D.bmp"), f.store.files["d.bmp"])
	require.Equal(t, "image/test", f.store.types["d.bmp"])
}

func TestInspectionService_SaveReusesCachedOutput(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.Accept(ctx, 1, 10, []byte{1})
	require.NoError(t, err)

	_, err = f.svc.FindDefects(ctx, 1, 10)
	require.NoError(t, err)
	require.NoError(t, f.svc.SaveDefects(ctx, 1, 10, "d.png"))

	require.Equal(t, int32(1), f.analyzer.defectCalls.Load())
}

func TestInspectionService_SaveErrors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.Accept(ctx, 1, 10, []byte{1})
	require.NoError(t, err)

	require.True(t, apperrors.IsType(f.svc.SaveMeasure(ctx, 1, 10, ""), apperrors.ErrorTypeValidation))
	require.Error(t, f.svc.SaveMeasure(ctx, 1, 10, "out.nope"))
	require.Empty(t, f.store.files)
}

func TestInspectionService_InspectRunsBoth(t *testing.T) {
	f := newFixture()
	f.analyzer.regions = []entity.DefectRegion{{Class: entity.DefectCut}, {Class: entity.DefectCut}}
	ctx := context.Background()
	_, err := f.svc.Accept(ctx, 1, 10, []byte{1})
	require.NoError(t, err)

	res, err := f.svc.Inspect(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 4, res.ImageWidth)
	require.Equal(t, 4, res.ImageHeight)
	require.Len(t, res.Measure.Measurements, 2)
	require.Equal(t, 2, res.Defects.Counts[entity.DefectCut])
	require.Equal(t, 0, res.Defects.Counts[entity.DefectPinhole])

	session, err := f.repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.NotNil(t, session.MeasureOutput)
	require.NotNil(t, session.DefectOutput)
}

func TestInspectionService_InspectPropagatesError(t *testing.T) {
	f := newFixture()
	boom := errors.New("boom")
	f.analyzer.measureErr = boom
	ctx := context.Background()
	_, err := f.svc.Accept(ctx, 1, 10, []byte{1})
	require.NoError(t, err)

	_, err = f.svc.Inspect(ctx, 1, 10)
	require.ErrorIs(t, err, boom)

	session, err := f.repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Nil(t, session.DefectOutput)
}

func TestInspectionService_DescribeAndClose(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.Accept(ctx, 1, 10, []byte{1})
	require.NoError(t, err)

	desc, err := f.svc.Describe(ctx, &entity.InspectionResult{})
	require.NoError(t, err)
	require.Equal(t, "ok", desc.Text)

	require.NoError(t, f.svc.Close(ctx, 1))
	require.Equal(t, 0, f.repo.Len())

	_, err = f.svc.Measure(ctx, 1, 10)
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypePrecondition))
}

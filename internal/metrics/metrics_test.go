package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"cable-inspector/internal/domain/entity"
)

func TestCountDefects(t *testing.T) {
	before := testutil.ToFloat64(defectsFound.WithLabelValues("cut"))

	CountDefects([]entity.DefectRegion{{Class: entity.DefectCut}, {Class: entity.DefectCut}, {Class: entity.DefectPinhole}})

	require.Equal(t, before+2, testutil.ToFloat64(defectsFound.WithLabelValues("cut")))
}

func TestObservePipeline_Outcome(t *testing.T) {
	okBefore := testutil.ToFloat64(pipelineRuns.WithLabelValues(PipelineMeasure, "ok"))
	errBefore := testutil.ToFloat64(pipelineRuns.WithLabelValues(PipelineMeasure, "error"))

	ObservePipeline(PipelineMeasure, time.Now(), nil)
	ObservePipeline(PipelineMeasure, time.Now(), errors.New("boom"))

	require.Equal(t, okBefore+1, testutil.ToFloat64(pipelineRuns.WithLabelValues(PipelineMeasure, "ok")))
	require.Equal(t, errBefore+1, testutil.ToFloat64(pipelineRuns.WithLabelValues(PipelineMeasure, "error")))
}

func TestCountSkippedRows_IgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(rowsSkipped)
	CountSkippedRows(0)
	CountSkippedRows(2)
	require.Equal(t, before+2, testutil.ToFloat64(rowsSkipped))
}

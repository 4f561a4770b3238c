//go:build gocv
// +build gocv

package vision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"cable-inspector/internal/domain/entity"
	apperrors "cable-inspector/internal/errors"
)

const background = 150

func requireRegionInvariants(t *testing.T, regions []entity.DefectRegion) {
	t.Helper()
	p := entity.DefaultParams()
	for _, r := range regions {
		require.True(t, r.Class.Valid())
		require.Less(t, r.Bounds.Area(), p.AreaFilter)
	}
}

func findSingle(t *testing.T, src entity.Raster) entity.DefectRegion {
	t.Helper()
	before := src.Clone()

	res, err := newTestAnalyzer().FindDefects(context.Background(), src)
	require.NoError(t, err)
	require.True(t, before.Equal(src), "source must not be modified")
	require.Len(t, res.Regions, 1)
	requireRegionInvariants(t, res.Regions)
	return res.Regions[0]
}

func TestFindDefects_Pinhole(t *testing.T) {
	src := uniform(300, 400, background)
	fillCircle(src, 200, 150, 10, 20)

	region := findSingle(t, src)
	require.Equal(t, entity.DefectPinhole, region.Class)
	require.Greater(t, region.Ratio, 0.85)
	require.LessOrEqual(t, region.AvgIntensity, 18000)
	require.InDelta(t, 200, region.Ellipse.Center.X, 3)
	require.InDelta(t, 150, region.Ellipse.Center.Y, 3)
}

func TestFindDefects_Cut(t *testing.T) {
	src := uniform(300, 400, background)
	fillRotatedRect(src, 200, 150, 60, 10, 20, 20)

	region := findSingle(t, src)
	require.Equal(t, entity.DefectCut, region.Class)
	require.LessOrEqual(t, region.Ratio, 0.85)
	require.LessOrEqual(t, region.AvgIntensity, 18000)
}

func TestFindDefects_Scratch(t *testing.T) {
	src := uniform(300, 400, background)
	fillRect(src, 120, 149, 280, 152, 255)

	region := findSingle(t, src)
	require.Equal(t, entity.DefectScratch, region.Class)
	require.Greater(t, region.AvgIntensity, 18000)
}

func TestFindDefects_AdjacentFragmentsMerge(t *testing.T) {
	src := uniform(300, 400, background)
	fillRect(src, 100, 145, 130, 155, 20)
	fillRect(src, 132, 145, 162, 155, 20)

	region := findSingle(t, src)
	require.LessOrEqual(t, region.Bounds.X, 100)
	require.GreaterOrEqual(t, region.Bounds.X+region.Bounds.Width, 162)
}

func newCanvas(rows, cols int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, gocv.MatTypeCV8UC3)
}

func TestFillBox_IncludesRightAndBottomEdge(t *testing.T) {
	canvas := newCanvas(100, 200)
	defer canvas.Close()

	fillBox(&canvas, entity.AxisRect{X: 20, Y: 40, Width: 30, Height: 20})
	r := rasterFromMat(canvas)

	require.Equal(t, byte(255), r.At(40, 20)[0])
	require.Equal(t, byte(255), r.At(60, 50)[0])
	require.Equal(t, byte(0), r.At(40, 51)[0])
	require.Equal(t, byte(0), r.At(61, 20)[0])
	require.Equal(t, byte(0), r.At(39, 20)[0])
	require.Equal(t, byte(0), r.At(40, 19)[0])
}

func TestClusterMask_BoxGap(t *testing.T) {
	tests := []struct {
		name    string
		secondX int
		want    int
	}{
		// столбцы 51..53 пусты, средний остаётся нулём после размытия
		{name: "three columns apart", secondX: 54, want: 2},
		// столбцы 51..52 пусты, после размытия оба выше порога
		{name: "two columns apart", secondX: 53, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canvas := newCanvas(100, 200)
			defer canvas.Close()
			fillBox(&canvas, entity.AxisRect{X: 20, Y: 40, Width: 30, Height: 20})
			fillBox(&canvas, entity.AxisRect{X: tt.secondX, Y: 40, Width: 30, Height: 20})

			mask := clusterMask(canvas, entity.DefaultParams())
			defer mask.Close()

			contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxNone)
			defer contours.Close()
			require.Equal(t, tt.want, contours.Size())
		})
	}
}

func TestFindDefects_SeparateDefects(t *testing.T) {
	src := uniform(300, 400, background)
	fillCircle(src, 80, 150, 10, 20)
	fillCircle(src, 320, 150, 10, 20)

	res, err := newTestAnalyzer().FindDefects(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, res.Regions, 2)
	requireRegionInvariants(t, res.Regions)
	require.Equal(t, 2, res.Counts[entity.DefectPinhole])
}

func TestFindDefects_UniformImages(t *testing.T) {
	for _, v := range []byte{0, 255} {
		src := uniform(120, 160, v)

		res, err := newTestAnalyzer().FindDefects(context.Background(), src)
		require.NoError(t, err)
		require.Empty(t, res.Regions)
		require.True(t, res.Annotated.Equal(src))
	}
}

func TestFindDefects_Deterministic(t *testing.T) {
	src := uniform(300, 400, background)
	fillRotatedRect(src, 120, 100, 60, 10, 20, 20)
	fillCircle(src, 300, 200, 10, 20)

	a := newTestAnalyzer()
	first, err := a.FindDefects(context.Background(), src)
	require.NoError(t, err)
	second, err := a.FindDefects(context.Background(), src)
	require.NoError(t, err)

	require.Equal(t, first.Regions, second.Regions)
	require.True(t, first.Annotated.Equal(second.Annotated))
	require.Equal(t, src.Rows, first.Annotated.Rows)
	require.Equal(t, src.Cols, first.Annotated.Cols)
	require.Equal(t, src.Channels, first.Annotated.Channels)
}

func TestFindDefects_EmptyInput(t *testing.T) {
	_, err := newTestAnalyzer().FindDefects(context.Background(), entity.Raster{})
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypePrecondition))
}

func TestFindDefects_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestAnalyzer().FindDefects(ctx, uniform(10, 10, 0))
	require.ErrorIs(t, err, context.Canceled)
}

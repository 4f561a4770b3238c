package vision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanRow(t *testing.T) {
	tests := []struct {
		name   string
		row    []byte
		left   int
		right  int
		wantOK bool
	}{
		{"empty row", []byte{0, 0, 0, 0}, 0, 0, false},
		{"single pixel", []byte{0, 255, 0, 0}, 0, 0, false},
		{"full row", []byte{255, 255, 255, 255}, 0, 3, true},
		{"interior span", []byte{0, 255, 0, 255, 0}, 1, 3, true},
		{"gaps do not matter", []byte{0, 0, 255, 0, 0, 0, 255}, 2, 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, r, ok := scanRow(tt.row)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.left, l)
			require.Equal(t, tt.right, r)
		})
	}
}

func TestColumnSumsAndAverage(t *testing.T) {
	pix := []byte{
		10, 20, 30,
		10, 20, 30,
	}
	sums := columnSums(pix, 2, 3)
	require.Equal(t, []int32{20, 40, 60}, sums)
	require.Equal(t, 40, averageIntensity(sums, 3))
}

func TestAverageIntensity_KeepsRowScale(t *testing.T) {
	// белый патч 10x100: сумма столбца 25500, среднее не делится на высоту
	rows, cols := 100, 10
	pix := make([]byte, rows*cols)
	for i := range pix {
		pix[i] = 255
	}
	avg := averageIntensity(columnSums(pix, rows, cols), cols)
	require.Equal(t, 25500, avg)
	require.Greater(t, avg, 18000)
}

func TestAverageIntensity_IntegerDivision(t *testing.T) {
	require.Equal(t, 3, averageIntensity([]int32{5, 5}, 3))
	require.Zero(t, averageIntensity([]int32{5}, 0))
}

package vision

// minEllipsePoints: минимальное число точек контура для подгонки эллипса.
const minEllipsePoints = 5

// tickLength: длина засечек у краёв кабеля.
const tickLength = 15

// scanRow ищет первый и последний ненулевой пиксель строки маски.
// ok = false, если в строке нет двух различных ненулевых столбцов.
func scanRow(row []byte) (xLeft, xRight int, ok bool) {
	xLeft, xRight = -1, -1
	for x, v := range row {
		if v == 0 {
			continue
		}
		if xLeft < 0 {
			xLeft = x
		}
		xRight = x
	}
	if xLeft < 0 || xRight <= xLeft {
		return 0, 0, false
	}
	return xLeft, xRight, true
}

// columnSums суммирует яркость каждого столбца одноканального изображения.
func columnSums(pix []byte, rows, cols int) []int32 {
	sums := make([]int32, cols)
	for y := 0; y < rows; y++ {
		row := pix[y*cols : (y+1)*cols]
		for x, v := range row {
			sums[x] += int32(v)
		}
	}
	return sums
}

// averageIntensity делит сумму по столбцам на ширину патча (целочисленно).
// Результат в масштабе яркость × строки, на высоту не нормируется.
func averageIntensity(sums []int32, width int) int {
	if width <= 0 {
		return 0
	}
	var total int64
	for _, s := range sums {
		total += int64(s)
	}
	return int(total / int64(width))
}

package entity

import "bytes"

// Raster хранит декодированное изображение построчно.
// Цветные изображения имеют 3 канала в порядке BGR, серые и бинарные имеют 1 канал.
type Raster struct {
	Rows     int    // высота в пикселях
	Cols     int    // ширина в пикселях
	Channels int    // количество 8-битных каналов
	Pix      []byte // пиксели, len = Rows*Cols*Channels
}

// NewRaster создаёт чёрное изображение заданного размера.
func NewRaster(rows, cols, channels int) Raster {
	return Raster{
		Rows:     rows,
		Cols:     cols,
		Channels: channels,
		Pix:      make([]byte, rows*cols*channels),
	}
}

// Empty сообщает, что изображение не загружено.
func (r Raster) Empty() bool {
	return r.Rows <= 0 || r.Cols <= 0 || r.Channels <= 0 || len(r.Pix) < r.Rows*r.Cols*r.Channels
}

// Stride возвращает длину строки в байтах.
func (r Raster) Stride() int {
	return r.Cols * r.Channels
}

// At возвращает каналы пикселя (row, col) без копирования.
func (r Raster) At(row, col int) []byte {
	off := row*r.Stride() + col*r.Channels
	return r.Pix[off : off+r.Channels]
}

// Set записывает каналы пикселя (row, col).
func (r Raster) Set(row, col int, px ...byte) {
	copy(r.At(row, col), px)
}

// Clone возвращает независимую копию изображения.
func (r Raster) Clone() Raster {
	out := r
	out.Pix = append([]byte(nil), r.Pix...)
	return out
}

// Equal сравнивает размеры и содержимое побайтно.
func (r Raster) Equal(other Raster) bool {
	return r.Rows == other.Rows &&
		r.Cols == other.Cols &&
		r.Channels == other.Channels &&
		bytes.Equal(r.Pix, other.Pix)
}

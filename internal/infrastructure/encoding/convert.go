package encoding

import (
	"fmt"
	"image"
	"image/color"

	"cable-inspector/internal/domain/entity"
)

// ToImage переводит растр BGR (или серый) в image.Image.
func ToImage(r entity.Raster) (image.Image, error) {
	if r.Empty() {
		return nil, fmt.Errorf("empty raster")
	}

	switch r.Channels {
	case 1:
		img := image.NewGray(image.Rect(0, 0, r.Cols, r.Rows))
		for y := 0; y < r.Rows; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+r.Cols], r.Pix[y*r.Stride():])
		}
		return img, nil
	case 3:
		img := image.NewRGBA(image.Rect(0, 0, r.Cols, r.Rows))
		for y := 0; y < r.Rows; y++ {
			for x := 0; x < r.Cols; x++ {
				px := r.At(y, x)
				off := img.PixOffset(x, y)
				img.Pix[off] = px[2]
				img.Pix[off+1] = px[1]
				img.Pix[off+2] = px[0]
				img.Pix[off+3] = 0xff
			}
		}
		return img, nil
	default:
		return nil, fmt.Errorf("unsupported channel count %d", r.Channels)
	}
}

// FromImage переводит image.Image в цветной растр BGR. Альфа-канал отбрасывается.
func FromImage(img image.Image) entity.Raster {
	b := img.Bounds()
	r := entity.NewRaster(b.Dy(), b.Dx(), 3)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			r.Set(y, x, c.B, c.G, c.R)
		}
	}
	return r
}

package encoding

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
)

// Символы палитры XPM: без кавычек и обратной косой черты.
const xpmAlphabet = ".#abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// encodeXPM пишет изображение в формате XPM3.
// Палитра строится в порядке первого появления цвета, поэтому вывод детерминирован.
func encodeXPM(w io.Writer, img image.Image) error {
	b := img.Bounds()
	palette := make(map[color.RGBA]int)
	order := make([]color.RGBA, 0, 16)
	indices := make([]int, 0, b.Dx()*b.Dy())

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			c.A = 0xff
			idx, ok := palette[c]
			if !ok {
				idx = len(order)
				palette[c] = idx
				order = append(order, c)
			}
			indices = append(indices, idx)
		}
	}

	cpp := xpmCharsPerPixel(len(order))

	var sb strings.Builder
	sb.WriteString("/* XPM */\n")
	sb.WriteString("static char *image[] = {\n")
	fmt.Fprintf(&sb, "\"%d %d %d %d\",\n", b.Dx(), b.Dy(), len(order), cpp)
	for i, c := range order {
		fmt.Fprintf(&sb, "\"%s c #%02X%02X%02X\",\n", xpmCode(i, cpp), c.R, c.G, c.B)
	}
	for y := 0; y < b.Dy(); y++ {
		sb.WriteByte('"')
		for x := 0; x < b.Dx(); x++ {
			sb.WriteString(xpmCode(indices[y*b.Dx()+x], cpp))
		}
		sb.WriteByte('"')
		if y < b.Dy()-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("};\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func xpmCharsPerPixel(colors int) int {
	cpp := 1
	for capacity := len(xpmAlphabet); capacity < colors; capacity *= len(xpmAlphabet) {
		cpp++
	}
	return cpp
}

func xpmCode(idx, cpp int) string {
	buf := make([]byte, cpp)
	for i := cpp - 1; i >= 0; i-- {
		buf[i] = xpmAlphabet[idx%len(xpmAlphabet)]
		idx /= len(xpmAlphabet)
	}
	return string(buf)
}

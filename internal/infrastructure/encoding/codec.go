package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"cable-inspector/internal/domain/entity"
	apperrors "cable-inspector/internal/errors"
)

// JPEGQuality задаёт качество JPEG при сохранении и отправке.
const JPEGQuality = 90

// SupportedExtensions перечисляет расширения, которые умеет Encode.
var SupportedExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".xpm"}

// Codec реализует port.ImageEncoder.
type Codec struct{}

// NewCodec создаёт кодировщик изображений.
func NewCodec() *Codec {
	return &Codec{}
}

// Encode кодирует растр по расширению.
func (c *Codec) Encode(r entity.Raster, ext string) ([]byte, error) {
	return Encode(r, ext)
}

// ContentType возвращает MIME-тип для расширения.
func (c *Codec) ContentType(ext string) string {
	return ContentType(ext)
}

// Decode декодирует PNG, JPEG, BMP или TIFF в цветной растр.
func Decode(data []byte) (entity.Raster, error) {
	if len(data) == 0 {
		return entity.Raster{}, apperrors.NewIOError("could not load image", fmt.Errorf("no data"))
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return entity.Raster{}, apperrors.NewIOError("could not load image", err)
	}
	return FromImage(img), nil
}

// Encode кодирует растр в формат, заданный расширением.
func Encode(r entity.Raster, ext string) ([]byte, error) {
	img, err := ToImage(r)
	if err != nil {
		return nil, apperrors.NewIOError("could not encode image", err)
	}

	var b bytes.Buffer
	writer := bufio.NewWriter(&b)

	switch normalizeExt(ext) {
	case ".png":
		err = png.Encode(writer, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(writer, img, &jpeg.Options{Quality: JPEGQuality})
	case ".bmp":
		err = bmp.Encode(writer, img)
	case ".tif", ".tiff":
		err = tiff.Encode(writer, img, &tiff.Options{Compression: tiff.Deflate})
	case ".xpm":
		err = encodeXPM(writer, img)
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unsupported image format %q", ext), nil)
	}
	if err != nil {
		return nil, apperrors.NewIOError("could not encode image", err)
	}

	if err := writer.Flush(); err != nil {
		return nil, apperrors.NewIOError("could not encode image", err)
	}
	return b.Bytes(), nil
}

// ContentType возвращает MIME-тип для расширения.
func ContentType(ext string) string {
	switch normalizeExt(ext) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".bmp":
		return "image/bmp"
	case ".tif", ".tiff":
		return "image/tiff"
	case ".xpm":
		return "image/x-xpixmap"
	default:
		return "application/octet-stream"
	}
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

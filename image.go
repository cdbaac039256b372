package rotaug

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmharper/cimg/v2"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Ext returns the lowercase extension of path, without the leading dot
func Ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// ReadImage decodes the file at path into an RGB image.
// JPEG, PNG and TIFF go through cimg. BMP and WebP go through the Go decoders.
func ReadImage(path string) (*cimg.Image, error) {
	var img *cimg.Image
	switch Ext(path) {
	case "jpg", "jpeg", "png", "tif", "tiff":
		var err error
		img, err = cimg.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v: %w", ErrDecode, path, err)
		}
	case "bmp", "webp":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		src, err := decodeStd(Ext(path), f)
		if err != nil {
			return nil, fmt.Errorf("%w: %v: %w", ErrDecode, path, err)
		}
		img = fromImage(src)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, path)
	}

	if img.Width < 1 || img.Height < 1 {
		return nil, fmt.Errorf("%w: %v", ErrEmptyImage, path)
	}
	if img.NChan() != 3 {
		img = img.ToRGB()
	}
	return img, nil
}

func decodeStd(ext string, r io.Reader) (image.Image, error) {
	if ext == "bmp" {
		return bmp.Decode(r)
	}
	return webp.Decode(r)
}

// WriteImage encodes img to path, choosing the encoder from the file extension.
// quality only applies to JPEG.
func WriteImage(path string, img *cimg.Image, quality int) error {
	ext := Ext(path)
	switch ext {
	case "jpg", "jpeg":
		return img.WriteJPEG(path, cimg.MakeCompressParams(cimg.Sampling444, quality, 0), 0644)
	case "png", "bmp", "tif", "tiff":
	default:
		// webp has no Go encoder
		return fmt.Errorf("%w: cannot encode %v", ErrUnsupportedFormat, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	m := toImage(img)
	switch ext {
	case "png":
		err = png.Encode(f, m)
	case "bmp":
		err = bmp.Encode(f, m)
	default:
		err = tiff.Encode(f, m, &tiff.Options{Compression: tiff.Deflate})
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("encode %v: %w", path, err)
	}
	return f.Close()
}

// Copy any Go image into a packed RGB image
func fromImage(src image.Image) *cimg.Image {
	b := src.Bounds()
	dst := cimg.NewImage(b.Dx(), b.Dy(), cimg.PixelFormatRGB)
	for y := 0; y < dst.Height; y++ {
		dstLine := dst.Pixels[dst.Stride*y : dst.Stride*(y+1)]
		i := 0
		for x := 0; x < dst.Width; x++ {
			r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			dstLine[i] = uint8(r >> 8)
			dstLine[i+1] = uint8(g >> 8)
			dstLine[i+2] = uint8(bl >> 8)
			i += 3
		}
	}
	return dst
}

// Expose an RGB image as an opaque Go image
func toImage(img *cimg.Image) image.Image {
	if img.NChan() != 3 {
		img = img.ToRGB()
	}
	dst := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		srcLine := img.Pixels[img.Stride*y : img.Stride*y+img.Width*3]
		dstLine := dst.Pix[dst.Stride*y : dst.Stride*(y+1)]
		for x := 0; x < img.Width; x++ {
			dstLine[x*4] = srcLine[x*3]
			dstLine[x*4+1] = srcLine[x*3+1]
			dstLine[x*4+2] = srcLine[x*3+2]
			dstLine[x*4+3] = 255
		}
	}
	return dst
}

// Shrink returns img scaled down so that neither side exceeds maxSize.
// Images that already fit, or maxSize <= 0, are returned unchanged.
func Shrink(img *cimg.Image, maxSize int) *cimg.Image {
	if maxSize <= 0 {
		return img
	}
	scaleX := float64(maxSize) / float64(img.Width)
	scaleY := float64(maxSize) / float64(img.Height)
	if scaleX < 1 || scaleY < 1 {
		scale := min(scaleX, scaleY)
		newW := max(1, int(math.Round(float64(img.Width)*scale)))
		newH := max(1, int(math.Round(float64(img.Height)*scale)))
		return cimg.ResizeNew(img, newW, newH, nil)
	}
	return img
}

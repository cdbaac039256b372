package rotaug

import (
	"fmt"
	"math"

	"github.com/bmharper/cimg/v2"
)

// canvas returns the rotation matrix for a w x h image rotated clockwise by degrees,
// already translated so that the source center lands on the center of the expanded canvas.
func canvas(w, h, degrees int) (m Affine, newW, newH int) {
	cX, cY := w/2, h/2
	// Negated, because the matrix rotates counter-clockwise for positive angles
	m = RotationMatrix(float64(cX), float64(cY), float64(-degrees), 1.0)
	cos := math.Abs(m[0][0])
	sin := math.Abs(m[0][1])

	// Truncate, don't round. The output sizes must be reproducible bit for bit.
	newW = int(float64(h)*sin + float64(w)*cos)
	newH = int(float64(h)*cos + float64(w)*sin)

	m[0][2] += float64(newW/2 - cX)
	m[1][2] += float64(newH/2 - cY)
	return
}

// ExpandedSize returns the canvas size that holds a w x h image rotated by degrees without cropping
func ExpandedSize(w, h, degrees int) (newW, newH int) {
	_, newW, newH = canvas(w, h, degrees)
	return
}

// RotateWithBackground rotates img clockwise by angleDegrees about its center.
// The canvas grows so that no part of the source is cropped, and every pixel that
// has no source pixel behind it is set to bg.
// img must be non-empty, and bg must have one value per channel of img.
func RotateWithBackground(img *cimg.Image, angleDegrees int, bg Color) *cimg.Image {
	if img.Width < 1 || img.Height < 1 {
		panic("rotaug: empty image")
	}
	if len(bg) != img.NChan() {
		panic(fmt.Sprintf("rotaug: background has %v channels, image has %v", len(bg), img.NChan()))
	}
	m, newW, newH := canvas(img.Width, img.Height, angleDegrees)
	dst := cimg.NewImage(newW, newH, img.Format)
	WarpAffine(img, dst, m, bg)
	return dst
}

// WarpAffine fills dst by mapping each of its pixels through the inverse of m,
// and sampling src bilinearly at that location.
// Samples that fall off the edge of src read as bg, so edge pixels blend into the background,
// and pixels that are entirely off the source are exactly bg.
func WarpAffine(src, dst *cimg.Image, m Affine, bg Color) {
	inv := m.Invert()
	nchan := src.NChan()
	w, h := src.Width, src.Height

	tap := func(x, y, c int) float64 {
		if x < 0 || y < 0 || x >= w || y >= h {
			return float64(bg[c])
		}
		return float64(src.Pixels[y*src.Stride+x*nchan+c])
	}

	for y := 0; y < dst.Height; y++ {
		dstLine := dst.Pixels[dst.Stride*y : dst.Stride*y+dst.Width*nchan]
		i := 0
		for x := 0; x < dst.Width; x++ {
			sx, sy := inv.Apply(float64(x), float64(y))
			x0 := int(math.Floor(sx))
			y0 := int(math.Floor(sy))
			if x0 < -1 || y0 < -1 || x0 >= w || y0 >= h {
				copy(dstLine[i:i+nchan], bg)
				i += nchan
				continue
			}
			fx := sx - float64(x0)
			fy := sy - float64(y0)
			for c := 0; c < nchan; c++ {
				top := tap(x0, y0, c)*(1-fx) + tap(x0+1, y0, c)*fx
				bottom := tap(x0, y0+1, c)*(1-fx) + tap(x0+1, y0+1, c)*fx
				v := top*(1-fy) + bottom*fy
				dstLine[i+c] = uint8(min(255, max(0, math.Round(v))))
			}
			i += nchan
		}
	}
}

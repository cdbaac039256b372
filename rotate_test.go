package rotaug

import (
	"math"
	"testing"

	"github.com/bmharper/cimg/v2"
	"github.com/stretchr/testify/require"
)

var gray = Color{143, 148, 151}

// An RGB image whose channels are linear ramps in x and y
func makeRamp(width, height int) *cimg.Image {
	img := cimg.NewImage(width, height, cimg.PixelFormatRGB)
	for y := 0; y < height; y++ {
		line := img.Pixels[img.Stride*y : img.Stride*(y+1)]
		for x := 0; x < width; x++ {
			line[x*3] = byte(x*2 + y*2)
			line[x*3+1] = byte(x*2 + y*2 + 10)
			line[x*3+2] = byte(x*2 + y*2 + 20)
		}
	}
	return img
}

func makeSolid(width, height int, c Color) *cimg.Image {
	img := cimg.NewImage(width, height, cimg.PixelFormatRGB)
	for y := 0; y < height; y++ {
		line := img.Pixels[img.Stride*y : img.Stride*(y+1)]
		for x := 0; x < width; x++ {
			copy(line[x*3:x*3+3], c)
		}
	}
	return img
}

func pixel(img *cimg.Image, x, y int) Color {
	n := img.NChan()
	i := img.Stride*y + x*n
	return Color(img.Pixels[i : i+n])
}

func TestExpandedSize(t *testing.T) {
	cases := []struct {
		w, h, angle int
		newW, newH  int
	}{
		{100, 50, 0, 100, 50},
		{100, 50, 10, 107, 66},
		{100, 50, -10, 107, 66},
		{100, 50, 45, 106, 106},
		{100, 50, 90, 50, 100},
		{100, 50, 180, 100, 50},
		{1, 1, 45, 1, 1},
	}
	for _, c := range cases {
		newW, newH := ExpandedSize(c.w, c.h, c.angle)
		require.Equal(t, c.newW, newW, "width of %vx%v at %v", c.w, c.h, c.angle)
		require.Equal(t, c.newH, newH, "height of %vx%v at %v", c.w, c.h, c.angle)
	}
}

func TestExpandedSizeFormula(t *testing.T) {
	w, h := 64, 37
	for angle := -360; angle <= 360; angle++ {
		rad := float64(-angle) * (math.Pi / 180)
		cos := math.Abs(math.Cos(rad))
		sin := math.Abs(math.Sin(rad))
		newW, newH := ExpandedSize(w, h, angle)
		require.Equal(t, int(float64(h)*sin+float64(w)*cos), newW, "angle %v", angle)
		require.Equal(t, int(float64(h)*cos+float64(w)*sin), newH, "angle %v", angle)
		// Never smaller than the truncated bounding box of the rotated source
		require.GreaterOrEqual(t, float64(newW), math.Floor(float64(h)*sin+float64(w)*cos))
	}
}

func TestRotateZero(t *testing.T) {
	// Odd sizes, so that the center is not on a pixel boundary
	src := makeRamp(31, 17)
	dst := RotateWithBackground(src, 0, gray)
	require.Equal(t, src.Width, dst.Width)
	require.Equal(t, src.Height, dst.Height)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			require.Equal(t, pixel(src, x, y), pixel(dst, x, y), "pixel %v,%v", x, y)
		}
	}
}

func TestRotateClockwise(t *testing.T) {
	src := makeRamp(5, 3)
	dst := RotateWithBackground(src, 90, gray)
	require.Equal(t, 3, dst.Width)
	require.Equal(t, 5, dst.Height)
	// The top-left corner moves to the top-right
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			require.Equal(t, pixel(src, x, y), pixel(dst, 2-y, x), "source pixel %v,%v", x, y)
		}
	}
}

func TestRotateBackgroundFill(t *testing.T) {
	content := Color{10, 20, 30}
	w, h := 40, 20
	src := makeSolid(w, h, content)
	for _, angle := range []int{-10, 30, 135} {
		dst := RotateWithBackground(src, angle, gray)
		m, newW, newH := canvas(w, h, angle)
		require.Equal(t, newW, dst.Width)
		require.Equal(t, newH, dst.Height)

		// The corners of the expanded canvas have no source pixels behind them
		require.Equal(t, gray, pixel(dst, 0, 0), "angle %v", angle)
		require.Equal(t, gray, pixel(dst, newW-1, 0), "angle %v", angle)
		require.Equal(t, gray, pixel(dst, 0, newH-1), "angle %v", angle)
		require.Equal(t, gray, pixel(dst, newW-1, newH-1), "angle %v", angle)

		inv := m.Invert()
		nBackground := 0
		for y := 0; y < newH; y++ {
			for x := 0; x < newW; x++ {
				sx, sy := inv.Apply(float64(x), float64(y))
				if sx < -1 || sy < -1 || sx >= float64(w) || sy >= float64(h) {
					require.Equal(t, gray, pixel(dst, x, y), "angle %v, pixel %v,%v", angle, x, y)
					nBackground++
				} else if sx >= 1 && sy >= 1 && sx <= float64(w-2) && sy <= float64(h-2) {
					require.Equal(t, content, pixel(dst, x, y), "angle %v, pixel %v,%v", angle, x, y)
				}
			}
		}
		require.Greater(t, nBackground, 0)
	}
}

func TestRotateRoundTrip(t *testing.T) {
	w, h := 60, 40
	src := makeRamp(w, h)
	there := RotateWithBackground(src, 7, gray)
	back := RotateWithBackground(there, -7, gray)

	// Both rotations keep the source center on the canvas center, so the net effect is a translation
	dx := back.Width/2 - w/2
	dy := back.Height/2 - h/2
	margin := 3
	for y := margin; y < h-margin; y++ {
		for x := margin; x < w-margin; x++ {
			a := pixel(src, x, y)
			b := pixel(back, x+dx, y+dy)
			for c := range a {
				require.InDelta(t, int(a[c]), int(b[c]), 2, "pixel %v,%v channel %v", x, y, c)
			}
		}
	}
}

func TestRotateDeterministic(t *testing.T) {
	src := makeRamp(23, 29)
	a := RotateWithBackground(src, -4, gray)
	b := RotateWithBackground(src, -4, gray)
	require.Equal(t, a.Pixels, b.Pixels)
}

func TestRotatePreconditions(t *testing.T) {
	src := makeRamp(8, 8)
	require.Panics(t, func() { RotateWithBackground(src, 5, Color{1, 2}) })

	empty := &cimg.Image{Format: cimg.PixelFormatRGB}
	require.Panics(t, func() { RotateWithBackground(empty, 5, gray) })
}

package rotaug

import "math"

const deg2Rad = math.Pi / 180

// Affine is a 2x3 matrix mapping (x, y) to (m[0][0]*x + m[0][1]*y + m[0][2], m[1][0]*x + m[1][1]*y + m[1][2])
type Affine [2][3]float64

// RotationMatrix returns the matrix that rotates by degrees about (cx, cy), scaled by scale.
// Positive degrees rotate counter-clockwise on screen (y pointing down).
func RotationMatrix(cx, cy, degrees, scale float64) Affine {
	angle := degrees * deg2Rad
	a := scale * math.Cos(angle)
	b := scale * math.Sin(angle)
	return Affine{
		{a, b, (1-a)*cx - b*cy},
		{-b, a, b*cx + (1-a)*cy},
	}
}

func (m Affine) Apply(x, y float64) (float64, float64) {
	return m[0][0]*x + m[0][1]*y + m[0][2], m[1][0]*x + m[1][1]*y + m[1][2]
}

// Invert returns the inverse transform.
// A singular matrix inverts to the zero matrix, which maps every point to the origin.
func (m Affine) Invert() Affine {
	det := m[0][0]*m[1][1] - m[0][1]*m[1][0]
	if det == 0 {
		return Affine{}
	}
	d := 1 / det
	a11 := m[1][1] * d
	a12 := -m[0][1] * d
	a21 := -m[1][0] * d
	a22 := m[0][0] * d
	return Affine{
		{a11, a12, -a11*m[0][2] - a12*m[1][2]},
		{a21, a22, -a21*m[0][2] - a22*m[1][2]},
	}
}

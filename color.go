package rotaug

import (
	"fmt"
	"strconv"
	"strings"
)

// Color holds one 8-bit value per channel, in the channel order of the image it is used with
type Color []uint8

// DefaultBackground is the mid-gray fill used for exposed canvas, in RGB order.
// It is B,G,R 143,148,151, which is how the value is written in configuration.
var DefaultBackground = BGR(143, 148, 151)

// BGR builds an RGB color from values given blue first
func BGR(b, g, r uint8) Color {
	return Color{r, g, b}
}

// ParseColor parses a comma separated list of channel values, such as "143,148,151"
func ParseColor(s string) (Color, error) {
	parts := strings.Split(s, ",")
	c := make(Color, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid color %q: %w", s, err)
		}
		c = append(c, uint8(v))
	}
	return c, nil
}

func (c Color) String() string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.Itoa(int(v))
	}
	return strings.Join(parts, ",")
}

package rotaug

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// AngleRange is an inclusive range of whole degrees
type AngleRange struct {
	Min int
	Max int
}

// DefaultAngleRange is -10..+10 degrees
var DefaultAngleRange = AngleRange{Min: -10, Max: 10}

func (r AngleRange) Validate() error {
	if r.Min > r.Max {
		return fmt.Errorf("%w: min %v > max %v", ErrInvalidAngleRange, r.Min, r.Max)
	}
	return nil
}

// Pick draws an angle uniformly from the range.
// Min == Max is allowed, and always returns that value.
func (r AngleRange) Pick(rng *rand.Rand) int {
	// Unsigned, so that the width of ranges near the int limits does not overflow
	span := uint64(r.Max) - uint64(r.Min)
	if span == math.MaxUint64 {
		return int(rng.Uint64())
	}
	return r.Min + int(rng.Uint64N(span+1))
}

func (r AngleRange) String() string {
	return fmt.Sprintf("%v..%v", r.Min, r.Max)
}

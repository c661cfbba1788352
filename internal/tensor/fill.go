package tensor

import (
	"math/rand"

	"github.com/pkg/errors"
)

// Fill describes how a new Matrix's storage is initialized.
// A nil Fill leaves the storage zeroed.
//
// Variants:
//   - FillScalar: every element holds the same value
//   - FillRange: elements are drawn uniformly from [lo, hi)
//   - FillSequence: explicit row-major values, one per element
type Fill interface {
	fill(dst []float32) error
}

// FillScalar fills every element with v.
type FillScalar float32

func (f FillScalar) fill(dst []float32) error {
	v := float32(f)
	for i := range dst {
		dst[i] = v
	}
	return nil
}

// FillRange draws every element uniformly from [Lo, Hi).
// If Rand is nil the math/rand global source is used.
type FillRange struct {
	Lo, Hi float32
	Rand   *rand.Rand
}

// Uniform returns a FillRange over [lo, hi) using the global source.
func Uniform(lo, hi float32) FillRange {
	return FillRange{Lo: lo, Hi: hi}
}

func (f FillRange) fill(dst []float32) error {
	if f.Hi < f.Lo {
		return errors.Wrapf(ErrShape, "fill range [%g, %g) is empty", f.Lo, f.Hi)
	}
	next := rand.Float32
	if f.Rand != nil {
		next = f.Rand.Float32
	}
	span := f.Hi - f.Lo
	for i := range dst {
		dst[i] = f.Lo + next()*span
	}
	return nil
}

// FillSequence copies explicit values; its length must equal the size.
type FillSequence []float32

func (f FillSequence) fill(dst []float32) error {
	if len(f) != len(dst) {
		return errors.Wrapf(ErrShape, "fill sequence has %d values, shape requires %d", len(f), len(dst))
	}
	copy(dst, f)
	return nil
}

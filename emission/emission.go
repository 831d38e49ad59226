// Package emission maps one observed frame to a log-likelihood for each
// state variant of a pitch model.
//
// Two shapes exist:
//
//   - Silence: log(p) for a silent frame, log((1−p)/12) for a voiced one
//     (an unexpected voiced frame is spread uniformly over the 12 pitch classes).
//   - Sound(m): −Inf for a silent frame; otherwise the best log kernel score
//     among the candidate means m, m−12, m+12 (pitch class is circular).
//     A voiced frame whose pitch is NaN carries no estimate and scores −Inf.
//
// The default kernel is the standard normal CDF evaluated at (x − mean)/σ.
// It is kept for compatibility with models trained against it; KernelDensity
// is available for callers that want a symmetric peak.
package emission

import (
	"errors"
	"fmt"
	"math"
)

// ErrPitchClassOutOfRange indicates Sound was asked for a pitch class outside [0, 11].
var ErrPitchClassOutOfRange = errors.New("emission: pitch class out of range")

// pitchClasses is the octave size used for wrap-around and the uniform voiced spread.
const pitchClasses = 12

// Emission is one observed frame.
type Emission struct {
	// Silent reports that no pitch was detected.
	Silent bool

	// NormalizedPitch is a continuous pitch class, normally in [0, 12).
	// NaN means the tracker produced no estimate.
	NormalizedPitch float64
}

// Func returns the natural-log likelihood of an observation; −Inf marks an impossible one.
type Func func(Emission) float64

// Kernel returns the natural-log score of a standardized distance z = (x − mean)/σ.
type Kernel func(z float64) float64

// tailZ is where KernelCDF switches from log(Φ(z)) to the asymptotic tail.
// Φ(tailZ) ≈ 1e-268 is still representable, so both branches agree there.
const tailZ = -35.0

var logSqrt2Pi = 0.5 * math.Log(2*math.Pi)

// KernelCDF is log Φ(z), the log of the standard normal cumulative distribution.
// A NaN z yields NaN.
// Below tailZ it uses the Mills-ratio series so that far-off pitches stay finite
// instead of underflowing to −Inf.
func KernelCDF(z float64) float64 {
	if z >= tailZ {
		return math.Log(0.5 * math.Erfc(-z/math.Sqrt2))
	}
	z2 := z * z
	series := 1 - 1/z2 + 3/(z2*z2) - 15/(z2*z2*z2)

	return -0.5*z2 - logSqrt2Pi - math.Log(-z) + math.Log(series)
}

// KernelDensity is log φ(z), the log of the standard normal density.
func KernelDensity(z float64) float64 {
	return -0.5*z*z - logSqrt2Pi
}

// Silence returns the emission function shared by the start state and every silence state.
func Silence(opts ...Option) Func {
	cfg := newConfig(opts...)
	silent := math.Log(cfg.silentProbability)
	voiced := math.Log((1 - cfg.silentProbability) / pitchClasses)

	return func(e Emission) float64 {
		if e.Silent {
			return silent
		}

		return voiced
	}
}

// Sound returns the emission function of a sounding note with the given pitch class.
func Sound(pitchClass int, opts ...Option) (Func, error) {
	if pitchClass < 0 || pitchClass >= pitchClasses {
		return nil, fmt.Errorf("%w: %d", ErrPitchClassOutOfRange, pitchClass)
	}
	cfg := newConfig(opts...)
	mean := float64(pitchClass)
	sd := cfg.stdDev
	k := cfg.kernel

	return func(e Emission) float64 {
		x := e.NormalizedPitch
		if e.Silent || math.IsNaN(x) {
			return math.Inf(-1)
		}
		// log is monotone: the max of the log scores is the log of the max score.
		return math.Max(
			math.Max(k((x-mean)/sd), k((x-(mean-pitchClasses))/sd)),
			k((x-(mean+pitchClasses))/sd),
		)
	}, nil
}

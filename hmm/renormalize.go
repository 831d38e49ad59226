package hmm

import (
	"fmt"
	"math"
)

// Renormalized holds the log-weights of one silence state's edges.
type Renormalized struct {
	// Entry is the Sound→Silence weight: log(Σ deferred).
	Entry float64

	// SelfLoop is the Silence→Silence weight: log(selfLoop).
	SelfLoop float64

	// Exits are the Silence→target weights, index-aligned with the deferred input:
	// log(p) + log(1 − selfLoop) − log(Σ deferred).
	Exits []float64
}

// Renormalize converts the via-silence probabilities collected for one note
// into silence-state edge weights. The exits keep their relative ratios and,
// together with the self-loop, sum to 1 in the probability domain.
//
// Errors: ErrNoViaSilenceMass if deferred is empty or sums to zero,
// ErrMalformedProbability if selfLoop is outside (0, 1) or any entry is
// outside [0, 1].
// Complexity: O(len(deferred)).
func Renormalize(selfLoop float64, deferred []float64) (Renormalized, error) {
	if !(selfLoop > 0 && selfLoop < 1) {
		return Renormalized{}, fmt.Errorf("%w: self-loop %v", ErrMalformedProbability, selfLoop)
	}
	total := 0.0
	for i, p := range deferred {
		if !validProbability(p) {
			return Renormalized{}, fmt.Errorf("%w: deferred[%d] = %v", ErrMalformedProbability, i, p)
		}
		total += p
	}
	if total == 0 {
		return Renormalized{}, ErrNoViaSilenceMass
	}

	logTotal := math.Log(total)
	adjust := math.Log(1-selfLoop) - logTotal
	out := Renormalized{
		Entry:    logTotal,
		SelfLoop: math.Log(selfLoop),
		Exits:    make([]float64, len(deferred)),
	}
	for i, p := range deferred {
		out.Exits[i] = math.Log(p) + adjust
	}

	return out, nil
}

// validProbability reports p ∈ [0, 1]; NaN fails.
func validProbability(p float64) bool {
	return p >= 0 && p <= 1
}

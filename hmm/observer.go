package hmm

import "time"

// Report describes one Generate call.
type Report struct {
	// Notes is the length of the input score, rests included.
	Notes int

	// Stats is the produced model's summary; zero on failure.
	Stats Stats

	// Duration is the wall time of the call.
	Duration time.Duration

	// Err is the failure, nil on success.
	Err error
}

// Observer is notified after every Generate call. Implementations must be
// safe for concurrent use when the generator is shared across goroutines.
type Observer interface {
	ObserveGeneration(r Report)
}

type nopObserver struct{}

func (nopObserver) ObserveGeneration(Report) {}

// options.go — functional options for the emission package.
//
// Contract:
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     Emission functions themselves never panic.
//   • Defaults reproduce the trained model: p(silent|silence)=0.7, σ=0.5, CDF kernel.

package emission

import "math"

// Defaults of the trained model.
const (
	DefaultSilentProbability = 0.7
	DefaultStdDev            = 0.5
)

// Option customizes an emission function before it is built.
type Option func(*config)

type config struct {
	silentProbability float64
	stdDev            float64
	kernel            Kernel
}

func newConfig(opts ...Option) config {
	cfg := config{
		silentProbability: DefaultSilentProbability,
		stdDev:            DefaultStdDev,
		kernel:            KernelCDF,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithSilentProbability sets p(silent frame | silence state), 0 < p < 1.
func WithSilentProbability(p float64) Option {
	if !(p > 0 && p < 1) {
		panic("emission: WithSilentProbability(p) requires 0 < p < 1")
	}
	return func(c *config) { c.silentProbability = p }
}

// WithStdDev sets σ of the pitch kernel, σ > 0.
func WithStdDev(sd float64) Option {
	if !(sd > 0) || math.IsInf(sd, 1) {
		panic("emission: WithStdDev(sd) requires a positive finite sd")
	}
	return func(c *config) { c.stdDev = sd }
}

// WithKernel replaces the pitch kernel. Panics on nil.
func WithKernel(k Kernel) Option {
	if k == nil {
		panic("emission: WithKernel(nil)")
	}
	return func(c *config) { c.kernel = k }
}

// KernelByName resolves "cdf" or "density"; ok is false for anything else.
func KernelByName(name string) (k Kernel, ok bool) {
	switch name {
	case "", "cdf":
		return KernelCDF, true
	case "density", "pdf":
		return KernelDensity, true
	}

	return nil, false
}

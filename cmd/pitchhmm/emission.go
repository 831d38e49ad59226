package main

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/katalvlaran/pitchhmm/emission"
	"github.com/katalvlaran/pitchhmm/note"
	"github.com/spf13/cobra"
)

type emissionOptions struct {
	pitchClass int
	pitch      float64
	hz         float64
	silent     bool
	kernel     string
	stdDev     float64
}

func newEmissionCmd() *cobra.Command {
	opts := &emissionOptions{}
	cmd := &cobra.Command{
		Use:   "emission",
		Short: "Print sound and silence log-likelihoods of one observed frame",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEmission(cmd.OutOrStdout(), opts, cmd.Flags().Changed("pitch"), cmd.Flags().Changed("hz"))
		},
	}
	cmd.Flags().IntVar(&opts.pitchClass, "pitch-class", 0, "pitch class of the sound state, 0 (C) to 11 (B)")
	cmd.Flags().Float64Var(&opts.pitch, "pitch", 0, "normalized pitch of the frame")
	cmd.Flags().Float64Var(&opts.hz, "hz", 0, "frame frequency in Hz, folded to a normalized pitch")
	cmd.Flags().BoolVar(&opts.silent, "silent", false, "the frame is silent")
	cmd.Flags().StringVar(&opts.kernel, "kernel", "cdf", "sound kernel: cdf or density")
	cmd.Flags().Float64Var(&opts.stdDev, "std-dev", emission.DefaultStdDev, "sound kernel standard deviation")
	_ = cmd.MarkFlagRequired("pitch-class")
	cmd.MarkFlagsMutuallyExclusive("pitch", "hz")

	return cmd
}

func runEmission(out io.Writer, opts *emissionOptions, hasPitch, hasHz bool) error {
	kernel, ok := emission.KernelByName(opts.kernel)
	if !ok {
		return fmt.Errorf("--kernel: unknown kernel %q", opts.kernel)
	}
	if !(opts.stdDev > 0) || math.IsInf(opts.stdDev, 1) {
		return errors.New("--std-dev must be positive and finite")
	}

	frame := emission.Emission{Silent: opts.silent}
	switch {
	case opts.silent:
	case hasHz:
		x, err := note.NormalizedPitch(opts.hz)
		if err != nil {
			return err
		}
		nearest, _ := note.HzToMIDI(opts.hz)
		frame.NormalizedPitch = x
		fmt.Fprintf(out, "frame      %.2f Hz, nearest %s (MIDI %d)\n", opts.hz, note.Name(nearest), nearest)
	case hasPitch:
		frame.NormalizedPitch = opts.pitch
	default:
		return errors.New("one of --pitch, --hz or --silent is required")
	}

	sound, err := emission.Sound(opts.pitchClass, emission.WithKernel(kernel), emission.WithStdDev(opts.stdDev))
	if err != nil {
		return err
	}
	silence := emission.Silence()

	fmt.Fprintf(out, "state      %s (pitch class %d)\n", note.Name(opts.pitchClass), opts.pitchClass)
	if frame.Silent {
		fmt.Fprintln(out, "frame      silent")
	} else {
		fmt.Fprintf(out, "pitch      %.4f\n", frame.NormalizedPitch)
	}
	fmt.Fprintf(out, "sound      %.6f\n", sound(frame))
	fmt.Fprintf(out, "silence    %.6f\n", silence(frame))

	return nil
}

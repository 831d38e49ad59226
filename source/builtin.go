package source

// Advance moves to the next sounding note with fixed direct and via-silence probabilities.
// It proposes nothing when no sounding note follows.
type Advance struct {
	Direct     float64
	ViaSilence float64
}

// Propose implements Source.
func (a Advance) Propose(ctx Context) []Result {
	next, ok := ctx.NextSounding(1)
	if !ok || (a.Direct == 0 && a.ViaSilence == 0) {
		return nil
	}

	return []Result{{ToNoteIndex: next.Index, Direct: a.Direct, ViaSilence: a.ViaSilence}}
}

// Skip jumps over Notes sounding notes through silence, modelling a singer who
// drops notes. Notes = 1 targets the sounding note after next.
type Skip struct {
	Notes      int
	ViaSilence float64
}

// Propose implements Source.
func (s Skip) Propose(ctx Context) []Result {
	if s.Notes < 1 || s.ViaSilence == 0 {
		return nil
	}
	target, ok := ctx.NextSounding(s.Notes + 1)
	if !ok {
		return nil
	}

	return []Result{{ToNoteIndex: target.Index, ViaSilence: s.ViaSilence}}
}

// RemainderEpsilon is the smallest unclaimed mass Remainder proposes.
// Anything below it is rounding left over from earlier sources.
const RemainderEpsilon = 1e-9

// Remainder claims whatever mass earlier sources left unclaimed, routed through
// silence to the next sounding note. Register it last.
type Remainder struct{}

// Propose implements Source.
func (Remainder) Propose(ctx Context) []Result {
	rem := ctx.Unclaimed()
	if !(rem >= RemainderEpsilon) {
		return nil
	}
	next, ok := ctx.NextSounding(1)
	if !ok {
		return nil
	}
	if rem > 1 {
		rem = 1
	}

	return []Result{{ToNoteIndex: next.Index, ViaSilence: rem}}
}

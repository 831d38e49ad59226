package hmm_test

import (
	"bytes"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/katalvlaran/pitchhmm/hmm"
	"github.com/katalvlaran/pitchhmm/note"
	"github.com/katalvlaran/pitchhmm/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// twoNotes is A (pitch class 0) followed by B (pitch class 7).
var twoNotes = note.Sequence{
	note.Sounding(0, 0, 60),
	note.Sounding(1, 480, 67),
}

// phrase: C · E · rest · G · A · rest · C
var phrase = note.Sequence{
	note.Sounding(0, 0, 60),
	note.Sounding(1, 480, 64),
	note.Rest(2, 960),
	note.Sounding(3, 1440, 67),
	note.Sounding(4, 1920, 69),
	note.Rest(5, 2400),
	note.Sounding(6, 2880, 72),
}

// fixed proposes the same results for every note with a successor.
func fixed(results ...source.Result) source.Source {
	return source.Func(func(ctx source.Context) []source.Result {
		if _, ok := ctx.NextSounding(1); !ok {
			return nil
		}
		return results
	})
}

// toNext proposes direct and via mass to the next sounding note.
func toNext(direct, via float64) source.Source {
	return source.Advance{Direct: direct, ViaSilence: via}
}

func newPhraseGenerator(opts ...hmm.Option) *hmm.Generator {
	g := hmm.NewGenerator(opts...)
	g.Add(toNext(0.5, 0.2))
	g.Add(source.Skip{Notes: 1, ViaSilence: 0.1})
	g.Add(source.Remainder{})

	return g
}

// TestGenerate_Acceptance covers a single direct edge with no via-silence mass.
func TestGenerate_Acceptance(t *testing.T) {
	g := hmm.NewGenerator()
	g.Add(source.Func(func(ctx source.Context) []source.Result {
		if ctx.Note().Index == 0 {
			return []source.Result{{ToNoteIndex: 1, Direct: 1.0}}
		}
		return nil
	}))

	m, start, err := g.Generate(twoNotes)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Same(t, m.Start(), start)
	assert.Len(t, m.States(), 5)

	a, ok := m.Sound(0)
	require.True(t, ok)
	b, ok := m.Sound(1)
	require.True(t, ok)

	out, err := m.OutgoingEdges(a)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Same(t, b, out[0].To)
	assert.Equal(t, 0.0, out[0].LogWeight)

	for _, idx := range []int{0, 1} {
		sil, ok := m.Silence(idx)
		require.True(t, ok)
		in, err := m.IncomingEdges(sil)
		require.NoError(t, err)
		assert.Empty(t, in, "no edges may enter silence/%d", idx)
		out, err := m.OutgoingEdges(sil)
		require.NoError(t, err)
		assert.Empty(t, out, "no edges may leave silence/%d", idx)
	}
	assert.Equal(t, 1, m.Stats().Edges)
}

// TestGenerate_RejectsExceeds covers 0.6 direct + 0.6 via for one note.
func TestGenerate_RejectsExceeds(t *testing.T) {
	g := hmm.NewGenerator()
	g.Add(toNext(0.6, 0.6))

	m, start, err := g.Generate(twoNotes)
	require.Error(t, err)
	assert.ErrorIs(t, err, hmm.ErrProbabilityExceeds)
	assert.ErrorIs(t, err, hmm.ErrBudget)
	assert.NotErrorIs(t, err, hmm.ErrProbabilityShort)
	assert.Contains(t, err.Error(), "note 0")
	assert.Nil(t, m)
	assert.Nil(t, start)
}

// TestGenerate_RejectsShort covers a note whose sources leave mass unclaimed.
func TestGenerate_RejectsShort(t *testing.T) {
	g := hmm.NewGenerator()
	g.Add(toNext(0.5, 0.3))

	m, _, err := g.Generate(twoNotes)
	assert.ErrorIs(t, err, hmm.ErrProbabilityShort)
	assert.ErrorIs(t, err, hmm.ErrBudget)
	assert.Nil(t, m)

	// A non-final note with no proposals at all is also short.
	empty := hmm.NewGenerator()
	_, _, err = empty.Generate(twoNotes)
	assert.ErrorIs(t, err, hmm.ErrProbabilityShort)
}

// TestGenerate_Tolerance verifies totals within ±tolerance are accepted.
func TestGenerate_Tolerance(t *testing.T) {
	for _, total := range []struct {
		direct, via float64
		ok          bool
	}{
		{0.6, 0.395, true},  // 0.995
		{0.6, 0.405, true},  // 1.005
		{0.6, 0.385, false}, // 0.985
		{0.6, 0.415, false}, // 1.015
	} {
		g := hmm.NewGenerator()
		g.Add(toNext(total.direct, total.via))
		_, _, err := g.Generate(twoNotes)
		if total.ok {
			assert.NoError(t, err, "%v", total)
		} else {
			assert.ErrorIs(t, err, hmm.ErrBudget, "%v", total)
		}
	}

	strict := hmm.NewGenerator(hmm.WithTolerance(0))
	strict.Add(toNext(0.6, 0.395))
	_, _, err := strict.Generate(twoNotes)
	assert.ErrorIs(t, err, hmm.ErrProbabilityShort)
}

// TestGenerate_MalformedProbability covers negative, >1 and NaN proposals.
func TestGenerate_MalformedProbability(t *testing.T) {
	for _, r := range []source.Result{
		{ToNoteIndex: 1, Direct: -0.1},
		{ToNoteIndex: 1, Direct: 1.5},
		{ToNoteIndex: 1, ViaSilence: -1},
		{ToNoteIndex: 1, ViaSilence: math.NaN()},
		{ToNoteIndex: 1, Direct: math.Inf(1)},
	} {
		g := hmm.NewGenerator()
		g.Add(fixed(r))
		m, _, err := g.Generate(twoNotes)
		assert.ErrorIs(t, err, hmm.ErrMalformedProbability, "%+v", r)
		assert.Nil(t, m)
	}
}

// TestGenerate_StateNotFound covers targets that are rests or absent.
func TestGenerate_StateNotFound(t *testing.T) {
	for _, target := range []int{2, 42, -1} {
		g := hmm.NewGenerator()
		g.Add(fixed(source.Result{ToNoteIndex: target, Direct: 1}))
		_, _, err := g.Generate(phrase)
		assert.ErrorIs(t, err, hmm.ErrStateNotFound, "target %d", target)
	}
}

// TestGenerate_InvalidNotes covers duplicate indices and bad pitch classes.
func TestGenerate_InvalidNotes(t *testing.T) {
	g := hmm.NewGenerator()
	g.Add(toNext(1, 0))

	_, _, err := g.Generate(note.Sequence{note.Sounding(0, 0, 60), note.Sounding(0, 480, 62)})
	assert.ErrorIs(t, err, hmm.ErrInvalidNotes)
	assert.ErrorIs(t, err, note.ErrDuplicateIndex)

	_, _, err = g.Generate(note.Sequence{{Index: 0, PitchClass: 12}})
	assert.ErrorIs(t, err, hmm.ErrInvalidNotes)
	assert.ErrorIs(t, err, note.ErrPitchClassOutOfRange)
}

// TestGenerate_ProbabilityConservation verifies every assembled state sums to 1.
func TestGenerate_ProbabilityConservation(t *testing.T) {
	m, _, err := newPhraseGenerator().Generate(phrase)
	require.NoError(t, err)

	for _, s := range m.States() {
		out, err := m.OutgoingEdges(s)
		require.NoError(t, err)
		if len(out) == 0 {
			continue
		}
		sum, err := m.TransitionProbability(s)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, sum, 1e-9, "state %s", s)
	}

	last, _ := m.Sound(6)
	out, err := m.OutgoingEdges(last)
	require.NoError(t, err)
	assert.Empty(t, out, "final note ends the score")
}

// TestGenerate_SilenceSelfLoop verifies each connected silence state's shape and mass.
func TestGenerate_SilenceSelfLoop(t *testing.T) {
	m, _, err := newPhraseGenerator(hmm.WithSilenceSelfLoop(0.4)).Generate(phrase)
	require.NoError(t, err)

	connected := 0
	for _, s := range m.States() {
		if s.Kind() != hmm.KindSilence {
			continue
		}
		out, err := m.OutgoingEdges(s)
		require.NoError(t, err)
		if len(out) == 0 {
			continue
		}
		connected++

		assert.Same(t, s, out[0].To, "self-loop comes first")
		assert.InDelta(t, math.Log(0.4), out[0].LogWeight, 1e-12)
		sum := 0.0
		for _, e := range out {
			sum += math.Exp(e.LogWeight)
			if e.To != s {
				assert.Equal(t, hmm.KindSound, e.To.Kind())
			}
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "state %s", s)
	}
	assert.Equal(t, 4, connected, "every note but the last routes through silence")
}

// TestGenerate_RenormalizationRatio verifies exit ratios survive assembly.
func TestGenerate_RenormalizationRatio(t *testing.T) {
	g := hmm.NewGenerator()
	g.Add(source.Func(func(ctx source.Context) []source.Result {
		if ctx.Note().Index != 0 {
			return nil
		}
		return []source.Result{
			{ToNoteIndex: 1, Direct: 0.6, ViaSilence: 0.3},
			{ToNoteIndex: 3, ViaSilence: 0.1},
		}
	}))
	g.Add(source.Func(func(ctx source.Context) []source.Result {
		if ctx.Note().Index == 0 {
			return nil
		}
		if next, ok := ctx.NextSounding(1); ok {
			return []source.Result{{ToNoteIndex: next.Index, Direct: 1}}
		}
		return nil
	}))

	m, _, err := g.Generate(phrase)
	require.NoError(t, err)

	sil, _ := m.Silence(0)
	out, err := m.OutgoingEdges(sil)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "sound/1", out[1].To.ID())
	assert.Equal(t, "sound/3", out[2].To.ID())
	assert.InDelta(t, 3.0, math.Exp(out[1].LogWeight)/math.Exp(out[2].LogWeight), 1e-9)

	in, err := m.IncomingEdges(sil)
	require.NoError(t, err)
	require.Len(t, in, 2, "entry edge and self-loop")
	for _, e := range in {
		switch e.From.ID() {
		case "sound/0":
			assert.InDelta(t, math.Log(0.4), e.LogWeight, 1e-12)
		case "silence/0":
			assert.InDelta(t, math.Log(0.3), e.LogWeight, 1e-12)
		default:
			t.Errorf("unexpected incoming edge from %s", e.From.ID())
		}
	}
}

// TestGenerate_RemainderRounding verifies float leftovers do not become edges.
func TestGenerate_RemainderRounding(t *testing.T) {
	g := hmm.NewGenerator()
	g.Add(toNext(0.7, 0.3))
	g.Add(source.Remainder{})

	m, _, err := g.Generate(twoNotes)
	require.NoError(t, err)

	sil, _ := m.Silence(0)
	out, err := m.OutgoingEdges(sil)
	require.NoError(t, err)
	require.Len(t, out, 2, "self-loop and one exit")
	assert.Equal(t, "sound/1", out[1].To.ID())
	assert.InDelta(t, math.Log(0.7), out[1].LogWeight, 1e-12)
	assert.Equal(t, 4, m.Stats().Edges)
}

// TestGenerate_ContextBudget verifies what each source sees of earlier claims.
func TestGenerate_ContextBudget(t *testing.T) {
	var seen []source.Context
	g := hmm.NewGenerator()
	g.Add(toNext(0.25, 0.25))
	g.Add(source.Func(func(ctx source.Context) []source.Result {
		seen = append(seen, ctx)
		return nil
	}))
	g.Add(source.Remainder{})

	m, _, err := g.Generate(twoNotes)
	require.NoError(t, err)
	require.Len(t, seen, 2)

	assert.Equal(t, 0.75, seen[0].Remaining())
	assert.Equal(t, 0.25, seen[0].Deferred())
	assert.Equal(t, 0.5, seen[0].Unclaimed())
	assert.Equal(t, 1.0, seen[1].Remaining(), "final note: nothing claimed")

	sil, _ := m.Silence(0)
	out, err := m.OutgoingEdges(sil)
	require.NoError(t, err)
	assert.Len(t, out, 3, "self-loop, advance exit, remainder exit")
}

// TestGenerate_FinalNoteProposals verifies a final note with proposals is still checked.
func TestGenerate_FinalNoteProposals(t *testing.T) {
	g := hmm.NewGenerator()
	g.Add(source.Func(func(ctx source.Context) []source.Result {
		return []source.Result{{ToNoteIndex: 0, Direct: 0.5}}
	}))
	_, _, err := g.Generate(twoNotes)
	assert.ErrorIs(t, err, hmm.ErrProbabilityShort)

	loop := hmm.NewGenerator()
	loop.Add(source.Func(func(ctx source.Context) []source.Result {
		return []source.Result{{ToNoteIndex: 0, Direct: 0.5, ViaSilence: 0.5}}
	}))
	m, _, err := loop.Generate(twoNotes)
	require.NoError(t, err)
	unreached, err := m.Unreachable()
	require.NoError(t, err)
	assert.Equal(t, []*hmm.State{mustSound(t, m, 1)}, unreached)
}

// TestGenerate_Determinism verifies bit-identical weights across calls.
func TestGenerate_Determinism(t *testing.T) {
	g := newPhraseGenerator()
	m1, _, err := g.Generate(phrase)
	require.NoError(t, err)
	m2, _, err := g.Generate(phrase)
	require.NoError(t, err)

	e1, e2 := m1.Graph().Edges(), m2.Graph().Edges()
	require.Equal(t, len(e1), len(e2))
	for i := range e1 {
		assert.Equal(t, e1[i].From, e2[i].From)
		assert.Equal(t, e1[i].To, e2[i].To)
		assert.Equal(t, math.Float64bits(e1[i].Weight), math.Float64bits(e2[i].Weight), "edge %d", i)
	}
}

// TestGenerate_Concurrent verifies one generator serves parallel calls.
func TestGenerate_Concurrent(t *testing.T) {
	g := newPhraseGenerator()
	want, _, err := g.Generate(phrase)
	require.NoError(t, err)

	var eg errgroup.Group
	got := make([]hmm.Stats, 16)
	for i := range got {
		eg.Go(func() error {
			m, _, err := g.Generate(phrase)
			if err != nil {
				return err
			}
			got[i] = m.Stats()
			return nil
		})
	}
	require.NoError(t, eg.Wait())
	for _, s := range got {
		assert.Equal(t, want.Stats(), s)
	}
}

// TestGenerate_InputNotRetained verifies the caller's slice may change afterwards.
func TestGenerate_InputNotRetained(t *testing.T) {
	notes := append(note.Sequence(nil), twoNotes...)
	g := hmm.NewGenerator()
	g.Add(toNext(1, 0))
	m, _, err := g.Generate(notes)
	require.NoError(t, err)

	notes[0].PitchClass = 5
	assert.Equal(t, 0, m.Notes()[0].PitchClass)
	assert.Equal(t, 0, mustSound(t, m, 0).PitchClass())
}

type recorder struct {
	mu      sync.Mutex
	reports []hmm.Report
}

func (r *recorder) ObserveGeneration(rep hmm.Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, rep)
}

// TestGenerate_ObserverAndLogger verifies hooks see successes and failures.
func TestGenerate_ObserverAndLogger(t *testing.T) {
	rec := &recorder{}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	g := newPhraseGenerator(hmm.WithObserver(rec), hmm.WithLogger(logger))
	_, _, err := g.Generate(phrase)
	require.NoError(t, err)

	bad := hmm.NewGenerator(hmm.WithObserver(rec), hmm.WithLogger(logger))
	bad.Add(toNext(0.6, 0.6))
	_, _, err = bad.Generate(twoNotes)
	require.Error(t, err)

	require.Len(t, rec.reports, 2)
	assert.NoError(t, rec.reports[0].Err)
	assert.Equal(t, 7, rec.reports[0].Stats.Notes)
	assert.Equal(t, 5, rec.reports[0].Stats.SoundStates)
	assert.Equal(t, 11, rec.reports[0].Stats.States())
	assert.ErrorIs(t, rec.reports[1].Err, hmm.ErrProbabilityExceeds)
	assert.Zero(t, rec.reports[1].Stats)

	logs := buf.String()
	assert.Contains(t, logs, "hmm: note assembled")
	assert.Contains(t, logs, "hmm: terminal note")
	assert.Contains(t, logs, "hmm: model generated")
	assert.Contains(t, logs, "hmm: generation failed")
}

// TestOptions_Panics verifies option constructors reject meaningless values.
func TestOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { hmm.WithSilenceSelfLoop(0) })
	assert.Panics(t, func() { hmm.WithSilenceSelfLoop(1) })
	assert.Panics(t, func() { hmm.WithSilenceSelfLoop(math.NaN()) })
	assert.Panics(t, func() { hmm.WithTolerance(-0.1) })
	assert.Panics(t, func() { hmm.WithTolerance(math.Inf(1)) })
	assert.Panics(t, func() { hmm.WithLogger(nil) })
	assert.Panics(t, func() { hmm.WithObserver(nil) })
	assert.Panics(t, func() { hmm.NewGenerator().Add(nil) })

	g := hmm.NewGenerator()
	g.Add(source.Remainder{})
	assert.Equal(t, 1, g.Sources())
}

func mustSound(t *testing.T, m *hmm.Model, idx int) *hmm.State {
	t.Helper()
	s, ok := m.Sound(idx)
	require.True(t, ok, "sound/%d", idx)

	return s
}

package hmm_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/pitchhmm/emission"
	"github.com/katalvlaran/pitchhmm/hmm"
	"github.com/katalvlaran/pitchhmm/note"
	"github.com/katalvlaran/pitchhmm/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestModel_States verifies creation order, identity and per-kind lookups.
func TestModel_States(t *testing.T) {
	m, start, err := newPhraseGenerator().Generate(phrase)
	require.NoError(t, err)

	ids := make([]string, 0, 11)
	for _, s := range m.States() {
		ids = append(ids, s.ID())
	}
	assert.Equal(t, []string{
		"start",
		"sound/0", "silence/0",
		"sound/1", "silence/1",
		"sound/3", "silence/3",
		"sound/4", "silence/4",
		"sound/6", "silence/6",
	}, ids)

	assert.Equal(t, hmm.KindStart, start.Kind())
	assert.Equal(t, -1, start.NoteIndex())
	assert.Equal(t, "start", start.String())

	s3, ok := m.Sound(3)
	require.True(t, ok)
	assert.Equal(t, hmm.KindSound, s3.Kind())
	assert.Equal(t, 7, s3.PitchClass())
	assert.Equal(t, 3, s3.NoteIndex())

	_, ok = m.Sound(2)
	assert.False(t, ok, "rests produce no states")
	_, ok = m.Silence(5)
	assert.False(t, ok)

	byID, ok := m.State("silence/4")
	require.True(t, ok)
	assert.Equal(t, hmm.KindSilence, byID.Kind())
	assert.Equal(t, "silence", hmm.KindSilence.String())
}

// TestModel_Emissions verifies each state kind carries the right emission model.
func TestModel_Emissions(t *testing.T) {
	m, start, err := newPhraseGenerator().Generate(phrase)
	require.NoError(t, err)

	silent := emission.Emission{Silent: true}
	voiced := emission.Emission{NormalizedPitch: 7}

	s3, _ := m.Sound(3)
	assert.True(t, math.IsInf(s3.LogLikelihood(silent), -1))
	assert.InDelta(t, math.Log(0.5), s3.LogLikelihood(emission.Emission{NormalizedPitch: -5}), 1e-12)
	assert.InDelta(t, 0.0, s3.LogLikelihood(voiced), 1e-12)

	sil, _ := m.Silence(3)
	assert.InDelta(t, math.Log(0.7), sil.LogLikelihood(silent), 1e-12)
	assert.InDelta(t, math.Log(0.3/12), sil.LogLikelihood(voiced), 1e-12)
	assert.Equal(t, sil.LogLikelihood(voiced), start.LogLikelihood(voiced))
}

// TestModel_EmissionOptions verifies WithEmission reaches every state.
func TestModel_EmissionOptions(t *testing.T) {
	g := hmm.NewGenerator(hmm.WithEmission(emission.WithSilentProbability(0.9), emission.WithKernel(emission.KernelDensity)))
	g.Add(source.Advance{Direct: 1})
	m, start, err := g.Generate(twoNotes)
	require.NoError(t, err)

	assert.InDelta(t, math.Log(0.9), start.LogLikelihood(emission.Emission{Silent: true}), 1e-12)
	b, _ := m.Sound(1)
	at := b.LogLikelihood(emission.Emission{NormalizedPitch: 7})
	assert.Equal(t, at, b.LogLikelihood(emission.Emission{NormalizedPitch: -5}))
	assert.Equal(t, at, b.LogLikelihood(emission.Emission{NormalizedPitch: 19}))
}

// TestModel_Unreachable verifies reachability over possible edges.
func TestModel_Unreachable(t *testing.T) {
	// 0 → 2 directly, 1 → 2 directly: nothing enters note 1.
	g := hmm.NewGenerator()
	g.Add(source.Func(func(ctx source.Context) []source.Result {
		if ctx.Note().Index < 2 {
			return []source.Result{{ToNoteIndex: 2, Direct: 1}}
		}
		return nil
	}))
	notes := note.Sequence{note.Sounding(0, 0, 60), note.Sounding(1, 480, 62), note.Sounding(2, 960, 64)}
	m, _, err := g.Generate(notes)
	require.NoError(t, err)

	got, err := m.Unreachable()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "sound/1", got[0].ID())

	from1, err := m.Unreachable(mustSound(t, m, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{"sound/0"}, stateIDs(from1))

	connected, _, err := newPhraseGenerator().Generate(phrase)
	require.NoError(t, err)
	none, err := connected.Unreachable()
	require.NoError(t, err)
	assert.Empty(t, none)
}

// TestModel_ForeignState verifies lookups reject states of another model.
func TestModel_ForeignState(t *testing.T) {
	g := newPhraseGenerator()
	m1, _, err := g.Generate(phrase)
	require.NoError(t, err)
	m2, _, err := g.Generate(phrase)
	require.NoError(t, err)

	foreign := mustSound(t, m2, 0)
	_, err = m1.OutgoingEdges(foreign)
	assert.ErrorIs(t, err, hmm.ErrStateNotFound)
	_, err = m1.IncomingEdges(nil)
	assert.ErrorIs(t, err, hmm.ErrStateNotFound)
	_, err = m1.Unreachable(foreign)
	assert.ErrorIs(t, err, hmm.ErrStateNotFound)
}

// TestModel_GraphIsCopy verifies Graph() cannot mutate the model.
func TestModel_GraphIsCopy(t *testing.T) {
	m, _, err := newPhraseGenerator().Generate(phrase)
	require.NoError(t, err)
	before := m.Stats()

	g := m.Graph()
	_, err = g.AddEdge("start", "sound/0", 0)
	require.NoError(t, err)
	require.NoError(t, g.AddVertex("extra"))

	assert.Equal(t, before, m.Stats())
	assert.Equal(t, before.Edges+1, g.EdgeCount())
	assert.Equal(t, 4, before.SelfLoops)
}

func stateIDs(states []*hmm.State) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = s.ID()
	}

	return out
}

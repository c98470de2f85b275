package engine

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tritium/internal/faults"
	"github.com/roach88/tritium/internal/params"
	"github.com/roach88/tritium/internal/testutil"
	"github.com/roach88/tritium/internal/timeline"
	"github.com/roach88/tritium/internal/units"
)

// noDelays zeroes every transit time.
func noDelays(p params.Params) params.Params {
	p.TPump, p.TExh, p.TTers, p.TFreeze, p.TDetrit = 0, 0, 0, 0, 0
	return p
}

// matchedTimeline returns a uniform pulsed timeline together with the
// timestep that makes the fine axis coincide with it.
func matchedTimeline() (*timeline.Timeline, float64) {
	const n = 61
	years := 60 * 86400 * units.SecondToYear
	tl := testutil.UniformTimeline(years, n, testutil.DemoDTRate, testutil.DemoDTRate/100, 0.6)
	for i := range tl.DTRate {
		if i%5 >= 3 {
			tl.DTRate[i] = 0
			tl.DDRate[i] = 0
		}
	}
	tl.BlanketChanges = []int{30}
	return tl, years * units.YearToSecond / float64(n-1)
}

func TestRunConservesTritium(t *testing.T) {
	tl, step := matchedTimeline()
	m := New(noDelays(params.Defaults()), WithDecayConstant(0), WithTimestep(step))

	res, err := m.Run(context.Background(), tl)
	require.NoError(t, err)
	require.Equal(t, tl.Time, res.Time)

	produced := 0.0
	for i := 1; i < tl.Len(); i++ {
		w := (tl.Time[i] - tl.Time[i-1]) * units.YearToSecond
		produced += units.KgPerReaction * tl.DDRate[i] / 2 * w
	}
	n := len(res.Time)
	held := (res.Plasma[n-1] - res.Plasma[0]) +
		(res.Blanket[n-1] - res.Blanket[0]) +
		(res.TFV[n-1] - res.TFV[0])
	seed := res.Seeds[len(res.Seeds)-1]

	gained := res.Store[n-1] - seed
	want := res.Bred + produced - res.Burnt - res.Released - held
	assert.InDelta(t, want, gained, 1e-6)
	assert.InDelta(t, res.Stack[n-1], res.Released, 1e-9)
}

func TestRunUnitInventoryNoBreeding(t *testing.T) {
	p := params.Defaults()
	p.TBR = 0
	p.FB = 1
	p.EtaF = 1
	p.MGas = 0
	p.EtaIV, p.EtaBB, p.EtaTFV = 1, 1, 1
	p.ITfvMin = 0
	tl := testutil.UniformTimeline(0.25, 10, testutil.DemoDTRate, 0, 0.5)

	res, err := New(p, WithDecayConstant(0), WithTimestep(3600)).Run(context.Background(), tl)
	require.NoError(t, err)

	brate := units.KgPerReaction * testutil.DemoDTRate
	want := brate * units.YearToSecond * 0.25
	assert.True(t, res.Converged)
	assert.InEpsilon(t, want, res.StartupInventory, 1e-9)
	assert.InDelta(t, 0, res.Released, 1e-12)
}

func TestRunFullRecyclingStoreNeverDrops(t *testing.T) {
	p := noDelays(params.Defaults())
	p.EtaIV, p.EtaBB, p.EtaTFV = 1, 1, 1
	p.EtaFuelPump = 1
	p.FTerscwps, p.FDetritSplit = 1, 1
	tl := testutil.PulsedTimeline(40, 4, 3, testutil.DemoDTRate, 20)

	res, err := New(p, WithDecayConstant(0), WithTimestep(3600)).Run(context.Background(), tl)
	require.NoError(t, err)

	for i := 1; i < len(res.Store); i++ {
		assert.GreaterOrEqual(t, res.Store[i], res.Store[i-1]-1e-9, "sample %d", i)
	}
	assert.InDelta(t, 0, res.Released, 1e-12)
}

func TestRunBlanketChangeDischargesToStore(t *testing.T) {
	tl, step := matchedTimeline()
	const event = 30
	require.Equal(t, []int{event}, tl.BlanketChanges)
	plain := *tl
	plain.BlanketChanges = nil

	p := noDelays(params.Defaults())
	p.EtaIV = 1
	p.EtaBB = 0.5
	p.FTerscwps = 1
	m := New(p, WithDecayConstant(0), WithTimestep(step))

	withChange, err := m.Run(context.Background(), tl)
	require.NoError(t, err)
	without, err := m.Run(context.Background(), &plain)
	require.NoError(t, err)

	held := without.Blanket[event]
	require.Greater(t, held, 0.0)
	assert.Equal(t, without.Blanket[event-1], withChange.Blanket[event-1])
	assert.Zero(t, withChange.Blanket[event])

	// The whole blanket inventory reaches the store in the event step.
	gain := (withChange.Store[event] - withChange.Store[event-1]) -
		(without.Store[event] - without.Store[event-1])
	assert.InEpsilon(t, held, gain, 1e-6)
}

func TestRunSeedSequenceSettles(t *testing.T) {
	tl := testutil.PulsedTimeline(120, 5, 2, testutil.DemoDTRate, 60)

	res, err := New(params.Defaults(), WithConvergenceThreshold(1e-9)).Run(context.Background(), tl)
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.Len(t, res.Residuals, res.Iterations)

	s := res.Seeds
	for i := 3; i < len(s); i++ {
		prev := math.Abs(s[i-1] - s[i-2])
		cur := math.Abs(s[i] - s[i-1])
		assert.LessOrEqual(t, cur, prev+1e-12, "iteration %d", i)
	}
}

func TestRunDefaultScenario(t *testing.T) {
	// 17 whole weeks, so the peak load factor is exactly 5/7.
	tl := testutil.PulsedTimeline(119, 5, 2, testutil.DemoDTRate, 60)

	res, err := New(params.Defaults()).Run(context.Background(), tl)
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.Greater(t, res.StartupInventory, params.Defaults().ITfvMin)
	assert.Greater(t, res.ReleaseRate, 0.0)
	assert.InDelta(t, 5.0/7.0, res.MaxLoadFactor, 1e-9)
	assert.Equal(t, len(res.Time), len(res.Inventory))
	assert.Equal(t, len(res.Coarse), len(res.Plasma))
	assert.Equal(t, len(res.Coarse), len(res.Ideal))
	assert.Equal(t, res.StartupInventory, res.Ideal[0])
	assert.Greater(t, res.Bred, res.Burnt)
	assert.Equal(t, res.Time[res.InflectionIndex], res.InflectionTime)
	if math.IsInf(res.DoublingTime, 1) {
		assert.Equal(t, -1, res.DoublingIndex)
	}
}

func TestRunWithStepsTruncates(t *testing.T) {
	tl := testutil.PulsedTimeline(60, 5, 2, testutil.DemoDTRate)

	res, err := New(params.Defaults(), WithSteps(31)).Run(context.Background(), tl)
	require.NoError(t, err)
	assert.Len(t, res.Coarse, 31)
	assert.Equal(t, tl.Time[30], res.Time[len(res.Time)-1])
}

// shortDD returns a copy of tl whose DD rate series stops early.
func shortDD(tl *timeline.Timeline) *timeline.Timeline {
	out := *tl
	out.DDRate = tl.DDRate[:tl.Len()-3]
	return &out
}

func TestRunConfigurationErrors(t *testing.T) {
	good := testutil.PulsedTimeline(10, 5, 2, testutil.DemoDTRate)

	tests := []struct {
		name string
		tl   *timeline.Timeline
		p    func(*params.Params)
		opts []Option
	}{
		{name: "nil timeline", tl: nil},
		{name: "one sample", tl: &timeline.Timeline{Time: []float64{0}, FusionTime: []float64{0}, DTRate: []float64{1}, DDRate: []float64{0}}},
		{name: "length mismatch", tl: &timeline.Timeline{Time: []float64{0, 1}, FusionTime: []float64{0, 1}, DTRate: []float64{1}, DDRate: []float64{0, 0}}},
		{name: "fraction out of bounds", tl: good, p: func(p *params.Params) { p.FDir = 1.2 }},
		{name: "bad timestep", tl: good, opts: []Option{WithTimestep(0)}},
		{name: "timestep longer than timeline", tl: good, opts: []Option{WithTimestep(1e9)}},
		{name: "bad threshold", tl: good, opts: []Option{WithConvergenceThreshold(-1)}},
		{name: "bad iteration cap", tl: good, opts: []Option{WithMaxIterations(0)}},
		{name: "too few steps", tl: good, opts: []Option{WithSteps(1)}},
		{name: "length mismatch beyond steps", tl: shortDD(good), opts: []Option{WithSteps(5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := params.Defaults()
			if tt.p != nil {
				tt.p(&p)
			}
			_, err := New(p, tt.opts...).Run(context.Background(), tt.tl)
			require.Error(t, err)
			assert.True(t, faults.IsConfiguration(err), "got %v", err)
		})
	}
}

func TestValidateMatchesRunChecks(t *testing.T) {
	tl := testutil.PulsedTimeline(10, 5, 2, testutil.DemoDTRate)
	assert.NoError(t, New(params.Defaults()).Validate(tl))

	p := params.Defaults()
	p.FDir = 1.2
	assert.True(t, faults.IsConfiguration(New(p).Validate(tl)))

	p = params.Defaults()
	p.FB = 0
	assert.True(t, faults.IsNumericDomain(New(p).Validate(tl)))
}

func TestRunNumericDomainErrors(t *testing.T) {
	tl := testutil.PulsedTimeline(10, 5, 2, testutil.DemoDTRate)
	tests := []struct {
		name string
		p    func(*params.Params)
	}{
		{"zero burn fraction", func(p *params.Params) { p.FB = 0 }},
		{"zero fuelling efficiency", func(p *params.Params) { p.EtaF = 0 }},
		{"zero in-vessel ceiling", func(p *params.Params) { p.IMiv = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := params.Defaults()
			tt.p(&p)
			_, err := New(p).Run(context.Background(), tl)
			require.Error(t, err)
			assert.True(t, faults.IsNumericDomain(err), "got %v", err)
		})
	}

	idle := testutil.UniformTimeline(0.1, 5, 0, 0, 0)
	_, err := New(params.Defaults()).Run(context.Background(), idle)
	assert.True(t, faults.IsNumericDomain(err), "got %v", err)
}

func TestRunIterationCap(t *testing.T) {
	tl := testutil.PulsedTimeline(30, 5, 2, testutil.DemoDTRate)

	_, err := New(params.Defaults(), WithMaxIterations(1)).Run(context.Background(), tl)
	require.Error(t, err)
	var conv *faults.ConvergenceError
	require.ErrorAs(t, err, &conv)
	assert.Equal(t, 1, conv.Iterations)
	assert.Equal(t, 1, conv.Limit)
	assert.Greater(t, conv.Residual, DefaultConvergenceThreshold)
}

func TestRunBestEffort(t *testing.T) {
	tl := testutil.PulsedTimeline(30, 5, 2, testutil.DemoDTRate)

	res, err := New(params.Defaults(), WithMaxIterations(1), WithBestEffort(true)).Run(context.Background(), tl)
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 1, res.Iterations)
	assert.Len(t, res.Seeds, 1)
	assert.Equal(t, DefaultInitialSeed, res.Seeds[0])
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(params.Defaults()).Run(ctx, testutil.PulsedTimeline(10, 5, 2, testutil.DemoDTRate))
	assert.ErrorIs(t, err, context.Canceled)
}

type countingRecorder struct {
	mu         sync.Mutex
	iterations int
	outcomes   []Outcome
}

func (r *countingRecorder) Iteration(float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.iterations++
}

func (r *countingRecorder) Finished(o Outcome, _ int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func TestRunReportsToRecorder(t *testing.T) {
	tl := testutil.PulsedTimeline(30, 5, 2, testutil.DemoDTRate)
	rec := &countingRecorder{}

	res, err := New(params.Defaults(), WithRecorder(rec)).Run(context.Background(), tl)
	require.NoError(t, err)
	assert.Equal(t, res.Iterations, rec.iterations)

	_, err = New(params.Defaults(), WithRecorder(rec), WithMaxIterations(1)).Run(context.Background(), tl)
	require.Error(t, err)
	_, err = New(params.Defaults(), WithRecorder(rec)).Run(context.Background(), nil)
	require.Error(t, err)

	assert.Equal(t, []Outcome{OutcomeConverged, OutcomeNotConverged, OutcomeFailed}, rec.outcomes)
}

func TestRunIsDeterministic(t *testing.T) {
	tl := testutil.PulsedTimeline(30, 5, 2, testutil.DemoDTRate, 15)

	a, err := New(params.Defaults()).Run(context.Background(), tl)
	require.NoError(t, err)
	b, err := New(params.Defaults()).Run(context.Background(), tl)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRelativeChange(t *testing.T) {
	assert.Equal(t, 0.0, relativeChange(0, 0))
	assert.True(t, math.IsInf(relativeChange(0, 1), 1))
	assert.InDelta(t, 0.5, relativeChange(2, 1), 1e-15)
}

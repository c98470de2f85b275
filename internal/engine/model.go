package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/roach88/tritium/internal/faults"
	"github.com/roach88/tritium/internal/numeric"
	"github.com/roach88/tritium/internal/params"
	"github.com/roach88/tritium/internal/timebase"
	"github.com/roach88/tritium/internal/timeline"
	"github.com/roach88/tritium/internal/units"
)

// Model runs the fuel cycle for one parameter set.
type Model struct {
	params params.Params
	cfg    config
}

// New returns a Model for p. Parameters are validated by Run.
func New(p params.Params, opts ...Option) *Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Model{params: p, cfg: cfg}
}

// Params returns the model's parameter set.
func (m *Model) Params() params.Params { return m.params }

// Validate runs the configuration and numeric domain checks of Run without
// simulating.
func (m *Model) Validate(tl *timeline.Timeline) error {
	_, err := m.prepare(tl)
	return err
}

// drive holds the timeline-derived arrays shared by every iteration.
type drive struct {
	tb     *timebase.Timebase
	coarse []float64
	fine   []float64
	fusion []float64
	bci    []int

	brate []float64 // burn [kg/s]
	prate []float64 // D-D tritium production [kg/s]
	grate []float64 // gas puff [kg/s]
	mTin  []float64 // fuelling demand [kg/s]

	pelletFine []float64 // mTin on the fine axis
	demandFine []float64 // mTin + grate on the fine axis
}

// Run simulates tl and iterates the start-up inventory to convergence.
//
// Configuration problems are reported as *faults.ConfigurationError before
// any numeric work. A run that exhausts the iteration cap returns a
// *faults.ConvergenceError unless best-effort mode is on.
func (m *Model) Run(ctx context.Context, tl *timeline.Timeline) (res *Result, err error) {
	start := time.Now()
	log := m.cfg.logger
	iterations := 0
	defer func() {
		outcome := OutcomeFailed
		switch {
		case err == nil && res.Converged:
			outcome = OutcomeConverged
		case err == nil:
			outcome = OutcomeBestEffort
		case faults.IsConvergence(err):
			outcome = OutcomeNotConverged
		}
		m.cfg.recorder.Finished(outcome, iterations, time.Since(start))
	}()

	d, err := m.prepare(tl)
	if err != nil {
		return nil, err
	}
	log.Debug("timeline prepared",
		"coarse_samples", len(d.coarse),
		"fine_samples", len(d.fine),
		"timestep_s", m.cfg.timestep)

	budget := newIterationBudget(m.cfg.maxIter)
	seed := m.cfg.seed
	var (
		seeds, residuals []float64
		last             *iteration
		residual         float64
		converged        bool
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fuel cycle run cancelled after %d iterations: %w", budget.Used(), err)
		}
		if !budget.Spend() {
			if m.cfg.bestEffort {
				log.Warn("start-up inventory did not converge, returning last iterate",
					"iterations", budget.Used(), "residual", residual, "seed_kg", seed)
				break
			}
			iterations = budget.Used()
			return nil, budget.exceeded(residual, seed)
		}
		iterations = budget.Used()

		it, err := m.recycle(d, seed)
		if err != nil {
			return nil, err
		}
		minT := numeric.Min(it.store)
		if math.IsNaN(minT) || math.IsInf(minT, 0) {
			return nil, faults.Domainf("store inventory", "non-finite minimum %g at iteration %d", minT, budget.Used())
		}
		req := seed - minT
		residual = relativeChange(req, seed)
		seeds = append(seeds, seed)
		residuals = append(residuals, residual)
		last = it
		m.cfg.recorder.Iteration(residual)

		log.Debug("iteration",
			"n", budget.Used(),
			"seed_kg", seed+m.params.ITfvMin,
			"required_kg", req+m.params.ITfvMin,
			"residual", residual)

		if residual <= m.cfg.threshold {
			converged = true
			seed = req
			break
		}
		seed -= minT
	}

	res, err = m.assemble(d, last, seed, converged)
	if err != nil {
		return nil, err
	}
	res.Iterations = budget.Used()
	res.Seeds = seeds
	res.Residuals = residuals
	log.Info("fuel cycle run complete",
		"converged", res.Converged,
		"iterations", res.Iterations,
		"startup_inventory_kg", res.StartupInventory,
		"doubling_time_yr", res.DoublingTime,
		"release_rate_g_per_yr", res.ReleaseRate)
	return res, nil
}

// relativeChange is |req - seed| / |req|. A zero requirement is converged
// only when the seed is zero as well.
func relativeChange(req, seed float64) float64 {
	if req == 0 {
		if seed == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs(req-seed) / math.Abs(req)
}

func (m *Model) prepare(tl *timeline.Timeline) (*drive, error) {
	if tl == nil {
		return nil, faults.Configf("timeline", "missing")
	}
	if err := tl.Validate(); err != nil {
		return nil, err
	}
	if m.cfg.steps != 0 {
		var err error
		if tl, err = tl.Truncate(m.cfg.steps); err != nil {
			return nil, err
		}
		if err := tl.Validate(); err != nil {
			return nil, err
		}
	}
	if err := m.params.Validate(); err != nil {
		return nil, err
	}
	if err := m.checkOptions(); err != nil {
		return nil, err
	}
	p := m.params
	if p.FB == 0 {
		return nil, faults.Domainf("fuelling rate", "burn-up fraction f_b is zero")
	}
	if p.EtaF == 0 {
		return nil, faults.Domainf("fuelling rate", "fuelling efficiency eta_f is zero")
	}

	tb, err := timebase.New(tl.Time)
	if err != nil {
		return nil, err
	}
	fine, err := tb.Fine(m.cfg.timestep)
	if err != nil {
		return nil, err
	}

	n := tl.Len()
	d := &drive{
		tb:     tb,
		coarse: tb.Coarse(),
		fine:   fine,
		fusion: tl.FusionTime,
		bci:    tl.BlanketChanges,
		brate:  make([]float64, n),
		prate:  make([]float64, n),
		grate:  make([]float64, n),
		mTin:   make([]float64, n),
	}
	maxDT := numeric.Max(tl.DTRate)
	gas := units.GasPuffMassRate(p.MGas)
	if maxDT == 0 && gas != 0 {
		return nil, faults.Domainf("gas puff rate", "maximum D-T rate is zero")
	}
	demand := make([]float64, n)
	for i := range n {
		d.brate[i] = units.KgPerReaction * tl.DTRate[i]
		d.prate[i] = units.KgPerReaction * tl.DDRate[i] / 2
		if gas != 0 {
			d.grate[i] = gas * tl.DTRate[i] / maxDT
		}
		d.mTin[i] = d.brate[i] / (p.FB * p.EtaF)
		demand[i] = d.mTin[i] + d.grate[i]
	}
	if d.pelletFine, err = tb.Resample(d.mTin, fine); err != nil {
		return nil, err
	}
	if d.demandFine, err = tb.Resample(demand, fine); err != nil {
		return nil, err
	}
	return d, nil
}

func (m *Model) checkOptions() error {
	c := m.cfg
	if !(c.threshold > 0) || math.IsInf(c.threshold, 0) {
		return faults.Configf("convergence_threshold", "must be positive and finite, got %g", c.threshold)
	}
	if c.maxIter < 1 {
		return faults.Configf("max_iterations", "must be at least 1, got %d", c.maxIter)
	}
	if c.steps < 0 {
		return faults.Configf("steps", "must not be negative, got %d", c.steps)
	}
	if !(c.lambda >= 0) || math.IsInf(c.lambda, 0) {
		return faults.Configf("decay_constant", "must be finite and non-negative, got %g", c.lambda)
	}
	if math.IsNaN(c.seed) || math.IsInf(c.seed, 0) {
		return faults.Configf("initial_seed", "must be finite, got %g", c.seed)
	}
	return nil
}

// assemble turns the last iteration into a finalised Result.
func (m *Model) assemble(d *drive, it *iteration, seed float64, converged bool) (*Result, error) {
	p := m.params
	inv := make([]float64, len(it.store))
	for i, v := range it.store {
		inv[i] = v + p.ITfvMin
	}
	analysis := Finalise(d.fine, inv, p.ITfvMin)

	res := &Result{
		Analysis:         analysis,
		Time:             d.fine,
		Inventory:        inv,
		Store:            it.store,
		Coarse:           d.coarse,
		Plasma:           it.plasma,
		Blanket:          it.blanket,
		TFV:              it.tfv,
		Stack:            it.stack,
		Bred:             last(it.bred),
		Released:         last(it.released),
		Burnt:            last(numeric.Integrate(d.coarse, d.brate)),
		StartupInventory: seed + it.tfv[0],
		Converged:        converged,
	}
	res.Ideal = IdealInventory(d.coarse, d.brate, d.prate, p.TBR, res.StartupInventory, m.cfg.lambda)

	lf, err := numeric.MaxLoadFactor(d.coarse, d.fusion)
	if err != nil {
		return nil, err
	}
	res.MaxLoadFactor = lf
	rate, err := numeric.LegalLimit(numeric.ReleaseInputs{
		MaxLoadFactor:      lf,
		BurnFraction:       p.FB,
		GasRate:            1000 * numeric.Max(d.grate),
		FuellingEfficiency: p.EtaF,
		FuelPumpEfficiency: p.EtaFuelPump,
		DirectFraction:     p.FDir,
		ExhaustSplit:       p.FExhSplit,
		DetritiationSplit:  p.FDetritSplit,
		ExtractionFactor:   p.FTerscwps,
		TBR:                p.TBR,
		BurnRate:           1000 * numeric.Max(d.brate),
	})
	if err != nil {
		return nil, err
	}
	res.ReleaseRate = rate
	return res, nil
}

func last(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return v[len(v)-1]
}

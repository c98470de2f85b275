package engine

import (
	"math"

	"github.com/roach88/tritium/internal/flow"
	"github.com/roach88/tritium/internal/numeric"
)

// iteration is everything one network evaluation leaves behind.
type iteration struct {
	store    []float64 // m_T, fine
	plasma   []float64 // coarse
	blanket  []float64 // coarse
	tfv      []float64 // fine
	stack    []float64 // fine
	bred     []float64 // cumulative bred input, coarse
	released []float64 // cumulative stack input, fine
}

// recycle builds the plant network, runs it and evolves the store inventory
// from seed.
func (m *Model) recycle(d *drive, seed float64) (*iteration, error) {
	p := m.params
	coarse := flow.NewAxis(d.coarse, m.cfg.lambda)
	fine := flow.NewAxis(d.fine, m.cfg.lambda)
	it := &iteration{}

	plasmaOut, err := m.plasma(coarse, d, it)
	if err != nil {
		return nil, err
	}
	plasmaFine, err := d.tb.Resample(plasmaOut, d.fine)
	if err != nil {
		return nil, err
	}
	exhaust, err := fine.NewFlow(plasmaFine, 0)
	if err != nil {
		return nil, err
	}
	dir, err := exhaust.Split(2, []float64{p.FDir})
	if err != nil {
		return nil, err
	}
	direct, err := fine.NewFlow(dir[0].Out(), p.TPump)
	if err != nil {
		return nil, err
	}
	indirect, err := fine.NewFlow(dir[1].Out(), p.TPump+p.TExh)
	if err != nil {
		return nil, err
	}

	bredOut, err := m.blanket(coarse, d, it)
	if err != nil {
		return nil, err
	}
	bredFine, err := d.tb.Resample(bredOut, d.fine)
	if err != nil {
		return nil, err
	}
	bred, err := fine.NewFlow(bredFine, p.TTers)
	if err != nil {
		return nil, err
	}
	extracted, err := bred.Split(2, []float64{p.FTerscwps})
	if err != nil {
		return nil, err
	}

	tfvReturn, tfvStack, err := m.tfv(fine, indirect, it)
	if err != nil {
		return nil, err
	}

	if err := m.stack(fine, it, extracted[1], tfvStack); err != nil {
		return nil, err
	}

	recovered := make([]float64, len(d.pelletFine))
	for i, v := range d.pelletFine {
		recovered[i] = v * (1 - p.EtaF) * p.EtaFuelPump
	}
	storeOut, err := m.store(fine, recovered, tfvReturn, extracted[0], direct)
	if err != nil {
		return nil, err
	}

	it.store = numeric.MassBalance(seed, d.fine, d.demandFine, storeOut, m.cfg.lambda)
	return it, nil
}

// plasma runs the in-vessel inventory on the coarse axis.
func (m *Model) plasma(axis *flow.Axis, d *drive, it *iteration) ([]float64, error) {
	p := m.params
	block, err := flow.NewBlock("plasma", axis, flow.Retention{
		Model:   flow.SqrtBathtub,
		Eta:     p.EtaIV,
		Ceiling: p.IMiv,
		Events:  d.bci,
	}, false)
	if err != nil {
		return nil, err
	}
	n := len(d.coarse)
	fuelled := make([]float64, n)
	lineLoss := make([]float64, n)
	burnt := make([]float64, n)
	for i := range n {
		fuelled[i] = d.brate[i] / p.FB
		lineLoss[i] = (1 - p.EtaFuelPump) * (1 - p.EtaF) * d.mTin[i]
		burnt[i] = -d.brate[i]
	}
	for _, in := range [][]float64{fuelled, lineLoss, d.grate, d.prate, burnt} {
		if err := block.AddInFlow(in); err != nil {
			return nil, err
		}
	}
	if err := block.Run(); err != nil {
		return nil, err
	}
	it.plasma = block.Inventory()
	return block.Output(), nil
}

// blanket runs the breeding blanket on the coarse axis.
func (m *Model) blanket(axis *flow.Axis, d *drive, it *iteration) ([]float64, error) {
	p := m.params
	block, err := flow.NewBlock("blanket", axis, flow.Retention{
		Model:   flow.Bathtub,
		Eta:     p.EtaBB,
		Ceiling: p.IMbb,
		Events:  d.bci,
	}, true)
	if err != nil {
		return nil, err
	}
	bred := make([]float64, len(d.brate))
	for i, v := range d.brate {
		bred[i] = p.TBR * v
	}
	if err := block.AddInFlow(bred); err != nil {
		return nil, err
	}
	if err := block.Run(); err != nil {
		return nil, err
	}
	it.blanket = block.Inventory()
	it.bred = block.Summed()
	return block.Output(), nil
}

// tfv runs the tritium, fuelling and vacuum systems on the fine axis and
// returns the flow back to the store and the flow to the stack.
func (m *Model) tfv(axis *flow.Axis, indirect *flow.Flow, it *iteration) (*flow.Flow, *flow.Flow, error) {
	p := m.params
	block, err := flow.NewBlock("tfv", axis, flow.Retention{
		Model:   flow.Fountaintub,
		Eta:     p.EtaTFV,
		Floor:   p.ITfvMin,
		Ceiling: p.ITfvMax,
	}, false)
	if err != nil {
		return nil, nil, err
	}
	if err := block.AddFlow(indirect); err != nil {
		return nil, nil, err
	}
	if err := block.Run(); err != nil {
		return nil, nil, err
	}
	it.tfv = block.Inventory()

	out, err := block.OutputFlow(0)
	if err != nil {
		return nil, nil, err
	}
	exh, err := out.Split(2, []float64{p.FExhSplit})
	if err != nil {
		return nil, nil, err
	}
	isotope := exh[0]
	detrit, err := axis.NewFlow(exh[1].Out(), p.TDetrit)
	if err != nil {
		return nil, nil, err
	}
	det, err := detrit.Split(2, []float64{p.FDetritSplit})
	if err != nil {
		return nil, nil, err
	}
	toStore, err := isotope.Add(det[0])
	if err != nil {
		return nil, nil, err
	}
	return toStore, det[1], nil
}

// stack accumulates everything released to the environment.
func (m *Model) stack(axis *flow.Axis, it *iteration, flows ...*flow.Flow) error {
	block, err := flow.NewBlock("stack", axis, flow.Retention{
		Model:   flow.Bathtub,
		Eta:     0,
		Ceiling: math.Inf(1),
	}, true)
	if err != nil {
		return err
	}
	for _, f := range flows {
		if err := block.AddFlow(f); err != nil {
			return err
		}
	}
	if err := block.Run(); err != nil {
		return err
	}
	it.stack = block.Inventory()
	it.released = block.Summed()
	return nil
}

// store collects every return flow and releases it, after the freezing
// delay, back into the store inventory.
func (m *Model) store(axis *flow.Axis, recovered []float64, flows ...*flow.Flow) ([]float64, error) {
	block, err := flow.NewBlock("store", axis, flow.Retention{
		Model:   flow.Bathtub,
		Eta:     1,
		Ceiling: math.Inf(1),
	}, true)
	if err != nil {
		return nil, err
	}
	if err := block.AddInFlow(recovered); err != nil {
		return nil, err
	}
	for _, f := range flows {
		if err := block.AddFlow(f); err != nil {
			return nil, err
		}
	}
	if err := block.Run(); err != nil {
		return nil, err
	}
	out, err := block.OutputFlow(m.params.TFreeze)
	if err != nil {
		return nil, err
	}
	return out.Out(), nil
}

package flow

import (
	"math"

	"github.com/roach88/tritium/internal/faults"
	"github.com/roach88/tritium/internal/numeric"
	"github.com/roach88/tritium/internal/units"
)

// Block is an inventory stage of the fuel cycle.
type Block struct {
	name      string
	axis      *Axis
	retention Retention
	summing   bool

	in     []float64
	ran    bool
	out    []float64
	inv    []float64
	summed []float64
}

// NewBlock validates the retention settings and returns an empty block.
// With summing set, the block also records the running integral of its
// input [kg].
func NewBlock(name string, axis *Axis, r Retention, summing bool) (*Block, error) {
	if err := r.validate(axis); err != nil {
		return nil, err
	}
	return &Block{
		name:      name,
		axis:      axis,
		retention: r,
		summing:   summing,
		in:        make([]float64, axis.Len()),
	}, nil
}

// AddInFlow adds a rate [kg/s] to the block input element-wise.
func (b *Block) AddInFlow(rate []float64) error {
	if b.ran {
		return faults.Configf(b.name, "cannot add input after the block has run")
	}
	if err := b.axis.checkLen(b.name+" input", len(rate)); err != nil {
		return err
	}
	for i, v := range rate {
		b.in[i] += v
	}
	return nil
}

// AddFlow adds the realised output of f. f must share the block's axis.
func (b *Block) AddFlow(f *Flow) error {
	if !b.axis.sameAs(f.axis) {
		return faults.Configf(b.name, "flow is defined on a different axis")
	}
	return b.AddInFlow(f.out)
}

// Run integrates the retention law. Calling Run again is a no-op.
func (b *Block) Run() error {
	if b.ran {
		return nil
	}
	n := b.axis.Len()
	t := b.axis.t
	events := make(map[int]bool, len(b.retention.Events))
	for _, e := range b.retention.Events {
		events[e] = true
	}

	out := make([]float64, n)
	inv := make([]float64, n)
	if n > 0 {
		out[0] = b.in[0]
		inv[0] = b.retention.initial()
	}
	for i := 1; i < n; i++ {
		dt := t[i] - t[i-1]
		w := dt * units.YearToSecond
		mIn := b.in[i] * w
		held := inv[i-1] * math.Exp(-b.axis.lambda*dt)
		next := 0.0
		if !events[i] {
			next = b.retention.retain(held, mIn)
		}
		if math.IsNaN(next) {
			return faults.Domainf(b.name+" inventory", "NaN at sample %d", i)
		}
		inv[i] = next
		out[i] = (held + mIn - next) / w
	}

	b.out, b.inv = out, inv
	if b.summing {
		b.summed = numeric.Integrate(t, b.in)
	}
	b.ran = true
	return nil
}

// Output returns the released rate [kg/s]; nil before Run.
func (b *Block) Output() []float64 { return b.out }

// Inventory returns the held inventory [kg]; nil before Run.
func (b *Block) Inventory() []float64 { return b.inv }

// Summed returns the cumulative input mass [kg]; nil unless summing.
func (b *Block) Summed() []float64 { return b.summed }

// OutputFlow wraps the output as a flow delayed by delay [s].
func (b *Block) OutputFlow(delay float64) (*Flow, error) {
	if !b.ran {
		return nil, faults.Configf(b.name, "block has not run")
	}
	return b.axis.NewFlow(b.out, delay)
}

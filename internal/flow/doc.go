// Package flow provides the two primitives the fuel cycle network is wired
// from.
//
// A Flow is a tritium mass rate [kg/s] sampled on an Axis, optionally delayed
// by a fixed transit time. Delayed tritium decays in transit. Flows can be
// added (on a shared axis) and split into fractional sub-flows.
//
// A Block is an inventory: it sums any number of input rates, retains part of
// them according to its retention model, and exposes the released output
// rate and the held inventory over time. Blocks are conservative by
// construction: at every step the decayed inventory plus the step's inflow
// equals the new inventory plus the step's outflow.
//
// Both are single-use. A model iteration builds its blocks and flows, reads
// their outputs and drops them.
package flow

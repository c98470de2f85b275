// Package engine implements the tritium fuel cycle convergence engine.
//
// A Model propagates tritium through the plant network over a reactor
// lifetime and iterates on the start-up inventory until it is
// self-consistent.
//
// NETWORK:
//
// Coarse axis (the lifecycle timeline):
//   - plasma: sqrt-bathtub in-vessel inventory fed by fuelling, gas puff and
//     D-D production, drained by burn
//   - blanket: bathtub breeding inventory, emptied at each blanket change
//
// Fine axis (uniform resampling at the configured timestep):
//   - direct internal recycling of the plasma exhaust (delay t_pump)
//   - TFV fountain-tub fed by the indirect exhaust (delay t_pump + t_exh),
//     followed by isotope rebalancing and exhaust detritiation
//   - stack: cumulative release to the environment
//   - store: pass-through collector whose output, delayed by t_freeze,
//     refills the store inventory m_T
//
// CONVERGENCE:
//
// Every iteration rebuilds the network from scratch, evolves m_T from the
// current seed and measures the deepest dip below zero. The required
// start-up inventory is seed - min(m_T). The loop stops once the relative
// change between seed and requirement falls below the threshold, and is
// bounded by a maximum iteration count.
//
// Runs are single-threaded and deterministic. Independent Models may run
// concurrently.
package engine

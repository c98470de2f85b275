// Package harness runs fuel cycle scenarios as executable acceptance tests.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: pulsed_baseline
//	description: "Reference parameters on a 5-on/2-off pulsed week"
//	timeline:
//	  pulsed: { days: 119, on: 5, off: 2, dt_rate: 7.0e20, blanket_changes: [60] }
//	  # or: file: timelines/plant.yaml
//	  # or: uniform: { years: 0.25, samples: 10, dt_rate: 7.0e20, load_factor: 0.5 }
//	params:
//	  file: params/pessimistic.yaml
//	  set: { TBR: 1.1, t_pump: "200" }
//	engine:
//	  timestep: 1200
//	  max_iterations: 100
//	  best_effort: false
//	expect:
//	  converged: true
//	  startup_inventory: { min: 2, max: 10 }
//	  doubling: finite
//
// File paths are relative to the scenario file.
//
// # Expectations
//
//   - error: expected failure kind (configuration, numeric_domain, convergence)
//   - converged: whether the seed iteration converged
//   - max_iterations: upper bound on network evaluations
//   - startup_inventory, max_load_factor: closed ranges
//   - doubling: finite or infinite
//   - store_monotone: the store inventory never decreases
//   - max_released: upper bound on the lifetime environmental release [kg]
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory store with sequential run
// IDs, so the summary snapshot compared against testdata/golden is
// reproducible.
package harness

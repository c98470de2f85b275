// Package numeric implements the numeric utilities the fuel cycle model is
// built on: 1-D discretisation onto uniform axes, noisy extremum search,
// the decay-with-replenishment mass balance, load-factor estimation and the
// legal release limit.
//
// All functions are pure and allocate their outputs; none retain references
// to their inputs.
package numeric

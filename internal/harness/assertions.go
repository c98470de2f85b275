package harness

import (
	"fmt"
	"math"

	"github.com/roach88/tritium/internal/engine"
)

// monotoneTolerance absorbs round-off in the store recursion [kg].
const monotoneTolerance = 1e-9

// evaluate checks res and err against exp. Checks are returned in a fixed
// order so that snapshots are stable.
func evaluate(exp Expect, res *engine.Result, err error) []Check {
	var checks []Check

	if exp.Error != "" {
		got := errorKind(err)
		c := Check{Name: "error", Pass: got == exp.Error}
		if !c.Pass {
			c.Detail = fmt.Sprintf("expected %s error, got %s", exp.Error, describe(err))
		}
		return append(checks, c)
	}
	if err != nil {
		return append(checks, Check{Name: "error", Detail: fmt.Sprintf("unexpected error: %v", err)})
	}

	if exp.Converged != nil {
		checks = append(checks, expectBool("converged", *exp.Converged, res.Converged))
	}
	if exp.MaxIterations > 0 {
		c := Check{Name: "max_iterations", Pass: res.Iterations <= exp.MaxIterations}
		if !c.Pass {
			c.Detail = fmt.Sprintf("%d iterations exceed %d", res.Iterations, exp.MaxIterations)
		}
		checks = append(checks, c)
	}
	if exp.StartupInventory != nil {
		checks = append(checks, expectRange("startup_inventory", *exp.StartupInventory, res.StartupInventory))
	}
	if exp.MaxLoadFactor != nil {
		checks = append(checks, expectRange("max_load_factor", *exp.MaxLoadFactor, res.MaxLoadFactor))
	}
	if exp.Doubling != "" {
		got := DoublingFinite
		if math.IsInf(res.DoublingTime, 1) {
			got = DoublingInfinite
		}
		c := Check{Name: "doubling", Pass: got == exp.Doubling}
		if !c.Pass {
			c.Detail = fmt.Sprintf("expected %s doubling time, got %g yr", exp.Doubling, res.DoublingTime)
		}
		checks = append(checks, c)
	}
	if exp.StoreMonotone {
		checks = append(checks, checkMonotone(res.Store))
	}
	if exp.MaxReleased != nil {
		c := Check{Name: "max_released", Pass: res.Released <= *exp.MaxReleased}
		if !c.Pass {
			c.Detail = fmt.Sprintf("released %g kg exceeds %g kg", res.Released, *exp.MaxReleased)
		}
		checks = append(checks, c)
	}
	return checks
}

func expectBool(name string, want, got bool) Check {
	c := Check{Name: name, Pass: want == got}
	if !c.Pass {
		c.Detail = fmt.Sprintf("expected %t, got %t", want, got)
	}
	return c
}

func expectRange(name string, r Range, v float64) Check {
	c := Check{Name: name, Pass: r.Contains(v)}
	if !c.Pass {
		c.Detail = fmt.Sprintf("%g outside %s", v, r)
	}
	return c
}

func checkMonotone(store []float64) Check {
	for i := 1; i < len(store); i++ {
		if store[i] < store[i-1]-monotoneTolerance {
			return Check{
				Name:   "store_monotone",
				Detail: fmt.Sprintf("store drops from %g to %g kg at sample %d", store[i-1], store[i], i),
			}
		}
	}
	return Check{Name: "store_monotone", Pass: true}
}

func describe(err error) string {
	if err == nil {
		return "success"
	}
	return fmt.Sprintf("%s (%v)", errorKind(err), err)
}

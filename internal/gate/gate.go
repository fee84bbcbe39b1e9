// Package gate evaluates the hard data-quality checks that decide whether a
// reconciliation run may continue.
package gate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sells-group/winerecon/internal/metric"
	"github.com/sells-group/winerecon/internal/model"
)

// Check names.
const (
	CheckRowCount     = "row_count"
	CheckRevenueTotal = "revenue_total"
)

// Expectations are the configured targets of the gate.
type Expectations struct {
	Rows      int
	Revenue   float64
	Tolerance float64 // absolute, currency units
}

// Check is the outcome of one hard check. Delta is computed - expected.
type Check struct {
	Name     string          `json:"name"`
	Passed   bool            `json:"passed"`
	Computed decimal.Decimal `json:"computed"`
	Expected decimal.Decimal `json:"expected"`
	Delta    decimal.Decimal `json:"delta"`
}

func (c Check) String() string {
	status := "SUCCESS"
	if !c.Passed {
		status = "FAILURE"
	}
	return fmt.Sprintf("%s: %s (computed %s, expected %s, delta %s)",
		c.Name, status, c.Computed.String(), c.Expected.String(), c.Delta.String())
}

// Outcome converts the check to its persisted form.
func (c Check) Outcome() model.CheckOutcome {
	return model.CheckOutcome{
		Name:     c.Name,
		Passed:   c.Passed,
		Computed: c.Computed.InexactFloat64(),
		Expected: c.Expected.InexactFloat64(),
		Delta:    c.Delta.InexactFloat64(),
	}
}

// Result holds both checks. Both are always evaluated.
type Result struct {
	Checks []Check `json:"checks"`
}

// Passed reports whether every check passed.
func (r Result) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Failed returns the checks that did not pass.
func (r Result) Failed() []Check {
	var out []Check
	for _, c := range r.Checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

// Err returns a *GateError when any check failed, nil otherwise.
func (r Result) Err() error {
	if r.Passed() {
		return nil
	}
	return &GateError{Result: r}
}

// GateError halts the pipeline. It is an expected outcome, not a crash, and
// carries every check for diagnosis.
type GateError struct {
	Result Result
}

func (e *GateError) Error() string {
	var parts []string
	for _, c := range e.Result.Failed() {
		parts = append(parts, c.String())
	}
	return "quality gate failed: " + strings.Join(parts, "; ")
}

// Evaluate runs the row-count and aggregate-revenue checks over the
// reconciled set. Revenue is summed and compared in decimal so that a delta
// of exactly the tolerance passes.
func Evaluate(rows []model.ReconciledRecord, exp Expectations) Result {
	return Result{Checks: []Check{
		rowCount(len(rows), exp.Rows),
		revenueTotal(metric.TotalRevenue(rows), exp.Revenue, exp.Tolerance),
	}}
}

func rowCount(got, want int) Check {
	c := decimal.NewFromInt(int64(got))
	e := decimal.NewFromInt(int64(want))
	return Check{
		Name:     CheckRowCount,
		Passed:   got == want,
		Computed: c,
		Expected: e,
		Delta:    c.Sub(e),
	}
}

func revenueTotal(total decimal.Decimal, want, tolerance float64) Check {
	e := decimal.NewFromFloat(want)
	delta := total.Sub(e)
	return Check{
		Name:     CheckRevenueTotal,
		Passed:   delta.Abs().LessThanOrEqual(decimal.NewFromFloat(tolerance)),
		Computed: total,
		Expected: e,
		Delta:    delta,
	}
}

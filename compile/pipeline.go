// Package compile chains the optimisation passes over a circuit.
//
// Every call is a pure function of its arguments: the input circuit and
// fidelity model are read, never modified, and a new circuit is returned.
package compile

import (
	"fmt"
	"log/slog"

	"qtermopt/cancel"
	"qtermopt/circuit"
	"qtermopt/route"
)

// Order fixes which pass runs first when both are enabled.
type Order string

const (
	CancelFirst Order = "cancel-first"
	RouteFirst  Order = "route-first"
)

// ParseOrder accepts "cancel-first" or "route-first"; empty means cancel-first.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case "", CancelFirst:
		return CancelFirst, nil
	case RouteFirst:
		return RouteFirst, nil
	default:
		return "", fmt.Errorf("unknown pass order %q", s)
	}
}

// Options selects the passes of one compilation.
type Options struct {
	Cancel   bool
	Route    bool
	Order    Order
	Strategy route.Strategy
	Logger   *slog.Logger // nil uses slog.Default()
}

// DefaultOptions enables both passes, cancellation first, greedy routing.
func DefaultOptions() Options {
	return Options{
		Cancel:   true,
		Route:    true,
		Order:    CancelFirst,
		Strategy: route.StrategyGreedy,
	}
}

// Result is the output of one compilation.
type Result struct {
	Circuit     *circuit.Circuit
	Permutation circuit.Permutation // identity when routing is off
	Dropped     int                 // instructions removed by cancellation
	ScoreBefore float64             // placement score under the identity
	ScoreAfter  float64             // placement score under Permutation
}

// Compile runs the enabled passes over c. The fidelity model is only
// consulted when routing is enabled. Either a complete circuit or an error
// is returned, never both.
func Compile(c *circuit.Circuit, model *route.FidelityModel, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := ParseOrder(string(opts.Order)); err != nil {
		return nil, err
	}
	if opts.Route {
		if err := model.Validate(c.NumQubits()); err != nil {
			return nil, fmt.Errorf("routing: %w", err)
		}
	}

	res := &Result{Circuit: c, Permutation: circuit.Identity(c.NumQubits())}
	steps := []func() error{
		func() error { return res.cancel(opts, logger) },
		func() error { return res.route(model, opts, logger) },
	}
	if opts.Order == RouteFirst {
		steps[0], steps[1] = steps[1], steps[0]
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	// A circuit that passed through no pass still has to clear the opcode
	// table before it is handed back.
	if !opts.Cancel && !opts.Route {
		out, err := circuit.Rebuild(c, nil, nil)
		if err != nil {
			return nil, err
		}
		res.Circuit = out
	}

	logger.Info("circuit compiled",
		"qubits", c.NumQubits(),
		"instructions_in", c.Len(),
		"instructions_out", res.Circuit.Len(),
		"dropped", res.Dropped,
		"permutation", res.Permutation.String(),
		"score_before", res.ScoreBefore,
		"score_after", res.ScoreAfter)
	return res, nil
}

func (r *Result) cancel(opts Options, logger *slog.Logger) error {
	if !opts.Cancel {
		return nil
	}
	out, keep, err := cancel.Apply(r.Circuit)
	if err != nil {
		return fmt.Errorf("gate cancellation: %w", err)
	}
	r.Circuit = out
	r.Dropped = keep.Dropped()
	logger.Debug("gate cancellation done", "dropped", r.Dropped, "remaining", out.Len())
	return nil
}

func (r *Result) route(model *route.FidelityModel, opts Options, logger *slog.Logger) error {
	if !opts.Route {
		return nil
	}
	g := route.NewDemandGraph(r.Circuit)
	perm, err := route.Plan(g, model, opts.Strategy)
	if err != nil {
		return fmt.Errorf("routing: %w", err)
	}
	out, err := circuit.Rebuild(r.Circuit, nil, perm)
	if err != nil {
		return fmt.Errorf("routing: %w", err)
	}
	r.ScoreBefore = route.Score(g, model, circuit.Identity(g.N()))
	r.ScoreAfter = route.Score(g, model, perm)
	r.Circuit = out
	r.Permutation = perm
	logger.Debug("routing done",
		"strategy", string(opts.Strategy),
		"demand", g.String(),
		"permutation", perm.String())
	return nil
}

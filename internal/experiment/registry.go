package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/physics"
)

const DefaultIntegrator = "semi-implicit-euler"

type Registry struct {
	integrators map[string]func(workers int) dynamo.Integrator
	metrics     map[string]func() dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func(int) dynamo.Integrator),
		metrics:     make(map[string]func() dynamo.Metric),
	}

	euler := func(workers int) dynamo.Integrator {
		return &integrators.SemiImplicitEuler{Model: physics.NewGravity(), Workers: workers}
	}
	r.integrators[DefaultIntegrator] = euler
	r.integrators["euler"] = euler

	r.metrics["energy_drift"] = func() dynamo.Metric { return metrics.NewEnergyDrift() }
	r.metrics["momentum_drift"] = func() dynamo.Metric { return metrics.NewMomentumDrift() }
	r.metrics["min_separation"] = func() dynamo.Metric { return metrics.NewMinSeparation() }

	return r
}

func (r *Registry) GetIntegrator(name string, workers int) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(workers), nil
}

func (r *Registry) GetMetric(name string) (dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics() []dynamo.Metric {
	out := make([]dynamo.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name]())
	}
	return out
}

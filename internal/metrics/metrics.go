// Package metrics counts compiler activity on a private prometheus
// registry and exports it in the node-exporter textfile format.
package metrics

import (
	"github.com/aretw0/tickfsm/internal/compiler"
	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements compiler.Recorder.
type Collector struct {
	registry    *prometheus.Registry
	inputs      prometheus.Counter
	machines    prometheus.Counter
	diagnostics *prometheus.CounterVec
}

var _ compiler.Recorder = (*Collector)(nil)

// New creates a collector with its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		inputs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tickfsm_compile_inputs_total",
			Help: "Specification files read by the compiler.",
		}),
		machines: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tickfsm_machines_generated_total",
			Help: "Machines emitted as Go code.",
		}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tickfsm_diagnostics_total",
			Help: "Diagnostics reported, by severity and pipeline stage.",
		}, []string{"severity", "class"}),
	}
	c.registry.MustRegister(c.inputs, c.machines, c.diagnostics)
	return c
}

// Inputs adds n read inputs.
func (c *Collector) Inputs(n int) {
	c.inputs.Add(float64(n))
}

// MachinesGenerated adds n emitted machines.
func (c *Collector) MachinesGenerated(n int) {
	c.machines.Add(float64(n))
}

// Diagnostics counts every entry of l.
func (c *Collector) Diagnostics(l diag.List) {
	for _, d := range l {
		c.diagnostics.WithLabelValues(d.Severity.String(), string(d.Class)).Inc()
	}
}

// Gatherer exposes the private registry.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// WriteTextfile writes the current values to path, replacing it atomically.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

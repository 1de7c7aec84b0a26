package report

import "sync"

// Sink receives finished reports.
type Sink interface {
	Create(r Report)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Report)

// Create implements Sink.
func (f SinkFunc) Create(r Report) { f(r) }

// Collector is an in-memory Sink that keeps reports in arrival order.
type Collector struct {
	mu      sync.Mutex
	reports []Report
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Create implements Sink.
func (c *Collector) Create(r Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = append(c.reports, r)
}

// Reports returns a copy of the collected reports.
func (c *Collector) Reports() []Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Report, len(c.reports))
	copy(out, c.reports)
	return out
}

// Inhibitors returns the collected reports flagged as inhibitors.
func (c *Collector) Inhibitors() []Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Report
	for _, r := range c.reports {
		if r.IsInhibitor() {
			out = append(out, r)
		}
	}
	return out
}

// HasInhibitor reports whether any collected report blocks the upgrade.
func (c *Collector) HasInhibitor() bool {
	return len(c.Inhibitors()) > 0
}

// Len returns the number of collected reports.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.reports)
}

package channel

import "sync/atomic"

// Metrics holds lightweight, always-safe-to-read counters for a Channel,
// grounded on eventloop/metrics.go's opt-in atomic counter style. Nil
// until WithMetrics(true) is passed to Create.
type Metrics struct {
	Puts      atomic.Uint64
	Gets      atomic.Uint64
	Timeouts  atomic.Uint64
	Shutdowns atomic.Uint64
}

// Metrics returns c's metrics, or nil if WithMetrics was never enabled.
func (c *Channel) Metrics() *Metrics {
	return c.metrics
}

func (c *Channel) recordOp(st OpStatus) {
	if c.metrics == nil {
		return
	}
	switch st {
	case StatusPut:
		c.metrics.Puts.Add(1)
	case StatusGet:
		c.metrics.Gets.Add(1)
	case StatusTimeout:
		c.metrics.Timeouts.Add(1)
	case StatusSht:
		c.metrics.Shutdowns.Add(1)
	}
}

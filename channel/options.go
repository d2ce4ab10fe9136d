package channel

// Option configures a Channel at Create time, grounded on
// eventloop/options.go's LoopOption/loopOptionImpl closure pattern.
type Option interface {
	applyChannel(*Channel)
}

type optionFunc func(*Channel)

func (f optionFunc) applyChannel(c *Channel) { f(c) }

// WithLogger attaches a Logger the channel uses for lifecycle events
// (shut, drain, store-initiated shutdown). The default is NopLogger.
func WithLogger(l Logger) Option {
	return optionFunc(func(c *Channel) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithName attaches a name used only in log messages, so multi-channel
// programs can tell their channels apart in output.
func WithName(name string) Option {
	return optionFunc(func(c *Channel) {
		c.name = name
	})
}

// WithMetrics enables lightweight counters on the channel, retrievable via
// Metrics. Grounded on eventloop's WithMetrics/Loop.Metrics() seam.
func WithMetrics(enabled bool) Option {
	return optionFunc(func(c *Channel) {
		if enabled {
			c.metrics = &Metrics{}
		}
	})
}

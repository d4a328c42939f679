package jobs

// Option is a functional option for configuring a Scheduler.
type Option func(*config)

type config struct {
	workers int
}

// WithWorkers sets the number of worker goroutines. Values <= 0 select
// ThreadIndexCount().
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

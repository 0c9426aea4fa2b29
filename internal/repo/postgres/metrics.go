package postgres

import "github.com/jobhunt/jobhunt/internal/observability"

// observe times the logical DB op when a metrics sink is wired; a nil
// sink is a no-op so tests and the seeder skip instrumentation.
func observe(obs *observability.Prom, op string, fn func() error) error {
	if obs == nil {
		return fn()
	}

	return obs.ObserveDB(op, fn)
}

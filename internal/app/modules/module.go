// Package modules contains the domain-oriented dependency units assembled by
// the composition root.
package modules

import (
	"context"

	"github.com/riverqueue/river"

	"storecast.io/notifier/internal/api/handlers"
)

// Module represents a domain-specific dependency unit in the composition root.
type Module interface {
	// Name returns a stable module identifier for logging/debugging.
	Name() string

	// ContributeServerDeps injects module-owned dependencies into the HTTP server deps.
	ContributeServerDeps(*handlers.ServerDeps)

	// RegisterWorkers registers module workers into a shared River worker registry.
	RegisterWorkers(*river.Workers) error

	// Shutdown performs module-local graceful cleanup.
	Shutdown(context.Context) error
}

// PeriodicJobContributor is implemented by modules that schedule River
// periodic jobs.
type PeriodicJobContributor interface {
	PeriodicJobs() []*river.PeriodicJob
}

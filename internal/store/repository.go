// Package store provides the scenario result repository used for
// save/load of named scenario outcome bundles. Implementations are selected
// by injection: MemoryStore for session-scoped use, FileStore for durable
// persistence.
package store

import (
	"fmt"

	"github.com/finplan/scenario-engine/internal/domain"
)

// ErrNotFound is returned by Get for names that were never stored.
var ErrNotFound = fmt.Errorf("scenario not found")

// Repository stores scenario result bundles by name.
type Repository interface {
	Put(name string, result *domain.ScenarioResult) error
	Get(name string) (*domain.ScenarioResult, error)
}

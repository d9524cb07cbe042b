package scenario

import (
	"fmt"

	"github.com/finplan/scenario-engine/internal/store"
)

// ErrUnknownScenarioType is returned when an unregistered archetype is
// requested for defaults, overrides, or targeted generation.
var ErrUnknownScenarioType = fmt.Errorf("unknown scenario type")

// ErrScenarioNotFound is returned when loading a scenario name that was never
// saved. It aliases the repository sentinel so callers can match either.
var ErrScenarioNotFound = store.ErrNotFound

// MissingFieldError reports the first required field absent from a custom
// scenario definition.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("custom scenario is missing required field %q", e.Field)
}

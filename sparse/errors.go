package sparse

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrReleased is returned by Feed after session has been released
	ErrReleased = errors.New("session has been released")
)

// ReconciliationError signals that markers and arrays supplied by motion estimator are not index-aligned.
// It is a collaborator contract violation and tracking state can not be trusted after it.
type ReconciliationError struct {
	// Number of markers before reconciliation
	Markers int
	// Length of status array
	Status int
	// Number of valid entries in status array
	Valid int
	// Number of survivor points
	Survivors int
	Reason    string
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation failed: %s (markers: %d, status: %d, valid: %d, survivors: %d)",
		e.Reason, e.Markers, e.Status, e.Valid, e.Survivors)
}

// IsReconciliationError reports whether any error in err's chain is *ReconciliationError
func IsReconciliationError(err error) bool {
	var target *ReconciliationError
	return errors.As(err, &target)
}

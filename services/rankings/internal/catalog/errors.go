package catalog

import (
	"errors"
	"fmt"
	"strings"
)

type Reason string

const (
	ReasonUnknownPlatform        Reason = "UNSUPPORTED_PLATFORM"
	ReasonUnknownCategory        Reason = "UNSUPPORTED_CATEGORY"
	ReasonUnsupportedCombination Reason = "UNSUPPORTED_COMBINATION"
)

// InvalidRequestError is returned for platform/category input the table
// does not accept. It is never retried.
type InvalidRequestError struct {
	Reason    Reason
	Platform  string
	Category  string
	Supported []string
	// Suggestion is the closest supported slug for a mistyped one, if any.
	Suggestion string
}

func (e *InvalidRequestError) Error() string {
	list := strings.Join(e.Supported, ", ")
	switch e.Reason {
	case ReasonUnknownPlatform:
		return fmt.Sprintf("platform %q not supported; available platforms: %s", e.Platform, list)
	case ReasonUnknownCategory:
		return fmt.Sprintf("category %q not supported; available categories: %s", e.Category, list)
	default:
		return fmt.Sprintf("platform %q does not support category %q; supported categories for %s: %s",
			e.Platform, e.Category, e.Platform, list)
	}
}

// IsInvalidRequest reports whether err (or anything it wraps) is an InvalidRequestError.
func IsInvalidRequest(err error) bool {
	var ire *InvalidRequestError
	return errors.As(err, &ire)
}

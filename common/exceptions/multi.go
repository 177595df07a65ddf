package exceptions

import (
	"errors"

	"go.uber.org/multierr"
)

// Errors combines the non-nil errors. It returns nil when all of them are nil.
func Errors(errors ...error) error {
	return multierr.Combine(errors...)
}

func Append(err error, other error) error {
	return multierr.Append(err, other)
}

// IsMulti reports whether err, or every error combined into it, matches one of targetList.
func IsMulti(err error, targetList ...error) bool {
	if err == nil {
		return false
	}
	for _, target := range targetList {
		if errors.Is(err, target) {
			return true
		}
	}
	inner := multierr.Errors(err)
	if len(inner) <= 1 {
		return false
	}
	for _, it := range inner {
		if !IsMulti(it, targetList...) {
			return false
		}
	}
	return true
}

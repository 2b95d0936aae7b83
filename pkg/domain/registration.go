package domain

import (
	"strings"

	dErrors "pulsemarket/pkg/domain-errors"
)

// RCNumber is a company registration number as issued by the corporate
// registry (e.g. "RC123456"). This is a domain primitive that enforces
// validity at parse time; downstream code can rely on a non-empty, bounded
// value.
type RCNumber string

const maxRCNumberLength = 20

// ParseRCNumber validates and returns an RCNumber.
func ParseRCNumber(s string) (RCNumber, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "rc_number is required")
	}
	if len(s) > maxRCNumberLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "rc_number must be at most 20 characters")
	}
	return RCNumber(strings.ToUpper(s)), nil
}

func (n RCNumber) String() string { return string(n) }

package receipt

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	referencePrefix = "FT"
	referenceLen    = 12
)

var referencePattern = regexp.MustCompile(`^FT[A-Za-z0-9]{10}$`)

// NormalizeReference trims whitespace and cuts FT references down to their canonical length.
// Users often paste the reference together with trailing receipt text.
func NormalizeReference(id string) string {
	id = strings.TrimSpace(id)
	if strings.HasPrefix(id, referencePrefix) && len(id) > referenceLen {
		id = id[:referenceLen]
	}

	return id
}

// ValidateReference checks that id is FT followed by ten alphanumeric characters.
func ValidateReference(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("%w: transaction id is required", ErrMalformedReference)
	case !strings.HasPrefix(id, referencePrefix):
		return fmt.Errorf("%w: transaction id must start with %s", ErrMalformedReference, referencePrefix)
	case len(id) != referenceLen:
		return fmt.Errorf("%w: transaction id must be exactly %d characters", ErrMalformedReference, referenceLen)
	case !referencePattern.MatchString(id):
		return fmt.Errorf("%w: transaction id must be alphanumeric", ErrMalformedReference)
	}

	return nil
}

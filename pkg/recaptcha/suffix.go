package recaptcha

import (
	"strings"

	"github.com/google/uuid"
)

// newSuffix returns a per-render identifier suffix. UUIDv7 combines the
// current time with random bits, so suffixes never repeat within a page.
func newSuffix() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return strings.ReplaceAll(id.String(), "-", "")
}

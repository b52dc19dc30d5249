package recaptcha

import (
	"fmt"
	"regexp"
	"strings"
)

var identifierExpr = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// ParseCallback splits a dotted JavaScript function reference such as
// "app.forms.onToken" into its property path. A leading "window." is
// dropped. Anything other than dotted identifiers is rejected, so callbacks
// are always looked up on window and never evaluated as code.
func ParseCallback(expr string) ([]string, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return nil, nil
	}
	trimmed = strings.TrimPrefix(trimmed, "window.")
	parts := strings.Split(trimmed, ".")
	for _, part := range parts {
		if !identifierExpr.MatchString(part) {
			return nil, fmt.Errorf("recaptcha: invalid callback reference %q", expr)
		}
	}
	return parts, nil
}

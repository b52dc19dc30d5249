package recaptcha

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	inputPolicyOnce sync.Once
	inputPolicy     *bluemonday.Policy
)

var attrNameExpr = regexp.MustCompile(`^[a-zA-Z_:][-a-zA-Z0-9_:.]*$`)

// reservedAttrs are always set by the widget itself.
var reservedAttrs = map[string]struct{}{
	"type":  {},
	"name":  {},
	"id":    {},
	"value": {},
}

type fieldAttr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// inertAttrs are the field options copied onto the hidden input besides
// data-* attributes. Keep in sync with inputSanitizer.
var inertAttrs = map[string]struct{}{
	"class":            {},
	"form":             {},
	"disabled":         {},
	"autocomplete":     {},
	"title":            {},
	"aria-hidden":      {},
	"aria-label":       {},
	"aria-describedby": {},
	"aria-labelledby":  {},
}

// extraAttrs returns the user supplied attributes in a stable order. Reserved,
// malformed and non-inert names are dropped and reported to logger.
func extraAttrs(options map[string]string, logger Logger) []fieldAttr {
	out := make([]fieldAttr, 0, len(options))
	var dropped []string
	for name, value := range options {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, reserved := reservedAttrs[key]; reserved {
			continue
		}
		if !attrNameExpr.MatchString(key) || !isInertAttr(key) {
			dropped = append(dropped, name)
			continue
		}
		out = append(out, fieldAttr{Name: key, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(dropped) > 0 && logger != nil {
		sort.Strings(dropped)
		logger.Debugf("recaptcha: field options %q not allowed on the hidden input; dropped", dropped)
	}
	return out
}

func isInertAttr(name string) bool {
	if _, ok := inertAttrs[name]; ok {
		return true
	}
	return strings.HasPrefix(name, "data-")
}

// sanitizeInput strips everything from the built-in hidden input except the
// input element and its inert attributes. Theme templates are trusted.
func sanitizeInput(markup string) string {
	return strings.TrimSpace(inputSanitizer().Sanitize(markup))
}

func inputSanitizer() *bluemonday.Policy {
	inputPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("input")
		policy.AllowAttrs("type").Matching(regexp.MustCompile(`^hidden$`)).OnElements("input")
		policy.AllowAttrs("name", "id", "class", "form", "disabled", "autocomplete", "title").OnElements("input")
		policy.AllowAttrs("aria-hidden", "aria-label", "aria-describedby", "aria-labelledby").OnElements("input")
		policy.AllowDataAttributes()
		inputPolicy = policy
	})
	return inputPolicy
}

package gotemplate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"
)

func registerDefaultFilters() {
	if !pongo2.FilterExists(FilterJSString) {
		_ = pongo2.RegisterFilter(FilterJSString, filterJSString)
	}
	if !pongo2.FilterExists(FilterJSIdent) {
		_ = pongo2.RegisterFilter(FilterJSIdent, filterJSIdent)
	}
	if !pongo2.FilterExists(FilterJSJSON) {
		_ = pongo2.RegisterFilter(FilterJSJSON, filterJSJSON)
	}
}

// JSString quotes value as a JavaScript string literal that is safe to embed
// in an inline <script> block or a quoted attribute.
func JSString(value string) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return `""`
	}
	return string(encoded)
}

// JSIdent keeps only the characters allowed in a JavaScript identifier part.
func JSIdent(value string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_' || r == '$':
			return r
		default:
			return -1
		}
	}, value)
}

func filterJSString(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in == nil || in.IsNil() {
		return pongo2.AsSafeValue(`""`), nil
	}
	return pongo2.AsSafeValue(JSString(in.String())), nil
}

func filterJSIdent(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in == nil || in.IsNil() {
		return pongo2.AsSafeValue(""), nil
	}
	return pongo2.AsSafeValue(JSIdent(in.String())), nil
}

// filterJSJSON encodes arbitrary values (lists, maps) as a JSON literal.
// encoding/json escapes <, >, & and the JS line separators, so the output is
// inert inside <script>.
func filterJSJSON(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in == nil || in.IsNil() {
		return pongo2.AsSafeValue("null"), nil
	}
	encoded, err := json.Marshal(in.Interface())
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:" + FilterJSJSON, OrigError: fmt.Errorf("encode: %w", err)}
	}
	return pongo2.AsSafeValue(string(encoded)), nil
}

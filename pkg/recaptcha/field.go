package recaptcha

import (
	"regexp"
	"strings"
)

// DefaultFieldName is used for free-standing widgets that were given neither
// a name nor a model.
const DefaultFieldName = "reCaptcha"

// Model is a form model the hidden field can be bound to. FormName returns the
// prefix used in input names ("SignupForm" yields "SignupForm[attr]"); an empty
// form name yields the bare attribute.
type Model interface {
	FormName() string
}

// FormName is a Model backed by a constant name.
type FormName string

// FormName implements Model.
func (f FormName) FormName() string { return string(f) }

var attributeExpr = regexp.MustCompile(`^(.*\])?([\w.+]+)(\[.*)?$`)

// InputName builds the input name for a model attribute. Tabular prefixes
// and array suffixes are kept: attribute "[0]content[en]" on form "Post"
// yields "Post[0][content][en]".
func InputName(model Model, attribute string) string {
	formName := ""
	if model != nil {
		formName = model.FormName()
	}
	matches := attributeExpr.FindStringSubmatch(attribute)
	if matches == nil {
		if formName == "" {
			return attribute
		}
		return formName + "[" + attribute + "]"
	}
	prefix, name, suffix := matches[1], matches[2], matches[3]
	if formName == "" {
		return prefix + name + suffix
	}
	return formName + prefix + "[" + name + "]" + suffix
}

// InputID derives the element id for a model attribute from its input name.
func InputID(model Model, attribute string) string {
	return NameToID(InputName(model, attribute))
}

var nameToIDReplacements = [...][2]string{
	{"[]", ""},
	{"][", "-"},
	{"[", "-"},
	{"]", ""},
	{" ", "-"},
	{".", "-"},
}

// NameToID lowercases an input name and rewrites bracket, space and dot
// characters so the result is usable as an element id: "Model[attr]" becomes
// "model-attr" and "a.b c" becomes "a-b-c". Replacements apply in sequence.
func NameToID(name string) string {
	id := strings.ToLower(name)
	for _, r := range nameToIDReplacements {
		id = strings.ReplaceAll(id, r[0], r[1])
	}
	return id
}

// Target is where the hidden field binds: a model attribute or a plain name.
// A model with a non-empty attribute takes precedence over Name.
type Target struct {
	Model     Model
	Attribute string
	Name      string
}

// HasModel reports whether the target is bound to a model attribute.
func (t Target) HasModel() bool {
	return t.Model != nil && t.Attribute != ""
}

// InputName returns the name attribute for the hidden field.
func (t Target) InputName() string {
	if t.HasModel() {
		return InputName(t.Model, t.Attribute)
	}
	if t.Name == "" {
		return DefaultFieldName
	}
	return t.Name
}

// InputID returns the derived id for the hidden field. widgetID, when set,
// prefixes ids derived from a free-standing name.
func (t Target) InputID(widgetID string) string {
	if t.HasModel() {
		return InputID(t.Model, t.Attribute)
	}
	id := NameToID(t.InputName())
	if widgetID != "" {
		return widgetID + "-" + id
	}
	return id
}

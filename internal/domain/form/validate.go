package form

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// telPattern accepts digits with the usual separators.
const telPattern = `^[0-9+()\-. ]{7,20}$`

var (
	compiledMu sync.Mutex
	compiled   = map[*Schema]*gojsonschema.Schema{}
)

// JSONSchema returns the draft-07 JSON Schema document equivalent to s.
// Conditionally visible required fields become if/then clauses.
func (s *Schema) JSONSchema() map[string]any {
	props := map[string]any{}
	required := []string{}
	var conditions []any

	for _, f := range s.Fields {
		if f.Kind == KindFile {
			continue
		}
		props[f.Name] = f.jsonProperty()
		if !f.Required {
			continue
		}
		if f.VisibleWhen == nil {
			required = append(required, f.Name)
			continue
		}
		conditions = append(conditions, map[string]any{
			"if": map[string]any{
				"properties": map[string]any{
					f.VisibleWhen.Field: map[string]any{"const": f.VisibleWhen.Equals},
				},
				"required": []string{f.VisibleWhen.Field},
			},
			"then": map[string]any{"required": []string{f.Name}},
		})
	}

	doc := map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"title":      s.Title,
		"type":       "object",
		"properties": props,
		"required":   required,
	}
	if len(conditions) > 0 {
		doc["allOf"] = conditions
	}
	return doc
}

func (f Field) jsonProperty() map[string]any {
	p := map[string]any{"type": "string"}
	if f.MinLength > 0 {
		p["minLength"] = f.MinLength
	}
	switch f.Kind {
	case KindTextarea:
		p["maxLength"] = MaxTextareaLength
	default:
		p["maxLength"] = MaxTextLength
	}
	switch f.Kind {
	case KindEmail:
		p["format"] = "email"
	case KindDate:
		p["format"] = "date"
	case KindTel:
		p["pattern"] = telPattern
	case KindSelect, KindRadio:
		values := make([]string, 0, len(f.Options))
		for _, o := range f.Options {
			values = append(values, o.Value)
		}
		p["enum"] = values
	}
	return p
}

// compile returns the cached gojsonschema for s.
func (s *Schema) compile() (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()
	if c, ok := compiled[s]; ok {
		return c, nil
	}
	c, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(s.JSONSchema()))
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", s.Name, err)
	}
	compiled[s] = c
	return c, nil
}

// Validate normalizes values and checks them against the schema.
// PRE: values holds the raw submitted strings
// POST: Returns the values to store, or ValidationErrors naming each bad field
func (s *Schema) Validate(values map[string]string) (map[string]string, error) {
	clean := s.Normalize(values)
	c, err := s.compile()
	if err != nil {
		return nil, err
	}

	doc := make(map[string]any, len(clean))
	for k, v := range clean {
		doc[k] = v
	}
	result, err := c.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", s.Name, err)
	}
	if result.Valid() {
		return clean, nil
	}

	errs := ValidationErrors{}
	for _, re := range result.Errors() {
		name := re.Field()
		if re.Type() == "required" {
			name, _ = re.Details()["property"].(string)
		}
		f, ok := s.Field(name)
		if !ok {
			// allOf/if-then summaries carry no field of their own.
			continue
		}
		if _, seen := errs[name]; !seen {
			errs[name] = f.message(re.Type())
		}
	}
	if len(errs) == 0 {
		errs["form"] = "Please check the form and try again"
	}
	return nil, errs
}

func (f Field) message(errType string) string {
	if f.Message != "" {
		return f.Message
	}
	label := strings.ToLower(f.Label)
	switch errType {
	case "required":
		return f.Label + " is required"
	case "string_gte":
		return fmt.Sprintf("%s must be at least %d characters", f.Label, f.MinLength)
	case "string_lte":
		return f.Label + " is too long"
	case "enum":
		return "Please select a valid " + label
	default:
		return "Please enter a valid " + label
	}
}

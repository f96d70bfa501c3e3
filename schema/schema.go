package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonschema"
)

// FieldType is a JSON Schema primitive type.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
)

// Field describes one property of a structured record.
type Field struct {
	// Name is the internal field name.
	Name string
	// Alias, if set, is the name used on the wire.
	Alias string
	Type  FieldType
	// Format is an optional JSON Schema format such as "date-time".
	Format      string
	Description string
	Required    bool
	// NonEmpty rejects empty strings.
	NonEmpty bool
}

// ExternalName returns the name this field has in serialized payloads.
func (f Field) ExternalName() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// Schema is a declarative, compiled record schema. It is immutable after New
// and safe for concurrent use.
type Schema struct {
	title    string
	fields   []Field
	rendered json.RawMessage
	compiled *jsonschema.Schema
}

// New builds and compiles a schema from field declarations.
func New(title string, fields ...Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	seen := make(map[string]struct{}, len(fields)*2)
	for _, f := range fields {
		for _, name := range []string{f.Name, f.Alias} {
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateField, name)
			}
			seen[name] = struct{}{}
		}
		switch f.Type {
		case TypeString, TypeInteger, TypeNumber, TypeBoolean:
		default:
			return nil, fmt.Errorf("%w: %q for field %s", ErrUnknownType, f.Type, f.Name)
		}
	}

	s := &Schema{
		title:  title,
		fields: append([]Field(nil), fields...),
	}

	rendered, err := s.render()
	if err != nil {
		return nil, err
	}
	s.rendered = rendered

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	compiled, err := compiler.Compile(rendered)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	s.compiled = compiled

	return s, nil
}

// MustNew is like New but panics on error. Intended for package-level schemas.
func MustNew(title string, fields ...Field) *Schema {
	s, err := New(title, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Title returns the schema title.
func (s *Schema) Title() string {
	return s.title
}

// Fields returns a copy of the field declarations.
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// JSON returns the rendered JSON Schema document using external names.
func (s *Schema) JSON() json.RawMessage {
	return append(json.RawMessage(nil), s.rendered...)
}

// String returns the rendered schema as indented text for prompts.
func (s *Schema) String() string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, s.rendered, "", "  "); err != nil {
		return string(s.rendered)
	}
	return buf.String()
}

// Normalize renames internal field names to their aliases. An internal name
// is only renamed when the alias is absent; when both are present the alias
// wins and the internal key is dropped.
func (s *Schema) Normalize(data []byte) ([]byte, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &obj); err != nil || obj == nil {
		return nil, ErrNotJSONObject
	}

	changed := false
	for _, f := range s.fields {
		if f.Alias == "" {
			continue
		}
		v, ok := obj[f.Name]
		if !ok {
			continue
		}
		if _, exists := obj[f.Alias]; !exists {
			obj[f.Alias] = v
		}
		delete(obj, f.Name)
		changed = true
	}
	if !changed {
		return bytes.TrimSpace(data), nil
	}

	out, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("re-encode payload: %w", err)
	}
	return out, nil
}

// Validate normalizes a payload and checks it against the schema. The
// normalized payload is returned on success. Failures wrap ErrValidation.
func (s *Schema) Validate(data []byte) ([]byte, error) {
	normalized, err := s.Normalize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	result := s.compiled.ValidateJSON(normalized)
	if result.IsValid() {
		return normalized, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrValidation, result.Errors)
}

func (s *Schema) render() (json.RawMessage, error) {
	props := make(map[string]any, len(s.fields))
	required := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		prop := map[string]any{"type": string(f.Type)}
		if f.Format != "" {
			prop["format"] = f.Format
		}
		if f.Description != "" {
			prop["description"] = f.Description
		}
		if f.NonEmpty && f.Type == TypeString {
			prop["minLength"] = 1
		}
		props[f.ExternalName()] = prop
		if f.Required {
			required = append(required, f.ExternalName())
		}
	}

	doc := map[string]any{
		"$schema":    "https://json-schema.org/draft/2020-12/schema",
		"type":       "object",
		"properties": props,
		"required":   required,
	}
	if s.title != "" {
		doc["title"] = s.title
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("render schema: %w", err)
	}
	return out, nil
}

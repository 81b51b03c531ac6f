// Package toolschema converts provider-supplied JSON schemas into argument
// descriptors that the registry uses to validate and shape caller arguments
// before dispatch. One generic descriptor interpreted at call time replaces
// per-tool generated argument types.
package toolschema

import (
	"encoding/json"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/google/jsonschema-go/jsonschema"
)

// Kind is the semantic type of a tool argument.
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindBool   Kind = "bool"
	KindList   Kind = "list"
	KindMap    Kind = "map"
)

// Field describes one named tool argument.
type Field struct {
	Name        string
	Kind        Kind
	Required    bool
	Default     any
	Description string
}

// Descriptor is the ordered set of argument fields for one tool.
// Built once at discovery time and immutable thereafter.
type Descriptor struct {
	Fields []Field
}

// Translate builds a Descriptor from a provider tool schema.
// A nil schema or a schema without properties yields a valid
// zero-argument descriptor.
func Translate(s *jsonschema.Schema) *Descriptor {
	d := &Descriptor{}
	if s == nil || len(s.Properties) == 0 {
		return d
	}

	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop := s.Properties[name]
		f := Field{
			Name:     name,
			Kind:     resolveKind(prop),
			Required: required[name],
		}
		if prop != nil {
			f.Description = prop.Description
			if !f.Required && len(prop.Default) > 0 {
				// schema defaults are advisory, a bad one means no default
				_ = json.Unmarshal(prop.Default, &f.Default)
			}
		}
		d.Fields = append(d.Fields, f)
	}
	return d
}

// resolveKind maps a property schema to a semantic kind. A union with an
// explicit null branch resolves to the first non-null branch. Unknown type
// names fail open to string so unfamiliar schema vocabulary never prevents
// a tool from being registered.
func resolveKind(p *jsonschema.Schema) Kind {
	if p == nil {
		return KindString
	}
	if len(p.AnyOf) > 0 {
		for _, branch := range p.AnyOf {
			if branch != nil && typeName(branch) != "null" {
				return mapTypeName(typeName(branch))
			}
		}
		return KindString
	}
	return mapTypeName(typeName(p))
}

func typeName(p *jsonschema.Schema) string {
	if p.Type != "" {
		return p.Type
	}
	for _, t := range p.Types {
		if t != "null" {
			return t
		}
	}
	return ""
}

func mapTypeName(t string) Kind {
	switch t {
	case "string":
		return KindString
	case "integer":
		return KindInt
	case "number":
		return KindFloat
	case "boolean":
		return KindBool
	case "array":
		return KindList
	case "object":
		return KindMap
	default:
		return KindString
	}
}

// ValidateArgs checks required fields, injects declared defaults for absent
// optional fields, and coerces values to their declared kinds. Unknown
// extra arguments pass through untouched. The input map is not modified.
func (d *Descriptor) ValidateArgs(args map[string]any) (map[string]any, error) {
	shaped := make(map[string]any, len(args))
	for k, v := range args {
		shaped[k] = v
	}

	for _, f := range d.Fields {
		v, ok := shaped[f.Name]
		if !ok || v == nil {
			if f.Required {
				return nil, errors.Newf("missing required argument %q", f.Name)
			}
			if f.Default != nil {
				shaped[f.Name] = f.Default
			}
			continue
		}
		shaped[f.Name] = coerce(v, f.Kind)
	}
	return shaped, nil
}

// coerce shapes a decoded JSON value to its declared kind where a lossless
// conversion exists; everything else passes through as-is.
func coerce(v any, kind Kind) any {
	switch kind {
	case KindInt:
		switch n := v.(type) {
		case float64:
			if n == float64(int64(n)) {
				return int64(n)
			}
		case json.Number:
			if i, err := n.Int64(); err == nil {
				return i
			}
		}
	case KindFloat:
		switch n := v.(type) {
		case int:
			return float64(n)
		case int64:
			return float64(n)
		case json.Number:
			if f, err := n.Float64(); err == nil {
				return f
			}
		}
	}
	return v
}

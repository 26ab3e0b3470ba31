// Package schema derives JSON Schema documents from Go config structs.
// Property names come from yaml tags and constraints from validate tags.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type JSONSchema struct {
	Schema      string                 `json:"$schema,omitempty"`
	ID          string                 `json:"$id,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Description string                 `json:"description,omitempty"`
	Type        string                 `json:"type"`
	Required    []string               `json:"required,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Items       *JSONSchema            `json:"items,omitempty"`
	Enum        []any                  `json:"enum,omitempty"`
	Minimum     *float64               `json:"minimum,omitempty"`
	Maximum     *float64               `json:"maximum,omitempty"`
	MinLength   *int                   `json:"minLength,omitempty"`
	MaxLength   *int                   `json:"maxLength,omitempty"`
	MinItems    *int                   `json:"minItems,omitempty"`
	MaxItems    *int                   `json:"maxItems,omitempty"`
	UniqueItems bool                   `json:"uniqueItems,omitempty"`
}

const schemaRef = "https://json-schema.org/draft/2020-12/schema"

type Generator struct {
	// BaseID prefixes the $id of root schemas.
	BaseID string
}

func NewGenerator(baseID string) *Generator {
	return &Generator{BaseID: strings.TrimSuffix(baseID, "/")}
}

func (g *Generator) GenerateSchema(t reflect.Type) (*JSONSchema, error) {
	s, err := g.schemaForType(t)
	if err != nil {
		return nil, err
	}
	s.Schema = schemaRef
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	s.Title = t.Name()
	if g.BaseID != "" {
		s.ID = fmt.Sprintf("%s/%s", g.BaseID, strings.ToLower(t.Name()))
	}
	return s, nil
}

// GenerateJSONSchema renders the schema of v's type as indented JSON.
func (g *Generator) GenerateJSONSchema(v any) ([]byte, error) {
	s, err := g.GenerateSchema(reflect.TypeOf(v))
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

func (g *Generator) schemaForType(t reflect.Type) (*JSONSchema, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		return g.structSchema(t)
	case reflect.Slice, reflect.Array:
		items, err := g.schemaForType(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("array items: %w", err)
		}
		return &JSONSchema{Type: "array", Items: items}, nil
	case reflect.String:
		return &JSONSchema{Type: "string"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &JSONSchema{Type: "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return &JSONSchema{Type: "number"}, nil
	case reflect.Bool:
		return &JSONSchema{Type: "boolean"}, nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", t.Kind())
	}
}

func (g *Generator) structSchema(t reflect.Type) (*JSONSchema, error) {
	s := &JSONSchema{
		Type:       "object",
		Properties: make(map[string]*JSONSchema),
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := fieldName(field)
		if name == "" {
			continue
		}

		fs, err := g.schemaForType(field.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		if desc := field.Tag.Get("description"); desc != "" {
			fs.Description = desc
		}
		if applyValidateTag(field.Tag.Get("validate"), fs) {
			s.Required = append(s.Required, name)
		}
		s.Properties[name] = fs
	}
	return s, nil
}

// applyValidateTag maps validator rules onto s and reports whether the
// field is required. Rules after "dive" apply to array items.
func applyValidateTag(tag string, s *JSONSchema) bool {
	if tag == "" || tag == "-" {
		return false
	}

	required := false
	target := s
	for _, rule := range strings.Split(tag, ",") {
		key, param, _ := strings.Cut(strings.TrimSpace(rule), "=")
		switch key {
		case "required":
			if target == s {
				required = true
			}
		case "dive":
			if s.Items != nil {
				target = s.Items
			}
		case "unique":
			target.UniqueItems = true
		case "oneof":
			for _, v := range strings.Fields(param) {
				target.Enum = append(target.Enum, v)
			}
		case "min", "max", "len":
			applyBound(target, key, param)
		case "gte":
			if v, err := strconv.ParseFloat(param, 64); err == nil {
				target.Minimum = &v
			}
		case "lte":
			if v, err := strconv.ParseFloat(param, 64); err == nil {
				target.Maximum = &v
			}
		}
	}
	return required
}

// applyBound interprets min/max/len the way validator does: element count
// for arrays, character count for strings and value for numbers.
func applyBound(s *JSONSchema, key, param string) {
	n, err := strconv.Atoi(param)
	if err != nil {
		return
	}
	lower, upper := key == "min" || key == "len", key == "max" || key == "len"

	switch s.Type {
	case "array":
		if lower {
			s.MinItems = &n
		}
		if upper {
			s.MaxItems = &n
		}
	case "string":
		if lower {
			s.MinLength = &n
		}
		if upper {
			s.MaxLength = &n
		}
	default:
		v := float64(n)
		if lower {
			s.Minimum = &v
		}
		if upper {
			s.Maximum = &v
		}
	}
}

func fieldName(field reflect.StructField) string {
	for _, key := range []string{"yaml", "json"} {
		tag, ok := field.Tag.Lookup(key)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return strings.ToLower(field.Name)
}

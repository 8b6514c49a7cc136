package util

import (
	"fmt"
	"reflect"
	"strings"
)

// ValidationError reports the first payload field that does not match its
// tool schema.
type ValidationError struct {
	Field   string `json:"field"`
	Value   any    `json:"value"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// CreateSchema reflects a tool payload struct into a JSON schema object.
//
// Field names come from the json tag, `description` and `enum` (comma
// separated) tags are copied, and slices gain an `items` type. Every field
// without omitempty is required.
func CreateSchema(payload any) map[string]any {
	properties := make(map[string]any)
	var required []string

	t := reflect.TypeOf(payload)
	if t == nil || t.Kind() != reflect.Struct {
		return map[string]any{"type": "object", "properties": properties}
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, omitEmpty, ok := jsonName(field)
		if !ok {
			continue
		}

		prop := map[string]any{"type": jsonType(field.Type)}
		if field.Type.Kind() == reflect.Slice {
			prop["items"] = map[string]any{"type": jsonType(field.Type.Elem())}
		}
		if enum := field.Tag.Get("enum"); enum != "" {
			prop["enum"] = strings.Split(enum, ",")
		}
		if desc := field.Tag.Get("description"); desc != "" {
			prop["description"] = desc
		}
		properties[name] = prop

		if !omitEmpty {
			required = append(required, name)
		}
	}

	schema := map[string]any{"type": "object", "properties": properties}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// ValidateParameters checks decoded tool arguments against a schema built by
// CreateSchema or decoded from JSON. Unknown fields are ignored and nil
// values match any type.
func ValidateParameters(params map[string]any, schema map[string]any) error {
	for _, name := range requiredFields(schema["required"]) {
		if _, ok := params[name]; !ok {
			return &ValidationError{Field: name, Message: "required field is missing"}
		}
	}

	properties, _ := schema["properties"].(map[string]any)
	for name, value := range params {
		prop, ok := properties[name].(map[string]any)
		if !ok {
			continue
		}
		want, _ := prop["type"].(string)
		if !matchesType(value, want) {
			return &ValidationError{
				Field:   name,
				Value:   value,
				Message: fmt.Sprintf("expected type %s, got %T", want, value),
			}
		}

		items, _ := prop["items"].(map[string]any)
		itemType, _ := items["type"].(string)
		list, _ := value.([]any)
		for i, item := range list {
			if !matchesType(item, itemType) {
				return &ValidationError{
					Field:   name,
					Value:   value,
					Message: fmt.Sprintf("item %d: expected type %s, got %T", i, itemType, item),
				}
			}
		}
	}
	return nil
}

// jsonName returns the wire name of an exported field and whether it is
// optional. ok is false for unexported or `json:"-"` fields.
func jsonName(f reflect.StructField) (name string, omitEmpty bool, ok bool) {
	if !f.IsExported() {
		return "", false, false
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, false
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	for _, opt := range strings.Split(opts, ",") {
		if strings.TrimSpace(opt) == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, true
}

func requiredFields(v any) []string {
	switch req := v.(type) {
	case []string:
		return req
	case []any:
		out := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func jsonType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice:
		return "array"
	default:
		return "string"
	}
}

// matchesType accepts the shapes encoding/json produces when decoding into
// map[string]any, where every number arrives as float64.
func matchesType(value any, want string) bool {
	if value == nil {
		return true
	}
	switch want {
	case "string":
		_, ok := value.(string)
		return ok
	case "integer":
		switch v := value.(type) {
		case int, int64:
			return true
		case float64:
			return v == float64(int64(v))
		}
		return false
	case "number":
		switch value.(type) {
		case int, int64, float64:
			return true
		}
		return false
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	default:
		return true
	}
}

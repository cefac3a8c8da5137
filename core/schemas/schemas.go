// Package schemas validates candidate task and auth records before they are
// sent to a store. Every check is pure: a record is either accepted and
// normalized, or rejected with one message per offending field.
package schemas

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed jsonschema/*.json
var schemaFS embed.FS

const (
	schemaTask       = "task.json"
	schemaTaskUpdate = "task_update.json"
	schemaSignUp     = "signup.json"
	schemaSignIn     = "signin.json"
)

// FieldErrors maps a field name to the first rule it violated.
type FieldErrors map[string]string

// Add records msg for field unless the field already has a message.
func (fe FieldErrors) Add(field, msg string) {
	if _, ok := fe[field]; ok {
		return
	}
	fe[field] = msg
}

// Has reports whether field has a message.
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// Clear removes the message for a single field, leaving the rest in place.
func (fe FieldErrors) Clear(field string) {
	delete(fe, field)
}

// Fields returns the offending field names in sorted order.
func (fe FieldErrors) Fields() []string {
	names := make([]string, 0, len(fe))
	for name := range fe {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidationError is returned when a record fails its schema. It never
// reaches the network.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, name := range e.Fields.Fields() {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func result(fe FieldErrors) error {
	if len(fe) == 0 {
		return nil
	}
	return &ValidationError{Fields: fe}
}

// Optional distinguishes an absent field from one explicitly set to null.
// Set with a nil Value means the caller asked for null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns an Optional explicitly set to null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// =============================================================================
// Structural pass

var (
	compileOnce sync.Once
	compiled    map[string]*jsonschema.Schema
	compileErr  error
)

func loadSchemas() (map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		names := []string{schemaTask, schemaTaskUpdate, schemaSignUp, schemaSignIn}
		for _, name := range names {
			data, err := schemaFS.ReadFile("jsonschema/" + name)
			if err != nil {
				compileErr = fmt.Errorf("read schema %s: %w", name, err)
				return
			}
			if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
				compileErr = fmt.Errorf("add schema %s: %w", name, err)
				return
			}
		}

		compiled = make(map[string]*jsonschema.Schema, len(names))
		for _, name := range names {
			s, err := compiler.Compile(name)
			if err != nil {
				compileErr = fmt.Errorf("compile schema %s: %w", name, err)
				return
			}
			compiled[name] = s
		}
	})
	return compiled, compileErr
}

// checkStructure validates the JSON types of record against the named schema.
// It returns the record as decoded JSON together with the set of fields whose
// type was wrong. Those fields get an "Expected x, received y" message in fe
// and their content rules are skipped by the caller.
func checkStructure(name string, record map[string]any, want map[string]string, fe FieldErrors) (map[string]any, map[string]bool, error) {
	schemas, err := loadSchemas()
	if err != nil {
		return nil, nil, err
	}
	if record == nil {
		record = map[string]any{}
	}

	// Round trip through JSON so values built in Go (ints, typed strings)
	// reach the validator in the shape encoding/json would produce.
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, nil, fmt.Errorf("encode record: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("decode record: %w", err)
	}
	obj, _ := doc.(map[string]any)

	bad := map[string]bool{}
	err = schemas[name].Validate(doc)
	if err == nil {
		return obj, bad, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, nil, fmt.Errorf("validate %s: %w", name, err)
	}

	for _, leaf := range leaves(ve) {
		field := strings.TrimPrefix(leaf.InstanceLocation, "/")
		if field == "" || strings.Contains(field, "/") {
			continue
		}
		bad[field] = true
		fe.Add(field, fmt.Sprintf("Expected %s, received %s", want[field], jsonType(obj[field])))
	}
	return obj, bad, nil
}

func leaves(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func stringPtr(obj map[string]any, name string, bad map[string]bool) *string {
	if bad[name] {
		return nil
	}
	s, ok := obj[name].(string)
	if !ok {
		return nil
	}
	return &s
}

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonName)
}

// Violation describes one field that failed validation.
type Violation struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError is returned when a payload does not match its schema.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Field + ": " + v.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// decodeAndValidate decodes payload field by field into dst and runs the
// struct validation, folding every JSON type mismatch and tag failure into a
// single ValidationError. A field that fails to decode is left nil so it is
// reported once, as a type violation.
func decodeAndValidate(payload []byte, dst interface{}) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return &ValidationError{Violations: []Violation{{
			Field:   "body",
			Tag:     "json",
			Message: "request body must be a JSON object",
		}}}
	}

	var violations []Violation
	decodeObject(fields, reflect.ValueOf(dst).Elem(), "", &violations)

	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate: %w", err)
		}
		for _, fe := range fieldErrs {
			field := fieldPath(fe)
			if hasViolation(violations, field) {
				continue
			}
			violations = append(violations, Violation{
				Field:   field,
				Tag:     fe.Tag(),
				Message: violationMessage(field, fe),
			})
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// decodeObject sets each struct field of v from its JSON member in fields.
// Slices of structs are decoded element by element so nested type errors
// carry paths such as "items[1].quantity".
func decodeObject(fields map[string]json.RawMessage, v reflect.Value, prefix string, violations *[]Violation) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := jsonName(t.Field(i))
		raw, ok := fields[name]
		if name == "" || !ok {
			continue
		}

		path := prefix + name
		fv := v.Field(i)
		if fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() == reflect.Struct {
			decodeStructSlice(raw, fv, path, violations)
			continue
		}

		target := reflect.New(fv.Type())
		if err := decodeValue(raw, target); err != nil {
			*violations = append(*violations, typeViolation(path, fv.Type()))
			continue
		}
		fv.Set(target.Elem())
	}
}

func decodeStructSlice(raw json.RawMessage, fv reflect.Value, path string, violations *[]Violation) {
	if string(raw) == "null" {
		return
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		*violations = append(*violations, typeViolation(path, fv.Type()))
		return
	}

	out := reflect.MakeSlice(fv.Type(), len(elems), len(elems))
	for i, elem := range elems {
		elemPath := fmt.Sprintf("%s[%d]", path, i)

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
			*violations = append(*violations, typeViolation(elemPath, fv.Type().Elem()))
			continue
		}
		decodeObject(fields, out.Index(i), elemPath+".", violations)
	}
	fv.Set(out)
}

// decodeValue unmarshals raw into target. Integer fields also accept
// integral JSON numbers written with a fraction, such as 2.0.
func decodeValue(raw json.RawMessage, target reflect.Value) error {
	err := json.Unmarshal(raw, target.Interface())
	if err == nil {
		return nil
	}

	base := target.Elem().Type()
	if base.Kind() == reflect.Ptr {
		base = base.Elem()
	}
	switch base.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return err
	}

	var f float64
	if json.Unmarshal(raw, &f) != nil || f != math.Trunc(f) {
		return err
	}
	n := reflect.New(base).Elem()
	if n.OverflowInt(int64(f)) {
		return err
	}
	n.SetInt(int64(f))

	if target.Elem().Kind() == reflect.Ptr {
		p := reflect.New(base)
		p.Elem().Set(n)
		target.Elem().Set(p)
	} else {
		target.Elem().Set(n)
	}
	return nil
}

func typeViolation(path string, t reflect.Type) Violation {
	return Violation{
		Field:   path,
		Tag:     "type",
		Message: fmt.Sprintf("%s must be of type %s", path, jsonTypeName(t)),
	}
}

func jsonTypeName(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice:
		return "array"
	default:
		return "object"
	}
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// fieldPath strips the root struct name from the namespace so nested
// fields read as "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// hasViolation reports whether field, or an enclosing value such as a
// malformed "items[0]", already has a violation.
func hasViolation(vs []Violation, field string) bool {
	for _, v := range vs {
		if v.Field == field || strings.HasPrefix(field, v.Field+".") {
			return true
		}
	}
	return false
}

func violationMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Invalid email format"
	case "gte":
		return field + " must be greater than or equal to " + fe.Param()
	case "lte":
		return field + " must be less than or equal to " + fe.Param()
	default:
		return field + " is invalid"
	}
}

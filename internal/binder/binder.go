// Package binder decodes query strings and posted forms into tagged
// structs. It covers exactly the shapes the translation forms post:
// strings, integers, booleans, slices of those, optional pointers, and
// any encoding.TextUnmarshaler such as uuid.UUID.
package binder

import (
	"encoding"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
)

var (
	// ErrInvalidTarget indicates the bind target is not a struct pointer.
	ErrInvalidTarget = errors.New("bind target must be a non-nil struct pointer")
	// ErrBindQuery indicates query string decoding failed.
	ErrBindQuery = errors.New("failed to bind query parameters")
	// ErrBindForm indicates form decoding failed.
	ErrBindForm = errors.New("failed to bind form")
)

// Query decodes URL query parameters into fields tagged `query:"name"`.
func Query(r *http.Request, v any) error {
	return bind(v, "query", r.URL.Query(), ErrBindQuery)
}

// Form parses the request body as a form and decodes it into fields
// tagged `form:"name"`. Query parameters present in the URL are bound
// too, matching net/http's ParseForm semantics.
func Form(r *http.Request, v any) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: %v", ErrBindForm, err)
	}
	return bind(v, "form", r.Form, ErrBindForm)
}

func bind(v any, tag string, values map[string][]string, bindErr error) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrInvalidTarget
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return ErrInvalidTarget
	}

	rt := rv.Type()
	for i := range rv.NumField() {
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}

		name := rt.Field(i).Tag.Get(tag)
		if idx := strings.Index(name, ","); idx != -1 {
			name = name[:idx]
		}
		if name == "" || name == "-" {
			continue
		}

		fieldValues, ok := values[name]
		if !ok || len(fieldValues) == 0 {
			continue
		}
		if err := setField(field, fieldValues); err != nil {
			return fmt.Errorf("%w: parameter %q: %v", bindErr, name, err)
		}
	}
	return nil
}

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

func setField(field reflect.Value, values []string) error {
	// Pointer fields are optional: allocate and set through.
	if field.Kind() == reflect.Pointer {
		elem := reflect.New(field.Type().Elem())
		if err := setField(elem.Elem(), values); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	if reflect.PointerTo(field.Type()).Implements(textUnmarshalerType) {
		return field.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(values[0]))
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(values[0])
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(values[0], 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(values[0], 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Bool:
		// Checkbox forms post "on"; absent means false.
		if values[0] == "on" {
			field.SetBool(true)
			return nil
		}
		b, err := strconv.ParseBool(values[0])
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Slice:
		slice := reflect.MakeSlice(field.Type(), len(values), len(values))
		for i, v := range values {
			if err := setField(slice.Index(i), []string{v}); err != nil {
				return err
			}
		}
		field.Set(slice)
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}

// File: internal/botconfig/botconfig.go
// Description: The configuration container. It reflects over a caller's
// profile struct, importing loosely-typed documents into strongly-typed
// fields and exporting the current values in the tagged wire format.
package botconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	jsoniter "github.com/json-iterator/go"

	"github.com/nullmantle/pixelpilot/internal/params"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

var paramIface = reflect.TypeOf((*params.Param)(nil)).Elem()

// Import applies updates to the profile struct pointed to by target. Each
// key either fully succeeds or aborts the call; keys applied before a
// failure stay applied. Callers wanting all-or-nothing semantics should
// import into a copy.
func Import(target any, updates map[string]any) error {
	fields, err := profileFields(target)
	if err != nil {
		return err
	}
	for key, value := range updates {
		field, ok := fields[key]
		if !ok {
			return &FieldError{Field: key, Kind: UnknownField}
		}
		if err := importField(field, key, value); err != nil {
			return err
		}
	}
	return nil
}

// Export snapshots every exported, non-func field of the profile struct as a
// flat wire document. It never mutates the profile and it is total: a field
// of an unsupported representation degrades to its string rendering instead
// of failing.
func Export(target any) (map[string]any, error) {
	fields, err := profileFields(target)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(fields))
	for name, field := range fields {
		out[name] = exportField(field)
	}
	return out, nil
}

// ImportJSON decodes a JSON document and imports it. Numbers are decoded
// via json.Number so the int/float literal distinction survives.
func ImportJSON(target any, data []byte) error {
	dec := jsonAPI.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var updates map[string]any
	if err := dec.Decode(&updates); err != nil {
		return fmt.Errorf("botconfig: invalid JSON document: %w", err)
	}
	return Import(target, updates)
}

// ExportJSON renders the exported profile as indented JSON.
func ExportJSON(target any) ([]byte, error) {
	doc, err := Export(target)
	if err != nil {
		return nil, err
	}
	return jsonAPI.MarshalIndent(doc, "", "  ")
}

// profileFields maps wire field names to the settable values of the profile
// struct. Field names come from the `cfg` tag, or the snake_cased Go name.
func profileFields(target any) (map[string]reflect.Value, error) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("botconfig: target must be a non-nil struct pointer, got %T", target)
	}
	sv := rv.Elem()
	st := sv.Type()
	fields := make(map[string]reflect.Value, st.NumField())
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Tag.Get("cfg")
		if name == "-" {
			continue
		}
		if name == "" {
			name = snakeCase(sf.Name)
		}
		fields[name] = sv.Field(i)
	}
	return fields, nil
}

func importField(field reflect.Value, key string, value any) error {
	ft := field.Type()

	// Typed parameter fields decode through the registry, accepting either
	// a tagged envelope or the variant's loose form.
	if ft.Implements(paramIface) {
		want := reflect.Zero(ft).Interface().(params.Param).TypeTag()
		p, err := params.DecodeAny(want, value)
		if err != nil {
			return fmt.Errorf("botconfig: field %q: %w", key, err)
		}
		field.Set(reflect.ValueOf(p))
		return nil
	}

	switch ft.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Float32, reflect.Float64:
		if err := assignPrimitive(field, value); err != nil {
			return &FieldError{Field: key, Kind: TypeMismatch, Detail: err.Error()}
		}
		return nil
	case reflect.Slice:
		return importSlice(field, key, value)
	}
	return &FieldError{Field: key, Kind: UnsupportedFieldType, Detail: ft.String()}
}

func importSlice(field reflect.Value, key string, value any) error {
	elems, ok := toList(value)
	if !ok {
		return &FieldError{Field: key, Kind: TypeMismatch, Detail: fmt.Sprintf("expected a list, got %T", value)}
	}
	et := field.Type().Elem()

	// A sequence of parameter values decodes every element against the
	// element variant; tagged and bare elements may be mixed freely.
	if et.Implements(paramIface) {
		want := reflect.Zero(et).Interface().(params.Param).TypeTag()
		out := reflect.MakeSlice(field.Type(), 0, len(elems))
		for _, elem := range elems {
			p, err := params.DecodeAny(want, elem)
			if err != nil {
				return fmt.Errorf("botconfig: field %q: %w", key, err)
			}
			out = reflect.Append(out, reflect.ValueOf(p))
		}
		field.Set(out)
		return nil
	}

	switch et.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Float32, reflect.Float64:
		out := reflect.MakeSlice(field.Type(), 0, len(elems))
		for _, elem := range elems {
			slot := reflect.New(et).Elem()
			if err := assignPrimitive(slot, elem); err != nil {
				return &FieldError{Field: key, Kind: TypeMismatch, Detail: err.Error()}
			}
			out = reflect.Append(out, slot)
		}
		field.Set(out)
		return nil
	}
	return &FieldError{Field: key, Kind: UnsupportedFieldType, Detail: field.Type().String()}
}

// assignPrimitive enforces strict runtime-type matching: booleans are not
// ints are not floats, and no numeric widening happens. A JSON literal with
// a '.' or exponent is a float and never feeds an int field; an integer
// literal never feeds a float field.
func assignPrimitive(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.Bool:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(b)
		return nil
	case reflect.String:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(s)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := intValue(value)
		if !ok {
			return fmt.Errorf("expected int, got %v (%T)", value, value)
		}
		field.SetInt(n)
		return nil
	case reflect.Float32, reflect.Float64:
		f, ok := floatValue(value)
		if !ok {
			return fmt.Errorf("expected float, got %v (%T)", value, value)
		}
		field.SetFloat(f)
		return nil
	}
	return fmt.Errorf("unsupported primitive kind %s", field.Kind())
}

func intValue(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		if strings.ContainsAny(string(v), ".eE") {
			return 0, false
		}
		n, err := v.Int64()
		return n, err == nil
	}
	return 0, false
}

func floatValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		if !strings.ContainsAny(string(v), ".eE") {
			return 0, false
		}
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func exportField(field reflect.Value) any {
	ft := field.Type()
	if ft.Implements(paramIface) {
		return field.Interface().(params.Param).Wire().Map()
	}
	switch ft.Kind() {
	case reflect.Bool:
		return field.Bool()
	case reflect.String:
		return field.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(field.Int())
	case reflect.Float32, reflect.Float64:
		return floatLiteral(field.Float())
	case reflect.Slice:
		et := ft.Elem()
		if et.Implements(paramIface) {
			out := make([]any, field.Len())
			for i := 0; i < field.Len(); i++ {
				out[i] = field.Index(i).Interface().(params.Param).Wire().Map()
			}
			return out
		}
		switch et.Kind() {
		case reflect.Float32, reflect.Float64:
			out := make([]any, field.Len())
			for i := 0; i < field.Len(); i++ {
				out[i] = floatLiteral(field.Index(i).Float())
			}
			return out
		case reflect.Bool, reflect.String,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return field.Interface()
		}
	}
	// Escape hatch: keep export total for odd representations.
	return fmt.Sprint(field.Interface())
}

// floatLiteral renders a float field as a json.Number that keeps its
// decimal point even for whole values, so "1.0" survives a JSON export and
// re-imports as a float instead of tripping the strict literal check.
func floatLiteral(f float64) json.Number {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return json.Number(s)
}

func toList(value any) ([]any, bool) {
	if elems, ok := value.([]any); ok {
		return elems, true
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// snakeCase derives a default wire name from a Go field name. Runs of
// capitals stay together so acronyms come out readable: TradeableOnGE
// becomes tradeable_on_ge, not tradeable_on_g_e.
func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

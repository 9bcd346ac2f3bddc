// File: internal/params/scalars.go
// Description: Scalar and collection wrappers. These exist so every
// configurable field, however simple, can travel through the same tagged
// wire format as the structured variants.
package params

import (
	"fmt"
	"strings"
)

// Wire tags for the scalar and collection variants.
const (
	TagBoolean    = "Boolean"
	TagInt        = "Int"
	TagFloat      = "Float"
	TagString     = "String"
	TagStringList = "StringList"
	TagColorList  = "RGBList"
)

// truthyStrings are the string spellings ParseBoolean recognizes as true;
// any other string is false.
var truthyStrings = map[string]bool{"true": true, "1": true, "yes": true, "on": true}

type Boolean bool

func (b Boolean) TypeTag() string { return TagBoolean }
func (b Boolean) Wire() TaggedValue {
	return TaggedValue{Type: TagBoolean, Value: bool(b)}
}

// ParseBoolean accepts a bool, a string ("true"/"1"/"yes"/"on" case
// insensitively mean true), or an integer (false iff zero).
func ParseBoolean(raw any) (Boolean, error) {
	switch v := raw.(type) {
	case bool:
		return Boolean(v), nil
	case string:
		return Boolean(truthyStrings[strings.ToLower(v)]), nil
	}
	if n, ok := asInt(raw); ok {
		return Boolean(n != 0), nil
	}
	return false, &ParseError{Tag: TagBoolean, Reason: fmt.Sprintf("unrecognized shape %T", raw)}
}

type Int int

func (i Int) TypeTag() string { return TagInt }
func (i Int) Wire() TaggedValue {
	return TaggedValue{Type: TagInt, Value: int(i)}
}

// ParseInt accepts any integral number.
func ParseInt(raw any) (Int, error) {
	if n, ok := asInt(raw); ok {
		return Int(n), nil
	}
	return 0, &ParseError{Tag: TagInt, Reason: fmt.Sprintf("%v is not an integer", raw)}
}

type Float float64

func (f Float) TypeTag() string { return TagFloat }
func (f Float) Wire() TaggedValue {
	return TaggedValue{Type: TagFloat, Value: float64(f)}
}

// ParseFloat accepts any number.
func ParseFloat(raw any) (Float, error) {
	if f, ok := asFloat(raw); ok {
		return Float(f), nil
	}
	return 0, &ParseError{Tag: TagFloat, Reason: fmt.Sprintf("%v is not a number", raw)}
}

type String string

func (s String) TypeTag() string { return TagString }
func (s String) Wire() TaggedValue {
	return TaggedValue{Type: TagString, Value: string(s)}
}

// ParseString accepts a string.
func ParseString(raw any) (String, error) {
	if s, ok := raw.(string); ok {
		return String(s), nil
	}
	return "", &ParseError{Tag: TagString, Reason: fmt.Sprintf("%v is not a string", raw)}
}

type StringList []string

func (l StringList) TypeTag() string { return TagStringList }
func (l StringList) Wire() TaggedValue {
	out := make([]any, len(l))
	for i, s := range l {
		out[i] = s
	}
	return TaggedValue{Type: TagStringList, Value: out}
}

// ParseStringList accepts a list of strings.
func ParseStringList(raw any) (StringList, error) {
	list, ok := asList(raw)
	if !ok {
		return nil, &ParseError{Tag: TagStringList, Reason: "value must be a list of strings"}
	}
	out := make(StringList, 0, len(list))
	for _, elem := range list {
		s, ok := elem.(string)
		if !ok {
			return nil, &ParseError{Tag: TagStringList, Reason: fmt.Sprintf("element %v is not a string", elem)}
		}
		out = append(out, s)
	}
	return out, nil
}

// ColorList is an ordered collection of colors, typically the candidate
// tile tints a routine scans for.
type ColorList []Color

func (l ColorList) TypeTag() string { return TagColorList }
func (l ColorList) Wire() TaggedValue {
	out := make([]any, len(l))
	for i, c := range l {
		out[i] = c.Wire().Value
	}
	return TaggedValue{Type: TagColorList, Value: out}
}

// ParseColorList accepts a list of colors, each in any shape ParseColor
// recognizes or as a tagged envelope.
func ParseColorList(raw any) (ColorList, error) {
	list, ok := asList(raw)
	if !ok {
		return nil, &ParseError{Tag: TagColorList, Reason: "value must be a list of colors"}
	}
	out := make(ColorList, 0, len(list))
	for _, elem := range list {
		p, err := DecodeAny(TagColor, elem)
		if err != nil {
			return nil, err
		}
		out = append(out, p.(Color))
	}
	return out, nil
}

func init() {
	Register(Codec{
		Tag:   TagBoolean,
		Parse: func(raw any) (Param, error) { return ParseBoolean(raw) },
		Decode: func(tv TaggedValue) (Param, error) {
			if tv.Type != TagBoolean {
				return nil, &TagMismatchError{Want: TagBoolean, Got: tv.Type}
			}
			return ParseBoolean(tv.Value)
		},
	})
	Register(Codec{
		Tag:   TagInt,
		Parse: func(raw any) (Param, error) { return ParseInt(raw) },
		Decode: func(tv TaggedValue) (Param, error) {
			if tv.Type != TagInt {
				return nil, &TagMismatchError{Want: TagInt, Got: tv.Type}
			}
			return ParseInt(tv.Value)
		},
	})
	Register(Codec{
		Tag:   TagFloat,
		Parse: func(raw any) (Param, error) { return ParseFloat(raw) },
		Decode: func(tv TaggedValue) (Param, error) {
			if tv.Type != TagFloat {
				return nil, &TagMismatchError{Want: TagFloat, Got: tv.Type}
			}
			return ParseFloat(tv.Value)
		},
	})
	Register(Codec{
		Tag:   TagString,
		Parse: func(raw any) (Param, error) { return ParseString(raw) },
		Decode: func(tv TaggedValue) (Param, error) {
			if tv.Type != TagString {
				return nil, &TagMismatchError{Want: TagString, Got: tv.Type}
			}
			return ParseString(tv.Value)
		},
	})
	Register(Codec{
		Tag:   TagStringList,
		Parse: func(raw any) (Param, error) { return ParseStringList(raw) },
		Decode: func(tv TaggedValue) (Param, error) {
			if tv.Type != TagStringList {
				return nil, &TagMismatchError{Want: TagStringList, Got: tv.Type}
			}
			return ParseStringList(tv.Value)
		},
	})
	Register(Codec{
		Tag:   TagColorList,
		Parse: func(raw any) (Param, error) { return ParseColorList(raw) },
		Decode: func(tv TaggedValue) (Param, error) {
			if tv.Type != TagColorList {
				return nil, &TagMismatchError{Want: TagColorList, Got: tv.Type}
			}
			return ParseColorList(tv.Value)
		},
	})
}

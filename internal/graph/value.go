package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vektah/gqlparser/v2/ast"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindText
	KindDecimal
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "integer"
	case KindText:
		return "text"
	case KindDecimal:
		return "decimal"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is an argument value resolved at the gateway boundary. Only one of the payload fields is
// meaningful, selected by kind.
type Value struct {
	kind   Kind
	i      int64
	s      string
	d      decimal.Decimal
	fields map[string]Value
}

// Null is the absent/null variant.
func Null() Value {
	return Value{kind: KindNull}
}

func Int(v int64) Value {
	return Value{kind: KindInt, i: v}
}

func Text(v string) Value {
	return Value{kind: KindText, s: v}
}

func Decimal(v decimal.Decimal) Value {
	return Value{kind: KindDecimal, d: v}
}

// Object builds a nested-object value. The map is copied.
func Object(fields map[string]Value) Value {
	copied := make(map[string]Value, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return Value{kind: KindObject, fields: copied}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsInt returns the integer payload.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// AsText returns the text payload.
func (v Value) AsText() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.s, true
}

// AsDecimal returns the decimal payload; integers are widened.
func (v Value) AsDecimal() (decimal.Decimal, bool) {
	switch v.kind {
	case KindDecimal:
		return v.d, true
	case KindInt:
		return decimal.NewFromInt(v.i), true
	default:
		return decimal.Decimal{}, false
	}
}

// Field returns a member of an object value.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	field, ok := v.fields[name]
	return field, ok
}

// FieldNames lists object members in lexical order.
func (v Value) FieldNames() []string {
	names := make([]string, 0, len(v.fields))
	for name := range v.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindText:
		return strconv.Quote(v.s)
	case KindDecimal:
		return v.d.String()
	case KindObject:
		parts := make([]string, 0, len(v.fields))
		for _, name := range v.FieldNames() {
			parts = append(parts, name+": "+v.fields[name].String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "null"
	}
}

// FromAny converts a JSON-decoded variable value. Numbers should be decoded with UseNumber so
// decimals keep their literal precision.
func FromAny(raw any) (Value, error) {
	switch typed := raw.(type) {
	case nil:
		return Null(), nil
	case Value:
		return typed, nil
	case json.Number:
		return numberValue(string(typed))
	case string:
		return Text(typed), nil
	case int:
		return Int(int64(typed)), nil
	case int32:
		return Int(int64(typed)), nil
	case int64:
		return Int(typed), nil
	case float64:
		if typed == math.Trunc(typed) && math.Abs(typed) < 1<<53 {
			return Int(int64(typed)), nil
		}
		return Decimal(decimal.NewFromFloat(typed)), nil
	case decimal.Decimal:
		return Decimal(typed), nil
	case map[string]any:
		fields := make(map[string]Value, len(typed))
		for name, member := range typed {
			converted, err := FromAny(member)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", name, err)
			}
			fields[name] = converted
		}
		return Value{kind: KindObject, fields: fields}, nil
	default:
		return Value{}, fmt.Errorf("unsupported argument value of type %T", raw)
	}
}

// FromAST converts a parsed GraphQL literal, resolving variables from vars.
func FromAST(v *ast.Value, vars map[string]any) (Value, error) {
	if v == nil {
		return Null(), nil
	}
	switch v.Kind {
	case ast.Variable:
		raw, ok := vars[v.Raw]
		if !ok {
			return Null(), nil
		}
		return FromAny(raw)
	case ast.IntValue:
		i, err := strconv.ParseInt(v.Raw, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid integer %q", v.Raw)
		}
		return Int(i), nil
	case ast.FloatValue:
		d, err := decimal.NewFromString(v.Raw)
		if err != nil {
			return Value{}, fmt.Errorf("invalid decimal %q", v.Raw)
		}
		return Decimal(d), nil
	case ast.StringValue, ast.BlockValue:
		return Text(v.Raw), nil
	case ast.NullValue:
		return Null(), nil
	case ast.ObjectValue:
		fields := make(map[string]Value, len(v.Children))
		for _, child := range v.Children {
			converted, err := FromAST(child.Value, vars)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", child.Name, err)
			}
			fields[child.Name] = converted
		}
		return Value{kind: KindObject, fields: fields}, nil
	default:
		return Value{}, fmt.Errorf("unsupported argument literal %q", v.String())
	}
}

func numberValue(raw string) (Value, error) {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Int(i), nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Value{}, fmt.Errorf("invalid number %q", raw)
	}
	return Decimal(d), nil
}

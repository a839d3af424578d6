package model

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Entry is one key/value pair of a Mapping
type Entry struct {
	Key   any
	Value any
}

// Mapping is an ordered key/value collection as read from a bundle.
// The first entry is the one the shape matchers inspect.
type Mapping []Entry

// Sequence is an ordered list of bundle values
type Sequence []any

// Bundle values are restricted to Mapping, Sequence, int64, float64,
// string, bool and nil. canonical converts ordinary Go values into that set.
func canonical(v any) any {
	switch t := v.(type) {
	case nil, Mapping, Sequence, int64, float64, string, bool:
		return t
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	case []any:
		seq := make(Sequence, len(t))
		for i, item := range t {
			seq[i] = canonical(item)
		}
		return seq
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Slice, reflect.Array:
		seq := make(Sequence, rv.Len())
		for i := range seq {
			seq[i] = canonical(rv.Index(i).Interface())
		}
		return seq
	case reflect.Map:
		keys := rv.MapKeys()
		entries := make(Mapping, 0, len(keys))
		for _, k := range keys {
			entries = append(entries, Entry{Key: canonical(k.Interface()), Value: canonical(rv.MapIndex(k).Interface())})
		}
		// Go maps are unordered; sort keys so "first entry" is stable.
		sort.SliceStable(entries, func(i, j int) bool {
			return keyLess(entries[i].Key, entries[j].Key)
		})
		return entries
	}
	return fmt.Sprint(v)
}

func keyLess(a, b any) bool {
	ai, aInt := a.(int64)
	bi, bInt := b.(int64)
	switch {
	case aInt && bInt:
		return ai < bi
	case aInt:
		return true
	case bInt:
		return false
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func isNumber(v any) bool {
	switch v.(type) {
	case int64, float64:
		return true
	}
	return false
}

func isKey(v any) bool {
	switch v.(type) {
	case int64, string:
		return true
	}
	return false
}

// isRef accepts anything that may name a node or element id
func isRef(v any) bool {
	switch v.(type) {
	case int64, float64, string:
		return true
	}
	return false
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case Mapping:
		return "mapping"
	case Sequence:
		return "sequence"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "string"
	case bool:
		return "bool"
	}
	return fmt.Sprintf("%T", v)
}

// toID coerces an identifier to int: integers as-is, floats truncated,
// strings parsed as base-10 integers.
func toID(v any) (int, error) {
	switch t := v.(type) {
	case int64:
		return int(t), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, fmt.Errorf("id %v is not finite", t)
		}
		return int(t), nil
	case string:
		id, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("id %q is not an integer", t)
		}
		return id, nil
	}
	return 0, fmt.Errorf("id of type %s is not supported", typeName(v))
}

// toCoord coerces a coordinate to float64
func toCoord(v any) (float64, error) {
	switch t := v.(type) {
	case int64:
		return float64(t), nil
	case float64:
		return t, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("coordinate %q is not a number", t)
		}
		return f, nil
	}
	return 0, fmt.Errorf("coordinate of type %s is not supported", typeName(v))
}

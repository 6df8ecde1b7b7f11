package types

import (
	"reflect"
	"strings"
)

// GetFieldByPath follows a dot separated path of exported struct field names
// from instance, dereferencing pointers on the way.
func GetFieldByPath(instance any, fieldPath string) (any, bool) {
	valueOfIns := reflect.ValueOf(instance)
	for _, name := range strings.Split(fieldPath, ".") {
		v := reflect.Indirect(valueOfIns)
		if !v.IsValid() || v.Kind() != reflect.Struct {
			return nil, false
		}
		field, ok := v.Type().FieldByName(name)
		if !ok || !field.IsExported() {
			return nil, false
		}
		valueOfIns = v.FieldByIndex(field.Index)
	}
	return valueOfIns.Interface(), true
}

// FieldPath2Index resolves fieldPath against instance once and returns the
// field value together with the index sequence that reaches it, so later
// lookups on values of the same type can use FieldByIndexPath.
func FieldPath2Index(instance any, fieldPath string) (any, []int, bool) {
	valueOfIns := reflect.ValueOf(instance)
	fieldNames := strings.Split(fieldPath, ".")
	indices := make([]int, 0, len(fieldNames))
	for _, name := range fieldNames {
		v := reflect.Indirect(valueOfIns)
		if !v.IsValid() || v.Kind() != reflect.Struct {
			return nil, nil, false
		}
		field, ok := v.Type().FieldByName(name)
		if !ok || len(field.Index) != 1 || !field.IsExported() {
			return nil, nil, false
		}
		indices = append(indices, field.Index[0])
		valueOfIns = v.Field(field.Index[0])
	}
	return valueOfIns.Interface(), indices, true
}

// FieldByIndexPath walks indices from instance, dereferencing pointers.
// It reports false when a nil pointer or a non struct value is met.
func FieldByIndexPath(instance any, indices []int) (any, bool) {
	v := reflect.ValueOf(instance)
	for _, i := range indices {
		v = reflect.Indirect(v)
		if !v.IsValid() || v.Kind() != reflect.Struct || i >= v.NumField() {
			return nil, false
		}
		v = v.Field(i)
	}
	return v.Interface(), true
}

package postgres

import (
	"reflect"
	"sync"
)

// columnPlan is the cached list of db-tagged fields of a struct type.
type columnPlan struct {
	columns []string
	index   [][]int // field index path per column
}

var planCache sync.Map // map[reflect.Type]*columnPlan

// DBColumns returns the "db" tag names of T in field order. Embedded structs
// are flattened; unexported fields and fields tagged "-" or untagged are skipped.
func DBColumns[T any]() []string {
	var zero T
	return append([]string(nil), planFor(reflect.TypeOf(zero)).columns...)
}

// RowValues returns v's db-tagged field values in DBColumns order.
func RowValues(v any) []any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	plan := planFor(rv.Type())
	out := make([]any, len(plan.index))
	for i, path := range plan.index {
		out[i] = rv.FieldByIndex(path).Interface()
	}
	return out
}

func planFor(t reflect.Type) *columnPlan {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := planCache.Load(t); ok {
		return cached.(*columnPlan)
	}

	plan := &columnPlan{}
	if t.Kind() == reflect.Struct {
		collectColumns(t, nil, plan)
	}
	actual, _ := planCache.LoadOrStore(t, plan)
	return actual.(*columnPlan)
}

func collectColumns(t reflect.Type, prefix []int, plan *columnPlan) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		// Values of unexported fields cannot be read through reflection.
		if !field.IsExported() {
			continue
		}
		path := append(append([]int(nil), prefix...), i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			collectColumns(field.Type, path, plan)
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		plan.columns = append(plan.columns, tag)
		plan.index = append(plan.index, path)
	}
}

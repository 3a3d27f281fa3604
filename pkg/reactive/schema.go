package reactive

import (
	"reflect"
	"sync"
)

// cell is implemented by every *State[T]. Init, ComputeChanges and Deinit
// work on this type-erased view.
type cell interface {
	activeCell
	owner() *instanceRecord
	patch(rec *instanceRecord, name string) func() error
	takeChange() *Change
	release() bool
}

var cellType = reflect.TypeOf((*cell)(nil)).Elem()

// fieldSchema locates one reactive field of a struct type.
type fieldSchema struct {
	name  string
	index []int
}

// typeSchema lists the reactive fields of a struct type in declaration
// order. It is computed once per type and shared by all its instances.
type typeSchema struct {
	name   string
	fields []fieldSchema
}

// schemas caches typeSchema by reflect.Type.
var schemas sync.Map

// schemaFor returns the cached schema of struct type t.
func schemaFor(t reflect.Type) *typeSchema {
	if s, ok := schemas.Load(t); ok {
		return s.(*typeSchema)
	}

	name := t.Name()
	if name == "" {
		name = t.String()
	}
	s := &typeSchema{name: name}
	collectFields(t, nil, &s.fields)
	s.fields = dedupeFields(s.fields)

	actual, _ := schemas.LoadOrStore(t, s)
	return actual.(*typeSchema)
}

// collectFields appends the exported *State fields of t, descending into
// embedded structs the way Go promotes fields. The `reactive` tag renames a
// field; "-" skips it.
func collectFields(t reflect.Type, prefix []int, out *[]fieldSchema) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		embedded := f.Anonymous && f.Type.Kind() == reflect.Struct
		if !f.IsExported() && !embedded {
			continue
		}
		tag := f.Tag.Get("reactive")
		if tag == "-" {
			continue
		}

		index := make([]int, len(prefix)+1)
		copy(index, prefix)
		index[len(prefix)] = i

		if f.IsExported() && f.Type.Implements(cellType) {
			name := f.Name
			if tag != "" {
				name = tag
			}
			*out = append(*out, fieldSchema{name: name, index: index})
			continue
		}

		if embedded {
			collectFields(f.Type, index, out)
		}
	}
}

// dedupeFields keeps one field per name: the shallowest, as Go's own field
// promotion does, and the first declared among equals.
func dedupeFields(fields []fieldSchema) []fieldSchema {
	best := make(map[string]int, len(fields))
	for i, f := range fields {
		j, ok := best[f.name]
		if !ok || len(f.index) < len(fields[j].index) {
			best[f.name] = i
		}
	}
	if len(best) == len(fields) {
		return fields
	}

	out := make([]fieldSchema, 0, len(best))
	for i, f := range fields {
		if best[f.name] == i {
			out = append(out, f)
		}
	}
	return out
}

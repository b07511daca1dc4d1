package convert

import (
	"reflect"
	"strings"
	"sync"
)

// fieldInfo locates one mapped attribute inside a struct.
type fieldInfo struct {
	name  string // column name: `db` tag, otherwise the lower-cased Go name
	index []int  // index path, through inlined embedded structs
}

// structIndex lists the mapped attributes of a struct type in declaration order.
type structIndex struct {
	fields []fieldInfo
	byName map[string]int // lower-cased name -> position in fields
}

var indexCache sync.Map // reflect.Type -> *structIndex

func indexOf(t reflect.Type) *structIndex {
	if v, ok := indexCache.Load(t); ok {
		return v.(*structIndex)
	}
	idx := buildIndex(t)
	v, _ := indexCache.LoadOrStore(t, idx)
	return v.(*structIndex)
}

func buildIndex(rt reflect.Type) *structIndex {
	idx := &structIndex{byName: make(map[string]int)}

	var walk func(t reflect.Type, base []int)
	walk = func(t reflect.Type, base []int) {
		t = derefType(t)
		if t.Kind() != reflect.Struct {
			return
		}
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.PkgPath != "" && !sf.Anonymous {
				continue
			}
			tag := sf.Tag.Get("db")
			name, inline, omit := parseTag(tag)
			if omit {
				continue
			}
			path := append(append([]int(nil), base...), i)

			if inline || (sf.Anonymous && name == "") {
				if derefType(sf.Type).Kind() == reflect.Struct && !isText(sf.Type) {
					walk(sf.Type, path)
					continue
				}
			}
			if sf.PkgPath != "" {
				continue
			}
			if name == "" {
				name = strings.ToLower(sf.Name)
			}
			lc := strings.ToLower(name)
			if _, dup := idx.byName[lc]; dup {
				continue
			}
			idx.byName[lc] = len(idx.fields)
			idx.fields = append(idx.fields, fieldInfo{name: name, index: path})
		}
	}
	walk(rt, nil)
	return idx
}

// parseTag supports: "-", "col", ",inline", "col,inline", "inline,col".
func parseTag(tag string) (name string, inline bool, omit bool) {
	if tag == "-" {
		return "", false, true
	}
	for _, part := range strings.Split(tag, ",") {
		switch {
		case part == "inline":
			inline = true
		case part != "" && name == "":
			name = part
		}
	}
	return name, inline, false
}

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// fieldByPath walks path for reading. It reports false when an inlined
// pointer on the way is nil.
func fieldByPath(v reflect.Value, path []int) (reflect.Value, bool) {
	for _, i := range path {
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v, true
}

// fieldByPathAlloc walks path for writing, allocating nil inlined pointers.
func fieldByPathAlloc(v reflect.Value, path []int) reflect.Value {
	for _, i := range path {
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v
}

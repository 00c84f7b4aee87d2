/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package reflect

import (
	"errors"
	"reflect"
	"unsafe"

	"github.com/iancoleman/strcase"

	"dirpx.dev/tuid/apis"
)

var (
	// ErrReflectNilInstance is returned when a field is read from a nil instance.
	ErrReflectNilInstance = errors.New("reflect: nil instance")
	// ErrReflectFieldNotFound is returned when no field matches the requested name.
	ErrReflectFieldNotFound = errors.New("reflect: field not found")
	// ErrReflectUnsupported is returned when the instance is neither a struct
	// nor a map with string keys.
	ErrReflectUnsupported = errors.New("reflect: instance is not a struct or string-keyed map")
)

// ReadField reads the current value of the named field of instance.
//
// Struct instances (or pointers to them) are searched by exact field name,
// including promoted and unexported fields; when nothing matches, the
// CamelCase and lowerCamelCase forms of name are tried ("user_name" ->
// "UserName", "userName"). Maps with string keys are read by key.
//
// Failures are reported as *apis.FieldAccessError.
func ReadField(instance any, name string) (any, error) {
	if instance == nil {
		return nil, fieldError("nil", name, ErrReflectNilInstance)
	}

	v := reflect.ValueOf(instance)
	typ := TypeName(v.Type())
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, fieldError(typ, name, ErrReflectNilInstance)
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		return readKey(v, typ, name)
	case reflect.Struct:
	default:
		return nil, fieldError(typ, name, ErrReflectUnsupported)
	}

	sf, ok := lookupField(v.Type(), name)
	if !ok {
		return nil, fieldError(typ, name, ErrReflectFieldNotFound)
	}

	// Unexported fields are read through an addressable copy so the
	// caller's instance is never touched.
	if !v.CanAddr() {
		c := reflect.New(v.Type()).Elem()
		c.Set(v)
		v = c
	}
	f, err := v.FieldByIndexErr(sf.Index)
	if err != nil {
		return nil, fieldError(typ, name, err)
	}
	if !f.CanInterface() {
		f = reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
	}
	return f.Interface(), nil
}

func lookupField(t reflect.Type, name string) (reflect.StructField, bool) {
	for _, candidate := range []string{name, strcase.ToCamel(name), strcase.ToLowerCamel(name)} {
		if candidate == "" {
			continue
		}
		if sf, ok := t.FieldByName(candidate); ok {
			return sf, true
		}
	}
	return reflect.StructField{}, false
}

func readKey(m reflect.Value, typ, name string) (any, error) {
	kt := m.Type().Key()
	if kt.Kind() != reflect.String {
		return nil, fieldError(typ, name, ErrReflectUnsupported)
	}
	e := m.MapIndex(reflect.ValueOf(name).Convert(kt))
	if !e.IsValid() {
		return nil, fieldError(typ, name, ErrReflectFieldNotFound)
	}
	return e.Interface(), nil
}

func fieldError(typ, name string, err error) error {
	return &apis.FieldAccessError{Type: typ, Field: name, Err: err}
}

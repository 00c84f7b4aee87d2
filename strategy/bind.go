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

package strategy

import (
	"fmt"
	"reflect"

	"github.com/iancoleman/strcase"

	"dirpx.dev/tuid/apis"
	uref "dirpx.dev/tuid/utils/reflect"
)

var (
	contextType  = reflect.TypeOf(apis.TestContext{})
	intType      = reflect.TypeOf(0)
	anySliceType = reflect.TypeOf([]any(nil))
	stringType   = reflect.TypeOf("")
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
)

// BindFunc binds fn to the generator signature.
//
// Accepted shapes:
//
//	func(apis.TestContext, int, ...any) string
//	func(apis.TestContext, int, ...any) (string, error)
//
// optionally with a leading parameter that receives receiver (the suite
// instance). Any other shape fails with apis.ErrSignatureMismatch.
func BindFunc(fn any, receiver any) (apis.Generator, error) {
	switch f := fn.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil func", apis.ErrSignatureMismatch)
	case apis.Generator:
		return f, nil
	case func(apis.TestContext, int, ...any) (string, error):
		return apis.GeneratorFunc(f), nil
	case func(apis.TestContext, int, ...any) string:
		return apis.GeneratorFunc(func(tc apis.TestContext, count int, params ...any) (string, error) {
			return f(tc, count, params...), nil
		}), nil
	}
	return bindValue(reflect.ValueOf(fn), receiver)
}

// BindMethod binds the method called name (or its CamelCase form) of instance.
func BindMethod(instance any, name string) (apis.Generator, error) {
	if instance == nil {
		return nil, fmt.Errorf("%w: method %q needs a suite instance", apis.ErrSignatureMismatch, name)
	}

	v := reflect.ValueOf(instance)
	m := v.MethodByName(name)
	if !m.IsValid() {
		m = v.MethodByName(strcase.ToCamel(name))
	}
	if !m.IsValid() {
		return nil, fmt.Errorf("%w: %s has no method %q", apis.ErrSignatureMismatch, uref.TypeName(v.Type()), name)
	}
	return bindValue(m, nil)
}

func bindValue(fn reflect.Value, receiver any) (apis.Generator, error) {
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, fmt.Errorf("%w: not a func", apis.ErrSignatureMismatch)
	}

	t := fn.Type()
	if !t.IsVariadic() {
		return nil, mismatch(t, "must be variadic")
	}

	var lead []reflect.Value
	switch t.NumIn() {
	case 3:
	case 4:
		if receiver == nil {
			return nil, mismatch(t, "leading parameter needs a suite instance")
		}
		rv := reflect.ValueOf(receiver)
		if !rv.Type().AssignableTo(t.In(0)) {
			return nil, mismatch(t, fmt.Sprintf("instance %s is not assignable to %s", rv.Type(), t.In(0)))
		}
		lead = []reflect.Value{rv}
	default:
		return nil, mismatch(t, "wrong parameter count")
	}

	off := len(lead)
	if t.In(off) != contextType || t.In(off+1) != intType || t.In(off+2) != anySliceType {
		return nil, mismatch(t, "parameters must be (apis.TestContext, int, ...any)")
	}

	switch {
	case t.NumOut() == 1 && t.Out(0) == stringType:
	case t.NumOut() == 2 && t.Out(0) == stringType && t.Out(1) == errorType:
	default:
		return nil, mismatch(t, "results must be string or (string, error)")
	}

	return apis.GeneratorFunc(func(tc apis.TestContext, count int, params ...any) (string, error) {
		if params == nil {
			params = []any{}
		}
		args := make([]reflect.Value, 0, off+3)
		args = append(args, lead...)
		args = append(args, reflect.ValueOf(tc), reflect.ValueOf(count), reflect.ValueOf(params))

		out := fn.CallSlice(args)
		if len(out) == 2 && !out[1].IsNil() {
			return "", out[1].Interface().(error)
		}
		return out[0].String(), nil
	}), nil
}

func mismatch(t reflect.Type, reason string) error {
	return fmt.Errorf("%w: %s %s", apis.ErrSignatureMismatch, t, reason)
}

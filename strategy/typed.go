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

	"dirpx.dev/tuid/apis"
	uref "dirpx.dev/tuid/utils/reflect"
)

// NewTypeStrategy creates an apis.Strategy that instantiates generator types
// registered in reg. A fresh instance is built on every resolution.
func NewTypeStrategy(reg apis.Registry) apis.Strategy {
	return &typeStrategy{reg: reg}
}

// typeStrategy handles SourceType.
type typeStrategy struct {
	reg apis.Registry
}

// Ensure typeStrategy implements apis.Strategy.
var _ apis.Strategy = (*typeStrategy)(nil)

// TryResolve looks up src.Name and instantiates it.
func (s *typeStrategy) TryResolve(tc apis.TestContext, src apis.Source) (apis.Generator, bool, error) {
	if src.Kind != apis.SourceType {
		return nil, false, nil
	}
	if s.reg == nil {
		return nil, true, apis.WrapConfiguration("type", tc.Class, tc.Method, src.Name, apis.ErrUnknownGenerator)
	}

	t, ok := s.reg.LookupGenerator(src.Name)
	if !ok {
		return nil, true, apis.WrapConfiguration("type", tc.Class, tc.Method, src.Name, apis.ErrUnknownGenerator)
	}

	gen, err := Instantiate(src.Name, t)
	if err != nil {
		return nil, true, err
	}
	return gen, true, nil
}

// Instantiate builds a zero value of t and returns it as a Generator.
//
// The pointer form is preferred so pointer-receiver methods are found.
// When the value implements apis.Initializer, Init runs before the value
// is returned. Failures are reported as *apis.InstantiationError.
func Instantiate(name string, t reflect.Type) (gen apis.Generator, err error) {
	if t == nil {
		return nil, &apis.InstantiationError{Type: name, Err: uref.ErrReflectNilType}
	}
	switch t.Kind() {
	case reflect.Interface, reflect.Func, reflect.Chan, reflect.Ptr, reflect.UnsafePointer:
		return nil, &apis.InstantiationError{Type: name, Err: fmt.Errorf("%s kind %s has no usable zero value", uref.TypeName(t), t.Kind())}
	}

	defer func() {
		if r := recover(); r != nil {
			gen = nil
			err = &apis.InstantiationError{Type: name, Err: fmt.Errorf("construction panicked: %v", r)}
		}
	}()

	p := reflect.New(t)
	if in, ok := p.Interface().(apis.Initializer); ok {
		if err := in.Init(); err != nil {
			return nil, &apis.InstantiationError{Type: name, Err: err}
		}
	}

	if g, ok := p.Interface().(apis.Generator); ok {
		return g, nil
	}
	if g, ok := p.Elem().Interface().(apis.Generator); ok {
		return g, nil
	}
	return nil, &apis.InstantiationError{Type: name, Err: fmt.Errorf("%s does not implement Generator", uref.TypeName(t))}
}

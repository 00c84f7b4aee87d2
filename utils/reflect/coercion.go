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
	"fmt"
	"reflect"
	"regexp"
)

var (
	// identityPattern matches identity forms such as "Type@1b6d3586" or
	// "com.example.Account@1b6d3586": a qualified or capitalized type name
	// followed by at least four hex digits.
	identityPattern = regexp.MustCompile(`^(?:[\w$/*\[\]-]*\.[\w.$/*\[\]-]*|[A-Z][\w$/*\[\]-]*)@[0-9a-fA-F]{4,}$`)
	// addressPattern matches memory addresses embedded in default formatting.
	addressPattern = regexp.MustCompile(`0x[0-9a-fA-F]{6,}`)
)

// DisplayString converts v into text that is stable across runs.
//
// A nil v (or a nil pointer, map, slice, func or interface) yields ("", false).
// Strings are returned unchanged. Values implementing fmt.Stringer or error use
// their own text, replaced only when it is an identity form such as
// "Type@1b6d3586". Everything else is formatted with fmt.Sprint and replaced
// when that output carries a memory address. Pointers, funcs, chans and unsafe
// pointers without a String method always yield their type name.
//
// Replacement text is TypeName for named types and pointers to them, and the
// full type string ("[]*pkg.Item", "map[string]*pkg.Item") for composites.
func DisplayString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return "", false
		}
	}

	var text string
	switch x := v.(type) {
	case fmt.Stringer:
		text = x.String()
	case error:
		text = x.Error()
	default:
		switch rv.Kind() {
		case reflect.Ptr, reflect.Func, reflect.Chan, reflect.UnsafePointer:
			return displayTypeName(rv.Type()), true
		case reflect.String:
			return rv.String(), true
		}
		if text = fmt.Sprint(v); Unstable(text) {
			return displayTypeName(rv.Type()), true
		}
		return text, true
	}

	if identityPattern.MatchString(text) {
		return displayTypeName(rv.Type()), true
	}
	return text, true
}

// displayTypeName names t without losing its container shape.
func displayTypeName(t reflect.Type) string {
	if t.Name() != "" || (t.Kind() == reflect.Ptr && t.Elem().Name() != "") {
		return TypeName(t)
	}
	return t.String()
}

// Unstable reports whether text is a default identity representation that
// changes between runs.
func Unstable(text string) bool {
	return identityPattern.MatchString(text) || addressPattern.MatchString(text)
}

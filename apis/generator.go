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

package apis

// Generator turns a test invocation into a base identifier string.
//
// Implementations must be deterministic for identical inputs and must not
// keep state between calls. An empty result with a nil error means "no value".
type Generator interface {
	// Generate builds the base identifier for tc.
	// count is the invocation count, params are the explicit extra
	// parameters (constructor or factory arguments) of the suite instance.
	Generate(tc TestContext, count int, params ...any) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(tc TestContext, count int, params ...any) (string, error)

// Generate implements Generator for GeneratorFunc.
func (f GeneratorFunc) Generate(tc TestContext, count int, params ...any) (string, error) {
	return f(tc, count, params...)
}

// Initializer is an optional hook for registered generator types.
// A type implementing it is initialized right after construction;
// a non-nil error aborts resolution with an InstantiationError.
type Initializer interface {
	Init() error
}

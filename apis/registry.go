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

import "reflect"

// Registry stores the naming declarations of test classes and the
// registered generator types.
//
// Writes are expected during setup; reads happen concurrently from test
// invocations afterwards. Implementations must be safe for concurrent use.
type Registry interface {
	// AddNaming appends naming configs to class.method, keeping order.
	AddNaming(class, method string, cfgs ...NamingConfig) error
	// Naming returns the naming configs of class.method (nil if none).
	Naming(class, method string) []NamingConfig

	// AddProvider declares a provider on class. Duplicate names are stored;
	// they are reported by Validate and fail resolution.
	AddProvider(class string, p ProviderDeclaration) error
	// Providers returns the provider declarations of class in declaration order.
	Providers(class string) []ProviderDeclaration

	// SetFields attaches the supplementary field list of class.
	// Attaching a second, different list is a conflict.
	SetFields(class string, f SupplementaryFields) error
	// Fields returns the supplementary field list of class, if any.
	Fields(class string) (SupplementaryFields, bool)

	// RegisterGenerator associates a generator type (nearest named type of t)
	// with name. Idempotent for the same (type, name) pair.
	RegisterGenerator(name string, t reflect.Type) error
	// LookupGenerator returns the generator type registered under name.
	LookupGenerator(name string) (reflect.Type, bool)
	// Generators returns a snapshot of generator types (order is unspecified).
	Generators() []Entry

	// Entries returns a snapshot of all class declarations sorted by class name.
	Entries() []ClassDecl
	// Validate reports every contradictory declaration at once.
	Validate() error
	// Reset clears all declarations and generator types.
	Reset()
}

// Entry is a single (type, name) association of registered generator types.
type Entry struct {
	// Type is the registered reflect.Type.
	Type reflect.Type
	// Name is the associated name.
	Name string
}

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

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
)

// SimpleGenerator is the name of the built-in default generator.
// A NamingConfig with Generator "" or "simple" uses it.
const SimpleGenerator = "simple"

// SupplementaryKind selects extra descriptive text appended to a TUID.
type SupplementaryKind int

const (
	// None disables supplementary fragments for a NamingConfig.
	// It wins over any other kind listed next to it.
	None SupplementaryKind = iota
	// InstanceFields appends the instance-parameter fragment.
	InstanceFields
	// DataProviderParams appends the data-provider fragment.
	DataProviderParams
)

// String returns the snake_case name used in declaration files.
func (k SupplementaryKind) String() string {
	switch k {
	case None:
		return "none"
	case InstanceFields:
		return "instance_fields"
	case DataProviderParams:
		return "data_provider_params"
	default:
		return fmt.Sprintf("supplementary_kind(%d)", int(k))
	}
}

// ParseSupplementaryKind parses a kind name. Both snake_case and CamelCase
// spellings are accepted, as are the legacy names "class_instance" and "not".
func ParseSupplementaryKind(s string) (SupplementaryKind, error) {
	switch strcase.ToSnake(strings.TrimSpace(s)) {
	case "none", "not":
		return None, nil
	case "instance_fields", "class_instance":
		return InstanceFields, nil
	case "data_provider_params":
		return DataProviderParams, nil
	default:
		return None, fmt.Errorf("%w %q", ErrUnknownSupplementaryKind, s)
	}
}

// Valid reports whether k is one of the declared kinds.
func (k SupplementaryKind) Valid() bool {
	return k >= None && k <= DataProviderParams
}

// NamingConfig describes how one TUID part is built for a test method.
// A method may carry several; they are applied in declaration order.
type NamingConfig struct {
	// Prefix is prepended to the generator output.
	Prefix string
	// Postfix is appended to the generator output.
	Postfix string
	// Generator names a registered generator type. "" and "simple"
	// select the built-in generator. Mutually exclusive with Provider.
	Generator string
	// Provider names a ProviderDeclaration of the test class.
	// Mutually exclusive with a non-default Generator.
	Provider string
	// Supplementary lists the extra fragments to append.
	Supplementary []SupplementaryKind
}

// WantsSupplementary reports whether any supplementary fragment is requested.
func (nc NamingConfig) WantsSupplementary() bool {
	if len(nc.Supplementary) == 0 {
		return false
	}
	for _, k := range nc.Supplementary {
		if k == None {
			return false
		}
	}
	return true
}

// Source computes the generator source selected by nc.
// It fails with ErrMutuallyExclusive when both a custom generator type
// and a provider are set.
func (nc NamingConfig) Source() (Source, error) {
	custom := nc.Generator != "" && !strings.EqualFold(nc.Generator, SimpleGenerator)
	switch {
	case custom && nc.Provider != "":
		return Source{}, ErrMutuallyExclusive
	case nc.Provider != "":
		return Source{Kind: SourceProvider, Name: nc.Provider}, nil
	case custom:
		return Source{Kind: SourceType, Name: nc.Generator}, nil
	default:
		return Source{Kind: SourceDefault}, nil
	}
}

// SourceKind tags the variant of a Source.
type SourceKind int

const (
	// SourceDefault selects the built-in simple generator.
	SourceDefault SourceKind = iota
	// SourceType selects a registered generator type by name.
	SourceType
	// SourceProvider selects a provider declared on the test class.
	SourceProvider
)

// String returns a short label for logs.
func (k SourceKind) String() string {
	switch k {
	case SourceDefault:
		return "default"
	case SourceType:
		return "type"
	case SourceProvider:
		return "provider"
	default:
		return fmt.Sprintf("source_kind(%d)", int(k))
	}
}

// Source is the validated generator source of a NamingConfig.
type Source struct {
	Kind SourceKind
	// Name is the generator type name or the provider name.
	// Empty for SourceDefault.
	Name string
}

// ProviderDeclaration declares a named TUID provider on a test class.
//
// Exactly one of Func, Method and Expression must be set:
//
//   - Func is a Go function. Accepted shapes are
//     func(TestContext, int, ...any) string and
//     func(TestContext, int, ...any) (string, error), optionally with a
//     leading parameter that receives the suite instance.
//   - Method names a method of the suite instance with the same shape.
//   - Expression is an expr-lang expression evaluated per invocation.
type ProviderDeclaration struct {
	Name       string
	Func       any
	Method     string
	Expression string
}

// Bindings returns how many of Func, Method and Expression are set.
func (p ProviderDeclaration) Bindings() int {
	n := 0
	if p.Func != nil {
		n++
	}
	if p.Method != "" {
		n++
	}
	if p.Expression != "" {
		n++
	}
	return n
}

// SupplementaryFields lists suite fields whose current values make up the
// instance-parameter fragment. At most one is attached to a class.
type SupplementaryFields struct {
	Names []string
}

// ClassDecl is a snapshot of every declaration attached to one class.
type ClassDecl struct {
	// Name is the class key.
	Name string
	// Fields is nil when the class has no SupplementaryFields.
	Fields *SupplementaryFields
	// Providers in declaration order.
	Providers []ProviderDeclaration
	// Methods maps a method name to its ordered naming configs.
	Methods map[string][]NamingConfig
}

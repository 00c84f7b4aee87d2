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

// Package tuid computes Test Unique IDs: stable, human-readable strings that
// tell apart otherwise identical test invocations (the same method run with
// different instance parameters or data-provider arguments).
//
// # Declarations
//
// A Registry holds what the test framework would otherwise express as
// annotations:
//
//   - NamingConfig records attached to a class and method, applied in order.
//     Each selects a generator source (the built-in simple generator, a
//     registered generator type, or a named provider) and may add a prefix,
//     a postfix and supplementary fragments.
//   - ProviderDeclaration records attached to a class. A provider is a Go
//     func, a method of the suite instance, or an expr-lang expression.
//   - At most one SupplementaryFields record per class, naming the suite
//     fields that make up the instance-parameter fragment.
//   - Generator types registered by name and instantiated on every
//     resolution. The builder registers "uuid5" out of the box.
//
// Declarations can be written in Go or loaded from HCL or YAML files with
// the loader package.
//
// # Resolution
//
// For every naming config the source is validated once (a custom generator
// type and a provider are mutually exclusive) and handed to a strategy
// chain: provider, generator type, default. Providers are located by name
// (case-insensitive by default) and must match exactly one declaration;
// their shape is checked when they are bound, before they run.
//
// # Assembly
//
// Without naming configs the result is the simple generator's output:
//
//	params: [7, x] data: [p1, p2]
//
// With naming configs each generator output is wrapped as
// Prefix + base + Postfix; the wrapped parts are joined with a space and the
// supplementary fragments, collected on the side, are appended last:
//
//	ID-42-end data: [p1, p2]
//
// Every error aborts the computation. Errors are *apis.ConfigurationError,
// *apis.InstantiationError or *apis.FieldAccessError.
//
// # Global API
//
// Engine is the unit of work and is safe for concurrent use. The package
// also keeps a process-wide engine in an immutable snapshot published
// through an atomic pointer; readers never lock:
//
//	tuid.Registry().AddNaming(tuid.ClassOf(s), "TestLogin", apis.NamingConfig{Prefix: "ID-"})
//	id, err := tuid.TUID(apis.TestContext{Class: tuid.ClassOf(s), Method: "TestLogin", Instance: s})
//
// Writers (SetConfig, SetBuilder, SetRegistry, SetResolver, SetLogger,
// SetAll) take a build mutex, rebuild the layers that are not pinned and
// swap the snapshot. SetRegistry and SetResolver pin what they set.
package tuid

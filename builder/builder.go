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

package builder

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"dirpx.dev/tuid/apis"
	"dirpx.dev/tuid/generator"
	"dirpx.dev/tuid/registry"
	"dirpx.dev/tuid/resolver"
	"dirpx.dev/tuid/strategy"
)

// Option configures New.
type Option func(*builder)

// WithLogger sets the logger that reports declarations lost while migrating
// a previous registry. Defaults to a null logger.
func WithLogger(l hclog.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.log = l
		}
	}
}

// New creates and returns a new instance of an apis.Builder.
func New(opts ...Option) apis.Builder {
	b := &builder{log: hclog.NewNullLogger()}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

type builder struct {
	log hclog.Logger
}

// BuildRegistry builds a new apis.Registry for cfg with the built-in generator
// types registered. If a pre-existing registry is provided, its declarations
// and generator types are copied into the new registry.
func (b *builder) BuildRegistry(cfg apis.Config, preg apis.Registry) apis.Registry {
	nreg := registry.New(cfg)
	_ = nreg.RegisterGenerator(generator.UUID5Name, reflect.TypeOf(generator.UUID5{}))

	if preg == nil {
		return nreg
	}
	if err := Migrate(nreg, preg); err != nil {
		b.log.Warn("declarations dropped while rebuilding registry", "error", err)
	}
	return nreg
}

// Migrate copies the generator types and declarations of src into dst.
// Entries dst rejects are skipped; every rejection is reported in the
// returned error.
func Migrate(dst, src apis.Registry) error {
	var result *multierror.Error

	for _, e := range src.Generators() {
		if err := dst.RegisterGenerator(e.Name, e.Type); err != nil {
			result = multierror.Append(result, fmt.Errorf("generator %q: %w", e.Name, err))
		}
	}
	for _, decl := range src.Entries() {
		if decl.Fields != nil {
			if err := dst.SetFields(decl.Name, *decl.Fields); err != nil {
				result = multierror.Append(result, fmt.Errorf("class %s fields: %w", decl.Name, err))
			}
		}
		for _, p := range decl.Providers {
			if err := dst.AddProvider(decl.Name, p); err != nil {
				result = multierror.Append(result, fmt.Errorf("class %s provider %q: %w", decl.Name, p.Name, err))
			}
		}
		for method, cfgs := range decl.Methods {
			if err := dst.AddNaming(decl.Name, method, cfgs...); err != nil {
				result = multierror.Append(result, fmt.Errorf("%s.%s naming: %w", decl.Name, method, err))
			}
		}
	}

	return result.ErrorOrNil()
}

// BuildResolver builds the resolver chain: named providers first, then
// registered generator types, then the built-in simple generator.
func (b *builder) BuildResolver(cfg apis.Config, reg apis.Registry) apis.Resolver {
	return resolver.New(
		strategy.NewProviderStrategy(cfg, reg),
		strategy.NewTypeStrategy(reg),
		strategy.NewDefaultStrategy(cfg, reg),
	)
}

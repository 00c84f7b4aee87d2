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
	"strings"

	"dirpx.dev/tuid/apis"
)

// NewProviderStrategy creates an apis.Strategy that binds providers declared
// on the test class. Names match case-insensitively unless
// cfg.StrictProviderCase is set.
func NewProviderStrategy(cfg apis.Config, reg apis.Registry) apis.Strategy {
	return &providerStrategy{strict: cfg.StrictProviderCase, reg: reg}
}

// providerStrategy handles SourceProvider.
type providerStrategy struct {
	strict bool
	reg    apis.Registry
}

// Ensure providerStrategy implements apis.Strategy.
var _ apis.Strategy = (*providerStrategy)(nil)

// TryResolve locates exactly one matching declaration and binds it.
// The returned generator reports provider failures as ConfigurationError
// with Op "invoke".
func (s *providerStrategy) TryResolve(tc apis.TestContext, src apis.Source) (apis.Generator, bool, error) {
	if src.Kind != apis.SourceProvider {
		return nil, false, nil
	}

	p, err := s.lookup(tc.Class, src.Name)
	if err != nil {
		return nil, true, apis.WrapConfiguration("provider", tc.Class, tc.Method, src.Name, err)
	}

	var gen apis.Generator
	switch {
	case p.Func != nil:
		gen, err = BindFunc(p.Func, tc.Instance)
	case p.Method != "":
		gen, err = BindMethod(tc.Instance, p.Method)
	default:
		gen, err = CompileExpression(p.Expression)
	}
	if err != nil {
		return nil, true, apis.WrapConfiguration("bind", tc.Class, tc.Method, p.Name, err)
	}

	return guarded(p.Name, gen), true, nil
}

func (s *providerStrategy) lookup(class, name string) (apis.ProviderDeclaration, error) {
	var (
		found apis.ProviderDeclaration
		n     int
	)
	if s.reg != nil {
		for _, p := range s.reg.Providers(class) {
			if s.matches(p.Name, name) {
				found = p
				n++
			}
		}
	}

	switch n {
	case 0:
		return found, apis.ErrProviderNotFound
	case 1:
		return found, nil
	default:
		return found, fmt.Errorf("%w: %d declarations match", apis.ErrProviderAmbiguous, n)
	}
}

func (s *providerStrategy) matches(declared, requested string) bool {
	if s.strict {
		return declared == requested
	}
	return strings.EqualFold(declared, requested)
}

// guarded turns provider errors and panics into ConfigurationError{Op: "invoke"}.
func guarded(name string, gen apis.Generator) apis.Generator {
	return apis.GeneratorFunc(func(tc apis.TestContext, count int, params ...any) (out string, err error) {
		defer func() {
			if r := recover(); r != nil {
				out = ""
				err = invokeError(tc, name, fmt.Errorf("%w: panic: %v", apis.ErrProviderFailed, r))
			}
		}()

		out, err = gen.Generate(tc, count, params...)
		if err != nil {
			return "", invokeError(tc, name, fmt.Errorf("%w: %w", apis.ErrProviderFailed, err))
		}
		return out, nil
	})
}

func invokeError(tc apis.TestContext, name string, err error) error {
	return &apis.ConfigurationError{Op: "invoke", Class: tc.Class, Method: tc.Method, Name: name, Err: err}
}

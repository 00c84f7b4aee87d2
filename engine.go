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

package tuid

import (
	"reflect"
	"strings"

	"github.com/hashicorp/go-hclog"

	"dirpx.dev/tuid/apis"
	"dirpx.dev/tuid/builder"
	"dirpx.dev/tuid/config"
	"dirpx.dev/tuid/fragment"
	"dirpx.dev/tuid/generator"
	uref "dirpx.dev/tuid/utils/reflect"
)

// Engine computes TUIDs from a registry of declarations.
// An Engine is immutable after New and safe for concurrent use.
type Engine struct {
	cfg apis.Config
	reg apis.Registry
	res apis.Resolver
	log hclog.Logger
}

// Option configures New.
type Option func(*options)

type options struct {
	cfg *apis.Config
	reg apis.Registry
	res apis.Resolver
	bld apis.Builder
	log hclog.Logger
}

// WithConfig sets the formatting configuration. Defaults to config.DefaultConfig().
func WithConfig(cfg apis.Config) Option {
	return func(o *options) { o.cfg = &cfg }
}

// WithRegistry uses reg as is instead of building a fresh one.
func WithRegistry(reg apis.Registry) Option {
	return func(o *options) { o.reg = reg }
}

// WithResolver uses res as is instead of building one from the registry.
func WithResolver(res apis.Resolver) Option {
	return func(o *options) { o.res = res }
}

// WithBuilder sets the builder used for the registry and resolver.
func WithBuilder(b apis.Builder) Option {
	return func(o *options) { o.bld = b }
}

// WithLogger sets the logger. Defaults to a null logger.
func WithLogger(l hclog.Logger) Option {
	return func(o *options) { o.log = l }
}

// New constructs an Engine. Unset parts are built with the default builder.
func New(opts ...Option) *Engine {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	cfg := config.DefaultConfig()
	if o.cfg != nil {
		cfg = config.Sanitize(*o.cfg)
	}
	bld := o.bld
	if bld == nil {
		bld = builder.New(builder.WithLogger(o.log))
	}
	reg := o.reg
	if reg == nil {
		reg = bld.BuildRegistry(cfg, nil)
	}
	res := o.res
	if res == nil {
		res = bld.BuildResolver(cfg, reg)
	}
	return newEngine(cfg, reg, res, o.log)
}

func newEngine(cfg apis.Config, reg apis.Registry, res apis.Resolver, log hclog.Logger) *Engine {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Engine{cfg: cfg, reg: reg, res: res, log: log}
}

// Config returns the formatting configuration.
func (e *Engine) Config() apis.Config { return e.cfg }

// Registry returns the declaration registry.
func (e *Engine) Registry() apis.Registry { return e.reg }

// Resolver returns the generator resolver.
func (e *Engine) Resolver() apis.Resolver { return e.res }

// Logger returns the engine logger.
func (e *Engine) Logger() hclog.Logger { return e.log }

// TUID computes the identifier of the invocation described by tc.
// params are the explicit instance parameters of the suite.
//
// Without naming configs for tc.Class and tc.Method the result equals
// DefaultTUID. Otherwise every config is resolved and invoked in order;
// its output is wrapped in Prefix and Postfix, and requested supplementary
// fragments are collected separately and appended after all parts.
// Empty parts are skipped, so configs producing nothing add no separator.
// Any failure aborts the computation and no partial identifier is returned.
// An empty string with a nil error means no value was produced.
func (e *Engine) TUID(tc apis.TestContext, params ...any) (string, error) {
	cfgs := e.reg.Naming(tc.Class, tc.Method)
	if len(cfgs) == 0 {
		e.log.Trace("no naming config, using default generator", "test", tc.Key())
		return e.DefaultTUID(tc, params...)
	}

	fragments := fragment.New(e.cfg, e.reg)
	parts := make([]string, 0, len(cfgs))
	var side []string

	for i, nc := range cfgs {
		gen, err := e.res.Resolve(tc, nc)
		if err != nil {
			return "", e.fail(tc, i, err)
		}
		if e.log.IsTrace() {
			src, _ := nc.Source()
			e.log.Trace("resolved naming config", "test", tc.Key(), "index", i, "source", src.Kind.String(), "name", src.Name)
		}

		base, err := gen.Generate(tc, tc.Invocation, params...)
		if err != nil {
			return "", e.fail(tc, i, err)
		}
		if part := nc.Prefix + base + nc.Postfix; part != "" {
			parts = append(parts, part)
		}

		if !nc.WantsSupplementary() {
			continue
		}
		extra, err := fragments.For(tc, params, nc.Supplementary...)
		if err != nil {
			return "", e.fail(tc, i, err)
		}
		if extra != "" {
			side = append(side, extra)
		}
	}

	return strings.Join(append(parts, side...), e.cfg.Separator), nil
}

// DefaultTUID returns the output of the built-in simple generator for tc,
// ignoring any naming configs.
func (e *Engine) DefaultTUID(tc apis.TestContext, params ...any) (string, error) {
	out, err := generator.NewSimple(e.cfg, e.reg).Generate(tc, tc.Invocation, params...)
	if err != nil {
		return "", e.fail(tc, -1, err)
	}
	return out, nil
}

func (e *Engine) fail(tc apis.TestContext, index int, err error) error {
	e.log.Debug("tuid computation failed", "test", tc.Key(), "index", index, "error", err)
	return err
}

// ClassOf returns the class key of a suite value: TUIDClass() when v
// implements apis.ClassNamer, otherwise the stable "pkg.Type" name with
// pointers and other containers unwrapped.
func ClassOf(v any) string {
	if v == nil {
		return ""
	}
	if n, ok := v.(apis.ClassNamer); ok {
		if name := n.TUIDClass(); name != "" {
			return name
		}
	}
	return uref.TypeName(reflect.TypeOf(v))
}

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
	"errors"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"

	"dirpx.dev/tuid/apis"
	"dirpx.dev/tuid/builder"
	"dirpx.dev/tuid/config"
)

// init publishes the default snapshot.
func init() {
	cfg := config.DefaultConfig()
	b := builder.New()
	reg := b.BuildRegistry(cfg, nil)
	st.Store(newState(cfg, reg, b.BuildResolver(cfg, reg), b, nil, false, false))
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("tuid: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("tuid: builder returned nil resolver")
)

// TUID computes the identifier of tc with the global engine.
func TUID(tc apis.TestContext, params ...any) (string, error) {
	return st.Load().eng.TUID(tc, params...)
}

// DefaultTUID computes the default identifier of tc with the global engine.
func DefaultTUID(tc apis.TestContext, params ...any) (string, error) {
	return st.Load().eng.DefaultTUID(tc, params...)
}

// Default returns the engine of the current global snapshot.
func Default() *Engine {
	return st.Load().eng
}

// SetAll replaces the global state in one step.
//
// Nil cfg, bld and log leave the current value. A nil reg or res is rebuilt
// by the builder and unpinned; a non-nil one is used as is and pinned.
func SetAll(cfg *apis.Config, reg apis.Registry, res apis.Resolver, bld apis.Builder, log hclog.Logger) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()

	ncfg := old.cfg
	if cfg != nil {
		ncfg = config.Sanitize(*cfg)
	}
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}
	nlog := old.eng.log
	if log != nil {
		nlog = log
	}

	preg, pres := reg != nil, res != nil
	if reg == nil {
		reg = old.reg
	}
	if res == nil {
		res = old.res
	}
	reg, res = rebuild(nbld, ncfg, reg, res, preg, pres)

	st.Store(newState(ncfg, reg, res, nbld, nlog, preg, pres))
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration and rebuilds unpinned layers.
func SetConfig(cfg apis.Config) {
	cfg = config.Sanitize(cfg)

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	reg, res := rebuild(old.bld, cfg, old.reg, old.res, old.preg, old.pres)
	st.Store(newState(cfg, reg, res, old.bld, old.eng.log, old.preg, old.pres))
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry pins reg as the global registry and rebuilds the resolver
// unless it is pinned.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	reg, res := rebuild(old.bld, old.cfg, reg, old.res, true, old.pres)
	st.Store(newState(old.cfg, reg, res, old.bld, old.eng.log, true, old.pres))
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver pins res as the global resolver.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(newState(old.cfg, old.reg, res, old.bld, old.eng.log, old.preg, true))
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder and rebuilds unpinned layers with it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	reg, res := rebuild(b, old.cfg, old.reg, old.res, old.preg, old.pres)
	st.Store(newState(old.cfg, reg, res, b, old.eng.log, old.preg, old.pres))
}

// Logger returns the global logger.
func Logger() hclog.Logger {
	return st.Load().eng.log
}

// SetLogger sets the global logger. A nil l restores the null logger.
func SetLogger(l hclog.Logger) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(newState(old.cfg, old.reg, old.res, old.bld, l, old.preg, old.pres))
}

// IsRegistryPinned reports whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry stops the global registry from being rebuilt.
func PinRegistry() { setPins(func(s *state) { s.preg = true }) }

// UnpinRegistry lets the global registry be rebuilt again.
func UnpinRegistry() { setPins(func(s *state) { s.preg = false }) }

// IsResolverPinned reports whether the global resolver is pinned.
func IsResolverPinned() bool {
	return st.Load().pres
}

// PinResolver stops the global resolver from being rebuilt.
func PinResolver() { setPins(func(s *state) { s.pres = true }) }

// UnpinResolver lets the global resolver be rebuilt again.
func UnpinResolver() { setPins(func(s *state) { s.pres = false }) }

func setPins(fn func(*state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	fn(&next)
	st.Store(&next)
}

// rebuild builds the unpinned layers with b. A rebuilt registry migrates
// the declarations of reg.
func rebuild(b apis.Builder, cfg apis.Config, reg apis.Registry, res apis.Resolver, preg, pres bool) (apis.Registry, apis.Resolver) {
	if !preg {
		reg = b.BuildRegistry(cfg, reg)
	}
	if !pres {
		res = b.BuildResolver(cfg, reg)
	}

	// Ensure non-nil reg and res.
	if reg == nil {
		panic(ErrNilRegistry)
	}
	if res == nil {
		panic(ErrNilResolver)
	}
	return reg, res
}

// buildMu serializes writers so partially-built snapshots are never published.
var buildMu sync.Mutex

// st is the global snapshot.
var st atomic.Pointer[state]

// state is an immutable snapshot published atomically via st.Store.
// Writers create a new state and swap it; published states are never mutated.
type state struct {
	cfg apis.Config
	reg apis.Registry
	res apis.Resolver
	bld apis.Builder
	// eng is built from cfg, reg, res and the logger.
	eng *Engine
	// preg and pres mark pinned layers that rebuilds leave alone.
	preg bool
	pres bool
}

func newState(cfg apis.Config, reg apis.Registry, res apis.Resolver, bld apis.Builder, log hclog.Logger, preg, pres bool) *state {
	return &state{
		cfg:  cfg,
		reg:  reg,
		res:  res,
		bld:  bld,
		eng:  newEngine(cfg, reg, res, log),
		preg: preg,
		pres: pres,
	}
}

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

package registry

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"

	"dirpx.dev/tuid/apis"
	uref "dirpx.dev/tuid/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("tuid(registry): nil reflect.Type provided")
	// ErrEmptyName is returned when an empty name is provided.
	ErrEmptyName = errors.New("tuid(registry): empty name provided")
	// ErrEmptyClass is returned when a declaration has no class key.
	ErrEmptyClass = errors.New("tuid(registry): empty class provided")
	// ErrEmptyMethod is returned when a naming config has no method key.
	ErrEmptyMethod = errors.New("tuid(registry): empty method provided")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a generator name with a different type.
	ErrConflictingRegistration = errors.New("tuid(registry): conflicting generator registration")
	// ErrReservedName is returned when registering the built-in generator name.
	ErrReservedName = errors.New("tuid(registry): generator name is reserved")
	// ErrFieldsConflict is returned when a class already carries a different field list.
	ErrFieldsConflict = errors.New("tuid(registry): class already has supplementary fields")
	// ErrInvalidBinding is returned when a provider does not set exactly one binding.
	ErrInvalidBinding = errors.New("tuid(registry): provider must set exactly one of func, method or expression")
)

// New constructs an empty Registry.
// cfg.StrictProviderCase controls how duplicate provider names are detected.
func New(cfg apis.Config) apis.Registry {
	return &registry{
		cfg:        cfg,
		classes:    make(map[string]*class),
		generators: make(map[string]apis.Entry),
	}
}

// class holds every declaration attached to one class key.
type class struct {
	fields    *apis.SupplementaryFields
	providers []apis.ProviderDeclaration
	methods   map[string][]apis.NamingConfig
}

// registry is a Registry implementation guarded by a single RWMutex.
type registry struct {
	cfg apis.Config

	mu      sync.RWMutex
	classes map[string]*class
	// generators is keyed by the lower-cased generator name.
	generators map[string]apis.Entry
}

// classLocked returns the entry of name, creating it. r.mu must be held for writing.
func (r *registry) classLocked(name string) *class {
	c, ok := r.classes[name]
	if !ok {
		c = &class{methods: make(map[string][]apis.NamingConfig)}
		r.classes[name] = c
	}
	return c
}

// AddNaming appends cfgs to class.method in order.
func (r *registry) AddNaming(className, method string, cfgs ...apis.NamingConfig) error {
	if className == "" {
		return ErrEmptyClass
	}
	if method == "" {
		return ErrEmptyMethod
	}
	if len(cfgs) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.classLocked(className)
	for _, nc := range cfgs {
		nc.Supplementary = slices.Clone(nc.Supplementary)
		c.methods[method] = append(c.methods[method], nc)
	}
	return nil
}

// Naming returns a copy of the naming configs of class.method.
func (r *registry) Naming(className, method string) []apis.NamingConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[className]
	if !ok {
		return nil
	}
	return cloneNaming(c.methods[method])
}

// AddProvider declares p on class. Duplicate names are kept so that
// Validate and resolution can report them.
func (r *registry) AddProvider(className string, p apis.ProviderDeclaration) error {
	if className == "" {
		return ErrEmptyClass
	}
	if p.Name == "" {
		return ErrEmptyName
	}
	if p.Bindings() != 1 {
		return fmt.Errorf("%w: provider %q of %s", ErrInvalidBinding, p.Name, className)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.classLocked(className)
	c.providers = append(c.providers, p)
	return nil
}

// Providers returns the provider declarations of class in declaration order.
func (r *registry) Providers(className string) []apis.ProviderDeclaration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[className]
	if !ok {
		return nil
	}
	return slices.Clone(c.providers)
}

// SetFields attaches f to class. Setting an identical list again is a no-op.
func (r *registry) SetFields(className string, f apis.SupplementaryFields) error {
	if className == "" {
		return ErrEmptyClass
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.classLocked(className)
	if c.fields != nil {
		if slices.Equal(c.fields.Names, f.Names) {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrFieldsConflict, className)
	}
	c.fields = &apis.SupplementaryFields{Names: slices.Clone(f.Names)}
	return nil
}

// Fields returns the supplementary field list of class, if any.
func (r *registry) Fields(className string) (apis.SupplementaryFields, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[className]
	if !ok || c.fields == nil {
		return apis.SupplementaryFields{}, false
	}
	return apis.SupplementaryFields{Names: slices.Clone(c.fields.Names)}, true
}

// RegisterGenerator associates the nearest named type of t with name.
// Names are case-insensitive. It is idempotent for the same (name, type) pair.
func (r *registry) RegisterGenerator(name string, t reflect.Type) error {
	// Validate inputs early.
	if t == nil {
		return ErrNilType
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if strings.EqualFold(name, apis.SimpleGenerator) {
		return ErrReservedName
	}

	// Normalize to the nearest named type.
	b, err := uref.Normalize(t, uref.DefaultMaxUnwrap)
	if err != nil {
		return err
	}

	key := strings.ToLower(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.generators[key]; ok {
		if old.Type == b {
			return nil // idempotent re-registration
		}
		return fmt.Errorf("%w: %q is bound to %s", ErrConflictingRegistration, name, uref.TypeName(old.Type))
	}

	r.generators[key] = apis.Entry{Type: b, Name: name}
	return nil
}

// LookupGenerator returns the type registered under name.
func (r *registry) LookupGenerator(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.generators[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return e.Type, true
}

// Generators returns a snapshot of generator types sorted by name.
func (r *registry) Generators() []apis.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]apis.Entry, 0, len(r.generators))
	for _, e := range r.generators {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
	return entries
}

// Entries returns a deep snapshot of all class declarations sorted by class name.
func (r *registry) Entries() []apis.ClassDecl {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]apis.ClassDecl, 0, len(r.classes))
	for name, c := range r.classes {
		decl := apis.ClassDecl{
			Name:      name,
			Providers: slices.Clone(c.providers),
			Methods:   make(map[string][]apis.NamingConfig, len(c.methods)),
		}
		if c.fields != nil {
			decl.Fields = &apis.SupplementaryFields{Names: slices.Clone(c.fields.Names)}
		}
		for m, cfgs := range c.methods {
			decl.Methods[m] = cloneNaming(cfgs)
		}
		out = append(out, decl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Validate checks every class for contradictory declarations and reports
// all of them at once. It returns nil when the registry is consistent.
func (r *registry) Validate() error {
	var result *multierror.Error

	for _, decl := range r.Entries() {
		// Duplicate provider names.
		seen := make(map[string]int, len(decl.Providers))
		for _, p := range decl.Providers {
			seen[r.providerKey(p.Name)]++
		}
		for _, p := range decl.Providers {
			key := r.providerKey(p.Name)
			if seen[key] > 1 {
				result = multierror.Append(result,
					fmt.Errorf("class %s: provider %q declared %d times: %w",
						decl.Name, p.Name, seen[key], apis.ErrProviderAmbiguous))
				seen[key] = 0
			}
		}

		// Naming configs, in a stable method order.
		methods := make([]string, 0, len(decl.Methods))
		for m := range decl.Methods {
			methods = append(methods, m)
		}
		sort.Strings(methods)

		for _, m := range methods {
			for i, nc := range decl.Methods[m] {
				for _, k := range nc.Supplementary {
					if !k.Valid() {
						result = multierror.Append(result,
							fmt.Errorf("%s.%s naming #%d: %w: %s",
								decl.Name, m, i, apis.ErrUnknownSupplementaryKind, k))
					}
				}
				src, err := nc.Source()
				if err != nil {
					result = multierror.Append(result,
						fmt.Errorf("%s.%s naming #%d: %w", decl.Name, m, i, err))
					continue
				}
				switch src.Kind {
				case apis.SourceProvider:
					if _, ok := seen[r.providerKey(src.Name)]; !ok {
						result = multierror.Append(result,
							fmt.Errorf("%s.%s naming #%d: provider %q: %w",
								decl.Name, m, i, src.Name, apis.ErrProviderNotFound))
					}
				case apis.SourceType:
					if _, ok := r.LookupGenerator(src.Name); !ok {
						result = multierror.Append(result,
							fmt.Errorf("%s.%s naming #%d: generator %q: %w",
								decl.Name, m, i, src.Name, apis.ErrUnknownGenerator))
					}
				}
			}
		}
	}

	return result.ErrorOrNil()
}

// Reset clears all declarations and generator types.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes = make(map[string]*class)
	r.generators = make(map[string]apis.Entry)
}

func (r *registry) providerKey(name string) string {
	if r.cfg.StrictProviderCase {
		return name
	}
	return strings.ToLower(name)
}

func cloneNaming(in []apis.NamingConfig) []apis.NamingConfig {
	if in == nil {
		return nil
	}
	out := make([]apis.NamingConfig, len(in))
	for i, nc := range in {
		nc.Supplementary = slices.Clone(nc.Supplementary)
		out[i] = nc
	}
	return out
}

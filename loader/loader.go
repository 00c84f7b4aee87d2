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

// Package loader reads naming declarations from HCL, JSON or YAML files
// into a registry.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"gopkg.in/yaml.v3"

	"dirpx.dev/tuid/apis"
	"dirpx.dev/tuid/builder"
	"dirpx.dev/tuid/config"
)

var (
	// ErrPathRequired is returned when no file path is given.
	ErrPathRequired = errors.New("configuration file path is required")
	// ErrNotFound is returned when the file does not exist.
	ErrNotFound = errors.New("configuration file not found")
	// ErrUnsupportedFormat is returned for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported configuration file format")
)

// File is the decoded form of a declaration file.
type File struct {
	// Settings overrides formatting knobs.
	Settings *Settings `hcl:"settings,block" yaml:"settings"`
	// Classes declares naming per test class.
	Classes  []Class   `hcl:"class,block" yaml:"classes"`
}

// Settings mirrors apis.Config. Empty values keep the defaults.
type Settings struct {
	Delimiter          string `hcl:"delimiter,optional" yaml:"delimiter"`
	Separator          string `hcl:"separator,optional" yaml:"separator"`
	InstancePattern    string `hcl:"instance_pattern,optional" yaml:"instance_pattern"`
	DataPattern        string `hcl:"data_pattern,optional" yaml:"data_pattern"`
	StrictProviderCase bool   `hcl:"strict_provider_case,optional" yaml:"strict_provider_case"`
}

// Class holds the declarations of one test class.
type Class struct {
	Name      string     `hcl:"name,label" yaml:"name"`
	Fields    []string   `hcl:"fields,optional" yaml:"fields"`
	Providers []Provider `hcl:"provider,block" yaml:"providers"`
	Methods   []Method   `hcl:"method,block" yaml:"methods"`
}

// Provider declares a provider backed by a suite method or an expression.
// Func providers can only be declared in Go.
type Provider struct {
	Name       string `hcl:"name,label" yaml:"name"`
	Method     string `hcl:"method,optional" yaml:"method"`
	Expression string `hcl:"expression,optional" yaml:"expression"`
}

// Method lists the naming configs of a test method, in order.
type Method struct {
	Name   string   `hcl:"name,label" yaml:"name"`
	Naming []Naming `hcl:"tuid,block" yaml:"tuid"`
}

// Naming is the file form of apis.NamingConfig.
type Naming struct {
	Prefix        string   `hcl:"prefix,optional" yaml:"prefix"`
	Postfix       string   `hcl:"postfix,optional" yaml:"postfix"`
	Generator     string   `hcl:"generator,optional" yaml:"generator"`
	Provider      string   `hcl:"provider,optional" yaml:"provider"`
	Supplementary []string `hcl:"supplementary,optional" yaml:"supplementary"`
}

// Loader decodes declaration files and applies them to registries.
type Loader struct {
	log hclog.Logger
}

// New returns a Loader. A nil log disables logging.
func New(log hclog.Logger) *Loader {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Loader{log: log.Named("loader")}
}

// LoadFile decodes path into reg with a silent Loader.
func LoadFile(path string, reg apis.Registry) (*File, error) {
	return New(nil).Load(path, reg)
}

// Load decodes path, applies it to reg and validates reg.
// The decoded file is returned even when validation fails.
//
// reg keeps the configuration it was created with, so the file's settings
// block (strict_provider_case included) does not affect it. Callers that want
// the settings honored use Build, or create reg from File.Config after Parse.
func (l *Loader) Load(path string, reg apis.Registry) (*File, error) {
	f, err := l.Parse(path)
	if err != nil {
		return nil, err
	}
	if err := f.Apply(reg); err != nil {
		return f, err
	}
	if err := reg.Validate(); err != nil {
		l.log.Debug("declarations are inconsistent", "path", path, "error", err)
		return f, err
	}
	l.log.Debug("loaded declarations", "path", path, "classes", len(f.Classes))
	return f, nil
}

// Build decodes path and creates a registry with b for the file's own
// settings, then applies and validates the declarations. A nil b uses the
// default builder. The engine configuration is File.Config.
func (l *Loader) Build(path string, b apis.Builder) (*File, apis.Registry, error) {
	f, err := l.Parse(path)
	if err != nil {
		return nil, nil, err
	}
	if b == nil {
		b = builder.New(builder.WithLogger(l.log))
	}

	reg := b.BuildRegistry(f.Config(), nil)
	if err := f.Apply(reg); err != nil {
		return f, reg, err
	}
	if err := reg.Validate(); err != nil {
		l.log.Debug("declarations are inconsistent", "path", path, "error", err)
		return f, reg, err
	}
	l.log.Debug("built registry", "path", path, "classes", len(f.Classes))
	return f, reg, nil
}

// Parse decodes path according to its extension: .hcl and .json through
// hclsimple, .yaml and .yml through yaml.v3.
func (l *Loader) Parse(path string) (*File, error) {
	if path == "" {
		return nil, ErrPathRequired
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl", ".json":
		if err := hclsimple.DecodeFile(path, nil, &f); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file: %w", err)
		}
	case ".yaml", ".yml":
		if err := decodeYAML(path, &f); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	l.log.Trace("parsed declaration file", "path", path)
	return &f, nil
}

func decodeYAML(path string, f *File) error {
	fh, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fh.Close()

	dec := yaml.NewDecoder(fh)
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Config returns the formatting configuration of f on top of the defaults.
func (f *File) Config() apis.Config {
	if f == nil || f.Settings == nil {
		return config.DefaultConfig()
	}
	s := f.Settings
	var opts []config.Option
	if s.Delimiter != "" {
		opts = append(opts, config.WithDelimiter(s.Delimiter))
	}
	if s.Separator != "" {
		opts = append(opts, config.WithSeparator(s.Separator))
	}
	if s.InstancePattern != "" {
		opts = append(opts, config.WithInstancePattern(s.InstancePattern))
	}
	if s.DataPattern != "" {
		opts = append(opts, config.WithDataPattern(s.DataPattern))
	}
	opts = append(opts, config.WithStrictProviderCase(s.StrictProviderCase))
	return config.NewConfig(opts...)
}

// Apply adds every declaration of f to reg. All failures are reported together.
func (f *File) Apply(reg apis.Registry) error {
	var result *multierror.Error

	for _, c := range f.Classes {
		if len(c.Fields) > 0 {
			if err := reg.SetFields(c.Name, apis.SupplementaryFields{Names: c.Fields}); err != nil {
				result = multierror.Append(result, fmt.Errorf("class %s: %w", c.Name, err))
			}
		}

		for _, p := range c.Providers {
			decl := apis.ProviderDeclaration{Name: p.Name, Method: p.Method, Expression: p.Expression}
			if err := reg.AddProvider(c.Name, decl); err != nil {
				result = multierror.Append(result, fmt.Errorf("class %s: %w", c.Name, err))
			}
		}

		for _, m := range c.Methods {
			cfgs := make([]apis.NamingConfig, 0, len(m.Naming))
			for i, n := range m.Naming {
				nc, err := n.namingConfig()
				if err != nil {
					result = multierror.Append(result, fmt.Errorf("%s.%s naming #%d: %w", c.Name, m.Name, i, err))
					continue
				}
				cfgs = append(cfgs, nc)
			}
			if err := reg.AddNaming(c.Name, m.Name, cfgs...); err != nil {
				result = multierror.Append(result, fmt.Errorf("class %s: %w", c.Name, err))
			}
		}
	}

	return result.ErrorOrNil()
}

func (n Naming) namingConfig() (apis.NamingConfig, error) {
	nc := apis.NamingConfig{
		Prefix:    n.Prefix,
		Postfix:   n.Postfix,
		Generator: n.Generator,
		Provider:  n.Provider,
	}
	for _, s := range n.Supplementary {
		k, err := apis.ParseSupplementaryKind(s)
		if err != nil {
			return nc, err
		}
		nc.Supplementary = append(nc.Supplementary, k)
	}
	return nc, nil
}

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

package config

import (
	"strings"

	"dirpx.dev/tuid/apis"
)

const (
	// DefaultDelimiter represents the default for Delimiter.
	DefaultDelimiter = ", "
	// DefaultSeparator represents the default for Separator.
	DefaultSeparator = " "
	// DefaultInstancePattern represents the default for InstancePattern.
	DefaultInstancePattern = "params: [%s]"
	// DefaultDataPattern represents the default for DataPattern.
	DefaultDataPattern = "data: [%s]"
	// DefaultStrictProviderCase represents the default for StrictProviderCase.
	// Provider names match case-insensitively unless enabled.
	DefaultStrictProviderCase = false
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return Sanitize(cfg)
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		Delimiter:          DefaultDelimiter,
		Separator:          DefaultSeparator,
		InstancePattern:    DefaultInstancePattern,
		DataPattern:        DefaultDataPattern,
		StrictProviderCase: DefaultStrictProviderCase,
	}
}

// Sanitize resets invalid values of cfg to their defaults.
// Empty joiners and patterns without exactly one %s verb are invalid.
func Sanitize(cfg apis.Config) apis.Config {
	if cfg.Delimiter == "" {
		cfg.Delimiter = DefaultDelimiter
	}
	if cfg.Separator == "" {
		cfg.Separator = DefaultSeparator
	}
	if !validPattern(cfg.InstancePattern) {
		cfg.InstancePattern = DefaultInstancePattern
	}
	if !validPattern(cfg.DataPattern) {
		cfg.DataPattern = DefaultDataPattern
	}
	return cfg
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithDelimiter sets the Delimiter option.
// An empty value resets to the default.
func WithDelimiter(d string) Option {
	return func(c *apis.Config) {
		c.Delimiter = d
	}
}

// WithSeparator sets the Separator option.
// An empty value resets to the default.
func WithSeparator(s string) Option {
	return func(c *apis.Config) {
		c.Separator = s
	}
}

// WithInstancePattern sets the InstancePattern option.
// A pattern without exactly one %s resets to the default.
func WithInstancePattern(p string) Option {
	return func(c *apis.Config) {
		c.InstancePattern = p
	}
}

// WithDataPattern sets the DataPattern option.
// A pattern without exactly one %s resets to the default.
func WithDataPattern(p string) Option {
	return func(c *apis.Config) {
		c.DataPattern = p
	}
}

// WithStrictProviderCase sets the StrictProviderCase option.
func WithStrictProviderCase(strict bool) Option {
	return func(c *apis.Config) {
		c.StrictProviderCase = strict
	}
}

func validPattern(p string) bool {
	return strings.Count(p, "%s") == 1 && strings.Count(p, "%") == 1
}

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
	"errors"
	"fmt"
)

var (
	// ErrMutuallyExclusive is returned when a NamingConfig sets both a custom
	// generator type and a provider.
	ErrMutuallyExclusive = errors.New("tuid: generator and provider are mutually exclusive")
	// ErrProviderNotFound is returned when no provider matches the requested name.
	ErrProviderNotFound = errors.New("tuid: provider not found")
	// ErrProviderAmbiguous is returned when several providers match the requested name.
	ErrProviderAmbiguous = errors.New("tuid: provider is ambiguous")
	// ErrSignatureMismatch is returned when a provider cannot be bound
	// to the generator signature.
	ErrSignatureMismatch = errors.New("tuid: provider signature mismatch")
	// ErrUnknownGenerator is returned when a generator type name is not registered.
	ErrUnknownGenerator = errors.New("tuid: unknown generator type")
	// ErrUnknownSupplementaryKind is returned for a SupplementaryKind outside
	// the declared constants.
	ErrUnknownSupplementaryKind = errors.New("tuid: unknown supplementary kind")
	// ErrProviderFailed is returned when a bound provider fails during invocation.
	ErrProviderFailed = errors.New("tuid: provider failed")
)

// ConfigurationError reports contradictory or unresolvable naming configuration.
// Provider invocation failures are reported as ConfigurationError with Op "invoke".
type ConfigurationError struct {
	// Op is the failing step: "source", "provider", "bind", "type", "invoke"
	// or "supplementary".
	Op     string
	Class  string
	Method string
	// Name is the provider or generator type name involved, if any.
	Name string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("tuid: configuration error op=%s %s%s: %v", e.Op, describeTarget(e.Class, e.Method), describeName(e.Name), e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// InstantiationError reports a generator type that cannot be constructed.
type InstantiationError struct {
	// Type is the generator type name.
	Type string
	Err  error
}

func (e *InstantiationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("tuid: cannot instantiate generator type %q: %v", e.Type, e.Err)
}

func (e *InstantiationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FieldAccessError reports a configured field that cannot be located or read.
type FieldAccessError struct {
	// Type is the display name of the instance type.
	Type  string
	Field string
	Err   error
}

func (e *FieldAccessError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("tuid: cannot read field %q of %s: %v", e.Field, e.Type, e.Err)
}

func (e *FieldAccessError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// WrapConfiguration wraps err into a ConfigurationError. When err already is
// a ConfigurationError, its empty metadata is filled in and it is returned as is.
func WrapConfiguration(op, class, method, name string, err error) error {
	if err == nil {
		return nil
	}

	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		if cfgErr.Op == "" {
			cfgErr.Op = op
		}
		if cfgErr.Class == "" {
			cfgErr.Class = class
		}
		if cfgErr.Method == "" {
			cfgErr.Method = method
		}
		if cfgErr.Name == "" {
			cfgErr.Name = name
		}
		return err
	}

	return &ConfigurationError{
		Op:     op,
		Class:  class,
		Method: method,
		Name:   name,
		Err:    err,
	}
}

func describeTarget(class, method string) string {
	switch {
	case class == "" && method == "":
		return "target=<unknown>"
	case method == "":
		return fmt.Sprintf("class=%s", class)
	default:
		return fmt.Sprintf("target=%s.%s", class, method)
	}
}

func describeName(name string) string {
	if name == "" {
		return ""
	}
	return fmt.Sprintf(" name=%q", name)
}

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

// Package fragment builds the supplementary fragments of a TUID: the
// instance-parameter fragment and the data-provider fragment.
package fragment

import (
	"fmt"
	"strings"

	"dirpx.dev/tuid/apis"
	uref "dirpx.dev/tuid/utils/reflect"
)

// nullText renders values that have no display string.
const nullText = "null"

// Builder produces fragments using the patterns and delimiter of cfg.
// A Builder has no mutable state and is safe for concurrent use.
type Builder struct {
	cfg apis.Config
	// reg supplies class-level SupplementaryFields. May be nil.
	reg apis.Registry
}

// New returns a Builder. reg may be nil, in which case field
// declarations are never consulted.
func New(cfg apis.Config, reg apis.Registry) *Builder {
	return &Builder{cfg: cfg, reg: reg}
}

// Instance builds the instance-parameter fragment.
//
// When the class of tc declares SupplementaryFields, each field is read from
// tc.Instance and the explicit params are ignored. Otherwise params are used.
// With neither, the fragment is empty.
func (b *Builder) Instance(tc apis.TestContext, params ...any) (string, error) {
	if b.reg != nil {
		if fields, ok := b.reg.Fields(tc.Class); ok {
			values := make([]any, 0, len(fields.Names))
			for _, name := range fields.Names {
				v, err := uref.ReadField(tc.Instance, name)
				if err != nil {
					return "", err
				}
				values = append(values, v)
			}
			return b.format(b.cfg.InstancePattern, values), nil
		}
	}
	if len(params) == 0 {
		return "", nil
	}
	return b.format(b.cfg.InstancePattern, params), nil
}

// DataProvider builds the data-provider fragment. It is empty unless the
// method has a data-provider binding and received live parameters.
func (b *Builder) DataProvider(tc apis.TestContext) string {
	if tc.DataProvider == "" || len(tc.Parameters) == 0 {
		return ""
	}
	return b.format(b.cfg.DataPattern, tc.Parameters)
}

// For builds the fragments selected by kinds, each kind at most once and in
// first-seen order, drops blank ones and joins the rest with the separator.
// Any None in kinds disables every fragment.
func (b *Builder) For(tc apis.TestContext, params []any, kinds ...apis.SupplementaryKind) (string, error) {
	nc := apis.NamingConfig{Supplementary: kinds}
	if !nc.WantsSupplementary() {
		return "", nil
	}

	seen := make(map[apis.SupplementaryKind]bool, len(kinds))
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		if seen[k] {
			continue
		}
		seen[k] = true

		var (
			s   string
			err error
		)
		switch k {
		case apis.InstanceFields:
			s, err = b.Instance(tc, params...)
		case apis.DataProviderParams:
			s = b.DataProvider(tc)
		default:
			err = apis.WrapConfiguration("supplementary", tc.Class, tc.Method, "",
				fmt.Errorf("%w: %s", apis.ErrUnknownSupplementaryKind, k))
		}
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, b.cfg.Separator), nil
}

// Join coerces each value to its display string and joins them with the
// configured delimiter. Values without a display string render as "null".
func (b *Builder) Join(values []any) string {
	out := make([]string, len(values))
	for i, v := range values {
		s, ok := uref.DisplayString(v)
		if !ok {
			s = nullText
		}
		out[i] = s
	}
	return strings.Join(out, b.cfg.Delimiter)
}

func (b *Builder) format(pattern string, values []any) string {
	return fmt.Sprintf(pattern, b.Join(values))
}

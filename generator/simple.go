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

// Package generator holds the built-in generators.
package generator

import (
	"strings"

	"dirpx.dev/tuid/apis"
	"dirpx.dev/tuid/fragment"
)

// Simple is the built-in default generator. Its output is the
// instance-parameter fragment followed by the data-provider fragment,
// joined with the configured separator when both are present.
type Simple struct {
	fragments *fragment.Builder
	sep       string
}

// Ensure Simple implements apis.Generator.
var _ apis.Generator = (*Simple)(nil)

// NewSimple returns a Simple generator. reg may be nil.
func NewSimple(cfg apis.Config, reg apis.Registry) *Simple {
	return &Simple{fragments: fragment.New(cfg, reg), sep: cfg.Separator}
}

// Generate ignores count: identical parameters yield identical output.
func (g *Simple) Generate(tc apis.TestContext, _ int, params ...any) (string, error) {
	inst, err := g.fragments.Instance(tc, params...)
	if err != nil {
		return "", err
	}
	data := g.fragments.DataProvider(tc)

	switch {
	case inst == "":
		return data, nil
	case data == "":
		return inst, nil
	default:
		return strings.Join([]string{inst, data}, g.sep), nil
	}
}

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
	"dirpx.dev/tuid/apis"
	"dirpx.dev/tuid/generator"
)

// NewDefaultStrategy creates the universal fallback: the built-in simple generator.
func NewDefaultStrategy(cfg apis.Config, reg apis.Registry) apis.Strategy {
	return defaultStrategy{cfg: cfg, reg: reg}
}

// defaultStrategy handles SourceDefault.
type defaultStrategy struct {
	cfg apis.Config
	reg apis.Registry
}

// Ensure defaultStrategy implements apis.Strategy.
var _ apis.Strategy = (*defaultStrategy)(nil)

// TryResolve returns a fresh simple generator.
func (s defaultStrategy) TryResolve(_ apis.TestContext, src apis.Source) (apis.Generator, bool, error) {
	if src.Kind != apis.SourceDefault {
		return nil, false, nil
	}
	return generator.NewSimple(s.cfg, s.reg), true, nil
}

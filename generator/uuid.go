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

package generator

import (
	"github.com/google/uuid"

	"dirpx.dev/tuid/apis"
	"dirpx.dev/tuid/config"
)

// UUID5Name is the name UUID5 is registered under by the default builder.
const UUID5Name = "uuid5"

// UUID5 derives a name-based (SHA-1) UUID from the class, the method and the
// explicit and data-provider parameters of the invocation. The invocation
// count is not part of the name, so the UUID is stable across runs.
//
// UUID5 is instantiated through the registry and uses the default fragment
// formatting; class field declarations are not consulted.
type UUID5 struct {
	simple *Simple
}

// Ensure UUID5 implements apis.Generator and apis.Initializer.
var (
	_ apis.Generator   = (*UUID5)(nil)
	_ apis.Initializer = (*UUID5)(nil)
)

// Init prepares the underlying fragment formatting.
func (g *UUID5) Init() error {
	g.simple = NewSimple(config.DefaultConfig(), nil)
	return nil
}

// Generate returns the UUID in its canonical 36-character form.
func (g *UUID5) Generate(tc apis.TestContext, count int, params ...any) (string, error) {
	if g.simple == nil {
		if err := g.Init(); err != nil {
			return "", err
		}
	}
	body, err := g.simple.Generate(tc, count, params...)
	if err != nil {
		return "", err
	}
	name := tc.Key() + "|" + body
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String(), nil
}

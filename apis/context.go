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

// TestContext describes a single test invocation as seen by the test framework.
//
// It is created per invocation by the caller and is never mutated by tuid.
// Class and Method are the keys used to look up declarations in a Registry.
type TestContext struct {
	// Class identifies the owning test class (suite), e.g. "login.Suite".
	Class string
	// Method is the test method name.
	Method string
	// Instance is the live suite value, if any. Field reads and
	// method-bound providers operate on it.
	Instance any
	// Parameters are the live arguments the invocation received.
	Parameters []any
	// DataProvider names the data-provider binding of the method.
	// Empty means the method has no data provider.
	DataProvider string
	// Invocation is the current invocation count of the method.
	Invocation int
}

// Key returns the "Class.Method" form used in logs and errors.
func (tc TestContext) Key() string {
	if tc.Class == "" {
		return tc.Method
	}
	return tc.Class + "." + tc.Method
}

// ClassNamer lets a suite type choose its own class key instead of the
// derived "pkg.Type" name.
//
// TUIDClass is type-level: it must not depend on instance state and must be
// safe for concurrent calls.
type ClassNamer interface {
	TUIDClass() string
}

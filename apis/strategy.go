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

// Strategy is a pluggable resolution step. A Resolver chains strategies
// in order (provider -> generator type -> default).
type Strategy interface {
	// TryResolve attempts to build a generator for src.
	// It returns handled=false to fall through to the next strategy.
	// A non-nil error stops the chain.
	TryResolve(tc TestContext, src Source) (gen Generator, handled bool, err error)
}

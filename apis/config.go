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

// Config carries read-only formatting and matching knobs used while building TUIDs.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// Delimiter joins values inside a fragment, e.g. ", " in "params: [a, b]".
	Delimiter string

	// Separator joins TUID parts: per-config results, supplementary
	// fragments and the two halves of the default generator output.
	Separator string

	// InstancePattern formats the instance-parameter fragment.
	// It must contain exactly one %s verb.
	InstancePattern string

	// DataPattern formats the data-provider fragment.
	// It must contain exactly one %s verb.
	DataPattern string

	// StrictProviderCase disables case-insensitive provider name matching.
	StrictProviderCase bool
}

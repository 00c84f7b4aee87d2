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

package reflect_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	uref "dirpx.dev/tuid/utils/reflect"
)

// identity mimics a default identity representation.
type identity struct{}

func (identity) String() string { return "com.example.Account@1b6d3586" }

// plainStringer has a stable String method.
type plainStringer struct{ id int }

func (p plainStringer) String() string { return "account-7" }

type holder struct {
	P *int
}

type locale string

type item struct{ N int }

// color has a deliberate hex String form.
type color int

func (c color) String() string { return "0xFF00FF" }

type mailbox struct{}

func (mailbox) String() string { return "bob@cafe" }

func TestDisplayString(t *testing.T) {
	n := 3
	var nilPtr *A
	var nilSlice []int

	cases := []struct {
		name   string
		val    any
		want   string
		wantOK bool
	}{
		{"nil", nil, "", false},
		{"typed nil pointer", nilPtr, "", false},
		{"nil slice", nilSlice, "", false},
		{"string", "abc", "abc", true},
		{"string with at sign", "user@example", "user@example", true},
		{"named string kind", locale("en@1a"), "en@1a", true},
		{"int", 7, "7", true},
		{"bool", true, "true", true},
		{"slice", []int{1, 2}, "[1 2]", true},
		{"stable stringer", plainStringer{id: 1}, "account-7", true},
		{"identity stringer", identity{}, "reflect_test.identity", true},
		{"error", errors.New("boom"), "boom", true},
		{"pointer", &A{}, "reflect_test.A", true},
		{"func", func() {}, "func()", true},
		{"struct holding address", holder{P: &n}, "reflect_test.holder", true},
		{"plain struct", A{}, "{}", true},
		{"map of pointers", map[string]*item{"a": {N: 1}}, "map[string]*reflect_test.item", true},
		{"slice of pointers", []*item{{N: 1}}, "[]*reflect_test.item", true},
		{"array of pointers", [1]*item{{N: 1}}, "[1]*reflect_test.item", true},
		{"pointer to pointer", func() any { p := &item{}; return &p }(), "**reflect_test.item", true},
		{"map of values", map[string]item{"a": {N: 1}}, "map[a:{1}]", true},
		{"hex stringer", color(1), "0xFF00FF", true},
		{"lowercase at stringer", mailbox{}, "bob@cafe", true},
		{"error with address", errors.New("dial 0xc000012345 failed"), "dial 0xc000012345 failed", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := uref.DisplayString(tc.val)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDisplayString_IdempotentOnStrings(t *testing.T) {
	inputs := []string{"", "abc", "Type@1f", "0xc000012345", "params: [a, b]", "naïve"}

	for _, x := range inputs {
		once, _ := uref.DisplayString(x)
		twice, _ := uref.DisplayString(once)
		assert.Equal(t, once, twice, "input %q", x)
	}
}

func TestUnstable(t *testing.T) {
	assert.True(t, uref.Unstable("Account@1b6d3586"))
	assert.True(t, uref.Unstable("&{0xc000012345}"))
	assert.True(t, uref.Unstable("com.example.Account@1b6d3586"))
	assert.False(t, uref.Unstable("user@example.com"))
	assert.False(t, uref.Unstable("bob@cafe"))
	assert.False(t, uref.Unstable("42"))
}

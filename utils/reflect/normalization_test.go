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
	"reflect"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	uref "dirpx.dev/tuid/utils/reflect"
)

// Local test types.
type A struct{}
type G[T any] struct{}
type W[T any] struct{ V T }

func TestNormalize_BasicContainers(t *testing.T) {
	cases := []struct {
		name string
		typ  reflect.Type
		want reflect.Type
	}{
		{"plain", reflect.TypeOf(A{}), reflect.TypeOf(A{})},
		{"ptr", reflect.TypeOf(&A{}), reflect.TypeOf(A{})},
		{"slice", reflect.TypeOf([]A{}), reflect.TypeOf(A{})},
		{"array", reflect.TypeOf([2]A{}), reflect.TypeOf(A{})},
		{"chan", reflect.TypeOf((chan A)(nil)), reflect.TypeOf(A{})},
		{"map prefers elem", reflect.TypeOf(map[string]A{}), reflect.TypeOf(A{})},
		{"map falls back to key", reflect.TypeOf(map[string][]int{}), reflect.TypeOf("")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := uref.Normalize(tc.typ, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalize_Errors(t *testing.T) {
	_, err := uref.Normalize(nil, 0)
	assert.ErrorIs(t, err, uref.ErrReflectNilType)

	_, err = uref.Normalize(reflect.TypeOf(struct{}{}), 0)
	assert.ErrorIs(t, err, uref.ErrReflectTypeNotNamed)

	_, err = uref.Normalize(reflect.TypeOf(func() {}), 0)
	assert.ErrorIs(t, err, uref.ErrReflectTypeNotNamed)
}

func TestNormalize_MaxUnwrapLimit(t *testing.T) {
	type PP = **A
	tt := reflect.TypeOf((*PP)(nil)).Elem()

	_, err := uref.Normalize(tt, 1)
	assert.ErrorIs(t, err, uref.ErrReflectTypeNotNamed, "MaxUnwrap=1 cannot reach A")

	got, err := uref.Normalize(tt, 8)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(A{}), got)
}

func TestTypeName(t *testing.T) {
	cases := []struct {
		name string
		typ  reflect.Type
		want string
	}{
		{"plain", reflect.TypeOf(A{}), "reflect_test.A"},
		{"ptr", reflect.TypeOf(&A{}), "reflect_test.A"},
		{"slice of ptr", reflect.TypeOf([]*A{}), "reflect_test.A"},
		{"generic strips params", reflect.TypeOf(G[int]{}), "reflect_test.G"},
		{"wrapped generic", reflect.TypeOf([]W[G[int]]{}), "reflect_test.W"},
		{"builtin", reflect.TypeOf(42), "int"},
		{"unnamed func", reflect.TypeOf(func() {}), "func()"},
		{"nil", nil, "nil"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, uref.TypeName(tc.typ))
		})
	}
}

// TestTypeName_Concurrent stresses the memoization path under concurrency.
func TestTypeName_Concurrent(t *testing.T) {
	types := []reflect.Type{
		reflect.TypeOf(A{}),
		reflect.TypeOf(&A{}),
		reflect.TypeOf(map[string]A{}),
		reflect.TypeOf(G[int]{}),
		reflect.TypeOf(0),
	}
	expect := []string{"reflect_test.A", "reflect_test.A", "reflect_test.A", "reflect_test.G", "int"}

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan string, workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				idx := i % len(types)
				if got := uref.TypeName(types[idx]); got != expect[idx] {
					errCh <- got
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errCh)
	for e := range errCh {
		t.Fatalf("concurrent TypeName mismatch: got=%q", e)
	}
}

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

package builder_test

import (
	"bytes"
	"reflect"
	"runtime"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/tuid/apis"
	"dirpx.dev/tuid/builder"
	"dirpx.dev/tuid/config"
	"dirpx.dev/tuid/generator"
	"dirpx.dev/tuid/registry"
)

// hotGen is a custom generator type registered by tests.
type hotGen struct{}

func (hotGen) Generate(apis.TestContext, int, ...any) (string, error) { return "hot", nil }

// TestBuildRegistry_Basic asserts that BuildRegistry returns a working
// Registry with the built-in generator types.
func TestBuildRegistry_Basic(t *testing.T) {
	b := builder.New()

	// prev may be nil; this must still produce a valid registry.
	reg := b.BuildRegistry(config.DefaultConfig(), nil)
	require.NotNil(t, reg)

	got, ok := reg.LookupGenerator(generator.UUID5Name)
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(generator.UUID5{}), got)
	assert.Empty(t, reg.Entries())
}

// TestBuildRegistry_CopiesPrevious asserts that rebuilding keeps every
// declaration of the previous registry.
func TestBuildRegistry_CopiesPrevious(t *testing.T) {
	cfg := config.DefaultConfig()
	prev := registry.New(cfg)
	require.NoError(t, prev.RegisterGenerator("hot", reflect.TypeOf(hotGen{})))
	require.NoError(t, prev.SetFields("pkg.Suite", apis.SupplementaryFields{Names: []string{"user"}}))
	require.NoError(t, prev.AddProvider("pkg.Suite", apis.ProviderDeclaration{Name: "custom", Expression: "'x'"}))
	require.NoError(t, prev.AddNaming("pkg.Suite", "TestX", apis.NamingConfig{Prefix: "a"}, apis.NamingConfig{Prefix: "b"}))

	reg := builder.New().BuildRegistry(cfg, prev)

	_, ok := reg.LookupGenerator("hot")
	assert.True(t, ok)
	_, ok = reg.LookupGenerator(generator.UUID5Name)
	assert.True(t, ok)

	fields, ok := reg.Fields("pkg.Suite")
	require.True(t, ok)
	assert.Equal(t, []string{"user"}, fields.Names)
	assert.Len(t, reg.Providers("pkg.Suite"), 1)

	naming := reg.Naming("pkg.Suite", "TestX")
	require.Len(t, naming, 2)
	assert.Equal(t, "a", naming[0].Prefix)
	assert.Equal(t, "b", naming[1].Prefix)
}

// TestMigrate_ReportsConflicts asserts that every declaration the target
// rejects is reported and the rest is still copied.
func TestMigrate_ReportsConflicts(t *testing.T) {
	cfg := config.DefaultConfig()
	src := registry.New(cfg)
	require.NoError(t, src.RegisterGenerator("hot", reflect.TypeOf(hotGen{})))
	require.NoError(t, src.SetFields("pkg.Suite", apis.SupplementaryFields{Names: []string{"user"}}))
	require.NoError(t, src.AddNaming("pkg.Suite", "TestX", apis.NamingConfig{Prefix: "a"}))

	dst := registry.New(cfg)
	require.NoError(t, dst.RegisterGenerator("hot", reflect.TypeOf(generator.UUID5{})))
	require.NoError(t, dst.SetFields("pkg.Suite", apis.SupplementaryFields{Names: []string{"locale"}}))

	err := builder.Migrate(dst, src)
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrConflictingRegistration)
	assert.ErrorIs(t, err, registry.ErrFieldsConflict)

	assert.Len(t, dst.Naming("pkg.Suite", "TestX"), 1)
	assert.NoError(t, builder.Migrate(registry.New(cfg), src))
}

// TestBuildRegistry_LogsDroppedDeclarations asserts that a generator type
// clashing with a built-in one is logged instead of silently lost.
func TestBuildRegistry_LogsDroppedDeclarations(t *testing.T) {
	cfg := config.DefaultConfig()
	prev := registry.New(cfg)
	require.NoError(t, prev.RegisterGenerator(generator.UUID5Name, reflect.TypeOf(hotGen{})))

	var buf bytes.Buffer
	log := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Warn})

	reg := builder.New(builder.WithLogger(log)).BuildRegistry(cfg, prev)

	got, ok := reg.LookupGenerator(generator.UUID5Name)
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(generator.UUID5{}), got)
	assert.Contains(t, buf.String(), "declarations dropped while rebuilding registry")
	assert.Contains(t, buf.String(), "uuid5")
}

// TestBuildResolver_Chain asserts the provider, type and default strategies
// are wired in that order.
func TestBuildResolver_Chain(t *testing.T) {
	cfg := config.DefaultConfig()
	b := builder.New()
	reg := b.BuildRegistry(cfg, nil)
	require.NoError(t, reg.RegisterGenerator("hot", reflect.TypeOf(hotGen{})))
	require.NoError(t, reg.AddProvider("pkg.Suite", apis.ProviderDeclaration{Name: "custom", Expression: "'BASE'"}))
	res := b.BuildResolver(cfg, reg)

	tc := apis.TestContext{Class: "pkg.Suite", Method: "TestX"}

	cases := []struct {
		name  string
		nc    apis.NamingConfig
		check func(t *testing.T, out string)
	}{
		{"provider", apis.NamingConfig{Provider: "custom"}, func(t *testing.T, out string) { assert.Equal(t, "BASE", out) }},
		{"type", apis.NamingConfig{Generator: "hot"}, func(t *testing.T, out string) { assert.Equal(t, "hot", out) }},
		{"uuid5", apis.NamingConfig{Generator: "UUID5"}, func(t *testing.T, out string) {
			_, err := uuid.Parse(out)
			assert.NoError(t, err)
		}},
		{"default", apis.NamingConfig{}, func(t *testing.T, out string) { assert.Equal(t, "params: [1]", out) }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			gen, err := res.Resolve(tc, c.nc)
			require.NoError(t, err)
			out, err := gen.Generate(tc, 1, 1)
			require.NoError(t, err)
			c.check(t, out)
		})
	}
}

// TestBuildResolver_Concurrent resolves and generates from many goroutines.
func TestBuildResolver_Concurrent(t *testing.T) {
	cfg := config.DefaultConfig()
	b := builder.New()
	reg := b.BuildRegistry(cfg, nil)
	require.NoError(t, reg.AddProvider("pkg.Suite", apis.ProviderDeclaration{Name: "custom", Expression: "method + string(count)"}))
	res := b.BuildResolver(cfg, reg)

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan string, workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			tc := apis.TestContext{Class: "pkg.Suite", Method: "TestX"}
			for i := 0; i < 500; i++ {
				gen, err := res.Resolve(tc, apis.NamingConfig{Provider: "custom"})
				if err != nil {
					errCh <- err.Error()
					return
				}
				if out, err := gen.Generate(tc, 7); err != nil || out != "TestX7" {
					errCh <- out
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errCh)
	for e := range errCh {
		t.Fatalf("concurrent resolve mismatch: %s", e)
	}
}

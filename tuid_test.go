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

package tuid

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"

	"dirpx.dev/tuid/apis"
	"dirpx.dev/tuid/builder"
	"dirpx.dev/tuid/config"
)

// countingBuilder delegates to the default builder and records calls.
type countingBuilder struct {
	mu         sync.Mutex
	inner      apis.Builder
	lastCfg    apis.Config
	lastPrev   apis.Registry
	regCounter int
	resCounter int
}

func newCountingBuilder() *countingBuilder {
	return &countingBuilder{inner: builder.New()}
}

func (b *countingBuilder) BuildRegistry(cfg apis.Config, prev apis.Registry) apis.Registry {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg, b.lastPrev = cfg, prev
	b.regCounter++
	return b.inner.BuildRegistry(cfg, prev)
}

func (b *countingBuilder) BuildResolver(cfg apis.Config, reg apis.Registry) apis.Resolver {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg = cfg
	b.resCounter++
	return b.inner.BuildResolver(cfg, reg)
}

func (b *countingBuilder) counts() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.regCounter, b.resCounter
}

// Reset to a clean snapshot using our test builder.
// Pins are reset because nil reg/res are passed.
func resetWithBuilder(tb testing.TB, b apis.Builder) {
	tb.Helper()
	cfg := config.DefaultConfig()
	SetAll(&cfg, nil, nil, b, hclog.NewNullLogger())
}

func TestSetConfig_Rebuilds_Unpinned(t *testing.T) {
	b := newCountingBuilder()
	resetWithBuilder(t, b)

	check := func(cond bool, msg string) {
		t.Helper()
		if !cond {
			t.Fatal(msg)
		}
	}

	_ = Registry().AddNaming("pkg.Suite", "TestX", apis.NamingConfig{Prefix: "ID-"})
	s1Reg := Registry()
	s1Res := Resolver()

	SetConfig(config.NewConfig(config.WithSeparator("_")))

	check(Registry() != s1Reg, "registry was not rebuilt on SetConfig (unpinned)")
	check(Resolver() != s1Res, "resolver was not rebuilt on SetConfig (unpinned)")
	check(Config().Separator == "_", "config not published")

	b.mu.Lock()
	gotCfg, gotPrev := b.lastCfg, b.lastPrev
	b.mu.Unlock()
	check(gotCfg.Separator == "_", "builder received wrong cfg")
	check(gotPrev == s1Reg, "builder did not receive the previous registry")

	// Declarations survive the rebuild.
	check(len(Registry().Naming("pkg.Suite", "TestX")) == 1, "naming config lost on rebuild")
}

func TestSetConfig_SanitizesInvalidPattern(t *testing.T) {
	resetWithBuilder(t, newCountingBuilder())

	cfg := config.DefaultConfig()
	cfg.InstancePattern = "no verb"
	SetConfig(cfg)

	if got := Config().InstancePattern; got != config.DefaultInstancePattern {
		t.Fatalf("InstancePattern = %q, want default", got)
	}
}

func TestSetRegistry_PinsRegistry_and_RebuildsResolverIfUnpinned(t *testing.T) {
	b := newCountingBuilder()
	resetWithBuilder(t, b)

	custom := builder.New().BuildRegistry(config.DefaultConfig(), nil)
	SetRegistry(custom)
	if !IsRegistryPinned() {
		t.Fatalf("SetRegistry should pin the registry")
	}

	beforeRes := Resolver()
	SetConfig(config.NewConfig(config.WithDelimiter("; ")))

	if Registry() != custom {
		t.Fatalf("pinned registry was rebuilt unexpectedly")
	}
	if Resolver() == beforeRes {
		t.Fatalf("resolver was not rebuilt when cfg changed and res not pinned")
	}
}

func TestSetResolver_PinsResolver(t *testing.T) {
	b := newCountingBuilder()
	resetWithBuilder(t, b)

	custom := builder.New().BuildResolver(Config(), Registry())
	SetResolver(custom)
	regBefore := Registry()

	SetConfig(config.NewConfig(config.WithDelimiter("; ")))

	if Resolver() != custom {
		t.Fatalf("pinned resolver was rebuilt unexpectedly")
	}
	if Registry() == regBefore {
		t.Fatalf("registry was not rebuilt on SetConfig when resolver is pinned")
	}
}

func TestSetBuilder_Rebuilds_Only_Unpinned(t *testing.T) {
	a := newCountingBuilder()
	resetWithBuilder(t, a)
	PinResolver()
	resBefore := Resolver()

	b := newCountingBuilder()
	SetBuilder(b)

	regs, ress := b.counts()
	if regs != 1 || ress != 0 {
		t.Fatalf("SetBuilder built reg=%d res=%d, want 1 and 0", regs, ress)
	}
	if Resolver() != resBefore {
		t.Fatalf("pinned resolver was rebuilt after SetBuilder")
	}
	if Builder() != b {
		t.Fatalf("builder not published")
	}
}

func TestUnpin_Allows_Rebuild_After(t *testing.T) {
	b := newCountingBuilder()
	resetWithBuilder(t, b)

	PinRegistry()
	PinResolver()

	reg1 := Registry()
	res1 := Resolver()
	SetConfig(config.NewConfig(config.WithSeparator("-")))
	if Registry() != reg1 || Resolver() != res1 {
		t.Fatalf("pinned layers should not rebuild on SetConfig")
	}

	UnpinRegistry()
	UnpinResolver()
	SetConfig(config.NewConfig(config.WithSeparator("+")))
	if Registry() == reg1 {
		t.Fatalf("registry should rebuild after UnpinRegistry+SetConfig")
	}
	if Resolver() == res1 {
		t.Fatalf("resolver should rebuild after UnpinResolver+SetConfig")
	}
}

func TestSetLogger(t *testing.T) {
	resetWithBuilder(t, newCountingBuilder())

	l := hclog.New(&hclog.LoggerOptions{Name: "custom"})
	SetLogger(l)
	if Logger() != l || Default().Logger() != l {
		t.Fatalf("logger not published")
	}

	SetLogger(nil)
	if Logger() == nil {
		t.Fatalf("nil logger should fall back to the null logger")
	}
}

func TestGlobalTUID(t *testing.T) {
	resetWithBuilder(t, newCountingBuilder())

	if err := Registry().AddProvider("pkg.Suite", apis.ProviderDeclaration{Name: "answer", Expression: "'42'"}); err != nil {
		t.Fatalf("AddProvider: %v", err)
	}
	if err := Registry().AddNaming("pkg.Suite", "TestX", apis.NamingConfig{Prefix: "ID-", Postfix: "-end", Provider: "answer"}); err != nil {
		t.Fatalf("AddNaming: %v", err)
	}

	got, err := TUID(apis.TestContext{Class: "pkg.Suite", Method: "TestX"})
	if err != nil || got != "ID-42-end" {
		t.Fatalf("TUID = (%q, %v), want ID-42-end", got, err)
	}

	def, err := DefaultTUID(apis.TestContext{Class: "pkg.Suite", Method: "TestX"}, 7, "x")
	if err != nil || def != "params: [7, x]" {
		t.Fatalf("DefaultTUID = (%q, %v), want params: [7, x]", def, err)
	}

	eng := Default()
	if eng.Registry() != Registry() || eng.Resolver() != Resolver() {
		t.Fatalf("Default engine does not match the published registry and resolver")
	}
	if got, err := eng.TUID(apis.TestContext{Class: "pkg.Suite", Method: "TestX"}); err != nil || got != "ID-42-end" {
		t.Fatalf("Default().TUID = (%q, %v), want ID-42-end", got, err)
	}
}

func TestTUID_Concurrent_With_SetConfig(t *testing.T) {
	resetWithBuilder(t, newCountingBuilder())

	done := make(chan struct{})
	var wg sync.WaitGroup

	readers := runtime.GOMAXPROCS(0) * 4
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			tc := apis.TestContext{Class: "pkg.Suite", Method: "TestX", DataProvider: "d", Parameters: []any{1}}
			for j := 0; j < 1000; j++ {
				if _, err := TUID(tc, j); err != nil {
					t.Errorf("TUID: %v", err)
					return
				}
			}
		}()
	}

	go func() {
		for i := 0; i < 20; i++ {
			SetConfig(config.NewConfig(config.WithDelimiter([]string{", ", "; ", "|"}[i%3])))
			time.Sleep(time.Millisecond)
		}
		close(done)
	}()

	wg.Wait()
	<-done
}

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


package oid

import (
	"reflect"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"dirpx.dev/oid/apis"
	"dirpx.dev/oid/ident"
)

// ---------------------- Helpers ----------------------

func flag(b bool) string {
	if b {
		return "T"
	}
	return "F"
}

// Reset to a clean snapshot using our test builder.
// Pins are reset because we pass nil reg/res.
func resetWithBuilder(tb testing.TB, b apis.Builder, cfg apis.Config) {
	tb.Helper()
	SetAll(&cfg, nil, nil, b)
}

// ---------------------- Test doubles (mocks) ----------------------

type mockRegistry struct {
	id   string
	mu   sync.Mutex
	data map[reflect.Type]ident.TypeTag
}

func newMockRegistry(id string) *mockRegistry {
	return &mockRegistry{id: id, data: make(map[reflect.Type]ident.TypeTag)}
}

func (m *mockRegistry) Register(t reflect.Type, tag ident.TypeTag) error {
	m.mu.Lock()
	m.data[t] = tag
	m.mu.Unlock()
	return nil
}
func (m *mockRegistry) Lookup(t reflect.Type) (ident.TypeTag, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.data[t]
	return n, ok
}
func (m *mockRegistry) LookupTag(tag ident.TypeTag) (reflect.Type, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for t, n := range m.data {
		if n == tag {
			return t, true
		}
	}
	return nil, false
}
func (m *mockRegistry) Entries() []apis.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []apis.Entry
	for t, n := range m.data {
		out = append(out, apis.Entry{Type: t, Tag: n})
	}
	return out
}
func (m *mockRegistry) Count() int { m.mu.Lock(); defer m.mu.Unlock(); return len(m.data) }
func (m *mockRegistry) Reset() {
	m.mu.Lock()
	m.data = make(map[reflect.Type]ident.TypeTag)
	m.mu.Unlock()
}

type mockResolver struct {
	id       string
	resolveC int
	mu       sync.Mutex
}

func (r *mockResolver) Resolve(_ any, cfg apis.Config) ident.TypeTag {
	r.mu.Lock()
	r.resolveC++
	r.mu.Unlock()
	return ident.TypeTag(r.id + "." + flag(cfg.IncludeBuiltins) + flag(cfg.MapPreferElem) + strconv.Itoa(cfg.MaxUnwrap))
}

func (r *mockResolver) ResolveType(t reflect.Type, cfg apis.Config) ident.TypeTag {
	return r.Resolve(nil, cfg) + ident.TypeTag("."+t.Name())
}

type mockBuilder struct {
	mu             sync.Mutex
	lastCfg        apis.Config
	lastPrevRegID  string
	lastPrevResID  string
	regCounter     int
	resCounter     int
	returnFixedReg apis.Registry // optional override
	returnFixedRes apis.Resolver // optional override
}

func (b *mockBuilder) BuildRegistry(cfg apis.Config, prev apis.Registry) apis.Registry {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg = cfg
	if mr, ok := prev.(*mockRegistry); ok {
		b.lastPrevRegID = mr.id
	}
	if b.returnFixedReg != nil {
		return b.returnFixedReg
	}
	b.regCounter++
	return newMockRegistry("reg" + strconv.Itoa(b.regCounter))
}

func (b *mockBuilder) BuildResolver(cfg apis.Config, _ apis.Registry, prev apis.Resolver) apis.Resolver {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg = cfg
	if mr, ok := prev.(*mockResolver); ok {
		b.lastPrevResID = mr.id
	}
	if b.returnFixedRes != nil {
		return b.returnFixedRes
	}
	b.resCounter++
	return &mockResolver{id: "res" + strconv.Itoa(b.resCounter)}
}

func (b *mockBuilder) counters() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.regCounter, b.resCounter
}

// nilBuilder returns nil layers to exercise the publish guard.
type nilBuilder struct{ reg bool }

func (n nilBuilder) BuildRegistry(apis.Config, apis.Registry) apis.Registry {
	if n.reg {
		return newMockRegistry("ok")
	}
	return nil
}
func (nilBuilder) BuildResolver(apis.Config, apis.Registry, apis.Resolver) apis.Resolver { return nil }

var baseCfg = apis.Config{IncludeBuiltins: false, MapPreferElem: true, MaxUnwrap: 8}

// ---------------------- Tests ----------------------

func TestSetConfig_Rebuilds_Unpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, baseCfg)

	s1Reg := Registry()
	s1Res := Resolver()
	s1Mar := Marshaller()

	SetConfig(apis.Config{IncludeBuiltins: true, MapPreferElem: false, MaxUnwrap: 4, MaxDepth: 2})

	if s1Reg == Registry() {
		t.Fatalf("registry was not rebuilt on SetConfig (unpinned)")
	}
	if s1Res == Resolver() {
		t.Fatalf("resolver was not rebuilt on SetConfig (unpinned)")
	}
	if s1Mar == Marshaller() || Marshaller().Config().MaxDepth != 2 {
		t.Fatalf("marshaller was not rebuilt with the new config: %+v", Marshaller().Config())
	}

	b.mu.Lock()
	gotCfg, prevReg, prevRes := b.lastCfg, b.lastPrevRegID, b.lastPrevResID
	b.mu.Unlock()
	if gotCfg.MaxUnwrap != 4 || !gotCfg.IncludeBuiltins || gotCfg.MapPreferElem {
		t.Fatalf("builder received wrong cfg: %+v", gotCfg)
	}
	if prevReg != "reg1" || prevRes != "res1" {
		t.Fatalf("builder did not see previous layers: reg=%q res=%q", prevReg, prevRes)
	}
}

func TestSetRegistry_PinsRegistry_and_RebuildsResolverIfUnpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, baseCfg)

	customReg := newMockRegistry("custom")
	SetRegistry(customReg)
	if !IsRegistryPinned() {
		t.Fatalf("SetRegistry did not pin the registry")
	}

	beforeRes := Resolver()
	SetConfig(apis.Config{IncludeBuiltins: true, MapPreferElem: true, MaxUnwrap: 8})

	if Registry() != customReg {
		t.Fatalf("pinned registry was rebuilt unexpectedly")
	}
	if Resolver() == beforeRes {
		t.Fatalf("resolver was not rebuilt when cfg changed and res not pinned")
	}
}

func TestSetResolver_PinsResolver(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, baseCfg)

	customRes := &mockResolver{id: "custom"}
	SetResolver(customRes)
	if !IsResolverPinned() {
		t.Fatalf("SetResolver did not pin the resolver")
	}

	regBefore := Registry()
	SetConfig(apis.Config{IncludeBuiltins: true, MapPreferElem: true, MaxUnwrap: 8})

	if Resolver() != customRes {
		t.Fatalf("pinned resolver was rebuilt unexpectedly")
	}
	if Registry() == regBefore {
		t.Fatalf("registry was not rebuilt on SetConfig when resolver is pinned")
	}
}

func TestSetBuilder_Rebuilds_Only_Unpinned(t *testing.T) {
	a := &mockBuilder{}
	resetWithBuilder(t, a, baseCfg)

	SetResolver(&mockResolver{id: "pinned"})
	regBefore := Registry()
	resBefore := Resolver()

	b := &mockBuilder{}
	SetBuilder(b)
	if Builder() != b {
		t.Fatalf("builder was not installed")
	}

	if Registry() == regBefore {
		t.Fatalf("registry did not rebuild after SetBuilder (unpinned)")
	}
	if Resolver() != resBefore {
		t.Fatalf("pinned resolver was rebuilt after SetBuilder")
	}
	if r, s := b.counters(); r != 1 || s != 0 {
		t.Fatalf("new builder counters: got (%d,%d), want (1,0)", r, s)
	}
}

func TestPinned_NoRebuild(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, baseCfg)

	PinRegistry()
	PinResolver()
	r0, s0 := b.counters()
	SetConfig(apis.Config{IncludeBuiltins: true, MaxUnwrap: 3})
	r1, s1 := b.counters()
	if r1 != r0 || s1 != s0 {
		t.Fatalf("SetConfig should not rebuild when both layers are pinned")
	}
	if Config().MaxUnwrap != 3 {
		t.Fatalf("config not applied while pinned: %+v", Config())
	}
}

func TestUnpin_Allows_Rebuild_After(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, baseCfg)

	SetRegistry(Registry())
	SetResolver(Resolver())

	reg1 := Registry()
	res1 := Resolver()
	SetConfig(apis.Config{IncludeBuiltins: true, MapPreferElem: false, MaxUnwrap: 4})
	if Registry() != reg1 || Resolver() != res1 {
		t.Fatalf("pinned layers should not rebuild on SetConfig")
	}

	UnpinRegistry()
	UnpinResolver()
	if IsRegistryPinned() || IsResolverPinned() {
		t.Fatalf("unpin did not clear the pins")
	}
	SetConfig(apis.Config{IncludeBuiltins: false, MapPreferElem: false, MaxUnwrap: 6})
	if Registry() == reg1 {
		t.Fatalf("registry should rebuild after UnpinRegistry+SetConfig")
	}
	if Resolver() == res1 {
		t.Fatalf("resolver should rebuild after UnpinResolver+SetConfig")
	}
}

func TestSetAll_NilLayersPanic(t *testing.T) {
	resetWithBuilder(t, &mockBuilder{}, baseCfg)
	before := st.Load()

	cases := []struct {
		name string
		bld  apis.Builder
		want error
	}{
		{"nil registry", nilBuilder{}, ErrNilRegistry},
		{"nil resolver", nilBuilder{reg: true}, ErrNilResolver},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r != tc.want {
					t.Fatalf("panic: got %v, want %v", r, tc.want)
				}
				if st.Load() != before {
					t.Fatalf("a snapshot was published despite the panic")
				}
			}()
			SetAll(nil, nil, nil, tc.bld)
		})
	}
}

func TestTypeTagOf_UsesResolverAndConfig(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{IncludeBuiltins: true, MapPreferElem: false, MaxUnwrap: 5})

	type token struct{}
	if got := TypeTagOf(token{}); got != "res1.TF5" {
		t.Fatalf("TypeTagOf: got %q, want %q", got, "res1.TF5")
	}
	if got := TypeTagOfType(reflect.TypeOf(token{})); got != "res1.TF5.token" {
		t.Fatalf("TypeTagOfType: got %q, want %q", got, "res1.TF5.token")
	}
}

func TestTypeTagOf_Concurrent_With_SetConfig(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, baseCfg)

	type token struct{}
	done := make(chan struct{})
	var wg sync.WaitGroup

	readers := runtime.GOMAXPROCS(0) * 4
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				_ = TypeTagOf(token{})
				_ = TypeTagOfType(reflect.TypeOf(token{}))
				_, _ = Unmarshal("CUS:1~ADR:1")
			}
		}()
	}

	go func() {
		for i := 0; i < 20; i++ {
			SetConfig(apis.Config{
				IncludeBuiltins: i%2 == 0,
				MapPreferElem:   i%3 == 0,
				MaxUnwrap:       4 + (i % 5),
				MaxDepth:        i % 3,
			})
			time.Sleep(time.Millisecond)
		}
		close(done)
	}()

	wg.Wait()
	<-done
}

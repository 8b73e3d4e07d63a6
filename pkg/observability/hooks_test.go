package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	i := NoopImportHooks{}
	i.OnResolve(ctx, "react", "latest", "18.2.0", nil)
	i.OnAttempt(ctx, "jsdelivr", "script", "https://cdn.jsdelivr.net/npm/react@18.2.0")
	i.OnAttemptComplete(ctx, "jsdelivr", "script", "https://cdn.jsdelivr.net/npm/react@18.2.0", time.Second, nil)
	i.OnImportComplete(ctx, "react", "18.2.0", "jsdelivr", 1, "")

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "search")
	c.OnCacheMiss(ctx, "versions")
	c.OnCacheSet(ctx, "registry", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "data.jsdelivr.com", "/v1/packages/npm/react")
	h.OnResponse(ctx, "GET", "data.jsdelivr.com", "/v1/packages/npm/react", 200, time.Second)
	h.OnError(ctx, "GET", "data.jsdelivr.com", "/v1/packages/npm/react", errors.New("timeout"))
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Import().(NoopImportHooks); !ok {
		t.Error("Import() should return NoopImportHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customImport := &testImportHooks{}
	SetImportHooks(customImport)
	if Import() != customImport {
		t.Error("SetImportHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Import().(NoopImportHooks); !ok {
		t.Error("Reset() should restore NoopImportHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testImportHooks{}
	SetImportHooks(custom)
	SetImportHooks(nil)

	if Import() != custom {
		t.Error("SetImportHooks(nil) should be ignored")
	}
}

type testImportHooks struct{ NoopImportHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

package observability

import (
	"context"
	"time"
)

// Hooks implements every hook category.
type Hooks interface {
	ChartHooks
	CacheHooks
	HTTPHooks
}

// Install registers hs for every category. Several hooks are fanned out in
// the given order.
func Install(hs ...Hooks) {
	var h Hooks
	switch len(hs) {
	case 0:
		return
	case 1:
		h = hs[0]
	default:
		h = multi(hs)
	}
	SetChartHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

type multi []Hooks

func (m multi) OnLoadStart(ctx context.Context, source string) {
	for _, h := range m {
		h.OnLoadStart(ctx, source)
	}
}

func (m multi) OnLoadComplete(ctx context.Context, source string, nodes, issues int, d time.Duration, err error) {
	for _, h := range m {
		h.OnLoadComplete(ctx, source, nodes, issues, d, err)
	}
}

func (m multi) OnChartStart(ctx context.Context, nodes int, guided bool) {
	for _, h := range m {
		h.OnChartStart(ctx, nodes, guided)
	}
}

func (m multi) OnChartComplete(ctx context.Context, cards, edges int, d time.Duration) {
	for _, h := range m {
		h.OnChartComplete(ctx, cards, edges, d)
	}
}

func (m multi) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheHit(ctx, keyType)
	}
}

func (m multi) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (m multi) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range m {
		h.OnCacheSet(ctx, keyType, size)
	}
}

func (m multi) OnRequest(ctx context.Context, method, route string) {
	for _, h := range m {
		h.OnRequest(ctx, method, route)
	}
}

func (m multi) OnResponse(ctx context.Context, method, route string, status int, d time.Duration) {
	for _, h := range m {
		h.OnResponse(ctx, method, route, status, d)
	}
}

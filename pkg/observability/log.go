package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event as a debug log line.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

// Install registers h for every hook category.
func (h *LogHooks) Install() { Install(h) }

func (h *LogHooks) OnLoadStart(_ context.Context, source string) {
	h.Logger.Debug("loading catalog", "source", source)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, source string, nodes, issues int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("catalog load failed", "source", source, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("catalog loaded", "source", source, "nodes", nodes, "issues", issues, "duration", d)
}

func (h *LogHooks) OnChartStart(_ context.Context, nodes int, guided bool) {
	h.Logger.Debug("computing chart", "nodes", nodes, "guided", guided)
}

func (h *LogHooks) OnChartComplete(_ context.Context, cards, edges int, d time.Duration) {
	h.Logger.Debug("chart computed", "cards", cards, "edges", edges, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "route", route, "status", status, "duration", d)
}

var _ Hooks = (*LogHooks)(nil)

// Package analytics records client-side usage events.
package analytics

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// Hit types and categories attached to events.
const (
	HitTypeEvent     = "event"
	CategoryBehavior = "behavior"
)

// Tracker records a named event with properties.
type Tracker interface {
	Track(ctx context.Context, event string, props map[string]any)
}

// Nop discards every event.
type Nop struct{}

// Track implements Tracker.
func (Nop) Track(context.Context, string, map[string]any) {}

// LogTracker writes events as structured log records.
type LogTracker struct {
	log *zap.Logger
}

// NewLogTracker returns a tracker that logs to log under the "analytics" name.
func NewLogTracker(log *zap.Logger) *LogTracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogTracker{log: log.Named("analytics")}
}

// Track implements Tracker.
func (t *LogTracker) Track(_ context.Context, event string, props map[string]any) {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]zap.Field, 0, len(keys)+1)
	fields = append(fields, zap.String("event", event))
	for _, k := range keys {
		fields = append(fields, zap.Any(k, props[k]))
	}
	t.log.Info("track", fields...)
}

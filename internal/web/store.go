package web

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"futuresbot/internal/metrics"
)

// metricBuffer keeps the most recent metrics for /api/metrics.
type metricBuffer struct {
	mu    sync.RWMutex
	items []metrics.Metric
	limit int
}

func newMetricBuffer(limit int) *metricBuffer {
	if limit <= 0 {
		limit = 200
	}
	return &metricBuffer{limit: limit}
}

func (b *metricBuffer) handle(metric metrics.Metric) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = append(b.items, metric)
	if len(b.items) > b.limit {
		b.items = append([]metrics.Metric(nil), b.items[len(b.items)-b.limit:]...)
	}
}

func (b *metricBuffer) snapshot() []metrics.Metric {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]metrics.Metric, len(b.items))
	copy(out, b.items)
	return out
}

// logRecord is one captured log line as served by /api/logs.
type logRecord struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Component string                 `json:"component,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// logBuffer is a logrus hook holding the last limit entries at info level
// or above, so "check logs" works from the browser.
type logBuffer struct {
	mu      sync.RWMutex
	items   []logRecord
	limit   int
	enabled atomic.Bool
}

func newLogBuffer(limit int) *logBuffer {
	if limit <= 0 {
		limit = 200
	}
	b := &logBuffer{limit: limit}
	b.enabled.Store(true)
	return b
}

func (b *logBuffer) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
		logrus.WarnLevel,
		logrus.InfoLevel,
	}
}

func (b *logBuffer) Fire(entry *logrus.Entry) error {
	if !b.enabled.Load() {
		return nil
	}

	record := logRecord{
		Timestamp: entry.Time,
		Level:     entry.Level.String(),
		Message:   entry.Message,
	}

	for k, v := range entry.Data {
		switch k {
		case "component":
			record.Component, _ = v.(string)
			continue
		case requestIDField:
			record.RequestID, _ = v.(string)
			continue
		}
		if record.Fields == nil {
			record.Fields = make(map[string]interface{}, len(entry.Data))
		}
		switch val := v.(type) {
		case error:
			record.Fields[k] = val.Error()
		case fmt.Stringer:
			record.Fields[k] = val.String()
		default:
			record.Fields[k] = val
		}
	}

	b.mu.Lock()
	b.items = append(b.items, record)
	if len(b.items) > b.limit {
		b.items = append([]logRecord(nil), b.items[len(b.items)-b.limit:]...)
	}
	b.mu.Unlock()
	return nil
}

// snapshot returns the newest n records, or all of them when n <= 0.
func (b *logBuffer) snapshot(n int) []logRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()

	items := b.items
	if n > 0 && n < len(items) {
		items = items[len(items)-n:]
	}
	out := make([]logRecord, len(items))
	copy(out, items)
	return out
}

func (b *logBuffer) close() {
	b.enabled.Store(false)
}

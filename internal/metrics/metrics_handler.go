package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"futuresbot/config"
	"futuresbot/logger"
)

// Metric is one emitted measurement. Fields never contains the metric name,
// type or value.
type Metric struct {
	Timestamp time.Time
	Component string
	Name      string
	Value     interface{}
	Type      string
	Fields    logger.Fields
}

// MetricHandler receives every emitted metric on the emitting goroutine, so
// it must not block.
type MetricHandler func(Metric)

type MetricHandlerID uint64

// UsedWeightMetric is the gauge emitted for Binance request-weight headers.
const UsedWeightMetric = "used_weight"

type registry struct {
	mu       sync.RWMutex
	handlers map[MetricHandlerID]MetricHandler
	lastID   MetricHandlerID
}

func newRegistry() *registry {
	return &registry{handlers: make(map[MetricHandlerID]MetricHandler)}
}

func (r *registry) add(h MetricHandler) MetricHandlerID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastID++
	r.handlers[r.lastID] = h
	return r.lastID
}

func (r *registry) remove(id MetricHandlerID) {
	r.mu.Lock()
	delete(r.handlers, id)
	r.mu.Unlock()
}

// snapshot returns the handlers in registration order.
func (r *registry) snapshot() []MetricHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.handlers) == 0 {
		return nil
	}
	ids := make([]MetricHandlerID, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]MetricHandler, len(ids))
	for i, id := range ids {
		out[i] = r.handlers[id]
	}
	return out
}

var (
	handlers   = newRegistry()
	usedWeight atomic.Bool
)

func init() {
	usedWeight.Store(true)
}

// Configure toggles optional metric families.
func Configure(cfg config.MetricsConfig) {
	usedWeight.Store(cfg.UsedWeight)
}

func UsedWeightEnabled() bool {
	return usedWeight.Load()
}

// RegisterMetricHandler adds handler to the dispatch list. A nil handler is
// ignored and gets the zero id.
func RegisterMetricHandler(handler MetricHandler) MetricHandlerID {
	if handler == nil {
		return 0
	}
	return handlers.add(handler)
}

func UnregisterMetricHandler(id MetricHandlerID) {
	if id == 0 {
		return
	}
	handlers.remove(id)
}

// EmitMetric logs the metric at debug level and hands it to every registered
// handler. A nil log skips the local log line; an empty name is ignored.
func EmitMetric(log *logger.Log, component string, metric string, value interface{}, metricType string, fields logger.Fields) {
	if metric == "" {
		return
	}
	if metric == UsedWeightMetric && !UsedWeightEnabled() {
		return
	}
	if metricType == "" {
		metricType = "counter"
	}

	m := Metric{
		Timestamp: time.Now(),
		Component: component,
		Name:      metric,
		Value:     value,
		Type:      metricType,
		Fields:    make(logger.Fields, len(fields)),
	}
	for k, v := range fields {
		m.Fields[k] = v
	}

	if log != nil {
		log.WithComponent(component).WithFields(m.Fields).WithFields(logger.Fields{
			"metric":      m.Name,
			"metric_type": m.Type,
			"value":       m.Value,
		}).Debug("metric")
	}

	for _, h := range handlers.snapshot() {
		h(m)
	}
}

// RecordOperation counts one facade operation by outcome.
func RecordOperation(log *logger.Log, operation, outcome, kind string) {
	fields := logger.Fields{
		"operation": operation,
		"outcome":   outcome,
		"unit":      "count",
	}
	if kind != "" {
		fields["kind"] = kind
	}
	EmitMetric(log, "bot", "operation_total", int64(1), "counter", fields)
}

package binancemetrics

import (
	"net/http"
	"strconv"

	"futuresbot/internal/metrics"
	"futuresbot/logger"
)

var usedWeightHeaders = []struct {
	key    string
	window string
}{
	{"X-MBX-USED-WEIGHT-1M", "1m"},
	{"X-MBX-USED-WEIGHT", "1m"},
	{"X-MBX-USED-WEIGHT-1S", "1s"},
}

var orderCountHeaders = []struct {
	key    string
	window string
}{
	{"X-MBX-ORDER-COUNT-1M", "1m"},
	{"X-MBX-ORDER-COUNT-10S", "10s"},
}

// ReportUsedWeight inspects Binance used-weight headers and emits a gauge for
// the first numeric value found. It returns the parsed weight and whether a
// metric was recorded. Order-count headers, present on order endpoints, are
// reported alongside.
func ReportUsedWeight(log *logger.Log, resp *http.Response, component, endpoint string) (float64, bool) {
	if resp == nil || !metrics.UsedWeightEnabled() {
		return 0, false
	}

	for _, h := range orderCountHeaders {
		if count, ok := parseHeader(log, resp, component, h.key); ok {
			metrics.EmitMetric(log, component, "order_count", count, "gauge", logger.Fields{
				"exchange": "binance",
				"endpoint": endpoint,
				"window":   h.window,
			})
		}
	}

	for _, h := range usedWeightHeaders {
		used, ok := parseHeader(log, resp, component, h.key)
		if !ok {
			continue
		}

		metrics.EmitMetric(log, component, metrics.UsedWeightMetric, used, "gauge", logger.Fields{
			"exchange": "binance",
			"endpoint": endpoint,
			"window":   h.window,
		})
		return used, true
	}

	return 0, false
}

func parseHeader(log *logger.Log, resp *http.Response, component, key string) (float64, bool) {
	value := resp.Header.Get(key)
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		if log != nil {
			log.WithComponent(component).WithFields(logger.Fields{
				"header": key,
				"value":  value,
			}).WithError(err).Debug("failed to parse rate limit header")
		}
		return 0, false
	}
	return parsed, true
}

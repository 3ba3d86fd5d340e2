package exchange

import (
	"net/http"
	"time"

	binancemetrics "futuresbot/internal/metrics/binance"
	"futuresbot/logger"
)

func reportResponse(log *logger.Log, req *http.Request, resp *http.Response, elapsed time.Duration) {
	path := req.URL.Path
	binancemetrics.ReportUsedWeight(log, resp, "exchange", path)
	logger.LogPerformanceEntry(log.WithFields(logger.Fields{
		"method": req.Method,
		"status": resp.StatusCode,
	}), "exchange", path, elapsed, nil)
}

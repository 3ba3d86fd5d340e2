package logger

import (
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// wrapperPackages are skipped when looking for the caller of a log call.
var wrapperPackages = []string{
	"github.com/sirupsen/logrus.",
	"futuresbot/logger.",
}

// callerHook points entry.Caller at the first frame outside logrus and the
// Log/Entry wrappers, so file:line names the code that logged.
type callerHook struct{}

func (h *callerHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *callerHook) Fire(entry *logrus.Entry) error {
	var pcs [24]uintptr
	n := runtime.Callers(4, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	for frame, more := frames.Next(); more; frame, more = frames.Next() {
		if isWrapperFrame(frame.Function) {
			continue
		}
		entry.Caller = &frame
		return nil
	}
	return nil
}

func isWrapperFrame(fn string) bool {
	for _, prefix := range wrapperPackages {
		if strings.HasPrefix(fn, prefix) || strings.HasPrefix(fn, "*"+prefix) {
			return true
		}
	}
	return false
}

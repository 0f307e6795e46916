// Package log is the ambient logging setup shared by every command in
// this module, mirroring the teacher's own pkg/util logging idiom:
// github.com/go-kit/log as the base logger, the go-kit/log/level
// package for leveled filtering, and a rate-limited wrapper for noisy
// call sites.
package log

import (
	"os"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/time/rate"
)

// New builds the process-wide base logger: logfmt to stderr, with
// caller and timestamp fields, matching the teacher's NewDefaultLogger.
func New() log.Logger {
	l := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	l = log.With(l, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	return l
}

// WithLevel wraps l so that only records at or above levelName pass
// through (one of "debug", "info", "warn", "error"); unrecognised names
// fall back to "info".
func WithLevel(l log.Logger, levelName string) log.Logger {
	var lv level.Option
	switch levelName {
	case "debug":
		lv = level.AllowDebug()
	case "warn":
		lv = level.AllowWarn()
	case "error":
		lv = level.AllowError()
	default:
		lv = level.AllowInfo()
	}
	return level.NewFilter(l, lv)
}

// RateLimitedLogger drops log lines once a per-second budget is
// exceeded, for call sites inside a hot loop (e.g. a rehash-retry path)
// that would otherwise flood stderr.
type RateLimitedLogger struct {
	limiter *rate.Limiter
	logger  log.Logger
}

// NewRateLimitedLogger allows at most logsPerSecond log calls per
// second through to logger, dropping the rest silently.
func NewRateLimitedLogger(logsPerSecond int, logger log.Logger) *RateLimitedLogger {
	return &RateLimitedLogger{
		limiter: rate.NewLimiter(rate.Limit(logsPerSecond), 1),
		logger:  logger,
	}
}

// Log implements log.Logger, dropping the call if the rate budget is
// exhausted.
func (l *RateLimitedLogger) Log(keyvals ...interface{}) error {
	if !l.limiter.AllowN(time.Now(), 1) {
		return nil
	}
	return l.logger.Log(keyvals...)
}

package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AccessLogConfig controls the access log middleware
type AccessLogConfig struct {
	// Skip returns true for requests that should not be logged
	Skip func(c fiber.Ctx) bool
}

// AccessLog writes one structured line per request to the given logger
func AccessLog(logger *zap.Logger, cfg AccessLogConfig) fiber.Handler {
	if logger == nil {
		logger = zap.L()
	}
	return func(c fiber.Ctx) error {
		if cfg.Skip != nil && cfg.Skip(c) {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		status := responseStatus(c, err)

		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}

		level := zapcore.InfoLevel
		switch {
		case status >= fiber.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= fiber.StatusBadRequest:
			level = zapcore.WarnLevel
		}

		if ce := logger.Check(level, "http request"); ce != nil {
			fields := []zap.Field{
				zap.String("request_id", requestid.FromContext(c)),
				zap.String("method", c.Method()),
				zap.String("route", route),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.IP()),
				zap.String("user_agent", c.Get(fiber.HeaderUserAgent)),
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}
			ce.Write(fields...)
		}

		return err
	}
}

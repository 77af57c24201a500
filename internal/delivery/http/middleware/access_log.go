package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// AccessLogMiddleware tags every request with an X-Request-ID and logs one line per request.
type AccessLogMiddleware struct {
	logger *log.Logger
	quiet  map[string]struct{}
}

// NewAccessLogMiddleware logs every path except the quiet ones, such as health checks and metrics scraping.
// Quiet paths still get a request id.
func NewAccessLogMiddleware(logger *log.Logger, quietPaths ...string) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	quiet := make(map[string]struct{}, len(quietPaths))
	for _, p := range quietPaths {
		quiet[p] = struct{}{}
	}
	return &AccessLogMiddleware{logger: logger, quiet: quiet}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(fiber.HeaderXRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, rid)
		c.Locals(CtxRequestIDKey, rid)

		err := c.Next()

		if _, skip := m.quiet[c.Path()]; skip {
			return err
		}

		uid := "-"
		if id, ok := UserIDFromCtx(c); ok {
			uid = id.String()
		}

		m.logger.Printf(
			"[HTTP] %s %s status=%d latency=%s rid=%s ip=%s uid=%s resp_bytes=%d ua=%q",
			c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start).Round(time.Microsecond),
			rid, c.IP(), uid, len(c.Response().Body()), c.Get(fiber.HeaderUserAgent),
		)

		return err
	}
}

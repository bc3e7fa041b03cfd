package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/factwatch/internal/session"
)

const sessionKey = "session"

// RequestLogger logs one line per request. The query string is left out
// since it can carry user input.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// SessionMiddleware attaches the visitor's session, creating one and setting
// the cookie when needed.
func (s *Server) SessionMiddleware() gin.HandlerFunc {
	name := s.Config.Server.CookieName
	return func(c *gin.Context) {
		id, _ := c.Cookie(name)
		sess, created := s.Sessions.GetOrCreate(id)
		if created {
			s.Logger.Debug("session created", "sessions", s.Sessions.Len())
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(name, sess.ID, int(s.Sessions.TTL().Seconds()), "/", "", false, true)
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/harmonysync/backend/internal/adapters/credentials"
	"github.com/harmonysync/backend/internal/domain/entities"
)

// setupMiddleware configures the global middleware chain.
func (s *Server) setupMiddleware(sessions *credentials.SessionManager) {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())

	// Request logging
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"ip", v.RemoteIP,
				"request_id", v.RequestID,
			)
			return nil
		},
	}))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.config.Security.CORSAllowedOrigins,
		AllowMethods:     s.config.Security.CORSAllowedMethods,
		AllowHeaders:     s.config.Security.CORSAllowedHeaders,
		AllowCredentials: true,
	}))

	s.echo.Use(middleware.Secure())
	s.echo.Use(middleware.BodyLimit("1M"))
	s.echo.Use(middleware.Gzip())

	// Rate limiting
	if s.config.Security.RateLimitRequests > 0 {
		window := s.config.Security.RateLimitWindow
		if window <= 0 {
			window = time.Minute
		}
		perSecond := rate.Limit(float64(s.config.Security.RateLimitRequests) / window.Seconds())
		s.echo.Use(middleware.RateLimiter(
			middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:  perSecond,
				Burst: s.config.Security.RateLimitRequests,
			}),
		))
	}

	s.echo.Use(s.sessionMiddleware(sessions))
}

// sessionMiddleware ensures every request carries a session. A valid cookie
// keeps its session id; anything else gets a fresh session and cookie. The id
// travels in the request context so stores can key credentials by it.
func (s *Server) sessionMiddleware(sessions *credentials.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sessionID string

			if cookie, err := c.Cookie(sessions.CookieName()); err == nil {
				if id, err := sessions.Verify(cookie.Value); err == nil {
					sessionID = id
				}
			}

			if sessionID == "" {
				id, value, err := sessions.Issue()
				if err != nil {
					return err
				}
				sessionID = id

				c.SetCookie(&http.Cookie{
					Name:     sessions.CookieName(),
					Value:    value,
					Path:     "/",
					Expires:  time.Now().Add(sessions.TTL()),
					HttpOnly: true,
					Secure:   s.config.App.IsProduction(),
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := credentials.WithSessionID(c.Request().Context(), sessionID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// requireAuth rejects requests whose session holds no Google credential.
func (s *Server) requireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := s.authService.IsAuthenticated(c.Request().Context())
			if err != nil {
				return err
			}
			if !ok {
				return entities.NewAuthError("authentication required")
			}

			return next(c)
		}
	}
}
